package common

import (
	"errors"
	"fmt"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
)

func TestConvertMongoError_Nil(t *testing.T) {
	if got := ConvertMongoError(nil); got != nil {
		t.Errorf("nil phải giữ nguyên nil, nhận được: %v", got)
	}
}

func TestConvertMongoError_NoDocuments(t *testing.T) {
	got := ConvertMongoError(mongo.ErrNoDocuments)
	if !errors.Is(got, ErrNotFound) {
		t.Errorf("ErrNoDocuments phải thành ErrNotFound, nhận được: %v", got)
	}
}

func TestConvertMongoError_GiuNguyenErrNotFound(t *testing.T) {
	got := ConvertMongoError(ErrNotFound)
	if !errors.Is(got, ErrNotFound) {
		t.Errorf("ErrNotFound phải được giữ nguyên, nhận được: %v", got)
	}
}

func TestConvertMongoError_DuplicateKey(t *testing.T) {
	dupErr := mongo.WriteException{
		WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key error"}},
	}
	got := ConvertMongoError(dupErr)
	var appErr *Error
	if !errors.As(got, &appErr) {
		t.Fatalf("lỗi duplicate phải là *Error, nhận được: %T", got)
	}
	if appErr.StatusCode != StatusConflict {
		t.Errorf("duplicate key phải map sang 409, nhận được: %d", appErr.StatusCode)
	}
}

func TestErrorIs_SoSanhTheoCodeVaMessage(t *testing.T) {
	err := NewError(ErrCodeDatabaseQuery, "Không tìm thấy dữ liệu", StatusNotFound, nil)
	if !errors.Is(err, ErrNotFound) {
		t.Error("error cùng code và message phải Is nhau")
	}
	if errors.Is(err, ErrDuplicate) {
		t.Error("error khác message không được Is nhau")
	}
	if errors.Is(err, fmt.Errorf("lỗi thường")) {
		t.Error("error thường không được Is với *Error")
	}
}
