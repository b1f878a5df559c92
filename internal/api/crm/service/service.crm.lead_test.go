// Package crmsvc - test allow-list PATCH lead và dựng customer khi chuyển đổi.
package crmsvc

import (
	"errors"
	"reflect"
	"testing"

	crmmodels "biz_crm/internal/api/crm/models"
	"biz_crm/internal/common"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestValidateLeadPatchFields_FieldHopLe(t *testing.T) {
	fields := []string{"name", "email", "phone", "status", "source", "notes"}
	if err := ValidateLeadPatchFields(fields, false); err != nil {
		t.Errorf("các field trong allow-list phải được chấp nhận, lỗi: %v", err)
	}
}

func TestValidateLeadPatchFields_FieldLa(t *testing.T) {
	err := ValidateLeadPatchFields([]string{"name", "isArchived"}, true)
	if err == nil {
		t.Fatal("field ngoài allow-list phải bị từ chối")
	}
	var appErr *common.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("lỗi phải là *common.Error, nhận được: %T", err)
	}
	if appErr.StatusCode != common.StatusBadRequest {
		t.Errorf("field lạ phải trả 400, nhận được: %d", appErr.StatusCode)
	}
	details, ok := appErr.Details.(map[string]interface{})
	if !ok {
		t.Fatalf("details phải chứa allowedFields: %v", appErr.Details)
	}
	if _, ok := details["allowedFields"]; !ok {
		t.Error("details thiếu allowedFields")
	}
}

func TestValidateLeadPatchFields_AssignedAgent(t *testing.T) {
	// Admin được phép
	if err := ValidateLeadPatchFields([]string{"assignedAgent"}, true); err != nil {
		t.Errorf("admin được thay đổi assignedAgent, lỗi: %v", err)
	}

	// Agent bị từ chối 403
	err := ValidateLeadPatchFields([]string{"assignedAgent"}, false)
	if err == nil {
		t.Fatal("agent thay đổi assignedAgent phải bị từ chối")
	}
	var appErr *common.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("lỗi phải là *common.Error, nhận được: %T", err)
	}
	if appErr.StatusCode != common.StatusForbidden {
		t.Errorf("agent phải nhận 403, nhận được: %d", appErr.StatusCode)
	}
}

func TestBuildCustomerFromLead(t *testing.T) {
	agent := primitive.NewObjectID()
	lead := &crmmodels.Lead{
		ID:            primitive.NewObjectID(),
		Name:          "Nguyễn Văn An",
		Email:         "an@example.com",
		Phone:         "0901234567",
		Source:        "Website",
		AssignedAgent: agent,
	}

	customer := BuildCustomerFromLead(lead)

	if customer.Name != lead.Name || customer.Email != lead.Email || customer.Phone != lead.Phone {
		t.Error("thông tin liên hệ phải được kế thừa từ lead")
	}
	if customer.Company != "Website" {
		t.Errorf("company phải lấy từ source, nhận được: %s", customer.Company)
	}
	if customer.Owner != agent {
		t.Error("owner phải kế thừa assignedAgent")
	}
	if customer.ConvertedFrom != lead.ID {
		t.Error("convertedFrom phải trỏ về lead gốc")
	}
	if !reflect.DeepEqual([]string(customer.Tags), []string{"converted-lead"}) {
		t.Errorf("tags phải là [converted-lead], nhận được: %v", customer.Tags)
	}
	if customer.Status != crmmodels.CustomerStatusActive {
		t.Errorf("customer mới phải ở trạng thái Active, nhận được: %s", customer.Status)
	}
	if customer.Notes == nil || len(customer.Notes) != 0 {
		t.Errorf("notes khởi tạo phải là slice rỗng, nhận được: %v", customer.Notes)
	}
}

func TestBuildCustomerFromLead_SourceRong(t *testing.T) {
	lead := &crmmodels.Lead{Name: "B", Email: "b@example.com"}
	customer := BuildCustomerFromLead(lead)
	if customer.Company != "Not specified" {
		t.Errorf("source rỗng thì company phải là 'Not specified', nhận được: %s", customer.Company)
	}
}

func TestBuildSort(t *testing.T) {
	got := buildSort("name", "asc", "createdAt", -1, leadSortFields)
	want := bson.D{{Key: "name", Value: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("sort theo name asc, nhận được: %v", got)
	}
}

func TestBuildSort_FieldKhongChoPhep(t *testing.T) {
	got := buildSort("password", "asc", "createdAt", -1, leadSortFields)
	if got[0].Key != "createdAt" {
		t.Errorf("field ngoài danh sách phải rơi về mặc định, nhận được: %v", got)
	}
	if got[0].Value != 1 {
		t.Errorf("order hợp lệ vẫn được áp dụng với field mặc định, nhận được: %v", got)
	}
}

func TestBuildSort_OrderKhongHopLe(t *testing.T) {
	got := buildSort("", "sideways", "dueDate", 1, []string{"dueDate"})
	want := bson.D{{Key: "dueDate", Value: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("order không hợp lệ phải rơi về mặc định, nhận được: %v", got)
	}
}
