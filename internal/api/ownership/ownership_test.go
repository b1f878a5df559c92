// Package ownership - test resolver phạm vi dữ liệu theo role.
package ownership

import (
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestListFilter_AdminKhongBiLoc(t *testing.T) {
	userID := primitive.NewObjectID()
	filter := Lead.ListFilter(userID, true)
	if len(filter) != 0 {
		t.Errorf("admin phải nhận filter rỗng, nhận được: %v", filter)
	}
}

func TestListFilter_MotField_EqualsTrucTiep(t *testing.T) {
	userID := primitive.NewObjectID()
	filter := Lead.ListFilter(userID, false)
	if got, ok := filter["assignedAgent"]; !ok || got != userID {
		t.Errorf("lead agent phải lọc equals assignedAgent, nhận được: %v", filter)
	}
	if _, hasOr := filter["$or"]; hasOr {
		t.Error("một field sở hữu không được sinh $or")
	}
}

func TestListFilter_NhieuField_SinhOr(t *testing.T) {
	userID := primitive.NewObjectID()
	filter := Customer.ListFilter(userID, false)
	or, ok := filter["$or"].([]bson.M)
	if !ok {
		t.Fatalf("customer agent phải lọc bằng $or, nhận được: %v", filter)
	}
	if len(or) != 2 {
		t.Fatalf("customer có 2 field sở hữu, $or có %d nhánh", len(or))
	}
	if or[0]["owner"] != userID || or[1]["agentId"] != userID {
		t.Errorf("$or phải gồm owner và agentId: %v", or)
	}
}

func TestOwns(t *testing.T) {
	userID := primitive.NewObjectID()
	other := primitive.NewObjectID()

	if !Owns(userID, true, other) {
		t.Error("admin phải luôn có quyền")
	}
	if !Owns(userID, false, other, userID) {
		t.Error("agent có quyền khi một field sở hữu trỏ tới mình")
	}
	if Owns(userID, false, other) {
		t.Error("agent không có quyền khi không field nào trỏ tới mình")
	}
	if Owns(userID, false, primitive.NilObjectID) {
		t.Error("field sở hữu rỗng không được tính là khớp")
	}
}

func TestSearchRegexOr_EscapeVaCaseInsensitive(t *testing.T) {
	filter := SearchRegexOr("a.b+c", "name", "email")
	or, ok := filter["$or"].([]bson.M)
	if !ok || len(or) != 2 {
		t.Fatalf("SearchRegexOr phải sinh $or 2 nhánh, nhận được: %v", filter)
	}
	cond, ok := or[0]["name"].(bson.M)
	if !ok {
		t.Fatalf("nhánh đầu phải là điều kiện trên name: %v", or[0])
	}
	if cond["$regex"] != `a\.b\+c` {
		t.Errorf("term phải được escape, nhận được: %v", cond["$regex"])
	}
	if cond["$options"] != "i" {
		t.Errorf("regex phải không phân biệt hoa thường, options: %v", cond["$options"])
	}
}

func TestSearchRegexOr_TermRong(t *testing.T) {
	if filter := SearchRegexOr("", "name"); len(filter) != 0 {
		t.Errorf("term rỗng phải trả filter rỗng, nhận được: %v", filter)
	}
}

func TestApply_HaiNhomOr_KhongBiFlatten(t *testing.T) {
	userID := primitive.NewObjectID()
	own := Customer.ListFilter(userID, false)
	search := SearchRegexOr("an", "name", "email")

	result := Apply(bson.M{"isArchived": false}, own, search)

	if result["isArchived"] != false {
		t.Error("điều kiện nền phải được giữ nguyên")
	}
	and, ok := result["$and"].([]bson.M)
	if !ok {
		t.Fatalf("hai nhóm $or phải nằm trong $and, nhận được: %v", result)
	}
	if len(and) != 2 {
		t.Fatalf("$and phải có đúng 2 nhóm, có %d", len(and))
	}
	if !reflect.DeepEqual(and[0], own) {
		t.Errorf("nhóm đầu phải là ownership: %v", and[0])
	}
	if !reflect.DeepEqual(and[1], search) {
		t.Errorf("nhóm sau phải là search: %v", and[1])
	}
	if _, hasOr := result["$or"]; hasOr {
		t.Error("không được flatten $or lên top-level khi có 2 nhóm")
	}
}

func TestApply_MotNhomOr_GanThang(t *testing.T) {
	search := SearchRegexOr("an", "name")
	result := Apply(bson.M{"isArchived": false}, nil, search)
	if _, hasAnd := result["$and"]; hasAnd {
		t.Errorf("một nhóm duy nhất không cần $and: %v", result)
	}
	if _, hasOr := result["$or"]; !hasOr {
		t.Errorf("nhóm $or duy nhất phải được gán lên base: %v", result)
	}
}

func TestApply_NhomPhang_MergeKeys(t *testing.T) {
	userID := primitive.NewObjectID()
	own := Lead.ListFilter(userID, false)
	result := Apply(bson.M{"isArchived": false}, own, nil)
	if result["assignedAgent"] != userID {
		t.Errorf("nhóm phẳng phải được merge vào base: %v", result)
	}
	if _, hasAnd := result["$and"]; hasAnd {
		t.Errorf("không cần $and khi chỉ có một nhóm phẳng: %v", result)
	}
}

func TestApply_KhongNhomNao(t *testing.T) {
	base := bson.M{"isArchived": false}
	result := Apply(base, bson.M{}, bson.M{})
	if !reflect.DeepEqual(result, bson.M{"isArchived": false}) {
		t.Errorf("không nhóm nào thì giữ nguyên base: %v", result)
	}
}
