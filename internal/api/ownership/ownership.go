// Package ownership - resolver phạm vi dữ liệu theo role.
// Mỗi entity có một bảng field sở hữu; admin thấy toàn bộ, agent chỉ thấy
// bản ghi mà một trong các field sở hữu trỏ tới chính mình.
package ownership

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Variant mô tả các field sở hữu (tên field bson) của một entity.
type Variant struct {
	Fields []string
}

// Bảng field sở hữu của từng entity.
var (
	Lead     = Variant{Fields: []string{"assignedAgent"}}
	Customer = Variant{Fields: []string{"owner", "agentId"}}
	Task     = Variant{Fields: []string{"assignedTo", "agentId"}}
)

// ListFilter trả về filter giới hạn danh sách theo role.
// Admin không bị lọc (filter rỗng). Agent: một field → equals trực tiếp,
// nhiều field → $or của các equals.
func (v Variant) ListFilter(userID primitive.ObjectID, isAdmin bool) bson.M {
	if isAdmin {
		return bson.M{}
	}
	if len(v.Fields) == 1 {
		return bson.M{v.Fields[0]: userID}
	}
	or := make([]bson.M, 0, len(v.Fields))
	for _, field := range v.Fields {
		or = append(or, bson.M{field: userID})
	}
	return bson.M{"$or": or}
}

// Owns kiểm tra quyền truy cập một bản ghi đã nạp: admin luôn được phép,
// agent được phép khi một trong các giá trị field sở hữu là chính mình.
// Bản ghi không thuộc quyền trả lời 404 giống hệt bản ghi không tồn tại
// (caller chịu trách nhiệm map sang ErrNotFound).
func Owns(userID primitive.ObjectID, isAdmin bool, fieldValues ...primitive.ObjectID) bool {
	if isAdmin {
		return true
	}
	for _, v := range fieldValues {
		if !v.IsZero() && v == userID {
			return true
		}
	}
	return false
}

// SearchRegexOr dựng nhóm $or các điều kiện regex không phân biệt hoa thường
// trên danh sách field. Term được escape để không bị hiểu là regex.
func SearchRegexOr(term string, fields ...string) bson.M {
	if term == "" {
		return bson.M{}
	}
	quoted := regexp.QuoteMeta(term)
	or := make([]bson.M, 0, len(fields))
	for _, field := range fields {
		or = append(or, bson.M{field: bson.M{"$regex": quoted, "$options": "i"}})
	}
	return bson.M{"$or": or}
}

// Apply ghép filter nền (các điều kiện field phẳng) với nhóm sở hữu và nhóm
// tìm kiếm. Khi cả hai nhóm cùng có mặt, chúng được đặt trong
// {$and: [ownership, search]} — hai nhóm $or KHÔNG BAO GIỜ bị flatten làm một,
// vì flatten sẽ biến "thuộc quyền VÀ khớp tìm kiếm" thành "thuộc quyền HOẶC khớp".
func Apply(base bson.M, ownershipFilter bson.M, searchFilter bson.M) bson.M {
	if base == nil {
		base = bson.M{}
	}

	groups := make([]bson.M, 0, 2)
	if len(ownershipFilter) > 0 {
		groups = append(groups, ownershipFilter)
	}
	if len(searchFilter) > 0 {
		groups = append(groups, searchFilter)
	}

	switch len(groups) {
	case 0:
		return base
	case 1:
		group := groups[0]
		if orConds, hasOr := group["$or"]; hasOr && len(group) == 1 {
			// Một nhóm $or duy nhất: AND ngầm với các field phẳng của base
			base["$or"] = orConds
			return base
		}
		for k, v := range group {
			base[k] = v
		}
		return base
	default:
		base["$and"] = groups
		return base
	}
}
