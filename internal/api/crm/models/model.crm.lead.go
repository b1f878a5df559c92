// Package models - model Lead (khách hàng tiềm năng) thuộc domain CRM.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Các trạng thái của Lead
const (
	LeadStatusNew        = "New"
	LeadStatusInProgress = "In Progress"
	LeadStatusClosedWon  = "Closed Won"
	LeadStatusClosedLost = "Closed Lost"
)

// LeadStatuses danh sách trạng thái hợp lệ, dùng cho breakdown zero-fill trên dashboard.
var LeadStatuses = []string{LeadStatusNew, LeadStatusInProgress, LeadStatusClosedWon, LeadStatusClosedLost}

// Lead lưu khách hàng tiềm năng.
// Xóa lead là soft delete (isArchived=true); email chỉ cần duy nhất trong tập
// lead chưa lưu trữ nên kiểm tra ở service thay vì unique index.
type Lead struct {
	ID                  primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name                string             `json:"name" bson:"name"`
	Email               string             `json:"email" bson:"email" index:"single:1"`
	Phone               string             `json:"phone,omitempty" bson:"phone,omitempty"`
	Status              string             `json:"status" bson:"status" index:"single:1"`
	Source              string             `json:"source,omitempty" bson:"source,omitempty"`
	AssignedAgent       primitive.ObjectID `json:"assignedAgent" bson:"assignedAgent" index:"single:1"`
	Notes               string             `json:"notes,omitempty" bson:"notes,omitempty"`
	IsArchived          bool               `json:"isArchived" bson:"isArchived" index:"single:1"`
	ConvertedToCustomer primitive.ObjectID `json:"convertedToCustomer,omitempty" bson:"convertedToCustomer,omitempty"`
	CreatedAt           int64              `json:"createdAt" bson:"createdAt" index:"single:1,order:-1"`
	UpdatedAt           int64              `json:"updatedAt" bson:"updatedAt"`
}

// IsValidLeadStatus kiểm tra một chuỗi có phải trạng thái lead hợp lệ không.
func IsValidLeadStatus(status string) bool {
	for _, s := range LeadStatuses {
		if s == status {
			return true
		}
	}
	return false
}
