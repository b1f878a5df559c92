// Package models - model nhật ký hoạt động (Activity).
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Các loại entity được ghi nhật ký
const (
	EntityLead     = "Lead"
	EntityCustomer = "Customer"
	EntityTask     = "Task"
	EntityUser     = "User"
)

// Activity ghi lại một hành động của người dùng trên một entity.
// Ghi theo kiểu fire-and-forget: thao tác nghiệp vụ không bao giờ fail vì ghi nhật ký lỗi.
type Activity struct {
	ID          primitive.ObjectID     `json:"id,omitempty" bson:"_id,omitempty"`
	Action      string                 `json:"action" bson:"action" index:"single:1"`
	EntityType  string                 `json:"entityType" bson:"entityType" index:"compound:activity_entity"`
	EntityID    primitive.ObjectID     `json:"entityId,omitempty" bson:"entityId,omitempty" index:"compound:activity_entity"`
	PerformedBy primitive.ObjectID     `json:"performedBy" bson:"performedBy" index:"single:1"`
	Details     map[string]interface{} `json:"details,omitempty" bson:"details,omitempty"`
	IPAddress   string                 `json:"ipAddress,omitempty" bson:"ipAddress,omitempty"`
	UserAgent   string                 `json:"userAgent,omitempty" bson:"userAgent,omitempty"`
	CreatedAt   int64                  `json:"createdAt" bson:"createdAt" index:"single:1,order:-1"`
	UpdatedAt   int64                  `json:"updatedAt" bson:"updatedAt"`
}
