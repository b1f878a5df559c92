// Package models - model Customer (khách hàng) thuộc domain CRM.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Các trạng thái của Customer
const (
	CustomerStatusActive   = "Active"
	CustomerStatusInactive = "Inactive"
	CustomerStatusProspect = "Prospect"
	CustomerStatusAtRisk   = "At Risk"
	CustomerStatusChurned  = "Churned"
)

// CustomerNote một ghi chú gắn trên khách hàng.
type CustomerNote struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Content   string             `json:"content" bson:"content"`
	CreatedBy primitive.ObjectID `json:"createdBy" bson:"createdBy"`
	CreatedAt int64              `json:"createdAt" bson:"createdAt"`
}

// Customer lưu khách hàng chính thức.
// Owner là người chịu trách nhiệm chính (bắt buộc); AgentID là người đang chăm sóc
// (tùy chọn, có thể gỡ). Email duy nhất toàn cục qua unique index.
type Customer struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name          string             `json:"name" bson:"name"`
	Email         string             `json:"email,omitempty" bson:"email,omitempty" index:"unique,sparse"`
	Phone         string             `json:"phone,omitempty" bson:"phone,omitempty"`
	Company       string             `json:"company,omitempty" bson:"company,omitempty"`
	AgentID       primitive.ObjectID `json:"agentId,omitempty" bson:"agentId,omitempty" index:"single:1"`
	Notes         []CustomerNote     `json:"notes" bson:"notes"`
	Tags          []string           `json:"tags" bson:"tags" index:"single:1"`
	Owner         primitive.ObjectID `json:"owner" bson:"owner" index:"single:1"`
	ConvertedFrom primitive.ObjectID `json:"convertedFrom,omitempty" bson:"convertedFrom,omitempty"`
	Status        string             `json:"status" bson:"status" index:"single:1"`
	CreatedAt     int64              `json:"createdAt" bson:"createdAt" index:"single:1,order:-1"`
	UpdatedAt     int64              `json:"updatedAt" bson:"updatedAt"`
}
