// Package models - model Task (công việc).
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Các trạng thái của Task
const (
	TaskStatusOpen       = "Open"
	TaskStatusInProgress = "In Progress"
	TaskStatusDone       = "Done"
)

// Các mức ưu tiên của Task
const (
	TaskPriorityLow    = "Low"
	TaskPriorityMedium = "Medium"
	TaskPriorityHigh   = "High"
)

// TaskStatuses danh sách trạng thái hợp lệ, dùng cho thống kê zero-fill.
var TaskStatuses = []string{TaskStatusOpen, TaskStatusInProgress, TaskStatusDone}

// Task lưu một công việc. DueDate phải ở tương lai lúc tạo (và lúc update nếu
// gửi dueDate mới); CompletedAt chỉ được set khi chuyển sang Done và bị xóa khi
// chuyển khỏi Done.
type Task struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	DueDate     int64              `json:"dueDate" bson:"dueDate" index:"single:1"`
	Status      string             `json:"status" bson:"status" index:"single:1"`
	Priority    string             `json:"priority" bson:"priority" index:"single:1"`
	// RelatedID là chuỗi tự do, không ép ObjectID: chấp nhận cả ID tùy biến
	// kiểu "CUST-2024-001" và được lưu nguyên văn.
	RelatedTo   string             `json:"relatedTo,omitempty" bson:"relatedTo,omitempty" index:"compound:task_related_entity"`
	RelatedID   string             `json:"relatedId,omitempty" bson:"relatedId,omitempty" index:"compound:task_related_entity"`
	Owner       primitive.ObjectID `json:"owner" bson:"owner" index:"single:1"`
	AssignedTo  primitive.ObjectID `json:"assignedTo" bson:"assignedTo" index:"single:1"`
	AgentID     primitive.ObjectID `json:"agentId,omitempty" bson:"agentId,omitempty" index:"single:1"`
	CreatedBy   primitive.ObjectID `json:"createdBy" bson:"createdBy"`
	CompletedAt int64              `json:"completedAt,omitempty" bson:"completedAt,omitempty" index:"single:1"`
	CreatedAt   int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt   int64              `json:"updatedAt" bson:"updatedAt"`
}

// IsValidTaskStatus kiểm tra một chuỗi có phải trạng thái task hợp lệ không.
func IsValidTaskStatus(status string) bool {
	for _, s := range TaskStatuses {
		if s == status {
			return true
		}
	}
	return false
}
