// Package taskdto - DTO cho domain task.
package taskdto

// TaskCreateInput đầu vào tạo task. DueDate là unix millisecond.
// AssignedTo chỉ admin được chỉ định; agent luôn tự gán cho mình.
type TaskCreateInput struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	DueDate     int64  `json:"dueDate" validate:"required"`
	Status      string `json:"status" validate:"omitempty,oneof=Open 'In Progress' Done"`
	Priority    string `json:"priority" validate:"omitempty,oneof=Low Medium High"`
	// RelatedTo bắt buộc khi có RelatedID; RelatedID là chuỗi tự do, không ép ObjectID
	RelatedTo  string `json:"relatedTo" validate:"required_with=RelatedID,omitempty,oneof=Lead Customer"`
	RelatedID  string `json:"relatedId"`
	AssignedTo string `json:"assignedTo"`
	AgentID    string `json:"agentId"`
}

// TaskUpdateInput đầu vào cập nhật task.
// DueDate dùng con trỏ: nil = giữ nguyên, giá trị mới phải ở tương lai.
// AgentID="" gỡ assignment như customer.
type TaskUpdateInput struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	DueDate     *int64  `json:"dueDate"`
	Status      string  `json:"status" validate:"omitempty,oneof=Open 'In Progress' Done"`
	Priority    string  `json:"priority" validate:"omitempty,oneof=Low Medium High"`
	RelatedTo   string  `json:"relatedTo" validate:"required_with=RelatedID,omitempty,oneof=Lead Customer"`
	RelatedID   string  `json:"relatedId"`
	AssignedTo  string  `json:"assignedTo"`
	AgentID     *string `json:"agentId"`
}

// TaskStatusInput đầu vào cập nhật riêng trạng thái.
type TaskStatusInput struct {
	Status string `json:"status" validate:"required,oneof=Open 'In Progress' Done"`
}

// TaskListQuery điều kiện lọc danh sách task, parse từ query string.
type TaskListQuery struct {
	Status    string // "All" hoặc rỗng = không lọc
	Priority  string // "All" hoặc rỗng = không lọc
	AgentID   string // lọc theo agent (hex ObjectID)
	Search    string // regex OR trên title/description
	SortBy    string
	SortOrder string
}

// TaskStats thống kê task theo trạng thái + quá hạn.
type TaskStats struct {
	Open       int64 `json:"Open"`
	InProgress int64 `json:"In Progress"`
	Done       int64 `json:"Done"`
	Total      int64 `json:"Total"`
	Overdue    int64 `json:"Overdue"`
}
