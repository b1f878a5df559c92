// Package crmdto - DTO cho domain CRM (Lead, Customer).
package crmdto

// LeadCreateInput đầu vào tạo lead.
// AssignedAgent chỉ admin được chỉ định; agent luôn tự gán cho mình.
type LeadCreateInput struct {
	Name          string `json:"name" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	Phone         string `json:"phone"`
	Status        string `json:"status" validate:"omitempty,oneof=New 'In Progress' 'Closed Won' 'Closed Lost'"`
	Source        string `json:"source"`
	Notes         string `json:"notes"`
	AssignedAgent string `json:"assignedAgent"`
}

// LeadUpdateInput đầu vào cập nhật lead (PATCH, chỉ các field trong allow-list).
// Field nào không gửi lên thì giữ nguyên; allow-list được kiểm tra trên body thô ở handler.
type LeadUpdateInput struct {
	Name          string `json:"name"`
	Email         string `json:"email" validate:"omitempty,email"`
	Phone         string `json:"phone"`
	Status        string `json:"status" validate:"omitempty,oneof=New 'In Progress' 'Closed Won' 'Closed Lost'"`
	Source        string `json:"source"`
	Notes         string `json:"notes"`
	AssignedAgent string `json:"assignedAgent"`
}

// LeadListQuery điều kiện lọc danh sách lead, parse từ query string.
type LeadListQuery struct {
	Status    string // "All" hoặc rỗng = không lọc
	Search    string // regex OR trên name/email/phone/source
	SortBy    string
	SortOrder string
}

// LeadStatusStats thống kê số lead theo trạng thái.
type LeadStatusStats struct {
	New        int64 `json:"New"`
	InProgress int64 `json:"In Progress"`
	ClosedWon  int64 `json:"Closed Won"`
	ClosedLost int64 `json:"Closed Lost"`
	Total      int64 `json:"Total"`
}

// LeadSourceStat một dòng thống kê lead theo nguồn.
type LeadSourceStat struct {
	Source string `json:"source" bson:"_id"`
	Count  int64  `json:"count" bson:"count"`
}
