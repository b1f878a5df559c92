package crmdto

import (
	"encoding/json"
	"strings"
)

// TagList nhận tags dưới dạng mảng JSON hoặc chuỗi phân tách bằng dấu phẩy.
// Chuỗi được tách theo "," và trim từng phần tử; luôn round-trip ra mảng.
type TagList []string

// UnmarshalJSON hỗ trợ cả hai dạng: ["a","b"] và "a, b".
func (t *TagList) UnmarshalJSON(data []byte) error {
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*t = normalizeTags(arr)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = ParseTags(s)
	return nil
}

// ParseTags tách chuỗi tags phân tách bằng dấu phẩy thành danh sách đã trim.
// Phần tử rỗng sau khi trim bị loại bỏ.
func ParseTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	return normalizeTags(strings.Split(s, ","))
}

func normalizeTags(tags []string) []string {
	result := make([]string, 0, len(tags))
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// CustomerCreateInput đầu vào tạo khách hàng.
type CustomerCreateInput struct {
	Name    string  `json:"name" validate:"required"`
	Email   string  `json:"email" validate:"required,email"`
	Phone   string  `json:"phone"`
	Company string  `json:"company"`
	AgentID string  `json:"agentId"`
	Tags    TagList `json:"tags"`
	Status  string  `json:"status" validate:"omitempty,oneof=Active Inactive Prospect 'At Risk' Churned"`
	Note    string  `json:"note"` // ghi chú đầu tiên, tùy chọn
}

// CustomerUpdateInput đầu vào cập nhật khách hàng.
// AgentID là con trỏ để phân biệt "không gửi" (giữ nguyên) với "" (gỡ assignment).
type CustomerUpdateInput struct {
	Name    string   `json:"name"`
	Email   string   `json:"email" validate:"omitempty,email"`
	Phone   string   `json:"phone"`
	Company string   `json:"company"`
	AgentID *string  `json:"agentId"`
	Tags    *TagList `json:"tags"`
	Status  string   `json:"status" validate:"omitempty,oneof=Active Inactive Prospect 'At Risk' Churned"`
}

// CustomerNoteInput đầu vào thêm ghi chú cho khách hàng.
type CustomerNoteInput struct {
	Content string `json:"content" validate:"required"`
}

// CustomerListQuery điều kiện lọc danh sách khách hàng, parse từ query string.
type CustomerListQuery struct {
	Search    string // regex OR trên name/email/company/tags
	AgentID   string // lọc theo agent (hex ObjectID)
	SortBy    string
	SortOrder string
}
