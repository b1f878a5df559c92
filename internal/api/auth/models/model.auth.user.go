// Package models - model người dùng (User) thuộc domain auth.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Các role của người dùng trong hệ thống
const (
	RoleAdmin = "admin" // Quản trị viên - thấy toàn bộ dữ liệu
	RoleAgent = "agent" // Nhân viên - chỉ thấy dữ liệu mình phụ trách
)

// User định nghĩa mô hình người dùng.
// RefreshToken chứa refresh token mới nhất của người dùng, dùng để đối chiếu khi làm mới phiên.
type User struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name"`
	Email        string             `json:"email,omitempty" bson:"email,omitempty" index:"unique,sparse"`
	Password     string             `json:"-" bson:"password,omitempty"`
	Role         string             `json:"role" bson:"role" index:"single:1"`
	IsActive     bool               `json:"isActive" bson:"isActive" index:"single:1"`
	RefreshToken string             `json:"-" bson:"refreshToken,omitempty"`
	LastLogin    int64              `json:"lastLogin,omitempty" bson:"lastLogin,omitempty"`
	CreatedAt    int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt    int64              `json:"updatedAt" bson:"updatedAt"`
}

// UserPublic là thông tin rút gọn của user trả về cho các client không có quyền admin
// (ví dụ danh sách agent để gán lead/task).
type UserPublic struct {
	ID    primitive.ObjectID `json:"id" bson:"_id"`
	Name  string             `json:"name" bson:"name"`
	Email string             `json:"email" bson:"email"`
	Role  string             `json:"role" bson:"role"`
}

// ToPublic chuyển User sang UserPublic.
func (u *User) ToPublic() UserPublic {
	return UserPublic{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}
