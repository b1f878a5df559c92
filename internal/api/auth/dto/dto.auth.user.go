package authdto

import models "biz_crm/internal/api/auth/models"

// UserLoginInput đầu vào đăng nhập người dùng.
type UserLoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserLoginResult kết quả đăng nhập: thông tin user + cặp token.
type UserLoginResult struct {
	User         models.User `json:"user"`
	Token        string      `json:"token"`
	RefreshToken string      `json:"refreshToken"`
}

// UserRefreshInput đầu vào làm mới access token.
type UserRefreshInput struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// UserRefreshResult kết quả làm mới phiên.
type UserRefreshResult struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

// UserRegisterInput đầu vào tạo người dùng mới (chỉ admin).
type UserRegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,strong_password"`
	Role     string `json:"role" validate:"omitempty,oneof=admin agent"`
}

// UserUpdateProfileInput đầu vào cập nhật hồ sơ cá nhân.
type UserUpdateProfileInput struct {
	Name  string `json:"name"`
	Email string `json:"email" validate:"omitempty,email"`
}

// UserChangePasswordInput đầu vào đổi mật khẩu.
type UserChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,strong_password"`
}

// AdminUpdateUserInput đầu vào admin cập nhật người dùng.
type AdminUpdateUserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email" validate:"omitempty,email"`
	Role     string `json:"role" validate:"omitempty,oneof=admin agent"`
	IsActive *bool  `json:"isActive"`
}
