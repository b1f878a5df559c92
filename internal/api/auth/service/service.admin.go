// Package authsvc - service quản trị (Admin): quản lý người dùng.
package authsvc

import (
	"context"
	"fmt"
	"strings"

	authdto "biz_crm/internal/api/auth/dto"
	basemodels "biz_crm/internal/api/base/models"
	models "biz_crm/internal/api/auth/models"
	basesvc "biz_crm/internal/api/base/service"
	"biz_crm/internal/common"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AdminService là cấu trúc chứa các phương thức quản lý người dùng của admin
type AdminService struct {
	userService *UserService
}

// NewAdminService tạo mới AdminService
func NewAdminService() (*AdminService, error) {
	userService, err := NewUserService()
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}
	return &AdminService{userService: userService}, nil
}

// ListUsers trả về danh sách người dùng phân trang, mới nhất trước.
func (s *AdminService) ListUsers(ctx context.Context, page, limit int64) (*basemodels.PaginateResult[models.User], error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return s.userService.FindWithPagination(ctx, bson.M{}, page, limit, opts)
}

// GetUser trả về một người dùng theo ID.
func (s *AdminService) GetUser(ctx context.Context, userID primitive.ObjectID) (models.User, error) {
	return s.userService.FindOneById(ctx, userID)
}

// UpdateUser cập nhật thông tin người dùng (name, email, role, isActive).
func (s *AdminService) UpdateUser(ctx context.Context, userID primitive.ObjectID, input *authdto.AdminUpdateUserInput) (models.User, error) {
	updateData := &basesvc.UpdateData{Set: map[string]interface{}{}}
	if input.Name != "" {
		updateData.Set["name"] = strings.TrimSpace(input.Name)
	}
	if input.Email != "" {
		updateData.Set["email"] = strings.ToLower(strings.TrimSpace(input.Email))
	}
	if input.Role != "" {
		updateData.Set["role"] = input.Role
	}
	if input.IsActive != nil {
		updateData.Set["isActive"] = *input.IsActive
		if !*input.IsActive {
			// Vô hiệu hóa thì thu hồi luôn phiên hiện tại
			updateData.Unset = map[string]interface{}{"refreshToken": ""}
		}
	}
	if len(updateData.Set) == 0 {
		return s.userService.FindOneById(ctx, userID)
	}
	return s.userService.UpdateById(ctx, userID, updateData)
}

// DeactivateUser vô hiệu hóa tài khoản và thu hồi phiên.
func (s *AdminService) DeactivateUser(ctx context.Context, userID primitive.ObjectID) (models.User, error) {
	updateData := &basesvc.UpdateData{
		Set:   map[string]interface{}{"isActive": false},
		Unset: map[string]interface{}{"refreshToken": ""},
	}
	return s.userService.UpdateById(ctx, userID, updateData)
}

// DeleteUser xóa người dùng. Không cho tự xóa chính mình.
func (s *AdminService) DeleteUser(ctx context.Context, userID primitive.ObjectID, callerID primitive.ObjectID) error {
	if userID == callerID {
		return common.NewError(common.ErrCodeBusinessOperation, "Không thể tự xóa tài khoản của chính mình", common.StatusBadRequest, nil)
	}
	return s.userService.DeleteById(ctx, userID)
}
