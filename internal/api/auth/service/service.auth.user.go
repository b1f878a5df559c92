// Package authsvc - service người dùng (User): đăng nhập, phiên, hồ sơ.
package authsvc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	activitymodels "biz_crm/internal/api/activity/models"
	activitysvc "biz_crm/internal/api/activity/service"
	authdto "biz_crm/internal/api/auth/dto"
	models "biz_crm/internal/api/auth/models"
	basesvc "biz_crm/internal/api/base/service"
	"biz_crm/internal/common"
	"biz_crm/internal/global"
	"biz_crm/internal/utility"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserService là cấu trúc chứa các phương thức liên quan đến người dùng
type UserService struct {
	*basesvc.BaseServiceMongoImpl[models.User]
	activityService *activitysvc.ActivityService
}

// NewUserService tạo mới UserService
func NewUserService() (*UserService, error) {
	userCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Users)
	if !exist {
		return nil, fmt.Errorf("không tìm thấy collection %s: %w", global.MongoDB_ColNames.Users, common.ErrNotFound)
	}
	activityService, err := activitysvc.NewActivityService()
	if err != nil {
		return nil, err
	}
	return &UserService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.User](userCollection),
		activityService:      activityService,
	}, nil
}

// Login xác thực email + mật khẩu và cấp cặp token (access + refresh).
// Chỉ tài khoản đang hoạt động mới được đăng nhập; refresh token mới nhất
// được lưu lại trên user để đối chiếu khi làm mới phiên.
func (s *UserService) Login(ctx context.Context, input *authdto.UserLoginInput) (*authdto.UserLoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	user, err := s.FindOne(ctx, bson.M{"email": email}, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, err
	}

	if !utility.ComparePassword(user.Password, input.Password) {
		return nil, common.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, common.ErrAccountInactive
	}

	cfg := global.MongoDB_ServerConfig
	accessToken, err := utility.CreateToken(cfg.JwtSecret, user.ID.Hex(), time.Duration(cfg.JwtExpiresIn)*time.Second)
	if err != nil {
		return nil, common.NewError(common.ErrCodeInternalServer, "Không thể tạo access token", common.StatusInternalServerError, err)
	}
	refreshToken, err := utility.CreateToken(cfg.JwtRefreshSecret, user.ID.Hex(), time.Duration(cfg.JwtRefreshExpiresIn)*time.Second)
	if err != nil {
		return nil, common.NewError(common.ErrCodeInternalServer, "Không thể tạo refresh token", common.StatusInternalServerError, err)
	}

	updateData := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"lastLogin":    time.Now().UnixMilli(),
			"refreshToken": refreshToken,
		},
	}
	user, err = s.UpdateById(ctx, user.ID, updateData)
	if err != nil {
		return nil, err
	}

	s.activityService.Record(activitysvc.RecordInput{
		Action:      "User logged in",
		EntityType:  activitymodels.EntityUser,
		EntityID:    user.ID,
		PerformedBy: user.ID,
	})

	return &authdto.UserLoginResult{
		User:         user,
		Token:        accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Refresh xác minh refresh token và cấp access token mới.
// Token phải khớp refresh token mới nhất đã lưu và tài khoản phải còn hoạt động.
func (s *UserService) Refresh(ctx context.Context, input *authdto.UserRefreshInput) (*authdto.UserRefreshResult, error) {
	cfg := global.MongoDB_ServerConfig
	claims, err := utility.ParseToken(cfg.JwtRefreshSecret, input.RefreshToken)
	if err != nil {
		return nil, common.ErrRefreshInvalid
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, common.ErrRefreshInvalid
	}
	user, err := s.FindOneById(ctx, userID)
	if err != nil {
		return nil, common.ErrRefreshInvalid
	}
	if user.RefreshToken != input.RefreshToken {
		return nil, common.ErrRefreshInvalid
	}
	if !user.IsActive {
		return nil, common.ErrAccountInactive
	}

	accessToken, err := utility.CreateToken(cfg.JwtSecret, user.ID.Hex(), time.Duration(cfg.JwtExpiresIn)*time.Second)
	if err != nil {
		return nil, common.NewError(common.ErrCodeInternalServer, "Không thể tạo access token", common.StatusInternalServerError, err)
	}

	return &authdto.UserRefreshResult{User: user, Token: accessToken}, nil
}

// Logout xóa refresh token đã lưu và ghi nhật ký đăng xuất.
func (s *UserService) Logout(ctx context.Context, userID primitive.ObjectID) error {
	updateData := &basesvc.UpdateData{
		Unset: map[string]interface{}{"refreshToken": ""},
	}
	if _, err := s.UpdateById(ctx, userID, updateData); err != nil {
		return err
	}
	s.activityService.Record(activitysvc.RecordInput{
		Action:      "User logged out",
		EntityType:  activitymodels.EntityUser,
		EntityID:    userID,
		PerformedBy: userID,
	})
	return nil
}

// Register tạo người dùng mới (chỉ admin gọi được, guard nằm ở router).
// Email trùng sẽ bị unique index chặn và trả về 409 qua ConvertMongoError.
func (s *UserService) Register(ctx context.Context, input *authdto.UserRegisterInput) (models.User, error) {
	var zero models.User

	hashed, err := utility.HashPassword(input.Password)
	if err != nil {
		return zero, common.NewError(common.ErrCodeInternalServer, "Không thể mã hóa mật khẩu", common.StatusInternalServerError, err)
	}

	role := input.Role
	if role == "" {
		role = models.RoleAgent
	}

	user := models.User{
		Name:     strings.TrimSpace(input.Name),
		Email:    strings.ToLower(strings.TrimSpace(input.Email)),
		Password: hashed,
		Role:     role,
		IsActive: true,
	}
	created, err := s.InsertOne(ctx, user)
	if err != nil {
		return zero, err
	}

	logrus.WithFields(logrus.Fields{"email": created.Email, "role": created.Role}).Info("Đã tạo người dùng mới")
	return created, nil
}

// UpdateProfile cập nhật hồ sơ cá nhân (name, email).
func (s *UserService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, input *authdto.UserUpdateProfileInput) (models.User, error) {
	updateData := &basesvc.UpdateData{Set: map[string]interface{}{}}
	if input.Name != "" {
		updateData.Set["name"] = strings.TrimSpace(input.Name)
	}
	if input.Email != "" {
		updateData.Set["email"] = strings.ToLower(strings.TrimSpace(input.Email))
	}
	if len(updateData.Set) == 0 {
		return s.FindOneById(ctx, userID)
	}
	return s.UpdateById(ctx, userID, updateData)
}

// ChangePassword đổi mật khẩu sau khi xác minh mật khẩu hiện tại.
func (s *UserService) ChangePassword(ctx context.Context, userID primitive.ObjectID, input *authdto.UserChangePasswordInput) error {
	user, err := s.FindOneById(ctx, userID)
	if err != nil {
		return err
	}
	if !utility.ComparePassword(user.Password, input.CurrentPassword) {
		return common.NewError(common.ErrCodeAuthCredentials, "Mật khẩu hiện tại không chính xác", common.StatusUnauthorized, nil)
	}
	hashed, err := utility.HashPassword(input.NewPassword)
	if err != nil {
		return common.NewError(common.ErrCodeInternalServer, "Không thể mã hóa mật khẩu", common.StatusInternalServerError, err)
	}
	updateData := &basesvc.UpdateData{
		Set:   map[string]interface{}{"password": hashed},
		Unset: map[string]interface{}{"refreshToken": ""},
	}
	_, err = s.UpdateById(ctx, userID, updateData)
	return err
}

// ListAgents trả về danh sách agent đang hoạt động (thông tin rút gọn).
// Mọi người dùng đã đăng nhập đều gọi được để gán lead/task.
func (s *UserService) ListAgents(ctx context.Context) ([]models.UserPublic, error) {
	users, err := s.Find(ctx, bson.M{"role": models.RoleAgent, "isActive": true}, nil)
	if err != nil {
		return nil, err
	}
	agents := make([]models.UserPublic, 0, len(users))
	for _, u := range users {
		agents = append(agents, u.ToPublic())
	}
	return agents, nil
}
