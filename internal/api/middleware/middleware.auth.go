package middleware

import (
	"context"
	"strings"
	"sync"

	models "biz_crm/internal/api/auth/models"
	basesvc "biz_crm/internal/api/base/service"
	"biz_crm/internal/common"
	"biz_crm/internal/global"
	"biz_crm/internal/logger"
	"biz_crm/internal/utility"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthManager quản lý xác thực người dùng
type AuthManager struct {
	UserCRUD *basesvc.BaseServiceMongoImpl[models.User]
}

var (
	authManagerInstance *AuthManager
	authManagerOnce     sync.Once
)

// GetAuthManager trả về instance duy nhất của AuthManager (singleton pattern)
func GetAuthManager() *AuthManager {
	authManagerOnce.Do(func() {
		userCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Users)
		if !exist {
			panic("không tìm thấy collection users khi khởi tạo AuthManager")
		}
		authManagerInstance = &AuthManager{
			UserCRUD: basesvc.NewBaseServiceMongo[models.User](userCollection),
		}
	})
	return authManagerInstance
}

// AuthMiddleware middleware xác thực cho Fiber.
// Xác minh access token (HS256), nạp user từ database, chặn tài khoản bị vô hiệu hóa.
// Thông tin user được lưu vào locals: user_id, user_role, user.
func AuthMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		// Lấy token từ header
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			// Chỉ log khi thiếu token (lỗi quan trọng)
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":   c.Path(),
				"method": c.Method(),
			}).Warn("❌ [AUTH] Missing Authorization header")
			HandleErrorResponse(c, common.ErrTokenMissing)
			return nil
		}

		// Kiểm tra định dạng token
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}

		// Xác minh chữ ký và hạn của access token
		claims, err := utility.ParseToken(global.MongoDB_ServerConfig.JwtSecret, parts[1])
		if err != nil {
			HandleErrorResponse(c, err)
			return nil
		}

		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}

		// Nạp user từ database để chắc chắn user còn tồn tại và còn hoạt động
		authManager := GetAuthManager()
		user, err := authManager.UserCRUD.FindOneById(context.Background(), userID)
		if err != nil {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":    c.Path(),
				"user_id": claims.UserID,
			}).Warn("❌ [AUTH] User của token không còn tồn tại")
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}
		if !user.IsActive {
			HandleErrorResponse(c, common.ErrAccountInactive)
			return nil
		}

		// Lưu thông tin user vào context
		c.Locals("user_id", user.ID.Hex())
		c.Locals("user_role", user.Role)
		c.Locals("user", user)

		return c.Next()
	}
}

// RequireAdmin middleware chặn các route chỉ dành cho admin.
// Phải đặt sau AuthMiddleware trong chain.
func RequireAdmin() fiber.Handler {
	return func(c fiber.Ctx) error {
		role, _ := c.Locals("user_role").(string)
		if role != models.RoleAdmin {
			HandleErrorResponse(c, common.ErrAdminOnly)
			return nil
		}
		return c.Next()
	}
}
