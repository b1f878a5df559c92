package main

import (
	"context"
	"strings"

	authmodels "biz_crm/internal/api/auth/models"
	basesvc "biz_crm/internal/api/base/service"
	"biz_crm/internal/global"
	"biz_crm/internal/logger"
	"biz_crm/internal/utility"

	"go.mongodb.org/mongo-driver/bson"
)

// InitDefaultData seed user admin mặc định khi collection users còn rỗng.
// Chỉ seed khi ADMIN_PASSWORD được cấu hình, tránh tạo tài khoản với mật khẩu mặc định.
func InitDefaultData() {
	log := logger.GetAppLogger()

	cfg := global.MongoDB_ServerConfig
	if cfg.AdminPassword == "" {
		log.Info("ADMIN_PASSWORD not set, skipping default admin seed")
		return
	}

	userColl, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Users)
	if !exist {
		log.Fatalf("Failed to seed admin: users collection not registered")
	}
	userService := basesvc.NewBaseServiceMongo[authmodels.User](userColl)

	ctx := context.Background()
	count, err := userService.CountDocuments(ctx, bson.M{})
	if err != nil {
		log.Fatalf("Failed to count users: %v", err)
	}
	if count > 0 {
		log.Info("Users collection not empty, skipping default admin seed")
		return
	}

	hashed, err := utility.HashPassword(cfg.AdminPassword)
	if err != nil {
		log.Fatalf("Failed to hash admin password: %v", err)
	}

	admin := authmodels.User{
		Name:     "Administrator",
		Email:    strings.ToLower(strings.TrimSpace(cfg.AdminEmail)),
		Password: hashed,
		Role:     authmodels.RoleAdmin,
		IsActive: true,
	}
	created, err := userService.InsertOne(ctx, admin)
	if err != nil {
		log.Fatalf("Failed to seed default admin: %v", err)
	}
	log.Infof("Seeded default admin user %s (ID: %s)", created.Email, created.ID.Hex())
}
