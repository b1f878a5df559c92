package main

import (
	"context"

	"github.com/sirupsen/logrus"

	"biz_crm/config"
	activitymodels "biz_crm/internal/api/activity/models"
	authmodels "biz_crm/internal/api/auth/models"
	crmmodels "biz_crm/internal/api/crm/models"
	taskmodels "biz_crm/internal/api/task/models"
	"biz_crm/internal/database"
	"biz_crm/internal/global"
)

// Hàm khởi tạo các biến toàn cục
func InitGlobal() {
	initColNames()         // Khởi tạo tên các collection trong database
	initValidator()        // Khởi tạo validator
	initConfig()           // Khởi tạo cấu hình server
	initDatabase_MongoDB() // Khởi tạo kết nối database
}

// Hàm khởi tạo tên các collection trong database
func initColNames() {
	global.MongoDB_ColNames.Users = "crm_users"
	global.MongoDB_ColNames.Leads = "crm_leads"
	global.MongoDB_ColNames.Customers = "crm_customers"
	global.MongoDB_ColNames.Tasks = "crm_tasks"
	global.MongoDB_ColNames.Activities = "crm_activities"

	logrus.Info("Initialized collection names")
}

// Hàm khởi tạo validator (đăng ký custom validators: no_xss, strong_password)
func initValidator() {
	global.InitValidator()
	logrus.Info("Initialized validator")
}

// Hàm khởi tạo cấu hình server
func initConfig() {
	global.MongoDB_ServerConfig = config.NewConfig()
	if global.MongoDB_ServerConfig == nil {
		logrus.Fatalf("Failed to initialize config: config is nil")
	}
	logrus.Info("Initialized server config")
}

// Hàm khởi tạo kết nối database
func initDatabase_MongoDB() {
	var err error
	global.MongoDB_Session, err = database.GetInstance(global.MongoDB_ServerConfig)
	if err != nil {
		logrus.Fatalf("Failed to get database instance: %v", err)
	}
	logrus.Info("Connected to MongoDB")

	// Khởi tạo các db và collections nếu chưa có
	if err := database.EnsureDatabaseAndCollections(global.MongoDB_Session); err != nil {
		logrus.Fatalf("Failed to ensure database and collections: %v", err)
	}
	logrus.Info("Ensured database and collections")

	// Khởi tạo các index cho các collection dựa trên struct tag của model
	dbName := global.MongoDB_ServerConfig.MongoDB_DBName
	db := global.MongoDB_Session.Database(dbName)
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.Users), authmodels.User{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.Leads), crmmodels.Lead{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.Customers), crmmodels.Customer{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.Tasks), taskmodels.Task{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.Activities), activitymodels.Activity{})
}
