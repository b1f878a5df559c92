// Package router đăng ký các route thuộc domain auth: Auth, Admin, Agents.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	authhdl "biz_crm/internal/api/auth/handler"
	"biz_crm/internal/api/middleware"
	apirouter "biz_crm/internal/api/router"
)

// Register đăng ký tất cả route auth (đăng nhập, phiên, hồ sơ, quản trị user) lên v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	if err := registerAuthRoutes(v1); err != nil {
		return err
	}
	if err := registerAdminUserRoutes(v1); err != nil {
		return err
	}
	return nil
}

func registerAuthRoutes(router fiber.Router) error {
	userHandler, err := authhdl.NewUserHandler()
	if err != nil {
		return fmt.Errorf("failed to create user handler: %w", err)
	}

	// Route public - không cần token
	router.Post("/auth/login", userHandler.HandleLogin)
	router.Post("/auth/refresh", userHandler.HandleRefresh)

	authOnlyMiddleware := middleware.AuthMiddleware()
	apirouter.RegisterRouteWithMiddleware(router, "/auth", "POST", "/logout", []fiber.Handler{authOnlyMiddleware}, userHandler.HandleLogout)
	apirouter.RegisterRouteWithMiddleware(router, "/auth", "GET", "/me", []fiber.Handler{authOnlyMiddleware}, userHandler.HandleGetProfile)
	apirouter.RegisterRouteWithMiddleware(router, "/auth", "PUT", "/profile", []fiber.Handler{authOnlyMiddleware}, userHandler.HandleUpdateProfile)
	apirouter.RegisterRouteWithMiddleware(router, "/auth", "PUT", "/profile/password", []fiber.Handler{authOnlyMiddleware}, userHandler.HandleChangePassword)

	// Danh sách agent - mọi user đã đăng nhập đều xem được (để gán lead/task)
	apirouter.RegisterRouteWithMiddleware(router, "/agents", "GET", "/", []fiber.Handler{authOnlyMiddleware}, userHandler.HandleListAgents)
	return nil
}

func registerAdminUserRoutes(router fiber.Router) error {
	adminHandler, err := authhdl.NewAdminHandler()
	if err != nil {
		return fmt.Errorf("failed to create admin handler: %w", err)
	}

	authOnlyMiddleware := middleware.AuthMiddleware()
	adminMiddleware := middleware.RequireAdmin()
	adminChain := []fiber.Handler{authOnlyMiddleware, adminMiddleware}

	apirouter.RegisterRouteWithMiddleware(router, "/auth", "POST", "/register", adminChain, adminHandler.HandleRegister)
	apirouter.RegisterRouteWithMiddleware(router, "/users", "GET", "/", adminChain, adminHandler.HandleListUsers)
	apirouter.RegisterRouteWithMiddleware(router, "/users", "POST", "/", adminChain, adminHandler.HandleRegister)
	apirouter.RegisterRouteWithMiddleware(router, "/users", "GET", "/:id", adminChain, adminHandler.HandleGetUser)
	apirouter.RegisterRouteWithMiddleware(router, "/users", "PUT", "/:id", adminChain, adminHandler.HandleUpdateUser)
	apirouter.RegisterRouteWithMiddleware(router, "/users", "PATCH", "/:id/deactivate", adminChain, adminHandler.HandleDeactivateUser)
	apirouter.RegisterRouteWithMiddleware(router, "/users", "DELETE", "/:id", adminChain, adminHandler.HandleDeleteUser)
	return nil
}
