// Package router đăng ký các route thuộc domain task.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	"biz_crm/internal/api/middleware"
	apirouter "biz_crm/internal/api/router"
	taskhdl "biz_crm/internal/api/task/handler"
)

// Register đăng ký tất cả route task lên v1. Toàn bộ đều yêu cầu đăng nhập.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	taskHandler, err := taskhdl.NewTaskHandler()
	if err != nil {
		return fmt.Errorf("failed to create task handler: %w", err)
	}

	authMiddleware := middleware.AuthMiddleware()
	chain := []fiber.Handler{authMiddleware}

	// Route tĩnh phải đăng ký trước route có tham số :id
	apirouter.RegisterRouteWithMiddleware(v1, "/tasks", "GET", "/my-tasks", chain, taskHandler.HandleMyTasks)
	apirouter.RegisterRouteWithMiddleware(v1, "/tasks", "GET", "/overdue", chain, taskHandler.HandleOverdue)
	apirouter.RegisterRouteWithMiddleware(v1, "/tasks", "GET", "/stats", chain, taskHandler.HandleStats)
	apirouter.RegisterRouteWithMiddleware(v1, "/tasks", "GET", "/", chain, taskHandler.HandleFind)
	apirouter.RegisterRouteWithMiddleware(v1, "/tasks", "POST", "/", chain, taskHandler.HandleCreate)
	apirouter.RegisterRouteWithMiddleware(v1, "/tasks", "GET", "/:id", chain, taskHandler.HandleFindById)
	apirouter.RegisterRouteWithMiddleware(v1, "/tasks", "PUT", "/:id", chain, taskHandler.HandleUpdate)
	apirouter.RegisterRouteWithMiddleware(v1, "/tasks", "PATCH", "/:id/status", chain, taskHandler.HandleUpdateStatus)
	apirouter.RegisterRouteWithMiddleware(v1, "/tasks", "DELETE", "/:id", chain, taskHandler.HandleDelete)
	return nil
}
