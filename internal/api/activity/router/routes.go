// Package router đăng ký các route thuộc domain activity.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	activityhdl "biz_crm/internal/api/activity/handler"
	"biz_crm/internal/api/middleware"
	apirouter "biz_crm/internal/api/router"
)

// Register đăng ký tất cả route activity lên v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	activityHandler, err := activityhdl.NewActivityHandler()
	if err != nil {
		return fmt.Errorf("failed to create activity handler: %w", err)
	}

	authMiddleware := middleware.AuthMiddleware()
	chain := []fiber.Handler{authMiddleware}
	adminChain := []fiber.Handler{authMiddleware, middleware.RequireAdmin()}

	// Route tĩnh phải đăng ký trước route có tham số
	apirouter.RegisterRouteWithMiddleware(v1, "/activity", "GET", "/recent", chain, activityHandler.HandleRecent)
	apirouter.RegisterRouteWithMiddleware(v1, "/activity", "GET", "/", chain, activityHandler.HandleFind)
	apirouter.RegisterRouteWithMiddleware(v1, "/activity", "POST", "/", adminChain, activityHandler.HandleLog)
	apirouter.RegisterRouteWithMiddleware(v1, "/activity", "GET", "/:entityType/:entityId", chain, activityHandler.HandleFindByEntity)
	return nil
}
