// Package router đăng ký các route thuộc domain dashboard.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	dashboardhdl "biz_crm/internal/api/dashboard/handler"
	"biz_crm/internal/api/middleware"
	apirouter "biz_crm/internal/api/router"
)

// Register đăng ký các route dashboard lên v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	dashboardHandler, err := dashboardhdl.NewDashboardHandler()
	if err != nil {
		return fmt.Errorf("failed to create dashboard handler: %w", err)
	}

	authMiddleware := middleware.AuthMiddleware()
	chain := []fiber.Handler{authMiddleware}

	apirouter.RegisterRouteWithMiddleware(v1, "/dashboard", "GET", "/quick-stats", chain, dashboardHandler.HandleQuickStats)
	apirouter.RegisterRouteWithMiddleware(v1, "/dashboard", "GET", "/", chain, dashboardHandler.HandleBuild)
	return nil
}
