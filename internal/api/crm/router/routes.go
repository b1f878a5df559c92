// Package router đăng ký các route thuộc domain CRM: Leads, Customers.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	crmhdl "biz_crm/internal/api/crm/handler"
	"biz_crm/internal/api/middleware"
	apirouter "biz_crm/internal/api/router"
)

// Register đăng ký tất cả route CRM lên v1. Toàn bộ đều yêu cầu đăng nhập.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	if err := registerLeadRoutes(v1); err != nil {
		return err
	}
	if err := registerCustomerRoutes(v1); err != nil {
		return err
	}
	return nil
}

func registerLeadRoutes(router fiber.Router) error {
	leadHandler, err := crmhdl.NewLeadHandler()
	if err != nil {
		return fmt.Errorf("failed to create lead handler: %w", err)
	}

	authMiddleware := middleware.AuthMiddleware()
	chain := []fiber.Handler{authMiddleware}

	// Route tĩnh phải đăng ký trước route có tham số :id
	apirouter.RegisterRouteWithMiddleware(router, "/leads", "GET", "/stats/status", chain, leadHandler.HandleStatsByStatus)
	apirouter.RegisterRouteWithMiddleware(router, "/leads", "GET", "/stats/source", chain, leadHandler.HandleStatsBySource)
	apirouter.RegisterRouteWithMiddleware(router, "/leads", "GET", "/", chain, leadHandler.HandleFind)
	apirouter.RegisterRouteWithMiddleware(router, "/leads", "POST", "/", chain, leadHandler.HandleCreate)
	apirouter.RegisterRouteWithMiddleware(router, "/leads", "GET", "/:id", chain, leadHandler.HandleFindById)
	apirouter.RegisterRouteWithMiddleware(router, "/leads", "PATCH", "/:id", chain, leadHandler.HandlePatch)
	apirouter.RegisterRouteWithMiddleware(router, "/leads", "DELETE", "/:id", chain, leadHandler.HandleArchive)
	apirouter.RegisterRouteWithMiddleware(router, "/leads", "POST", "/:id/convert", chain, leadHandler.HandleConvert)
	return nil
}

func registerCustomerRoutes(router fiber.Router) error {
	customerHandler, err := crmhdl.NewCustomerHandler()
	if err != nil {
		return fmt.Errorf("failed to create customer handler: %w", err)
	}

	authMiddleware := middleware.AuthMiddleware()
	chain := []fiber.Handler{authMiddleware}

	apirouter.RegisterRouteWithMiddleware(router, "/customers", "GET", "/", chain, customerHandler.HandleFind)
	apirouter.RegisterRouteWithMiddleware(router, "/customers", "POST", "/", chain, customerHandler.HandleCreate)
	apirouter.RegisterRouteWithMiddleware(router, "/customers", "GET", "/:id", chain, customerHandler.HandleFindById)
	apirouter.RegisterRouteWithMiddleware(router, "/customers", "PUT", "/:id", chain, customerHandler.HandleUpdate)
	apirouter.RegisterRouteWithMiddleware(router, "/customers", "DELETE", "/:id", chain, customerHandler.HandleDelete)
	apirouter.RegisterRouteWithMiddleware(router, "/customers", "POST", "/:id/notes", chain, customerHandler.HandleAddNote)
	apirouter.RegisterRouteWithMiddleware(router, "/customers", "GET", "/:id/notes", chain, customerHandler.HandleGetNotes)
	return nil
}
