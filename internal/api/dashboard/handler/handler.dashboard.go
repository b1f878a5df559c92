package dashboardhdl

import (
	basehdl "biz_crm/internal/api/base/handler"
	dashboardsvc "biz_crm/internal/api/dashboard/service"

	"github.com/gofiber/fiber/v3"
)

// DashboardHandler xử lý API thống kê tổng hợp.
type DashboardHandler struct {
	basehdl.BaseHandler
	service *dashboardsvc.DashboardService
}

// NewDashboardHandler tạo DashboardHandler mới.
func NewDashboardHandler() (*DashboardHandler, error) {
	service, err := dashboardsvc.NewDashboardService()
	if err != nil {
		return nil, err
	}
	return &DashboardHandler{service: service}, nil
}

func (h *DashboardHandler) caller(c fiber.Ctx) (dashboardsvc.Caller, error) {
	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		return dashboardsvc.Caller{}, err
	}
	role := h.GetUserRoleFromContext(c)
	return dashboardsvc.Caller{ID: userID, IsAdmin: role == "admin", Role: role}, nil
}

// HandleBuild godoc: GET /dashboard?range=week|month|quarter
func (h *DashboardHandler) HandleBuild(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		caller, err := h.caller(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		data, err := h.service.Build(c.Context(), caller, c.Query("range"))
		h.HandleResponse(c, data, err)
		return nil
	})
}

// HandleQuickStats godoc: GET /dashboard/quick-stats
func (h *DashboardHandler) HandleQuickStats(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		caller, err := h.caller(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		stats, err := h.service.QuickStats(c.Context(), caller)
		h.HandleResponse(c, stats, err)
		return nil
	})
}
