// Package crmhdl - handler Lead.
package crmhdl

import (
	"encoding/json"
	"fmt"

	basehdl "biz_crm/internal/api/base/handler"
	crmdto "biz_crm/internal/api/crm/dto"
	crmsvc "biz_crm/internal/api/crm/service"
	"biz_crm/internal/common"

	"github.com/gofiber/fiber/v3"
)

// LeadHandler xử lý các request về lead
type LeadHandler struct {
	basehdl.BaseHandler
	leadService *crmsvc.LeadService
}

// NewLeadHandler tạo instance mới của LeadHandler
func NewLeadHandler() (*LeadHandler, error) {
	leadService, err := crmsvc.NewLeadService()
	if err != nil {
		return nil, fmt.Errorf("failed to create lead service: %v", err)
	}
	return &LeadHandler{leadService: leadService}, nil
}

// caller dựng thông tin người gọi từ locals do middleware auth gán.
func (h *LeadHandler) caller(c fiber.Ctx) (crmsvc.Caller, error) {
	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		return crmsvc.Caller{}, err
	}
	return crmsvc.Caller{ID: userID, IsAdmin: h.IsAdmin(c)}, nil
}

// HandleFind trả về danh sách lead phân trang (lọc status, tìm kiếm, sort)
func (h *LeadHandler) HandleFind(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		caller, err := h.caller(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		page, limit := h.ParsePagination(c)
		q := crmdto.LeadListQuery{
			Status:    c.Query("status"),
			Search:    c.Query("search"),
			SortBy:    c.Query("sortBy"),
			SortOrder: c.Query("sortOrder"),
		}
		result, err := h.leadService.FindPaginated(c.Context(), caller, q, page, limit)
		h.HandleResponse(c, result, err)
		return nil
	})
}

// HandleFindById trả về một lead theo ID
func (h *LeadHandler) HandleFindById(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		caller, err := h.caller(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		leadID, err := h.ParseObjectID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		lead, err := h.leadService.FindAccessible(c.Context(), caller, leadID)
		h.HandleResponse(c, lead, err)
		return nil
	})
}

// HandleCreate tạo lead mới
func (h *LeadHandler) HandleCreate(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		caller, err := h.caller(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		var input crmdto.LeadCreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		lead, err := h.leadService.Create(c.Context(), caller, &input)
		h.HandleCreated(c, lead, err)
		return nil
	})
}

// HandlePatch cập nhật lead theo allow-list.
// Body được parse hai lượt: map thô để lấy danh sách field, rồi DTO để lấy giá trị.
func (h *LeadHandler) HandlePatch(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		caller, err := h.caller(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		leadID, err := h.ParseObjectID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		var raw map[string]json.RawMessage
		if err := json.Unmarshal(c.Body(), &raw); err != nil {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationFormat, common.MsgValidationError, common.StatusBadRequest, err))
			return nil
		}
		rawFields := make([]string, 0, len(raw))
		for field := range raw {
			rawFields = append(rawFields, field)
		}

		var input crmdto.LeadUpdateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		lead, err := h.leadService.Patch(c.Context(), caller, leadID, &input, rawFields)
		h.HandleResponse(c, lead, err)
		return nil
	})
}

// HandleArchive soft delete một lead
func (h *LeadHandler) HandleArchive(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		caller, err := h.caller(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		leadID, err := h.ParseObjectID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		err = h.leadService.Archive(c.Context(), caller, leadID)
		h.HandleResponse(c, nil, err)
		return nil
	})
}

// HandleConvert chuyển lead thành khách hàng, trả về khách hàng mới (201)
func (h *LeadHandler) HandleConvert(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		caller, err := h.caller(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		leadID, err := h.ParseObjectID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		customer, err := h.leadService.Convert(c.Context(), caller, leadID)
		h.HandleCreated(c, customer, err)
		return nil
	})
}

// HandleStatsByStatus thống kê lead theo trạng thái
func (h *LeadHandler) HandleStatsByStatus(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		caller, err := h.caller(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		stats, err := h.leadService.StatsByStatus(c.Context(), caller)
		h.HandleResponse(c, stats, err)
		return nil
	})
}

// HandleStatsBySource thống kê lead theo nguồn
func (h *LeadHandler) HandleStatsBySource(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		caller, err := h.caller(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		stats, err := h.leadService.StatsBySource(c.Context(), caller)
		h.HandleResponse(c, stats, err)
		return nil
	})
}
