// Package crmhdl - handler Customer.
package crmhdl

import (
	"fmt"

	basehdl "biz_crm/internal/api/base/handler"
	crmdto "biz_crm/internal/api/crm/dto"
	crmsvc "biz_crm/internal/api/crm/service"

	"github.com/gofiber/fiber/v3"
)

// CustomerHandler xử lý các request về khách hàng
type CustomerHandler struct {
	basehdl.BaseHandler
	customerService *crmsvc.CustomerService
}

// NewCustomerHandler tạo instance mới của CustomerHandler
func NewCustomerHandler() (*CustomerHandler, error) {
	customerService, err := crmsvc.NewCustomerService()
	if err != nil {
		return nil, fmt.Errorf("failed to create customer service: %v", err)
	}
	return &CustomerHandler{customerService: customerService}, nil
}

func (h *CustomerHandler) caller(c fiber.Ctx) (crmsvc.Caller, error) {
	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		return crmsvc.Caller{}, err
	}
	return crmsvc.Caller{ID: userID, IsAdmin: h.IsAdmin(c)}, nil
}

// HandleFind trả về danh sách khách hàng phân trang
func (h *CustomerHandler) HandleFind(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		caller, err := h.caller(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		page, limit := h.ParsePagination(c)
		q := crmdto.CustomerListQuery{
			Search:    c.Query("search"),
			AgentID:   c.Query("agent"),
			SortBy:    c.Query("sortBy"),
			SortOrder: c.Query("sortOrder"),
		}
		result, err := h.customerService.FindPaginated(c.Context(), caller, q, page, limit)
		h.HandleResponse(c, result, err)
		return nil
	})
}

// HandleFindById trả về một khách hàng theo ID
func (h *CustomerHandler) HandleFindById(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		caller, err := h.caller(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		customerID, err := h.ParseObjectID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		customer, err := h.customerService.FindAccessible(c.Context(), caller, customerID)
		h.HandleResponse(c, customer, err)
		return nil
	})
}

// HandleCreate tạo khách hàng mới
func (h *CustomerHandler) HandleCreate(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		caller, err := h.caller(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		var input crmdto.CustomerCreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		customer, err := h.customerService.Create(c.Context(), caller, &input)
		h.HandleCreated(c, customer, err)
		return nil
	})
}

// HandleUpdate cập nhật khách hàng
func (h *CustomerHandler) HandleUpdate(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		caller, err := h.caller(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		customerID, err := h.ParseObjectID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		var input crmdto.CustomerUpdateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		customer, err := h.customerService.Update(c.Context(), caller, customerID, &input)
		h.HandleResponse(c, customer, err)
		return nil
	})
}

// HandleDelete xóa hẳn một khách hàng
func (h *CustomerHandler) HandleDelete(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		caller, err := h.caller(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		customerID, err := h.ParseObjectID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		err = h.customerService.Delete(c.Context(), caller, customerID)
		h.HandleResponse(c, nil, err)
		return nil
	})
}

// HandleAddNote thêm ghi chú cho khách hàng, trả về ghi chú mới (201)
func (h *CustomerHandler) HandleAddNote(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		caller, err := h.caller(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		customerID, err := h.ParseObjectID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		var input crmdto.CustomerNoteInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		note, err := h.customerService.AddNote(c.Context(), caller, customerID, &input)
		h.HandleCreated(c, note, err)
		return nil
	})
}

// HandleGetNotes trả về danh sách ghi chú của khách hàng
func (h *CustomerHandler) HandleGetNotes(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		caller, err := h.caller(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		customerID, err := h.ParseObjectID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		notes, err := h.customerService.GetNotes(c.Context(), caller, customerID)
		h.HandleResponse(c, notes, err)
		return nil
	})
}
