// Package authhdl - handler quản trị người dùng (chỉ admin).
package authhdl

import (
	"fmt"

	authdto "biz_crm/internal/api/auth/dto"
	authsvc "biz_crm/internal/api/auth/service"
	basehdl "biz_crm/internal/api/base/handler"

	"github.com/gofiber/fiber/v3"
)

// AdminHandler xử lý các request quản lý người dùng của admin
type AdminHandler struct {
	basehdl.BaseHandler
	adminService *authsvc.AdminService
	userService  *authsvc.UserService
}

// NewAdminHandler tạo instance mới của AdminHandler
func NewAdminHandler() (*AdminHandler, error) {
	adminService, err := authsvc.NewAdminService()
	if err != nil {
		return nil, fmt.Errorf("failed to create admin service: %v", err)
	}
	userService, err := authsvc.NewUserService()
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %v", err)
	}
	return &AdminHandler{adminService: adminService, userService: userService}, nil
}

// HandleRegister tạo người dùng mới
func (h *AdminHandler) HandleRegister(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input authdto.UserRegisterInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		user, err := h.userService.Register(c.Context(), &input)
		h.HandleCreated(c, user, err)
		return nil
	})
}

// HandleListUsers trả về danh sách người dùng phân trang
func (h *AdminHandler) HandleListUsers(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		page, limit := h.ParsePagination(c)
		result, err := h.adminService.ListUsers(c.Context(), page, limit)
		h.HandleResponse(c, result, err)
		return nil
	})
}

// HandleGetUser trả về một người dùng theo ID
func (h *AdminHandler) HandleGetUser(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		userID, err := h.ParseObjectID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		user, err := h.adminService.GetUser(c.Context(), userID)
		h.HandleResponse(c, user, err)
		return nil
	})
}

// HandleUpdateUser cập nhật thông tin người dùng
func (h *AdminHandler) HandleUpdateUser(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		userID, err := h.ParseObjectID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		var input authdto.AdminUpdateUserInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		user, err := h.adminService.UpdateUser(c.Context(), userID, &input)
		h.HandleResponse(c, user, err)
		return nil
	})
}

// HandleDeactivateUser vô hiệu hóa tài khoản người dùng
func (h *AdminHandler) HandleDeactivateUser(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		userID, err := h.ParseObjectID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		user, err := h.adminService.DeactivateUser(c.Context(), userID)
		h.HandleResponse(c, user, err)
		return nil
	})
}

// HandleDeleteUser xóa người dùng
func (h *AdminHandler) HandleDeleteUser(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		userID, err := h.ParseObjectID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		callerID, err := h.GetUserIDFromContext(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		err = h.adminService.DeleteUser(c.Context(), userID, callerID)
		h.HandleResponse(c, nil, err)
		return nil
	})
}
