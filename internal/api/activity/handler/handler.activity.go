// Package activityhdl - handler nhật ký hoạt động.
package activityhdl

import (
	"fmt"

	activitysvc "biz_crm/internal/api/activity/service"
	basehdl "biz_crm/internal/api/base/handler"
	"biz_crm/internal/common"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActivityLogInput đầu vào ghi nhật ký thủ công (chỉ admin).
type ActivityLogInput struct {
	Action     string                 `json:"action" validate:"required"`
	EntityType string                 `json:"entityType" validate:"required,oneof=Lead Customer Task User"`
	EntityID   string                 `json:"entityId"`
	Details    map[string]interface{} `json:"details"`
}

// ActivityHandler xử lý các request về nhật ký hoạt động
type ActivityHandler struct {
	basehdl.BaseHandler
	activityService *activitysvc.ActivityService
}

// NewActivityHandler tạo instance mới của ActivityHandler
func NewActivityHandler() (*ActivityHandler, error) {
	activityService, err := activitysvc.NewActivityService()
	if err != nil {
		return nil, fmt.Errorf("failed to create activity service: %v", err)
	}
	return &ActivityHandler{activityService: activityService}, nil
}

// HandleFind trả về nhật ký phân trang (mặc định 20/trang), lọc theo
// entityType/action/userId; agent chỉ thấy nhật ký của mình.
func (h *ActivityHandler) HandleFind(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		callerID, err := h.GetUserIDFromContext(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		page, limit := h.ParsePagination(c)
		if c.Query("limit") == "" {
			limit = 20
		}

		filter := activitysvc.ListFilter{
			EntityType: c.Query("entityType"),
			Action:     c.Query("action"),
		}
		if userIDStr := c.Query("userId"); userIDStr != "" {
			userID, err := primitive.ObjectIDFromHex(userIDStr)
			if err != nil {
				h.HandleResponse(c, nil, common.ErrInvalidID)
				return nil
			}
			filter.UserID = userID
		}

		result, err := h.activityService.FindPaginated(c.Context(), filter, callerID, h.IsAdmin(c), page, limit)
		h.HandleResponse(c, result, err)
		return nil
	})
}

// HandleRecent trả về 10 nhật ký mới nhất trong phạm vi người gọi
func (h *ActivityHandler) HandleRecent(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		callerID, err := h.GetUserIDFromContext(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		activities, err := h.activityService.FindRecent(c.Context(), callerID, h.IsAdmin(c), 10)
		h.HandleResponse(c, activities, err)
		return nil
	})
}

// HandleFindByEntity trả về lịch sử của một entity cụ thể
func (h *ActivityHandler) HandleFindByEntity(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		callerID, err := h.GetUserIDFromContext(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		entityType := c.Params("entityType")
		entityID, err := primitive.ObjectIDFromHex(c.Params("entityId"))
		if err != nil {
			h.HandleResponse(c, nil, common.ErrInvalidID)
			return nil
		}
		activities, err := h.activityService.FindByEntity(c.Context(), entityType, entityID, callerID, h.IsAdmin(c))
		h.HandleResponse(c, activities, err)
		return nil
	})
}

// HandleLog ghi nhật ký thủ công (chỉ admin, đồng bộ)
func (h *ActivityHandler) HandleLog(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		callerID, err := h.GetUserIDFromContext(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		var input ActivityLogInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		var entityID primitive.ObjectID
		if input.EntityID != "" {
			entityID, err = primitive.ObjectIDFromHex(input.EntityID)
			if err != nil {
				h.HandleResponse(c, nil, common.ErrInvalidID)
				return nil
			}
		}

		activity, err := h.activityService.Log(c.Context(), activitysvc.RecordInput{
			Action:      input.Action,
			EntityType:  input.EntityType,
			EntityID:    entityID,
			PerformedBy: callerID,
			Details:     input.Details,
			IPAddress:   c.IP(),
			UserAgent:   c.Get("User-Agent"),
		})
		h.HandleCreated(c, activity, err)
		return nil
	})
}
