// Package taskhdl - handler Task.
package taskhdl

import (
	"fmt"

	basehdl "biz_crm/internal/api/base/handler"
	taskdto "biz_crm/internal/api/task/dto"
	tasksvc "biz_crm/internal/api/task/service"

	"github.com/gofiber/fiber/v3"
)

// TaskHandler xử lý các request về task
type TaskHandler struct {
	basehdl.BaseHandler
	taskService *tasksvc.TaskService
}

// NewTaskHandler tạo instance mới của TaskHandler
func NewTaskHandler() (*TaskHandler, error) {
	taskService, err := tasksvc.NewTaskService()
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %v", err)
	}
	return &TaskHandler{taskService: taskService}, nil
}

func (h *TaskHandler) caller(c fiber.Ctx) (tasksvc.Caller, error) {
	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		return tasksvc.Caller{}, err
	}
	return tasksvc.Caller{ID: userID, IsAdmin: h.IsAdmin(c)}, nil
}

// HandleFind trả về danh sách task phân trang
func (h *TaskHandler) HandleFind(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		caller, err := h.caller(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		page, limit := h.ParsePagination(c)
		q := taskdto.TaskListQuery{
			Status:    c.Query("status"),
			Priority:  c.Query("priority"),
			AgentID:   c.Query("agent"),
			Search:    c.Query("search"),
			SortBy:    c.Query("sortBy"),
			SortOrder: c.Query("sortOrder"),
		}
		result, err := h.taskService.FindPaginated(c.Context(), caller, q, page, limit)
		h.HandleResponse(c, result, err)
		return nil
	})
}

// HandleFindById trả về một task theo ID
func (h *TaskHandler) HandleFindById(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		caller, err := h.caller(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		taskID, err := h.ParseObjectID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		task, err := h.taskService.FindAccessible(c.Context(), caller, taskID)
		h.HandleResponse(c, task, err)
		return nil
	})
}

// HandleCreate tạo task mới
func (h *TaskHandler) HandleCreate(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		caller, err := h.caller(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		var input taskdto.TaskCreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		task, err := h.taskService.Create(c.Context(), caller, &input)
		h.HandleCreated(c, task, err)
		return nil
	})
}

// HandleUpdate cập nhật task
func (h *TaskHandler) HandleUpdate(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		caller, err := h.caller(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		taskID, err := h.ParseObjectID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		var input taskdto.TaskUpdateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		task, err := h.taskService.Update(c.Context(), caller, taskID, &input)
		h.HandleResponse(c, task, err)
		return nil
	})
}

// HandleUpdateStatus đổi riêng trạng thái task
func (h *TaskHandler) HandleUpdateStatus(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		caller, err := h.caller(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		taskID, err := h.ParseObjectID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		var input taskdto.TaskStatusInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		task, err := h.taskService.UpdateStatus(c.Context(), caller, taskID, &input)
		h.HandleResponse(c, task, err)
		return nil
	})
}

// HandleDelete xóa hẳn một task
func (h *TaskHandler) HandleDelete(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		caller, err := h.caller(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		taskID, err := h.ParseObjectID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		err = h.taskService.Delete(c.Context(), caller, taskID)
		h.HandleResponse(c, nil, err)
		return nil
	})
}

// HandleMyTasks trả về task của chính người gọi, dueDate tăng dần
func (h *TaskHandler) HandleMyTasks(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		caller, err := h.caller(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		tasks, err := h.taskService.MyTasks(c.Context(), caller, c.Query("status"), c.Query("priority"))
		h.HandleResponse(c, tasks, err)
		return nil
	})
}

// HandleOverdue trả về task quá hạn trong phạm vi người gọi
func (h *TaskHandler) HandleOverdue(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		caller, err := h.caller(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		tasks, err := h.taskService.Overdue(c.Context(), caller)
		h.HandleResponse(c, tasks, err)
		return nil
	})
}

// HandleStats thống kê task theo trạng thái
func (h *TaskHandler) HandleStats(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		caller, err := h.caller(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		stats, err := h.taskService.Stats(c.Context(), caller)
		h.HandleResponse(c, stats, err)
		return nil
	})
}
