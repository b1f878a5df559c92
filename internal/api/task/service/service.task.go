// Package tasksvc - service Task: CRUD, workflow trạng thái, my-tasks, quá hạn, thống kê.
package tasksvc

import (
	"context"
	"fmt"
	"strings"
	"time"

	activitymodels "biz_crm/internal/api/activity/models"
	activitysvc "biz_crm/internal/api/activity/service"
	basemodels "biz_crm/internal/api/base/models"
	basesvc "biz_crm/internal/api/base/service"
	"biz_crm/internal/api/ownership"
	taskdto "biz_crm/internal/api/task/dto"
	taskmodels "biz_crm/internal/api/task/models"
	"biz_crm/internal/common"
	"biz_crm/internal/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// taskSortFields các field được phép sort danh sách task.
var taskSortFields = []string{"dueDate", "createdAt", "updatedAt", "title", "priority", "status"}

// Caller thông tin người gọi, truyền từ handler xuống service.
type Caller struct {
	ID      primitive.ObjectID
	IsAdmin bool
}

// TaskService xử lý logic task.
type TaskService struct {
	*basesvc.BaseServiceMongoImpl[taskmodels.Task]
	activityService *activitysvc.ActivityService
}

// NewTaskService tạo TaskService mới.
func NewTaskService() (*TaskService, error) {
	coll, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Tasks)
	if !exist {
		return nil, fmt.Errorf("không tìm thấy collection %s: %w", global.MongoDB_ColNames.Tasks, common.ErrNotFound)
	}
	activityService, err := activitysvc.NewActivityService()
	if err != nil {
		return nil, err
	}
	return &TaskService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[taskmodels.Task](coll),
		activityService:      activityService,
	}, nil
}

// ValidateDueDate kiểm tra dueDate (unix ms) phải lớn hơn thời điểm now.
// Chỉ áp cho dueDate MỚI (lúc tạo, hoặc lúc update có gửi dueDate); dueDate cũ
// đã qua không làm bản ghi trở nên không hợp lệ.
func ValidateDueDate(dueDate int64, now time.Time) error {
	if dueDate <= now.UnixMilli() {
		return common.NewError(common.ErrCodeValidationInput, "Hạn hoàn thành phải ở tương lai", common.StatusBadRequest, nil)
	}
	return nil
}

// NextCompletedAt xác định giá trị completedAt sau một lần đổi trạng thái.
// Chuyển sang Done: set now (nếu chưa có); chuyển khỏi Done: xóa (=0);
// không đổi nhóm: giữ nguyên. Trả về (giá trị mới, có thay đổi không).
func NextCompletedAt(oldStatus, newStatus string, current int64, now time.Time) (int64, bool) {
	wasDone := oldStatus == taskmodels.TaskStatusDone
	isDone := newStatus == taskmodels.TaskStatusDone
	switch {
	case isDone && !wasDone:
		if current != 0 {
			return current, false
		}
		return now.UnixMilli(), true
	case !isDone && wasDone:
		return 0, true
	default:
		return current, false
	}
}

// BuildTaskFromCreateInput dựng Task từ input đã qua kiểm tra quyền.
// Status mặc định Open, priority mặc định Medium. RelatedID là chuỗi tự do
// (chấp nhận ID tùy biến như "CUST-2024-001") và được lưu nguyên văn.
func BuildTaskFromCreateInput(caller Caller, input *taskdto.TaskCreateInput, assignedTo, agentID primitive.ObjectID) taskmodels.Task {
	status := input.Status
	if status == "" {
		status = taskmodels.TaskStatusOpen
	}
	priority := input.Priority
	if priority == "" {
		priority = taskmodels.TaskPriorityMedium
	}
	return taskmodels.Task{
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		DueDate:     input.DueDate,
		Status:      status,
		Priority:    priority,
		RelatedTo:   input.RelatedTo,
		RelatedID:   input.RelatedID,
		Owner:       caller.ID,
		AssignedTo:  assignedTo,
		AgentID:     agentID,
		CreatedBy:   caller.ID,
	}
}

// Create tạo task mới. Agent luôn tự gán assignedTo = chính mình; admin có thể
// chỉ định (mặc định chính mình). Owner và createdBy là người gọi.
func (s *TaskService) Create(ctx context.Context, caller Caller, input *taskdto.TaskCreateInput) (taskmodels.Task, error) {
	var zero taskmodels.Task

	if err := ValidateDueDate(input.DueDate, time.Now()); err != nil {
		return zero, err
	}

	assignedTo := caller.ID
	if input.AssignedTo != "" {
		if !caller.IsAdmin {
			return zero, common.NewError(common.ErrCodeAuthRole, "Chỉ admin được chỉ định assignedTo", common.StatusForbidden, nil)
		}
		var err error
		assignedTo, err = primitive.ObjectIDFromHex(input.AssignedTo)
		if err != nil {
			return zero, common.ErrInvalidID
		}
	}

	var agentID primitive.ObjectID
	if input.AgentID != "" {
		var err error
		agentID, err = primitive.ObjectIDFromHex(input.AgentID)
		if err != nil {
			return zero, common.ErrInvalidID
		}
	}

	task := BuildTaskFromCreateInput(caller, input, assignedTo, agentID)
	created, err := s.InsertOne(ctx, task)
	if err != nil {
		return zero, err
	}

	s.activityService.Record(activitysvc.RecordInput{
		Action:      "Task created",
		EntityType:  activitymodels.EntityTask,
		EntityID:    created.ID,
		PerformedBy: caller.ID,
		Details:     map[string]interface{}{"title": created.Title},
	})
	return created, nil
}

// FindPaginated trả về danh sách task phân trang, scope theo role.
func (s *TaskService) FindPaginated(ctx context.Context, caller Caller, q taskdto.TaskListQuery, page, limit int64) (*basemodels.PaginateResult[taskmodels.Task], error) {
	base := bson.M{}
	if q.Status != "" && q.Status != "All" {
		if !taskmodels.IsValidTaskStatus(q.Status) {
			return nil, common.NewError(common.ErrCodeValidationInput, "Trạng thái task không hợp lệ", common.StatusBadRequest, taskmodels.TaskStatuses)
		}
		base["status"] = q.Status
	}
	if q.Priority != "" && q.Priority != "All" {
		base["priority"] = q.Priority
	}
	if q.AgentID != "" {
		agentID, err := primitive.ObjectIDFromHex(q.AgentID)
		if err != nil {
			return nil, common.ErrInvalidID
		}
		base["agentId"] = agentID
	}

	ownFilter := ownership.Task.ListFilter(caller.ID, caller.IsAdmin)
	searchFilter := ownership.SearchRegexOr(q.Search, "title", "description")
	filter := ownership.Apply(base, ownFilter, searchFilter)

	opts := options.Find().SetSort(buildSort(q.SortBy, q.SortOrder, "dueDate", 1))
	return s.FindWithPagination(ctx, filter, page, limit, opts)
}

// FindAccessible nạp task theo ID và kiểm tra quyền sở hữu (assignedTo hoặc agentId).
// Không thuộc quyền → ErrNotFound, giống hệt bản ghi không tồn tại.
func (s *TaskService) FindAccessible(ctx context.Context, caller Caller, taskID primitive.ObjectID) (taskmodels.Task, error) {
	var zero taskmodels.Task
	task, err := s.FindOneById(ctx, taskID)
	if err != nil {
		return zero, err
	}
	if !ownership.Owns(caller.ID, caller.IsAdmin, task.AssignedTo, task.AgentID) {
		return zero, common.ErrNotFound
	}
	return task, nil
}

// Update cập nhật task. DueDate mới phải ở tương lai; chỉ admin đổi được
// assignedTo; agentId="" gỡ assignment; đổi status áp quy tắc completedAt.
func (s *TaskService) Update(ctx context.Context, caller Caller, taskID primitive.ObjectID, input *taskdto.TaskUpdateInput) (taskmodels.Task, error) {
	var zero taskmodels.Task

	task, err := s.FindAccessible(ctx, caller, taskID)
	if err != nil {
		return zero, err
	}

	updateData := &basesvc.UpdateData{Set: map[string]interface{}{}}
	if input.Title != "" {
		updateData.Set["title"] = strings.TrimSpace(input.Title)
	}
	if input.Description != "" {
		updateData.Set["description"] = input.Description
	}
	if input.DueDate != nil {
		if err := ValidateDueDate(*input.DueDate, time.Now()); err != nil {
			return zero, err
		}
		updateData.Set["dueDate"] = *input.DueDate
	}
	if input.Priority != "" {
		updateData.Set["priority"] = input.Priority
	}
	if input.RelatedTo != "" {
		updateData.Set["relatedTo"] = input.RelatedTo
	}
	if input.RelatedID != "" {
		updateData.Set["relatedId"] = input.RelatedID
	}
	if input.AssignedTo != "" {
		if !caller.IsAdmin {
			return zero, common.NewError(common.ErrCodeAuthRole, "Chỉ admin được thay đổi assignedTo", common.StatusForbidden, nil)
		}
		assignedTo, err := primitive.ObjectIDFromHex(input.AssignedTo)
		if err != nil {
			return zero, common.ErrInvalidID
		}
		updateData.Set["assignedTo"] = assignedTo
	}
	if input.AgentID != nil {
		if *input.AgentID == "" {
			updateData.Unset = map[string]interface{}{"agentId": ""}
		} else {
			agentID, err := primitive.ObjectIDFromHex(*input.AgentID)
			if err != nil {
				return zero, common.ErrInvalidID
			}
			updateData.Set["agentId"] = agentID
		}
	}
	if input.Status != "" && input.Status != task.Status {
		updateData.Set["status"] = input.Status
		if completedAt, changed := NextCompletedAt(task.Status, input.Status, task.CompletedAt, time.Now()); changed {
			if completedAt == 0 {
				if updateData.Unset == nil {
					updateData.Unset = map[string]interface{}{}
				}
				updateData.Unset["completedAt"] = ""
			} else {
				updateData.Set["completedAt"] = completedAt
			}
		}
	}

	if len(updateData.Set) == 0 && len(updateData.Unset) == 0 {
		return task, nil
	}

	updated, err := s.UpdateById(ctx, task.ID, updateData)
	if err != nil {
		return zero, err
	}

	s.activityService.Record(activitysvc.RecordInput{
		Action:      "Task updated",
		EntityType:  activitymodels.EntityTask,
		EntityID:    updated.ID,
		PerformedBy: caller.ID,
	})
	return updated, nil
}

// UpdateStatus đổi riêng trạng thái task và áp quy tắc completedAt.
func (s *TaskService) UpdateStatus(ctx context.Context, caller Caller, taskID primitive.ObjectID, input *taskdto.TaskStatusInput) (taskmodels.Task, error) {
	var zero taskmodels.Task

	task, err := s.FindAccessible(ctx, caller, taskID)
	if err != nil {
		return zero, err
	}
	if input.Status == task.Status {
		return task, nil
	}

	updateData := &basesvc.UpdateData{
		Set: map[string]interface{}{"status": input.Status},
	}
	if completedAt, changed := NextCompletedAt(task.Status, input.Status, task.CompletedAt, time.Now()); changed {
		if completedAt == 0 {
			updateData.Unset = map[string]interface{}{"completedAt": ""}
		} else {
			updateData.Set["completedAt"] = completedAt
		}
	}

	updated, err := s.UpdateById(ctx, task.ID, updateData)
	if err != nil {
		return zero, err
	}

	s.activityService.Record(activitysvc.RecordInput{
		Action:      fmt.Sprintf("Task marked as %s", input.Status),
		EntityType:  activitymodels.EntityTask,
		EntityID:    updated.ID,
		PerformedBy: caller.ID,
	})
	return updated, nil
}

// Delete xóa hẳn một task (hard delete).
func (s *TaskService) Delete(ctx context.Context, caller Caller, taskID primitive.ObjectID) error {
	task, err := s.FindAccessible(ctx, caller, taskID)
	if err != nil {
		return err
	}
	if err := s.DeleteById(ctx, task.ID); err != nil {
		return err
	}
	s.activityService.Record(activitysvc.RecordInput{
		Action:      "Task deleted",
		EntityType:  activitymodels.EntityTask,
		EntityID:    task.ID,
		PerformedBy: caller.ID,
		Details:     map[string]interface{}{"title": task.Title},
	})
	return nil
}

// MyTasks trả về task trong phạm vi của người gọi (không phân trang),
// sắp theo dueDate tăng dần rồi priority giảm dần.
func (s *TaskService) MyTasks(ctx context.Context, caller Caller, status, priority string) ([]taskmodels.Task, error) {
	base := bson.M{}
	if status != "" && status != "All" {
		base["status"] = status
	}
	if priority != "" && priority != "All" {
		base["priority"] = priority
	}
	filter := ownership.Apply(base, ownership.Task.ListFilter(caller.ID, false), nil)

	opts := options.Find().SetSort(bson.D{{Key: "dueDate", Value: 1}, {Key: "priority", Value: -1}})
	return s.Find(ctx, filter, opts)
}

// OverdueFilter filter task quá hạn: dueDate < now và chưa Done.
func OverdueFilter(now time.Time) bson.M {
	return bson.M{
		"dueDate": bson.M{"$lt": now.UnixMilli()},
		"status":  bson.M{"$in": []string{taskmodels.TaskStatusOpen, taskmodels.TaskStatusInProgress}},
	}
}

// Overdue trả về task quá hạn trong phạm vi người gọi, dueDate tăng dần.
func (s *TaskService) Overdue(ctx context.Context, caller Caller) ([]taskmodels.Task, error) {
	filter := ownership.Apply(OverdueFilter(time.Now()), ownership.Task.ListFilter(caller.ID, caller.IsAdmin), nil)
	opts := options.Find().SetSort(bson.D{{Key: "dueDate", Value: 1}})
	return s.Find(ctx, filter, opts)
}

// Stats đếm task theo trạng thái (zero-fill) + Total + Overdue, scope theo role.
func (s *TaskService) Stats(ctx context.Context, caller Caller) (*taskdto.TaskStats, error) {
	ownFilter := ownership.Task.ListFilter(caller.ID, caller.IsAdmin)
	stats := &taskdto.TaskStats{}
	for _, status := range taskmodels.TaskStatuses {
		filter := ownership.Apply(bson.M{"status": status}, ownFilter, nil)
		count, err := s.CountDocuments(ctx, filter)
		if err != nil {
			return nil, err
		}
		switch status {
		case taskmodels.TaskStatusOpen:
			stats.Open = count
		case taskmodels.TaskStatusInProgress:
			stats.InProgress = count
		case taskmodels.TaskStatusDone:
			stats.Done = count
		}
		stats.Total += count
	}

	overdue, err := s.CountDocuments(ctx, ownership.Apply(OverdueFilter(time.Now()), ownFilter, nil))
	if err != nil {
		return nil, err
	}
	stats.Overdue = overdue
	return stats, nil
}

// buildSort dựng điều kiện sort từ query, chỉ chấp nhận field trong taskSortFields.
func buildSort(sortBy, sortOrder, defaultField string, defaultOrder int) bson.D {
	field := defaultField
	for _, f := range taskSortFields {
		if f == sortBy {
			field = sortBy
			break
		}
	}
	order := defaultOrder
	switch strings.ToLower(sortOrder) {
	case "asc":
		order = 1
	case "desc":
		order = -1
	}
	return bson.D{{Key: field, Value: order}}
}
