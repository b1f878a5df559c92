// Package tasksvc - test các quy tắc hạn hoàn thành và completedAt.
package tasksvc

import (
	"errors"
	"testing"
	"time"

	taskdto "biz_crm/internal/api/task/dto"
	taskmodels "biz_crm/internal/api/task/models"
	"biz_crm/internal/common"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestValidateDueDate(t *testing.T) {
	now := time.Now()

	if err := ValidateDueDate(now.Add(time.Hour).UnixMilli(), now); err != nil {
		t.Errorf("dueDate trong tương lai phải hợp lệ, lỗi: %v", err)
	}

	err := ValidateDueDate(now.UnixMilli(), now)
	if err == nil {
		t.Fatal("dueDate bằng thời điểm hiện tại phải bị từ chối")
	}
	var appErr *common.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("lỗi phải là *common.Error, nhận được: %T", err)
	}
	if appErr.StatusCode != common.StatusBadRequest {
		t.Errorf("dueDate quá khứ phải trả 400, nhận được: %d", appErr.StatusCode)
	}

	if err := ValidateDueDate(now.Add(-time.Minute).UnixMilli(), now); err == nil {
		t.Error("dueDate trong quá khứ phải bị từ chối")
	}
}

func TestNextCompletedAt_ChuyenSangDone(t *testing.T) {
	now := time.Now()
	got, changed := NextCompletedAt(taskmodels.TaskStatusOpen, taskmodels.TaskStatusDone, 0, now)
	if !changed {
		t.Fatal("chuyển sang Done phải set completedAt")
	}
	if got != now.UnixMilli() {
		t.Errorf("completedAt phải là now, nhận được: %d", got)
	}
}

func TestNextCompletedAt_DaDoneTuTruoc(t *testing.T) {
	now := time.Now()
	existing := now.Add(-time.Hour).UnixMilli()
	got, changed := NextCompletedAt(taskmodels.TaskStatusDone, taskmodels.TaskStatusDone, existing, now)
	if changed {
		t.Error("Done -> Done không được thay đổi completedAt")
	}
	if got != existing {
		t.Errorf("completedAt cũ phải được giữ nguyên, nhận được: %d", got)
	}
}

func TestNextCompletedAt_RoiKhoiDone(t *testing.T) {
	now := time.Now()
	got, changed := NextCompletedAt(taskmodels.TaskStatusDone, taskmodels.TaskStatusInProgress, now.UnixMilli(), now)
	if !changed {
		t.Fatal("rời khỏi Done phải xóa completedAt")
	}
	if got != 0 {
		t.Errorf("completedAt phải về 0 để unset, nhận được: %d", got)
	}
}

func TestNextCompletedAt_KhongLienQuanDone(t *testing.T) {
	now := time.Now()
	got, changed := NextCompletedAt(taskmodels.TaskStatusOpen, taskmodels.TaskStatusInProgress, 0, now)
	if changed || got != 0 {
		t.Errorf("đổi trạng thái ngoài Done không được đụng completedAt, nhận được: (%d, %v)", got, changed)
	}
}

func TestBuildTaskFromCreateInput_RelatedIDTuyBien(t *testing.T) {
	caller := Caller{ID: primitive.NewObjectID()}
	input := &taskdto.TaskCreateInput{
		Title:     "Gọi lại khách hàng",
		DueDate:   time.Now().Add(24 * time.Hour).UnixMilli(),
		RelatedTo: "Customer",
		RelatedID: "CUST-2024-001", // ID tùy biến, không phải hex ObjectID
	}

	task := BuildTaskFromCreateInput(caller, input, caller.ID, primitive.NilObjectID)

	if task.RelatedID != "CUST-2024-001" {
		t.Errorf("relatedId tùy biến phải được lưu nguyên văn, nhận được: %q", task.RelatedID)
	}
	if task.RelatedTo != "Customer" {
		t.Errorf("relatedTo phải được giữ nguyên, nhận được: %q", task.RelatedTo)
	}
}

func TestBuildTaskFromCreateInput_MacDinh(t *testing.T) {
	caller := Caller{ID: primitive.NewObjectID()}
	input := &taskdto.TaskCreateInput{
		Title:   "  Soạn báo giá  ",
		DueDate: time.Now().Add(time.Hour).UnixMilli(),
	}

	task := BuildTaskFromCreateInput(caller, input, caller.ID, primitive.NilObjectID)

	if task.Status != taskmodels.TaskStatusOpen {
		t.Errorf("status mặc định phải là Open, nhận được: %s", task.Status)
	}
	if task.Priority != taskmodels.TaskPriorityMedium {
		t.Errorf("priority mặc định phải là Medium, nhận được: %s", task.Priority)
	}
	if task.Title != "Soạn báo giá" {
		t.Errorf("title phải được trim, nhận được: %q", task.Title)
	}
	if task.Owner != caller.ID || task.CreatedBy != caller.ID {
		t.Error("owner và createdBy phải là người gọi")
	}
	if task.RelatedID != "" {
		t.Errorf("không có relation thì relatedId phải rỗng, nhận được: %q", task.RelatedID)
	}
}

func TestOverdueFilter(t *testing.T) {
	now := time.Now()
	filter := OverdueFilter(now)

	due, ok := filter["dueDate"].(bson.M)
	if !ok {
		t.Fatalf("filter phải có điều kiện dueDate: %v", filter)
	}
	if due["$lt"] != now.UnixMilli() {
		t.Errorf("dueDate phải $lt now, nhận được: %v", due)
	}

	status, ok := filter["status"].(bson.M)
	if !ok {
		t.Fatalf("filter phải có điều kiện status: %v", filter)
	}
	in, ok := status["$in"].([]string)
	if !ok || len(in) != 2 {
		t.Fatalf("status phải $in 2 trạng thái chưa hoàn thành: %v", status)
	}
	for _, s := range in {
		if s == taskmodels.TaskStatusDone {
			t.Error("task Done không được tính là quá hạn")
		}
	}
}
