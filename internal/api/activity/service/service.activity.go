// Package activitysvc - Service nhật ký hoạt động (activities).
// Ghi nhận hành động của người dùng trên các entity (Lead, Customer, Task, User).
package activitysvc

import (
	"context"
	"fmt"
	"time"

	activitymodels "biz_crm/internal/api/activity/models"
	basemodels "biz_crm/internal/api/base/models"
	basesvc "biz_crm/internal/api/base/service"
	"biz_crm/internal/common"
	"biz_crm/internal/global"
	"biz_crm/internal/logger"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// recordTimeout là thời gian tối đa cho một lần ghi nhật ký nền.
const recordTimeout = 5 * time.Second

// ActivityService xử lý logic nhật ký hoạt động.
type ActivityService struct {
	*basesvc.BaseServiceMongoImpl[activitymodels.Activity]
}

// NewActivityService tạo ActivityService mới.
func NewActivityService() (*ActivityService, error) {
	coll, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Activities)
	if !exist {
		return nil, fmt.Errorf("không tìm thấy collection %s: %w", global.MongoDB_ColNames.Activities, common.ErrNotFound)
	}
	return &ActivityService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[activitymodels.Activity](coll),
	}, nil
}

// RecordInput dữ liệu cho một lần ghi nhật ký.
type RecordInput struct {
	Action      string
	EntityType  string
	EntityID    primitive.ObjectID
	PerformedBy primitive.ObjectID
	Details     map[string]interface{}
	IPAddress   string
	UserAgent   string
}

// Record ghi nhật ký theo kiểu fire-and-forget: chạy trong goroutine riêng với
// context timeout độc lập. Thao tác nghiệp vụ gọi Record không bao giờ fail vì
// ghi nhật ký lỗi; lỗi chỉ được ghi vào audit log.
func (s *ActivityService) Record(input RecordInput) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()

		activity := activitymodels.Activity{
			Action:      input.Action,
			EntityType:  input.EntityType,
			EntityID:    input.EntityID,
			PerformedBy: input.PerformedBy,
			Details:     input.Details,
			IPAddress:   input.IPAddress,
			UserAgent:   input.UserAgent,
		}

		if _, err := s.InsertOne(ctx, activity); err != nil {
			logger.GetAuditLogger().WithFields(logrus.Fields{
				"action":     input.Action,
				"entityType": input.EntityType,
				"entityId":   input.EntityID.Hex(),
				"error":      err.Error(),
			}).Warn("[ACTIVITY] Ghi nhật ký thất bại")
		}
	}()
}

// Log ghi nhật ký đồng bộ (dùng cho endpoint POST /activity của admin).
func (s *ActivityService) Log(ctx context.Context, input RecordInput) (activitymodels.Activity, error) {
	activity := activitymodels.Activity{
		Action:      input.Action,
		EntityType:  input.EntityType,
		EntityID:    input.EntityID,
		PerformedBy: input.PerformedBy,
		Details:     input.Details,
		IPAddress:   input.IPAddress,
		UserAgent:   input.UserAgent,
	}
	return s.InsertOne(ctx, activity)
}

// ListFilter điều kiện lọc danh sách nhật ký.
type ListFilter struct {
	EntityType string
	Action     string
	UserID     primitive.ObjectID // admin có thể lọc theo user bất kỳ
}

// buildScopedFilter dựng filter theo role: agent chỉ thấy nhật ký của chính mình.
func buildScopedFilter(f ListFilter, callerID primitive.ObjectID, isAdmin bool) bson.M {
	filter := bson.M{}
	if f.EntityType != "" {
		filter["entityType"] = f.EntityType
	}
	if f.Action != "" {
		filter["action"] = f.Action
	}
	if isAdmin {
		if !f.UserID.IsZero() {
			filter["performedBy"] = f.UserID
		}
	} else {
		filter["performedBy"] = callerID
	}
	return filter
}

// FindPaginated trả về nhật ký phân trang, mới nhất trước, scope theo role.
func (s *ActivityService) FindPaginated(ctx context.Context, f ListFilter, callerID primitive.ObjectID, isAdmin bool, page, limit int64) (*basemodels.PaginateResult[activitymodels.Activity], error) {
	filter := buildScopedFilter(f, callerID, isAdmin)
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return s.FindWithPagination(ctx, filter, page, limit, opts)
}

// FindRecent trả về n nhật ký mới nhất, scope theo role.
func (s *ActivityService) FindRecent(ctx context.Context, callerID primitive.ObjectID, isAdmin bool, n int64) ([]activitymodels.Activity, error) {
	filter := buildScopedFilter(ListFilter{}, callerID, isAdmin)
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(n)
	return s.Find(ctx, filter, opts)
}

// FindByEntity trả về lịch sử của một entity cụ thể, scope theo role.
func (s *ActivityService) FindByEntity(ctx context.Context, entityType string, entityID primitive.ObjectID, callerID primitive.ObjectID, isAdmin bool) ([]activitymodels.Activity, error) {
	filter := bson.M{
		"entityType": entityType,
		"entityId":   entityID,
	}
	if !isAdmin {
		filter["performedBy"] = callerID
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return s.Find(ctx, filter, opts)
}
