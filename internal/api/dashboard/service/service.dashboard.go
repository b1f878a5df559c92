// Package dashboardsvc - service tổng hợp dashboard.
// Chạy toàn bộ sub-query song song bằng errgroup: một truy vấn lỗi làm fail cả
// request (all-or-nothing), không trả về số liệu thiếu.
package dashboardsvc

import (
	"context"
	"fmt"
	"math"
	"time"

	activitymodels "biz_crm/internal/api/activity/models"
	activitysvc "biz_crm/internal/api/activity/service"
	basesvc "biz_crm/internal/api/base/service"
	crmmodels "biz_crm/internal/api/crm/models"
	dashboarddto "biz_crm/internal/api/dashboard/dto"
	"biz_crm/internal/api/ownership"
	taskmodels "biz_crm/internal/api/task/models"
	tasksvc "biz_crm/internal/api/task/service"
	"biz_crm/internal/common"
	"biz_crm/internal/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"
)

// Caller thông tin người gọi.
type Caller struct {
	ID      primitive.ObjectID
	IsAdmin bool
	Role    string
}

// DashboardService gom số liệu từ các collection lead/customer/task/activity.
type DashboardService struct {
	leads      *basesvc.BaseServiceMongoImpl[crmmodels.Lead]
	customers  *basesvc.BaseServiceMongoImpl[crmmodels.Customer]
	tasks      *basesvc.BaseServiceMongoImpl[taskmodels.Task]
	activities *activitysvc.ActivityService
}

// NewDashboardService tạo DashboardService mới.
func NewDashboardService() (*DashboardService, error) {
	leadColl, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Leads)
	if !exist {
		return nil, fmt.Errorf("không tìm thấy collection %s: %w", global.MongoDB_ColNames.Leads, common.ErrNotFound)
	}
	customerColl, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Customers)
	if !exist {
		return nil, fmt.Errorf("không tìm thấy collection %s: %w", global.MongoDB_ColNames.Customers, common.ErrNotFound)
	}
	taskColl, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Tasks)
	if !exist {
		return nil, fmt.Errorf("không tìm thấy collection %s: %w", global.MongoDB_ColNames.Tasks, common.ErrNotFound)
	}
	activityService, err := activitysvc.NewActivityService()
	if err != nil {
		return nil, err
	}
	return &DashboardService{
		leads:      basesvc.NewBaseServiceMongo[crmmodels.Lead](leadColl),
		customers:  basesvc.NewBaseServiceMongo[crmmodels.Customer](customerColl),
		tasks:      basesvc.NewBaseServiceMongo[taskmodels.Task](taskColl),
		activities: activityService,
	}, nil
}

// NormalizeRange đưa tham số range về một trong ba giá trị hợp lệ.
// Range chỉ là metadata phản hồi; các truy vấn đếm không bị giới hạn thời gian.
func NormalizeRange(rangeName string) string {
	switch rangeName {
	case dashboarddto.RangeMonth, dashboarddto.RangeQuarter:
		return rangeName
	default:
		return dashboarddto.RangeWeek
	}
}

// ConversionRate tính round(converted/total*100); 0 khi không có lead.
func ConversionRate(converted, total int64) int64 {
	if total == 0 {
		return 0
	}
	return int64(math.Round(float64(converted) / float64(total) * 100))
}

// LeadBaseFilter điều kiện nền cho mọi truy vấn đếm lead trên dashboard.
func LeadBaseFilter() bson.M {
	return bson.M{"isArchived": false}
}

// ConvertedLeadFilter điều kiện đếm lead đã chuyển đổi. Kế thừa đầy đủ điều
// kiện nền để tập đếm luôn là tập con của tổng số lead (tỷ lệ không vượt 100%).
func ConvertedLeadFilter() bson.M {
	filter := LeadBaseFilter()
	filter["status"] = crmmodels.LeadStatusClosedWon
	return filter
}

// Phạm vi dữ liệu trên dashboard của agent: lead theo assignedAgent,
// customer theo agentId, task theo assignedTo.
func (s *DashboardService) leadScope(caller Caller) bson.M {
	if caller.IsAdmin {
		return bson.M{}
	}
	return bson.M{"assignedAgent": caller.ID}
}

func (s *DashboardService) customerScope(caller Caller) bson.M {
	if caller.IsAdmin {
		return bson.M{}
	}
	return bson.M{"agentId": caller.ID}
}

func (s *DashboardService) taskScope(caller Caller) bson.M {
	if caller.IsAdmin {
		return bson.M{}
	}
	return bson.M{"assignedTo": caller.ID}
}

// Build tổng hợp toàn bộ số liệu dashboard. Mọi metric phản ánh hiện trạng,
// không giới hạn theo thời gian; range chỉ được echo lại trong metadata.
func (s *DashboardService) Build(ctx context.Context, caller Caller, rangeName string) (*dashboarddto.DashboardData, error) {
	now := time.Now()
	rangeName = NormalizeRange(rangeName)

	data := &dashboarddto.DashboardData{
		GeneratedAt: now.UnixMilli(),
		Range:       rangeName,
		UserRole:    caller.Role,
	}

	leadScope := s.leadScope(caller)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		count, err := s.leads.CountDocuments(gctx, ownership.Apply(LeadBaseFilter(), leadScope, nil))
		data.TotalLeads = count
		return err
	})
	g.Go(func() error {
		count, err := s.customers.CountDocuments(gctx, ownership.Apply(bson.M{}, s.customerScope(caller), nil))
		data.TotalCustomers = count
		return err
	})
	g.Go(func() error {
		filter := ownership.Apply(bson.M{"status": bson.M{"$in": []string{taskmodels.TaskStatusOpen, taskmodels.TaskStatusInProgress}}}, s.taskScope(caller), nil)
		count, err := s.tasks.CountDocuments(gctx, filter)
		data.OpenTasks = count
		return err
	})
	g.Go(func() error {
		count, err := s.tasks.CountDocuments(gctx, ownership.Apply(tasksvc.OverdueFilter(now), s.taskScope(caller), nil))
		data.OverdueTasks = count
		return err
	})
	g.Go(func() error {
		count, err := s.leads.CountDocuments(gctx, ownership.Apply(ConvertedLeadFilter(), leadScope, nil))
		data.ConvertedLeads = count
		return err
	})
	g.Go(func() error {
		breakdown := make(map[string]int64, len(crmmodels.LeadStatuses))
		for _, status := range crmmodels.LeadStatuses {
			breakdown[status] = 0
		}
		pipeline := []bson.M{
			{"$match": ownership.Apply(LeadBaseFilter(), leadScope, nil)},
			{"$group": bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}},
		}
		var rows []struct {
			Status string `bson:"_id"`
			Count  int64  `bson:"count"`
		}
		if err := s.leads.Aggregate(gctx, pipeline, &rows); err != nil {
			return err
		}
		for _, row := range rows {
			breakdown[row.Status] = row.Count
		}
		data.StatusBreakdown = breakdown
		return nil
	})
	g.Go(func() error {
		pipeline := []bson.M{
			{"$match": ownership.Apply(LeadBaseFilter(), leadScope, nil)},
			{"$group": bson.M{"_id": "$source", "count": bson.M{"$sum": 1}}},
			{"$sort": bson.M{"count": -1}},
			{"$limit": 5},
		}
		var rows []dashboarddto.SourceStat
		if err := s.leads.Aggregate(gctx, pipeline, &rows); err != nil {
			return err
		}
		if rows == nil {
			rows = []dashboarddto.SourceStat{}
		}
		data.TopSources = rows
		return nil
	})
	g.Go(func() error {
		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(5)
		leads, err := s.leads.Find(gctx, ownership.Apply(LeadBaseFilter(), leadScope, nil), opts)
		if leads == nil {
			leads = []crmmodels.Lead{}
		}
		data.RecentLeads = leads
		return err
	})
	g.Go(func() error {
		// 5 task gần hạn nhất, dueDate tăng dần, chưa Done
		filter := ownership.Apply(bson.M{"status": bson.M{"$in": []string{taskmodels.TaskStatusOpen, taskmodels.TaskStatusInProgress}}}, s.taskScope(caller), nil)
		opts := options.Find().SetSort(bson.D{{Key: "dueDate", Value: 1}}).SetLimit(5)
		tasks, err := s.tasks.Find(gctx, filter, opts)
		if tasks == nil {
			tasks = []taskmodels.Task{}
		}
		data.UpcomingTasks = tasks
		return err
	})
	g.Go(func() error {
		activities, err := s.activities.FindRecent(gctx, caller.ID, caller.IsAdmin, 10)
		if activities == nil {
			activities = []activitymodels.Activity{}
		}
		data.RecentActivities = activities
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	data.ConversionRate = ConversionRate(data.ConvertedLeads, data.TotalLeads)
	return data, nil
}

// QuickStats trả về bộ số liệu rút gọn, cùng cách scope, chạy song song.
func (s *DashboardService) QuickStats(ctx context.Context, caller Caller) (*dashboarddto.QuickStats, error) {
	now := time.Now()
	stats := &dashboarddto.QuickStats{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		count, err := s.leads.CountDocuments(gctx, ownership.Apply(LeadBaseFilter(), s.leadScope(caller), nil))
		stats.TotalLeads = count
		return err
	})
	g.Go(func() error {
		count, err := s.customers.CountDocuments(gctx, ownership.Apply(bson.M{}, s.customerScope(caller), nil))
		stats.TotalCustomers = count
		return err
	})
	g.Go(func() error {
		filter := ownership.Apply(bson.M{"status": bson.M{"$in": []string{taskmodels.TaskStatusOpen, taskmodels.TaskStatusInProgress}}}, s.taskScope(caller), nil)
		count, err := s.tasks.CountDocuments(gctx, filter)
		stats.OpenTasks = count
		return err
	})
	g.Go(func() error {
		count, err := s.tasks.CountDocuments(gctx, ownership.Apply(tasksvc.OverdueFilter(now), s.taskScope(caller), nil))
		stats.OverdueTasks = count
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}
