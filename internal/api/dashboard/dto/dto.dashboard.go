// Package dashboarddto - DTO cho domain dashboard.
package dashboarddto

import (
	activitymodels "biz_crm/internal/api/activity/models"
	crmmodels "biz_crm/internal/api/crm/models"
	taskmodels "biz_crm/internal/api/task/models"
)

// Các khoảng thời gian hợp lệ của dashboard
const (
	RangeWeek    = "week"
	RangeMonth   = "month"
	RangeQuarter = "quarter"
)

// SourceStat một dòng thống kê lead theo nguồn.
type SourceStat struct {
	Source string `json:"source" bson:"_id"`
	Count  int64  `json:"count" bson:"count"`
}

// DashboardData toàn bộ số liệu dashboard, tính song song all-or-nothing.
type DashboardData struct {
	TotalLeads      int64                 `json:"totalLeads"`
	TotalCustomers  int64                 `json:"totalCustomers"`
	OpenTasks       int64                 `json:"openTasks"`
	OverdueTasks    int64                 `json:"overdueTasks"`
	ConvertedLeads  int64                 `json:"convertedLeads"`
	ConversionRate  int64                 `json:"conversionRate"` // phần trăm, làm tròn
	StatusBreakdown map[string]int64      `json:"statusBreakdown"`
	TopSources      []SourceStat          `json:"topSources"`
	RecentLeads     []crmmodels.Lead      `json:"recentLeads"`
	UpcomingTasks   []taskmodels.Task     `json:"upcomingTasks"`
	RecentActivities []activitymodels.Activity `json:"recentActivities"`
	GeneratedAt     int64                 `json:"generatedAt"`
	Range           string                `json:"range"`
	UserRole        string                `json:"userRole"`
}

// QuickStats bộ số liệu rút gọn.
type QuickStats struct {
	TotalLeads     int64 `json:"totalLeads"`
	TotalCustomers int64 `json:"totalCustomers"`
	OpenTasks      int64 `json:"openTasks"`
	OverdueTasks   int64 `json:"overdueTasks"`
}
