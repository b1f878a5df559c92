// Package crmsvc - service Lead: CRUD, tìm kiếm, chuyển đổi sang khách hàng, thống kê.
package crmsvc

import (
	"context"
	"fmt"
	"strings"

	activitymodels "biz_crm/internal/api/activity/models"
	activitysvc "biz_crm/internal/api/activity/service"
	basemodels "biz_crm/internal/api/base/models"
	basesvc "biz_crm/internal/api/base/service"
	crmdto "biz_crm/internal/api/crm/dto"
	crmmodels "biz_crm/internal/api/crm/models"
	"biz_crm/internal/api/ownership"
	"biz_crm/internal/common"
	"biz_crm/internal/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// leadPatchAllowList các field agent/admin được phép gửi trong PATCH lead.
// assignedAgent chỉ admin được gửi (kiểm tra riêng).
var leadPatchAllowList = map[string]bool{
	"name":   true,
	"email":  true,
	"phone":  true,
	"status": true,
	"source": true,
	"notes":  true,
}

// leadSortFields các field được phép sort danh sách lead.
var leadSortFields = []string{"createdAt", "updatedAt", "name", "email", "status", "source"}

// Caller thông tin người gọi, truyền từ handler xuống service.
type Caller struct {
	ID      primitive.ObjectID
	IsAdmin bool
}

// LeadService xử lý logic lead.
type LeadService struct {
	*basesvc.BaseServiceMongoImpl[crmmodels.Lead]
	customerService *CustomerService
	activityService *activitysvc.ActivityService
}

// NewLeadService tạo LeadService mới.
func NewLeadService() (*LeadService, error) {
	coll, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Leads)
	if !exist {
		return nil, fmt.Errorf("không tìm thấy collection %s: %w", global.MongoDB_ColNames.Leads, common.ErrNotFound)
	}
	customerService, err := NewCustomerService()
	if err != nil {
		return nil, err
	}
	activityService, err := activitysvc.NewActivityService()
	if err != nil {
		return nil, err
	}
	return &LeadService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[crmmodels.Lead](coll),
		customerService:      customerService,
		activityService:      activityService,
	}, nil
}

// emailInUse kiểm tra email đã được một lead CHƯA lưu trữ khác dùng chưa.
// Lead đã archive được phép trùng email nên không dùng unique index.
func (s *LeadService) emailInUse(ctx context.Context, email string, excludeID primitive.ObjectID) (bool, error) {
	filter := bson.M{"email": email, "isArchived": false}
	if !excludeID.IsZero() {
		filter["_id"] = bson.M{"$ne": excludeID}
	}
	return s.DocumentExists(ctx, filter)
}

// Create tạo lead mới. Agent luôn tự gán cho mình; admin có thể chỉ định
// assignedAgent (mặc định là chính mình). Email phải duy nhất trong tập lead
// chưa lưu trữ.
func (s *LeadService) Create(ctx context.Context, caller Caller, input *crmdto.LeadCreateInput) (crmmodels.Lead, error) {
	var zero crmmodels.Lead

	email := strings.ToLower(strings.TrimSpace(input.Email))
	inUse, err := s.emailInUse(ctx, email, primitive.NilObjectID)
	if err != nil {
		return zero, err
	}
	if inUse {
		return zero, common.NewError(common.ErrCodeDatabaseQuery, "Email đã được một lead đang hoạt động sử dụng", common.StatusConflict, nil)
	}

	assignedAgent := caller.ID
	if input.AssignedAgent != "" {
		if !caller.IsAdmin {
			return zero, common.NewError(common.ErrCodeAuthRole, "Chỉ admin được chỉ định assignedAgent", common.StatusForbidden, nil)
		}
		assignedAgent, err = primitive.ObjectIDFromHex(input.AssignedAgent)
		if err != nil {
			return zero, common.ErrInvalidID
		}
	}

	status := input.Status
	if status == "" {
		status = crmmodels.LeadStatusNew
	}

	lead := crmmodels.Lead{
		Name:          strings.TrimSpace(input.Name),
		Email:         email,
		Phone:         input.Phone,
		Status:        status,
		Source:        input.Source,
		AssignedAgent: assignedAgent,
		Notes:         input.Notes,
		IsArchived:    false,
	}
	created, err := s.InsertOne(ctx, lead)
	if err != nil {
		return zero, err
	}

	s.activityService.Record(activitysvc.RecordInput{
		Action:      "Lead created",
		EntityType:  activitymodels.EntityLead,
		EntityID:    created.ID,
		PerformedBy: caller.ID,
		Details:     map[string]interface{}{"name": created.Name, "email": created.Email},
	})
	return created, nil
}

// FindPaginated trả về danh sách lead phân trang, scope theo role.
// Query nền luôn có isArchived=false; nhóm sở hữu và nhóm tìm kiếm được ghép
// qua ownership.Apply (không bao giờ flatten hai nhóm $or).
func (s *LeadService) FindPaginated(ctx context.Context, caller Caller, q crmdto.LeadListQuery, page, limit int64) (*basemodels.PaginateResult[crmmodels.Lead], error) {
	base := bson.M{"isArchived": false}
	if q.Status != "" && q.Status != "All" {
		if !crmmodels.IsValidLeadStatus(q.Status) {
			return nil, common.NewError(common.ErrCodeValidationInput, "Trạng thái lead không hợp lệ", common.StatusBadRequest, crmmodels.LeadStatuses)
		}
		base["status"] = q.Status
	}

	ownFilter := ownership.Lead.ListFilter(caller.ID, caller.IsAdmin)
	searchFilter := ownership.SearchRegexOr(q.Search, "name", "email", "phone", "source")
	filter := ownership.Apply(base, ownFilter, searchFilter)

	opts := options.Find().SetSort(buildSort(q.SortBy, q.SortOrder, "createdAt", -1, leadSortFields))
	return s.FindWithPagination(ctx, filter, page, limit, opts)
}

// FindAccessible nạp một lead theo ID và kiểm tra quyền sở hữu.
// Lead không thuộc quyền trả về ErrNotFound — giống hệt lead không tồn tại,
// để không lộ sự tồn tại của bản ghi.
func (s *LeadService) FindAccessible(ctx context.Context, caller Caller, leadID primitive.ObjectID) (crmmodels.Lead, error) {
	var zero crmmodels.Lead
	lead, err := s.FindOneById(ctx, leadID)
	if err != nil {
		return zero, err
	}
	if !ownership.Owns(caller.ID, caller.IsAdmin, lead.AssignedAgent) {
		return zero, common.ErrNotFound
	}
	return lead, nil
}

// Patch cập nhật lead theo allow-list. rawFields là danh sách key trong body thô;
// key ngoài allow-list → 400 kèm danh sách field hợp lệ; assignedAgent do agent
// gửi → 403.
func (s *LeadService) Patch(ctx context.Context, caller Caller, leadID primitive.ObjectID, input *crmdto.LeadUpdateInput, rawFields []string) (crmmodels.Lead, error) {
	var zero crmmodels.Lead

	if err := ValidateLeadPatchFields(rawFields, caller.IsAdmin); err != nil {
		return zero, err
	}

	lead, err := s.FindAccessible(ctx, caller, leadID)
	if err != nil {
		return zero, err
	}

	updateData := &basesvc.UpdateData{Set: map[string]interface{}{}}
	if input.Name != "" {
		updateData.Set["name"] = strings.TrimSpace(input.Name)
	}
	if input.Email != "" {
		email := strings.ToLower(strings.TrimSpace(input.Email))
		if email != lead.Email {
			inUse, err := s.emailInUse(ctx, email, lead.ID)
			if err != nil {
				return zero, err
			}
			if inUse {
				return zero, common.NewError(common.ErrCodeDatabaseQuery, "Email đã được một lead đang hoạt động sử dụng", common.StatusConflict, nil)
			}
		}
		updateData.Set["email"] = email
	}
	if input.Phone != "" {
		updateData.Set["phone"] = input.Phone
	}
	if input.Status != "" {
		updateData.Set["status"] = input.Status
	}
	if input.Source != "" {
		updateData.Set["source"] = input.Source
	}
	if input.Notes != "" {
		updateData.Set["notes"] = input.Notes
	}
	if input.AssignedAgent != "" {
		agentID, err := primitive.ObjectIDFromHex(input.AssignedAgent)
		if err != nil {
			return zero, common.ErrInvalidID
		}
		updateData.Set["assignedAgent"] = agentID
	}

	if len(updateData.Set) == 0 {
		return lead, nil
	}

	updated, err := s.UpdateById(ctx, lead.ID, updateData)
	if err != nil {
		return zero, err
	}

	s.activityService.Record(activitysvc.RecordInput{
		Action:      "Lead updated",
		EntityType:  activitymodels.EntityLead,
		EntityID:    updated.ID,
		PerformedBy: caller.ID,
		Details:     map[string]interface{}{"fields": rawFields},
	})
	return updated, nil
}

// Archive soft delete: đánh dấu isArchived=true, không xóa document.
func (s *LeadService) Archive(ctx context.Context, caller Caller, leadID primitive.ObjectID) error {
	lead, err := s.FindAccessible(ctx, caller, leadID)
	if err != nil {
		return err
	}
	updateData := &basesvc.UpdateData{
		Set: map[string]interface{}{"isArchived": true},
	}
	if _, err := s.UpdateById(ctx, lead.ID, updateData); err != nil {
		return err
	}
	s.activityService.Record(activitysvc.RecordInput{
		Action:      "Lead archived",
		EntityType:  activitymodels.EntityLead,
		EntityID:    lead.ID,
		PerformedBy: caller.ID,
	})
	return nil
}

// Convert chuyển lead thành khách hàng:
// 1) lead phải tồn tại và thuộc quyền; 2) email chưa có khách hàng nào dùng;
// 3) tạo Customer (company = source hoặc "Not specified", owner = assignedAgent,
// tags = ["converted-lead"]); 4) archive lead + ép trạng thái "Closed Won";
// 5) ghi hai nhật ký.
func (s *LeadService) Convert(ctx context.Context, caller Caller, leadID primitive.ObjectID) (crmmodels.Customer, error) {
	var zero crmmodels.Customer

	lead, err := s.FindAccessible(ctx, caller, leadID)
	if err != nil {
		return zero, err
	}

	exists, err := s.customerService.DocumentExists(ctx, bson.M{"email": lead.Email})
	if err != nil {
		return zero, err
	}
	if exists {
		return zero, common.NewError(common.ErrCodeDatabaseQuery, "Đã tồn tại khách hàng dùng email này", common.StatusConflict, nil)
	}

	customer := BuildCustomerFromLead(&lead)
	created, err := s.customerService.InsertOne(ctx, customer)
	if err != nil {
		// unique index email vẫn có thể chặn khi hai request đua nhau
		return zero, err
	}

	updateData := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"isArchived":          true,
			"status":              crmmodels.LeadStatusClosedWon,
			"convertedToCustomer": created.ID,
		},
	}
	if _, err := s.UpdateById(ctx, lead.ID, updateData); err != nil {
		return zero, err
	}

	s.activityService.Record(activitysvc.RecordInput{
		Action:      "Lead converted to customer",
		EntityType:  activitymodels.EntityLead,
		EntityID:    lead.ID,
		PerformedBy: caller.ID,
		Details:     map[string]interface{}{"customerId": created.ID.Hex()},
	})
	s.activityService.Record(activitysvc.RecordInput{
		Action:      "Customer created from lead",
		EntityType:  activitymodels.EntityCustomer,
		EntityID:    created.ID,
		PerformedBy: caller.ID,
		Details:     map[string]interface{}{"leadId": lead.ID.Hex()},
	})
	return created, nil
}

// StatsByStatus đếm lead chưa lưu trữ theo từng trạng thái (zero-fill đủ 4) + Total.
func (s *LeadService) StatsByStatus(ctx context.Context, caller Caller) (*crmdto.LeadStatusStats, error) {
	ownFilter := ownership.Lead.ListFilter(caller.ID, caller.IsAdmin)
	stats := &crmdto.LeadStatusStats{}
	for _, status := range crmmodels.LeadStatuses {
		filter := ownership.Apply(bson.M{"isArchived": false, "status": status}, ownFilter, nil)
		count, err := s.CountDocuments(ctx, filter)
		if err != nil {
			return nil, err
		}
		switch status {
		case crmmodels.LeadStatusNew:
			stats.New = count
		case crmmodels.LeadStatusInProgress:
			stats.InProgress = count
		case crmmodels.LeadStatusClosedWon:
			stats.ClosedWon = count
		case crmmodels.LeadStatusClosedLost:
			stats.ClosedLost = count
		}
		stats.Total += count
	}
	return stats, nil
}

// StatsBySource gom nhóm lead chưa lưu trữ theo nguồn, đếm giảm dần.
func (s *LeadService) StatsBySource(ctx context.Context, caller Caller) ([]crmdto.LeadSourceStat, error) {
	match := ownership.Apply(bson.M{"isArchived": false}, ownership.Lead.ListFilter(caller.ID, caller.IsAdmin), nil)
	pipeline := []bson.M{
		{"$match": match},
		{"$group": bson.M{"_id": "$source", "count": bson.M{"$sum": 1}}},
		{"$sort": bson.M{"count": -1}},
	}
	var results []crmdto.LeadSourceStat
	if err := s.Aggregate(ctx, pipeline, &results); err != nil {
		return nil, err
	}
	if results == nil {
		results = []crmdto.LeadSourceStat{}
	}
	return results, nil
}

// ValidateLeadPatchFields kiểm tra danh sách field trong body PATCH lead.
// Field ngoài allow-list → lỗi 400 kèm danh sách hợp lệ; assignedAgent chỉ admin.
func ValidateLeadPatchFields(rawFields []string, isAdmin bool) error {
	allowed := []string{"name", "email", "phone", "status", "source", "notes"}
	for _, field := range rawFields {
		if field == "assignedAgent" {
			if !isAdmin {
				return common.NewError(common.ErrCodeAuthRole, "Chỉ admin được thay đổi assignedAgent", common.StatusForbidden, nil)
			}
			continue
		}
		if !leadPatchAllowList[field] {
			return common.NewError(
				common.ErrCodeValidationInput,
				fmt.Sprintf("Field '%s' không được phép cập nhật", field),
				common.StatusBadRequest,
				map[string]interface{}{"allowedFields": allowed},
			)
		}
	}
	return nil
}

// BuildCustomerFromLead dựng Customer từ một lead khi chuyển đổi.
// Company lấy từ source, rỗng thì "Not specified"; owner kế thừa assignedAgent.
func BuildCustomerFromLead(lead *crmmodels.Lead) crmmodels.Customer {
	company := lead.Source
	if company == "" {
		company = "Not specified"
	}
	return crmmodels.Customer{
		Name:          lead.Name,
		Email:         lead.Email,
		Phone:         lead.Phone,
		Company:       company,
		Owner:         lead.AssignedAgent,
		ConvertedFrom: lead.ID,
		Tags:          []string{"converted-lead"},
		Notes:         []crmmodels.CustomerNote{},
		Status:        crmmodels.CustomerStatusActive,
	}
}

// buildSort dựng điều kiện sort từ query, chỉ chấp nhận field trong danh sách.
func buildSort(sortBy, sortOrder, defaultField string, defaultOrder int, allowed []string) bson.D {
	field := defaultField
	for _, f := range allowed {
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
