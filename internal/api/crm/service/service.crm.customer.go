// Package crmsvc - service Customer: CRUD, tìm kiếm, ghi chú.
package crmsvc

import (
	"context"
	"fmt"
	"strings"
	"time"

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

// customerSortFields các field được phép sort danh sách khách hàng.
var customerSortFields = []string{"createdAt", "updatedAt", "name", "email", "company", "status"}

// CustomerService xử lý logic khách hàng.
type CustomerService struct {
	*basesvc.BaseServiceMongoImpl[crmmodels.Customer]
	activityService *activitysvc.ActivityService
}

// NewCustomerService tạo CustomerService mới.
func NewCustomerService() (*CustomerService, error) {
	coll, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Customers)
	if !exist {
		return nil, fmt.Errorf("không tìm thấy collection %s: %w", global.MongoDB_ColNames.Customers, common.ErrNotFound)
	}
	activityService, err := activitysvc.NewActivityService()
	if err != nil {
		return nil, err
	}
	return &CustomerService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[crmmodels.Customer](coll),
		activityService:      activityService,
	}, nil
}

// Create tạo khách hàng mới. Owner là người gọi; agentId tùy chọn.
// Email trùng bị unique index chặn và trả về 409 qua ConvertMongoError.
func (s *CustomerService) Create(ctx context.Context, caller Caller, input *crmdto.CustomerCreateInput) (crmmodels.Customer, error) {
	var zero crmmodels.Customer

	var agentID primitive.ObjectID
	if input.AgentID != "" {
		var err error
		agentID, err = primitive.ObjectIDFromHex(input.AgentID)
		if err != nil {
			return zero, common.ErrInvalidID
		}
	}

	status := input.Status
	if status == "" {
		status = crmmodels.CustomerStatusActive
	}

	tags := []string(input.Tags)
	if tags == nil {
		tags = []string{}
	}

	notes := []crmmodels.CustomerNote{}
	if strings.TrimSpace(input.Note) != "" {
		notes = append(notes, crmmodels.CustomerNote{
			ID:        primitive.NewObjectID(),
			Content:   strings.TrimSpace(input.Note),
			CreatedBy: caller.ID,
			CreatedAt: time.Now().UnixMilli(),
		})
	}

	customer := crmmodels.Customer{
		Name:    strings.TrimSpace(input.Name),
		Email:   strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:   input.Phone,
		Company: input.Company,
		AgentID: agentID,
		Tags:    tags,
		Notes:   notes,
		Owner:   caller.ID,
		Status:  status,
	}
	created, err := s.InsertOne(ctx, customer)
	if err != nil {
		return zero, err
	}

	s.activityService.Record(activitysvc.RecordInput{
		Action:      "Customer created",
		EntityType:  activitymodels.EntityCustomer,
		EntityID:    created.ID,
		PerformedBy: caller.ID,
		Details:     map[string]interface{}{"name": created.Name, "email": created.Email},
	})
	return created, nil
}

// FindPaginated trả về danh sách khách hàng phân trang, scope theo role.
// Nhóm sở hữu ($or owner/agentId) và nhóm tìm kiếm được ghép qua ownership.Apply.
func (s *CustomerService) FindPaginated(ctx context.Context, caller Caller, q crmdto.CustomerListQuery, page, limit int64) (*basemodels.PaginateResult[crmmodels.Customer], error) {
	base := bson.M{}
	if q.AgentID != "" {
		agentID, err := primitive.ObjectIDFromHex(q.AgentID)
		if err != nil {
			return nil, common.ErrInvalidID
		}
		base["agentId"] = agentID
	}

	ownFilter := ownership.Customer.ListFilter(caller.ID, caller.IsAdmin)
	searchFilter := ownership.SearchRegexOr(q.Search, "name", "email", "company", "tags")
	filter := ownership.Apply(base, ownFilter, searchFilter)

	opts := options.Find().SetSort(buildSort(q.SortBy, q.SortOrder, "createdAt", -1, customerSortFields))
	return s.FindWithPagination(ctx, filter, page, limit, opts)
}

// FindAccessible nạp khách hàng theo ID và kiểm tra quyền sở hữu (owner hoặc agentId).
// Không thuộc quyền → ErrNotFound, giống hệt bản ghi không tồn tại.
func (s *CustomerService) FindAccessible(ctx context.Context, caller Caller, customerID primitive.ObjectID) (crmmodels.Customer, error) {
	var zero crmmodels.Customer
	customer, err := s.FindOneById(ctx, customerID)
	if err != nil {
		return zero, err
	}
	if !ownership.Owns(caller.ID, caller.IsAdmin, customer.Owner, customer.AgentID) {
		return zero, common.ErrNotFound
	}
	return customer, nil
}

// Update cập nhật khách hàng. agentId="" gỡ assignment (unset); agentId không
// gửi thì giữ nguyên. Email trùng → 409 qua unique index.
func (s *CustomerService) Update(ctx context.Context, caller Caller, customerID primitive.ObjectID, input *crmdto.CustomerUpdateInput) (crmmodels.Customer, error) {
	var zero crmmodels.Customer

	customer, err := s.FindAccessible(ctx, caller, customerID)
	if err != nil {
		return zero, err
	}

	updateData := &basesvc.UpdateData{Set: map[string]interface{}{}}
	if input.Name != "" {
		updateData.Set["name"] = strings.TrimSpace(input.Name)
	}
	if input.Email != "" {
		updateData.Set["email"] = strings.ToLower(strings.TrimSpace(input.Email))
	}
	if input.Phone != "" {
		updateData.Set["phone"] = input.Phone
	}
	if input.Company != "" {
		updateData.Set["company"] = input.Company
	}
	if input.Status != "" {
		updateData.Set["status"] = input.Status
	}
	if input.Tags != nil {
		updateData.Set["tags"] = []string(*input.Tags)
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

	if len(updateData.Set) == 0 && len(updateData.Unset) == 0 {
		return customer, nil
	}

	updated, err := s.UpdateById(ctx, customer.ID, updateData)
	if err != nil {
		return zero, err
	}

	s.activityService.Record(activitysvc.RecordInput{
		Action:      "Customer updated",
		EntityType:  activitymodels.EntityCustomer,
		EntityID:    updated.ID,
		PerformedBy: caller.ID,
	})
	return updated, nil
}

// Delete xóa hẳn khách hàng (hard delete, khác với lead chỉ archive).
func (s *CustomerService) Delete(ctx context.Context, caller Caller, customerID primitive.ObjectID) error {
	customer, err := s.FindAccessible(ctx, caller, customerID)
	if err != nil {
		return err
	}
	if err := s.DeleteById(ctx, customer.ID); err != nil {
		return err
	}
	s.activityService.Record(activitysvc.RecordInput{
		Action:      "Customer deleted",
		EntityType:  activitymodels.EntityCustomer,
		EntityID:    customer.ID,
		PerformedBy: caller.ID,
		Details:     map[string]interface{}{"name": customer.Name, "email": customer.Email},
	})
	return nil
}

// AddNote thêm một ghi chú vào khách hàng, trả về ghi chú vừa tạo.
func (s *CustomerService) AddNote(ctx context.Context, caller Caller, customerID primitive.ObjectID, input *crmdto.CustomerNoteInput) (crmmodels.CustomerNote, error) {
	var zero crmmodels.CustomerNote

	customer, err := s.FindAccessible(ctx, caller, customerID)
	if err != nil {
		return zero, err
	}

	note := crmmodels.CustomerNote{
		ID:        primitive.NewObjectID(),
		Content:   strings.TrimSpace(input.Content),
		CreatedBy: caller.ID,
		CreatedAt: time.Now().UnixMilli(),
	}
	updateData := &basesvc.UpdateData{
		Push: map[string]interface{}{"notes": note},
	}
	if _, err := s.UpdateById(ctx, customer.ID, updateData); err != nil {
		return zero, err
	}

	s.activityService.Record(activitysvc.RecordInput{
		Action:      "Note added to customer",
		EntityType:  activitymodels.EntityCustomer,
		EntityID:    customer.ID,
		PerformedBy: caller.ID,
	})
	return note, nil
}

// GetNotes trả về danh sách ghi chú của khách hàng.
func (s *CustomerService) GetNotes(ctx context.Context, caller Caller, customerID primitive.ObjectID) ([]crmmodels.CustomerNote, error) {
	customer, err := s.FindAccessible(ctx, caller, customerID)
	if err != nil {
		return nil, err
	}
	if customer.Notes == nil {
		return []crmmodels.CustomerNote{}, nil
	}
	return customer.Notes, nil
}
