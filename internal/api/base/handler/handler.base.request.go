package basehdl

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"biz_crm/internal/common"
	"biz_crm/internal/global"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ParseRequestBody parse và validate dữ liệu từ request body.
// Sử dụng json.Decoder với UseNumber() để xử lý chính xác các số.
//
// Parameters:
// - c: Fiber context
// - input: Con trỏ tới struct sẽ chứa dữ liệu được parse
//
// Returns:
// - error: Lỗi nếu có trong quá trình parse hoặc validate
func (h *BaseHandler) ParseRequestBody(c fiber.Ctx, input interface{}) error {
	body := c.Body()
	reader := bytes.NewReader(body)
	decoder := json.NewDecoder(reader)
	decoder.UseNumber()
	if err := decoder.Decode(input); err != nil {
		return common.NewError(
			common.ErrCodeValidationFormat,
			fmt.Sprintf("Dữ liệu gửi lên không đúng định dạng JSON hoặc không khớp với cấu trúc yêu cầu. Chi tiết: %v", err),
			common.StatusBadRequest,
			err,
		)
	}

	// Validate chi tiết input với struct tag (validate, oneof, etc.)
	if err := h.ValidateInput(input); err != nil {
		return err
	}

	return nil
}

// ValidateInput validate struct input dựa trên các struct tag `validate`.
// Lỗi validation được format lại theo từng field để client dễ hiển thị.
func (h *BaseHandler) ValidateInput(input interface{}) error {
	if err := global.Validate.Struct(input); err != nil {
		details := make(map[string]string)
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			for _, fieldErr := range validationErrors {
				details[fieldErr.Field()] = fmt.Sprintf("Không thỏa điều kiện '%s'", fieldErr.Tag())
			}
		}
		return common.NewError(
			common.ErrCodeValidationInput,
			common.MsgValidationError,
			common.StatusBadRequest,
			details,
		)
	}
	return nil
}

// ParsePagination xử lý việc parse thông tin phân trang từ request.
// Hỗ trợ các tham số:
// - page: Số trang (mặc định: 1)
// - limit: Số lượng item trên một trang (mặc định: 10)
//
// Parameters:
// - c: Fiber context
//
// Returns:
// - page: Số trang
// - limit: Số lượng item trên một trang
func (h *BaseHandler) ParsePagination(c fiber.Ctx) (int64, int64) {
	page, err := strconv.ParseInt(c.Query("page", "1"), 10, 64)
	if err != nil || page <= 0 {
		page = 1
	}

	limit, err := strconv.ParseInt(c.Query("limit", "10"), 10, 64)
	if err != nil || limit <= 0 {
		limit = 10
	}

	return page, limit
}

// ParseSort parse tham số sắp xếp từ query string (?sortBy=createdAt&order=desc).
// Chỉ chấp nhận các field nằm trong danh sách allowed; field ngoài danh sách
// sẽ rơi về defaultField để tránh client sort trên field tùy ý.
//
// Returns:
// - bson.D: Điều kiện sort truyền vào MongoDB
func (h *BaseHandler) ParseSort(c fiber.Ctx, defaultField string, allowed ...string) bson.D {
	sortBy := c.Query("sortBy", defaultField)
	ok := false
	for _, f := range allowed {
		if f == sortBy {
			ok = true
			break
		}
	}
	if !ok {
		sortBy = defaultField
	}

	order := -1
	if strings.EqualFold(c.Query("order", "desc"), "asc") {
		order = 1
	}

	return bson.D{{Key: sortBy, Value: order}}
}

// GetIDFromContext lấy ID từ URI params của request.
//
// Parameters:
// - c: Fiber context
//
// Returns:
// - string: ID từ params
func (h *BaseHandler) GetIDFromContext(c fiber.Ctx) string {
	return c.Params("id")
}

// ParseObjectID chuyển ID dạng hex string từ URI params thành ObjectID.
// Trả về ErrInvalidID nếu chuỗi không đúng định dạng.
func (h *BaseHandler) ParseObjectID(c fiber.Ctx) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(h.GetIDFromContext(c))
	if err != nil {
		return primitive.NilObjectID, common.ErrInvalidID
	}
	return id, nil
}

// GetUserIDFromContext lấy ID của user hiện tại do middleware auth lưu vào locals.
// Trả về ErrTokenMissing nếu request chưa qua middleware auth.
func (h *BaseHandler) GetUserIDFromContext(c fiber.Ctx) (primitive.ObjectID, error) {
	userIDStr, ok := c.Locals("user_id").(string)
	if !ok || userIDStr == "" {
		return primitive.NilObjectID, common.ErrTokenMissing
	}
	userID, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		return primitive.NilObjectID, common.ErrTokenInvalid
	}
	return userID, nil
}

// GetUserRoleFromContext lấy role của user hiện tại do middleware auth lưu vào locals.
func (h *BaseHandler) GetUserRoleFromContext(c fiber.Ctx) string {
	role, _ := c.Locals("user_role").(string)
	return role
}

// IsAdmin kiểm tra user hiện tại có phải admin không.
func (h *BaseHandler) IsAdmin(c fiber.Ctx) bool {
	return h.GetUserRoleFromContext(c) == "admin"
}
