package domain

// APIError represents a standardized API error with HTTP status code
type APIError struct {
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Title
}

// ValidationMessages maps validator tags to user-facing messages
var ValidationMessages = map[string]string{
	"required": "Trường này là bắt buộc",
	"email":    "Email không hợp lệ",
	"max":      "Vượt quá độ dài cho phép",
	"min":      "Chưa đạt độ dài tối thiểu",
	"gte":      "Giá trị nhỏ hơn mức cho phép",
	"lte":      "Giá trị lớn hơn mức cho phép",
	"uuid":     "Không đúng định dạng UUID",
	"oneof":    "Giá trị không nằm trong danh sách cho phép",
	"numeric":  "Phải là số",
	"datetime": "Không đúng định dạng ngày giờ",
}

// GetValidationMessage returns a user-facing message for a validation tag
func GetValidationMessage(tag string) string {
	if msg, ok := ValidationMessages[tag]; ok {
		return msg
	}
	return "Dữ liệu không hợp lệ: " + tag
}

// Common error types for RFC 7807 Problem Details
const (
	ErrorTypeValidation   = "validation_error"
	ErrorTypeNotFound     = "not_found"
	ErrorTypeBadRequest   = "bad_request"
	ErrorTypeConflict     = "conflict"
	ErrorTypeUnauthorized = "unauthorized"
	ErrorTypeForbidden    = "forbidden"
	ErrorTypeInternal     = "internal_error"
)
