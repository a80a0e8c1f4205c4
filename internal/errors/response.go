package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ErrorResponse 定义错误响应结构
type ErrorResponse struct {
	Code   ErrorCode         `json:"code"`
	Error  string            `json:"error"`
	Errors map[string]string `json:"errors,omitempty"`
}

// 错误码与HTTP状态码映射
var errorStatusMap = map[ErrorCode]int{
	// 系统错误 (1000-1999)
	ErrInternal: http.StatusInternalServerError,
	ErrDatabase: http.StatusInternalServerError,
	ErrCache:    http.StatusInternalServerError,
	ErrTimeout:  http.StatusRequestTimeout,
	ErrStorage:  http.StatusInternalServerError,

	// 认证错误 (2000-2999)
	ErrUnauthorized:       http.StatusUnauthorized,
	ErrForbidden:          http.StatusForbidden,
	ErrInvalidToken:       http.StatusUnauthorized,
	ErrTokenExpired:       http.StatusUnauthorized,
	ErrInvalidCredentials: http.StatusUnauthorized,

	// 请求错误 (3000-3999)
	ErrBadRequest:       http.StatusBadRequest,
	ErrValidation:       http.StatusBadRequest,
	ErrResourceNotFound: http.StatusNotFound,
	ErrResourceExists:   http.StatusConflict,
	ErrResourceConflict: http.StatusConflict,

	// 业务错误 (4000-4999)
	ErrUserNotFound:     http.StatusNotFound,
	ErrUserExists:       http.StatusBadRequest,
	ErrProfileNotFound:  http.StatusNotFound,
	ErrProductNotFound:  http.StatusNotFound,
	ErrCartItemNotFound: http.StatusNotFound,
}

// StatusOf 返回错误码对应的HTTP状态码
func StatusOf(code ErrorCode) int {
	if status, ok := errorStatusMap[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// HandleError 统一处理错误响应
func HandleError(c *gin.Context, err error) {
	appErr, ok := As(err)
	if !ok {
		appErr = Wrap(ErrInternal, "Internal server error", err)
	}
	// 交给错误监控中间件统计
	_ = c.Error(appErr)

	c.JSON(StatusOf(appErr.Code), ErrorResponse{
		Code:   appErr.Code,
		Error:  appErr.Message,
		Errors: appErr.Fields,
	})
}

// HandleSuccess 统一处理成功响应，直接返回资源本身
func HandleSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// FromBindingError 把 gin 绑定错误转换为带字段信息的校验错误
func FromBindingError(err error) *AppError {
	var validationErrs validator.ValidationErrors
	if stderrors.As(err, &validationErrs) {
		fields := make(map[string]string, len(validationErrs))
		for _, fe := range validationErrs {
			fields[fe.Field()] = fieldMessage(fe)
		}
		return &AppError{Code: ErrValidation, Message: "Invalid request data", Err: err, Fields: fields}
	}

	var typeErr *json.UnmarshalTypeError
	if stderrors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "non_field_errors"
		}
		return &AppError{
			Code:    ErrValidation,
			Message: "Invalid request data",
			Err:     err,
			Fields:  map[string]string{field: fmt.Sprintf("A valid %s is required.", typeErr.Type.Kind())},
		}
	}

	return Wrap(ErrValidation, "Invalid request data", err)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "min":
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "gte":
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "oneof":
		return fmt.Sprintf("\"%v\" is not a valid choice.", fe.Value())
	case "username":
		return "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	case "mobile":
		return "Enter a valid mobile number."
	default:
		return "Invalid value."
	}
}
