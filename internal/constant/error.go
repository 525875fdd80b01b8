package constant

import (
	"errors"
	"fmt"
	"net/http"
)

// Error 错误接口
type Error interface {
	error
	Code() int
	Message() string
	WithData(data interface{}) Error
	Data() interface{}
}

// CustomError 自定义错误实现
type CustomError struct {
	code    int
	message string
	data    interface{}
	cause   error
}

func (e *CustomError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("code: %d, message: %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("code: %d, message: %s", e.code, e.message)
}

func (e *CustomError) Code() int {
	return e.code
}

func (e *CustomError) Message() string {
	return e.message
}

func (e *CustomError) WithData(data interface{}) Error {
	e.data = data
	return e
}

func (e *CustomError) Data() interface{} {
	return e.data
}

func (e *CustomError) Unwrap() error {
	return e.cause
}

// Is matches any constant error carrying the same code.
func (e *CustomError) Is(target error) bool {
	var t *CustomError
	if errors.As(target, &t) {
		return t.code == e.code
	}
	return false
}

// NewError 创建错误，message 取英文描述
func NewError(code int) Error {
	if info, exists := ErrorMessages[code]; exists {
		return &CustomError{code: code, message: info.EN}
	}
	return &CustomError{code: code, message: "Unknown error"}
}

// NewErrorf 创建带自定义描述的错误
func NewErrorf(code int, format string, args ...interface{}) Error {
	return &CustomError{code: code, message: fmt.Sprintf(format, args...)}
}

// Wrap keeps err reachable through errors.Unwrap.
func Wrap(code int, err error) Error {
	ce := NewError(code).(*CustomError)
	ce.cause = err
	return ce
}

// GetErrorInfo 获取错误信息
func GetErrorInfo(code int) (ErrorInfo, bool) {
	info, exists := ErrorMessages[code]
	return info, exists
}

// CodeOf returns the constant code carried by err, or CodeSystemError.
func CodeOf(err error) int {
	if err == nil {
		return CodeSuccess
	}
	var ce Error
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return CodeSystemError
}

// MessageOf returns the English message of the code carried by err.
func MessageOf(err error) string {
	var ce Error
	if errors.As(err, &ce) {
		return ce.Message()
	}
	return ErrorMessages[CodeSystemError].EN
}

// HTTPStatus 错误码对应的 HTTP 状态：not found 类为 404，其余为 400
func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeSuccess:
		return http.StatusOK
	case CodeMerchantNotFound, CodeOrderNotFound, CodeShopNotFound:
		return http.StatusNotFound
	case CodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusBadRequest
	}
}

// PublicMessage is the table message for err's code, without request details.
func PublicMessage(err error) string {
	if info, ok := ErrorMessages[CodeOf(err)]; ok {
		return info.EN
	}
	return ErrorMessages[CodeSystemError].EN
}
