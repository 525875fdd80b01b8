package utils

import (
	"errors"

	"pg-bridge-api/internal/constant"
)

// 统一响应格式（支持中英文提示）, 管理接口使用
type Response struct {
	Code    int         `json:"code"`
	Msg     string      `json:"msg"`              // 中文描述
	MsgEN   string      `json:"msg_en,omitempty"` // 英文描述
	Data    interface{} `json:"data,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
}

// 成功响应
func Success(data interface{}) Response {
	return Response{
		Code:  constant.CodeSuccess,
		Msg:   "成功",
		MsgEN: "Success",
		Data:  data,
	}
}

// 错误响应（自动从 constant 中获取中英文描述）
func Error(code int) Response {
	if info, exists := constant.ErrorMessages[code]; exists {
		return Response{Code: code, Msg: info.CN, MsgEN: info.EN}
	}
	return Response{Code: code, Msg: "未知错误", MsgEN: "Unknown error"}
}

// 错误响应（带 TraceID）
func ErrorWithTrace(code int, traceID string) Response {
	resp := Error(code)
	resp.TraceID = traceID
	return resp
}

// FromError 把业务错误转换为响应, 错误自带的 data 一并返回
func FromError(err error, traceID string) Response {
	resp := ErrorWithTrace(constant.CodeOf(err), traceID)
	var ce constant.Error
	if errors.As(err, &ce) {
		resp.Data = ce.Data()
	}
	return resp
}
