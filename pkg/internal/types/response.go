// Package types 定义 HTTP 层与服务层共享的请求/响应结构.
package types

// Response 统一响应信封.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// OK 构建成功响应.
func OK(data any) Response {
	return Response{Success: true, Data: data}
}

// Fail 构建失败响应.
func Fail(msg string) Response {
	return Response{Success: false, Message: msg}
}
