package service

import "errors"

// 服务层哨兵错误，HTTP 层据此映射状态码.
var (
	// ErrRecordingNotFound 录制记录不存在.
	ErrRecordingNotFound = errors.New("recording not found")
	// ErrInvalidState 当前状态不允许该操作（如重复删除、未录制就停止）.
	ErrInvalidState = errors.New("operation not allowed in current state")
	// ErrRetentionOutOfRange 保留天数超出 [1,365].
	ErrRetentionOutOfRange = errors.New("retention days out of range")
)
