package queue

import "time"

// EventHeader 定义所有事件的通用头部元数据.
// 建议在发布消息时填充 TraceID、OccurredAt、Producer 等，便于追踪链路与审计.
type EventHeader struct {
	// Topic 冗余记录消息主题，便于离线处理或转储后定位来源主题.
	Topic string `json:"topic"`
	// TraceID 分布式追踪/关联 ID，可来自中间件或业务生成.
	TraceID string `json:"trace_id,omitempty"`
	// Producer 生产者服务名或节点标识.
	Producer string `json:"producer,omitempty"`
	// OccurredAt 事件发生时间（UTC，RFC3339）.
	OccurredAt time.Time `json:"occurred_at"`
	// Version 事件负载版本，便于向后兼容演进.
	Version string `json:"version,omitempty"`
}

// Message 是统一的消息封装，Header + Payload.
// T 即不同主题对应的负载结构体.
type Message[T any] struct {
	Header  EventHeader `json:"header"`
	Payload T           `json:"payload"`
}

// RecordingRef 标识一条录制记录.
type RecordingRef struct {
	RecordingID string `json:"recording_id"`
	InterviewID string `json:"interview_id,omitempty"`
}

// RecordingStartedPayload 录制开始.
type RecordingStartedPayload struct {
	Recording     RecordingRef `json:"recording"`
	RetentionDays int          `json:"retention_days"`
	ExpiresAt     time.Time    `json:"expires_at"`
}

// RecordingReadyPayload 录制处理完成，可供下载.
type RecordingReadyPayload struct {
	Recording RecordingRef `json:"recording"`
	FileURL   string       `json:"file_url,omitempty"`
	FileSize  int64        `json:"file_size,omitempty"`
	Duration  int          `json:"duration,omitempty"` // 秒
}

// RecordingFailedPayload 录制处理失败（如上传中断）.
type RecordingFailedPayload struct {
	Recording RecordingRef `json:"recording"`
	Error     string       `json:"error,omitempty"`
}

// RecordingDeletedPayload 录制被删除（人工或到期自动）.
type RecordingDeletedPayload struct {
	Recording RecordingRef `json:"recording"`
	Reason    string       `json:"reason"`
	DeletedBy string       `json:"deleted_by,omitempty"`
}

// RecordingExpiringPayload 一批录制即将到期.
type RecordingExpiringPayload struct {
	Count      int       `json:"count"`
	WindowDays int       `json:"window_days"`
	Deadline   time.Time `json:"deadline"`
}

// CleanupCompletedPayload 一轮到期清理结束.
type CleanupCompletedPayload struct {
	Found   int           `json:"found"`
	Deleted int           `json:"deleted"`
	Errors  int           `json:"errors"`
	Took    time.Duration `json:"took"`
}
