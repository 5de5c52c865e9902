package types

import "time"

// StartRecordingRequest 开始录制请求.
// RetentionDays 为 0 时使用配置默认值.
type StartRecordingRequest struct {
	InterviewID   string `json:"interview_id" rule:"required,max=64"` // 面试ID
	RetentionDays int    `json:"retention_days,omitempty"`            // 保留天数（可选）
}

// StopRecordingRequest 停止录制请求，携带录制产物信息.
type StopRecordingRequest struct {
	FileURL      string `json:"file_url" rule:"required,max=1024"` // 文件访问URL
	FileSize     int64  `json:"file_size" rule:"min=0"`            // 文件大小（字节）
	Duration     int    `json:"duration" rule:"min=0"`             // 时长（秒）
	ThumbnailURL string `json:"thumbnail_url,omitempty" rule:"max=1024"`
}

// UpdateRetentionRequest 调整保留期请求.
type UpdateRetentionRequest struct {
	RetentionDays int `json:"retention_days" rule:"required,retention_days"` // 保留天数 [1,365]
}

// ScheduleDeleteRequest 排期删除请求，RetentionDays 为 nil 时沿用记录当前值.
type ScheduleDeleteRequest struct {
	RetentionDays *int `json:"retention_days,omitempty"`
}

// ScheduleDeleteResult 排期删除结果.
// DaysRemaining 为向上取整的剩余天数，已过期时为负.
type ScheduleDeleteResult struct {
	RecordingID   string    `json:"recording_id"`
	ExpiresAt     time.Time `json:"expires_at"`
	RetentionDays int       `json:"retention_days"`
	DaysRemaining int       `json:"days_remaining"`
}

// RecordingInfo 录制记录响应.
type RecordingInfo struct {
	RecordingID    string     `json:"recording_id"`
	InterviewID    string     `json:"interview_id"`
	Status         string     `json:"status"`
	StartTime      time.Time  `json:"start_time"`
	EndTime        *time.Time `json:"end_time,omitempty"`
	Duration       int        `json:"duration"`
	FileSize       int64      `json:"file_size"`
	FileURL        string     `json:"file_url,omitempty"`
	ThumbnailURL   string     `json:"thumbnail_url,omitempty"`
	RetentionDays  int        `json:"retention_days"`
	ExpiresAt      time.Time  `json:"expires_at"`
	DaysRemaining  int        `json:"days_remaining"`
	DownloadCount  int64      `json:"download_count"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty"`
	DeletedBy      string     `json:"deleted_by,omitempty"`
	DeletionReason string     `json:"deletion_reason,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// RecordingListResponse 录制列表响应.
type RecordingListResponse struct {
	Total      int             `json:"total"`
	Recordings []RecordingInfo `json:"recordings"`
}

// DownloadURLResult 预签名下载结果.
type DownloadURLResult struct {
	URL           string `json:"url"`
	ExpiresIn     int    `json:"expires_in"` // 有效期（秒）
	DownloadCount int64  `json:"download_count"`
}
