package model

import (
	"time"
)

// RecordingStatus 录制状态.
type RecordingStatus string

const (
	StatusRecording  RecordingStatus = "recording"  // 录制中
	StatusProcessing RecordingStatus = "processing" // 已停止，等待转码/处理
	StatusReady      RecordingStatus = "ready"      // 可下载
	StatusFailed     RecordingStatus = "failed"     // 上传或处理失败
	StatusDeleted    RecordingStatus = "deleted"    // 已删除（墓碑，永不物理删除）
)

// DeletionReason 删除原因.
type DeletionReason string

const (
	ReasonAutoExpired DeletionReason = "auto_expired" // 保留期到期自动清理
	ReasonManual      DeletionReason = "manual"       // 运营手动删除
	ReasonUserRequest DeletionReason = "user_request" // 用户请求删除
	ReasonAdminAction DeletionReason = "admin_action" // 管理员操作
)

// Recording 面试录制模型.
// 记录一次面试录制会话及其远端资产的元数据；录制字节保存在对象存储中.
// 删除采用墓碑语义: Status 置为 deleted 并保留行，用于审计.
type Recording struct {
	ID uint `gorm:"primaryKey" json:"id"`
	// 对外暴露的不可变标识（ULID）
	RecordingID string `gorm:"size:64;uniqueIndex"  json:"recording_id"`
	// 所属面试会话，外键不在本子系统内管理
	InterviewID string `gorm:"size:64;index"        json:"interview_id"`
	StartTime   time.Time  `gorm:"index"            json:"start_time"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	// 录制时长（秒）
	Duration int   `json:"duration"`
	FileSize int64 `json:"file_size"`
	// 对象存储中的资产位置；删除后清空
	FileURL      string `gorm:"size:1024" json:"file_url"`
	ThumbnailURL string `gorm:"size:1024" json:"thumbnail_url"`
	// 与 ExpiresAt 组成复合索引，保证过期扫描高效
	Status    RecordingStatus `gorm:"size:16;index:idx_status_expires" json:"status"`
	ExpiresAt time.Time       `gorm:"index:idx_status_expires"         json:"expires_at"`
	// 保留天数，[1,365]，每次变更都会重算 ExpiresAt
	RetentionDays int   `gorm:"default:90" json:"retention_days"`
	DownloadCount int64 `json:"download_count"`
	// 墓碑字段，仅在 Status == deleted 时有值
	DeletedAt      *time.Time     `json:"deleted_at,omitempty"`
	DeletedBy      string         `gorm:"size:128" json:"deleted_by,omitempty"`
	DeletionReason DeletionReason `gorm:"size:32"  json:"deletion_reason,omitempty"`
	// 审计
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 指定表名.
func (Recording) TableName() string {
	return "recordings"
}

// IsDeleted 返回是否已进入终态.
func (r *Recording) IsDeleted() bool {
	return r.Status == StatusDeleted
}
