package types

import "time"

// CleanupRunStats 单次清理运行的统计.
// Skipped 为 true 表示有并发运行在进行，本次直接跳过，不计入累计计数.
type CleanupRunStats struct {
	Timestamp time.Time     `json:"timestamp"`
	Duration  time.Duration `json:"duration"`
	Found     int           `json:"found"`
	Deleted   int           `json:"deleted"`
	Errors    int           `json:"errors"`
	Skipped   bool          `json:"skipped"`
}

// CleanupStats 清理服务的累计统计.
type CleanupStats struct {
	TotalRuns    int64            `json:"total_runs"`
	TotalDeleted int64            `json:"total_deleted"`
	TotalErrors  int64            `json:"total_errors"`
	IsRunning    bool             `json:"is_running"`
	LastRun      *time.Time       `json:"last_run,omitempty"`
	LastRunStats *CleanupRunStats `json:"last_run_stats,omitempty"`
}
