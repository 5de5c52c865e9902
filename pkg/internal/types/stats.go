package types

// StatusStatsItem 按状态聚合的统计项.
type StatusStatsItem struct {
	Count         int64 `json:"count"`
	TotalSize     int64 `json:"total_size"`
	TotalDuration int64 `json:"total_duration"` // 秒
}

// RecordingStatsSummary 录制总体统计.
// Expired 与 ExpiringSoon 均不含已删除记录.
type RecordingStatsSummary struct {
	Total          int64                      `json:"total"`
	ByStatus       map[string]StatusStatsItem `json:"by_status"`
	TotalSize      int64                      `json:"total_size"`
	TotalDownloads int64                      `json:"total_downloads"`
	Expired        int64                      `json:"expired"`
	ExpiringSoon   int64                      `json:"expiring_soon"`
}
