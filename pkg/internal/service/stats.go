package service

import (
	"context"
	"time"

	ctxPkg "github.com/yeisme/recvault/pkg/context"
	"github.com/yeisme/recvault/pkg/internal/model"
	"github.com/yeisme/recvault/pkg/internal/storage/db"
	"github.com/yeisme/recvault/pkg/internal/types"
	"github.com/yeisme/recvault/pkg/metrics"
)

// StatsService 录制统计聚合.
type StatsService struct {
	dbc  *db.Client
	opts options
}

// NewStatsService 构造统计服务.
func NewStatsService(dbc *db.Client, opts ...Option) *StatsService {
	return &StatsService{dbc: dbc, opts: buildOptions(nil, opts)}
}

// StatsServiceFromContext 从请求上下文构造统计服务.
func StatsServiceFromContext(c context.Context) *StatsService {
	return NewStatsService(ctxPkg.GetDBClient(c))
}

// statusRow 按状态聚合查询的扫描目标.
type statusRow struct {
	Status        string
	Count         int64
	TotalSize     int64
	TotalDuration int64
	Downloads     int64
}

// Summary 汇总录制统计: 按状态分组 + 已过期数 + 窗口期内即将过期数.
// 过期相关计数均不含已删除记录. 结果同时镜像到 prometheus 指标.
func (s *StatsService) Summary(ctx context.Context) (*types.RecordingStatsSummary, error) {
	dbx := s.dbc.GetDB().WithContext(ctx)

	var rows []statusRow

	err := dbx.Model(&model.Recording{}).
		Select("status AS status, COUNT(*) AS count, COALESCE(SUM(file_size),0) AS total_size, COALESCE(SUM(duration),0) AS total_duration, COALESCE(SUM(download_count),0) AS downloads").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	summary := types.RecordingStatsSummary{
		ByStatus: make(map[string]types.StatusStatsItem, len(rows)),
	}

	for _, r := range rows {
		summary.ByStatus[r.Status] = types.StatusStatsItem{
			Count:         r.Count,
			TotalSize:     r.TotalSize,
			TotalDuration: r.TotalDuration,
		}
		summary.Total += r.Count
		summary.TotalSize += r.TotalSize
		summary.TotalDownloads += r.Downloads

		metrics.RecordingsByStatus.WithLabelValues(r.Status).Set(float64(r.Count))
	}

	now := s.opts.clock()

	err = dbx.Model(&model.Recording{}).
		Where("status <> ? AND expires_at < ?", model.StatusDeleted, now).
		Count(&summary.Expired).Error
	if err != nil {
		return nil, err
	}

	deadline := now.Add(time.Duration(s.opts.windowDays) * 24 * time.Hour)

	err = dbx.Model(&model.Recording{}).
		Where("status <> ? AND expires_at > ? AND expires_at <= ?", model.StatusDeleted, now, deadline).
		Count(&summary.ExpiringSoon).Error
	if err != nil {
		return nil, err
	}

	metrics.ExpiringRecordings.Set(float64(summary.ExpiringSoon))

	return &summary, nil
}
