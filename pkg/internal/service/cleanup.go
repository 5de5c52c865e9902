package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	ctxPkg "github.com/yeisme/recvault/pkg/context"
	"github.com/yeisme/recvault/pkg/internal/assetstore"
	"github.com/yeisme/recvault/pkg/internal/model"
	"github.com/yeisme/recvault/pkg/internal/storage/db"
	"github.com/yeisme/recvault/pkg/internal/types"
	"github.com/yeisme/recvault/pkg/log"
	"github.com/yeisme/recvault/pkg/metrics"
	"github.com/yeisme/recvault/pkg/queue"
)

// CleanupService 扫描保留期到期的录制并执行墓碑化清理.
// Run 受单飞保护: 同一实例上并发触发会直接跳过，而非排队.
type CleanupService struct {
	dbc   *db.Client
	store assetstore.Store
	opts  options

	running atomic.Bool

	mu           sync.Mutex
	totalRuns    int64
	totalDeleted int64
	totalErrors  int64
	lastRunStats *types.CleanupRunStats
}

// NewCleanupService 显式注入依赖构造清理服务.
func NewCleanupService(dbc *db.Client, store assetstore.Store, opts ...Option) *CleanupService {
	return &CleanupService{
		dbc:   dbc,
		store: store,
		opts:  buildOptions(store, opts),
	}
}

// CleanupServiceFromContext 从请求上下文携带的存储管理器构造服务.
func CleanupServiceFromContext(c context.Context) *CleanupService {
	var (
		store assetstore.Store
		opts  []Option
	)

	if s3c := ctxPkg.GetS3Client(c); s3c != nil {
		store = assetstore.NewS3Store(s3c)
	}

	if mqc := ctxPkg.GetMQClient(c); mqc != nil {
		opts = append(opts, WithPublisher(mqc.Publisher()))
	}

	return NewCleanupService(ctxPkg.GetDBClient(c), store, opts...)
}

// Run 执行一轮到期清理，返回本轮统计.
// 已有运行在进行时立即返回 Skipped=true，不触碰任何计数.
// 单条记录的失败只累加 errors 并留待下轮重试；批量查询失败记录错误后提前返回.
// 任何情况下都不向调度器抛错.
func (s *CleanupService) Run(ctx context.Context) types.CleanupRunStats {
	if !s.running.CompareAndSwap(false, true) {
		log.Logger().Info().Msg("cleanup already running, skipping")
		return types.CleanupRunStats{Timestamp: s.opts.clock(), Skipped: true}
	}
	defer s.running.Store(false)

	l := log.Logger()
	now := s.opts.clock()
	stats := types.CleanupRunStats{Timestamp: now}

	var expired []model.Recording

	err := s.dbc.GetDB().WithContext(ctx).
		Where("status <> ? AND expires_at < ?", model.StatusDeleted, now).
		Order("expires_at ASC").
		Find(&expired).Error
	if err != nil {
		l.Error().Err(err).Msg("cleanup: query expired recordings")
		stats.Errors++
		stats.Duration = s.opts.clock().Sub(now)
		s.finishRun(stats)

		return stats
	}

	stats.Found = len(expired)

	for i := range expired {
		rec := &expired[i]

		if err := s.cleanupOne(ctx, rec); err != nil {
			l.Error().Err(err).
				Str("recording_id", rec.RecordingID).
				Msg("cleanup: delete expired recording")
			stats.Errors++

			continue
		}

		stats.Deleted++
	}

	stats.Duration = s.opts.clock().Sub(now)
	s.finishRun(stats)

	l.Info().
		Int("found", stats.Found).
		Int("deleted", stats.Deleted).
		Int("errors", stats.Errors).
		Dur("took", stats.Duration).
		Msg("cleanup run finished")

	return stats
}

// cleanupOne 清理单条到期录制: 尽力删除资产，成功后写墓碑.
// 资产删除失败时记录保持原样，下一轮仍会被扫描到.
func (s *CleanupService) cleanupOne(ctx context.Context, rec *model.Recording) error {
	if rec.FileURL != "" {
		ref, err := s.opts.namespace.RefFromURL(rec.FileURL, assetstore.KindVideo)
		if err != nil {
			return err
		}

		if err := s.store.Remove(ctx, ref); err != nil {
			return err
		}
	}

	if rec.ThumbnailURL != "" {
		ref, err := s.opts.namespace.RefFromURL(rec.ThumbnailURL, assetstore.KindImage)
		if err != nil {
			return err
		}

		if err := s.store.Remove(ctx, ref); err != nil {
			return err
		}
	}

	now := s.opts.clock()
	rec.Status = model.StatusDeleted
	rec.DeletedAt = &now
	rec.DeletedBy = "system"
	rec.DeletionReason = model.ReasonAutoExpired
	rec.FileURL = ""
	rec.ThumbnailURL = ""
	rec.UpdatedAt = now

	if err := s.dbc.GetDB().WithContext(ctx).Save(rec).Error; err != nil {
		return err
	}

	if s.opts.publisher != nil {
		err := queue.PublishRecordingDeleted(s.opts.publisher, queue.RecordingDeletedPayload{
			Recording: queue.RecordingRef{RecordingID: rec.RecordingID, InterviewID: rec.InterviewID},
			Reason:    string(model.ReasonAutoExpired),
			DeletedBy: "system",
		}, queue.WithProducer("recvault"))
		if err != nil {
			log.Logger().Warn().Err(err).Str("recording_id", rec.RecordingID).Msg("publish deleted event")
		}
	}

	return nil
}

// finishRun 更新累计计数、最近一次运行信息与 prometheus 指标.
func (s *CleanupService) finishRun(stats types.CleanupRunStats) {
	s.mu.Lock()
	s.totalRuns++
	s.totalDeleted += int64(stats.Deleted)
	s.totalErrors += int64(stats.Errors)
	copied := stats
	s.lastRunStats = &copied
	s.mu.Unlock()

	metrics.CleanupRuns.Inc()
	metrics.CleanupDeleted.Add(float64(stats.Deleted))
	metrics.CleanupErrors.Add(float64(stats.Errors))

	if s.opts.publisher != nil {
		err := queue.PublishCleanupCompleted(s.opts.publisher, queue.CleanupCompletedPayload{
			Found:   stats.Found,
			Deleted: stats.Deleted,
			Errors:  stats.Errors,
			Took:    stats.Duration,
		}, queue.WithProducer("recvault"))
		if err != nil {
			log.Logger().Warn().Err(err).Msg("publish cleanup completed event")
		}
	}
}

// NotifyExpiring 统计窗口期内即将到期的未删除录制并发布通知事件.
// 通知投递本身由下游消费者负责.
func (s *CleanupService) NotifyExpiring(ctx context.Context) (int, error) {
	now := s.opts.clock()
	deadline := now.Add(time.Duration(s.opts.windowDays) * 24 * time.Hour)

	var count int64

	err := s.dbc.GetDB().WithContext(ctx).
		Model(&model.Recording{}).
		Where("status <> ? AND expires_at > ? AND expires_at <= ?", model.StatusDeleted, now, deadline).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	metrics.ExpiringRecordings.Set(float64(count))
	log.Logger().Info().
		Int64("count", count).
		Int("window_days", s.opts.windowDays).
		Msg("recordings expiring within window")

	if count > 0 && s.opts.publisher != nil {
		err := queue.PublishRecordingExpiring(s.opts.publisher, queue.RecordingExpiringPayload{
			Count:      int(count),
			WindowDays: s.opts.windowDays,
			Deadline:   deadline,
		}, queue.WithProducer("recvault"))
		if err != nil {
			log.Logger().Warn().Err(err).Msg("publish expiring event")
		}
	}

	return int(count), nil
}

// Stats 返回累计计数与最近一次运行信息.
func (s *CleanupService) Stats() types.CleanupStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := types.CleanupStats{
		TotalRuns:    s.totalRuns,
		TotalDeleted: s.totalDeleted,
		TotalErrors:  s.totalErrors,
		IsRunning:    s.running.Load(),
	}

	if s.lastRunStats != nil {
		copied := *s.lastRunStats
		out.LastRunStats = &copied
		out.LastRun = &copied.Timestamp
	}

	return out
}
