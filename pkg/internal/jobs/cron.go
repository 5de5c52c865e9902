// Package jobs 负责注册与实现业务定时任务（基于 scheduler）。
package jobs

import (
	"context"
	"fmt"

	"github.com/yeisme/recvault/pkg/configs"
	ctxPkg "github.com/yeisme/recvault/pkg/context"
	"github.com/yeisme/recvault/pkg/internal/service"
	"github.com/yeisme/recvault/pkg/internal/storage"
	"github.com/yeisme/recvault/pkg/log"
	"github.com/yeisme/recvault/pkg/scheduler"
)

// 任务名称.
const (
	JobRecordingCleanup = "recording-cleanup" // 每日到期清理
	JobExpiryNotify     = "expiry-notify"     // 每周到期提醒
)

// RegisterCronJobs 配置保留期相关定时任务：
//   - 每天（默认凌晨 2 点）清理保留期已到的录制
//   - 每周（默认周一上午 9 点）统计即将到期的录制并发通知事件
//
// 两个任务与 HTTP 手动触发共用同一个 CleanupService 实例，
// 单飞保护与累计计数才能覆盖所有触发来源。
func RegisterCronJobs(sched *scheduler.Scheduler, mgr *storage.Manager, cleanup *service.CleanupService, cfg *configs.RetentionConfig) error {
	if sched == nil {
		return fmt.Errorf("scheduler is nil")
	}

	if cleanup == nil {
		return fmt.Errorf("cleanup service is nil")
	}

	// 将 storage manager 注入到 context，便于 service 使用
	baseCtx := ctxPkg.WithStorageManager(context.Background(), mgr)

	err := sched.AddCron(JobRecordingCleanup, cfg.CleanupCron, func(ctx context.Context) {
		runRecordingCleanup(ctx, cleanup)
	}, baseCtx)
	if err != nil {
		return err
	}

	return sched.AddCron(JobExpiryNotify, cfg.NotifyCron, func(ctx context.Context) {
		runExpiryNotify(ctx, cleanup)
	}, baseCtx)
}

// runRecordingCleanup 执行一轮到期清理。Run 自带单飞保护与错误吞咽，此处只记日志。
func runRecordingCleanup(ctx context.Context, cleanup *service.CleanupService) {
	l := log.Logger().With().Str("job", JobRecordingCleanup).Logger()

	stats := cleanup.Run(ctx)
	if stats.Skipped {
		l.Warn().Msg("previous cleanup still running, skipped")
		return
	}

	l.Info().
		Int("found", stats.Found).
		Int("deleted", stats.Deleted).
		Int("errors", stats.Errors).
		Msg("scheduled cleanup done")
}

// runExpiryNotify 统计即将到期的录制。
func runExpiryNotify(ctx context.Context, cleanup *service.CleanupService) {
	l := log.Logger().With().Str("job", JobExpiryNotify).Logger()

	count, err := cleanup.NotifyExpiring(ctx)
	if err != nil {
		l.Error().Err(err).Msg("expiry notify failed")
		return
	}

	l.Info().Int("count", count).Msg("expiry notify done")
}
