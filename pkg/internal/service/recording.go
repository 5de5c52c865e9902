package service

import (
	"context"
	crand "crypto/rand"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/oklog/ulid"
	"gorm.io/gorm"

	ctxPkg "github.com/yeisme/recvault/pkg/context"
	"github.com/yeisme/recvault/pkg/internal/assetstore"
	"github.com/yeisme/recvault/pkg/internal/model"
	"github.com/yeisme/recvault/pkg/internal/retention"
	"github.com/yeisme/recvault/pkg/internal/storage/db"
	"github.com/yeisme/recvault/pkg/internal/types"
	"github.com/yeisme/recvault/pkg/log"
	"github.com/yeisme/recvault/pkg/queue"
)

var ulidEntropy = ulid.Monotonic(crand.Reader, 0)

// RecordingService 管理面试录制的完整生命周期:
// 开始/停止/处理/删除排期/保留期调整/墓碑删除/下载计数.
type RecordingService struct {
	dbc   *db.Client
	store assetstore.Store
	opts  options
}

// NewRecordingService 显式注入依赖构造服务.
func NewRecordingService(dbc *db.Client, store assetstore.Store, opts ...Option) *RecordingService {
	return &RecordingService{
		dbc:   dbc,
		store: store,
		opts:  buildOptions(store, opts),
	}
}

// RecordingServiceFromContext 从请求上下文携带的存储管理器构造服务.
func RecordingServiceFromContext(c context.Context) *RecordingService {
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

	return NewRecordingService(ctxPkg.GetDBClient(c), store, opts...)
}

// newRecordingID 生成对外暴露的录制标识.
func newRecordingID(t time.Time) string {
	return "rec_" + ulid.MustNew(ulid.Timestamp(t), ulidEntropy).String()
}

// Start 为一场面试开启新的录制会话.
// retentionDays 为 0 时取配置默认值; 超出 [1,365] 返回 ErrRetentionOutOfRange.
func (s *RecordingService) Start(ctx context.Context, interviewID string, retentionDays int) (*types.RecordingInfo, error) {
	if strings.TrimSpace(interviewID) == "" {
		return nil, fmt.Errorf("interview id is required")
	}

	if retentionDays == 0 {
		retentionDays = s.opts.defaultDays
	}

	if !retention.ValidDays(retentionDays) {
		return nil, fmt.Errorf("%w: %d", ErrRetentionOutOfRange, retentionDays)
	}

	now := s.opts.clock()
	rec := model.Recording{
		RecordingID:   newRecordingID(now),
		InterviewID:   interviewID,
		StartTime:     now,
		Status:        model.StatusRecording,
		RetentionDays: retentionDays,
		ExpiresAt:     retention.ComputeExpiry(now, retentionDays),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.dbc.GetDB().WithContext(ctx).Create(&rec).Error; err != nil {
		return nil, fmt.Errorf("create recording: %w", err)
	}

	s.publishStarted(&rec)
	log.Logger().Info().
		Str("recording_id", rec.RecordingID).
		Str("interview_id", rec.InterviewID).
		Int("retention_days", rec.RetentionDays).
		Msg("recording started")

	return s.toInfo(&rec), nil
}

// Stop 结束录制并登记产物信息，recording -> processing.
func (s *RecordingService) Stop(ctx context.Context, recordingID string, req types.StopRecordingRequest) (*types.RecordingInfo, error) {
	rec, err := s.find(ctx, recordingID)
	if err != nil {
		return nil, err
	}

	if rec.Status != model.StatusRecording {
		return nil, fmt.Errorf("%w: cannot stop recording in status %s", ErrInvalidState, rec.Status)
	}

	now := s.opts.clock()
	rec.EndTime = &now
	rec.Duration = req.Duration
	rec.FileSize = req.FileSize
	rec.FileURL = req.FileURL
	rec.ThumbnailURL = req.ThumbnailURL
	rec.Status = model.StatusProcessing
	rec.UpdatedAt = now

	if err := s.save(ctx, rec); err != nil {
		return nil, err
	}

	return s.toInfo(rec), nil
}

// Process 处理完成，processing -> ready.
func (s *RecordingService) Process(ctx context.Context, recordingID string) (*types.RecordingInfo, error) {
	rec, err := s.find(ctx, recordingID)
	if err != nil {
		return nil, err
	}

	if rec.Status != model.StatusProcessing {
		return nil, fmt.Errorf("%w: cannot process recording in status %s", ErrInvalidState, rec.Status)
	}

	rec.Status = model.StatusReady
	rec.UpdatedAt = s.opts.clock()

	if err := s.save(ctx, rec); err != nil {
		return nil, err
	}

	s.publishReady(rec)

	return s.toInfo(rec), nil
}

// UploadRecording 将录制字节流写入对象存储并结束录制.
// 上传失败时记录转入 failed 状态，错误原样返回.
func (s *RecordingService) UploadRecording(ctx context.Context, recordingID string, r io.Reader, size int64, contentType string) (*types.RecordingInfo, error) {
	rec, err := s.find(ctx, recordingID)
	if err != nil {
		return nil, err
	}

	if rec.Status != model.StatusRecording {
		return nil, fmt.Errorf("%w: cannot upload for recording in status %s", ErrInvalidState, rec.Status)
	}

	ref := s.opts.namespace.RecordingRef(rec.RecordingID)

	result, err := s.store.Put(ctx, ref, r, size, contentType)
	if err != nil {
		now := s.opts.clock()
		rec.Status = model.StatusFailed
		rec.UpdatedAt = now

		if e := s.save(ctx, rec); e != nil {
			log.Logger().Error().Err(e).Str("recording_id", rec.RecordingID).Msg("mark recording failed")
		}

		s.publishFailed(rec, err)

		return nil, fmt.Errorf("upload recording asset: %w", err)
	}

	duration := 0
	if rec.EndTime == nil {
		duration = int(s.opts.clock().Sub(rec.StartTime) / time.Second)
	}

	return s.Stop(ctx, recordingID, types.StopRecordingRequest{
		FileURL:  result.URL,
		FileSize: result.Size,
		Duration: duration,
	})
}

// ScheduleDelete 计算/刷新删除排期.
// retentionDays 非 nil 时覆盖保留期并从 CreatedAt 重算 ExpiresAt.
// DaysRemaining 向上取整，已过期为负.
func (s *RecordingService) ScheduleDelete(ctx context.Context, recordingID string, retentionDays *int) (*types.ScheduleDeleteResult, error) {
	rec, err := s.find(ctx, recordingID)
	if err != nil {
		return nil, err
	}

	if rec.IsDeleted() {
		return nil, fmt.Errorf("%w: recording already deleted", ErrInvalidState)
	}

	if retentionDays != nil {
		if !retention.ValidDays(*retentionDays) {
			return nil, fmt.Errorf("%w: %d", ErrRetentionOutOfRange, *retentionDays)
		}

		rec.RetentionDays = *retentionDays
		rec.ExpiresAt = retention.ComputeExpiry(rec.CreatedAt, *retentionDays)
		rec.UpdatedAt = s.opts.clock()

		if err := s.save(ctx, rec); err != nil {
			return nil, err
		}
	}

	return &types.ScheduleDeleteResult{
		RecordingID:   rec.RecordingID,
		ExpiresAt:     rec.ExpiresAt,
		RetentionDays: rec.RetentionDays,
		DaysRemaining: retention.DaysRemaining(rec.ExpiresAt, s.opts.clock()),
	}, nil
}

// UpdateRetention 调整保留期并从 CreatedAt 重算 ExpiresAt.
func (s *RecordingService) UpdateRetention(ctx context.Context, recordingID string, days int) (*types.RecordingInfo, error) {
	if !retention.ValidDays(days) {
		return nil, fmt.Errorf("%w: %d", ErrRetentionOutOfRange, days)
	}

	rec, err := s.find(ctx, recordingID)
	if err != nil {
		return nil, err
	}

	if rec.IsDeleted() {
		return nil, fmt.Errorf("%w: recording already deleted", ErrInvalidState)
	}

	rec.RetentionDays = days
	rec.ExpiresAt = retention.ComputeExpiry(rec.CreatedAt, days)
	rec.UpdatedAt = s.opts.clock()

	if err := s.save(ctx, rec); err != nil {
		return nil, err
	}

	return s.toInfo(rec), nil
}

// Delete 人工删除: 先移除对象存储资产，再写墓碑.
// 任一资产删除失败则错误上抛，记录保持原样，可重试.
func (s *RecordingService) Delete(ctx context.Context, recordingID, actorID string, reason model.DeletionReason) error {
	rec, err := s.find(ctx, recordingID)
	if err != nil {
		return err
	}

	if rec.IsDeleted() {
		return fmt.Errorf("%w: recording already deleted", ErrInvalidState)
	}

	if reason == "" {
		reason = model.ReasonManual
	}

	if err := s.removeAssets(ctx, rec); err != nil {
		return err
	}

	s.tombstone(rec, actorID, reason)

	if err := s.save(ctx, rec); err != nil {
		return err
	}

	s.publishDeleted(rec)
	log.Logger().Info().
		Str("recording_id", rec.RecordingID).
		Str("deleted_by", actorID).
		Str("reason", string(reason)).
		Msg("recording deleted")

	return nil
}

// Get 按录制ID查询.
func (s *RecordingService) Get(ctx context.Context, recordingID string) (*types.RecordingInfo, error) {
	rec, err := s.find(ctx, recordingID)
	if err != nil {
		return nil, err
	}

	return s.toInfo(rec), nil
}

// ListForInterview 列出一场面试的全部未删除录制，新的在前.
func (s *RecordingService) ListForInterview(ctx context.Context, interviewID string) (*types.RecordingListResponse, error) {
	var rows []model.Recording

	err := s.dbc.GetDB().WithContext(ctx).
		Where("interview_id = ? AND status <> ?", interviewID, model.StatusDeleted).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list recordings: %w", err)
	}

	resp := types.RecordingListResponse{
		Total:      len(rows),
		Recordings: make([]types.RecordingInfo, 0, len(rows)),
	}
	for i := range rows {
		resp.Recordings = append(resp.Recordings, *s.toInfo(&rows[i]))
	}

	return &resp, nil
}

// IncrementDownload 单条 UPDATE 原子自增下载计数.
// 记录不存在时静默返回 nil，保持调用方幂等.
func (s *RecordingService) IncrementDownload(ctx context.Context, recordingID string) error {
	return s.dbc.GetDB().WithContext(ctx).
		Model(&model.Recording{}).
		Where("recording_id = ?", recordingID).
		UpdateColumn("download_count", gorm.Expr("download_count + ?", 1)).Error
}

// DownloadURL 生成预签名下载 URL 并自增下载计数.
func (s *RecordingService) DownloadURL(ctx context.Context, recordingID string) (*types.DownloadURLResult, error) {
	rec, err := s.find(ctx, recordingID)
	if err != nil {
		return nil, err
	}

	if rec.Status != model.StatusReady {
		return nil, fmt.Errorf("%w: recording in status %s is not downloadable", ErrInvalidState, rec.Status)
	}

	ref, err := s.opts.namespace.RefFromURL(rec.FileURL, assetstore.KindVideo)
	if err != nil {
		return nil, fmt.Errorf("derive asset ref: %w", err)
	}

	url, err := s.store.PresignGet(ctx, ref, s.opts.presignExpiry)
	if err != nil {
		return nil, err
	}

	if err := s.IncrementDownload(ctx, recordingID); err != nil {
		return nil, err
	}

	return &types.DownloadURLResult{
		URL:           url,
		ExpiresIn:     int(s.opts.presignExpiry / time.Second),
		DownloadCount: rec.DownloadCount + 1,
	}, nil
}

// find 按录制ID取记录，未找到映射为 ErrRecordingNotFound.
func (s *RecordingService) find(ctx context.Context, recordingID string) (*model.Recording, error) {
	var rec model.Recording

	err := s.dbc.GetDB().WithContext(ctx).
		Where("recording_id = ?", recordingID).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrRecordingNotFound, recordingID)
		}

		return nil, fmt.Errorf("find recording: %w", err)
	}

	return &rec, nil
}

func (s *RecordingService) save(ctx context.Context, rec *model.Recording) error {
	if err := s.dbc.GetDB().WithContext(ctx).Save(rec).Error; err != nil {
		return fmt.Errorf("save recording: %w", err)
	}

	return nil
}

// removeAssets 移除主资产与缩略图，任一失败立即上抛.
func (s *RecordingService) removeAssets(ctx context.Context, rec *model.Recording) error {
	if rec.FileURL != "" {
		ref, err := s.opts.namespace.RefFromURL(rec.FileURL, assetstore.KindVideo)
		if err != nil {
			return fmt.Errorf("derive recording asset ref: %w", err)
		}

		if err := s.store.Remove(ctx, ref); err != nil {
			return err
		}
	}

	if rec.ThumbnailURL != "" {
		ref, err := s.opts.namespace.RefFromURL(rec.ThumbnailURL, assetstore.KindImage)
		if err != nil {
			return fmt.Errorf("derive thumbnail asset ref: %w", err)
		}

		if err := s.store.Remove(ctx, ref); err != nil {
			return err
		}
	}

	return nil
}

// tombstone 写墓碑: 状态置 deleted，清空资产 URL，保留行本身.
func (s *RecordingService) tombstone(rec *model.Recording, actorID string, reason model.DeletionReason) {
	now := s.opts.clock()
	rec.Status = model.StatusDeleted
	rec.DeletedAt = &now
	rec.DeletedBy = actorID
	rec.DeletionReason = reason
	rec.FileURL = ""
	rec.ThumbnailURL = ""
	rec.UpdatedAt = now
}

func (s *RecordingService) toInfo(rec *model.Recording) *types.RecordingInfo {
	return &types.RecordingInfo{
		RecordingID:    rec.RecordingID,
		InterviewID:    rec.InterviewID,
		Status:         string(rec.Status),
		StartTime:      rec.StartTime,
		EndTime:        rec.EndTime,
		Duration:       rec.Duration,
		FileSize:       rec.FileSize,
		FileURL:        rec.FileURL,
		ThumbnailURL:   rec.ThumbnailURL,
		RetentionDays:  rec.RetentionDays,
		ExpiresAt:      rec.ExpiresAt,
		DaysRemaining:  retention.DaysRemaining(rec.ExpiresAt, s.opts.clock()),
		DownloadCount:  rec.DownloadCount,
		DeletedAt:      rec.DeletedAt,
		DeletedBy:      rec.DeletedBy,
		DeletionReason: string(rec.DeletionReason),
		CreatedAt:      rec.CreatedAt,
	}
}

// -------------------------- 事件发布 --------------------------

func (s *RecordingService) publishStarted(rec *model.Recording) {
	if s.opts.publisher == nil {
		return
	}

	err := queue.PublishRecordingStarted(s.opts.publisher, queue.RecordingStartedPayload{
		Recording:     queue.RecordingRef{RecordingID: rec.RecordingID, InterviewID: rec.InterviewID},
		RetentionDays: rec.RetentionDays,
		ExpiresAt:     rec.ExpiresAt,
	}, queue.WithProducer("recvault"))
	if err != nil {
		log.Logger().Warn().Err(err).Str("recording_id", rec.RecordingID).Msg("publish started event")
	}
}

func (s *RecordingService) publishReady(rec *model.Recording) {
	if s.opts.publisher == nil {
		return
	}

	err := queue.PublishRecordingReady(s.opts.publisher, queue.RecordingReadyPayload{
		Recording: queue.RecordingRef{RecordingID: rec.RecordingID, InterviewID: rec.InterviewID},
		FileURL:   rec.FileURL,
		FileSize:  rec.FileSize,
		Duration:  rec.Duration,
	}, queue.WithProducer("recvault"))
	if err != nil {
		log.Logger().Warn().Err(err).Str("recording_id", rec.RecordingID).Msg("publish ready event")
	}
}

func (s *RecordingService) publishFailed(rec *model.Recording, cause error) {
	if s.opts.publisher == nil {
		return
	}

	err := queue.PublishRecordingFailed(s.opts.publisher, queue.RecordingFailedPayload{
		Recording: queue.RecordingRef{RecordingID: rec.RecordingID, InterviewID: rec.InterviewID},
		Error:     cause.Error(),
	}, queue.WithProducer("recvault"))
	if err != nil {
		log.Logger().Warn().Err(err).Str("recording_id", rec.RecordingID).Msg("publish failed event")
	}
}

func (s *RecordingService) publishDeleted(rec *model.Recording) {
	if s.opts.publisher == nil {
		return
	}

	err := queue.PublishRecordingDeleted(s.opts.publisher, queue.RecordingDeletedPayload{
		Recording: queue.RecordingRef{RecordingID: rec.RecordingID, InterviewID: rec.InterviewID},
		Reason:    string(rec.DeletionReason),
		DeletedBy: rec.DeletedBy,
	}, queue.WithProducer("recvault"))
	if err != nil {
		log.Logger().Warn().Err(err).Str("recording_id", rec.RecordingID).Msg("publish deleted event")
	}
}
