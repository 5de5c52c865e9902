package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/yeisme/recvault/pkg/internal/assetstore"
	"github.com/yeisme/recvault/pkg/internal/model"
	"github.com/yeisme/recvault/pkg/internal/service"
	"github.com/yeisme/recvault/pkg/internal/storage/db"
)

func newCleanupService(t *testing.T, clk *testClock, store *fakeStore) (*service.CleanupService, *db.Client) {
	t.Helper()

	dbc := newTestDB(t)
	svc := service.NewCleanupService(dbc, store,
		service.WithClock(clk.Now),
		service.WithNamespace(testNS),
		service.WithExpiringWindow(7),
	)

	return svc, dbc
}

// seedRecording 直接落库一条指定到期时刻的记录.
func seedRecording(t *testing.T, dbc *db.Client, id string, status model.RecordingStatus, expiresAt time.Time, withAssets bool) {
	t.Helper()

	rec := model.Recording{
		RecordingID:   id,
		InterviewID:   "iv_seed",
		StartTime:     expiresAt.Add(-30 * 24 * time.Hour),
		Status:        status,
		RetentionDays: 30,
		ExpiresAt:     expiresAt,
		CreatedAt:     expiresAt.Add(-30 * 24 * time.Hour),
	}

	if withAssets {
		rec.FileURL = "http://localhost:9000/recvault/recvault/recordings/" + id
		rec.ThumbnailURL = "http://localhost:9000/recvault/recvault/thumbnails/" + id + ".jpg"
	}

	if err := dbc.GetDB().Create(&rec).Error; err != nil {
		t.Fatalf("seed %s: %v", id, err)
	}
}

func TestCleanupRun(t *testing.T) {
	now := time.Date(2026, 3, 1, 2, 0, 0, 0, time.UTC)
	clk := newTestClock(now)
	store := newFakeStore()
	svc, dbc := newCleanupService(t, clk, store)

	seedRecording(t, dbc, "rec_exp1", model.StatusReady, now.Add(-time.Hour), true)
	seedRecording(t, dbc, "rec_exp2", model.StatusReady, now.Add(-48*time.Hour), true)
	seedRecording(t, dbc, "rec_exp3", model.StatusFailed, now.Add(-time.Minute), false)
	seedRecording(t, dbc, "rec_live", model.StatusReady, now.Add(24*time.Hour), true)
	// 已删除的不再参与清理
	seedRecording(t, dbc, "rec_gone", model.StatusDeleted, now.Add(-72*time.Hour), false)

	stats := svc.Run(context.Background())

	if stats.Skipped {
		t.Fatal("run should not be skipped")
	}

	if stats.Found != 3 || stats.Deleted != 3 || stats.Errors != 0 {
		t.Fatalf("stats = %+v, want found/deleted 3, errors 0", stats)
	}

	// 墓碑语义: 行都在，状态为 deleted，原因 auto_expired
	var rows []model.Recording
	if err := dbc.GetDB().Order("recording_id").Find(&rows).Error; err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if len(rows) != 5 {
		t.Fatalf("rows = %d, want 5 (no physical deletion)", len(rows))
	}

	for _, rec := range rows {
		switch rec.RecordingID {
		case "rec_exp1", "rec_exp2", "rec_exp3":
			if rec.Status != model.StatusDeleted || rec.DeletionReason != model.ReasonAutoExpired {
				t.Errorf("%s: status=%s reason=%s", rec.RecordingID, rec.Status, rec.DeletionReason)
			}

			if rec.FileURL != "" {
				t.Errorf("%s: file url not cleared", rec.RecordingID)
			}
		case "rec_live":
			if rec.Status != model.StatusReady {
				t.Errorf("live recording touched: %s", rec.Status)
			}
		}
	}

	// 两条带资产的记录各移除主资产+缩略图
	if got := len(store.removedKeys()); got != 4 {
		t.Errorf("removed %d assets, want 4", got)
	}
}

func TestCleanupSwallowsPerRecordErrors(t *testing.T) {
	now := time.Date(2026, 3, 1, 2, 0, 0, 0, time.UTC)
	clk := newTestClock(now)
	store := newFakeStore()
	svc, dbc := newCleanupService(t, clk, store)

	seedRecording(t, dbc, "rec_bad", model.StatusReady, now.Add(-2*time.Hour), true)
	seedRecording(t, dbc, "rec_ok", model.StatusReady, now.Add(-time.Hour), true)

	store.failRemove[testNS.RecordingPrefix+"/rec_bad"] = fmt.Errorf("s3 unavailable")

	stats := svc.Run(context.Background())

	if stats.Found != 2 || stats.Deleted != 1 || stats.Errors != 1 {
		t.Fatalf("stats = %+v, want found 2, deleted 1, errors 1", stats)
	}

	// 失败的记录保持原样，下一轮重试可成功
	var rec model.Recording
	if err := dbc.GetDB().Where("recording_id = ?", "rec_bad").First(&rec).Error; err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if rec.Status != model.StatusReady || rec.FileURL == "" {
		t.Errorf("failed record mutated: status=%s url=%q", rec.Status, rec.FileURL)
	}

	delete(store.failRemove, testNS.RecordingPrefix+"/rec_bad")

	stats = svc.Run(context.Background())
	if stats.Deleted != 1 || stats.Errors != 0 {
		t.Fatalf("retry stats = %+v, want deleted 1", stats)
	}

	cum := svc.Stats()
	if cum.TotalRuns != 2 || cum.TotalDeleted != 2 || cum.TotalErrors != 1 {
		t.Errorf("cumulative = %+v, want runs 2, deleted 2, errors 1", cum)
	}
}

// blockingStore 的 Remove 会阻塞到放行信号，用于制造并发运行窗口.
type blockingStore struct {
	fakeStore
	enter   chan struct{}
	release chan struct{}
}

func (b *blockingStore) Remove(ctx context.Context, ref assetstore.AssetRef) error {
	b.enter <- struct{}{}
	<-b.release

	return b.fakeStore.Remove(ctx, ref)
}

func TestCleanupSingleFlight(t *testing.T) {
	now := time.Date(2026, 3, 1, 2, 0, 0, 0, time.UTC)
	clk := newTestClock(now)
	store := &blockingStore{
		fakeStore: fakeStore{
			objects:    make(map[string]bool),
			failRemove: make(map[string]error),
		},
		enter:   make(chan struct{}, 4),
		release: make(chan struct{}),
	}

	dbc := newTestDB(t)
	svc := service.NewCleanupService(dbc, store,
		service.WithClock(clk.Now),
		service.WithNamespace(testNS),
	)

	seedRecording(t, dbc, "rec_exp1", model.StatusReady, now.Add(-time.Hour), true)

	done := make(chan struct{})

	go func() {
		svc.Run(context.Background())
		close(done)
	}()

	// 等第一轮进入资产删除阶段
	<-store.enter

	if !svc.Stats().IsRunning {
		t.Error("IsRunning should be true during a run")
	}

	// 并发触发直接跳过，不阻塞不计数
	stats := svc.Run(context.Background())
	if !stats.Skipped {
		t.Error("concurrent run should be skipped")
	}

	close(store.release)
	<-done

	cum := svc.Stats()
	if cum.TotalRuns != 1 {
		t.Errorf("total runs = %d, want 1 (skipped run not counted)", cum.TotalRuns)
	}

	if cum.IsRunning {
		t.Error("IsRunning should reset after run")
	}
}

func TestNotifyExpiring(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	clk := newTestClock(now)
	svc, dbc := newCleanupService(t, clk, newFakeStore())

	// 窗口内
	seedRecording(t, dbc, "rec_w1", model.StatusReady, now.Add(2*24*time.Hour), true)
	seedRecording(t, dbc, "rec_w2", model.StatusReady, now.Add(7*24*time.Hour), true)
	// 窗口外
	seedRecording(t, dbc, "rec_far", model.StatusReady, now.Add(30*24*time.Hour), true)
	// 已过期与已删除都不算即将过期
	seedRecording(t, dbc, "rec_past", model.StatusReady, now.Add(-time.Hour), true)
	seedRecording(t, dbc, "rec_gone", model.StatusDeleted, now.Add(3*24*time.Hour), false)

	count, err := svc.NotifyExpiring(context.Background())
	if err != nil {
		t.Fatalf("NotifyExpiring: %v", err)
	}

	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}

func TestCleanupStatsInitial(t *testing.T) {
	clk := newTestClock(time.Now())
	svc, _ := newCleanupService(t, clk, newFakeStore())

	stats := svc.Stats()
	if stats.TotalRuns != 0 || stats.LastRun != nil || stats.LastRunStats != nil {
		t.Errorf("initial stats = %+v, want zero values", stats)
	}
}
