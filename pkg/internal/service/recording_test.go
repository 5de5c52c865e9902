package service_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeisme/recvault/pkg/internal/assetstore"
	"github.com/yeisme/recvault/pkg/internal/model"
	"github.com/yeisme/recvault/pkg/internal/service"
	"github.com/yeisme/recvault/pkg/internal/storage/db"
	"github.com/yeisme/recvault/pkg/internal/types"
)

var testNS = assetstore.Namespace{
	Bucket:          "recvault",
	RecordingPrefix: "recvault/recordings",
	ThumbnailPrefix: "recvault/thumbnails",
}

// fakeStore 内存资产存储，可按键注入删除失败.
type fakeStore struct {
	mu         sync.Mutex
	objects    map[string]bool
	removed    []string
	failRemove map[string]error
	failPut    error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		objects:    make(map[string]bool),
		failRemove: make(map[string]error),
	}
}

func (f *fakeStore) Put(_ context.Context, ref assetstore.AssetRef, r io.Reader, size int64, _ string) (assetstore.PutResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failPut != nil {
		return assetstore.PutResult{}, &assetstore.Error{Op: "put", Ref: ref, Err: f.failPut}
	}

	if _, err := io.Copy(io.Discard, r); err != nil {
		return assetstore.PutResult{}, err
	}

	f.objects[ref.Key] = true

	return assetstore.PutResult{
		Ref:  ref,
		URL:  "http://localhost:9000/" + ref.Bucket + "/" + ref.Key,
		Size: size,
	}, nil
}

func (f *fakeStore) Remove(_ context.Context, ref assetstore.AssetRef) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err, ok := f.failRemove[ref.Key]; ok {
		return &assetstore.Error{Op: "remove", Ref: ref, Err: err}
	}

	delete(f.objects, ref.Key)
	f.removed = append(f.removed, ref.Key)

	return nil
}

func (f *fakeStore) PresignGet(_ context.Context, ref assetstore.AssetRef, _ time.Duration) (string, error) {
	return "http://localhost:9000/signed/" + ref.Key, nil
}

func (f *fakeStore) removedKeys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]string, len(f.removed))
	copy(out, f.removed)

	return out
}

func newTestDB(t *testing.T) *db.Client {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := gdb.AutoMigrate(&model.Recording{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return &db.Client{DB: gdb}
}

// testClock 可推进的固定时钟.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock(t time.Time) *testClock { return &testClock{now: t} }

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newRecordingService(t *testing.T, clk *testClock, store *fakeStore) (*service.RecordingService, *db.Client) {
	t.Helper()

	dbc := newTestDB(t)
	svc := service.NewRecordingService(dbc, store,
		service.WithClock(clk.Now),
		service.WithNamespace(testNS),
		service.WithDefaultRetention(90),
		service.WithExpiringWindow(7),
	)

	return svc, dbc
}

func TestStartRecording(t *testing.T) {
	clk := newTestClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	svc, _ := newRecordingService(t, clk, newFakeStore())

	info, err := svc.Start(context.Background(), "iv_1001", 0)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	if info.Status != string(model.StatusRecording) {
		t.Errorf("status = %s, want recording", info.Status)
	}

	if info.RetentionDays != 90 {
		t.Errorf("retention days = %d, want default 90", info.RetentionDays)
	}

	// 到期时刻是创建时刻加上整数倍 24h，不做日历运算
	want := clk.Now().Add(90 * 24 * time.Hour)
	if !info.ExpiresAt.Equal(want) {
		t.Errorf("expires at = %v, want %v", info.ExpiresAt, want)
	}

	if !strings.HasPrefix(info.RecordingID, "rec_") {
		t.Errorf("recording id = %q, want rec_ prefix", info.RecordingID)
	}
}

func TestStartRetentionOutOfRange(t *testing.T) {
	clk := newTestClock(time.Now())
	svc, _ := newRecordingService(t, clk, newFakeStore())

	for _, days := range []int{-1, 366, 1000} {
		if _, err := svc.Start(context.Background(), "iv_1001", days); !errors.Is(err, service.ErrRetentionOutOfRange) {
			t.Errorf("Start(days=%d) err = %v, want ErrRetentionOutOfRange", days, err)
		}
	}
}

func TestStopAndProcessTransitions(t *testing.T) {
	clk := newTestClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	svc, _ := newRecordingService(t, clk, newFakeStore())
	ctx := context.Background()

	info, err := svc.Start(ctx, "iv_1001", 30)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	// 未停止就 Process 是非法状态
	if _, err := svc.Process(ctx, info.RecordingID); !errors.Is(err, service.ErrInvalidState) {
		t.Errorf("Process before stop err = %v, want ErrInvalidState", err)
	}

	clk.Advance(45 * time.Minute)

	stopped, err := svc.Stop(ctx, info.RecordingID, types.StopRecordingRequest{
		FileURL:  "http://localhost:9000/recvault/recvault/recordings/" + info.RecordingID,
		FileSize: 2048,
		Duration: 2700,
	})
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}

	if stopped.Status != string(model.StatusProcessing) {
		t.Errorf("status after stop = %s, want processing", stopped.Status)
	}

	if stopped.EndTime == nil || !stopped.EndTime.Equal(clk.Now()) {
		t.Errorf("end time = %v, want %v", stopped.EndTime, clk.Now())
	}

	// 二次停止是非法状态
	if _, err := svc.Stop(ctx, info.RecordingID, types.StopRecordingRequest{FileURL: "x"}); !errors.Is(err, service.ErrInvalidState) {
		t.Errorf("double stop err = %v, want ErrInvalidState", err)
	}

	ready, err := svc.Process(ctx, info.RecordingID)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if ready.Status != string(model.StatusReady) {
		t.Errorf("status after process = %s, want ready", ready.Status)
	}
}

func TestUploadRecording(t *testing.T) {
	clk := newTestClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	store := newFakeStore()
	svc, _ := newRecordingService(t, clk, store)
	ctx := context.Background()

	info, err := svc.Start(ctx, "iv_1001", 30)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	clk.Advance(10 * time.Minute)

	body := strings.NewReader("fake video bytes")

	uploaded, err := svc.UploadRecording(ctx, info.RecordingID, body, int64(body.Len()), "video/webm")
	if err != nil {
		t.Fatalf("UploadRecording: %v", err)
	}

	if uploaded.Status != string(model.StatusProcessing) {
		t.Errorf("status after upload = %s, want processing", uploaded.Status)
	}

	wantKey := testNS.RecordingPrefix + "/" + info.RecordingID
	if !store.objects[wantKey] {
		t.Errorf("object %q not stored", wantKey)
	}

	if uploaded.Duration != 600 {
		t.Errorf("duration = %d, want 600", uploaded.Duration)
	}
}

func TestUploadRecordingFailureMarksFailed(t *testing.T) {
	clk := newTestClock(time.Now())
	store := newFakeStore()
	store.failPut = fmt.Errorf("connection reset")
	svc, _ := newRecordingService(t, clk, store)
	ctx := context.Background()

	info, err := svc.Start(ctx, "iv_1001", 30)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	if _, err := svc.UploadRecording(ctx, info.RecordingID, strings.NewReader("x"), 1, "video/webm"); err == nil {
		t.Fatal("UploadRecording expected error")
	}

	got, err := svc.Get(ctx, info.RecordingID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	if got.Status != string(model.StatusFailed) {
		t.Errorf("status = %s, want failed", got.Status)
	}
}

func TestUpdateRetention(t *testing.T) {
	clk := newTestClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	svc, _ := newRecordingService(t, clk, newFakeStore())
	ctx := context.Background()

	info, err := svc.Start(ctx, "iv_1001", 30)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	created := clk.Now()
	clk.Advance(72 * time.Hour)

	updated, err := svc.UpdateRetention(ctx, info.RecordingID, 7)
	if err != nil {
		t.Fatalf("UpdateRetention: %v", err)
	}

	// 重算基准是创建时刻，而非调整时刻
	want := created.Add(7 * 24 * time.Hour)
	if !updated.ExpiresAt.Equal(want) {
		t.Errorf("expires at = %v, want %v", updated.ExpiresAt, want)
	}

	if _, err := svc.UpdateRetention(ctx, info.RecordingID, 400); !errors.Is(err, service.ErrRetentionOutOfRange) {
		t.Errorf("UpdateRetention(400) err = %v, want ErrRetentionOutOfRange", err)
	}
}

func TestScheduleDelete(t *testing.T) {
	clk := newTestClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	svc, _ := newRecordingService(t, clk, newFakeStore())
	ctx := context.Background()

	info, err := svc.Start(ctx, "iv_1001", 2)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	// 无覆盖时只计算剩余天数
	result, err := svc.ScheduleDelete(ctx, info.RecordingID, nil)
	if err != nil {
		t.Fatalf("ScheduleDelete: %v", err)
	}

	if result.DaysRemaining != 2 {
		t.Errorf("days remaining = %d, want 2", result.DaysRemaining)
	}

	// 覆盖保留期并重算
	days := 10

	result, err = svc.ScheduleDelete(ctx, info.RecordingID, &days)
	if err != nil {
		t.Fatalf("ScheduleDelete override: %v", err)
	}

	if result.RetentionDays != 10 {
		t.Errorf("retention days = %d, want 10", result.RetentionDays)
	}

	// 时钟越过到期时刻后剩余天数为负
	clk.Advance(11*24*time.Hour + 12*time.Hour)

	result, err = svc.ScheduleDelete(ctx, info.RecordingID, nil)
	if err != nil {
		t.Fatalf("ScheduleDelete after expiry: %v", err)
	}

	if result.DaysRemaining >= 0 {
		t.Errorf("days remaining = %d, want negative", result.DaysRemaining)
	}
}

func TestDeleteRecording(t *testing.T) {
	clk := newTestClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	store := newFakeStore()
	svc, dbc := newRecordingService(t, clk, store)
	ctx := context.Background()

	info := startReady(t, svc, clk, "iv_1001")

	if err := svc.Delete(ctx, info.RecordingID, "admin-7", model.ReasonAdminAction); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	// 主资产与缩略图都应被移除
	removed := store.removedKeys()
	if len(removed) != 2 {
		t.Fatalf("removed %d assets, want 2: %v", len(removed), removed)
	}

	// 墓碑: 行保留，状态与审计字段就位，URL 清空
	var rec model.Recording
	if err := dbc.GetDB().Where("recording_id = ?", info.RecordingID).First(&rec).Error; err != nil {
		t.Fatalf("row should survive deletion: %v", err)
	}

	if rec.Status != model.StatusDeleted {
		t.Errorf("status = %s, want deleted", rec.Status)
	}

	if rec.DeletedAt == nil || rec.DeletedBy != "admin-7" || rec.DeletionReason != model.ReasonAdminAction {
		t.Errorf("tombstone fields = %v/%s/%s", rec.DeletedAt, rec.DeletedBy, rec.DeletionReason)
	}

	if rec.FileURL != "" || rec.ThumbnailURL != "" {
		t.Errorf("asset urls not cleared: %q %q", rec.FileURL, rec.ThumbnailURL)
	}

	// 重复删除是非法状态
	if err := svc.Delete(ctx, info.RecordingID, "admin-7", model.ReasonAdminAction); !errors.Is(err, service.ErrInvalidState) {
		t.Errorf("double delete err = %v, want ErrInvalidState", err)
	}
}

func TestDeleteAssetFailurePropagates(t *testing.T) {
	clk := newTestClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	store := newFakeStore()
	svc, dbc := newRecordingService(t, clk, store)
	ctx := context.Background()

	info := startReady(t, svc, clk, "iv_1001")
	store.failRemove[testNS.RecordingPrefix+"/"+info.RecordingID] = fmt.Errorf("s3 unavailable")

	err := svc.Delete(ctx, info.RecordingID, "admin-7", model.ReasonManual)
	if err == nil {
		t.Fatal("Delete expected error when asset removal fails")
	}

	var asErr *assetstore.Error
	if !errors.As(err, &asErr) {
		t.Errorf("err = %v, want *assetstore.Error in chain", err)
	}

	// 记录保持原样，可重试
	var rec model.Recording
	if err := dbc.GetDB().Where("recording_id = ?", info.RecordingID).First(&rec).Error; err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if rec.Status != model.StatusReady || rec.FileURL == "" {
		t.Errorf("record mutated on failed delete: status=%s url=%q", rec.Status, rec.FileURL)
	}
}

func TestGetNotFound(t *testing.T) {
	clk := newTestClock(time.Now())
	svc, _ := newRecordingService(t, clk, newFakeStore())

	if _, err := svc.Get(context.Background(), "rec_missing"); !errors.Is(err, service.ErrRecordingNotFound) {
		t.Errorf("Get err = %v, want ErrRecordingNotFound", err)
	}
}

func TestIncrementDownload(t *testing.T) {
	clk := newTestClock(time.Now())
	svc, dbc := newRecordingService(t, clk, newFakeStore())
	ctx := context.Background()

	info, err := svc.Start(ctx, "iv_1001", 30)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	for range 3 {
		if err := svc.IncrementDownload(ctx, info.RecordingID); err != nil {
			t.Fatalf("IncrementDownload: %v", err)
		}
	}

	var rec model.Recording
	if err := dbc.GetDB().Where("recording_id = ?", info.RecordingID).First(&rec).Error; err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if rec.DownloadCount != 3 {
		t.Errorf("download count = %d, want 3", rec.DownloadCount)
	}

	// 不存在的记录静默成功
	if err := svc.IncrementDownload(ctx, "rec_missing"); err != nil {
		t.Errorf("IncrementDownload(missing) err = %v, want nil", err)
	}
}

func TestListForInterview(t *testing.T) {
	clk := newTestClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	store := newFakeStore()
	svc, _ := newRecordingService(t, clk, store)
	ctx := context.Background()

	first, err := svc.Start(ctx, "iv_1001", 30)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	clk.Advance(time.Hour)

	second, err := svc.Start(ctx, "iv_1001", 30)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	if _, err := svc.Start(ctx, "iv_2002", 30); err != nil {
		t.Fatalf("Start other interview: %v", err)
	}

	if err := svc.Delete(ctx, first.RecordingID, "u1", model.ReasonUserRequest); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	resp, err := svc.ListForInterview(ctx, "iv_1001")
	if err != nil {
		t.Fatalf("ListForInterview: %v", err)
	}

	// 已删除的不出现，且只属于该面试
	if resp.Total != 1 || len(resp.Recordings) != 1 {
		t.Fatalf("total = %d, want 1", resp.Total)
	}

	if resp.Recordings[0].RecordingID != second.RecordingID {
		t.Errorf("got %s, want %s", resp.Recordings[0].RecordingID, second.RecordingID)
	}
}

func TestDownloadURL(t *testing.T) {
	clk := newTestClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	store := newFakeStore()
	svc, _ := newRecordingService(t, clk, store)
	ctx := context.Background()

	info := startReady(t, svc, clk, "iv_1001")

	result, err := svc.DownloadURL(ctx, info.RecordingID)
	if err != nil {
		t.Fatalf("DownloadURL: %v", err)
	}

	if !strings.Contains(result.URL, info.RecordingID) {
		t.Errorf("presigned url %q missing recording id", result.URL)
	}

	if result.DownloadCount != 1 {
		t.Errorf("download count = %d, want 1", result.DownloadCount)
	}
}

// startReady 走完 start -> stop -> process，返回 ready 状态的录制.
func startReady(t *testing.T, svc *service.RecordingService, clk *testClock, interviewID string) *types.RecordingInfo {
	t.Helper()

	ctx := context.Background()

	info, err := svc.Start(ctx, interviewID, 30)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	clk.Advance(30 * time.Minute)

	_, err = svc.Stop(ctx, info.RecordingID, types.StopRecordingRequest{
		FileURL:      "http://localhost:9000/recvault/recvault/recordings/" + info.RecordingID,
		ThumbnailURL: "http://localhost:9000/recvault/recvault/thumbnails/" + info.RecordingID + ".jpg",
		FileSize:     4096,
		Duration:     1800,
	})
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}

	ready, err := svc.Process(ctx, info.RecordingID)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	return ready
}
