package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/yeisme/recvault/pkg/internal/model"
	"github.com/yeisme/recvault/pkg/internal/service"
)

func TestStatsSummary(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clk := newTestClock(now)
	dbc := newTestDB(t)
	svc := service.NewStatsService(dbc,
		service.WithClock(clk.Now),
		service.WithExpiringWindow(7),
	)

	seed := func(id string, status model.RecordingStatus, size int64, duration int, downloads int64, expiresAt time.Time) {
		rec := model.Recording{
			RecordingID:   id,
			InterviewID:   "iv_stats",
			StartTime:     now.Add(-time.Hour),
			Status:        status,
			FileSize:      size,
			Duration:      duration,
			DownloadCount: downloads,
			RetentionDays: 30,
			ExpiresAt:     expiresAt,
			CreatedAt:     now.Add(-time.Hour),
		}
		if err := dbc.GetDB().Create(&rec).Error; err != nil {
			t.Fatalf("seed %s: %v", id, err)
		}
	}

	seed("rec_r1", model.StatusReady, 100, 60, 2, now.Add(3*24*time.Hour))  // 即将过期
	seed("rec_r2", model.StatusReady, 200, 120, 1, now.Add(60*24*time.Hour))
	seed("rec_p1", model.StatusProcessing, 50, 30, 0, now.Add(-time.Hour)) // 已过期
	seed("rec_d1", model.StatusDeleted, 0, 0, 5, now.Add(-48*time.Hour))   // 已删除不计过期

	summary, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}

	if summary.Total != 4 {
		t.Errorf("total = %d, want 4", summary.Total)
	}

	ready := summary.ByStatus[string(model.StatusReady)]
	if ready.Count != 2 || ready.TotalSize != 300 || ready.TotalDuration != 180 {
		t.Errorf("ready stats = %+v", ready)
	}

	if summary.TotalSize != 350 {
		t.Errorf("total size = %d, want 350", summary.TotalSize)
	}

	if summary.TotalDownloads != 8 {
		t.Errorf("total downloads = %d, want 8", summary.TotalDownloads)
	}

	if summary.Expired != 1 {
		t.Errorf("expired = %d, want 1 (deleted excluded)", summary.Expired)
	}

	if summary.ExpiringSoon != 1 {
		t.Errorf("expiring soon = %d, want 1", summary.ExpiringSoon)
	}
}

func TestStatsSummaryEmpty(t *testing.T) {
	dbc := newTestDB(t)
	svc := service.NewStatsService(dbc, service.WithClock(time.Now))

	summary, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}

	if summary.Total != 0 || len(summary.ByStatus) != 0 {
		t.Errorf("summary = %+v, want empty", summary)
	}
}
