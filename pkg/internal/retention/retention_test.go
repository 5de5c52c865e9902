package retention_test

import (
	"testing"
	"time"

	"github.com/yeisme/recvault/pkg/internal/retention"
)

// TestComputeExpiry 验证过期时间为创建时间加上精确的 N*86400 秒.
func TestComputeExpiry(t *testing.T) {
	created := time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)

	for _, days := range []int{1, 7, 30, 90, 180, 365} {
		got := retention.ComputeExpiry(created, days)
		want := created.Add(time.Duration(days) * 24 * time.Hour)

		if !got.Equal(want) {
			t.Errorf("ComputeExpiry(%d days) = %v, want %v", days, got, want)
		}

		// 秒差必须精确等于 days*86400
		if int64(got.Sub(created).Seconds()) != int64(days)*86400 {
			t.Errorf("ComputeExpiry(%d days): drift detected", days)
		}
	}
}

// TestComputeExpiryAcrossDST 固定天长不受夏令时影响.
func TestComputeExpiryAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skipf("tzdata not available: %v", err)
	}

	// 2025-03-30 德国进入夏令时
	created := time.Date(2025, 3, 29, 12, 0, 0, 0, loc)
	got := retention.ComputeExpiry(created, 2)

	if got.Sub(created) != 48*time.Hour {
		t.Errorf("expected exactly 48h, got %v", got.Sub(created))
	}
}

// TestIsExpired 过期判定为严格晚于.
func TestIsExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	if retention.IsExpired(now, now) {
		t.Error("expiry instant itself must not count as expired")
	}

	if !retention.IsExpired(now.Add(-time.Second), now) {
		t.Error("one second past expiry must count as expired")
	}

	if retention.IsExpired(now.Add(time.Second), now) {
		t.Error("future expiry must not count as expired")
	}
}

// TestExpiringWithin 窗口判定含两端，已过期的不算即将过期.
func TestExpiringWithin(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name      string
		expiresAt time.Time
		window    int
		want      bool
	}{
		{"inside window", now.Add(3 * 24 * time.Hour), 7, true},
		{"window edge", now.Add(7 * 24 * time.Hour), 7, true},
		{"beyond window", now.Add(8 * 24 * time.Hour), 7, false},
		{"already expired", now.Add(-time.Hour), 7, false},
		{"right now", now, 7, true},
	}

	for _, c := range cases {
		if got := retention.ExpiringWithin(c.expiresAt, now, c.window); got != c.want {
			t.Errorf("%s: ExpiringWithin = %v, want %v", c.name, got, c.want)
		}
	}
}

// TestDaysRemaining 剩余天数向上取整，过期后为负.
func TestDaysRemaining(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name      string
		expiresAt time.Time
		want      int
	}{
		{"exactly 5 days", now.Add(5 * 24 * time.Hour), 5},
		{"4.5 days rounds up", now.Add(108 * time.Hour), 5},
		{"under a day", now.Add(time.Hour), 1},
		{"zero", now, 0},
		{"expired 1.5 days ago", now.Add(-36 * time.Hour), -1},
		{"expired 10 days ago", now.Add(-10 * 24 * time.Hour), -10},
	}

	for _, c := range cases {
		if got := retention.DaysRemaining(c.expiresAt, now); got != c.want {
			t.Errorf("%s: DaysRemaining = %d, want %d", c.name, got, c.want)
		}
	}
}

// TestValidDays 保留天数范围检查.
func TestValidDays(t *testing.T) {
	for _, n := range []int{1, 90, 365} {
		if !retention.ValidDays(n) {
			t.Errorf("ValidDays(%d) = false, want true", n)
		}
	}

	for _, n := range []int{0, -1, 366, 1000} {
		if retention.ValidDays(n) {
			t.Errorf("ValidDays(%d) = true, want false", n)
		}
	}
}
