// Package retention 实现录制保留策略的纯计算：过期时间、过期判定与剩余天数.
// 该包不访问数据库、时钟或对象存储，所有时间均由调用方传入.
package retention

import "time"

const (
	// MinDays 单条录制允许的最短保留天数.
	MinDays = 1
	// MaxDays 单条录制允许的最长保留天数.
	MaxDays = 365
	// DefaultDays 未显式指定时使用的保留天数.
	DefaultDays = 90

	day = 24 * time.Hour
)

// ComputeExpiry 计算过期时间: createdAt + retentionDays 天.
// 使用固定 86400 秒的天长，避免时区/夏令时带来的日历漂移.
// retentionDays 的范围校验由调用方负责，这里不做截断.
func ComputeExpiry(createdAt time.Time, retentionDays int) time.Time {
	return createdAt.Add(time.Duration(retentionDays) * day)
}

// IsExpired 判断 expiresAt 是否已过期（严格早于 now）.
func IsExpired(expiresAt, now time.Time) bool {
	return now.After(expiresAt)
}

// ExpiringWithin 判断 expiresAt 是否落在 [now, now+windowDays 天] 区间内.
// 已过期的录制返回 false，由过期清理路径处理.
func ExpiringWithin(expiresAt, now time.Time, windowDays int) bool {
	if expiresAt.Before(now) {
		return false
	}

	return !expiresAt.After(now.Add(time.Duration(windowDays) * day))
}

// DaysRemaining 返回距过期的天数，向上取整；已过期时为负数.
func DaysRemaining(expiresAt, now time.Time) int {
	diff := expiresAt.Sub(now)
	days := diff / day

	if diff%day > 0 {
		days++
	}

	return int(days)
}

// ValidDays 检查保留天数是否在允许范围内.
func ValidDays(n int) bool {
	return n >= MinDays && n <= MaxDays
}
