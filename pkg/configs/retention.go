package configs

import (
	"github.com/spf13/viper"
)

const (
	DefaultRetentionDays      = 90          // 默认保留天数
	DefaultExpiringWindowDays = 7           // 即将过期查询窗口（天）
	DefaultCleanupCron        = "0 2 * * *" // 每日清理，凌晨 2 点
	DefaultNotifyCron         = "0 9 * * 1" // 每周一上午 9 点检查即将过期的录制
	DefaultRetentionEnabled   = true        // 是否启用定时清理
)

type (
	// RetentionConfig 录制保留与自动清理配置.
	// DefaultDays 仅是创建录制时的默认值，单条录制的保留期在 [1,365] 内可调.
	RetentionConfig struct {
		Enabled            bool   `mapstructure:"enabled"`
		DefaultDays        int    `mapstructure:"default_days"         rule:"min=1,max=365"`
		ExpiringWindowDays int    `mapstructure:"expiring_window_days" rule:"min=1,max=365"`
		CleanupCron        string `mapstructure:"cleanup_cron"`
		NotifyCron         string `mapstructure:"notify_cron"`
	}
)

// setDefaults 设置保留策略配置的默认值.
func (r *RetentionConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("retention.enabled", DefaultRetentionEnabled)
	v.SetDefault("retention.default_days", DefaultRetentionDays)
	v.SetDefault("retention.expiring_window_days", DefaultExpiringWindowDays)
	v.SetDefault("retention.cleanup_cron", DefaultCleanupCron)
	v.SetDefault("retention.notify_cron", DefaultNotifyCron)
}
