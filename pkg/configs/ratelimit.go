package configs

import (
	"github.com/spf13/viper"
)

const (
	DefaultRateLimitEnabled = false    // 默认关闭限流
	DefaultRateLimitRPS     = 50       // 每秒请求数
	DefaultRateLimitBurst   = 100      // 突发容量
	DefaultRateLimitKey     = "global" // 限流维度: global | ip | header:<name>
)

type (
	// RateLimitConfig 限流配置.
	RateLimitConfig struct {
		Enabled bool    `mapstructure:"enabled"`
		RPS     float64 `mapstructure:"rps"     rule:"min=0"`
		Burst   int     `mapstructure:"burst"   rule:"min=0"`
		Key     string  `mapstructure:"key"`
	}
)

// setDefaults 设置限流配置的默认值.
func (r *RateLimitConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("ratelimit.enabled", DefaultRateLimitEnabled)
	v.SetDefault("ratelimit.rps", DefaultRateLimitRPS)
	v.SetDefault("ratelimit.burst", DefaultRateLimitBurst)
	v.SetDefault("ratelimit.key", DefaultRateLimitKey)
}
