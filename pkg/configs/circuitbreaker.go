package configs

import (
	"github.com/spf13/viper"
)

const (
	DefaultBreakerEnabled      = false
	DefaultBreakerMaxHalfOpen  = 5   // 半开状态允许的探测请求数
	DefaultBreakerIntervalSecs = 60  // 统计窗口（秒）
	DefaultBreakerTimeoutSecs  = 30  // 熔断后恢复探测时间（秒）
	DefaultBreakerMinRequests  = 20  // 触发判定的最小请求数
	DefaultBreakerFailureRate  = 0.5 // 失败率阈值
)

type (
	// CircuitBreakerConfig 熔断配置.
	CircuitBreakerConfig struct {
		Enabled           bool    `mapstructure:"enabled"`
		MaxRequestsInHalf uint32  `mapstructure:"max_requests_in_half"`
		IntervalSeconds   int     `mapstructure:"interval_seconds"     rule:"min=1"`
		TimeoutSeconds    int     `mapstructure:"timeout_seconds"      rule:"min=1"`
		MinRequests       uint32  `mapstructure:"min_requests"`
		FailureRate       float64 `mapstructure:"failure_rate"         rule:"min=0,max=1"`
	}
)

// setDefaults 设置熔断配置的默认值.
func (c *CircuitBreakerConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("breaker.enabled", DefaultBreakerEnabled)
	v.SetDefault("breaker.max_requests_in_half", DefaultBreakerMaxHalfOpen)
	v.SetDefault("breaker.interval_seconds", DefaultBreakerIntervalSecs)
	v.SetDefault("breaker.timeout_seconds", DefaultBreakerTimeoutSecs)
	v.SetDefault("breaker.min_requests", DefaultBreakerMinRequests)
	v.SetDefault("breaker.failure_rate", DefaultBreakerFailureRate)
}
