package configs

import (
	"github.com/spf13/viper"
)

const (
	DefaultMetricsEnabled        = true  // 是否启用监控指标
	DefaultMetricsRuntimeMetrics = true  // 是否收集Go运行时指标
	DefaultMetricsPprof          = false // 是否暴露pprof端点
)

type (
	// MetricsConfig 监控指标配置.
	MetricsConfig struct {
		Enabled        bool `mapstructure:"enabled"`
		RuntimeMetrics bool `mapstructure:"runtime_metrics"`
		Pprof          bool `mapstructure:"pprof"`
	}
)

// setDefaults 设置监控指标配置的默认值.
func (m *MetricsConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("metrics.enabled", DefaultMetricsEnabled)
	v.SetDefault("metrics.runtime_metrics", DefaultMetricsRuntimeMetrics)
	v.SetDefault("metrics.pprof", DefaultMetricsPprof)
}
