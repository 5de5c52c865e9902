// Package service 实现录制生命周期、保留期清理与统计的业务逻辑.
// 服务通过构造函数显式注入依赖，时钟与事件发布器可替换，便于测试.
package service

import (
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/yeisme/recvault/pkg/configs"
	"github.com/yeisme/recvault/pkg/internal/assetstore"
	"github.com/yeisme/recvault/pkg/internal/retention"
)

// Option 配置服务的可选依赖.
type Option func(*options)

type options struct {
	clock         func() time.Time
	publisher     message.Publisher
	defaultDays   int
	windowDays    int
	namespace     assetstore.Namespace
	hasNamespace  bool
	presignExpiry time.Duration
}

// WithClock 注入时钟，测试用.
func WithClock(fn func() time.Time) Option {
	return func(o *options) { o.clock = fn }
}

// WithPublisher 注入事件发布器，nil 时跳过事件发布.
func WithPublisher(pub message.Publisher) Option {
	return func(o *options) { o.publisher = pub }
}

// WithDefaultRetention 覆盖默认保留天数.
func WithDefaultRetention(days int) Option {
	return func(o *options) { o.defaultDays = days }
}

// WithExpiringWindow 覆盖即将过期查询窗口（天）.
func WithExpiringWindow(days int) Option {
	return func(o *options) { o.windowDays = days }
}

// WithNamespace 覆盖资产命名空间，测试用.
func WithNamespace(ns assetstore.Namespace) Option {
	return func(o *options) {
		o.namespace = ns
		o.hasNamespace = true
	}
}

// buildOptions 应用选项并补全默认值.
// 命名空间优先取 store 自带的布局，其次取配置.
func buildOptions(store assetstore.Store, opts []Option) options {
	cfg := configs.GetConfig()

	o := options{
		clock:         time.Now,
		defaultDays:   cfg.Retention.DefaultDays,
		windowDays:    cfg.Retention.ExpiringWindowDays,
		presignExpiry: 15 * time.Minute,
	}

	for _, opt := range opts {
		opt(&o)
	}

	if o.defaultDays <= 0 {
		o.defaultDays = retention.DefaultDays
	}

	if o.windowDays <= 0 {
		o.windowDays = configs.DefaultExpiringWindowDays
	}

	if !o.hasNamespace {
		if nsp, ok := store.(interface{ Namespace() assetstore.Namespace }); ok {
			o.namespace = nsp.Namespace()
		} else {
			o.namespace = assetstore.Namespace{
				Bucket:          cfg.S3.Bucket,
				RecordingPrefix: cfg.S3.RecordingPrefix,
				ThumbnailPrefix: cfg.S3.ThumbnailPrefix,
			}
		}
	}

	return o
}
