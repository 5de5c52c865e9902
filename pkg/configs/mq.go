package configs

import (
	"github.com/spf13/viper"
)

// MQType 消息队列类型.
type MQType string

const (
	MQTypeNATS      MQType = "nats"
	MQTypeGoChannel MQType = "gochannel"

	DefaultMQType        = MQTypeGoChannel // 默认使用进程内通道，部署时切换为 nats
	DefaultMQURL         = "localhost:4222"
	DefaultMaxReconnects = 5  // 默认最大重连次数
	DefaultReconnectWait = 5  // 默认重连等待时间（秒）
	DefaultMQClientID    = "recvault-app"

	// JetStream 流配置常量.

	DefaultStreamName     = "RECVAULT"
	DefaultSubjectPrefix  = "rv"
	DefaultStreamMaxAge   = 24 // 默认流最大年龄 (小时)
	DefaultStreamReplicas = 1  // 默认流副本数
)

// MQConfig 消息队列配置.
type MQConfig struct {
	Type   MQType       `mapstructure:"type" rule:"oneof=nats gochannel"`
	URL    string       `mapstructure:"url"  rule:"omitempty,hostname_port"`
	User   string       `mapstructure:"user"`
	Password string     `mapstructure:"password"`
	ClientID string     `mapstructure:"client_id"`
	MaxReconnects int   `mapstructure:"max_reconnects" rule:"min=0,max=100"`
	ReconnectWait int   `mapstructure:"reconnect_wait" rule:"min=1,max=300"`
	NATS   MQNATSConfig `mapstructure:"nats"`
}

// MQNATSConfig NATS MQ 配置.
type MQNATSConfig struct {
	JetStreamEnabled       bool   `mapstructure:"jetstream_enabled"`
	StreamName             string `mapstructure:"stream_name"`
	SubjectPrefix          string `mapstructure:"subject_prefix"`
	JetStreamAutoProvision bool   `mapstructure:"jetstream_auto_provision"`
	StreamMaxAge           int    `mapstructure:"stream_max_age"`
	StreamReplicas         int    `mapstructure:"stream_replicas"`
}

// GetMQType 返回当前配置的消息队列类型.
func (c *MQConfig) GetMQType() MQType {
	return c.Type
}

// setDefaults 设置消息队列配置的默认值.
func (c *MQConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("mq.type", DefaultMQType)
	v.SetDefault("mq.url", DefaultMQURL)
	v.SetDefault("mq.client_id", DefaultMQClientID)
	v.SetDefault("mq.max_reconnects", DefaultMaxReconnects)
	v.SetDefault("mq.reconnect_wait", DefaultReconnectWait)
	v.SetDefault("mq.nats.jetstream_enabled", false)
	v.SetDefault("mq.nats.stream_name", DefaultStreamName)
	v.SetDefault("mq.nats.subject_prefix", DefaultSubjectPrefix)
	v.SetDefault("mq.nats.jetstream_auto_provision", true)
	v.SetDefault("mq.nats.stream_max_age", DefaultStreamMaxAge)
	v.SetDefault("mq.nats.stream_replicas", DefaultStreamReplicas)
}
