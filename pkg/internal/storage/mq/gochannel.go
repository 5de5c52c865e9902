// Package mq 提供进程内 GoChannel 实现，用于本地开发与测试，无外部依赖.
package mq

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/yeisme/recvault/pkg/configs"
)

// init 注册 GoChannel 工厂.
func init() {
	RegisterFactory(configs.MQTypeGoChannel, gochannelFactory)
}

// gochannelFactory 创建进程内 Publisher & Subscriber（同一实例）.
func gochannelFactory(
	_ context.Context,
	_ *configs.MQConfig,
	logger watermill.LoggerAdapter) (
	message.Publisher, message.Subscriber, error) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, logger)

	return pubSub, pubSub, nil
}
