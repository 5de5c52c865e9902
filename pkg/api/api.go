// Package api 聚合HTTP服务的对外接口定义.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/recvault/pkg/internal/router"
)

// RegisterGroup 将全部业务路由注册到传入的 gin 引擎.
func RegisterGroup(e *gin.Engine) *gin.Engine {
	router.RegisterAll(e)

	return e
}
