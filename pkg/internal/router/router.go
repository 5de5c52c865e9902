// Package router 管理路由配置，将路径绑定到 pkg/internal/handle 的处理器.
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterAll 在 /api/v1 分组下注册全部业务路由.
func RegisterAll(e *gin.Engine) {
	v1 := e.Group("/api/v1")

	RegisterRecordingsRoutes(v1)
	RegisterCleanupRoutes(v1)
	RegisterSchedulerRoutes(v1)
	RegisterHealthCheckRoute(v1)
}
