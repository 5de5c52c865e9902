package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/recvault/pkg/internal/handle"
)

// RegisterCleanupRoutes 注册保留期清理相关路由.
func RegisterCleanupRoutes(g *gin.RouterGroup) {
	cleanupRoutes := g.Group("/cleanup")
	{
		cleanupRoutes.POST("/run", handle.CleanupRun)
		cleanupRoutes.GET("/stats", handle.CleanupStats)
	}
}
