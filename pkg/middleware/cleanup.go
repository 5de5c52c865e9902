package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/recvault/pkg/internal/service"
)

type cleanupKey struct{}

// CleanupMiddleware 将清理服务注入到context中.
// 手动触发与定时任务必须共用同一实例，单飞保护与累计计数才有意义.
func CleanupMiddleware(svc *service.CleanupService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.WithValue(c.Request.Context(), cleanupKey{}, svc)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// GetCleanup 从context中获取清理服务.
func GetCleanup(c *gin.Context) *service.CleanupService {
	if svc, ok := c.Request.Context().Value(cleanupKey{}).(*service.CleanupService); ok {
		return svc
	}

	return nil
}
