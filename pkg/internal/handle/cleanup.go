package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/recvault/pkg/internal/types"
	"github.com/yeisme/recvault/pkg/middleware"
)

// CleanupRun 手动触发一轮到期清理，与定时任务走同一个单飞保护.
//
//	@Summary	手动触发清理
//	@Tags		清理
//	@Success	200	{object}	types.Response
//	@Router		/api/v1/cleanup/run [post]
func CleanupRun(c *gin.Context) {
	svc := middleware.GetCleanup(c)
	if svc == nil {
		c.JSON(http.StatusServiceUnavailable, types.Fail("cleanup service not initialized"))
		return
	}

	stats := svc.Run(c.Request.Context())
	c.JSON(http.StatusOK, types.OK(stats))
}

// CleanupStats 返回清理累计统计.
//
//	@Summary	清理统计
//	@Tags		清理
//	@Success	200	{object}	types.Response
//	@Router		/api/v1/cleanup/stats [get]
func CleanupStats(c *gin.Context) {
	svc := middleware.GetCleanup(c)
	if svc == nil {
		c.JSON(http.StatusServiceUnavailable, types.Fail("cleanup service not initialized"))
		return
	}

	c.JSON(http.StatusOK, types.OK(svc.Stats()))
}
