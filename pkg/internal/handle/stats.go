package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/recvault/pkg/internal/service"
	"github.com/yeisme/recvault/pkg/internal/types"
)

// RecordingStats 录制总体统计.
//
//	@Summary	录制统计
//	@Tags		统计
//	@Success	200	{object}	types.Response
//	@Router		/api/v1/recordings/stats [get]
func RecordingStats(c *gin.Context) {
	svc := service.StatsServiceFromContext(c.Request.Context())

	summary, err := svc.Summary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.OK(summary))
}
