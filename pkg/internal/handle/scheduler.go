package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/recvault/pkg/internal/types"
	"github.com/yeisme/recvault/pkg/middleware"
)

// SchedulerJobs 返回所有定时任务的信息.
//
//	@Summary	定时任务列表
//	@Tags		调度器
//	@Success	200	{object}	types.Response
//	@Router		/api/v1/scheduler/jobs [get]
func SchedulerJobs(c *gin.Context) {
	sched := middleware.GetScheduler(c)
	if sched == nil {
		c.JSON(http.StatusServiceUnavailable, types.Fail("scheduler not initialized"))
		return
	}

	c.JSON(http.StatusOK, types.OK(gin.H{"jobs": sched.GetJobInfos()}))
}
