package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/recvault/pkg/internal/handle"
)

// RegisterRecordingsRoutes 注册录制生命周期相关路由.
func RegisterRecordingsRoutes(g *gin.RouterGroup) {
	recordings := g.Group("/recordings")
	{
		// 开始录制
		recordings.POST("", handle.StartRecording)
		// 按面试列出录制
		recordings.GET("", handle.ListRecordings)
		// 统计要先于 /:id 注册，避免被参数路由吞掉
		recordings.GET("/stats", handle.RecordingStats)

		single := recordings.Group("/:id")
		{
			single.GET("", handle.GetRecording)
			single.DELETE("", handle.DeleteRecording)
			// 停止录制并登记产物
			single.POST("/stop", handle.StopRecording)
			// 上传录制文件（multipart）
			single.POST("/file", handle.UploadRecordingFile)
			// 标记处理完成
			single.POST("/process", handle.ProcessRecording)
			// 删除排期
			single.POST("/schedule-delete", handle.ScheduleDelete)
			// 调整保留期
			single.PUT("/retention", handle.UpdateRetention)
			// 预签名下载
			single.GET("/download", handle.DownloadRecording)
		}
	}
}
