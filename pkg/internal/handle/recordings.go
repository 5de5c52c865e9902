package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/recvault/pkg/internal/model"
	"github.com/yeisme/recvault/pkg/internal/service"
	"github.com/yeisme/recvault/pkg/internal/types"
)

// StartRecording 开始录制.
//
//	@Summary	开始录制
//	@Tags		录制
//	@Accept		json
//	@Produce	json
//	@Param		body	body		types.StartRecordingRequest	true	"请求"
//	@Success	200		{object}	types.Response
//	@Failure	400		{object}	types.Response
//	@Router		/api/v1/recordings [post]
func StartRecording(c *gin.Context) {
	var req types.StartRecordingRequest
	if !bindAndValidate(c, &req) {
		return
	}

	svc := service.RecordingServiceFromContext(c.Request.Context())

	info, err := svc.Start(c.Request.Context(), req.InterviewID, req.RetentionDays)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.OK(info))
}

// StopRecording 停止录制并登记产物信息.
//
//	@Summary	停止录制
//	@Tags		录制
//	@Param		id	path	string	true	"录制ID"
//	@Router		/api/v1/recordings/{id}/stop [post]
func StopRecording(c *gin.Context) {
	var req types.StopRecordingRequest
	if !bindAndValidate(c, &req) {
		return
	}

	svc := service.RecordingServiceFromContext(c.Request.Context())

	info, err := svc.Stop(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.OK(info))
}

// UploadRecordingFile 接收 multipart 上传的录制文件，写入对象存储后结束录制.
//
//	@Summary	上传录制文件
//	@Tags		录制
//	@Accept		mpfd
//	@Param		id		path		string	true	"录制ID"
//	@Param		file	formData	file	true	"录制文件"
//	@Router		/api/v1/recordings/{id}/file [post]
func UploadRecordingFile(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, types.Fail("missing file field: "+err.Error()))
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, types.Fail("open upload: "+err.Error()))
		return
	}
	defer f.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	svc := service.RecordingServiceFromContext(c.Request.Context())

	info, err := svc.UploadRecording(c.Request.Context(), c.Param("id"), f, fileHeader.Size, contentType)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.OK(info))
}

// ProcessRecording 标记处理完成，录制转为可下载.
//
//	@Summary	处理完成
//	@Tags		录制
//	@Param		id	path	string	true	"录制ID"
//	@Router		/api/v1/recordings/{id}/process [post]
func ProcessRecording(c *gin.Context) {
	svc := service.RecordingServiceFromContext(c.Request.Context())

	info, err := svc.Process(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.OK(info))
}

// ScheduleDelete 查询/刷新删除排期.
//
//	@Summary	删除排期
//	@Tags		保留期
//	@Param		id	path	string	true	"录制ID"
//	@Router		/api/v1/recordings/{id}/schedule-delete [post]
func ScheduleDelete(c *gin.Context) {
	var req types.ScheduleDeleteRequest
	// 请求体可为空，表示只查询不覆盖
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, types.Fail("invalid request body: "+err.Error()))
			return
		}
	}

	svc := service.RecordingServiceFromContext(c.Request.Context())

	result, err := svc.ScheduleDelete(c.Request.Context(), c.Param("id"), req.RetentionDays)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.OK(result))
}

// UpdateRetention 调整保留期.
//
//	@Summary	调整保留期
//	@Tags		保留期
//	@Param		id		path	string						true	"录制ID"
//	@Param		body	body	types.UpdateRetentionRequest	true	"请求"
//	@Router		/api/v1/recordings/{id}/retention [put]
func UpdateRetention(c *gin.Context) {
	var req types.UpdateRetentionRequest
	if !bindAndValidate(c, &req) {
		return
	}

	svc := service.RecordingServiceFromContext(c.Request.Context())

	info, err := svc.UpdateRetention(c.Request.Context(), c.Param("id"), req.RetentionDays)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.OK(info))
}

// DeleteRecording 人工删除录制.
// 操作者取自 X-Actor 请求头，原因取自 reason 查询参数.
//
//	@Summary	删除录制
//	@Tags		录制
//	@Param		id		path	string	true	"录制ID"
//	@Param		X-Actor	header	string	false	"操作者"
//	@Param		reason	query	string	false	"删除原因"
//	@Router		/api/v1/recordings/{id} [delete]
func DeleteRecording(c *gin.Context) {
	actor := c.GetHeader("X-Actor")
	if actor == "" {
		actor = "unknown"
	}

	reason := model.DeletionReason(c.Query("reason"))
	if reason == "" {
		reason = model.ReasonManual
	}

	svc := service.RecordingServiceFromContext(c.Request.Context())

	if err := svc.Delete(c.Request.Context(), c.Param("id"), actor, reason); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.OK(gin.H{"recording_id": c.Param("id"), "deleted": true}))
}

// GetRecording 查询单条录制.
//
//	@Summary	查询录制
//	@Tags		录制
//	@Param		id	path	string	true	"录制ID"
//	@Router		/api/v1/recordings/{id} [get]
func GetRecording(c *gin.Context) {
	svc := service.RecordingServiceFromContext(c.Request.Context())

	info, err := svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.OK(info))
}

// DownloadRecording 生成预签名下载URL并计入下载次数.
//
//	@Summary	下载录制
//	@Tags		录制
//	@Param		id	path	string	true	"录制ID"
//	@Router		/api/v1/recordings/{id}/download [get]
func DownloadRecording(c *gin.Context) {
	svc := service.RecordingServiceFromContext(c.Request.Context())

	result, err := svc.DownloadURL(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.OK(result))
}

// ListRecordings 列出一场面试的录制.
//
//	@Summary	录制列表
//	@Tags		录制
//	@Param		interview_id	query	string	true	"面试ID"
//	@Router		/api/v1/recordings [get]
func ListRecordings(c *gin.Context) {
	interviewID := c.Query("interview_id")
	if interviewID == "" {
		c.JSON(http.StatusBadRequest, types.Fail("interview_id is required"))
		return
	}

	svc := service.RecordingServiceFromContext(c.Request.Context())

	resp, err := svc.ListForInterview(c.Request.Context(), interviewID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.OK(resp))
}
