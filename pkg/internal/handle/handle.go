// Package handle 提供HTTP请求处理器的实现.
package handle

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/yeisme/recvault/pkg/internal/service"
	"github.com/yeisme/recvault/pkg/internal/types"
	"github.com/yeisme/recvault/pkg/log"
	"github.com/yeisme/recvault/pkg/rule"
)

// bindAndValidate 绑定 JSON 请求体并按 rule 标签校验.
func bindAndValidate(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, types.Fail("invalid request body: "+err.Error()))
		return false
	}

	if err := rule.ValidateStruct(obj); err != nil {
		c.JSON(http.StatusBadRequest, types.Fail(err.Error()))
		return false
	}

	return true
}

// respondError 将服务层错误映射为HTTP状态码:
// 404 记录不存在 / 400 状态或参数非法 / 500 其它.
func respondError(c *gin.Context, err error) {
	var vErr validator.ValidationErrors

	switch {
	case errors.Is(err, service.ErrRecordingNotFound):
		c.JSON(http.StatusNotFound, types.Fail(err.Error()))
	case errors.Is(err, service.ErrInvalidState),
		errors.Is(err, service.ErrRetentionOutOfRange),
		errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, types.Fail(err.Error()))
	default:
		log.Logger().Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		c.JSON(http.StatusInternalServerError, types.Fail(err.Error()))
	}
}
