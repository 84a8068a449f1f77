package handler

import (
	"net/http"

	"github.com/KessokuMAS/PickTogether/internal/logger"
	"github.com/KessokuMAS/PickTogether/internal/logic"
	"github.com/gin-gonic/gin"
)

// Response 通用响应结构
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Code    string      `json:"code,omitempty"`
	Data    interface{} `json:"data"`
}

// Pagination 分页信息结构
type Pagination struct {
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
	Total    int64 `json:"total"`
}

// SuccessResponse 成功响应
func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse 错误响应：按错误种类映射HTTP状态码，返回稳定的错误编码
func ErrorResponse(c *gin.Context, err error) {
	kind := logic.KindOf(err)

	var statusCode int
	switch kind {
	case logic.KindInvalidArgument:
		statusCode = http.StatusBadRequest
	case logic.KindNotFound:
		statusCode = http.StatusNotFound
	case logic.KindInvalidState, logic.KindCapacityExceeded:
		statusCode = http.StatusConflict
	default:
		statusCode = http.StatusInternalServerError
		logger.Error("请求处理失败: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}

	c.JSON(statusCode, Response{
		Success: false,
		Message: err.Error(),
		Code:    string(kind),
		Data:    nil,
	})
}

// BadRequestResponse 参数绑定失败响应
func BadRequestResponse(c *gin.Context, err error) {
	ErrorResponse(c, logic.ErrInvalidArgument("%v", err))
}
