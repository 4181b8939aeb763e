package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 统一错误响应结构（登录成功响应不走此结构）
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// JSON 返回JSON响应
func JSON(c *gin.Context, httpStatus int, code int, message string, data interface{}) {
	c.JSON(httpStatus, Response{
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// Success 返回成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: "OK",
		Data:    data,
	})
}

// Error 返回错误响应
func Error(c *gin.Context, code int, message string) {
	httpStatus := getHTTPStatus(code)
	c.JSON(httpStatus, Response{
		Code:    code,
		Message: message,
		Data:    nil,
	})
}

// getHTTPStatus 根据业务错误码获取HTTP状态码
func getHTTPStatus(code int) int {
	switch {
	case code == CodeSuccess:
		return http.StatusOK
	case code >= CodeBadRequest && code < CodeUnauthorized:
		return http.StatusBadRequest
	case code >= CodeUnauthorized && code < CodeTooManyRequests:
		return http.StatusUnauthorized
	case code >= CodeTooManyRequests && code < CodeInternalServerError:
		return http.StatusTooManyRequests
	case code >= CodeInternalServerError:
		return http.StatusInternalServerError
	default:
		return http.StatusOK
	}
}
