package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"portal-shell/stubserver/internal/service"
	"portal-shell/stubserver/pkg/response"

	log "portal-shell/stubserver/pkg/logger"
)

// ============================================================================
// Handler 结构体
// ============================================================================

type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler 创建 AuthHandler 实例
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// ============================================================================
// 请求结构体
// ============================================================================

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ============================================================================
// Handler 方法
// ============================================================================

// Login 登录。成功返回扁平的 {token, role}，失败返回统一错误结构
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, response.CodeBadRequest, "请求参数错误")
		return
	}

	// 设置超时时间
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	result, err := h.authService.Login(ctx, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLoginLimitExceeded):
			response.Error(c, response.CodeTooManyRequests, response.GetMessage(response.CodeTooManyRequests))
		case errors.Is(err, service.ErrInvalidCredentials):
			response.Error(c, response.CodeInvalidCredentials, "用户名或密码错误")
		default:
			log.Error("登录处理失败", zap.Error(err))
			response.Error(c, response.CodeInternalServerError, "服务器内部错误")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": result.Token,
		"role":  result.Role,
	})
}

// Health 健康检查
func (h *AuthHandler) Health(c *gin.Context) {
	response.Success(c, gin.H{
		"status": "ok",
	})
}
