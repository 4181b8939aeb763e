package router

import (
	"github.com/gin-gonic/gin"

	"portal-shell/stubserver/internal/handler"
	"portal-shell/stubserver/internal/middleware"
)

// SetupRouter 设置路由
func SetupRouter(authHandler *handler.AuthHandler) *gin.Engine {
	// 创建 Gin Engine（不使用默认中间件）
	r := gin.New()

	// 全局中间件
	r.Use(gin.Recovery())                // Panic 恢复
	r.Use(middleware.LoggerMiddleware()) // 日志

	// 健康检查
	r.GET("/healthz", authHandler.Health)

	// API 路由组
	api := r.Group("/api/v1")
	{
		// 认证相关
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
		}
	}

	return r
}
