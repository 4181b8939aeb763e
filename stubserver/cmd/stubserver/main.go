package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"portal-shell/stubserver/config"
	"portal-shell/stubserver/internal/handler"
	"portal-shell/stubserver/internal/limiter"
	"portal-shell/stubserver/internal/router"
	"portal-shell/stubserver/internal/service"

	log "portal-shell/stubserver/pkg/logger"
)

var (
	configPath = flag.String("config", "config/config.yaml", "配置文件路径")
)

func main() {
	// 解析命令行参数
	flag.Parse()

	// 1. 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		panic("加载配置失败: " + err.Error())
	}

	// 2. 初始化日志
	logConfig := &log.Config{
		Level:    cfg.Log.Level,
		Output:   cfg.Log.Output,
		FilePath: cfg.Log.FilePath,
	}
	if err := log.Init(logConfig); err != nil {
		panic("初始化日志失败: " + err.Error())
	}
	defer log.Sync()

	log.Info("认证桩服务启动中...")
	log.Info("配置加载成功",
		zap.String("config_path", *configPath),
		zap.Int("users", len(cfg.Users)))

	// 3. 设置运行模式
	if cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 4. 组装依赖
	loginLimiter := limiter.NewMemoryLimiter()
	authService := service.NewAuthService(cfg.Users, loginLimiter)
	authHandler := handler.NewAuthHandler(authService)
	log.Info("Handler 创建成功")

	// 5. 设置路由
	r := router.SetupRouter(authHandler)
	log.Info("路由设置完成")

	// 6. 启动 HTTP Server（在 goroutine 中）
	addr := cfg.Server.GetHTTPAddr()
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info("HTTP Server 启动成功",
			zap.String("addr", addr),
			zap.String("mode", cfg.Server.Mode))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("启动 HTTP Server 失败", zap.Error(err))
		}
	}()

	// 7. 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("收到退出信号，开始优雅关闭...")

	// 8. 优雅关闭 HTTP Server
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("关闭 HTTP Server 失败", zap.Error(err))
	}

	log.Info("认证桩服务已关闭")
}
