package main

import (
	"flag"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"portal-shell/termclient/config"
	"portal-shell/termclient/internal/controller"
	"portal-shell/termclient/internal/session"
	"portal-shell/termclient/internal/storage"
	"portal-shell/termclient/internal/tui"
	"portal-shell/termclient/pkg/container"

	log "portal-shell/termclient/pkg/logger"
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

	// 2. 初始化日志（界面占用终端，日志默认写文件）
	logConfig := &log.Config{
		Level:    cfg.Log.Level,
		Output:   cfg.Log.Output,
		FilePath: cfg.Log.FilePath,
	}
	if err := log.Init(logConfig); err != nil {
		panic("初始化日志失败: " + err.Error())
	}
	defer log.Sync()

	log.Info("终端门户启动中...")
	log.Info("配置加载成功", zap.String("config_path", *configPath))

	// 3. 初始化依赖注入容器
	if err := container.Init(); err != nil {
		log.Fatal("初始化容器失败", zap.Error(err))
	}
	log.Info("依赖注入容器初始化成功")

	// 4. 注册配置到容器（供依赖注入使用）
	if err := container.Container.Provide(func() *config.Config {
		return cfg
	}); err != nil {
		log.Fatal("注册配置失败", zap.Error(err))
	}

	// 5. 从容器获取存储、会话与控制器（会话在此完成恢复）
	var (
		st   storage.Storage
		sess *session.Store
		ctrl *controller.ViewController
	)
	if err := container.Invoke(func(s storage.Storage, se *session.Store, c *controller.ViewController) {
		st = s
		sess = se
		ctrl = c
	}); err != nil {
		log.Fatal("初始化依赖失败", zap.Error(err))
	}
	defer st.Close()

	// 6. 订阅会话变更，登录登出都留下日志
	sess.Subscribe(func(token, role string) {
		if token != "" {
			log.Info("会话变更：已登录", zap.String("role", role))
		} else {
			log.Info("会话变更：已登出")
		}
	})

	// 7. 启动终端界面
	program := tea.NewProgram(tui.NewModel(ctrl, sess), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		log.Fatal("终端界面运行失败", zap.Error(err))
	}

	log.Info("终端门户已退出")
}
