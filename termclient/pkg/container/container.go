package container

import (
	"context"
	"time"

	"go.uber.org/dig"

	"portal-shell/termclient/config"
	"portal-shell/termclient/internal/authapi"
	"portal-shell/termclient/internal/controller"
	"portal-shell/termclient/internal/session"
	"portal-shell/termclient/internal/storage"
)

// Container 全局依赖注入容器
var Container *dig.Container

// Init 初始化依赖注入容器
func Init() error {
	Container = dig.New()

	// 注册所有依赖
	if err := registerProviders(); err != nil {
		return err
	}

	return nil
}

// registerProviders 注册所有提供者
func registerProviders() error {
	// 会话存储驱动
	if err := Container.Provide(func(cfg *config.Config) (storage.Storage, error) {
		return storage.New(cfg)
	}); err != nil {
		return err
	}

	// 会话：创建后立即从持久化恢复
	if err := Container.Provide(func(st storage.Storage) (*session.Store, error) {
		sess := session.NewStore(st)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := sess.Restore(ctx); err != nil {
			return nil, err
		}
		return sess, nil
	}); err != nil {
		return err
	}

	// 认证服务客户端
	if err := Container.Provide(func(cfg *config.Config) authapi.Client {
		return authapi.NewClient(&cfg.API)
	}); err != nil {
		return err
	}

	// 视图控制器
	if err := Container.Provide(func(sess *session.Store, client authapi.Client) *controller.ViewController {
		return controller.NewViewController(sess, client)
	}); err != nil {
		return err
	}

	return nil
}

// Invoke 调用函数，自动注入依赖
func Invoke(function interface{}) error {
	return Container.Invoke(function)
}
