package storage

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"portal-shell/termclient/config"
	log "portal-shell/termclient/pkg/logger"
)

// ============================================================================
// 存储错误定义
// ============================================================================

var (
	// ErrKeyNotFound 键不存在
	ErrKeyNotFound = errors.New("键不存在")
)

// ============================================================================
// Storage 接口
// ============================================================================

// Storage 会话持久化存储接口（字符串键值对）
type Storage interface {
	// Get 读取键对应的值（键不存在时返回 ErrKeyNotFound）
	Get(ctx context.Context, key string) (string, error)

	// Set 写入键值对
	Set(ctx context.Context, key string, value string) error

	// Del 删除一个或多个键（键不存在不算错误）
	Del(ctx context.Context, keys ...string) error

	// Close 关闭存储
	Close() error
}

// New 根据配置选择存储驱动
func New(cfg *config.Config) (Storage, error) {
	log.Info("开始初始化会话存储",
		zap.String("driver", cfg.Storage.Driver),
	)

	// 根据驱动类型选择实现
	switch cfg.Storage.Driver {
	case "file":
		log.Debug("使用文件存储驱动", zap.String("path", cfg.Storage.FilePath))
		return NewFileStorage(cfg.Storage.FilePath)

	case "memory":
		log.Debug("使用内存存储驱动")
		return NewMemoryStorage(), nil

	case "redis":
		log.Debug("使用 Redis 存储驱动", zap.String("addr", cfg.Redis.GetAddr()))
		return NewRedisStorage(cfg)

	default:
		log.Error("不支持的存储驱动", zap.String("driver", cfg.Storage.Driver))
		return nil, fmt.Errorf("不支持的存储驱动: %s", cfg.Storage.Driver)
	}
}
