package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"portal-shell/termclient/config"
	log "portal-shell/termclient/pkg/logger"
)

// redisStorage Redis 存储实现（键统一带前缀，便于多客户端共用实例）
type redisStorage struct {
	client *redis.Client
	prefix string
}

// NewRedisStorage 创建 Redis 存储并测试连接
func NewRedisStorage(cfg *config.Config) (Storage, error) {
	log.Info("开始初始化 Redis 存储",
		zap.String("host", cfg.Redis.Host),
		zap.Int("port", cfg.Redis.Port),
		zap.Int("db", cfg.Redis.DB),
	)

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.GetAddr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		MaxRetries:   cfg.Redis.MaxRetries,
		DialTimeout:  cfg.Redis.GetDialTimeout(),
		ReadTimeout:  cfg.Redis.GetReadTimeout(),
		WriteTimeout: cfg.Redis.GetWriteTimeout(),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Error("Redis 连接测试失败", zap.Error(err))
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	log.Info("Redis 连接成功",
		zap.String("addr", cfg.Redis.GetAddr()),
		zap.String("key_prefix", cfg.Storage.KeyPrefix),
	)

	return &redisStorage{
		client: client,
		prefix: cfg.Storage.KeyPrefix,
	}, nil
}

// Get 读取键对应的值
func (rs *redisStorage) Get(ctx context.Context, key string) (string, error) {
	value, err := rs.client.Get(ctx, rs.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrKeyNotFound
		}
		return "", fmt.Errorf("读取键失败: %w", err)
	}
	return value, nil
}

// Set 写入键值对（不设置过期时间，生命周期由调用方管理）
func (rs *redisStorage) Set(ctx context.Context, key string, value string) error {
	if err := rs.client.Set(ctx, rs.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("写入键失败: %w", err)
	}
	return nil
}

// Del 删除一个或多个键
func (rs *redisStorage) Del(ctx context.Context, keys ...string) error {
	prefixed := make([]string, 0, len(keys))
	for _, key := range keys {
		prefixed = append(prefixed, rs.prefix+key)
	}

	if err := rs.client.Del(ctx, prefixed...).Err(); err != nil {
		return fmt.Errorf("删除键失败: %w", err)
	}
	return nil
}

// Close 关闭 Redis 连接
func (rs *redisStorage) Close() error {
	return rs.client.Close()
}
