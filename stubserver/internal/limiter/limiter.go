package limiter

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	log "portal-shell/stubserver/pkg/logger"
)

const (
	// LoginFailTTL 登录失败计数过期时间（15分钟）
	LoginFailTTL = 15 * time.Minute

	// MaxLoginAttempts 最大登录尝试次数
	MaxLoginAttempts = 5
)

// LoginLimiter 登录限制器接口
type LoginLimiter interface {
	// RecordLoginFail 记录登录失败（计数器+1）
	RecordLoginFail(ctx context.Context, username string) (int64, error)

	// GetLoginFailCount 获取登录失败次数
	GetLoginFailCount(ctx context.Context, username string) (int64, error)

	// IsLoginAllowed 检查是否允许登录（失败次数<5）
	IsLoginAllowed(ctx context.Context, username string) (bool, error)

	// ResetLoginFail 重置登录失败计数（登录成功后调用）
	ResetLoginFail(ctx context.Context, username string) error
}

// failEntry 单个账号的失败计数
type failEntry struct {
	count     int64
	expiresAt time.Time
}

// memoryLimiter 进程内登录限制器实现
type memoryLimiter struct {
	mu      sync.Mutex
	entries map[string]*failEntry
	now     func() time.Time
}

// NewMemoryLimiter 创建进程内登录限制器
func NewMemoryLimiter() LoginLimiter {
	return &memoryLimiter{
		entries: make(map[string]*failEntry),
		now:     time.Now,
	}
}

// RecordLoginFail 记录登录失败，首次失败时开始计时
func (ml *memoryLimiter) RecordLoginFail(ctx context.Context, username string) (int64, error) {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	entry := ml.getEntryLocked(username)
	if entry == nil {
		entry = &failEntry{expiresAt: ml.now().Add(LoginFailTTL)}
		ml.entries[username] = entry
	}
	entry.count++

	log.Warn("记录登录失败", zap.String("username", username), zap.Int64("fail_count", entry.count))
	return entry.count, nil
}

// GetLoginFailCount 获取登录失败次数，过期计数按0处理
func (ml *memoryLimiter) GetLoginFailCount(ctx context.Context, username string) (int64, error) {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	entry := ml.getEntryLocked(username)
	if entry == nil {
		return 0, nil
	}
	return entry.count, nil
}

// IsLoginAllowed 检查是否允许登录
func (ml *memoryLimiter) IsLoginAllowed(ctx context.Context, username string) (bool, error) {
	ml.mu.Lock()
	var count int64
	if entry := ml.getEntryLocked(username); entry != nil {
		count = entry.count
	}
	ml.mu.Unlock()

	allowed := count < MaxLoginAttempts
	if !allowed {
		log.Warn("登录尝试次数过多", zap.String("username", username), zap.Int64("fail_count", count))
	}
	return allowed, nil
}

// ResetLoginFail 重置登录失败计数
func (ml *memoryLimiter) ResetLoginFail(ctx context.Context, username string) error {
	ml.mu.Lock()
	delete(ml.entries, username)
	ml.mu.Unlock()

	log.Info("重置登录失败计数", zap.String("username", username))
	return nil
}

// getEntryLocked 返回未过期的计数项，过期即删除；调用方必须持有 ml.mu
func (ml *memoryLimiter) getEntryLocked(username string) *failEntry {
	entry, ok := ml.entries[username]
	if !ok {
		return nil
	}
	if ml.now().After(entry.expiresAt) {
		delete(ml.entries, username)
		return nil
	}
	return entry
}
