package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"portal-shell/termclient/internal/storage"
	log "portal-shell/termclient/pkg/logger"
)

// ============================================================================
// 常量与错误定义
// ============================================================================

// 会话持久化键（Token 与角色始终成对写入、成对删除）
const (
	TokenKey = "auth_token"
	RoleKey  = "auth_role"
)

var (
	ErrTokenEmpty = errors.New("Token不能为空")
	ErrRoleEmpty  = errors.New("角色不能为空")
)

// Subscriber 会话变更回调（登录后收到 token/role，登出后收到空串）
type Subscriber func(token, role string)

// ============================================================================
// 会话存储
// ============================================================================

// Store 会话存储：内存中的当前登录态 + 底层持久化
type Store struct {
	storage storage.Storage

	mu          sync.RWMutex
	token       string
	role        string
	subscribers []Subscriber
}

// NewStore 创建会话存储
func NewStore(st storage.Storage) *Store {
	return &Store{
		storage: st,
	}
}

// Restore 从持久化存储恢复会话，键不存在按未登录处理
func (s *Store) Restore(ctx context.Context) error {
	// 1. 读取 Token
	token, err := s.storage.Get(ctx, TokenKey)
	if err != nil && !errors.Is(err, storage.ErrKeyNotFound) {
		return fmt.Errorf("恢复会话失败: %w", err)
	}

	// 2. 读取角色
	role, err := s.storage.Get(ctx, RoleKey)
	if err != nil && !errors.Is(err, storage.ErrKeyNotFound) {
		return fmt.Errorf("恢复会话失败: %w", err)
	}

	// 3. 更新内存状态
	s.mu.Lock()
	s.token = token
	s.role = role
	s.mu.Unlock()

	if token != "" {
		log.Info("会话已恢复", zap.String("role", role))
	} else {
		log.Info("无持久化会话，以未登录状态启动")
	}

	return nil
}

// IsAuthenticated 当前是否持有有效会话
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// Token 返回当前会话 Token，未登录时为空串
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Role 返回当前会话角色，未登录时为空串
func (s *Store) Role() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.role
}

// SetSession 建立会话：先持久化再更新内存，持久化失败时内存状态不变
func (s *Store) SetSession(ctx context.Context, token, role string) error {
	// 1. 参数校验
	if token == "" {
		return ErrTokenEmpty
	}
	if role == "" {
		return ErrRoleEmpty
	}

	// 2. 持久化两个键
	if err := s.storage.Set(ctx, TokenKey, token); err != nil {
		return fmt.Errorf("保存会话失败: %w", err)
	}
	if err := s.storage.Set(ctx, RoleKey, role); err != nil {
		return fmt.Errorf("保存会话失败: %w", err)
	}

	// 3. 更新内存状态，快照订阅者
	s.mu.Lock()
	s.token = token
	s.role = role
	subs := s.snapshotSubscribers()
	s.mu.Unlock()

	log.Info("会话已建立", zap.String("role", role))

	// 4. 锁外通知，避免回调中再访问 Store 造成死锁
	for _, sub := range subs {
		sub(token, role)
	}

	return nil
}

// Logout 清除会话：内存状态无条件清空，持久化删除失败时仍返回错误
func (s *Store) Logout(ctx context.Context) error {
	// 1. 成对删除持久化键
	delErr := s.storage.Del(ctx, TokenKey, RoleKey)

	// 2. 无论删除是否成功都清空内存状态
	s.mu.Lock()
	s.token = ""
	s.role = ""
	subs := s.snapshotSubscribers()
	s.mu.Unlock()

	// 3. 锁外通知
	for _, sub := range subs {
		sub("", "")
	}

	if delErr != nil {
		log.Error("清除持久化会话失败", zap.Error(delErr))
		return fmt.Errorf("清除会话失败: %w", delErr)
	}

	log.Info("会话已清除")
	return nil
}

// Subscribe 注册会话变更回调，回调在状态更新后调用。
// 回调在 SetSession / Logout 的调用链上同步执行，触发方（如视图控制器）可能仍持有自身的锁：
// 回调内只应读取会话状态，不得反向调用触发方，否则会死锁
func (s *Store) Subscribe(sub Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, sub)
}

// snapshotSubscribers 复制订阅者列表，调用方必须持有 s.mu
func (s *Store) snapshotSubscribers() []Subscriber {
	subs := make([]Subscriber, len(s.subscribers))
	copy(subs, s.subscribers)
	return subs
}
