package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"portal-shell/stubserver/config"
	"portal-shell/stubserver/internal/limiter"
	log "portal-shell/stubserver/pkg/logger"
)

// ============================================================================
// 业务错误定义
// ============================================================================

var (
	ErrInvalidCredentials = errors.New("用户名或密码错误")
	ErrLoginLimitExceeded = errors.New("登录失败次数过多，请稍后再试")
)

const (
	// 登录失败次数限制
	MaxLoginFailures = 5
)

// ============================================================================
// AuthService 接口
// ============================================================================

// LoginResult 登录成功的结果
type LoginResult struct {
	Token string
	Role  string
}

type AuthService interface {
	// Login 校验用户名密码，成功返回 Token 与角色
	Login(ctx context.Context, username, password string) (*LoginResult, error)
}

// ============================================================================
// authService 实现
// ============================================================================

type authService struct {
	users        map[string]config.UserConfig
	loginLimiter limiter.LoginLimiter
}

// NewAuthService 创建AuthService实例
func NewAuthService(users []config.UserConfig, loginLimiter limiter.LoginLimiter) AuthService {
	userMap := make(map[string]config.UserConfig, len(users))
	for _, user := range users {
		userMap[user.Username] = user
	}
	return &authService{
		users:        userMap,
		loginLimiter: loginLimiter,
	}
}

// ============================================================================
// Login 登录
// ============================================================================

func (s *authService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	// 1. 检查登录失败次数限制
	failCount, err := s.loginLimiter.GetLoginFailCount(ctx, username)
	if err != nil {
		log.Error("获取登录失败次数失败", zap.Error(err), zap.String("username", username))
		// 降级策略：失败不影响登录流程
	}
	if failCount >= MaxLoginFailures {
		log.Warn("登录失败次数过多",
			zap.String("username", username),
			zap.Int64("fail_count", failCount))
		return nil, ErrLoginLimitExceeded
	}

	// 2. 查询预置账号
	user, ok := s.users[username]
	if !ok {
		log.Warn("用户不存在", zap.String("username", username))
		s.recordLoginFail(ctx, username)
		return nil, ErrInvalidCredentials
	}

	// 3. 验证密码
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Warn("密码错误",
			zap.String("username", username),
			zap.Error(err))
		s.recordLoginFail(ctx, username)
		return nil, ErrInvalidCredentials
	}

	// 4. 清空登录失败次数
	if err := s.loginLimiter.ResetLoginFail(ctx, username); err != nil {
		log.Error("重置登录失败次数失败", zap.Error(err))
		// 不影响主流程
	}

	// 5. 签发 Token
	token := uuid.New().String()
	log.Info("用户登录成功",
		zap.String("username", username),
		zap.String("role", user.Role))

	return &LoginResult{
		Token: token,
		Role:  user.Role,
	}, nil
}

// recordLoginFail 记录一次登录失败
func (s *authService) recordLoginFail(ctx context.Context, username string) {
	if _, err := s.loginLimiter.RecordLoginFail(ctx, username); err != nil {
		log.Error("记录登录失败次数失败", zap.Error(err))
	}
}
