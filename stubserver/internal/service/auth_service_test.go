package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"portal-shell/stubserver/config"
	"portal-shell/stubserver/pkg/logger"
)

// ============================================================================
// 测试初始化
// ============================================================================

// TestMain 在所有测试运行前初始化
func TestMain(m *testing.M) {
	// 初始化日志（测试环境使用 Fatal 级别，只显示严重错误）
	cfg := &logger.Config{
		Level:  "fatal", // 只显示 Fatal 级别日志，测试中的 Error 日志不会显示
		Output: "stdout",
	}
	if err := logger.Init(cfg); err != nil {
		panic("初始化日志失败: " + err.Error())
	}

	// 运行测试
	m.Run()
}

// ============================================================================
// Mock 定义
// ============================================================================

// MockLoginLimiter 模拟 LoginLimiter
type MockLoginLimiter struct {
	mock.Mock
}

func (m *MockLoginLimiter) RecordLoginFail(ctx context.Context, username string) (int64, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLoginLimiter) GetLoginFailCount(ctx context.Context, username string) (int64, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLoginLimiter) IsLoginAllowed(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockLoginLimiter) ResetLoginFail(ctx context.Context, username string) error {
	args := m.Called(ctx, username)
	return args.Error(0)
}

// ============================================================================
// 测试辅助函数
// ============================================================================

// hashPassword 生成密码哈希（测试辅助函数）
func hashPassword(password string) string {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return string(hash)
}

func setupTestService(users []config.UserConfig) (AuthService, *MockLoginLimiter) {
	mockLimiter := new(MockLoginLimiter)
	return NewAuthService(users, mockLimiter), mockLimiter
}

// ============================================================================
// Login 测试
// ============================================================================

func TestLogin_Success(t *testing.T) {
	ctx := context.Background()

	// 准备测试数据
	username := "demo"
	password := "Test@123"
	users := []config.UserConfig{
		{Username: username, PasswordHash: hashPassword(password), Role: "user"},
	}
	service, mockLimiter := setupTestService(users)

	// 设置 Mock 期望
	mockLimiter.On("GetLoginFailCount", ctx, username).Return(int64(0), nil)
	mockLimiter.On("ResetLoginFail", ctx, username).Return(nil)

	// 执行测试
	result, err := service.Login(ctx, username, password)

	// 断言
	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "user", result.Role)

	mockLimiter.AssertExpectations(t)
}

// TestLogin_TokenUniquePerLogin 测试每次登录签发不同Token
func TestLogin_TokenUniquePerLogin(t *testing.T) {
	ctx := context.Background()

	username := "demo"
	password := "Test@123"
	users := []config.UserConfig{
		{Username: username, PasswordHash: hashPassword(password), Role: "user"},
	}
	service, mockLimiter := setupTestService(users)

	mockLimiter.On("GetLoginFailCount", ctx, username).Return(int64(0), nil)
	mockLimiter.On("ResetLoginFail", ctx, username).Return(nil)

	// 执行两次登录
	first, err := service.Login(ctx, username, password)
	assert.NoError(t, err)
	second, err := service.Login(ctx, username, password)
	assert.NoError(t, err)

	// 断言
	assert.NotEqual(t, first.Token, second.Token)
}

func TestLogin_UserNotFound(t *testing.T) {
	ctx := context.Background()

	username := "nobody"
	service, mockLimiter := setupTestService([]config.UserConfig{
		{Username: "demo", PasswordHash: hashPassword("Test@123"), Role: "user"},
	})

	// 设置 Mock 期望 - 用户不存在时记录失败
	mockLimiter.On("GetLoginFailCount", ctx, username).Return(int64(0), nil)
	mockLimiter.On("RecordLoginFail", ctx, username).Return(int64(1), nil)

	// 执行测试
	result, err := service.Login(ctx, username, "Test@123")

	// 断言
	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, ErrInvalidCredentials, err)

	mockLimiter.AssertExpectations(t)
}

func TestLogin_WrongPassword(t *testing.T) {
	ctx := context.Background()

	username := "demo"
	service, mockLimiter := setupTestService([]config.UserConfig{
		{Username: username, PasswordHash: hashPassword("Test@123"), Role: "user"},
	})

	// 设置 Mock 期望
	mockLimiter.On("GetLoginFailCount", ctx, username).Return(int64(0), nil)
	mockLimiter.On("RecordLoginFail", ctx, username).Return(int64(1), nil)

	// 执行测试
	result, err := service.Login(ctx, username, "WrongPass")

	// 断言
	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, ErrInvalidCredentials, err)

	mockLimiter.AssertExpectations(t)
}

func TestLogin_ExceedMaxAttempts(t *testing.T) {
	ctx := context.Background()

	username := "demo"
	service, mockLimiter := setupTestService([]config.UserConfig{
		{Username: username, PasswordHash: hashPassword("Test@123"), Role: "user"},
	})

	// 设置 Mock 期望 - 登录失败次数已达上限
	mockLimiter.On("GetLoginFailCount", ctx, username).Return(int64(5), nil)

	// 执行测试
	result, err := service.Login(ctx, username, "Test@123")

	// 断言
	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, ErrLoginLimitExceeded, err)

	mockLimiter.AssertExpectations(t)
}

// TestLogin_LimiterDegraded 测试限制器故障时登录降级可用
func TestLogin_LimiterDegraded(t *testing.T) {
	ctx := context.Background()

	username := "demo"
	password := "Test@123"
	service, mockLimiter := setupTestService([]config.UserConfig{
		{Username: username, PasswordHash: hashPassword(password), Role: "user"},
	})

	// 设置 Mock 期望 - 限制器读取失败，重置也失败
	mockLimiter.On("GetLoginFailCount", ctx, username).Return(int64(0), errors.New("limiter error"))
	mockLimiter.On("ResetLoginFail", ctx, username).Return(errors.New("limiter error"))

	// 执行测试
	result, err := service.Login(ctx, username, password)

	// 断言 - 降级策略下登录仍然成功
	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.NotEmpty(t, result.Token)

	mockLimiter.AssertExpectations(t)
}

// TestLogin_ResetAfterSuccess 测试登录成功后重置失败计数
func TestLogin_ResetAfterSuccess(t *testing.T) {
	ctx := context.Background()

	username := "demo"
	password := "Test@123"
	service, mockLimiter := setupTestService([]config.UserConfig{
		{Username: username, PasswordHash: hashPassword(password), Role: "user"},
	})

	// 设置 Mock 期望 - 此前有失败记录但未达上限
	mockLimiter.On("GetLoginFailCount", ctx, username).Return(int64(3), nil)
	mockLimiter.On("ResetLoginFail", ctx, username).Return(nil)

	// 执行测试
	result, err := service.Login(ctx, username, password)

	// 断言
	assert.NoError(t, err)
	assert.NotNil(t, result)

	// 验证重置被调用
	mockLimiter.AssertCalled(t, "ResetLoginFail", ctx, username)
}
