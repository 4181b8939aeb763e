package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"portal-shell/stubserver/config"
	"portal-shell/stubserver/internal/handler"
	"portal-shell/stubserver/internal/limiter"
	"portal-shell/stubserver/internal/service"
	"portal-shell/stubserver/pkg/logger"
	"portal-shell/stubserver/pkg/response"
)

// ============================================================================
// 测试初始化
// ============================================================================

// TestMain 在所有测试运行前初始化
func TestMain(m *testing.M) {
	// 初始化日志（测试环境使用 Fatal 级别，只显示严重错误）
	cfg := &logger.Config{
		Level:  "fatal",
		Output: "stdout",
	}
	if err := logger.Init(cfg); err != nil {
		panic("初始化日志失败: " + err.Error())
	}

	gin.SetMode(gin.TestMode)
	m.Run()
}

// ============================================================================
// 测试辅助函数
// ============================================================================

// setupTestRouter 构造带预置账号的完整路由
func setupTestRouter() *gin.Engine {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	users := []config.UserConfig{
		{Username: "demo", PasswordHash: string(hash), Role: "user"},
		{Username: "admin", PasswordHash: string(hash), Role: "admin"},
	}

	authService := service.NewAuthService(users, limiter.NewMemoryLimiter())
	return SetupRouter(handler.NewAuthHandler(authService))
}

// postLogin 向路由发送登录请求
func postLogin(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ============================================================================
// 登录接口测试
// ============================================================================

// TestLogin_SuccessShape 测试登录成功返回扁平的 token/role 结构
func TestLogin_SuccessShape(t *testing.T) {
	r := setupTestRouter()

	w := postLogin(r, `{"username":"admin","password":"password"}`)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body["token"])
	assert.Equal(t, "admin", body["role"])

	// 成功响应不带错误码包装
	assert.NotContains(t, body, "code")
	assert.NotContains(t, body, "message")
}

func TestLogin_RolePerUser(t *testing.T) {
	r := setupTestRouter()

	w := postLogin(r, `{"username":"demo","password":"password"}`)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "user", body["role"])
}

// TestLogin_InvalidCredentials 测试密码错误返回401错误结构
func TestLogin_InvalidCredentials(t *testing.T) {
	r := setupTestRouter()

	w := postLogin(r, `{"username":"admin","password":"wrong"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var body response.Response
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, response.CodeInvalidCredentials, body.Code)
	assert.Equal(t, "用户名或密码错误", body.Message)
}

// TestLogin_UnknownUser 测试用户不存在与密码错误响应一致
func TestLogin_UnknownUser(t *testing.T) {
	r := setupTestRouter()

	w := postLogin(r, `{"username":"nobody","password":"password"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var body response.Response
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, response.CodeInvalidCredentials, body.Code)
	assert.Equal(t, "用户名或密码错误", body.Message)
}

func TestLogin_MalformedJSON(t *testing.T) {
	r := setupTestRouter()

	w := postLogin(r, `{not json`)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body response.Response
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, response.CodeBadRequest, body.Code)
}

func TestLogin_MissingFields(t *testing.T) {
	r := setupTestRouter()

	w := postLogin(r, `{"username":"demo"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// TestLogin_RateLimited 测试连续失败后触发限流
func TestLogin_RateLimited(t *testing.T) {
	r := setupTestRouter()

	// 连续失败直到上限，每次都是401
	for i := 0; i < limiter.MaxLoginAttempts; i++ {
		w := postLogin(r, `{"username":"demo","password":"wrong"}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}

	// 上限之后即使密码正确也被限流
	w := postLogin(r, `{"username":"demo","password":"password"}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	var body response.Response
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, response.CodeTooManyRequests, body.Code)
}

// TestLogin_RateLimitPerUser 测试限流按账号隔离
func TestLogin_RateLimitPerUser(t *testing.T) {
	r := setupTestRouter()

	for i := 0; i < limiter.MaxLoginAttempts; i++ {
		_ = postLogin(r, `{"username":"demo","password":"wrong"}`)
	}

	// 其他账号不受影响
	w := postLogin(r, `{"username":"admin","password":"password"}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

// ============================================================================
// 健康检查测试
// ============================================================================

func TestHealthz(t *testing.T) {
	r := setupTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body response.Response
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, response.CodeSuccess, body.Code)
}
