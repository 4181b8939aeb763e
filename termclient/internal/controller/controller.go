package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"portal-shell/termclient/internal/authapi"
	"portal-shell/termclient/internal/session"
	log "portal-shell/termclient/pkg/logger"
)

// ============================================================================
// 常量与错误定义
// ============================================================================

// Page 页面标识
type Page string

const (
	PageLogin     Page = "login"
	PageDashboard Page = "dashboard"
)

// LoginFailedMessage 登录失败时展示给用户的统一提示（不区分失败原因）
const LoginFailedMessage = "用户名或密码错误"

var (
	ErrLoginRequired  = errors.New("请先登录")
	ErrSubmitInFlight = errors.New("登录请求处理中，请勿重复提交")
	ErrUnknownPage    = errors.New("未知页面")
)

// ============================================================================
// 视图控制器
// ============================================================================

// ViewController 页面状态机：维护当前页面、登录错误提示与提交在途标记
type ViewController struct {
	session *session.Store
	client  authapi.Client

	mu         sync.Mutex
	page       Page
	errMessage string
	submitting bool
}

// NewViewController 创建视图控制器，初始页面由当前登录态决定
func NewViewController(sess *session.Store, client authapi.Client) *ViewController {
	page := PageLogin
	if sess.IsAuthenticated() {
		page = PageDashboard
	}

	log.Info("视图控制器已创建", zap.String("page", string(page)))

	return &ViewController{
		session: sess,
		client:  client,
		page:    page,
	}
}

// Page 返回当前页面
func (vc *ViewController) Page() Page {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	return vc.page
}

// ErrorMessage 返回当前登录错误提示，无错误时为空串
func (vc *ViewController) ErrorMessage() string {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	return vc.errMessage
}

// IsSubmitting 是否有登录请求在途
func (vc *ViewController) IsSubmitting() bool {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	return vc.submitting
}

// Navigate 切换页面。未登录访问仪表盘会被拦截：停在登录页并返回 ErrLoginRequired
func (vc *ViewController) Navigate(page Page) error {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	return vc.navigateLocked(page)
}

// navigateLocked 执行页面切换，调用方必须持有 vc.mu
func (vc *ViewController) navigateLocked(page Page) error {
	// 任何导航都先清空上一次的错误提示
	vc.errMessage = ""

	switch page {
	case PageLogin:
		vc.page = PageLogin
		return nil
	case PageDashboard:
		// 登录态守卫只在导航时检查一次
		if !vc.session.IsAuthenticated() {
			vc.page = PageLogin
			log.Warn("未登录访问仪表盘，已拦截")
			return ErrLoginRequired
		}
		vc.page = PageDashboard
		return nil
	default:
		return ErrUnknownPage
	}
}

// Submit 提交登录。同一时刻只允许一个提交在途，在途期间的调用立即返回 ErrSubmitInFlight
func (vc *ViewController) Submit(ctx context.Context, username, password string) error {
	// 1. 抢占在途标记
	vc.mu.Lock()
	if vc.submitting {
		vc.mu.Unlock()
		return ErrSubmitInFlight
	}
	vc.submitting = true
	vc.errMessage = ""
	vc.mu.Unlock()

	// 2. 锁外调用远程登录，网络等待期间不阻塞页面读取
	result, err := vc.client.Login(ctx, username, password)

	vc.mu.Lock()
	defer vc.mu.Unlock()
	vc.submitting = false

	// 3. 登录失败：统一提示口径，并确保本地会话已清除
	if err != nil {
		return vc.failLoginLocked(ctx, fmt.Errorf("登录失败: %w", err))
	}

	// 4. 建立会话
	if err := vc.session.SetSession(ctx, result.Token, result.Role); err != nil {
		return vc.failLoginLocked(ctx, fmt.Errorf("登录失败: %w", err))
	}

	log.Info("登录成功",
		zap.String("username", username),
		zap.String("role", result.Role),
	)

	// 5. 进入仪表盘
	return vc.navigateLocked(PageDashboard)
}

// failLoginLocked 登录失败的统一处理，调用方必须持有 vc.mu
func (vc *ViewController) failLoginLocked(ctx context.Context, cause error) error {
	vc.errMessage = LoginFailedMessage

	// 失败后本地不保留任何会话
	if err := vc.session.Logout(ctx); err != nil {
		log.Error("登录失败后清除会话失败", zap.Error(err))
	}

	log.Warn("登录失败", zap.Error(cause))
	return cause
}

// Logout 登出并回到登录页
func (vc *ViewController) Logout(ctx context.Context) error {
	vc.mu.Lock()
	defer vc.mu.Unlock()

	delErr := vc.session.Logout(ctx)

	// 无论持久化清除是否成功，页面都回到登录页
	_ = vc.navigateLocked(PageLogin)

	if delErr != nil {
		return fmt.Errorf("登出失败: %w", delErr)
	}

	log.Info("已登出")
	return nil
}
