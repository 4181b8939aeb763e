package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"portal-shell/termclient/internal/controller"
	"portal-shell/termclient/internal/session"
)

// Model 顶层模型：按控制器的当前页面分发消息与渲染
type Model struct {
	ctrl      *controller.ViewController
	sess      *session.Store
	login     loginModel
	dashboard dashboardModel
	width     int
	height    int
}

// NewModel 创建顶层模型
func NewModel(ctrl *controller.ViewController, sess *session.Store) Model {
	return Model{
		ctrl:      ctrl,
		sess:      sess,
		login:     newLoginModel(ctrl),
		dashboard: newDashboardModel(ctrl, sess),
	}
}

// Init 启动时的首个命令
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update 处理消息
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case loginSuccessMsg:
		// 页面切换由控制器完成，这里只需清空表单
		m.login = m.login.reset()
		return m, nil
	case loginFailedMsg:
		// 错误提示由控制器维护，这里只清空密码
		m.login = m.login.clearPassword()
		return m, nil
	}

	// 按当前页面分发
	var cmd tea.Cmd
	switch m.ctrl.Page() {
	case controller.PageDashboard:
		m.dashboard, cmd = m.dashboard.Update(msg)
	default:
		m.login, cmd = m.login.Update(msg)
	}
	return m, cmd
}

// View 渲染当前页面
func (m Model) View() string {
	var view string
	switch m.ctrl.Page() {
	case controller.PageDashboard:
		view = m.dashboard.View()
	default:
		view = m.login.View()
	}
	return appStyle.Render(view)
}
