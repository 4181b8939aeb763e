package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"portal-shell/termclient/internal/controller"
	"portal-shell/termclient/internal/session"
)

// dashboardModel 仪表盘页：展示登录身份与占位内容
type dashboardModel struct {
	ctrl *controller.ViewController
	sess *session.Store
}

func newDashboardModel(ctrl *controller.ViewController, sess *session.Store) dashboardModel {
	return dashboardModel{
		ctrl: ctrl,
		sess: sess,
	}
}

// Update 处理仪表盘消息
func (m dashboardModel) Update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "l":
			// 登出并回到登录页，失败由控制器记录日志
			_ = m.ctrl.Logout(context.Background())
			return m, nil
		case "q":
			return m, tea.Quit
		}
	}
	return m, nil
}

// View 渲染仪表盘
func (m dashboardModel) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("已登录（角色：%s）", m.sess.Role())))
	b.WriteString("\n\n")
	b.WriteString("欢迎使用门户，更多功能建设中。")
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("l 登出 · q 退出"))

	return b.String()
}
