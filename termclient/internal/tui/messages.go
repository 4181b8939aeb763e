package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"portal-shell/termclient/internal/controller"
)

// loginSuccessMsg 登录提交成功
type loginSuccessMsg struct{}

// loginFailedMsg 登录提交失败
type loginFailedMsg struct {
	err error
}

// submitLoginCmd 返回执行登录提交的命令，提交结果以消息形式回传
func submitLoginCmd(ctrl *controller.ViewController, username, password string) tea.Cmd {
	return func() tea.Msg {
		if err := ctrl.Submit(context.Background(), username, password); err != nil {
			return loginFailedMsg{err: err}
		}
		return loginSuccessMsg{}
	}
}
