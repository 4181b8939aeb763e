package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"portal-shell/termclient/internal/controller"
)

// loginFieldCount 登录表单的输入框数量
const loginFieldCount = 2

// loginModel 登录页：用户名/密码输入框与提交动画
type loginModel struct {
	ctrl       *controller.ViewController
	username   textinput.Model
	password   textinput.Model
	spin       spinner.Model
	focusIndex int
}

// newLoginModel 创建登录页模型，初始焦点在用户名输入框
func newLoginModel(ctrl *controller.ViewController) loginModel {
	username := textinput.New()
	username.Placeholder = "用户名"
	username.CharLimit = 50
	username.Width = 30
	username.PromptStyle = focusedStyle
	username.TextStyle = focusedStyle
	username.Focus()

	password := textinput.New()
	password.Placeholder = "密码"
	password.CharLimit = 100
	password.Width = 30
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = spinnerStyle

	return loginModel{
		ctrl:     ctrl,
		username: username,
		password: password,
		spin:     spin,
	}
}

// Update 处理登录页消息
func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// 提交在途期间忽略键盘输入
		if m.ctrl.IsSubmitting() {
			return m, nil
		}

		switch msg.String() {
		case "tab", "down":
			m.focusIndex = (m.focusIndex + 1) % loginFieldCount
			return m.applyFocus()
		case "shift+tab", "up":
			m.focusIndex = (m.focusIndex - 1 + loginFieldCount) % loginFieldCount
			return m.applyFocus()
		case "enter":
			// 用户名上回车移动焦点，密码上回车提交
			if m.focusIndex == 0 {
				m.focusIndex = 1
				return m.applyFocus()
			}
			return m, tea.Batch(
				submitLoginCmd(m.ctrl, m.username.Value(), m.password.Value()),
				m.spin.Tick,
			)
		}
	case spinner.TickMsg:
		// 仅在提交在途时维持转圈动画
		if !m.ctrl.IsSubmitting() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	// 其余消息交给输入框，未聚焦的输入框会忽略按键
	var usernameCmd, passwordCmd tea.Cmd
	m.username, usernameCmd = m.username.Update(msg)
	m.password, passwordCmd = m.password.Update(msg)
	return m, tea.Batch(usernameCmd, passwordCmd)
}

// View 渲染登录页
func (m loginModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("门户登录"))
	b.WriteString("\n\n")
	b.WriteString(m.username.View())
	b.WriteString("\n")
	b.WriteString(m.password.View())
	b.WriteString("\n\n")

	if m.ctrl.IsSubmitting() {
		b.WriteString(fmt.Sprintf("%s 登录中...", m.spin.View()))
		b.WriteString("\n")
	} else if errMsg := m.ctrl.ErrorMessage(); errMsg != "" {
		b.WriteString(errorStyle.Render(errMsg))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab 切换焦点 · enter 提交 · ctrl+c 退出"))

	return b.String()
}

// applyFocus 按焦点序号更新两个输入框的聚焦状态与样式
func (m loginModel) applyFocus() (loginModel, tea.Cmd) {
	var cmd tea.Cmd
	if m.focusIndex == 0 {
		cmd = m.username.Focus()
		m.username.PromptStyle = focusedStyle
		m.username.TextStyle = focusedStyle
		m.password.Blur()
		m.password.PromptStyle = blurredStyle
		m.password.TextStyle = blurredStyle
	} else {
		cmd = m.password.Focus()
		m.password.PromptStyle = focusedStyle
		m.password.TextStyle = focusedStyle
		m.username.Blur()
		m.username.PromptStyle = blurredStyle
		m.username.TextStyle = blurredStyle
	}
	return m, cmd
}

// reset 清空表单并把焦点移回用户名（登录成功后调用）
func (m loginModel) reset() loginModel {
	m.username.SetValue("")
	m.password.SetValue("")
	m.focusIndex = 0
	m, _ = m.applyFocus()
	return m
}

// clearPassword 仅清空密码输入（登录失败后调用）
func (m loginModel) clearPassword() loginModel {
	m.password.SetValue("")
	return m
}
