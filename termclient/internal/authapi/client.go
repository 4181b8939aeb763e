package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"portal-shell/termclient/config"
)

// LoginPath 远程登录接口路径
const LoginPath = "/api/v1/auth/login"

var (
	ErrUnauthorized    = errors.New("用户名或密码错误")
	ErrInvalidResponse = errors.New("认证服务响应格式不正确")
)

// LoginResult 登录成功后认证服务返回的会话信息
type LoginResult struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

// loginRequest 登录请求体
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Client 认证服务客户端
type Client interface {
	// Login 提交用户名密码，成功返回 Token 与角色
	Login(ctx context.Context, username, password string) (*LoginResult, error)
}

// httpClient 基于 HTTP 的认证服务客户端
type httpClient struct {
	baseURL string
	client  *http.Client
}

// NewClient 创建认证服务客户端
func NewClient(cfg *config.APIConfig) Client {
	return &httpClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client: &http.Client{
			Timeout: cfg.GetTimeout(),
		},
	}
}

// Login 调用远程登录接口
func (c *httpClient) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	// 1. 构造请求
	body, err := json.Marshal(loginRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		return nil, fmt.Errorf("构造登录请求失败: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+LoginPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("构造登录请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	// 2. 发送请求
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("请求认证服务失败: %w", err)
	}
	defer resp.Body.Close()

	// 3. 按状态码处理响应（失败响应的 body 不参与判定）
	switch resp.StatusCode {
	case http.StatusOK:
		var result LoginResult
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return nil, fmt.Errorf("解析登录响应失败: %w", err)
		}
		if result.Token == "" || result.Role == "" {
			return nil, ErrInvalidResponse
		}
		return &result, nil
	case http.StatusUnauthorized:
		return nil, ErrUnauthorized
	default:
		return nil, fmt.Errorf("认证服务返回异常状态码: %d", resp.StatusCode)
	}
}
