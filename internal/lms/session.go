package lms

import (
	"context"
	"errors"
	"net/http"
	"time"

	"yqhp/lms-tools/common/logger"

	"go.uber.org/zap"
)

// LoginPath 登录接口
const LoginPath = "/user/login"

// session 客户端独占的会话状态
type session struct {
	token             string
	baseParams        map[string]any
	userIID           any
	userID            any
	userOrganizations []any
	loggedInAt        time.Time
}

func (s *session) reset(env *Environment, dmn string) {
	*s = session{baseParams: env.DefaultParams(dmn)}
}

// Session 会话快照
type Session struct {
	Token             string    `json:"token,omitempty"`
	UserIID           any       `json:"userIid,omitempty"`
	UserID            any       `json:"userId,omitempty"`
	UserOrganizations []any     `json:"userOrganizations,omitempty"`
	LoggedInAt        time.Time `json:"loggedInAt,omitempty"`
}

type loginResult struct {
	Token             string `json:"token"`
	IID               any    `json:"iid"`
	ID                any    `json:"id"`
	UserOrganizations []any  `json:"user_organizations"`
}

// IsLoggedIn 是否持有 token
func (c *Client) IsLoggedIn() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session.token != ""
}

// Session 返回当前会话快照
func (c *Client) Session() Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Session{
		Token:             c.session.token,
		UserIID:           c.session.userIID,
		UserID:            c.session.userID,
		UserOrganizations: c.session.userOrganizations,
		LoggedInAt:        c.session.loggedInAt,
	}
}

// Login 登录，user/pass 为空时使用默认凭据。登录请求追加到请求记录。
func (c *Client) Login(ctx context.Context, user, pass string) error {
	c.loginMu.Lock()
	defer c.loginMu.Unlock()

	rec := &History{}
	err := c.login(ctx, rec, user, pass)
	for _, entry := range rec.Entries() {
		c.history.Append(entry)
	}
	return err
}

// ensureLogin 未登录时登录一次，已登录直接返回
func (c *Client) ensureLogin(ctx context.Context, rec *History, user, pass string) error {
	if c.IsLoggedIn() {
		return nil
	}

	c.loginMu.Lock()
	defer c.loginMu.Unlock()
	if c.IsLoggedIn() {
		return nil
	}
	return c.login(ctx, rec, user, pass)
}

// Logout 清除 token，基础参数恢复为环境默认值
func (c *Client) Logout() {
	c.loginMu.Lock()
	defer c.loginMu.Unlock()

	c.mu.Lock()
	c.session.reset(c.env, c.dmn)
	c.mu.Unlock()
}

// ResolveCredentials 计算实际使用的用户名和密码。
// 密码优先级：显式参数 > 客户端默认凭据 > root 用户使用 root 密码 > 主密码
func (c *Client) ResolveCredentials(user, pass string) (string, string) {
	if user == "" {
		user = c.UserCode()
	}
	if pass != "" {
		return user, pass
	}
	if c.pass != "" && user == c.UserCode() {
		return user, c.pass
	}
	if user == RootUser {
		return user, c.env.RootPassword
	}
	return user, c.env.MasterPassword
}

func (c *Client) login(ctx context.Context, rec *History, user, pass string) error {
	user, pass = c.ResolveCredentials(user, pass)

	c.mu.Lock()
	c.session.reset(c.env, c.dmn)
	params := make(map[string]any, len(c.session.baseParams)+2)
	for k, v := range c.session.baseParams {
		params[k] = v
	}
	c.mu.Unlock()
	params["lname"] = user
	params["pass"] = pass

	err := c.doLogin(ctx, rec, params)
	observeLogin(err == nil)
	if err != nil {
		logger.Warn("LMS 登录失败",
			zap.String("env", c.env.ID),
			zap.String("dmn", c.dmn),
			zap.String("user", user),
			zap.Error(err),
		)
	}
	return err
}

func (c *Client) doLogin(ctx context.Context, rec *History, params map[string]any) error {
	res := c.do(ctx, rec, http.MethodPost, LoginPath, params)
	if !res.Success {
		return &AuthenticationError{Message: res.Error, StatusCode: res.StatusCode}
	}
	if res.Data == nil {
		return &AuthenticationError{Message: "invalid login response", StatusCode: res.StatusCode}
	}
	if res.Data.Failed() {
		return &AuthenticationError{Message: res.Data.ErrorMessage("login rejected"), StatusCode: res.StatusCode}
	}

	lr, err := DecodeResult[loginResult](res.Data)
	if err != nil {
		return &AuthenticationError{Message: "invalid login response", StatusCode: res.StatusCode, Err: err}
	}
	if lr.Token == "" {
		return &AuthenticationError{
			Message:    "login response missing token",
			StatusCode: res.StatusCode,
			Err:        errors.New("result.token is empty"),
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.session.token = lr.Token
	c.session.userIID = lr.IID
	c.session.userID = lr.ID
	c.session.userOrganizations = lr.UserOrganizations
	c.session.loggedInAt = c.now()
	c.session.baseParams[ParamToken] = lr.Token
	if lr.IID != nil {
		c.session.baseParams[ParamUserIID] = lr.IID
	}
	if lr.ID != nil {
		c.session.baseParams[ParamUserID] = lr.ID
	}
	return nil
}

// baseParams 当前会话基础参数的副本
func (c *Client) baseParams() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	params := make(map[string]any, len(c.session.baseParams)+8)
	for k, v := range c.session.baseParams {
		params[k] = v
	}
	return params
}
