package lms

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"yqhp/lms-tools/common/logger"
	"yqhp/lms-tools/common/utils"

	"go.uber.org/zap"
)

const (
	// DefaultTimeout 单次 HTTP 请求超时
	DefaultTimeout = 30 * time.Second

	formContentType = "application/x-www-form-urlencoded"
)

// Doer 发送 HTTP 请求，*http.Client 即满足
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Sender 领域操作依赖的最小接口，*Client 即满足
type Sender interface {
	Send(ctx context.Context, req Request) *SendResult
}

// Request 一次逻辑请求
type Request struct {
	Path    string         `json:"path"`
	Payload map[string]any `json:"payload,omitempty"`
	Method  string         `json:"method,omitempty"` // 默认 POST
	Dmn     string         `json:"dmn,omitempty"`    // 仅本次请求替换域名
	User    string         `json:"user,omitempty"`   // 自动登录使用的用户名
	Pass    string         `json:"pass,omitempty"`   // 自动登录使用的密码
}

// SendResult Send 的统一返回
type SendResult struct {
	Success        bool           `json:"success"`
	StatusCode     int            `json:"statusCode"`
	Data           *Envelope      `json:"-"`
	Body           []byte         `json:"-"`
	Error          string         `json:"error,omitempty"`
	RequestHistory []HistoryEntry `json:"requestHistory"`
}

// Option 客户端选项
type Option func(*Client)

// WithHTTPClient 替换底层 HTTP 客户端
func WithHTTPClient(d Doer) Option {
	return func(c *Client) {
		if d != nil {
			c.httpClient = d
		}
	}
}

// WithTimeout 设置默认 HTTP 客户端的超时
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// WithDomain 客户端会话使用的域名，替换环境默认域名
func WithDomain(dmn string) Option {
	return func(c *Client) {
		c.dmn = dmn
	}
}

// WithCredentials 自动登录的默认凭据
func WithCredentials(user, pass string) Option {
	return func(c *Client) {
		c.user = user
		c.pass = pass
	}
}

// WithClock 替换时钟
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// Client LMS 基础客户端：表单编码、自动登录、请求记录
type Client struct {
	env        *Environment
	dmn        string
	user       string
	pass       string
	httpClient Doer
	now        func() time.Time

	// loginMu 串行化登录与登出，并发的未登录 Send 只触发一次登录
	loginMu sync.Mutex

	mu      sync.RWMutex
	session session

	// history 最近一次 Send 的记录窗口
	history History
}

// NewClient 创建客户端
func NewClient(env *Environment, opts ...Option) (*Client, error) {
	if err := env.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		env:        env,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.dmn == "" {
		c.dmn = env.Domain
	}
	c.session.reset(env, c.dmn)
	return c, nil
}

// Environment 客户端所属环境
func (c *Client) Environment() *Environment {
	return c.env
}

// Domain 会话域名
func (c *Client) Domain() string {
	return c.dmn
}

// UserCode 自动登录的默认用户名
func (c *Client) UserCode() string {
	if c.user != "" {
		return c.user
	}
	return c.env.UserCode
}

// RequestHistory 最近一次 Send 的请求记录
func (c *Client) RequestHistory() []HistoryEntry {
	return c.history.Entries()
}

// Send 发送一次逻辑请求，未登录时先自动登录。
// 每次调用开始时清空请求记录，返回值只包含本次调用产生的记录；
// 需要跨多次调用累积记录的调用方应自行拼接 SendResult.RequestHistory。
func (c *Client) Send(ctx context.Context, req Request) *SendResult {
	c.history.Reset()
	rec := &History{}
	defer func() {
		c.history.replace(rec.Entries())
	}()

	if err := c.ensureLogin(ctx, rec, req.User, req.Pass); err != nil {
		return &SendResult{
			Success:        false,
			Error:          "Auto-login failed: " + err.Error(),
			RequestHistory: rec.Entries(),
		}
	}

	params := c.baseParams()
	for k, v := range req.Payload {
		params[k] = v
	}
	if req.Dmn != "" {
		params[ParamDomain] = req.Dmn
	}

	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodPost
	}

	result := c.do(ctx, rec, method, req.Path, params)
	result.RequestHistory = rec.Entries()
	return result
}

// do 发送 HTTP 请求并把结果记录到 rec
func (c *Client) do(ctx context.Context, rec *History, method, path string, params map[string]any) *SendResult {
	if ctx == nil {
		ctx = context.Background()
	}

	target := c.env.URL(path)
	body := Encode(params)

	var reader io.Reader
	if method == http.MethodGet {
		if body != "" {
			sep := "?"
			if strings.Contains(target, "?") {
				sep = "&"
			}
			target += sep + body
		}
	} else {
		reader = strings.NewReader(body)
	}

	entry := HistoryEntry{
		Method:    method,
		URL:       target,
		Payload:   maskPayload(params),
		Timestamp: c.now(),
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		entry.Error = err.Error()
		rec.Append(entry)
		return &SendResult{Success: false, Error: err.Error()}
	}
	for k, v := range c.env.Headers {
		httpReq.Header.Set(k, v)
	}
	httpReq.Header.Set("Content-Type", formContentType)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	elapsed := time.Since(start)
	entry.ResponseTime = elapsed.Milliseconds()

	if err != nil {
		entry.StatusCode = 0
		entry.Error = err.Error()
		rec.Append(entry)
		observeRequest(method, path, 0, elapsed.Seconds())
		logger.Warn("LMS 请求失败",
			zap.String("method", method),
			zap.String("url", target),
			zap.Error(err),
		)
		return &SendResult{Success: false, Error: err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	entry.StatusCode = resp.StatusCode
	observeRequest(method, path, resp.StatusCode, elapsed.Seconds())
	if err != nil {
		entry.Error = err.Error()
		rec.Append(entry)
		return &SendResult{Success: false, StatusCode: resp.StatusCode, Error: fmt.Sprintf("读取响应失败: %v", err)}
	}
	entry.Response = decodeResponse(data)

	logger.Debug("LMS 请求",
		zap.String("method", method),
		zap.String("url", target),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", elapsed),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := fmt.Sprintf("HTTP %d: %s", resp.StatusCode, statusText(resp))
		entry.Error = msg
		rec.Append(entry)
		return &SendResult{Success: false, StatusCode: resp.StatusCode, Body: data, Error: msg}
	}
	rec.Append(entry)

	// 非 JSON 响应体保留原文，由调用方决定如何处理
	envelope, _ := ParseEnvelope(data)
	return &SendResult{Success: true, StatusCode: resp.StatusCode, Data: envelope, Body: data}
}

func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

// decodeResponse 用于记录：能解析为 JSON 则记录结构，否则记录原文
func decodeResponse(data []byte) any {
	if len(data) == 0 {
		return nil
	}
	var v any
	if err := utils.UnmarshalNumber(data, &v); err == nil {
		return v
	}
	return string(data)
}
