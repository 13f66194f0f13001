package logic

import (
	"context"
	"errors"
	"fmt"

	"yqhp/lms-tools/common/utils"
	"yqhp/lms-tools/internal/lms"
	"yqhp/lms-tools/internal/svc"

	"github.com/ohler55/ojg/jp"
)

// ApiRunnerLogic 发送单个原始请求
type ApiRunnerLogic struct {
	ctx context.Context
}

// NewApiRunnerLogic 创建请求逻辑
func NewApiRunnerLogic(ctx context.Context) *ApiRunnerLogic {
	return &ApiRunnerLogic{ctx: ctx}
}

// SendReq 发送请求
type SendReq struct {
	EnvironmentID string         `json:"environmentId"`
	Dmn           string         `json:"dmn"`
	UserCode      string         `json:"userCode"`
	Pass          string         `json:"pass"`
	Path          string         `json:"path"`
	Method        string         `json:"method"`
	Payload       map[string]any `json:"payload"`
	Select        string         `json:"select"` // JSONPath，只返回匹配部分
}

// SendResp 发送结果
type SendResp struct {
	Success        bool               `json:"success"`
	StatusCode     int                `json:"statusCode"`
	Data           any                `json:"data,omitempty"`
	Error          string             `json:"error,omitempty"`
	RequestHistory []lms.HistoryEntry `json:"requestHistory"`
}

// ClearCacheReq 清除客户端缓存，EnvironmentID 为空时清除全部
type ClearCacheReq struct {
	EnvironmentID string `json:"environmentId"`
	Dmn           string `json:"dmn"`
	UserCode      string `json:"userCode"`
}

// Send 复用缓存的客户端发送请求，新建的客户端登录成功后写入缓存
func (l *ApiRunnerLogic) Send(req *SendReq) (*SendResp, error) {
	if req.EnvironmentID == "" {
		return nil, errors.New("environmentId is required")
	}
	if req.Path == "" {
		return nil, errors.New("path is required")
	}
	var selector jp.Expr
	if req.Select != "" {
		expr, err := jp.ParseString(req.Select)
		if err != nil {
			return nil, fmt.Errorf("invalid select expression %q: %w", req.Select, err)
		}
		selector = expr
	}

	env, err := svc.Ctx.Envs.Get(l.ctx, req.EnvironmentID)
	if err != nil {
		return nil, err
	}
	dmn, user := req.Dmn, req.UserCode
	if dmn == "" {
		dmn = env.Domain
	}
	if user == "" {
		user = env.UserCode
	}

	cache := svc.Ctx.Cache
	client := cache.Get(env.ID, dmn, user)
	cached := client != nil
	if !cached {
		client, err = cache.NewClient(env, dmn, user, req.Pass)
		if err != nil {
			return nil, err
		}
	}

	result := client.Send(l.ctx, lms.Request{
		Path:    req.Path,
		Payload: req.Payload,
		Method:  req.Method,
	})
	if !cached && client.IsLoggedIn() {
		cache.Set(env.ID, dmn, user, client)
	}

	data := responseData(result.Body)
	if selector != nil {
		data = selectData(selector, data)
	}
	return &SendResp{
		Success:        result.Success,
		StatusCode:     result.StatusCode,
		Data:           data,
		Error:          result.Error,
		RequestHistory: result.RequestHistory,
	}, nil
}

// ClearCache 清除客户端缓存
func (l *ApiRunnerLogic) ClearCache(req *ClearCacheReq) int {
	cache := svc.Ctx.Cache
	if req.EnvironmentID == "" {
		n := cache.Len()
		cache.ClearAll()
		return n
	}

	dmn, user := req.Dmn, req.UserCode
	if env, err := svc.Ctx.Envs.Get(l.ctx, req.EnvironmentID); err == nil {
		if dmn == "" {
			dmn = env.Domain
		}
		if user == "" {
			user = env.UserCode
		}
	}
	before := cache.Len()
	cache.Clear(req.EnvironmentID, dmn, user)
	return before - cache.Len()
}

func responseData(body []byte) any {
	if len(body) == 0 {
		return nil
	}
	var v any
	if err := utils.UnmarshalNumber(body, &v); err == nil {
		return v
	}
	return string(body)
}

// selectData 单个匹配直接返回，多个返回列表
func selectData(expr jp.Expr, data any) any {
	results := expr.Get(data)
	switch len(results) {
	case 0:
		return nil
	case 1:
		return results[0]
	}
	return results
}
