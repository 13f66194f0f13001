package lms

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// 基础参数键名
const (
	ParamDomain  = "dmn"
	ParamToken   = "_sand_token"
	ParamUserIID = "_sand_uiid"
	ParamUserID  = "_sand_uid"
)

// RootUser 使用 root 密码登录的用户名
const RootUser = "root"

// Environment 一个 LMS 部署的连接配置，构造后只读
type Environment struct {
	ID             string            `yaml:"id" json:"id"`
	Name           string            `yaml:"name" json:"name"`
	Domain         string            `yaml:"domain" json:"domain"`
	Host           string            `yaml:"host" json:"host"`
	Headers        map[string]string `yaml:"headers" json:"headers,omitempty"`
	BaseParams     map[string]any    `yaml:"base_params" json:"baseParams,omitempty"`
	UserCode       string            `yaml:"user_code" json:"userCode"`
	MasterPassword string            `yaml:"master_password" json:"-"`
	RootPassword   string            `yaml:"root_password" json:"-"`
}

// Validate 校验必填项
func (e *Environment) Validate() error {
	if e == nil {
		return errors.New("environment is nil")
	}
	if e.Host == "" {
		return fmt.Errorf("environment %q: host is required", e.ID)
	}
	u, err := url.Parse(e.Host)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("environment %q: invalid host %q", e.ID, e.Host)
	}
	if e.Domain == "" {
		return fmt.Errorf("environment %q: domain is required", e.ID)
	}
	return nil
}

// DefaultParams 环境静态基础参数的副本，dmn 非空时替换域名
func (e *Environment) DefaultParams(dmn string) map[string]any {
	params := make(map[string]any, len(e.BaseParams)+1)
	for k, v := range e.BaseParams {
		params[k] = v
	}
	if dmn == "" {
		dmn = e.Domain
	}
	params[ParamDomain] = dmn
	return params
}

// URL 拼接请求地址
func (e *Environment) URL(path string) string {
	host := strings.TrimRight(e.Host, "/")
	if path == "" {
		return host
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return host + path
}

// Masked 返回隐藏凭据后的副本，用于展示
func (e *Environment) Masked() Environment {
	out := *e
	out.MasterPassword = ""
	out.RootPassword = ""
	return out
}
