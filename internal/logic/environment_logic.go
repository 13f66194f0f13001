package logic

import (
	"context"

	"yqhp/lms-tools/internal/lms"
	"yqhp/lms-tools/internal/svc"
)

// EnvironmentLogic 环境逻辑
type EnvironmentLogic struct {
	ctx context.Context
}

// NewEnvironmentLogic 创建环境逻辑
func NewEnvironmentLogic(ctx context.Context) *EnvironmentLogic {
	return &EnvironmentLogic{ctx: ctx}
}

// List 环境列表，不含密码
func (l *EnvironmentLogic) List() ([]lms.Environment, error) {
	envs, err := svc.Ctx.Envs.List(l.ctx)
	if err != nil {
		return nil, err
	}
	masked := make([]lms.Environment, 0, len(envs))
	for i := range envs {
		masked = append(masked, envs[i].Masked())
	}
	return masked, nil
}

// Get 环境详情，包含凭据，仅供内部使用
func (l *EnvironmentLogic) Get(id string) (*lms.Environment, error) {
	return svc.Ctx.Envs.Get(l.ctx, id)
}
