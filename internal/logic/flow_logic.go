package logic

import (
	"context"
	"encoding/json"

	"yqhp/lms-tools/internal/flow"
	"yqhp/lms-tools/internal/svc"
)

// FlowLogic 批量流程逻辑
type FlowLogic struct {
	ctx context.Context
}

// NewFlowLogic 创建流程逻辑
func NewFlowLogic(ctx context.Context) *FlowLogic {
	return &FlowLogic{ctx: ctx}
}

// StartFlowReq 启动流程
type StartFlowReq struct {
	flow.Props
	Params json.RawMessage `json:"params"`
}

// Start 异步启动
func (l *FlowLogic) Start(kind string, req *StartFlowReq) (*flow.Run, error) {
	return svc.Ctx.Flows.Start(l.ctx, kind, req.Props, req.Params)
}

// Get 查询运行记录
func (l *FlowLogic) Get(id string) (*flow.Run, error) {
	return svc.Ctx.Flows.Get(l.ctx, id)
}

// Cancel 取消运行
func (l *FlowLogic) Cancel(id string) error {
	return svc.Ctx.Flows.Cancel(id)
}

// Kinds 支持的流程类型
func (l *FlowLogic) Kinds() []string {
	return flow.Kinds()
}
