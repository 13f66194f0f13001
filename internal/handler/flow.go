package handler

import (
	"errors"

	"yqhp/lms-tools/common/response"
	"yqhp/lms-tools/internal/flow"
	"yqhp/lms-tools/internal/logic"
	"yqhp/lms-tools/internal/svc"

	"github.com/gofiber/fiber/v2"
)

// FlowKinds 支持的流程类型
// GET /api/lms/flows
func FlowKinds(c *fiber.Ctx) error {
	return response.Success(c, logic.NewFlowLogic(c.UserContext()).Kinds())
}

// FlowStart 启动流程
// POST /api/lms/flows/:kind
func FlowStart(c *fiber.Ctx) error {
	var req logic.StartFlowReq
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "参数解析失败")
	}

	run, err := logic.NewFlowLogic(c.UserContext()).Start(c.Params("kind"), &req)
	if err != nil {
		if errors.Is(err, svc.ErrEnvironmentNotFound) {
			return response.NotFound(c, err.Error())
		}
		return response.Error(c, err.Error())
	}
	return response.Success(c, run)
}

// FlowRunGet 查询运行进度
// GET /api/lms/flows/runs/:id
func FlowRunGet(c *fiber.Ctx) error {
	run, err := logic.NewFlowLogic(c.UserContext()).Get(c.Params("id"))
	if err != nil {
		if errors.Is(err, flow.ErrRunNotFound) {
			return response.NotFound(c, "运行记录不存在")
		}
		return response.ServerError(c, err.Error())
	}
	return response.Success(c, run)
}

// FlowRunCancel 取消运行，当前项完成后停止
// POST /api/lms/flows/runs/:id/cancel
func FlowRunCancel(c *fiber.Ctx) error {
	if err := logic.NewFlowLogic(c.UserContext()).Cancel(c.Params("id")); err != nil {
		if errors.Is(err, flow.ErrRunNotActive) {
			return response.NotFound(c, err.Error())
		}
		return response.Error(c, err.Error())
	}
	return response.Success(c, nil)
}
