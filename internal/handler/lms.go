package handler

import (
	"errors"
	"fmt"

	"yqhp/lms-tools/common/response"
	"yqhp/lms-tools/internal/logic"
	"yqhp/lms-tools/internal/svc"

	"github.com/gofiber/fiber/v2"
)

// EnvironmentList 环境列表
// GET /api/lms/environments
func EnvironmentList(c *fiber.Ctx) error {
	envs, err := logic.NewEnvironmentLogic(c.UserContext()).List()
	if err != nil {
		return response.Error(c, err.Error())
	}
	return response.Success(c, envs)
}

// Send 发送单个请求
// POST /api/lms/send
func Send(c *fiber.Ctx) error {
	var req logic.SendReq
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "参数解析失败")
	}

	resp, err := logic.NewApiRunnerLogic(c.UserContext()).Send(&req)
	if err != nil {
		if errors.Is(err, svc.ErrEnvironmentNotFound) {
			return response.NotFound(c, err.Error())
		}
		return response.Error(c, err.Error())
	}
	return response.Success(c, resp)
}

// ClearCache 清除客户端缓存
// POST /api/lms/cache/clear
func ClearCache(c *fiber.Ctx) error {
	var req logic.ClearCacheReq
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return response.Error(c, "参数解析失败")
		}
	}

	n := logic.NewApiRunnerLogic(c.UserContext()).ClearCache(&req)
	return response.SuccessWithMessage(c, fmt.Sprintf("cleared %d client(s)", n), fiber.Map{"cleared": n})
}
