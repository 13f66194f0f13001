package router

import (
	"yqhp/lms-tools/common/middleware"
	"yqhp/lms-tools/internal/handler"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Setup 设置路由
func Setup(app *fiber.App, appName string) {
	// 全局中间件
	app.Use(middleware.Recover())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger())
	app.Use(middleware.CORS())

	// 健康检查
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"app":    appName,
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api/lms")
	api.Get("/environments", handler.EnvironmentList)
	api.Post("/send", handler.Send)
	api.Post("/cache/clear", handler.ClearCache)

	flows := api.Group("/flows")
	flows.Get("/", handler.FlowKinds)
	flows.Get("/runs/:id", handler.FlowRunGet)
	flows.Post("/runs/:id/cancel", handler.FlowRunCancel)
	flows.Post("/:kind", handler.FlowStart)
}
