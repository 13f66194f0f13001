// Package middleware HTTP 服务的公共中间件
package middleware

import (
	"yqhp/lms-tools/common/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// CORS 跨域，内部工具不需要携带凭据
func CORS() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowMethods:  "GET,POST,OPTIONS",
		AllowHeaders:  "Origin,Content-Type,Accept,X-Request-ID",
		ExposeHeaders: "Content-Length,Content-Type,X-Request-ID",
		MaxAge:        86400,
	})
}

// Recover 捕获 handler 中的 panic
func Recover() fiber.Handler {
	return recover.New(recover.Config{
		EnableStackTrace: true,
	})
}

// RequestID 生成请求 ID，写入响应头 X-Request-ID
func RequestID() fiber.Handler {
	return requestid.New()
}

// Logger 访问日志
func Logger() fiber.Handler {
	return logger.Middleware()
}
