package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"yqhp/lms-tools/common/logger"
	"yqhp/lms-tools/internal/config"
	"yqhp/lms-tools/internal/server"
)

func main() {
	// 加载配置
	cfg, err := config.LoadConfig("config/config.yml")
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 初始化日志
	server.InitLogger(cfg, false)
	defer logger.Sync()
	logger.Info("日志初始化完成")

	// 优雅关闭
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cleanup, err := server.Bootstrap(ctx, cfg)
	defer cleanup()
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := server.Run(ctx, cfg); err != nil {
		log.Fatalf("服务器运行失败: %v", err)
	}
}
