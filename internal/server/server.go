// Package server 组装服务依赖并启动 HTTP 服务
package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"yqhp/lms-tools/common/database"
	"yqhp/lms-tools/common/logger"
	commonRedis "yqhp/lms-tools/common/redis"
	"yqhp/lms-tools/internal/config"
	"yqhp/lms-tools/internal/router"
	"yqhp/lms-tools/internal/svc"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// InitLogger 按配置初始化日志，debug 为 true 时强制调试级别
func InitLogger(cfg *config.Config, debug bool) {
	if debug {
		cfg.Log.Level = "debug"
	}
	logger.Init(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		FilePath:   cfg.Log.FilePath,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
	})
}

// Bootstrap 按需连接数据库与 Redis 并初始化服务上下文，返回的函数释放连接
func Bootstrap(ctx context.Context, cfg *config.Config) (func(), error) {
	var (
		db      *gorm.DB
		rdb     *redis.Client
		closers []func()
		err     error
	)
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if cfg.LMS.EnvSource == config.EnvSourceDatabase {
		db, err = database.Open(&cfg.Database, cfg.Log.Level == "debug")
		if err != nil {
			return cleanup, fmt.Errorf("初始化数据库失败: %w", err)
		}
		closers = append(closers, func() { _ = database.Close(db) })
	}

	if cfg.Flow.Store == config.StoreRedis {
		rdb, err = commonRedis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			return cleanup, fmt.Errorf("初始化Redis失败: %w", err)
		}
		closers = append(closers, func() { _ = rdb.Close() })
	}

	if err := svc.Init(cfg, db, rdb); err != nil {
		return cleanup, fmt.Errorf("初始化服务失败: %w", err)
	}
	return cleanup, nil
}

// NewApp 创建 Fiber 应用并注册路由
func NewApp(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		JSONEncoder:  sonic.Marshal,
		JSONDecoder:  sonic.Unmarshal,
	})
	router.Setup(app, cfg.App.Name)
	return app
}

// Run 启动 HTTP 服务，ctx 取消后优雅关闭
func Run(ctx context.Context, cfg *config.Config) error {
	app := NewApp(cfg)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("服务器启动", zap.String("addr", addr))
		return app.Listen(addr)
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("正在关闭服务器...")
		return app.ShutdownWithTimeout(shutdownTimeout)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("服务器已关闭")
	return nil
}
