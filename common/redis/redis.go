package redis

import (
	"context"
	"fmt"
	"time"

	"yqhp/lms-tools/common/config"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 3 * time.Second

// Options 配置转换为客户端选项
func Options(cfg *config.RedisConfig) *redis.Options {
	return &redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// NewClient 创建客户端并检测连通性，失败时关闭客户端
func NewClient(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	c := redis.NewClient(Options(cfg))

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("连接Redis失败: %w", err)
	}
	return c, nil
}
