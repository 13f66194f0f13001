package svc

import (
	"errors"
	"fmt"

	"yqhp/lms-tools/internal/config"
	"yqhp/lms-tools/internal/flow"
	"yqhp/lms-tools/internal/lms"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// ServiceContext 全局服务上下文
type ServiceContext struct {
	Config *config.Config
	DB     *gorm.DB
	Redis  *redis.Client
	Envs   EnvSource
	Cache  *lms.ClientCache
	Flows  *flow.Manager
}

var Ctx *ServiceContext

// Init 初始化服务上下文
func Init(cfg *config.Config, db *gorm.DB, rdb *redis.Client) error {
	ctx, err := New(cfg, db, rdb)
	if err != nil {
		return err
	}
	Ctx = ctx
	return nil
}

// New 按配置组装服务，db 和 rdb 在对应功能未启用时可以为 nil
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*ServiceContext, error) {
	envs, err := newEnvSource(cfg, db)
	if err != nil {
		return nil, err
	}

	store, err := newRunStore(cfg, rdb)
	if err != nil {
		return nil, err
	}

	cache := lms.NewClientCache(
		lms.WithCacheTTL(cfg.LMS.CacheTTL),
		lms.WithClientOptions(lms.WithTimeout(cfg.LMS.Timeout)),
	)

	flows := flow.NewManager(cache, envs, store,
		flow.WithConcurrency(cfg.Flow.Concurrency),
		flow.WithRateLimit(rate.Limit(cfg.Flow.RatePerSecond), cfg.Flow.Burst),
	)

	return &ServiceContext{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
		Envs:   envs,
		Cache:  cache,
		Flows:  flows,
	}, nil
}

func newEnvSource(cfg *config.Config, db *gorm.DB) (EnvSource, error) {
	switch cfg.LMS.EnvSource {
	case config.EnvSourceDatabase:
		if db == nil {
			return nil, errors.New("lms.env_source is database but no database is configured")
		}
		return NewDBEnvSource(db), nil
	case config.EnvSourceFile, "":
		return NewStaticEnvSource(cfg.LMS.Environments)
	default:
		return nil, fmt.Errorf("unknown lms.env_source: %s", cfg.LMS.EnvSource)
	}
}

func newRunStore(cfg *config.Config, rdb *redis.Client) (flow.RunStore, error) {
	switch cfg.Flow.Store {
	case config.StoreRedis:
		if rdb == nil {
			return nil, errors.New("flow.store is redis but no redis is configured")
		}
		return flow.NewRedisStore(rdb, cfg.Redis.KeyPrefix, cfg.Flow.RunTTL), nil
	case config.StoreMemory, "":
		return flow.NewMemoryStore(cfg.Flow.RunTTL), nil
	default:
		return nil, fmt.Errorf("unknown flow.store: %s", cfg.Flow.Store)
	}
}
