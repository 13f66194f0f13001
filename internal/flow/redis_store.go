package flow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"yqhp/lms-tools/common/utils"

	"github.com/redis/go-redis/v9"
)

// DefaultRunTTL 运行记录默认保留时间
const DefaultRunTTL = 24 * time.Hour

// RedisStore 运行记录保存在 redis，多个服务实例共享
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisStore 创建 redis 存储
func NewRedisStore(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultRunTTL
	}
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *RedisStore) key(id string) string {
	return s.prefix + "flow:run:" + id
}

func (s *RedisStore) Save(ctx context.Context, run *Run) error {
	data, err := utils.Marshal(run)
	if err != nil {
		return fmt.Errorf("encode flow run: %w", err)
	}
	if err := s.client.Set(ctx, s.key(run.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save flow run: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Run, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("load flow run: %w", err)
	}
	var run Run
	if err := utils.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("decode flow run: %w", err)
	}
	return &run, nil
}
