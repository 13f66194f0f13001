package svc

import (
	"context"
	"testing"

	"yqhp/lms-tools/internal/config"
	"yqhp/lms-tools/internal/lms"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEnv(id string) lms.Environment {
	return lms.Environment{ID: id, Domain: "demo", Host: "https://" + id + ".example.com", UserCode: "alice", MasterPassword: "pw"}
}

func TestStaticEnvSource(t *testing.T) {
	src, err := NewStaticEnvSource([]lms.Environment{testEnv("b"), testEnv("a")})
	require.NoError(t, err)
	ctx := context.Background()

	envs, err := src.List(ctx)
	require.NoError(t, err)
	require.Len(t, envs, 2)
	assert.Equal(t, "b", envs[0].ID)

	env, err := src.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "https://a.example.com", env.Host)

	_, err = src.Get(ctx, "c")
	assert.ErrorIs(t, err, ErrEnvironmentNotFound)
}

func TestStaticEnvSource_Invalid(t *testing.T) {
	_, err := NewStaticEnvSource([]lms.Environment{testEnv("a"), testEnv("a")})
	assert.ErrorContains(t, err, `environment "a": duplicate id`)

	_, err = NewStaticEnvSource([]lms.Environment{testEnv("")})
	assert.ErrorContains(t, err, "environment #0: id is required")

	bad := testEnv("a")
	bad.Host = "ftp://x"
	_, err = NewStaticEnvSource([]lms.Environment{bad})
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	cfg, err := config.Parse(nil)
	require.NoError(t, err)
	cfg.LMS.Environments = []lms.Environment{testEnv("a")}

	ctx, err := New(cfg, nil, nil)
	require.NoError(t, err)
	assert.NotNil(t, ctx.Cache)
	assert.NotNil(t, ctx.Flows)
	assert.Equal(t, cfg.LMS.CacheTTL, ctx.Cache.TTL())

	cfg.Flow.Store = config.StoreRedis
	_, err = New(cfg, nil, nil)
	assert.EqualError(t, err, "flow.store is redis but no redis is configured")

	cfg.Flow.Store = "etcd"
	_, err = New(cfg, nil, nil)
	assert.EqualError(t, err, "unknown flow.store: etcd")

	cfg.Flow.Store = config.StoreMemory
	cfg.LMS.EnvSource = config.EnvSourceDatabase
	_, err = New(cfg, nil, nil)
	assert.EqualError(t, err, "lms.env_source is database but no database is configured")
}
