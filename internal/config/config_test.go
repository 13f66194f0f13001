package config

import (
	"testing"
	"time"

	"yqhp/lms-tools/internal/lms"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)

	assert.Equal(t, "lms-tools", cfg.App.Name)
	assert.Equal(t, 5330, cfg.Server.Port)
	assert.Equal(t, lms.DefaultTimeout, cfg.LMS.Timeout)
	assert.Equal(t, lms.DefaultCacheTTL, cfg.LMS.CacheTTL)
	assert.Equal(t, EnvSourceFile, cfg.LMS.EnvSource)
	assert.Equal(t, 1, cfg.Flow.Concurrency)
	assert.Equal(t, StoreMemory, cfg.Flow.Store)
	assert.Equal(t, 24*time.Hour, cfg.Flow.RunTTL)
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
app:
  name: lms-tools-test
server:
  port: 8080
redis:
  key_prefix: "t:"
lms:
  timeout: 5s
  cache_ttl: 30m
  environments:
    - id: staging
      name: Staging
      domain: demo
      host: https://lms.example.com
      user_code: admin
      master_password: secret
      headers:
        X-Client: tools
      base_params:
        lang: en
flow:
  concurrency: 4
  rate_per_second: 2.5
  burst: 3
  store: redis
  run_ttl: 2h
`))
	require.NoError(t, err)

	assert.Equal(t, "lms-tools-test", cfg.App.Name)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "t:", cfg.Redis.KeyPrefix)
	assert.Equal(t, 5*time.Second, cfg.LMS.Timeout)
	assert.Equal(t, 30*time.Minute, cfg.LMS.CacheTTL)

	require.Len(t, cfg.LMS.Environments, 1)
	env := cfg.LMS.Environments[0]
	assert.Equal(t, "staging", env.ID)
	assert.Equal(t, "https://lms.example.com", env.Host)
	assert.Equal(t, "admin", env.UserCode)
	assert.Equal(t, "secret", env.MasterPassword)
	assert.Equal(t, map[string]string{"X-Client": "tools"}, env.Headers)
	assert.Equal(t, map[string]any{"lang": "en"}, env.BaseParams)

	assert.Equal(t, 4, cfg.Flow.Concurrency)
	assert.Equal(t, 2.5, cfg.Flow.RatePerSecond)
	assert.Equal(t, 3, cfg.Flow.Burst)
	assert.Equal(t, StoreRedis, cfg.Flow.Store)
	assert.Equal(t, 2*time.Hour, cfg.Flow.RunTTL)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("lms: [unclosed"))
	assert.Error(t, err)

	_, err = Parse([]byte("lms:\n  timeout: soon\n"))
	assert.Error(t, err)
}
