package config

import (
	"os"
	"time"

	commonConfig "yqhp/lms-tools/common/config"
	"yqhp/lms-tools/internal/lms"

	"gopkg.in/yaml.v3"
)

// 环境配置来源
const (
	EnvSourceFile     = "file"
	EnvSourceDatabase = "database"
)

// 运行记录存储
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// LMSConfig LMS 客户端配置
type LMSConfig struct {
	Timeout      time.Duration     `yaml:"timeout"`    // 单次 HTTP 请求超时
	CacheTTL     time.Duration     `yaml:"cache_ttl"`  // 客户端缓存有效期
	EnvSource    string            `yaml:"env_source"` // file, database
	Environments []lms.Environment `yaml:"environments"`
}

// FlowConfig 批量流程配置
type FlowConfig struct {
	Concurrency   int           `yaml:"concurrency"`     // 1 为顺序处理
	RatePerSecond float64       `yaml:"rate_per_second"` // 0 不限速
	Burst         int           `yaml:"burst"`
	Store         string        `yaml:"store"` // memory, redis
	RunTTL        time.Duration `yaml:"run_ttl"`
}

// Config 应用配置
type Config struct {
	commonConfig.Config `yaml:",inline"`
	LMS                 LMSConfig  `yaml:"lms"`
	Flow                FlowConfig `yaml:"flow"`
}

// LoadConfig 加载配置文件
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Parse(data)
}

// Parse 解析配置内容并填充默认值
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

// ApplyDefaults 填充未配置项的默认值
func (c *Config) ApplyDefaults() {
	c.Config.ApplyDefaults()

	if c.LMS.Timeout <= 0 {
		c.LMS.Timeout = lms.DefaultTimeout
	}
	if c.LMS.CacheTTL <= 0 {
		c.LMS.CacheTTL = lms.DefaultCacheTTL
	}
	if c.LMS.EnvSource == "" {
		c.LMS.EnvSource = EnvSourceFile
	}
	if c.Flow.Concurrency <= 0 {
		c.Flow.Concurrency = 1
	}
	if c.Flow.Store == "" {
		c.Flow.Store = StoreMemory
	}
	if c.Flow.RunTTL <= 0 {
		c.Flow.RunTTL = 24 * time.Hour
	}
}
