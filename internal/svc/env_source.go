package svc

import (
	"context"
	"errors"
	"fmt"

	"yqhp/lms-tools/internal/lms"
	"yqhp/lms-tools/internal/model"

	"gorm.io/gorm"
)

// ErrEnvironmentNotFound 环境不存在
var ErrEnvironmentNotFound = errors.New("environment not found")

// EnvSource 环境配置来源，只读
type EnvSource interface {
	List(ctx context.Context) ([]lms.Environment, error)
	Get(ctx context.Context, id string) (*lms.Environment, error)
}

// StaticEnvSource 配置文件中的环境列表
type StaticEnvSource struct {
	envs  []lms.Environment
	index map[string]int
}

// NewStaticEnvSource 校验并建立索引，ID 不能重复
func NewStaticEnvSource(envs []lms.Environment) (*StaticEnvSource, error) {
	s := &StaticEnvSource{
		envs:  make([]lms.Environment, len(envs)),
		index: make(map[string]int, len(envs)),
	}
	copy(s.envs, envs)
	for i := range s.envs {
		env := &s.envs[i]
		if env.ID == "" {
			return nil, fmt.Errorf("environment #%d: id is required", i)
		}
		if err := env.Validate(); err != nil {
			return nil, err
		}
		if _, ok := s.index[env.ID]; ok {
			return nil, fmt.Errorf("environment %q: duplicate id", env.ID)
		}
		s.index[env.ID] = i
	}
	return s, nil
}

func (s *StaticEnvSource) List(_ context.Context) ([]lms.Environment, error) {
	out := make([]lms.Environment, len(s.envs))
	copy(out, s.envs)
	return out, nil
}

func (s *StaticEnvSource) Get(_ context.Context, id string) (*lms.Environment, error) {
	i, ok := s.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEnvironmentNotFound, id)
	}
	env := s.envs[i]
	return &env, nil
}

// DBEnvSource 从管理后台的 t_lms_environment 表读取环境
type DBEnvSource struct {
	db *gorm.DB
}

// NewDBEnvSource 创建数据库环境来源
func NewDBEnvSource(db *gorm.DB) *DBEnvSource {
	return &DBEnvSource{db: db}
}

func (s *DBEnvSource) active(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Model(&model.TLmsEnvironment{}).
		Where("is_delete = ? AND status = ?", false, 1)
}

func (s *DBEnvSource) List(ctx context.Context) ([]lms.Environment, error) {
	var rows []model.TLmsEnvironment
	if err := s.active(ctx).Order("sort ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query environments: %w", err)
	}
	envs := make([]lms.Environment, 0, len(rows))
	for i := range rows {
		env, err := rows[i].ToEnvironment()
		if err != nil {
			return nil, err
		}
		envs = append(envs, *env)
	}
	return envs, nil
}

func (s *DBEnvSource) Get(ctx context.Context, id string) (*lms.Environment, error) {
	var row model.TLmsEnvironment
	err := s.active(ctx).Where("code = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrEnvironmentNotFound, id)
		}
		return nil, fmt.Errorf("query environment: %w", err)
	}
	return row.ToEnvironment()
}
