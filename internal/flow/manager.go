package flow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"yqhp/lms-tools/common/logger"
	"yqhp/lms-tools/common/utils"
	"yqhp/lms-tools/internal/lms"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrRunNotActive 运行已结束或不在本实例
var ErrRunNotActive = errors.New("flow run is not active")

// EnvironmentResolver 根据环境 ID 取环境配置
type EnvironmentResolver interface {
	Get(ctx context.Context, id string) (*lms.Environment, error)
}

// Manager 创建并跟踪流程运行
type Manager struct {
	cache   *lms.ClientCache
	envs    EnvironmentResolver
	store   RunStore
	options []RunnerOption
	now     func() time.Time

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
}

// NewManager 创建管理器，options 应用到每个运行
func NewManager(cache *lms.ClientCache, envs EnvironmentResolver, store RunStore, options ...RunnerOption) *Manager {
	if store == nil {
		store = NewMemoryStore(DefaultRunTTL)
	}
	return &Manager{
		cache:   cache,
		envs:    envs,
		store:   store,
		options: options,
		now:     time.Now,
		cancels: make(map[string]context.CancelFunc),
	}
}

// Store 运行记录存储
func (m *Manager) Store() RunStore {
	return m.store
}

// prepare 构建流程并通过缓存取得已登录的客户端
func (m *Manager) prepare(ctx context.Context, kind string, props Props, params []byte) (Flow, *lms.Client, error) {
	f, err := Build(kind, params)
	if err != nil {
		return nil, nil, err
	}
	if props.EnvironmentID == "" {
		return nil, nil, errors.New("environmentId is required")
	}
	env, err := m.envs.Get(ctx, props.EnvironmentID)
	if err != nil {
		return nil, nil, err
	}
	client, err := m.cache.GetOrCreate(ctx, env, props.Dmn, props.UserCode, props.Pass)
	if err != nil {
		return nil, nil, fmt.Errorf("Auto-login failed: %w", err)
	}
	return f, client, nil
}

func (m *Manager) newRun(kind string, props Props) *Run {
	// 密码不进入运行记录
	props.Pass = ""
	return &Run{
		ID:        uuid.NewString(),
		Kind:      kind,
		Props:     props,
		Snapshot:  Snapshot{Kind: kind, State: StateIdle},
		StartedAt: m.now(),
	}
}

// Start 异步运行流程，立即返回运行记录
func (m *Manager) Start(ctx context.Context, kind string, props Props, params []byte) (*Run, error) {
	f, client, err := m.prepare(ctx, kind, props, params)
	if err != nil {
		return nil, err
	}

	run := m.newRun(kind, props)
	if err := m.store.Save(ctx, run); err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithCancel(context.Background())
	m.mu.Lock()
	m.cancels[run.ID] = cancel
	m.mu.Unlock()

	record := *run
	utils.SafeGoWithName("flow-"+kind, func() {
		defer m.release(record.ID)
		m.execute(runCtx, &record, f, client)
	}, func(r any) {
		m.fail(&record, fmt.Sprint(r))
	})
	return run, nil
}

// RunSync 同步运行流程，结束后返回最终记录
func (m *Manager) RunSync(ctx context.Context, kind string, props Props, params []byte, opts ...RunnerOption) (*Run, error) {
	f, client, err := m.prepare(ctx, kind, props, params)
	if err != nil {
		return nil, err
	}
	run := m.newRun(kind, props)
	m.execute(ctx, run, f, client, opts...)
	return run, nil
}

func (m *Manager) execute(ctx context.Context, run *Run, f Flow, s lms.Sender, extra ...RunnerOption) {
	var mu sync.Mutex
	save := func(snap Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		run.Snapshot = snap
		if err := m.store.Save(context.Background(), run); err != nil {
			logger.Warn("保存流程运行记录失败", zap.String("run", run.ID), zap.Error(err))
		}
	}

	opts := append(append([]RunnerOption{}, m.options...), extra...)
	opts = append(opts, WithObserver(save))
	runner := NewRunner(f, s, opts...)

	logger.Info("开始执行流程", zap.String("run", run.ID), zap.String("kind", run.Kind))
	summary, err := runner.Run(ctx)

	mu.Lock()
	finished := m.now()
	run.Snapshot = runner.Snapshot()
	run.FinishedAt = &finished
	mu.Unlock()
	if err := m.store.Save(context.Background(), run); err != nil {
		logger.Warn("保存流程运行记录失败", zap.String("run", run.ID), zap.Error(err))
	}

	if err != nil {
		logger.Warn("流程执行失败", zap.String("run", run.ID), zap.String("kind", run.Kind), zap.Error(err))
		return
	}
	logger.Info("流程执行完成",
		zap.String("run", run.ID),
		zap.String("kind", run.Kind),
		zap.Int("total", summary.Total),
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed),
		zap.Bool("cancelled", summary.Cancelled),
	)
}

func (m *Manager) fail(run *Run, msg string) {
	finished := m.now()
	run.Snapshot.Error = msg
	run.FinishedAt = &finished
	if err := m.store.Save(context.Background(), run); err != nil {
		logger.Warn("保存流程运行记录失败", zap.String("run", run.ID), zap.Error(err))
	}
}

func (m *Manager) release(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cancel, ok := m.cancels[id]; ok {
		cancel()
		delete(m.cancels, id)
	}
}

// Get 取运行记录
func (m *Manager) Get(ctx context.Context, id string) (*Run, error) {
	return m.store.Get(ctx, id)
}

// Cancel 请求停止运行，当前项处理完后生效
func (m *Manager) Cancel(id string) error {
	m.mu.Lock()
	cancel, ok := m.cancels[id]
	m.mu.Unlock()
	if !ok {
		return ErrRunNotActive
	}
	cancel()
	return nil
}

// Active 本实例正在运行的数量
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.cancels)
}
