package flow

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrRunNotFound 运行记录不存在或已过期
var ErrRunNotFound = errors.New("flow run not found")

// Run 一次流程运行的记录，供 HTTP 接口轮询
type Run struct {
	ID         string     `json:"id"`
	Kind       string     `json:"kind"`
	Props      Props      `json:"props"`
	Snapshot   Snapshot   `json:"snapshot"`
	StartedAt  time.Time  `json:"startedAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
}

// Finished 是否已结束
func (r *Run) Finished() bool {
	return r.FinishedAt != nil
}

// RunStore 运行记录存储
type RunStore interface {
	Save(ctx context.Context, run *Run) error
	Get(ctx context.Context, id string) (*Run, error)
}

// MemoryStore 进程内存储，过期记录在读取时淘汰
type MemoryStore struct {
	mu   sync.RWMutex
	ttl  time.Duration
	now  func() time.Time
	runs map[string]memoryEntry
}

type memoryEntry struct {
	run     Run
	savedAt time.Time
}

// NewMemoryStore ttl <= 0 时不过期
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:  ttl,
		now:  time.Now,
		runs: make(map[string]memoryEntry),
	}
}

func (s *MemoryStore) Save(_ context.Context, run *Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = memoryEntry{run: *run, savedAt: s.now()}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Run, error) {
	s.mu.RLock()
	entry, ok := s.runs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrRunNotFound
	}
	if s.ttl > 0 && s.now().Sub(entry.savedAt) > s.ttl {
		s.mu.Lock()
		delete(s.runs, id)
		s.mu.Unlock()
		return nil, ErrRunNotFound
	}
	run := entry.run
	return &run, nil
}
