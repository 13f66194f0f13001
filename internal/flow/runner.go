package flow

import (
	"context"
	"sync"

	"yqhp/lms-tools/internal/lms"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Snapshot 运行状态快照
type Snapshot struct {
	Kind     string             `json:"kind"`
	State    State              `json:"state"`
	Items    []Item             `json:"items"`
	Progress Progress           `json:"progress"`
	Results  []ItemResult       `json:"results"`
	History  []lms.HistoryEntry `json:"history"`
	Summary  *Summary           `json:"summary,omitempty"`
	Error    string             `json:"error,omitempty"`
}

// RunnerOption 执行选项
type RunnerOption func(*Runner)

// WithConcurrency 同时处理的项数，<=1 为顺序处理。
// 并发时进度与请求记录仍按输入顺序提交。
func WithConcurrency(n int) RunnerOption {
	return func(r *Runner) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// WithRateLimit 限制每秒开始处理的项数
func WithRateLimit(limit rate.Limit, burst int) RunnerOption {
	return func(r *Runner) {
		if limit > 0 {
			if burst <= 0 {
				burst = 1
			}
			r.limiter = rate.NewLimiter(limit, burst)
		}
	}
}

// WithObserver 每次状态变化后回调，可以多次指定
func WithObserver(fn func(Snapshot)) RunnerOption {
	return func(r *Runner) {
		if fn != nil {
			r.observers = append(r.observers, fn)
		}
	}
}

// Runner 一个流程实例：Idle → Searching → Ready → Processing → Done
type Runner struct {
	flow        Flow
	sender      lms.Sender
	concurrency int
	limiter     *rate.Limiter
	observers   []func(Snapshot)

	mu       sync.Mutex
	gen      uint64
	state    State
	items    []Item
	progress Progress
	results  []ItemResult
	history  []lms.HistoryEntry
	summary  *Summary
	err      string
}

// NewRunner 创建流程实例
func NewRunner(f Flow, s lms.Sender, opts ...RunnerOption) *Runner {
	r := &Runner{
		flow:        f,
		sender:      s,
		concurrency: 1,
		state:       StateIdle,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// State 当前状态
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Snapshot 当前快照
func (r *Runner) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *Runner) snapshotLocked() Snapshot {
	snap := Snapshot{
		Kind:  r.flow.Kind(),
		State: r.state,
		Items: append([]Item(nil), r.items...),
		Progress: Progress{
			Processed: r.progress.Processed,
			Total:     r.progress.Total,
			Failed:    append([]string(nil), r.progress.Failed...),
			Errors:    append([]ItemError(nil), r.progress.Errors...),
			Ratio:     r.progress.Ratio,
		},
		Results: append([]ItemResult(nil), r.results...),
		History: append([]lms.HistoryEntry(nil), r.history...),
		Error:   r.err,
	}
	if r.summary != nil {
		s := *r.summary
		s.Errors = append([]ItemError(nil), r.summary.Errors...)
		snap.Summary = &s
	}
	return snap
}

func (r *Runner) notify() {
	if len(r.observers) == 0 {
		return
	}
	snap := r.Snapshot()
	for _, fn := range r.observers {
		fn(snap)
	}
}

// Search 查询工作集。开始前清空上一轮的进度与结果；
// 失败时回到 Idle，不保留部分结果。结果为空也是成功，随后的 Process 得到零汇总。
func (r *Runner) Search(ctx context.Context) error {
	r.mu.Lock()
	r.gen++
	gen := r.gen
	r.state = StateSearching
	r.items = nil
	r.progress = Progress{}
	r.results = nil
	r.history = nil
	r.summary = nil
	r.err = ""
	r.mu.Unlock()
	r.notify()

	items, history, err := r.flow.Search(ctx, r.sender)

	r.mu.Lock()
	if gen != r.gen {
		r.mu.Unlock()
		return ErrSuperseded
	}
	r.history = append(r.history, history...)
	if err != nil {
		r.state = StateIdle
		r.err = err.Error()
		r.mu.Unlock()
		observeRun(r.flow.Kind(), "search_failed")
		r.notify()
		return err
	}
	r.items = items
	r.progress.Total = len(items)
	r.state = StateReady
	r.mu.Unlock()
	r.notify()
	return nil
}

// Process 依次处理工作集。单项失败不中断，始终处理完全部项；
// ctx 取消时在两项之间停止。
func (r *Runner) Process(ctx context.Context) (*Summary, error) {
	r.mu.Lock()
	if r.state != StateReady {
		r.mu.Unlock()
		return nil, ErrNotReady
	}
	gen := r.gen
	items := r.items
	r.state = StateProcessing
	r.mu.Unlock()
	r.notify()

	var stopped bool
	if r.concurrency <= 1 {
		stopped = r.processSequential(ctx, gen, items)
	} else {
		stopped = r.processConcurrent(ctx, gen, items)
	}

	r.mu.Lock()
	if gen != r.gen {
		r.mu.Unlock()
		return nil, ErrSuperseded
	}
	failed := len(r.progress.Failed)
	summary := &Summary{
		Total:     len(items),
		Succeeded: r.progress.Processed - failed,
		Failed:    failed,
		Errors:    append([]ItemError{}, r.progress.Errors...),
		Cancelled: stopped,
	}
	r.summary = summary
	r.state = StateDone
	r.mu.Unlock()

	if stopped {
		observeRun(r.flow.Kind(), "cancelled")
	} else {
		observeRun(r.flow.Kind(), "done")
	}
	r.notify()
	return summary, nil
}

// Run 查询后处理
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	if err := r.Search(ctx); err != nil {
		return nil, err
	}
	return r.Process(ctx)
}

// wait 在开始下一项之前检查取消与限速，返回 false 表示停止
func (r *Runner) wait(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return false
		}
	}
	return true
}

// 取消只在两项之间检查，已开始的项不会被中断
func (r *Runner) processSequential(ctx context.Context, gen uint64, items []Item) bool {
	itemCtx := context.WithoutCancel(ctx)
	for _, item := range items {
		if !r.wait(ctx) {
			return true
		}
		out := r.flow.Process(itemCtx, r.sender, item)
		if !r.commit(gen, item, out) {
			return false
		}
	}
	return false
}

// processConcurrent 有限并发处理，完成的结果按输入顺序连续提交
func (r *Runner) processConcurrent(ctx context.Context, gen uint64, items []Item) bool {
	var (
		g        errgroup.Group
		mu       sync.Mutex
		outcomes = make([]*Outcome, len(items))
		next     int
		stopped  bool
	)
	g.SetLimit(r.concurrency)
	itemCtx := context.WithoutCancel(ctx)

	for i := range items {
		if !r.wait(ctx) {
			stopped = true
			break
		}
		i := i
		g.Go(func() error {
			out := r.flow.Process(itemCtx, r.sender, items[i])

			mu.Lock()
			defer mu.Unlock()
			outcomes[i] = &out
			for next < len(items) && outcomes[next] != nil {
				r.commit(gen, items[next], *outcomes[next])
				next++
			}
			return nil
		})
	}
	_ = g.Wait()
	return stopped
}

// commit 记录一项结果，返回 false 表示本轮已被新的查询取代
func (r *Runner) commit(gen uint64, item Item, out Outcome) bool {
	r.mu.Lock()
	if gen != r.gen {
		r.mu.Unlock()
		return false
	}

	label := item.label()
	res := ItemResult{ItemID: item.ID, Label: label, Success: out.Err == nil, Output: out.Output}
	r.progress.Processed++
	if out.Err != nil {
		res.Error = out.Err.Error()
		r.progress.Failed = append(r.progress.Failed, item.ID)
		r.progress.Errors = append(r.progress.Errors, ItemError{Item: label, Message: out.Err.Error()})
	}
	if r.progress.Total > 0 {
		r.progress.Ratio = float64(r.progress.Processed) / float64(r.progress.Total)
	}
	r.results = append(r.results, res)
	r.history = append(r.history, out.History...)
	r.mu.Unlock()

	observeItem(r.flow.Kind(), out.Err == nil)
	r.notify()
	return true
}
