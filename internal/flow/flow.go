// Package flow 驱动针对 LMS 的多步批量操作：先查询工作集，再逐项执行变更，
// 记录进度、失败项与合并后的请求记录。
package flow

import (
	"context"
	"errors"

	"yqhp/lms-tools/internal/lms"
)

// State 流程状态
type State string

const (
	StateIdle       State = "idle"
	StateSearching  State = "searching"
	StateReady      State = "ready"
	StateProcessing State = "processing"
	StateDone       State = "done"
)

var (
	// ErrNotReady 未完成查询时不能开始处理
	ErrNotReady = errors.New("flow is not ready: run search first")
	// ErrSuperseded 新的查询开始后，旧的一轮执行作废
	ErrSuperseded = errors.New("flow run superseded by a new search")
)

// Props 流程的外部输入，由环境选择器和保存的模板解析而来
type Props struct {
	EnvironmentID string `json:"environmentId"`
	Dmn           string `json:"dmn"`
	UserCode      string `json:"userCode,omitempty"`
	Pass          string `json:"pass,omitempty"`
}

// Item 工作集中的一项
type Item struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Value any    `json:"value,omitempty"`
}

func (i Item) label() string {
	if i.Label != "" {
		return i.Label
	}
	return i.ID
}

// ItemError 带来源标签的错误
type ItemError struct {
	Item    string `json:"item"`
	Message string `json:"message"`
}

func (e ItemError) String() string {
	return "[" + e.Item + "] " + e.Message
}

// ItemResult 单项处理结果
type ItemResult struct {
	ItemID  string `json:"itemId"`
	Label   string `json:"label"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Output  any    `json:"output,omitempty"`
}

// Progress 处理进度
type Progress struct {
	Processed int         `json:"processed"`
	Total     int         `json:"total"`
	Failed    []string    `json:"failed"`
	Errors    []ItemError `json:"errors"`
	Ratio     float64     `json:"ratio"`
}

// Summary 完成后的汇总
type Summary struct {
	Total     int         `json:"total"`
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
	Errors    []ItemError `json:"errors"`
	Cancelled bool        `json:"cancelled,omitempty"`
}

// Outcome 单项处理的产出
type Outcome struct {
	Output  any
	History []lms.HistoryEntry
	Err     error
}

// Flow 一种批量操作
type Flow interface {
	// Kind 流程类型标识
	Kind() string
	// Search 查询工作集
	Search(ctx context.Context, s lms.Sender) ([]Item, []lms.HistoryEntry, error)
	// Process 处理单项
	Process(ctx context.Context, s lms.Sender, item Item) Outcome
}

// outcomeOf 把领域操作结果转换为 Outcome
func outcomeOf[T any](r lms.Result[T]) Outcome {
	if !r.Success {
		return Outcome{History: r.RequestHistory, Err: errors.New(r.Error)}
	}
	return Outcome{Output: r.Data, History: r.RequestHistory}
}

// searchError 查询失败的错误信息
func searchError(msg string) error {
	if msg == "" {
		msg = "search failed"
	}
	return errors.New(msg)
}

// itemLabel 名称 (编码) 形式的标签
func itemLabel(name, code, id string) string {
	switch {
	case name != "" && code != "":
		return name + " (" + code + ")"
	case name != "":
		return name
	case code != "":
		return code
	}
	return id
}
