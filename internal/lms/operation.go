package lms

import (
	"context"
	"encoding/json"
	"fmt"

	"yqhp/lms-tools/common/utils"
)

// 分页默认值，items_per_page = -1 表示返回全部
const (
	DefaultPage         = 1
	DefaultItemsPerPage = -1
)

// Result 领域操作的统一结果，传输失败与业务失败收敛为同一形态
type Result[T any] struct {
	Success        bool           `json:"success"`
	Data           T              `json:"data,omitempty"`
	Total          int64          `json:"total,omitempty"`
	Error          string         `json:"error,omitempty"`
	RequestHistory []HistoryEntry `json:"requestHistory,omitempty"`
}

// Paging 列表接口的分页参数
type Paging struct {
	Page         int `json:"page,omitempty"`
	ItemsPerPage int `json:"items_per_page,omitempty"`
}

func (p Paging) payload() map[string]any {
	page := p.Page
	if page <= 0 {
		page = DefaultPage
	}
	size := p.ItemsPerPage
	if size == 0 {
		size = DefaultItemsPerPage
	}
	return map[string]any{
		"page":           page,
		"items_per_page": size,
	}
}

// buildPayload 默认参数与调用方覆盖项合并，后者优先
func buildPayload(defaults map[string]any, extra map[string]any) map[string]any {
	if len(extra) == 0 {
		return defaults
	}
	return utils.MapMerge(defaults, extra)
}

// call 所有领域操作共用的流程：发送 → 传输失败 → 业务失败 → 提取数据
func call[T any](ctx context.Context, s Sender, req Request, defaultErr string, parse func(*Envelope) (T, error)) (res Result[T]) {
	defer func() {
		if r := recover(); r != nil {
			res = Result[T]{Success: false, Error: fmt.Sprint(r)}
		}
	}()

	if s == nil {
		return Result[T]{Success: false, Error: defaultErr + ": client is nil"}
	}

	sr := s.Send(ctx, req)
	if sr == nil {
		return Result[T]{Success: false, Error: defaultErr}
	}
	history := sr.RequestHistory

	if !sr.Success {
		msg := sr.Error
		if msg == "" {
			msg = defaultErr
		}
		return Result[T]{Success: false, Error: msg, RequestHistory: history}
	}
	if sr.Data == nil {
		return Result[T]{Success: false, Error: defaultErr + ": invalid JSON response", RequestHistory: history}
	}
	if sr.Data.Failed() {
		return Result[T]{Success: false, Error: sr.Data.ErrorMessage(DefaultBusinessError), RequestHistory: history}
	}

	data, err := parse(sr.Data)
	if err != nil {
		return Result[T]{Success: false, Error: err.Error(), RequestHistory: history}
	}
	total, _ := sr.Data.TotalCount()
	return Result[T]{Success: true, Data: data, Total: total, RequestHistory: history}
}

// resultList 解析 result 数组，缺失视为空列表
func resultList[T any](e *Envelope) ([]T, error) {
	list, err := DecodeResult[[]T](e)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []T{}
	}
	return list, nil
}

// resultAny 原样返回 result
func resultAny(e *Envelope) (any, error) {
	return DecodeResult[any](e)
}

// IDString 把接口返回的标识统一为字符串，json.Number 按原文输出
func IDString(v any) string {
	if n, ok := v.(json.Number); ok {
		return n.String()
	}
	return utils.ToString(v)
}
