package lms

import "context"

const (
	pathKPITimerSearch = "/kpi/timer/search"
	pathKPITimerUpdate = "/kpi/timer/update"
)

// KPITimer KPI 计时配置
type KPITimer struct {
	IID      any    `json:"iid"`
	ID       any    `json:"id,omitempty"`
	Name     string `json:"name"`
	Duration any    `json:"duration,omitempty"`
}

// SearchKPITimersParams 查询 KPI 计时
type SearchKPITimersParams struct {
	Text string `json:"text,omitempty"`
	Paging
	Extra map[string]any `json:"extra,omitempty"`
}

// SearchKPITimers 查询 KPI 计时配置
func SearchKPITimers(ctx context.Context, s Sender, p SearchKPITimersParams) Result[[]KPITimer] {
	payload := p.Paging.payload()
	if p.Text != "" {
		payload["text"] = p.Text
	}

	return call(ctx, s, Request{
		Path:    pathKPITimerSearch,
		Payload: buildPayload(payload, p.Extra),
	}, "Failed to search KPI timers", resultList[KPITimer])
}

// UpdateKPITimerParams 更新 KPI 计时
type UpdateKPITimerParams struct {
	IID      any            `json:"iid"`
	Duration int            `json:"duration"` // 分钟
	Extra    map[string]any `json:"extra,omitempty"`
}

// UpdateKPITimer 更新单个 KPI 计时时长
func UpdateKPITimer(ctx context.Context, s Sender, p UpdateKPITimerParams) Result[any] {
	payload := map[string]any{
		"iid":      p.IID,
		"duration": p.Duration,
	}

	return call(ctx, s, Request{
		Path:    pathKPITimerUpdate,
		Payload: buildPayload(payload, p.Extra),
	}, "Failed to update KPI timer", resultAny)
}
