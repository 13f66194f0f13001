package flow

import (
	"context"
	"errors"

	"yqhp/lms-tools/internal/lms"
)

const KindKPITimer = "kpi-timer"

// KPITimerFlow 查询 KPI 计时后统一更新时长
type KPITimerFlow struct {
	Filter   lms.SearchKPITimersParams `json:"filter"`
	Duration int                       `json:"duration"` // 分钟
}

func (f *KPITimerFlow) Kind() string { return KindKPITimer }

func (f *KPITimerFlow) Search(ctx context.Context, s lms.Sender) ([]Item, []lms.HistoryEntry, error) {
	if f.Duration <= 0 {
		return nil, nil, errors.New("duration must be positive")
	}
	res := lms.SearchKPITimers(ctx, s, f.Filter)
	if !res.Success {
		return nil, res.RequestHistory, searchError(res.Error)
	}
	items := make([]Item, 0, len(res.Data))
	for _, t := range res.Data {
		id := lms.IDString(t.IID)
		items = append(items, Item{ID: id, Label: itemLabel(t.Name, "", id), Value: t})
	}
	return items, res.RequestHistory, nil
}

func (f *KPITimerFlow) Process(ctx context.Context, s lms.Sender, item Item) Outcome {
	return outcomeOf(lms.UpdateKPITimer(ctx, s, lms.UpdateKPITimerParams{IID: item.ID, Duration: f.Duration}))
}
