package flow

import (
	"context"

	"yqhp/lms-tools/internal/lms"
)

const (
	KindSyllabusStatus     = "syllabus-status"
	KindSequentialSettings = "sequential-settings"
)

// syllabusItems 大纲列表转为工作集
func syllabusItems(ctx context.Context, s lms.Sender, p lms.SearchSyllabusesParams) ([]Item, []lms.HistoryEntry, error) {
	res := lms.SearchSyllabuses(ctx, s, p)
	if !res.Success {
		return nil, res.RequestHistory, searchError(res.Error)
	}
	items := make([]Item, 0, len(res.Data))
	for _, sy := range res.Data {
		id := lms.IDString(sy.IID)
		items = append(items, Item{ID: id, Label: itemLabel(sy.Name, sy.Code, id), Value: sy})
	}
	return items, res.RequestHistory, nil
}

// SyllabusStatusFlow 按状态查询大纲后逐个修改状态
type SyllabusStatusFlow struct {
	Filter       lms.SearchSyllabusesParams `json:"filter"`
	TargetStatus string                     `json:"targetStatus"`
}

func (f *SyllabusStatusFlow) Kind() string { return KindSyllabusStatus }

func (f *SyllabusStatusFlow) Search(ctx context.Context, s lms.Sender) ([]Item, []lms.HistoryEntry, error) {
	return syllabusItems(ctx, s, f.Filter)
}

func (f *SyllabusStatusFlow) Process(ctx context.Context, s lms.Sender, item Item) Outcome {
	return outcomeOf(lms.ChangeSyllabusStatus(ctx, s, lms.ChangeSyllabusStatusParams{
		IID:    item.ID,
		Status: f.TargetStatus,
	}))
}

// SequentialSettingsFlow 查询大纲后逐个重建顺序学习设置
type SequentialSettingsFlow struct {
	Filter lms.SearchSyllabusesParams `json:"filter"`
}

func (f *SequentialSettingsFlow) Kind() string { return KindSequentialSettings }

func (f *SequentialSettingsFlow) Search(ctx context.Context, s lms.Sender) ([]Item, []lms.HistoryEntry, error) {
	return syllabusItems(ctx, s, f.Filter)
}

func (f *SequentialSettingsFlow) Process(ctx context.Context, s lms.Sender, item Item) Outcome {
	return outcomeOf(lms.PopulateSequentialSettings(ctx, s, lms.PopulateSequentialSettingsParams{IID: item.ID}))
}
