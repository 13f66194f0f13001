package flow

import (
	"context"
	"errors"

	"yqhp/lms-tools/internal/lms"
)

const KindProgramClone = "program-clone"

// ProgramCloneFlow 查询培养方案后逐个复制到目标域名
type ProgramCloneFlow struct {
	Filter    lms.ListProgramsParams `json:"filter"`
	TargetDmn string                 `json:"targetDmn"`
}

func (f *ProgramCloneFlow) Kind() string { return KindProgramClone }

func (f *ProgramCloneFlow) Search(ctx context.Context, s lms.Sender) ([]Item, []lms.HistoryEntry, error) {
	if f.TargetDmn == "" {
		return nil, nil, errors.New("target domain is required")
	}
	res := lms.ListPrograms(ctx, s, f.Filter)
	if !res.Success {
		return nil, res.RequestHistory, searchError(res.Error)
	}
	items := make([]Item, 0, len(res.Data))
	for _, p := range res.Data {
		id := lms.IDString(p.IID)
		items = append(items, Item{ID: id, Label: itemLabel(p.Name, p.Code, id), Value: p})
	}
	return items, res.RequestHistory, nil
}

func (f *ProgramCloneFlow) Process(ctx context.Context, s lms.Sender, item Item) Outcome {
	return outcomeOf(lms.ClonePrograms(ctx, s, lms.CloneProgramsParams{
		ProgramIIDs: []any{item.ID},
		TargetDmn:   f.TargetDmn,
	}))
}
