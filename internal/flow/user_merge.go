package flow

import (
	"context"
	"errors"
	"fmt"

	"yqhp/lms-tools/internal/lms"
)

const KindUserMerge = "user-merge"

// UserPair 一组待合并的用户编码
type UserPair struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// UserMergeFlow 按编码查出源用户和目标用户，再复制学习数据
type UserMergeFlow struct {
	Pairs []UserPair `json:"pairs"`
}

type mergeTarget struct {
	From *lms.User `json:"from"`
	To   *lms.User `json:"to"`
}

func (f *UserMergeFlow) Kind() string { return KindUserMerge }

// Search 任意一个用户查不到时整个查询失败
func (f *UserMergeFlow) Search(ctx context.Context, s lms.Sender) ([]Item, []lms.HistoryEntry, error) {
	if len(f.Pairs) == 0 {
		return nil, nil, errors.New("no user pairs given")
	}

	var history []lms.HistoryEntry
	lookup := func(code string) (*lms.User, error) {
		res := lms.SearchUserByCode(ctx, s, code)
		history = append(history, res.RequestHistory...)
		if !res.Success {
			return nil, fmt.Errorf("[%s] %s", code, res.Error)
		}
		return res.Data, nil
	}

	items := make([]Item, 0, len(f.Pairs))
	for _, pair := range f.Pairs {
		if pair.From == pair.To {
			return nil, history, fmt.Errorf("[%s] source and target are the same user", pair.From)
		}
		from, err := lookup(pair.From)
		if err != nil {
			return nil, history, err
		}
		to, err := lookup(pair.To)
		if err != nil {
			return nil, history, err
		}
		items = append(items, Item{
			ID:    lms.IDString(from.IID) + "->" + lms.IDString(to.IID),
			Label: pair.From + " -> " + pair.To,
			Value: mergeTarget{From: from, To: to},
		})
	}
	return items, history, nil
}

func (f *UserMergeFlow) Process(ctx context.Context, s lms.Sender, item Item) Outcome {
	target, ok := item.Value.(mergeTarget)
	if !ok {
		return Outcome{Err: errors.New("invalid merge item")}
	}
	return outcomeOf(lms.CopyLearningData(ctx, s, lms.CopyLearningDataParams{
		FromUserIID: target.From.IID,
		ToUserIID:   target.To.IID,
	}))
}
