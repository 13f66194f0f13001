package flow

import (
	"context"

	"yqhp/lms-tools/internal/lms"
)

const KindQuestionBank = "question-bank"

// QuestionBankFlow 按名称查询题库，再逐个题库按标签取题
type QuestionBankFlow struct {
	Name string   `json:"name"`
	Tags []string `json:"tags"`
}

// QuestionBankOutput 单个题库的取题结果
type QuestionBankOutput struct {
	Count     int            `json:"count"`
	Questions []lms.Question `json:"questions"`
}

func (f *QuestionBankFlow) Kind() string { return KindQuestionBank }

func (f *QuestionBankFlow) Search(ctx context.Context, s lms.Sender) ([]Item, []lms.HistoryEntry, error) {
	res := lms.SearchQuestionBanks(ctx, s, lms.SearchQuestionBanksParams{Name: f.Name})
	if !res.Success {
		return nil, res.RequestHistory, searchError(res.Error)
	}
	items := make([]Item, 0, len(res.Data))
	for _, bank := range res.Data {
		id := lms.IDString(bank.IID)
		items = append(items, Item{ID: id, Label: itemLabel(bank.Name, bank.Code, id), Value: bank})
	}
	return items, res.RequestHistory, nil
}

func (f *QuestionBankFlow) Process(ctx context.Context, s lms.Sender, item Item) Outcome {
	res := lms.GetQuestionsByTag(ctx, s, lms.GetQuestionsByTagParams{BankIID: item.ID, Tags: f.Tags})
	out := outcomeOf(res)
	if out.Err == nil {
		out.Output = QuestionBankOutput{Count: len(res.Data), Questions: res.Data}
	}
	return out
}
