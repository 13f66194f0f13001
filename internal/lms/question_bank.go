package lms

import "context"

const (
	pathQuestionBankSearch = "/question-bank/search"
	pathQuestionByTags     = "/question/get-by-tags"
)

// QuestionBank 题库
type QuestionBank struct {
	IID  any    `json:"iid"`
	ID   any    `json:"id,omitempty"`
	Name string `json:"name"`
	Code string `json:"code,omitempty"`
}

// Question 题目
type Question struct {
	IID  any      `json:"iid"`
	ID   any      `json:"id,omitempty"`
	Name string   `json:"name,omitempty"`
	Type any      `json:"type,omitempty"`
	Tags []string `json:"tags,omitempty"`
}

// SearchQuestionBanksParams 查询题库
type SearchQuestionBanksParams struct {
	Name string `json:"name,omitempty"`
	Paging
	Extra map[string]any `json:"extra,omitempty"`
}

// SearchQuestionBanks 按名称查询题库
func SearchQuestionBanks(ctx context.Context, s Sender, p SearchQuestionBanksParams) Result[[]QuestionBank] {
	payload := p.Paging.payload()
	if p.Name != "" {
		payload["name"] = p.Name
	}

	return call(ctx, s, Request{
		Path:    pathQuestionBankSearch,
		Payload: buildPayload(payload, p.Extra),
	}, "Failed to search question banks", resultList[QuestionBank])
}

// GetQuestionsByTagParams 按标签取题
type GetQuestionsByTagParams struct {
	BankIID any      `json:"bank_iid"`
	Tags    []string `json:"tags"`
	Paging
	Extra map[string]any `json:"extra,omitempty"`
}

// GetQuestionsByTag 获取题库中带有指定标签的题目
func GetQuestionsByTag(ctx context.Context, s Sender, p GetQuestionsByTagParams) Result[[]Question] {
	payload := p.Paging.payload()
	payload["bank_iid"] = p.BankIID
	payload["tags"] = p.Tags

	return call(ctx, s, Request{
		Path:    pathQuestionByTags,
		Payload: buildPayload(payload, p.Extra),
	}, "Failed to get questions by tag", resultList[Question])
}
