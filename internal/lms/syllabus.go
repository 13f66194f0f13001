package lms

import "context"

const (
	pathSyllabusSearch       = "/syllabus/search"
	pathSyllabusChangeStatus = "/syllabus/change-status"
	pathSyllabusSequential   = "/syllabus/populate-sequential-settings"
)

// Syllabus 课程大纲
type Syllabus struct {
	IID    any    `json:"iid"`
	ID     any    `json:"id,omitempty"`
	Name   string `json:"name"`
	Code   string `json:"code,omitempty"`
	Status any    `json:"status,omitempty"`
}

// SearchSyllabusesParams 查询大纲
type SearchSyllabusesParams struct {
	Text   string   `json:"text,omitempty"`
	Status []string `json:"status,omitempty"`
	Paging
	Extra map[string]any `json:"extra,omitempty"`
}

// SearchSyllabuses 按状态等条件查询大纲
func SearchSyllabuses(ctx context.Context, s Sender, p SearchSyllabusesParams) Result[[]Syllabus] {
	status := p.Status
	if len(status) == 0 {
		status = []string{"approved", "queued"}
	}
	payload := p.Paging.payload()
	payload["status"] = status
	payload["type"] = "syllabus"
	if p.Text != "" {
		payload["text"] = p.Text
	}

	return call(ctx, s, Request{
		Path:    pathSyllabusSearch,
		Payload: buildPayload(payload, p.Extra),
	}, "Failed to search syllabuses", resultList[Syllabus])
}

// ChangeSyllabusStatusParams 修改大纲状态
type ChangeSyllabusStatusParams struct {
	IID    any            `json:"iid"`
	Status string         `json:"status"`
	Extra  map[string]any `json:"extra,omitempty"`
}

// ChangeSyllabusStatus 修改单个大纲状态
func ChangeSyllabusStatus(ctx context.Context, s Sender, p ChangeSyllabusStatusParams) Result[any] {
	status := p.Status
	if status == "" {
		status = "approved"
	}
	payload := map[string]any{
		"iid":    p.IID,
		"status": status,
	}

	return call(ctx, s, Request{
		Path:    pathSyllabusChangeStatus,
		Payload: buildPayload(payload, p.Extra),
	}, "Failed to change syllabus status", resultAny)
}

// PopulateSequentialSettingsParams 重建顺序学习设置
type PopulateSequentialSettingsParams struct {
	IID   any            `json:"iid"`
	Extra map[string]any `json:"extra,omitempty"`
}

// PopulateSequentialSettings 为单个大纲重建顺序学习设置
func PopulateSequentialSettings(ctx context.Context, s Sender, p PopulateSequentialSettingsParams) Result[any] {
	payload := map[string]any{
		"iid":                 p.IID,
		"sequential_learning": 1,
	}

	return call(ctx, s, Request{
		Path:    pathSyllabusSequential,
		Payload: buildPayload(payload, p.Extra),
	}, "Failed to populate sequential settings", resultAny)
}
