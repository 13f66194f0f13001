package lms

import "context"

const (
	pathProgramSearch = "/program/search"
	pathProgramClone  = "/program/clone"
)

// Program 培养方案
type Program struct {
	IID    any    `json:"iid"`
	ID     any    `json:"id,omitempty"`
	Name   string `json:"name"`
	Code   string `json:"code,omitempty"`
	Status any    `json:"status,omitempty"`
}

// ListProgramsParams 查询培养方案
type ListProgramsParams struct {
	Text   string   `json:"text,omitempty"`
	Status []string `json:"status,omitempty"`
	Paging
	Extra map[string]any `json:"extra,omitempty"`
}

// ListPrograms 查询培养方案列表
func ListPrograms(ctx context.Context, s Sender, p ListProgramsParams) Result[[]Program] {
	status := p.Status
	if len(status) == 0 {
		status = []string{"approved"}
	}
	payload := p.Paging.payload()
	payload["status"] = status
	if p.Text != "" {
		payload["text"] = p.Text
	}

	return call(ctx, s, Request{
		Path:    pathProgramSearch,
		Payload: buildPayload(payload, p.Extra),
	}, "Failed to list programs", resultList[Program])
}

// CloneProgramsParams 复制培养方案到目标域名
type CloneProgramsParams struct {
	ProgramIIDs []any          `json:"program_iids"`
	TargetDmn   string         `json:"target_dmn,omitempty"`
	Extra       map[string]any `json:"extra,omitempty"`
}

// ClonePrograms 复制培养方案
func ClonePrograms(ctx context.Context, s Sender, p CloneProgramsParams) Result[any] {
	payload := map[string]any{
		"program_iids": p.ProgramIIDs,
	}
	if p.TargetDmn != "" {
		payload["target_dmn"] = p.TargetDmn
	}

	return call(ctx, s, Request{
		Path:    pathProgramClone,
		Payload: buildPayload(payload, p.Extra),
	}, "Failed to clone programs", resultAny)
}
