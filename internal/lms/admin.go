package lms

import "context"

const (
	pathDomainGroups = "/domain/groups"
	pathDomainCreate = "/domain/new"
)

// DomainGroup 域名分组
type DomainGroup struct {
	IID  any    `json:"iid"`
	ID   any    `json:"id,omitempty"`
	Name string `json:"name"`
	Code string `json:"code,omitempty"`
}

// GetDomainGroupsParams 查询域名分组
type GetDomainGroupsParams struct {
	Paging
	Extra map[string]any `json:"extra,omitempty"`
}

// GetDomainGroups 获取域名分组
func GetDomainGroups(ctx context.Context, s Sender, p GetDomainGroupsParams) Result[[]DomainGroup] {
	return call(ctx, s, Request{
		Path:    pathDomainGroups,
		Payload: buildPayload(p.Paging.payload(), p.Extra),
	}, "Failed to get domain groups", resultList[DomainGroup])
}

// CreateDomainParams 新建域名
type CreateDomainParams struct {
	Slug     string         `json:"slug"`
	Name     string         `json:"name"`
	GroupIID any            `json:"group_iid,omitempty"`
	Extra    map[string]any `json:"extra,omitempty"`
}

// CreateDomain 新建域名（学校）
func CreateDomain(ctx context.Context, s Sender, p CreateDomainParams) Result[any] {
	name := p.Name
	if name == "" {
		name = p.Slug
	}
	payload := map[string]any{
		"slug":      p.Slug,
		"name":      name,
		"group_iid": p.GroupIID,
	}

	return call(ctx, s, Request{
		Path:    pathDomainCreate,
		Payload: buildPayload(payload, p.Extra),
	}, "Failed to create domain", resultAny)
}
