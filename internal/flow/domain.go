package flow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"yqhp/lms-tools/common/utils"
	"yqhp/lms-tools/internal/lms"
)

const KindDomainCreate = "domain-create"

// DomainCreateFlow 在指定分组下批量新建域名
type DomainCreateFlow struct {
	Group string   `json:"group"` // 分组名称或编码，为空时不指定分组
	Slugs []string `json:"slugs"`

	groupIID any
}

func (f *DomainCreateFlow) Kind() string { return KindDomainCreate }

func (f *DomainCreateFlow) Search(ctx context.Context, s lms.Sender) ([]Item, []lms.HistoryEntry, error) {
	if len(f.Slugs) == 0 {
		return nil, nil, errors.New("no domain slugs given")
	}

	var history []lms.HistoryEntry
	f.groupIID = nil
	if f.Group != "" {
		res := lms.GetDomainGroups(ctx, s, lms.GetDomainGroupsParams{})
		history = res.RequestHistory
		if !res.Success {
			return nil, history, searchError(res.Error)
		}
		group, ok := utils.SliceFind(res.Data, func(_ int, g lms.DomainGroup) bool {
			return strings.EqualFold(g.Name, f.Group) || strings.EqualFold(g.Code, f.Group)
		})
		if !ok {
			return nil, history, fmt.Errorf("domain group %q not found", f.Group)
		}
		f.groupIID = group.IID
	}

	slugs := utils.SliceMap(f.Slugs, func(_ int, slug string) string { return strings.TrimSpace(slug) })
	slugs = utils.SliceFilter(utils.SliceUnique(slugs), func(_ int, slug string) bool { return slug != "" })
	items := utils.SliceMap(slugs, func(_ int, slug string) Item { return Item{ID: slug, Label: slug} })
	return items, history, nil
}

func (f *DomainCreateFlow) Process(ctx context.Context, s lms.Sender, item Item) Outcome {
	return outcomeOf(lms.CreateDomain(ctx, s, lms.CreateDomainParams{Slug: item.ID, GroupIID: f.groupIID}))
}
