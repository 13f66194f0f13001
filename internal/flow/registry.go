package flow

import (
	"fmt"
	"sort"

	"yqhp/lms-tools/common/utils"
)

var factories = map[string]func() Flow{
	KindSyllabusStatus:     func() Flow { return &SyllabusStatusFlow{} },
	KindSequentialSettings: func() Flow { return &SequentialSettingsFlow{} },
	KindQuestionBank:       func() Flow { return &QuestionBankFlow{} },
	KindProgramClone:       func() Flow { return &ProgramCloneFlow{} },
	KindUserMerge:          func() Flow { return &UserMergeFlow{} },
	KindKPITimer:           func() Flow { return &KPITimerFlow{} },
	KindDomainCreate:       func() Flow { return &DomainCreateFlow{} },
}

// Kinds 所有已注册的流程类型
func Kinds() []string {
	kinds := make([]string, 0, len(factories))
	for k := range factories {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Build 根据类型和 JSON 参数创建流程
func Build(kind string, params []byte) (Flow, error) {
	newFlow, ok := factories[kind]
	if !ok {
		return nil, fmt.Errorf("unknown flow kind: %s", kind)
	}
	f := newFlow()
	if len(params) > 0 {
		if err := utils.Unmarshal(params, f); err != nil {
			return nil, fmt.Errorf("invalid %s params: %w", kind, err)
		}
	}
	return f, nil
}
