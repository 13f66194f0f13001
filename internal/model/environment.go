package model

import (
	"fmt"

	"yqhp/lms-tools/common/utils"
	"yqhp/lms-tools/internal/lms"

	"github.com/jinzhu/copier"
)

// ToEnvironment 转换为客户端使用的环境配置。
// 同名字段和 code → ID 由 copier 复制，JSON 列单独解析。
func (m *TLmsEnvironment) ToEnvironment() (*lms.Environment, error) {
	env := &lms.Environment{}
	if err := copier.Copy(env, m); err != nil {
		return nil, fmt.Errorf("environment %s: %w", m.Code, err)
	}
	if s := deref(m.Headers); s != "" {
		if err := utils.UnmarshalString(s, &env.Headers); err != nil {
			return nil, fmt.Errorf("environment %s: invalid headers: %w", m.Code, err)
		}
	}
	if s := deref(m.BaseParams); s != "" {
		if err := utils.UnmarshalString(s, &env.BaseParams); err != nil {
			return nil, fmt.Errorf("environment %s: invalid base_params: %w", m.Code, err)
		}
	}
	return env, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
