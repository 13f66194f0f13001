package utils

import (
	"github.com/duke-git/lancet/v2/convertor"
)

// ToString 将任意值转换为字符串，复合类型按 JSON 输出
func ToString(v any) string {
	if v == nil {
		return ""
	}
	return convertor.ToString(v)
}

// ToInt64 将任意值转换为整数
func ToInt64(v any) (int64, error) {
	return convertor.ToInt(v)
}
