package utils

import (
	"github.com/bytedance/sonic"
)

// Marshal 序列化为 JSON
func Marshal(v any) ([]byte, error) {
	return sonic.Marshal(v)
}

// ToJSONPretty 缩进格式的 JSON 字符串
func ToJSONPretty(v any) (string, error) {
	bytes, err := sonic.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Unmarshal 解析 JSON，解析到 any 时数字为 float64
func Unmarshal(data []byte, v any) error {
	return sonic.Unmarshal(data, v)
}

// numberAPI 解析到 any 时数字保留为 json.Number
var numberAPI = sonic.Config{UseNumber: true}.Froze()

// UnmarshalNumber 解析 JSON，数字保留为 json.Number，超过 2^53 的整数不丢精度
func UnmarshalNumber(data []byte, v any) error {
	return numberAPI.Unmarshal(data, v)
}

// UnmarshalString 解析 JSON 字符串
func UnmarshalString(s string, v any) error {
	return sonic.UnmarshalString(s, v)
}

// Valid 是否为合法 JSON
func Valid(data []byte) bool {
	return sonic.Valid(data)
}
