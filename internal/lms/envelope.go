package lms

import (
	"bytes"
	"encoding/json"
	"fmt"

	"yqhp/lms-tools/common/utils"
)

// DefaultBusinessError 响应体 success=false 且未给出说明时的兜底消息
const DefaultBusinessError = "API returned success=false"

// Envelope LMS 响应信封。
//
// 接受的字段：
//   - success: 仅 JSON 布尔 false 视为业务失败，缺省或其他类型的值视为成功
//   - result:  主体数据；响应体本身是数组时整体作为 result
//   - total:   分页总数，数字或数字字符串
//   - message, msg: 错误说明，按 message → msg → 调用方兜底 的顺序取值
type Envelope struct {
	Success any             `json:"success"`
	Result  json.RawMessage `json:"result"`
	Total   any             `json:"total"`
	Message any             `json:"message"`
	Msg     any             `json:"msg"`

	// Raw 完整响应体
	Raw json.RawMessage `json:"-"`
}

// ParseEnvelope 解析响应体
func ParseEnvelope(body []byte) (*Envelope, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty response body")
	}

	if trimmed[0] == '[' {
		if !utils.Valid(trimmed) {
			return nil, fmt.Errorf("invalid JSON response")
		}
		return &Envelope{Result: json.RawMessage(trimmed), Raw: json.RawMessage(trimmed)}, nil
	}

	var env Envelope
	if err := utils.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("invalid JSON response: %w", err)
	}
	env.Raw = json.RawMessage(trimmed)
	return &env, nil
}

// Failed 响应体是否显式声明 success=false
func (e *Envelope) Failed() bool {
	if e == nil {
		return false
	}
	ok, isBool := e.Success.(bool)
	return isBool && !ok
}

// ErrorMessage 返回业务错误说明
func (e *Envelope) ErrorMessage(fallback string) string {
	if e != nil {
		if s := utils.ToString(e.Message); s != "" {
			return s
		}
		if s := utils.ToString(e.Msg); s != "" {
			return s
		}
	}
	if fallback == "" {
		return DefaultBusinessError
	}
	return fallback
}

// TotalCount 返回 total 字段
func (e *Envelope) TotalCount() (int64, bool) {
	if e == nil || e.Total == nil {
		return 0, false
	}
	n, err := utils.ToInt64(e.Total)
	if err != nil {
		return 0, false
	}
	return n, true
}

// HasResult result 字段是否存在且非 null
func (e *Envelope) HasResult() bool {
	if e == nil {
		return false
	}
	r := bytes.TrimSpace(e.Result)
	return len(r) > 0 && !bytes.Equal(r, []byte("null"))
}

// DecodeResult 将 result 解码为指定类型，result 缺失时返回零值
func DecodeResult[T any](e *Envelope) (T, error) {
	var v T
	if !e.HasResult() {
		return v, nil
	}
	if err := utils.UnmarshalNumber(e.Result, &v); err != nil {
		return v, fmt.Errorf("decode result: %w", err)
	}
	return v, nil
}
