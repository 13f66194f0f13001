package lms

import (
	"sync"
	"time"
)

// maskedValue 写入审计记录时替换敏感字段
const maskedValue = "******"

var sensitiveKeys = map[string]struct{}{
	"pass":     {},
	"password": {},
}

// HistoryEntry 一次对外请求的审计记录
type HistoryEntry struct {
	Method       string         `json:"method"`
	URL          string         `json:"url"`
	Payload      map[string]any `json:"payload,omitempty"`
	StatusCode   int            `json:"statusCode"`
	ResponseTime int64          `json:"responseTime"` // 毫秒
	Response     any            `json:"response,omitempty"`
	Error        string         `json:"error,omitempty"`
	Timestamp    time.Time      `json:"timestamp"`
}

// History 单个客户端的请求记录，每次 Send 开始时清空
type History struct {
	mu      sync.Mutex
	entries []HistoryEntry
}

// Reset 清空记录
func (h *History) Reset() {
	h.mu.Lock()
	h.entries = nil
	h.mu.Unlock()
}

// Append 追加一条记录
func (h *History) Append(entry HistoryEntry) {
	h.mu.Lock()
	h.entries = append(h.entries, entry)
	h.mu.Unlock()
}

// replace 整体替换记录
func (h *History) replace(entries []HistoryEntry) {
	h.mu.Lock()
	h.entries = entries
	h.mu.Unlock()
}

// Entries 返回记录副本
func (h *History) Entries() []HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) == 0 {
		return []HistoryEntry{}
	}
	out := make([]HistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len 记录条数
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// maskPayload 复制请求参数并遮蔽密码字段
func maskPayload(params map[string]any) map[string]any {
	if params == nil {
		return nil
	}
	out := make(map[string]any, len(params))
	for k, v := range params {
		if _, ok := sensitiveKeys[k]; ok && v != nil {
			out[k] = maskedValue
			continue
		}
		out[k] = v
	}
	return out
}
