package lms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
)

// stubLMS 模拟 LMS 服务，记录收到的请求
type stubLMS struct {
	*httptest.Server

	mu       sync.Mutex
	requests []stubRequest
	logins   atomic.Int32
	routes   map[string]http.HandlerFunc
}

type stubRequest struct {
	Method string
	Path   string
	Form   url.Values
	Header http.Header
}

func newStubLMS(t *testing.T) *stubLMS {
	t.Helper()
	s := &stubLMS{routes: make(map[string]http.HandlerFunc)}
	s.handle(LoginPath, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"success": true,
			"result": map[string]any{
				"token":              "tok-" + r.Form.Get("lname"),
				"iid":                7,
				"id":                 "u1",
				"user_organizations": []any{"org-1"},
			},
		})
	})
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

func (s *stubLMS) handle(path string, fn http.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[path] = fn
}

func (s *stubLMS) serve(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	if r.URL.Path == LoginPath {
		s.logins.Add(1)
	}

	s.mu.Lock()
	s.requests = append(s.requests, stubRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Form:   r.Form,
		Header: r.Header.Clone(),
	})
	fn, ok := s.routes[r.URL.Path]
	s.mu.Unlock()

	if !ok {
		writeJSON(w, map[string]any{"success": true, "result": []any{}})
		return
	}
	fn(w, r)
}

func (s *stubLMS) Requests() []stubRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]stubRequest(nil), s.requests...)
}

func (s *stubLMS) env() *Environment {
	return &Environment{
		ID:             "test",
		Name:           "Test",
		Domain:         "demo",
		Host:           s.URL,
		Headers:        map[string]string{"X-Client": "lms-tools"},
		BaseParams:     map[string]any{"lang": "en"},
		UserCode:       "alice",
		MasterPassword: "master-pw",
		RootPassword:   "root-pw",
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// fakeSender 不走 HTTP 的 Sender
type fakeSender struct {
	mu   sync.Mutex
	reqs []Request
	fn   func(Request) *SendResult
}

func (f *fakeSender) Send(_ context.Context, req Request) *SendResult {
	f.mu.Lock()
	f.reqs = append(f.reqs, req)
	f.mu.Unlock()
	return f.fn(req)
}

func (f *fakeSender) last() Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reqs[len(f.reqs)-1]
}

// okBody 构造成功的 SendResult
func okBody(t *testing.T, body string) *SendResult {
	t.Helper()
	env, err := ParseEnvelope([]byte(body))
	if err != nil {
		t.Fatalf("parse envelope: %v", err)
	}
	return &SendResult{
		Success:        true,
		StatusCode:     http.StatusOK,
		Data:           env,
		Body:           []byte(body),
		RequestHistory: []HistoryEntry{{Method: http.MethodPost, URL: "http://lms/test", StatusCode: http.StatusOK}},
	}
}
