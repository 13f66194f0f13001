package flow

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"

	"yqhp/lms-tools/internal/lms"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// routeSender 按路径返回固定响应体，记录所有请求
type routeSender struct {
	mu     sync.Mutex
	routes map[string]func(lms.Request) string
	reqs   []lms.Request
}

func newRouteSender() *routeSender {
	return &routeSender{routes: make(map[string]func(lms.Request) string)}
}

func (s *routeSender) on(path string, fn func(lms.Request) string) *routeSender {
	s.routes[path] = fn
	return s
}

func (s *routeSender) reply(path, body string) *routeSender {
	return s.on(path, func(lms.Request) string { return body })
}

func (s *routeSender) Send(_ context.Context, req lms.Request) *lms.SendResult {
	s.mu.Lock()
	s.reqs = append(s.reqs, req)
	fn, ok := s.routes[req.Path]
	s.mu.Unlock()

	history := []lms.HistoryEntry{{Method: http.MethodPost, URL: req.Path, Payload: req.Payload, StatusCode: http.StatusOK}}
	if !ok {
		return &lms.SendResult{Success: false, StatusCode: 404, Error: "HTTP 404: Not Found", RequestHistory: history}
	}
	body := fn(req)
	env, _ := lms.ParseEnvelope([]byte(body))
	return &lms.SendResult{Success: true, StatusCode: http.StatusOK, Data: env, Body: []byte(body), RequestHistory: history}
}

func (s *routeSender) paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.reqs))
	for _, r := range s.reqs {
		out = append(out, r.Path)
	}
	return out
}

func (s *routeSender) requests(path string) []lms.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []lms.Request
	for _, r := range s.reqs {
		if r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

func TestSyllabusStatusFlow(t *testing.T) {
	sender := newRouteSender().
		reply("/syllabus/search", `{"success":true,"result":[{"iid":1,"name":"A","code":"a"},{"iid":2,"name":"B"},{"iid":3}]}`).
		on("/syllabus/change-status", func(req lms.Request) string {
			if req.Payload["iid"] == "2" {
				return `{"success":false,"message":"bad state"}`
			}
			return `{"success":true}`
		})

	f := &SyllabusStatusFlow{Filter: lms.SearchSyllabusesParams{Status: []string{"queued"}}, TargetStatus: "approved"}
	r := NewRunner(f, sender)
	summary, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, []ItemError{{Item: "B", Message: "bad state"}}, summary.Errors)

	search := sender.requests("/syllabus/search")
	require.Len(t, search, 1)
	assert.Equal(t, []string{"queued"}, search[0].Payload["status"])
	for _, req := range sender.requests("/syllabus/change-status") {
		assert.Equal(t, "approved", req.Payload["status"])
	}

	snap := r.Snapshot()
	assert.Equal(t, "A (a)", snap.Items[0].Label)
	assert.Equal(t, "3", snap.Items[2].Label)
	assert.Len(t, snap.History, 4)
}

func TestSequentialSettingsFlow_SearchFailure(t *testing.T) {
	sender := newRouteSender().reply("/syllabus/search", `{"success":false,"msg":"no permission"}`)

	r := NewRunner(&SequentialSettingsFlow{}, sender)
	_, err := r.Run(context.Background())
	require.EqualError(t, err, "no permission")
	assert.Equal(t, StateIdle, r.State())
	assert.Equal(t, []string{"/syllabus/search"}, sender.paths())
}

func TestSequentialSettingsFlow(t *testing.T) {
	sender := newRouteSender().
		reply("/syllabus/search", `{"success":true,"result":[{"iid":10},{"iid":11}]}`).
		reply("/syllabus/populate-sequential-settings", `{"success":true}`)

	summary, err := NewRunner(&SequentialSettingsFlow{}, sender).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Succeeded)
	reqs := sender.requests("/syllabus/populate-sequential-settings")
	require.Len(t, reqs, 2)
	assert.Equal(t, "10", reqs[0].Payload["iid"])
	assert.Equal(t, 1, reqs[0].Payload["sequential_learning"])
}

func TestQuestionBankFlow(t *testing.T) {
	sender := newRouteSender().
		reply("/question-bank/search", `{"success":true,"result":[{"iid":"b1","name":"Bank 1"}]}`).
		reply("/question/get-by-tags", `{"success":true,"result":[{"iid":1},{"iid":2}]}`)

	r := NewRunner(&QuestionBankFlow{Name: "Bank", Tags: []string{"easy"}}, sender)
	summary, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Succeeded)

	out, ok := r.Snapshot().Results[0].Output.(QuestionBankOutput)
	require.True(t, ok)
	assert.Equal(t, 2, out.Count)
	reqs := sender.requests("/question/get-by-tags")
	require.Len(t, reqs, 1)
	assert.Equal(t, "b1", reqs[0].Payload["bank_iid"])
	assert.Equal(t, []string{"easy"}, reqs[0].Payload["tags"])
}

func TestProgramCloneFlow(t *testing.T) {
	sender := newRouteSender().
		reply("/program/search", `{"success":true,"result":[{"iid":5,"name":"P"}]}`).
		reply("/program/clone", `{"success":true,"result":{"iid":55}}`)

	_, err := NewRunner(&ProgramCloneFlow{}, sender).Run(context.Background())
	require.EqualError(t, err, "target domain is required")

	summary, err := NewRunner(&ProgramCloneFlow{TargetDmn: "school-b"}, sender).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Succeeded)
	reqs := sender.requests("/program/clone")
	require.Len(t, reqs, 1)
	assert.Equal(t, []any{"5"}, reqs[0].Payload["program_iids"])
	assert.Equal(t, "school-b", reqs[0].Payload["target_dmn"])
}

func TestUserMergeFlow(t *testing.T) {
	sender := newRouteSender().
		on("/user/search", func(req lms.Request) string {
			switch req.Payload["code"] {
			case "old":
				return `{"success":true,"result":[{"iid":1,"code":"old"}]}`
			case "new":
				return `{"success":true,"result":[{"iid":2,"code":"new"}]}`
			}
			return `{"success":true,"result":[]}`
		}).
		reply("/user/copy-learning-data", `{"success":true}`)

	r := NewRunner(&UserMergeFlow{Pairs: []UserPair{{From: "old", To: "new"}}}, sender)
	summary, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, "old -> new", r.Snapshot().Items[0].Label)

	reqs := sender.requests("/user/copy-learning-data")
	require.Len(t, reqs, 1)
	assert.Equal(t, json.Number("1"), reqs[0].Payload["from_user_iid"])
	assert.Equal(t, json.Number("2"), reqs[0].Payload["to_user_iid"])

	_, err = NewRunner(&UserMergeFlow{Pairs: []UserPair{{From: "old", To: "ghost"}}}, sender).Run(context.Background())
	require.EqualError(t, err, "[ghost] User not found")

	_, err = NewRunner(&UserMergeFlow{}, sender).Run(context.Background())
	require.Error(t, err)
}

func TestKPITimerFlow(t *testing.T) {
	sender := newRouteSender().
		reply("/kpi/timer/search", `{"success":true,"result":[{"iid":1,"name":"Quiz"},{"iid":2,"name":"Exam"}]}`).
		reply("/kpi/timer/update", `{"success":true}`)

	_, err := NewRunner(&KPITimerFlow{}, sender).Run(context.Background())
	require.EqualError(t, err, "duration must be positive")

	summary, err := NewRunner(&KPITimerFlow{Duration: 30}, sender).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Succeeded)
	for _, req := range sender.requests("/kpi/timer/update") {
		assert.Equal(t, 30, req.Payload["duration"])
	}
}

func TestDomainCreateFlow(t *testing.T) {
	sender := newRouteSender().
		reply("/domain/groups", `{"success":true,"result":[{"iid":9,"name":"Schools","code":"sch"}]}`).
		reply("/domain/new", `{"success":true}`)

	f := &DomainCreateFlow{Group: "SCH", Slugs: []string{"a", " b ", "a", ""}}
	r := NewRunner(f, sender)
	summary, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Total)

	reqs := sender.requests("/domain/new")
	require.Len(t, reqs, 2)
	assert.Equal(t, "a", reqs[0].Payload["slug"])
	assert.Equal(t, "b", reqs[1].Payload["slug"])
	assert.Equal(t, json.Number("9"), reqs[0].Payload["group_iid"])

	_, err = NewRunner(&DomainCreateFlow{Group: "nope", Slugs: []string{"x"}}, sender).Run(context.Background())
	require.EqualError(t, err, `domain group "nope" not found`)
}

func TestSyllabusStatusFlow_LargeIID(t *testing.T) {
	sender := newRouteSender().
		reply("/syllabus/search", `{"success":true,"result":[{"iid":9007199254740993,"name":"Big"}]}`).
		reply("/syllabus/change-status", `{"success":true}`)

	r := NewRunner(&SyllabusStatusFlow{TargetStatus: "approved"}, sender)
	summary, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, "9007199254740993", r.Snapshot().Items[0].ID)

	reqs := sender.requests("/syllabus/change-status")
	require.Len(t, reqs, 1)
	assert.Equal(t, "9007199254740993", reqs[0].Payload["iid"])
	assert.Equal(t, "9007199254740993", lms.IDString(reqs[0].Payload["iid"]))
}

func TestFlow_EmptySearchFinishesWithZeroSummary(t *testing.T) {
	sender := newRouteSender().reply("/kpi/timer/search", `{"success":true,"result":[]}`)

	r := NewRunner(&KPITimerFlow{Duration: 10}, sender)
	summary, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Total)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, StateDone, r.State())
	assert.Empty(t, sender.requests("/kpi/timer/update"))
}
