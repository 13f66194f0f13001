package lms

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnvelope(t *testing.T) {
	t.Run("object", func(t *testing.T) {
		env, err := ParseEnvelope([]byte(`{"success":true,"result":[{"iid":1}],"total":"12"}`))
		require.NoError(t, err)
		assert.False(t, env.Failed())
		assert.True(t, env.HasResult())
		total, ok := env.TotalCount()
		assert.True(t, ok)
		assert.Equal(t, int64(12), total)
	})

	t.Run("top level array", func(t *testing.T) {
		env, err := ParseEnvelope([]byte(` [1,2,3] `))
		require.NoError(t, err)
		list, err := DecodeResult[[]int](env)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3}, list)
	})

	t.Run("missing success is not a failure", func(t *testing.T) {
		env, err := ParseEnvelope([]byte(`{"result":null}`))
		require.NoError(t, err)
		assert.False(t, env.Failed())
		assert.False(t, env.HasResult())
		_, ok := env.TotalCount()
		assert.False(t, ok)
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := ParseEnvelope([]byte(`<html>`))
		assert.Error(t, err)
		_, err = ParseEnvelope([]byte(`  `))
		assert.Error(t, err)
		_, err = ParseEnvelope([]byte(`[1,`))
		assert.Error(t, err)
	})
}

func TestEnvelope_ErrorMessageOrder(t *testing.T) {
	cases := []struct {
		name     string
		body     string
		fallback string
		want     string
	}{
		{"message first", `{"success":false,"message":"m1","msg":"m2"}`, "fb", "m1"},
		{"msg second", `{"success":false,"msg":"m2"}`, "fb", "m2"},
		{"fallback", `{"success":false}`, "fb", "fb"},
		{"default", `{"success":false}`, "", DefaultBusinessError},
		{"non string message", `{"success":false,"message":404}`, "fb", "404"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env, err := ParseEnvelope([]byte(tc.body))
			require.NoError(t, err)
			assert.True(t, env.Failed())
			assert.Equal(t, tc.want, env.ErrorMessage(tc.fallback))
		})
	}
}

// TestEnvelope_NonBoolSuccess 只有布尔 false 表示失败，其他取值不影响解析
func TestEnvelope_NonBoolSuccess(t *testing.T) {
	for _, body := range []string{
		`{"success":1,"result":[{"iid":1}]}`,
		`{"success":"true","result":[{"iid":1}]}`,
		`{"success":"false","result":[{"iid":1}]}`,
		`{"success":null,"result":[{"iid":1}]}`,
	} {
		t.Run(body, func(t *testing.T) {
			env, err := ParseEnvelope([]byte(body))
			require.NoError(t, err)
			assert.False(t, env.Failed())

			sender := &fakeSender{fn: func(Request) *SendResult { return okBody(t, body) }}
			res := SearchSyllabuses(context.Background(), sender, SearchSyllabusesParams{})
			require.True(t, res.Success, res.Error)
			require.Len(t, res.Data, 1)
			assert.Equal(t, "1", IDString(res.Data[0].IID))
		})
	}
}

// TestDecodeResult_LargeID 超过 2^53 的整数标识原样保留，编码回请求参数不变
func TestDecodeResult_LargeID(t *testing.T) {
	env, err := ParseEnvelope([]byte(`{"success":true,"result":[{"iid":9007199254740993,"name":"Big"}]}`))
	require.NoError(t, err)

	list, err := DecodeResult[[]Syllabus](env)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, json.Number("9007199254740993"), list[0].IID)
	assert.Equal(t, "9007199254740993", IDString(list[0].IID))
	assert.Equal(t, "iid=9007199254740993", Encode(map[string]any{"iid": list[0].IID}))

	raw, err := DecodeResult[any](env)
	require.NoError(t, err)
	item := raw.([]any)[0].(map[string]any)
	assert.Equal(t, "9007199254740993", IDString(item["iid"]))
}
