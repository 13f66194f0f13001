package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestToEnvironment(t *testing.T) {
	m := &TLmsEnvironment{
		ID:             42,
		Code:           "staging",
		Name:           "Staging",
		Domain:         "demo",
		Host:           "https://lms.example.com",
		Headers:        ptr(`{"X-Client":"tools"}`),
		BaseParams:     ptr(`{"lang":"en","page":1}`),
		UserCode:       ptr("admin"),
		MasterPassword: ptr("secret"),
	}
	env, err := m.ToEnvironment()
	require.NoError(t, err)

	assert.Equal(t, "staging", env.ID)
	assert.Equal(t, "Staging", env.Name)
	assert.Equal(t, "demo", env.Domain)
	assert.Equal(t, "https://lms.example.com", env.Host)
	assert.Equal(t, "admin", env.UserCode)
	assert.Equal(t, "secret", env.MasterPassword)
	assert.Empty(t, env.RootPassword)
	assert.Equal(t, map[string]string{"X-Client": "tools"}, env.Headers)
	assert.Equal(t, "en", env.BaseParams["lang"])
	assert.EqualValues(t, 1, env.BaseParams["page"])
	assert.NoError(t, env.Validate())
}

func TestToEnvironment_Empty(t *testing.T) {
	env, err := (&TLmsEnvironment{Code: "x", Domain: "d", Host: "http://h"}).ToEnvironment()
	require.NoError(t, err)
	assert.Nil(t, env.Headers)
	assert.Nil(t, env.BaseParams)
}

func TestToEnvironment_InvalidJSON(t *testing.T) {
	_, err := (&TLmsEnvironment{Code: "x", Headers: ptr("{bad")}).ToEnvironment()
	assert.ErrorContains(t, err, "environment x: invalid headers")

	_, err = (&TLmsEnvironment{Code: "x", BaseParams: ptr("[1,2]")}).ToEnvironment()
	assert.ErrorContains(t, err, "environment x: invalid base_params")
}
