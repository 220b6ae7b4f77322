package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	u := &User{Password: "hunter22"}
	require.NoError(t, u.HashPassword())
	require.NotEmpty(t, u.PasswordHash)
	assert.NotEqual(t, "hunter22", u.PasswordHash)

	assert.NoError(t, u.CheckPassword("hunter22"))
	assert.Error(t, u.CheckPassword("wrong"))
}

func TestHashPasswordSkipsEmpty(t *testing.T) {
	u := &User{}
	require.NoError(t, u.HashPassword())
	assert.Empty(t, u.PasswordHash)
}
