package utils

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Plodera/Fleet-Manager-sub000/internal/models"
)

func TestTokenCarriesSessionID(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	user := &models.User{Model: gorm.Model{ID: 42}, Role: models.RoleStaff}
	tokenString, err := GenerateToken(user, "session-abc")
	require.NoError(t, err)

	token, err := ValidateToken(tokenString)
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, float64(42), claims["id"])
	assert.Equal(t, "staff", claims["role"])
	assert.Equal(t, "session-abc", claims["sid"])
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "first-secret")
	user := &models.User{Model: gorm.Model{ID: 1}, Role: models.RoleCustomer}
	tokenString, err := GenerateToken(user, "sid")
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "other-secret")
	token, err := ValidateToken(tokenString)
	if err == nil {
		assert.False(t, token.Valid)
	} else {
		assert.Error(t, err)
	}
}
