package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func authRouter() *gin.Engine {
	r := gin.New()
	r.GET("/protected", AuthMiddleware(nil), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	return r
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestAuthMiddlewareRequiresToken(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	authRouter().ServeHTTP(w, req)

	assert.Equal(t, 401, w.Code)
}

func TestAuthMiddlewareRejectsNonNumericIDClaim(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	signed := signToken(t, jwt.MapClaims{
		"id":   "not-a-number",
		"role": "staff",
		"sid":  "abc",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	authRouter().ServeHTTP(w, req)

	assert.Equal(t, 401, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid token claims")
}

func TestAuthMiddlewareRejectsMissingIDClaim(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	signed := signToken(t, jwt.MapClaims{
		"role": "staff",
		"sid":  "abc",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	authRouter().ServeHTTP(w, req)

	assert.Equal(t, 401, w.Code)
}

func TestSupersededSessionGets440(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/protected", nil)

	superseded := respondIfSuperseded(c, "newer-session", "older-session")

	require.True(t, superseded)
	assert.True(t, c.IsAborted())
	assert.Equal(t, StatusSessionInvalidated, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "logged_in_elsewhere", body["reason"])
	assert.Equal(t, "Session invalidated", body["message"])
	assert.NotEmpty(t, body["notification"])
}

func TestCurrentSessionProceeds(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/protected", nil)

	assert.False(t, respondIfSuperseded(c, "session-1", "session-1"))
	assert.False(t, respondIfSuperseded(c, "", "session-1"))
	assert.False(t, c.IsAborted())
}
