package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JBSiena/PulseChat/internal/middleware"
)

const testSecret = "unit-test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func runAuth(t *testing.T, configure func(r *http.Request)) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("GET", "/protected", nil)
	configure(c.Request)
	middleware.Auth(testSecret)(c)
	return w, c
}

func TestAuth_ValidBearerToken(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"user_id": 7,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	w, c := runAuth(t, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})

	assert.False(t, c.IsAborted())
	assert.Equal(t, http.StatusOK, w.Code)
	userID, exists := c.Get("user_id")
	require.True(t, exists)
	assert.Equal(t, uint(7), userID)
}

func TestAuth_QueryParamFallback(t *testing.T) {
	// WebSocket handshakes cannot set headers; the token rides the URL.
	token := signToken(t, testSecret, jwt.MapClaims{
		"user_id": 7,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	w, c := runAuth(t, func(r *http.Request) {
		q := r.URL.Query()
		q.Set("token", token)
		r.URL.RawQuery = q.Encode()
	})

	assert.False(t, c.IsAborted())
	assert.Equal(t, http.StatusOK, w.Code)
	userID, _ := c.Get("user_id")
	assert.Equal(t, uint(7), userID)
}

func TestAuth_MissingToken(t *testing.T) {
	w, c := runAuth(t, func(r *http.Request) {})

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_ExpiredToken(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"user_id": 7,
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})

	w, c := runAuth(t, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_WrongSecret(t *testing.T) {
	token := signToken(t, "some-other-secret", jwt.MapClaims{
		"user_id": 7,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	w, c := runAuth(t, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_MalformedHeader(t *testing.T) {
	w, c := runAuth(t, func(r *http.Request) {
		r.Header.Set("Authorization", "NotBearer whatever")
	})

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
