package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const uid = "507f1f77bcf86cd799439011"

func init() { gin.SetMode(gin.TestMode) }

func signed(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func authRouter() *gin.Engine {
	r := gin.New()
	r.GET("/me", Auth("k"), func(c *gin.Context) { c.String(http.StatusOK, UserID(c)) })
	return r
}

func call(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth(t *testing.T) {
	r := authRouter()
	exp := time.Now().Add(time.Minute).Unix()

	cases := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"id claim", "Bearer " + signed(t, jwt.SigningMethodHS256, []byte("k"), jwt.MapClaims{"_id": uid, "exp": exp}), http.StatusOK, uid},
		{"sub fallback", "Bearer " + signed(t, jwt.SigningMethodHS256, []byte("k"), jwt.MapClaims{"sub": uid, "exp": exp}), http.StatusOK, uid},
		{"missing", "", http.StatusUnauthorized, ""},
		{"not bearer", "Basic abc", http.StatusUnauthorized, ""},
		{"wrong key", "Bearer " + signed(t, jwt.SigningMethodHS256, []byte("x"), jwt.MapClaims{"_id": uid}), http.StatusUnauthorized, ""},
		{"wrong alg", "Bearer " + signed(t, jwt.SigningMethodHS512, []byte("k"), jwt.MapClaims{"_id": uid}), http.StatusUnauthorized, ""},
		{"expired", "Bearer " + signed(t, jwt.SigningMethodHS256, []byte("k"), jwt.MapClaims{"_id": uid, "exp": time.Now().Add(-time.Minute).Unix()}), http.StatusUnauthorized, ""},
		{"bad id", "Bearer " + signed(t, jwt.SigningMethodHS256, []byte("k"), jwt.MapClaims{"_id": "nope"}), http.StatusUnauthorized, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := call(r, tc.header)
			assert.Equal(t, tc.status, w.Code)
			if tc.body != "" {
				assert.Equal(t, tc.body, w.Body.String())
			}
		})
	}
}

func TestRateLimiter_PerClient(t *testing.T) {
	l := NewRateLimiter(1, 2)
	now := time.Now()

	assert.True(t, l.allow("a", now))
	assert.True(t, l.allow("a", now))
	assert.False(t, l.allow("a", now))
	assert.True(t, l.allow("b", now))
	// 1 rps：一秒后补充一个令牌
	assert.True(t, l.allow("a", now.Add(time.Second)))
}

func TestRateLimiter_SweepsIdleClients(t *testing.T) {
	l := NewRateLimiter(1, 1)
	now := time.Now()
	l.allow("a", now)
	l.allow("b", now)
	require.Len(t, l.clients, 2)

	l.allow("c", now.Add(5*time.Minute))
	assert.Len(t, l.clients, 1)
}
