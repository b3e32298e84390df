package security

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func doRequest(r http.Handler, method, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/ping", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCORS(t *testing.T) {
	r := newRouter(CORS([]string{"http://localhost:3000"}))

	w := doRequest(r, http.MethodGet, "http://localhost:3000")
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	w = doRequest(r, http.MethodGet, "http://evil.example")
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(r, http.MethodOptions, "http://localhost:3000")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestSecureHeaders(t *testing.T) {
	w := doRequest(newRouter(Secure()), http.MethodGet, "")
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(2, time.Hour)
	defer limiter.Stop()
	r := newRouter(limiter.Middleware())

	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "").Code)
	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "").Code)
	assert.Equal(t, http.StatusTooManyRequests, doRequest(r, http.MethodGet, "").Code)

	assert.True(t, limiter.Allow("10.0.0.9"))
	limiter.Stop()
	limiter.Stop()
}

func TestSwappable(t *testing.T) {
	slot := NewSwappable(CORS([]string{"http://a.example"}))
	r := newRouter(slot.Handler())

	assert.Equal(t, "http://a.example", doRequest(r, http.MethodGet, "http://a.example").Header().Get("Access-Control-Allow-Origin"))

	slot.Swap(CORS([]string{"http://b.example"}))
	assert.Empty(t, doRequest(r, http.MethodGet, "http://a.example").Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "http://b.example", doRequest(r, http.MethodGet, "http://b.example").Header().Get("Access-Control-Allow-Origin"))
}
