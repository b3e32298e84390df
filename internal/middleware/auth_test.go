package middleware

import (
	"context"
	"great_awareness_backend/internal/config"
	"great_awareness_backend/internal/model"
	"great_awareness_backend/internal/util"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type account struct {
	status model.UserStatus
	role   model.UserRole
}

type accountMap map[uint]account

func (m accountMap) AccessOf(ctx context.Context, userID uint) (model.UserStatus, model.UserRole, error) {
	a, ok := m[userID]
	if !ok {
		return "", "", util.ErrUserNotFound
	}
	return a.status, a.role, nil
}

var testCfg = &config.Config{JWT: config.JWTConfig{Secret: "middleware-test-secret-0123456789abcdef"}}

func token(t *testing.T, id uint, role model.UserRole) string {
	t.Helper()
	tok, err := util.GenerateJWT(&model.User{BaseModel: model.BaseModel{ID: id}, Email: "u@example.com", Role: role}, testCfg.JWT.Secret, time.Hour)
	require.NoError(t, err)
	return tok
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		user := util.GetUserFromContext(c)
		if user == nil {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, string(user.Role))
	})
	r.GET("/", handlers...)
	return r
}

func do(r http.Handler, target, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	users := accountMap{
		1: {model.UserActive, model.RoleUser},
		2: {model.UserSuspended, model.RoleUser},
	}
	r := newRouter(AuthMiddleware(testCfg, users))

	tests := []struct {
		name   string
		target string
		bearer string
		want   int
	}{
		{"no token", "/", "", http.StatusUnauthorized},
		{"garbage", "/", "not-a-jwt", http.StatusUnauthorized},
		{"header", "/", token(t, 1, model.RoleUser), http.StatusOK},
		{"query", "/?token=" + token(t, 1, model.RoleUser), "", http.StatusOK},
		{"suspended", "/", token(t, 2, model.RoleUser), http.StatusUnauthorized},
		{"deleted user", "/", token(t, 3, model.RoleUser), http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, tt.target, tt.bearer)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestAuthMiddlewareWrongSecret(t *testing.T) {
	other, err := util.GenerateJWT(&model.User{BaseModel: model.BaseModel{ID: 1}}, "another-secret-entirely-0123456789abcd", time.Hour)
	require.NoError(t, err)

	w := do(newRouter(AuthMiddleware(testCfg, nil)), "/", other)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTryAuthMiddleware(t *testing.T) {
	r := newRouter(TryAuthMiddleware(testCfg, nil))

	w := do(r, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "anonymous", w.Body.String())

	w = do(r, "/", "broken")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "anonymous", w.Body.String())

	w = do(r, "/", token(t, 1, model.RoleContentCreator))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "content_creator", w.Body.String())
}

func TestTryAuthMiddlewareUsesStoredAccount(t *testing.T) {
	users := accountMap{
		1: {model.UserActive, model.RoleUser},
		2: {model.UserSuspended, model.RoleAdmin},
	}
	r := newRouter(TryAuthMiddleware(testCfg, users))

	assert.Equal(t, "user", do(r, "/", token(t, 1, model.RoleAdmin)).Body.String())
	assert.Equal(t, "anonymous", do(r, "/", token(t, 2, model.RoleAdmin)).Body.String())
	assert.Equal(t, "anonymous", do(r, "/", token(t, 3, model.RoleAdmin)).Body.String())
}

func TestRoleMiddlewareUsesStoredRole(t *testing.T) {
	users := accountMap{
		1: {model.UserActive, model.RoleUser},
		2: {model.UserActive, model.RoleContentCreator},
	}
	r := newRouter(AuthMiddleware(testCfg, users), RoleMiddleware(model.RoleContentCreator))

	// demoted since the token was issued
	assert.Equal(t, http.StatusForbidden, do(r, "/", token(t, 1, model.RoleAdmin)).Code)
	// promoted since the token was issued
	w := do(r, "/", token(t, 2, model.RoleUser))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "content_creator", w.Body.String())
}

func TestRoleMiddleware(t *testing.T) {
	r := newRouter(AuthMiddleware(testCfg, nil), RoleMiddleware(model.RoleContentCreator))

	assert.Equal(t, http.StatusForbidden, do(r, "/", token(t, 1, model.RoleUser)).Code)
	assert.Equal(t, http.StatusOK, do(r, "/", token(t, 1, model.RoleContentCreator)).Code)
	assert.Equal(t, http.StatusOK, do(r, "/", token(t, 1, model.RoleAdmin)).Code)

	noAuth := newRouter(RoleMiddleware(model.RoleAdmin))
	assert.Equal(t, http.StatusUnauthorized, do(noAuth, "/", "").Code)
}

func TestRequestID(t *testing.T) {
	r := newRouter(RequestID(), RequestLogger(), Recovery())

	w := do(r, "/", "")
	assert.Len(t, w.Header().Get(util.RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(util.RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(util.RequestIDHeader))
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), Recovery())
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := do(r, "/panic", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
