package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProtected(jwtService jwt.Service, guards ...func(http.Handler) http.Handler) http.Handler {
	var h http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := SessionFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		w.Write([]byte(session.ID))
	})
	for i := len(guards) - 1; i >= 0; i-- {
		h = guards[i](h)
	}
	return jwtauth.Verifier(jwtService.JWTAuth())(AuthRequired(jwtService)(h))
}

func call(t *testing.T, h http.Handler, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuthRequired(t *testing.T) {
	jwtService := jwt.NewJWTService("middleware-test-secret", "1h")
	employee := user.Session{ID: "u1", Username: "nva", FullName: "Nguyen Van A", Role: user.RoleUser}
	token, _, err := jwtService.GenerateAccessToken(employee)
	require.NoError(t, err)

	h := newProtected(jwtService)

	t.Run("valid token stores the session", func(t *testing.T) {
		rec := call(t, h, token)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "u1", rec.Body.String())
	})

	t.Run("missing token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, call(t, h, "").Code)
	})

	t.Run("stream token is not an access token", func(t *testing.T) {
		sseToken, _, err := jwtService.GenerateSSEToken(employee)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, call(t, h, sseToken).Code)
	})

	t.Run("revoked token", func(t *testing.T) {
		jwtService.RevokeToken(token)
		assert.Equal(t, http.StatusUnauthorized, call(t, h, token).Code)
	})
}

func TestAdminOnlyAndRequirePermission(t *testing.T) {
	jwtService := jwt.NewJWTService("middleware-test-secret", "1h")
	userToken, _, err := jwtService.GenerateAccessToken(user.Session{ID: "u1", Role: user.RoleUser})
	require.NoError(t, err)
	adminToken, _, err := jwtService.GenerateAccessToken(user.Session{ID: "a1", Role: user.RoleAdmin})
	require.NoError(t, err)

	admin := newProtected(jwtService, AdminOnly)
	assert.Equal(t, http.StatusForbidden, call(t, admin, userToken).Code)
	assert.Equal(t, http.StatusOK, call(t, admin, adminToken).Code)

	decide := newProtected(jwtService, RequirePermission(user.PermissionRequestDecide))
	assert.Equal(t, http.StatusForbidden, call(t, decide, userToken).Code)
	assert.Equal(t, http.StatusOK, call(t, decide, adminToken).Code)

	create := newProtected(jwtService, RequirePermission(user.PermissionRequestCreate))
	assert.Equal(t, http.StatusOK, call(t, create, userToken).Code)
}

func TestGetSession_WithoutSession(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	_, ok := GetSession(rec, req)
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	_, ok = SessionFromContext(WithSession(req.Context(), user.Session{}))
	assert.False(t, ok)
}
