package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoub-kd/costume-rental/internal/model"
	"github.com/ayoub-kd/costume-rental/internal/utils"
)

const testSecret = "test-secret"

func runMiddleware(t *testing.T, mw echo.MiddlewareFunc, authHeader string, setup func(echo.Context)) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if setup != nil {
		setup(c)
	}

	called := false
	h := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return rec, called
}

func TestJWTAuthMissingHeader(t *testing.T) {
	rec, called := runMiddleware(t, JWTAuth(testSecret), "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestJWTAuthBadToken(t *testing.T) {
	rec, called := runMiddleware(t, JWTAuth(testSecret), "Bearer not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestJWTAuthWrongSecret(t *testing.T) {
	at, err := utils.NewAccessToken("other-secret", 7, model.RoleUser, 15)
	require.NoError(t, err)

	rec, called := runMiddleware(t, JWTAuth(testSecret), "Bearer "+at.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestJWTAuthStoresPrincipal(t *testing.T) {
	at, err := utils.NewAccessToken(testSecret, 7, model.RoleAdmin, 15)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+at.Token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := JWTAuth(testSecret)(func(c echo.Context) error {
		assert.Equal(t, uint64(7), c.Get(CtxUserID))
		assert.Equal(t, model.RoleAdmin, c.Get(CtxRole))
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoleForbidsNonAdmin(t *testing.T) {
	rec, called := runMiddleware(t, RequireRole(model.RoleAdmin), "", func(c echo.Context) {
		c.Set(CtxRole, model.RoleUser)
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unauthorized. Admin access required.")
	assert.False(t, called)
}

func TestRequireRoleForbidsMissingRole(t *testing.T) {
	rec, called := runMiddleware(t, RequireRole(model.RoleAdmin), "", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, called)
}

func TestRequireRoleAllowsAdmin(t *testing.T) {
	rec, called := runMiddleware(t, RequireRole(model.RoleAdmin), "", func(c echo.Context) {
		c.Set(CtxRole, model.RoleAdmin)
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
}
