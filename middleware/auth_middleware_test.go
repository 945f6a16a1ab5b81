package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/earnease/earnease_backend/models"
)

func runWithRole(t *testing.T, mw echo.MiddlewareFunc, role string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != "" {
		c.Set("role", role)
	}

	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	return rec
}

func TestRequireAdmin(t *testing.T) {
	assert.Equal(t, http.StatusOK, runWithRole(t, RequireAdmin(), models.RoleAdmin).Code)
	assert.Equal(t, http.StatusOK, runWithRole(t, RequireAdmin(), models.RoleSuperadmin).Code)
	assert.Equal(t, http.StatusForbidden, runWithRole(t, RequireAdmin(), models.RoleUser).Code)
	assert.Equal(t, http.StatusUnauthorized, runWithRole(t, RequireAdmin(), "").Code)
}

func TestRequireSuperadmin(t *testing.T) {
	assert.Equal(t, http.StatusOK, runWithRole(t, RequireSuperadmin(), models.RoleSuperadmin).Code)
	assert.Equal(t, http.StatusForbidden, runWithRole(t, RequireSuperadmin(), models.RoleAdmin).Code)
	assert.Equal(t, http.StatusForbidden, runWithRole(t, RequireSuperadmin(), models.RoleUser).Code)
}

func TestTokenBlacklist(t *testing.T) {
	token := "test-token-value"
	assert.False(t, IsTokenBlacklisted(token))

	BlacklistToken(token, time.Now().Add(time.Hour))
	assert.True(t, IsTokenBlacklisted(token))
}
