package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardiansyahrf/car-rental-api/internal/model"
	"github.com/ardiansyahrf/car-rental-api/internal/utils"
)

type fakeDenylist struct{ revoked map[string]bool }

func (f *fakeDenylist) IsRevoked(_ context.Context, jti string) bool { return f.revoked[jti] }

func okHandler(c echo.Context) error { return c.NoContent(http.StatusOK) }

func runRequest(mw echo.MiddlewareFunc, authHeader string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	_ = mw(okHandler)(c)
	return rec
}

func TestJWTAuthMissingToken(t *testing.T) {
	rec := runRequest(JWTAuth("secret", nil), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthBadToken(t *testing.T) {
	rec := runRequest(JWTAuth("secret", nil), "Bearer not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthWrongSecret(t *testing.T) {
	tok, err := utils.NewAccessToken("other-secret", 7, model.RoleCustomer, 15)
	require.NoError(t, err)
	rec := runRequest(JWTAuth("secret", nil), "Bearer "+tok.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthValidToken(t *testing.T) {
	tok, err := utils.NewAccessToken("secret", 7, model.RoleCustomer, 15)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotRole, gotJTI string
	h := JWTAuth("secret", nil)(func(c echo.Context) error {
		gotRole, _ = c.Get("role").(string)
		gotJTI, _ = c.Get("jti").(string)
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.RoleCustomer, gotRole)
	assert.Equal(t, tok.JTI, gotJTI)
}

func TestJWTAuthRevokedToken(t *testing.T) {
	tok, err := utils.NewAccessToken("secret", 7, model.RoleCustomer, 15)
	require.NoError(t, err)

	dl := &fakeDenylist{revoked: map[string]bool{tok.JTI: true}}
	rec := runRequest(JWTAuth("secret", dl), "Bearer "+tok.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func requireWithRole(t *testing.T, op Operation, role string) int {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != "" {
		c.Set("role", role)
	}
	require.NoError(t, Require(op)(okHandler)(c))
	return rec.Code
}

func TestRequireAllowsPermittedRole(t *testing.T) {
	assert.Equal(t, http.StatusOK, requireWithRole(t, OpManageCatalog, model.RoleAdmin))
	assert.Equal(t, http.StatusOK, requireWithRole(t, OpRentCar, model.RoleCustomer))
	assert.Equal(t, http.StatusOK, requireWithRole(t, OpRentCar, model.RoleAdmin))
	assert.Equal(t, http.StatusOK, requireWithRole(t, OpManageOwnProfile, model.RoleCustomer))
}

func TestRequireRejectsOtherRole(t *testing.T) {
	assert.Equal(t, http.StatusForbidden, requireWithRole(t, OpManageCatalog, model.RoleCustomer))
	assert.Equal(t, http.StatusForbidden, requireWithRole(t, OpValidatePayment, model.RoleCustomer))
	assert.Equal(t, http.StatusForbidden, requireWithRole(t, OpReturnCar, model.RoleAdmin))
}

func TestRequireRejectsMissingRole(t *testing.T) {
	assert.Equal(t, http.StatusForbidden, requireWithRole(t, OpViewAllRentals, ""))
}

func TestRequireUnknownOperationDeniesAll(t *testing.T) {
	assert.Equal(t, http.StatusForbidden, requireWithRole(t, Operation("nope"), model.RoleAdmin))
}
