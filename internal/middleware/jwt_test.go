package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectnexus/nexus-backend/internal/utils"
)

func protectedEcho(issuer *utils.TokenIssuer) *echo.Echo {
	e := echo.New()
	e.GET("/protected", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"user_id": c.Get(CtxUserID),
			"email":   c.Get(CtxEmail),
			"role":    c.Get(CtxRole),
		})
	}, JWTAuth(issuer))
	return e
}

func get(e *echo.Echo, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func errCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	code, _ := body["code"].(string)
	return code
}

func TestJWTAuth_ValidToken(t *testing.T) {
	t.Parallel()

	issuer := utils.NewTokenIssuer("s1", "s2", time.Minute, time.Hour)
	tok, _, err := issuer.IssueAccess("user-1", "a@x.com", "admin")
	require.NoError(t, err)

	rec := get(protectedEcho(issuer), "Bearer "+tok)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "user-1", body["user_id"])
	assert.Equal(t, "a@x.com", body["email"])
	assert.Equal(t, "admin", body["role"])
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	t.Parallel()

	issuer := utils.NewTokenIssuer("s1", "s2", time.Minute, time.Hour)
	e := protectedEcho(issuer)

	for _, header := range []string{"", "Basic abc", "bearer lowercase"} {
		rec := get(e, header)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, CodeAuthRequired, errCode(t, rec))
	}
}

// Expired and tampered tokens both fail with 401 but carry different codes
// so clients know whether a refresh attempt is worthwhile.
func TestJWTAuth_ExpiredVsInvalid(t *testing.T) {
	t.Parallel()

	issuer := utils.NewTokenIssuer("s1", "s2", -time.Minute, time.Hour)
	expired, _, err := issuer.IssueAccess("user-1", "a@x.com", "user")
	require.NoError(t, err)

	live := utils.NewTokenIssuer("s1", "s2", time.Minute, time.Hour)
	e := protectedEcho(live)

	rec := get(e, "Bearer "+expired)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, CodeTokenExpired, errCode(t, rec))

	good, _, err := live.IssueAccess("user-1", "a@x.com", "user")
	require.NoError(t, err)
	rec = get(e, "Bearer "+good[:len(good)-2]+"xx")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, CodeTokenInvalid, errCode(t, rec))
}

func TestJWTAuth_RefreshTokenRejected(t *testing.T) {
	t.Parallel()

	issuer := utils.NewTokenIssuer("s1", "s2", time.Minute, time.Hour)
	refresh, _, err := issuer.IssueRefresh("user-1")
	require.NoError(t, err)

	rec := get(protectedEcho(issuer), "Bearer "+refresh)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, CodeTokenInvalid, errCode(t, rec))
}

func TestRequireRole(t *testing.T) {
	t.Parallel()

	e := echo.New()
	handler := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }
	e.GET("/admin", handler, func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(CtxRole, c.QueryParam("as"))
			return next(c)
		}
	}, RequireRole("admin"))

	req := httptest.NewRequest(http.MethodGet, "/admin?as=admin", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/admin?as=user", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
