package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminListUsers(t *testing.T) {
	authH, users, _ := newTestHandler()
	register(t, authH, "alice", "a@x.com", "secret1")
	register(t, authH, "bob", "b@x.com", "secret2")

	h := NewAdminHandler(users)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h.ListUsers(e.NewContext(req, rec)))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Success bool             `json:"success"`
		Count   int              `json:"count"`
		Users   []map[string]any `json:"users"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, 2, body.Count)
	assert.Len(t, body.Users, 2)
	assert.NotContains(t, strings.ToLower(rec.Body.String()), "password")
}

func TestAdminListUsers_Empty(t *testing.T) {
	h := NewAdminHandler(newMemUsers())
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h.ListUsers(e.NewContext(req, rec)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"users":[]`)
}
