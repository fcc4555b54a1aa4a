package router_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/NamigGuliyef/avian-chat-sub000/config"
	authmodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/auth/models"
	authrouter "github.com/NamigGuliyef/avian-chat-sub000/internal/api/auth/router"
	hierrouter "github.com/NamigGuliyef/avian-chat-sub000/internal/api/hierarchy/router"
	reportrouter "github.com/NamigGuliyef/avian-chat-sub000/internal/api/report/router"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/api/router"
	sheetrouter "github.com/NamigGuliyef/avian-chat-sub000/internal/api/sheet/router"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/bootstrap"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/store/memory"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Code    interface{}     `json:"code"`
	Message string          `json:"message"`
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
}

type api struct {
	app    *fiber.App
	tokens map[authmodels.Role]string
}

func newAPI(t *testing.T) *api {
	t.Helper()
	cfg := &config.Configuration{
		JwtSecret:              "test-secret",
		JwtIssuer:              "test",
		Row_MaxLimit:           1000,
		Row_DefaultLimit:       50,
		Report_Locale:          "en",
		Report_DefaultPageSize: 25,
		Report_VisibleColumns:  8,
		Permission_MaxRetries:  3,
	}
	st := memory.New()
	svc := bootstrap.NewServices(st, cfg)

	app := fiber.New()
	require.NoError(t, router.SetupRoutes(app, svc.Tokens,
		router.RegisterSystem(nil),
		authrouter.Register(svc.Users),
		hierrouter.Register(st, svc.Users),
		sheetrouter.Register(sheetrouter.Services{Columns: svc.Columns, Rows: svc.Rows, Permissions: svc.Permissions, Imports: svc.Imports, DefaultLimit: cfg.Row_DefaultLimit}),
		reportrouter.Register(svc.Reports),
	))

	a := &api{app: app, tokens: map[authmodels.Role]string{}}
	for _, role := range []authmodels.Role{authmodels.RoleAdmin, authmodels.RoleAgent} {
		user, err := st.Users.Insert(context.Background(), authmodels.User{Name: string(role), Role: role})
		require.NoError(t, err)
		token, err := svc.Tokens.Issue(user, time.Hour)
		require.NoError(t, err)
		a.tokens[role] = token
	}
	return a
}

func (a *api) do(t *testing.T, method, target, token, body string) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := a.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func TestHealthNeedsNoToken(t *testing.T) {
	a := newAPI(t)
	status, env := a.do(t, http.MethodGet, "/api/v1/system/health", "", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "success", env.Status)
	assert.Contains(t, string(env.Data), `"database":"memory"`)
}

func TestAuthAndRoleGates(t *testing.T) {
	a := newAPI(t)

	status, env := a.do(t, http.MethodGet, "/api/v1/companies", "", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "AUTH_001", env.Code)

	status, env = a.do(t, http.MethodGet, "/api/v1/companies", "not-a-jwt", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "error", env.Status)

	status, env = a.do(t, http.MethodPost, "/api/v1/companies", a.tokens[authmodels.RoleAgent], `{"name":"Acme"}`)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "AUTH_003", env.Code)
}

func TestCompanyThenReport(t *testing.T) {
	a := newAPI(t)
	admin := a.tokens[authmodels.RoleAdmin]

	status, env := a.do(t, http.MethodPost, "/api/v1/companies", admin, `{"name":"Acme"}`)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "success", env.Status)

	status, env = a.do(t, http.MethodPost, "/api/v1/companies", admin, `{"name":""}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VAL_001", env.Code)

	status, env = a.do(t, http.MethodGet, "/api/v1/report", admin, "")
	require.Equal(t, http.StatusOK, status)
	var page struct {
		Items []map[string]string `json:"items"`
		Total int                 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Empty(t, page.Items)
	assert.Equal(t, 0, page.Total)

	status, env = a.do(t, http.MethodGet, "/api/v1/report?query="+url.QueryEscape("{bad"), admin, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VAL_002", env.Code)
}

func TestUnknownSheetIsNotFound(t *testing.T) {
	a := newAPI(t)
	status, env := a.do(t, http.MethodGet, "/api/v1/sheets/64b7f0c2a1b2c3d4e5f60718/rows", a.tokens[authmodels.RoleAdmin], "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "RES_001", env.Code)
}
