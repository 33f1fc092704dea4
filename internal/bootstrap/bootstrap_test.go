package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eldenheights/ehsas/internal/app/models"
	"github.com/eldenheights/ehsas/internal/app/models/dto"
	"github.com/eldenheights/ehsas/internal/app/repositories/memory"
	"github.com/eldenheights/ehsas/internal/config"
	pkgAuth "github.com/eldenheights/ehsas/internal/pkg/auth"
)

const (
	testSecret   = "integration-secret"
	testAdmin    = "admin@eldenheights.org"
	testPassword = "s3cret-pass"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.Mode = "test"
	cfg.Database.Driver = config.DriverMemory
	cfg.JWT.Secret = testSecret
	cfg.JWT.Expiration = "1h"
	cfg.JWT.Issuer = "ehsas"
	cfg.Auth.Mode = config.AuthModeLocal
	cfg.Admin.Email = testAdmin
	cfg.Admin.Password = testPassword
	cfg.Email.Provider = config.EmailProviderLog
	cfg.Email.OperatorAddress = "ops@eldenheights.org"
	cfg.Email.Timeout = "1s"
	cfg.RateLimit.Backend = config.RateLimitMemory
	cfg.RateLimit.PerMinute = 100
	return cfg
}

type testApp struct {
	t      *testing.T
	router *gin.Engine
	deps   *Dependencies
}

func newTestApp(t *testing.T, cfg *config.Config) *testApp {
	t.Helper()
	lgr := zerolog.Nop()
	store := &Store{Repos: memory.NewRepositories()}
	deps, err := BuildDependencies(context.Background(), cfg, store, nil, lgr)
	require.NoError(t, err)
	return &testApp{t: t, router: SetupRouter(cfg, deps, lgr), deps: deps}
}

func (a *testApp) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	header := http.Header{}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}
	return a.doWithHeader(method, path, header, body)
}

func (a *testApp) doWithHeader(method, path string, header http.Header, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) login() string {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/auth/admin/login", "", dto.LoginRequest{Email: testAdmin, Password: testPassword})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	var resp dto.LoginResponse
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(a.t, resp.Token)
	return resp.Token
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestRegisterApproveFlow(t *testing.T) {
	app := newTestApp(t, testConfig())

	w := app.do(http.MethodPost, "/api/alumni/register", "", map[string]interface{}{
		"first_name":      "Asha",
		"last_name":       "Rao",
		"email":           "Asha@Example.com",
		"mobile":          "+91 98765 43210",
		"year_of_leaving": 2020,
		"city":            "Pune",
		"profession":      "Software Engineer",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	registered := decode[dto.RegisterAlumniResponse](t, w)
	assert.NotEmpty(t, registered.ID)
	assert.True(t, registered.EmailSent)

	// same email, different case
	w = app.do(http.MethodPost, "/api/alumni/register", "", map[string]interface{}{
		"email":           "asha@example.com",
		"year_of_leaving": 2020,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrorCodeDuplicateEmail, decode[dto.ErrorResponse](t, w).Code)

	// not yet listed
	w = app.do(http.MethodGet, "/api/alumni", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]dto.PublicAlumni](t, w))

	token := app.login()

	w = app.do(http.MethodGet, "/api/alumni/pending", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Alumni](t, w), 1)

	w = app.do(http.MethodPut, "/api/alumni/"+registered.ID+"/approve", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	review := decode[dto.ReviewResponse](t, w)
	assert.Equal(t, "EH200001", review.EhsasID)
	assert.Equal(t, "Alumni approved with EHSAS ID: EH200001", review.Message)

	w = app.do(http.MethodPut, "/api/alumni/"+registered.ID+"/approve", token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = app.do(http.MethodGet, "/api/alumni?batch=2020&city=pun", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	dir := decode[[]dto.PublicAlumni](t, w)
	require.Len(t, dir, 1)
	assert.Equal(t, "EH200001", dir[0].EhsasID)
	assert.NotContains(t, w.Body.String(), "asha@example.com")
	assert.NotContains(t, w.Body.String(), "98765")

	w = app.do(http.MethodGet, "/api/admin/stats", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[dto.StatsResponse](t, w)
	assert.Equal(t, 1, stats.TotalAlumni)
	assert.Equal(t, 0, stats.PendingRegistrations)

	w = app.do(http.MethodGet, "/api/admin/notifications", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	notes := decode[[]models.Notification](t, w)
	require.Len(t, notes, 1)
	assert.Equal(t, registered.ID, notes[0].AlumniID)

	w = app.do(http.MethodPut, "/api/admin/notifications/"+notes[0].ID+"/read", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRejectFlow(t *testing.T) {
	app := newTestApp(t, testConfig())
	w := app.do(http.MethodPost, "/api/alumni/register", "", map[string]interface{}{
		"email":           "ravi@example.com",
		"year_of_leaving": 2015,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := decode[dto.RegisterAlumniResponse](t, w).ID

	token := app.login()
	w = app.do(http.MethodPut, "/api/alumni/"+id+"/reject", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Alumni rejected", decode[dto.ReviewResponse](t, w).Message)

	w = app.do(http.MethodPut, "/api/alumni/"+id+"/approve", token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = app.do(http.MethodGet, "/api/alumni/all?status=rejected", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Alumni](t, w), 1)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	app := newTestApp(t, testConfig())

	// a validly signed token for an account that is not an admin
	outsider, _, err := pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   testSecret,
		TokenExpiry: time.Hour,
		TokenIssuer: "ehsas",
	}).GenerateToken("x", "someone@example.com", "admin")
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		status int
		code   dto.ErrorCode
	}{
		{"no token", "", http.StatusUnauthorized, dto.ErrorCodeUnauthorized},
		{"garbage token", "not-a-jwt", http.StatusUnauthorized, dto.ErrorCodeInvalidToken},
		{"unknown account", outsider, http.StatusForbidden, dto.ErrorCodeForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := app.do(http.MethodGet, "/api/alumni/pending", tt.token, nil)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, decode[dto.ErrorResponse](t, w).Code)
		})
	}
}

func TestLoginWrongPassword(t *testing.T) {
	app := newTestApp(t, testConfig())
	w := app.do(http.MethodPost, "/api/auth/admin/login", "", dto.LoginRequest{Email: testAdmin, Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrorCodeInvalidCredentials, decode[dto.ErrorResponse](t, w).Code)
}

func TestMethodNotAllowedAndNotFound(t *testing.T) {
	app := newTestApp(t, testConfig())

	w := app.do(http.MethodDelete, "/api/alumni/register", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, dto.ErrorCodeMethodNotAllowed, decode[dto.ErrorResponse](t, w).Code)

	w = app.do(http.MethodGet, "/api/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEventLifecycle(t *testing.T) {
	app := newTestApp(t, testConfig())
	token := app.login()

	w := app.do(http.MethodPost, "/api/events", token, dto.CreateEventRequest{Title: "Annual Reunion", Date: "2025-12-20"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	event := decode[models.Event](t, w)
	assert.True(t, event.IsActive)

	w = app.do(http.MethodPut, "/api/events/"+event.ID, token, map[string]interface{}{"is_active": false})
	require.Equal(t, http.StatusOK, w.Code)

	w = app.do(http.MethodGet, "/api/events", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]models.Event](t, w))

	w = app.do(http.MethodGet, "/api/events?active_only=false", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Event](t, w), 1)

	w = app.do(http.MethodGet, "/api/events/"+event.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, dto.ErrorCodeResourceNotFound, decode[dto.ErrorResponse](t, w).Code)

	w = app.do(http.MethodGet, "/api/events/"+event.ID+"?active_only=false", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[models.Event](t, w).IsActive)

	w = app.do(http.MethodDelete, "/api/events/"+event.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = app.do(http.MethodGet, "/api/events/"+event.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSpotlightHiddenEntry(t *testing.T) {
	app := newTestApp(t, testConfig())
	token := app.login()

	w := app.do(http.MethodPost, "/api/spotlight", token, dto.CreateSpotlightRequest{Name: "Dr. Meera", Category: "doctor"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	entry := decode[models.Spotlight](t, w)

	w = app.do(http.MethodGet, "/api/spotlight/"+entry.ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = app.do(http.MethodPut, "/api/spotlight/"+entry.ID, token, map[string]interface{}{"is_featured": false})
	require.Equal(t, http.StatusOK, w.Code)

	w = app.do(http.MethodGet, "/api/spotlight/"+entry.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.do(http.MethodGet, "/api/spotlight/"+entry.ID+"?featured_only=false", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[models.Spotlight](t, w).IsFeatured)

	// admin writes still reach the hidden entry
	w = app.do(http.MethodDelete, "/api/spotlight/"+entry.ID, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRegisterRateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.PerMinute = 1
	app := newTestApp(t, cfg)

	body := map[string]interface{}{"email": "first@example.com", "year_of_leaving": 2010}
	w := app.do(http.MethodPost, "/api/alumni/register", "", body)
	require.Equal(t, http.StatusCreated, w.Code)

	body["email"] = "second@example.com"
	w = app.do(http.MethodPost, "/api/alumni/register", "", body)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
}

func TestRegisterRateLimitIgnoresUntrustedForwardedFor(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.PerMinute = 2
	app := newTestApp(t, cfg)

	codes := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		header := http.Header{}
		header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i+1))
		w := app.doWithHeader(http.MethodPost, "/api/alumni/register", header, map[string]interface{}{
			"email":           fmt.Sprintf("spoof%d@example.com", i),
			"year_of_leaving": 2010,
		})
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusCreated, http.StatusCreated, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)
}

func TestRegisterRateLimitHonoursTrustedProxy(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.PerMinute = 1
	cfg.Server.TrustedProxies = []string{"192.0.2.0/24"}
	app := newTestApp(t, cfg)

	for i := 0; i < 3; i++ {
		header := http.Header{}
		header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i+1))
		w := app.doWithHeader(http.MethodPost, "/api/alumni/register", header, map[string]interface{}{
			"email":           fmt.Sprintf("proxied%d@example.com", i),
			"year_of_leaving": 2010,
		})
		assert.Equal(t, http.StatusCreated, w.Code, "client %d", i)
	}
}

func TestInvalidTrustedProxiesFallBackToPeer(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.PerMinute = 1
	cfg.Server.TrustedProxies = []string{"not-an-ip"}
	app := newTestApp(t, cfg)

	for i, want := range []int{http.StatusCreated, http.StatusTooManyRequests} {
		header := http.Header{}
		header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i+1))
		w := app.doWithHeader(http.MethodPost, "/api/alumni/register", header, map[string]interface{}{
			"email":           fmt.Sprintf("fallback%d@example.com", i),
			"year_of_leaving": 2010,
		})
		assert.Equal(t, want, w.Code)
	}
}

func TestRegisterRejectsLineBreakInName(t *testing.T) {
	app := newTestApp(t, testConfig())

	w := app.do(http.MethodPost, "/api/alumni/register", "", map[string]interface{}{
		"first_name":      "Asha\r\nBcc: victim@example.com",
		"last_name":       "Rao",
		"email":           "asha@example.com",
		"year_of_leaving": 2020,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrorCodeValidationFailed, decode[dto.ErrorResponse](t, w).Code)

	w = app.do(http.MethodGet, "/api/alumni/pending", app.login(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]models.Alumni](t, w))
}

func TestHealth(t *testing.T) {
	app := newTestApp(t, testConfig())
	w := app.do(http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode[dto.HealthResponse](t, w).Status)
}

func TestSeedSkippedInFederatedMode(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.Mode = config.AuthModeFederated
	cfg.Auth.ProjectID = "ehsas-test"
	cfg.Auth.KeysURL = "http://127.0.0.1:1/keys"
	app := newTestApp(t, cfg)

	_, err := app.deps.Repos.Admins.GetByEmail(context.Background(), testAdmin)
	assert.Error(t, err)
}
