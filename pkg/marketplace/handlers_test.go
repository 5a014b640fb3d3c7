package marketplace

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manifoldhq/manifold/pkg/observability"
	"github.com/manifoldhq/manifold/pkg/validation"
)

func newTestRouter(t *testing.T) *mux.Router {
	t.Helper()
	svc, _, _ := newTestService(t)
	r := mux.NewRouter()
	NewHandlers(svc).RegisterRoutes(r)
	return r
}

func doJSON(t *testing.T, router *mux.Router, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestValidateManifestEndpoint(t *testing.T) {
	router := newTestRouter(t)

	body := `{
		"name": "Weather",
		"version": "1.0.0",
		"description": "Shows weather",
		"author": "Jane",
		"entry": "index.js",
		"permissions": ["storage.read", "bogus"]
	}`
	rec := doJSON(t, router, "POST", "/api/v1/validate/manifest", body)

	require.Equal(t, http.StatusOK, rec.Code)
	var res validation.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.Valid)
	require.NotNil(t, res.Manifest)
	assert.Equal(t, "index.js", res.Manifest.EntryPoint)
	assert.Contains(t, res.Warnings, "Unknown permission: bogus")
}

func TestValidateManifestEndpoint_Invalid(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, "POST", "/api/v1/validate/manifest", `{"name": "Broken"}`)

	// The exchange succeeds; the payload carries the verdict.
	require.Equal(t, http.StatusOK, rec.Code)
	var res validation.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.False(t, res.Valid)
	assert.Nil(t, res.Manifest)
	assert.NotEmpty(t, res.Errors)
}

func TestValidateManifestEndpoint_BadJSON(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, "POST", "/api/v1/validate/manifest", `{not json`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestValidatePermissionsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, "POST", "/api/v1/validate/permissions",
		`["network.request", {"type": "storage"}, "mystery"]`)

	require.Equal(t, http.StatusOK, rec.Code)
	var check validation.PermissionCheck
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &check))
	assert.False(t, check.Valid)
	assert.ElementsMatch(t, []string{"network-access", "storage-read"},
		permissionStrings(check))
	assert.Contains(t, check.Errors, "Unknown permission: mystery")
}

func permissionStrings(check validation.PermissionCheck) []string {
	out := make([]string, 0, len(check.Normalized))
	for _, p := range check.Normalized {
		out = append(out, string(p))
	}
	return out
}

func TestRuntimeCapabilitiesEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest("GET", "/api/v1/runtime", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var caps map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &caps))
	assert.Contains(t, caps, "environment")
	assert.Contains(t, caps, "can_load_plugins")
}

func TestSubmitEndpoint_BadBody(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, "POST", "/api/v1/plugins", `"just a string"`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouteInstrumentation(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	metrics := observability.NewMetrics(prometheus.NewRegistry())
	svc, err := NewService(db, newMemoryStorage(), quietLogger(), metrics)
	require.NoError(t, err)

	router := mux.NewRouter()
	NewHandlers(svc).RegisterRoutes(router)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/v1/runtime", nil))

	assert.Equal(t, float64(1),
		testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/runtime", "200")))

	// Parameterized routes are labeled by template, not by raw URL.
	mock.ExpectQuery("SELECT (.+) FROM plugins WHERE id").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/v1/plugins/missing", nil))

	assert.Equal(t, float64(1),
		testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/plugins/{id}", "404")))
}

func TestSubmitEndpoint_InvalidManifest(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, "POST", "/api/v1/plugins",
		`{"manifest": {"name": "Broken"}, "archive": null}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "error")
}
