package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mantonx/cinelist/internal/api"
	"github.com/mantonx/cinelist/internal/config"
	"github.com/mantonx/cinelist/internal/database"
	"github.com/mantonx/cinelist/internal/modules/catalogmodule"
	"github.com/mantonx/cinelist/internal/modules/modulemanager"
)

func setupServer(t *testing.T, mutate func(*config.Config)) (*Server, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.DefaultConfig()
	cfg.Database.DatabasePath = filepath.Join(t.TempDir(), "cinelist.db")
	cfg.TMDb.BaseURL = "http://127.0.0.1:1"
	if mutate != nil {
		mutate(cfg)
	}

	db, err := database.Connect(cfg.Database)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	registry := modulemanager.NewRegistry()
	registry.Register(catalogmodule.NewModule(cfg.TMDb))
	require.NoError(t, registry.LoadAll(db))

	return New(cfg, db, registry), db
}

func get(s *Server, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func TestHealthDegradedWithoutTMDbKey(t *testing.T) {
	s, _ := setupServer(t, nil)

	w := get(s, "/api/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, modulemanager.HealthStateDegraded, resp.Status)
	assert.Equal(t, "ok", resp.Database)
	assert.Contains(t, resp.Modules, catalogmodule.ModuleID)
	assert.Positive(t, resp.System.Goroutines)
}

func TestHealthHealthyWithKey(t *testing.T) {
	s, _ := setupServer(t, func(cfg *config.Config) { cfg.TMDb.APIKey = "key" })

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(get(s, "/api/health", nil).Body.Bytes(), &resp))
	assert.Equal(t, modulemanager.HealthStateHealthy, resp.Status)
}

func TestHealthUnavailableWhenDatabaseClosed(t *testing.T) {
	s, db := setupServer(t, nil)
	require.NoError(t, database.Close(db))

	assert.Equal(t, http.StatusServiceUnavailable, get(s, "/api/health", nil).Code)
	assert.Equal(t, http.StatusServiceUnavailable, get(s, "/api/db-status", nil).Code)
}

func TestDatabaseStatus(t *testing.T) {
	s, _ := setupServer(t, nil)

	w := get(s, "/api/db-status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"type":"sqlite"`)
	assert.Contains(t, w.Body.String(), `"max_open_connections":1`)
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := setupServer(t, nil)
	get(s, "/api/movies", nil)

	w := get(s, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "cinelist_http_requests_total")
}

func TestMetricsDisabled(t *testing.T) {
	s, _ := setupServer(t, func(cfg *config.Config) { cfg.Metrics.Enabled = false })
	assert.Equal(t, http.StatusNotFound, get(s, "/metrics", nil).Code)
}

func TestCatalogRoutesMounted(t *testing.T) {
	s, _ := setupServer(t, nil)

	w := get(s, "/api/movies", map[string]string{"Origin": "http://localhost:5173"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, w.Header().Get(api.RequestIDHeader))
}

func TestCORSDisabled(t *testing.T) {
	s, _ := setupServer(t, func(cfg *config.Config) { cfg.Server.EnableCORS = false })

	w := get(s, "/api/movies", map[string]string{"Origin": "http://localhost:5173"})
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func writeWebClient(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "js"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>cinelist</html>"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "js", "app.js"), []byte("const baseUrl = '/api/movies';"), 0644))
	return dir
}

func TestWebClientServed(t *testing.T) {
	dir := writeWebClient(t)
	s, _ := setupServer(t, func(cfg *config.Config) { cfg.Server.StaticDir = dir })

	w := get(s, "/js/app.js", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/api/movies")
	assert.Contains(t, w.Header().Get("Content-Type"), "javascript")

	w = get(s, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "cinelist")

	t.Run("unknown page falls back to index", func(t *testing.T) {
		w := get(s, "/favorites", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "cinelist")
	})

	t.Run("unknown api path stays json", func(t *testing.T) {
		w := get(s, "/api/nope", nil)
		require.Equal(t, http.StatusNotFound, w.Code)

		var resp api.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "NOT_FOUND", resp.Error.Code)
		assert.Equal(t, "/api/nope", resp.Error.Context["id"])
	})

	t.Run("api routes win over the client", func(t *testing.T) {
		w := get(s, "/api/movies", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})
}

func TestWebClientMissing(t *testing.T) {
	s, _ := setupServer(t, func(cfg *config.Config) { cfg.Server.StaticDir = filepath.Join(t.TempDir(), "absent") })

	w := get(s, "/", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"NOT_FOUND"`)
}
