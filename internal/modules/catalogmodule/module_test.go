package catalogmodule

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mantonx/cinelist/internal/config"
	"github.com/mantonx/cinelist/internal/database"
	"github.com/mantonx/cinelist/internal/modules/modulemanager"
)

// fakeTMDb serves a tiny TMDb catalog with a single known movie
func fakeTMDb(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/movie/348", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":348,"title":"Alien","overview":"In space no one can hear you scream.",
			"release_date":"1979-05-25","vote_average":8.1,"vote_count":14000,
			"genres":[{"id":27,"name":"Horror"},{"id":878,"name":"Science Fiction"}]}`)
	})
	mux.HandleFunc("/search/movie", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"page":1,"results":[{"id":348,"title":"Alien","genre_ids":[27,999]}],"total_pages":1,"total_results":1}`)
	})
	mux.HandleFunc("/movie/popular", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	mux.HandleFunc("/movie/500", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func setupModule(t *testing.T, apiKey string) (*Module, *gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(config.DatabaseConfig{
		Type:         "sqlite",
		DatabasePath: filepath.Join(t.TempDir(), "cinelist.db"),
		MaxIdleConns: 1,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	srv := fakeTMDb(t)
	m := NewModule(config.TMDbConfig{
		APIKey:    apiKey,
		BaseURL:   srv.URL,
		Language:  "es-ES",
		Timeout:   2 * time.Second,
		RateLimit: 100,
		Burst:     10,
	})

	registry := modulemanager.NewRegistry()
	registry.Register(m)
	require.NoError(t, registry.LoadAll(db))

	router := gin.New()
	registry.RegisterRoutes(router)
	return m, router, db
}

func call(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestFavoriteLifecycle(t *testing.T) {
	_, router, _ := setupModule(t, "test-key")

	w := call(router, http.MethodPost, "/api/movies/348/favorite", "")
	require.Equal(t, http.StatusCreated, w.Code)

	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, true, created["is_favorite"])
	assert.Equal(t, "1979-05-25", created["release_date"])
	assert.Equal(t, []interface{}{"Horror", "Science Fiction"}, created["genres"])
	id := int(created["id"].(float64))

	// A second add is served from the local row
	w = call(router, http.MethodPost, "/api/movies/348/favorite", "")
	require.Equal(t, http.StatusCreated, w.Code)

	w = call(router, http.MethodGet, "/api/movies/favorites", "")
	require.Equal(t, http.StatusOK, w.Code)
	var favorites []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &favorites))
	require.Len(t, favorites, 1)

	w = call(router, http.MethodDelete, fmt.Sprintf("/api/movies/%d/favorite", id), "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = call(router, http.MethodGet, "/api/movies/favorites", "")
	assert.JSONEq(t, `[]`, w.Body.String())

	w = call(router, http.MethodGet, "/api/movies", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &favorites))
	assert.Len(t, favorites, 1)

	w = call(router, http.MethodDelete, fmt.Sprintf("/api/movies/%d", id), "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = call(router, http.MethodGet, fmt.Sprintf("/api/movies/%d", id), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateDuplicateConflicts(t *testing.T) {
	_, router, _ := setupModule(t, "test-key")

	body := `{"tmdb_id":603,"title":"The Matrix","release_date":"1999-03-31"}`
	assert.Equal(t, http.StatusCreated, call(router, http.MethodPost, "/api/movies", body).Code)
	assert.Equal(t, http.StatusConflict, call(router, http.MethodPost, "/api/movies", body).Code)
}

func TestExternalEndpoints(t *testing.T) {
	_, router, _ := setupModule(t, "test-key")

	w := call(router, http.MethodGet, "/api/movies/search?q=alien", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"genres":["Horror"]`)

	w = call(router, http.MethodGet, "/api/movies/popular", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = call(router, http.MethodGet, "/api/movies/tmdb/999999", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = call(router, http.MethodGet, "/api/movies", "")
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestFailingTMDbLookupIsRetryableNotFound(t *testing.T) {
	_, router, _ := setupModule(t, "test-key")

	w := call(router, http.MethodPost, "/api/movies/500/favorite", "")
	require.Equal(t, http.StatusNotFound, w.Code)

	var resp struct {
		Error struct {
			Code        string                 `json:"code"`
			UserMessage string                 `json:"user_message"`
			Retryable   bool                   `json:"retryable"`
			Context     map[string]interface{} `json:"context"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
	assert.True(t, resp.Error.Retryable)
	assert.NotEmpty(t, resp.Error.UserMessage)
	assert.Equal(t, "tmdb", resp.Error.Context["source"])

	w = call(router, http.MethodGet, "/api/movies/tmdb/999999", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.NotContains(t, w.Body.String(), `"source"`)

	w = call(router, http.MethodGet, "/api/movies", "")
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestHealthCheck(t *testing.T) {
	m, _, db := setupModule(t, "")

	status := m.HealthCheck(context.Background())
	assert.Equal(t, modulemanager.HealthStateDegraded, status.Status)

	require.NoError(t, database.Close(db))
	status = m.HealthCheck(context.Background())
	assert.Equal(t, modulemanager.HealthStateUnhealthy, status.Status)
}

func TestInitRequiresMigration(t *testing.T) {
	assert.Error(t, NewModule(config.TMDbConfig{}).Init())
}
