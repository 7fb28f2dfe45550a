// Package tmdb is a read-only client for The Movie Database REST API.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/time/rate"

	"github.com/mantonx/cinelist/internal/config"
	"github.com/mantonx/cinelist/internal/metrics"
	"github.com/mantonx/cinelist/internal/modules/catalogmodule/models"
)

// ErrMissingAPIKey is returned by every call when no key is configured
var ErrMissingAPIKey = errors.New("TMDb API key is required")

// StatusError is returned for non-200 responses
type StatusError struct {
	StatusCode int
	Endpoint   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("TMDb API returned status %d for %s", e.StatusCode, e.Endpoint)
}

// Client handles all TMDb API interactions
type Client struct {
	cfg        config.TMDbConfig
	logger     hclog.Logger
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a TMDb client. Requests are throttled to cfg.RateLimit
// per second and bounded by cfg.Timeout.
func NewClient(cfg config.TMDbConfig, logger hclog.Logger) *Client {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	return &Client{
		cfg:    cfg,
		logger: logger,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), burst),
	}
}

// SearchMovies returns the first page of movies matching query
func (c *Client) SearchMovies(ctx context.Context, query string) ([]models.RawMovie, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", "1")

	var page models.RawPage
	if err := c.get(ctx, "search", "/search/movie", params, &page); err != nil {
		return nil, fmt.Errorf("failed to search movies for %q: %w", query, err)
	}
	return page.Results, nil
}

// GetMovie fetches a movie by TMDb id. A 404 yields nil, nil.
func (c *Client) GetMovie(ctx context.Context, tmdbID int) (*models.RawMovie, error) {
	var movie models.RawMovie
	err := c.get(ctx, "movie", "/movie/"+strconv.Itoa(tmdbID), url.Values{}, &movie)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch movie %d: %w", tmdbID, err)
	}

	// detail responses carry genre objects instead of genre_ids
	if len(movie.GenreIDs) == 0 && len(movie.Genres) > 0 {
		movie.GenreIDs = make([]int, 0, len(movie.Genres))
		for _, g := range movie.Genres {
			movie.GenreIDs = append(movie.GenreIDs, g.ID)
		}
	}
	return &movie, nil
}

// PopularMovies returns the first page of popular movies
func (c *Client) PopularMovies(ctx context.Context) ([]models.RawMovie, error) {
	return c.list(ctx, "popular", "/movie/popular")
}

// TopRatedMovies returns the first page of top rated movies
func (c *Client) TopRatedMovies(ctx context.Context) ([]models.RawMovie, error) {
	return c.list(ctx, "top_rated", "/movie/top_rated")
}

func (c *Client) list(ctx context.Context, endpoint, path string) ([]models.RawMovie, error) {
	params := url.Values{}
	params.Set("page", "1")

	var page models.RawPage
	if err := c.get(ctx, endpoint, path, params, &page); err != nil {
		return nil, fmt.Errorf("failed to fetch %s movies: %w", endpoint, err)
	}
	return page.Results, nil
}

// get performs a rate limited GET and decodes the JSON body into result
func (c *Client) get(ctx context.Context, endpoint, path string, params url.Values, result interface{}) error {
	if c.cfg.APIKey == "" {
		return ErrMissingAPIKey
	}

	waitStart := time.Now()
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	metrics.RateLimitWaitTime.Observe(time.Since(waitStart).Seconds())

	if c.cfg.Language != "" {
		params.Set("language", c.cfg.Language)
	}
	if !c.isJWTToken(c.cfg.APIKey) {
		params.Set("api_key", c.cfg.APIKey)
	}
	reqURL := c.cfg.BaseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if c.isJWTToken(c.cfg.APIKey) {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	c.logger.Debug("making TMDb API request", "endpoint", endpoint, "path", path)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordTMDbRequest(endpoint, "error", time.Since(start).Seconds())
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()
	metrics.RecordTMDbRequest(endpoint, strconv.Itoa(resp.StatusCode), time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{StatusCode: resp.StatusCode, Endpoint: endpoint}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to unmarshal JSON response: %w", err)
	}
	return nil
}

// isJWTToken reports whether the key is a v4 read access token rather than
// a v3 api_key
func (c *Client) isJWTToken(apiKey string) bool {
	return len(apiKey) > 100 && strings.HasPrefix(apiKey, "eyJ")
}
