// Package api exposes the catalog over HTTP
package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	httperrors "github.com/mantonx/cinelist/internal/api"
	catalogerrors "github.com/mantonx/cinelist/internal/modules/catalogmodule/errors"
	"github.com/mantonx/cinelist/internal/modules/catalogmodule/models"
)

// CatalogService is the behavior the handlers need from the service layer
type CatalogService interface {
	Save(ctx context.Context, movie *models.Movie) (*models.Movie, error)
	FindByID(ctx context.Context, id uint) (*models.Movie, error)
	ListAll(ctx context.Context) ([]models.Movie, error)
	ListFavorites(ctx context.Context) ([]models.Movie, error)
	Update(ctx context.Context, id uint, patch models.MoviePatch) (*models.Movie, error)
	Delete(ctx context.Context, id uint) error
	AddToFavorites(ctx context.Context, tmdbID int) (*models.Movie, error)
	RemoveFromFavorites(ctx context.Context, id uint) (*models.Movie, error)
	SearchExternal(ctx context.Context, query string) ([]models.Movie, error)
	GetExternalDetails(ctx context.Context, tmdbID int) (*models.Movie, error)
	ListPopularExternal(ctx context.Context) ([]models.Movie, error)
	ListTopRatedExternal(ctx context.Context) ([]models.Movie, error)
}

// Handler provides HTTP handlers for catalog operations
type Handler struct {
	service CatalogService
}

// NewHandler creates a new API handler
func NewHandler(service CatalogService) *Handler {
	return &Handler{service: service}
}

// ListMovies handles GET /api/movies
// Response: array of stored movies, favorite or not
func (h *Handler) ListMovies(c *gin.Context) {
	movies, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponses(movies))
}

// ListFavorites handles GET /api/movies/favorites
func (h *Handler) ListFavorites(c *gin.Context) {
	movies, err := h.service.ListFavorites(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponses(movies))
}

// GetMovie handles GET /api/movies/:id
//
// Path parameters:
//   - id: local movie id
//
// Response: the movie, or 404 when it is not stored
func (h *Handler) GetMovie(c *gin.Context) {
	id, ok := parseLocalID(c)
	if !ok {
		return
	}

	movie, err := h.service.FindByID(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if movie == nil {
		httperrors.RespondWithNotFound(c, "movie", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, toResponse(movie))
}

// CreateMovie handles POST /api/movies
// Body: CreateMovieRequest. Response: 201 with the stored movie.
func (h *Handler) CreateMovie(c *gin.Context) {
	var req CreateMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperrors.RespondWithValidationError(c, "invalid movie payload", err.Error())
		return
	}

	movie := req.toModel()
	saved, err := h.service.Save(c.Request.Context(), &movie)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toResponse(saved))
}

// UpdateMovie handles PUT /api/movies/:id
// Overwrites title, overview, release date, vote average, poster path and
// favorite flag.
func (h *Handler) UpdateMovie(c *gin.Context) {
	id, ok := parseLocalID(c)
	if !ok {
		return
	}

	var req UpdateMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperrors.RespondWithValidationError(c, "invalid movie payload", err.Error())
		return
	}

	updated, err := h.service.Update(c.Request.Context(), id, req.toPatch())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(updated))
}

// DeleteMovie handles DELETE /api/movies/:id
func (h *Handler) DeleteMovie(c *gin.Context) {
	id, ok := parseLocalID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddToFavorites handles POST /api/movies/:id/favorite
//
// Path parameters:
//   - id: TMDb movie id, not the local id
//
// Response: 201 with the stored favorite
func (h *Handler) AddToFavorites(c *gin.Context) {
	tmdbID, ok := parseTmdbID(c, "id")
	if !ok {
		return
	}

	movie, err := h.service.AddToFavorites(c.Request.Context(), tmdbID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toResponse(movie))
}

// RemoveFromFavorites handles DELETE /api/movies/:id/favorite
func (h *Handler) RemoveFromFavorites(c *gin.Context) {
	id, ok := parseLocalID(c)
	if !ok {
		return
	}

	if _, err := h.service.RemoveFromFavorites(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SearchMovies handles GET /api/movies/search
//
// Query parameters:
//   - q: title to search TMDb for (required)
//
// Response: normalized TMDb results; empty when TMDb is unavailable
func (h *Handler) SearchMovies(c *gin.Context) {
	movies, err := h.service.SearchExternal(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponses(movies))
}

// GetPopular handles GET /api/movies/popular
func (h *Handler) GetPopular(c *gin.Context) {
	movies, err := h.service.ListPopularExternal(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponses(movies))
}

// GetTopRated handles GET /api/movies/top-rated
func (h *Handler) GetTopRated(c *gin.Context) {
	movies, err := h.service.ListTopRatedExternal(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponses(movies))
}

// GetTmdbMovie handles GET /api/movies/tmdb/:tmdbId
// Response: the normalized TMDb record, never stored
func (h *Handler) GetTmdbMovie(c *gin.Context) {
	tmdbID, ok := parseTmdbID(c, "tmdbId")
	if !ok {
		return
	}

	movie, err := h.service.GetExternalDetails(c.Request.Context(), tmdbID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(movie))
}

func parseLocalID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		httperrors.RespondWithValidationError(c, "invalid movie id", c.Param("id"))
		return 0, false
	}
	return uint(id), true
}

func parseTmdbID(c *gin.Context, param string) (int, bool) {
	id, err := strconv.Atoi(c.Param(param))
	if err != nil || id <= 0 {
		httperrors.RespondWithValidationError(c, "invalid tmdb id", c.Param(param))
		return 0, false
	}
	return id, true
}

func respondWithError(c *gin.Context, err error) {
	httperrors.RespondWithError(c, catalogerrors.ToAppError(err))
}
