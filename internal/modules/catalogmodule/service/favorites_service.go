// Package service implements the catalog's favorites and reconciliation rules
// on top of the persistence and external catalog ports.
package service

import (
	"context"
	"errors"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/mantonx/cinelist/internal/metrics"
	catalogerrors "github.com/mantonx/cinelist/internal/modules/catalogmodule/errors"
	"github.com/mantonx/cinelist/internal/modules/catalogmodule/models"
	"github.com/mantonx/cinelist/internal/modules/catalogmodule/normalizer"
)

// Operation names used in errors, logs and metrics
const (
	OpSave                 = "save_movie"
	OpFindByID             = "find_movie"
	OpListAll              = "list_movies"
	OpListFavorites        = "list_favorites"
	OpUpdate               = "update_movie"
	OpDelete               = "delete_movie"
	OpAddToFavorites       = "add_to_favorites"
	OpRemoveFromFavorites  = "remove_from_favorites"
	OpSearchExternal       = "search_external"
	OpGetExternalDetails   = "get_external_details"
	OpListPopularExternal  = "list_popular_external"
	OpListTopRatedExternal = "list_top_rated_external"
)

// failurePolicy decides what a failed remote call turns into
type failurePolicy int

const (
	// failOpen answers with an empty result
	failOpen failurePolicy = iota
	// failClosed answers with ErrNotFound
	failClosed
)

var externalPolicies = map[string]failurePolicy{
	OpSearchExternal:       failOpen,
	OpListPopularExternal:  failOpen,
	OpListTopRatedExternal: failOpen,
	OpGetExternalDetails:   failClosed,
	OpAddToFavorites:       failClosed,
}

// FavoritesService reconciles the local store with the remote catalog
type FavoritesService struct {
	store   MovieStore
	catalog ExternalCatalog
	logger  hclog.Logger
}

// NewFavoritesService creates the service. A nil logger discards output.
func NewFavoritesService(store MovieStore, catalog ExternalCatalog, logger hclog.Logger) *FavoritesService {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &FavoritesService{
		store:   store,
		catalog: catalog,
		logger:  logger,
	}
}

// Save persists a movie. New movies need a TMDb id and a non-blank title,
// and their TMDb id must not be stored yet. A stored movie keeps its TMDb id.
func (s *FavoritesService) Save(ctx context.Context, movie *models.Movie) (*models.Movie, error) {
	if movie == nil {
		return nil, catalogerrors.InvalidArgument(OpSave, "movie is required")
	}
	if movie.TmdbID == 0 {
		return nil, catalogerrors.InvalidArgument(OpSave, "tmdb id is required")
	}
	if strings.TrimSpace(movie.Title) == "" {
		return nil, catalogerrors.InvalidArgument(OpSave, "title must not be blank")
	}

	if movie.IsPersisted() {
		stored, err := s.store.FindByID(ctx, movie.ID)
		if err != nil {
			return nil, err
		}
		if stored == nil {
			return nil, catalogerrors.NotFound(OpSave).WithMovie(movie.ID)
		}
		if stored.TmdbID != movie.TmdbID {
			return nil, catalogerrors.InvalidArgument(OpSave, "tmdb id cannot change").WithMovie(movie.ID)
		}
	} else {
		exists, err := s.store.ExistsByTmdbID(ctx, movie.TmdbID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, catalogerrors.Conflict(OpSave, movie.TmdbID)
		}
	}

	saved, err := s.store.Save(ctx, movie)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("movie saved", "id", saved.ID, "tmdb_id", saved.TmdbID)
	return saved, nil
}

// FindByID returns the movie or nil when it does not exist
func (s *FavoritesService) FindByID(ctx context.Context, id uint) (*models.Movie, error) {
	return s.store.FindByID(ctx, id)
}

// ListAll returns every stored movie
func (s *FavoritesService) ListAll(ctx context.Context) ([]models.Movie, error) {
	return s.store.FindAll(ctx)
}

// ListFavorites returns the stored movies flagged as favorite
func (s *FavoritesService) ListFavorites(ctx context.Context) ([]models.Movie, error) {
	return s.store.FindFavorites(ctx)
}

// Update overwrites title, overview, release date, vote average, poster
// path and favorite flag. Other stored fields are kept.
func (s *FavoritesService) Update(ctx context.Context, id uint, patch models.MoviePatch) (*models.Movie, error) {
	existing, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, catalogerrors.NotFound(OpUpdate).WithMovie(id)
	}

	patch.Apply(existing)
	return s.store.Save(ctx, existing)
}

// Delete removes a stored movie
func (s *FavoritesService) Delete(ctx context.Context, id uint) error {
	existing, err := s.store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return catalogerrors.NotFound(OpDelete).WithMovie(id)
	}

	if err := s.store.DeleteByID(ctx, id); err != nil {
		return err
	}
	s.logger.Info("movie deleted", "id", id, "tmdb_id", existing.TmdbID)
	return nil
}

// AddToFavorites flags the movie with the given TMDb id as favorite. A
// stored movie is flagged in place without contacting TMDb; otherwise the
// movie is fetched, normalized and stored. Repeated calls leave exactly one
// stored record.
func (s *FavoritesService) AddToFavorites(ctx context.Context, tmdbID int) (*models.Movie, error) {
	existing, err := s.store.FindByTmdbID(ctx, tmdbID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return s.markFavorite(ctx, existing, "local")
	}

	raw, err := s.catalog.GetMovie(ctx, tmdbID)
	if err != nil {
		return nil, s.externalFailure(OpAddToFavorites, err, tmdbID)
	}
	if raw == nil {
		return nil, catalogerrors.NotFound(OpAddToFavorites).WithExternal(tmdbID)
	}

	movie := normalizer.Normalize(*raw)
	movie.IsFavorite = true

	saved, err := s.store.Save(ctx, &movie)
	if errors.Is(err, catalogerrors.ErrConflict) {
		// another request stored the same TMDb id first; merge into that row
		existing, ferr := s.store.FindByTmdbID(ctx, tmdbID)
		if ferr != nil {
			return nil, ferr
		}
		if existing == nil {
			return nil, err
		}
		s.logger.Debug("merged concurrent favorite", "tmdb_id", tmdbID, "id", existing.ID)
		return s.markFavorite(ctx, existing, "local")
	}
	if err != nil {
		return nil, err
	}

	metrics.RecordFavoriteChange("add", "remote")
	s.logger.Info("favorite added from tmdb", "id", saved.ID, "tmdb_id", tmdbID, "title", saved.Title)
	return saved, nil
}

func (s *FavoritesService) markFavorite(ctx context.Context, movie *models.Movie, source string) (*models.Movie, error) {
	movie.IsFavorite = true
	saved, err := s.store.Save(ctx, movie)
	if err != nil {
		return nil, err
	}
	metrics.RecordFavoriteChange("add", source)
	s.logger.Info("favorite added", "id", saved.ID, "tmdb_id", saved.TmdbID)
	return saved, nil
}

// RemoveFromFavorites clears the favorite flag. The record is kept.
func (s *FavoritesService) RemoveFromFavorites(ctx context.Context, id uint) (*models.Movie, error) {
	existing, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, catalogerrors.NotFound(OpRemoveFromFavorites).WithMovie(id)
	}

	existing.IsFavorite = false
	saved, err := s.store.Save(ctx, existing)
	if err != nil {
		return nil, err
	}
	metrics.RecordFavoriteChange("remove", "local")
	s.logger.Info("favorite removed", "id", id, "tmdb_id", saved.TmdbID)
	return saved, nil
}

// SearchExternal searches TMDb by title. A blank query is rejected; a
// failed remote call yields an empty list.
func (s *FavoritesService) SearchExternal(ctx context.Context, query string) ([]models.Movie, error) {
	if strings.TrimSpace(query) == "" {
		return nil, catalogerrors.InvalidArgument(OpSearchExternal, "search query must not be blank")
	}
	return s.listExternal(ctx, OpSearchExternal, func(ctx context.Context) ([]models.RawMovie, error) {
		return s.catalog.SearchMovies(ctx, query)
	})
}

// GetExternalDetails fetches and normalizes a TMDb movie without storing it.
func (s *FavoritesService) GetExternalDetails(ctx context.Context, tmdbID int) (*models.Movie, error) {
	raw, err := s.catalog.GetMovie(ctx, tmdbID)
	if err != nil {
		return nil, s.externalFailure(OpGetExternalDetails, err, tmdbID)
	}
	if raw == nil {
		return nil, catalogerrors.NotFound(OpGetExternalDetails).WithExternal(tmdbID)
	}
	movie := normalizer.Normalize(*raw)
	return &movie, nil
}

// ListPopularExternal returns the first page of TMDb's popular movies
func (s *FavoritesService) ListPopularExternal(ctx context.Context) ([]models.Movie, error) {
	return s.listExternal(ctx, OpListPopularExternal, s.catalog.PopularMovies)
}

// ListTopRatedExternal returns the first page of TMDb's top rated movies
func (s *FavoritesService) ListTopRatedExternal(ctx context.Context) ([]models.Movie, error) {
	return s.listExternal(ctx, OpListTopRatedExternal, s.catalog.TopRatedMovies)
}

func (s *FavoritesService) listExternal(ctx context.Context, op string, fetch func(context.Context) ([]models.RawMovie, error)) ([]models.Movie, error) {
	raws, err := fetch(ctx)
	if err != nil {
		if ferr := s.externalFailure(op, err, 0); ferr != nil {
			return nil, ferr
		}
		return []models.Movie{}, nil
	}
	return normalizer.NormalizeAll(raws), nil
}

// externalFailure applies the operation's failure policy. It returns nil
// when the caller should answer with an empty result.
func (s *FavoritesService) externalFailure(op string, err error, tmdbID int) error {
	policy, ok := externalPolicies[op]
	if !ok {
		policy = failClosed
	}

	switch policy {
	case failOpen:
		s.logger.Warn("external catalog failed, returning empty result", "op", op, "error", err)
		metrics.RecordFallback(op)
		return nil
	default:
		s.logger.Warn("external catalog failed", "op", op, "tmdb_id", tmdbID, "error", err)
		return catalogerrors.ExternalError(op, err).WithExternal(tmdbID)
	}
}
