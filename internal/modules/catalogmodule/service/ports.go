package service

import (
	"context"

	"github.com/mantonx/cinelist/internal/modules/catalogmodule/models"
)

// MovieStore is the persistence port. Lookups return nil, nil when the row
// is absent. Save must reject a second row for the same TmdbID with an error
// matching errors.ErrConflict.
type MovieStore interface {
	Save(ctx context.Context, movie *models.Movie) (*models.Movie, error)
	FindByID(ctx context.Context, id uint) (*models.Movie, error)
	FindByTmdbID(ctx context.Context, tmdbID int) (*models.Movie, error)
	ExistsByTmdbID(ctx context.Context, tmdbID int) (bool, error)
	FindAll(ctx context.Context) ([]models.Movie, error)
	FindFavorites(ctx context.Context) ([]models.Movie, error)
	DeleteByID(ctx context.Context, id uint) error
}

// ExternalCatalog is the read-only remote catalog port. GetMovie returns
// nil, nil when the remote has no such movie.
type ExternalCatalog interface {
	SearchMovies(ctx context.Context, query string) ([]models.RawMovie, error)
	GetMovie(ctx context.Context, tmdbID int) (*models.RawMovie, error)
	PopularMovies(ctx context.Context) ([]models.RawMovie, error)
	TopRatedMovies(ctx context.Context) ([]models.RawMovie, error)
}
