// Package repository provides the data access layer for catalog movies
package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	catalogerrors "github.com/mantonx/cinelist/internal/modules/catalogmodule/errors"
	"github.com/mantonx/cinelist/internal/modules/catalogmodule/models"
)

// MovieRepository handles all database operations for catalog movies
type MovieRepository struct {
	db *gorm.DB
}

// NewMovieRepository creates a new movie repository
func NewMovieRepository(db *gorm.DB) *MovieRepository {
	return &MovieRepository{
		db: db,
	}
}

// Migrate creates or updates the movies table
func (r *MovieRepository) Migrate() error {
	return r.db.AutoMigrate(&MovieRecord{})
}

// Save inserts a movie without an id and overwrites one with an id.
// A duplicate tmdb_id yields an error matching ErrConflict.
func (r *MovieRepository) Save(ctx context.Context, movie *models.Movie) (*models.Movie, error) {
	rec := toRecord(movie)

	var err error
	if rec.ID == 0 {
		err = r.db.WithContext(ctx).Create(rec).Error
	} else {
		err = r.db.WithContext(ctx).Save(rec).Error
	}
	if err != nil {
		if isUniqueViolation(err) {
			return nil, catalogerrors.Conflict("save_movie", movie.TmdbID)
		}
		return nil, catalogerrors.DatabaseError("save_movie", err).WithMovie(movie.ID)
	}
	return rec.toModel(), nil
}

// FindByID retrieves a movie by local id. A missing row returns nil, nil.
func (r *MovieRepository) FindByID(ctx context.Context, id uint) (*models.Movie, error) {
	var rec MovieRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, catalogerrors.DatabaseError("find_movie", err).WithMovie(id)
	}
	return rec.toModel(), nil
}

// FindByTmdbID retrieves a movie by TMDb id. A missing row returns nil, nil.
func (r *MovieRepository) FindByTmdbID(ctx context.Context, tmdbID int) (*models.Movie, error) {
	var rec MovieRecord
	if err := r.db.WithContext(ctx).Where("tmdb_id = ?", tmdbID).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, catalogerrors.DatabaseError("find_movie_by_tmdb_id", err).WithExternal(tmdbID)
	}
	return rec.toModel(), nil
}

// ExistsByTmdbID reports whether a movie with the TMDb id is stored
func (r *MovieRepository) ExistsByTmdbID(ctx context.Context, tmdbID int) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&MovieRecord{}).Where("tmdb_id = ?", tmdbID).Count(&count).Error; err != nil {
		return false, catalogerrors.DatabaseError("exists_movie_by_tmdb_id", err).WithExternal(tmdbID)
	}
	return count > 0, nil
}

// FindAll returns every stored movie ordered by id
func (r *MovieRepository) FindAll(ctx context.Context) ([]models.Movie, error) {
	return r.list(ctx, "list_movies", r.db.WithContext(ctx))
}

// FindFavorites returns the movies flagged as favorite ordered by id
func (r *MovieRepository) FindFavorites(ctx context.Context) ([]models.Movie, error) {
	return r.list(ctx, "list_favorites", r.db.WithContext(ctx).Where("is_favorite = ?", true))
}

func (r *MovieRepository) list(ctx context.Context, op string, query *gorm.DB) ([]models.Movie, error) {
	var recs []MovieRecord
	if err := query.Order("id ASC").Find(&recs).Error; err != nil {
		return nil, catalogerrors.DatabaseError(op, err)
	}
	movies := make([]models.Movie, 0, len(recs))
	for i := range recs {
		movies = append(movies, *recs[i].toModel())
	}
	return movies, nil
}

// DeleteByID removes a movie. A missing row yields an error matching ErrNotFound.
func (r *MovieRepository) DeleteByID(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&MovieRecord{})
	if result.Error != nil {
		return catalogerrors.DatabaseError("delete_movie", result.Error).WithMovie(id)
	}
	if result.RowsAffected == 0 {
		return catalogerrors.NotFound("delete_movie").WithMovie(id)
	}
	return nil
}

// isUniqueViolation recognizes duplicate-key failures whether or not the
// connection was opened with TranslateError.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "SQLSTATE 23505")
}
