package repository

import (
	"time"

	"gorm.io/datatypes"

	"github.com/mantonx/cinelist/internal/modules/catalogmodule/models"
)

// MovieRecord is the persisted shape of a catalog movie.
// Genres is stored as a JSON array; a nil slice round-trips as nil.
type MovieRecord struct {
	ID               uint                        `gorm:"primaryKey" json:"id"`
	TmdbID           int                         `gorm:"column:tmdb_id;not null;uniqueIndex:idx_movies_tmdb_id" json:"tmdb_id"`
	Title            string                      `gorm:"size:500;not null" json:"title"`
	Overview         string                      `gorm:"type:text" json:"overview"`
	ReleaseDate      *datatypes.Date             `json:"release_date"`
	VoteAverage      float64                     `json:"vote_average"`
	VoteCount        int                         `json:"vote_count"`
	PosterPath       string                      `json:"poster_path"`
	BackdropPath     string                      `json:"backdrop_path"`
	Genres           datatypes.JSONSlice[string] `json:"genres"`
	IsFavorite       bool                        `gorm:"not null;default:false;index" json:"is_favorite"`
	OriginalLanguage string                      `gorm:"size:10" json:"original_language"`
	Popularity       float64                     `json:"popularity"`
	CreatedAt        time.Time                   `json:"created_at"`
	UpdatedAt        time.Time                   `json:"updated_at"`
}

// TableName pins the table name
func (MovieRecord) TableName() string {
	return "movies"
}

func toRecord(m *models.Movie) *MovieRecord {
	rec := &MovieRecord{
		ID:               m.ID,
		TmdbID:           m.TmdbID,
		Title:            m.Title,
		Overview:         m.Overview,
		VoteAverage:      m.VoteAverage,
		VoteCount:        m.VoteCount,
		PosterPath:       m.PosterPath,
		BackdropPath:     m.BackdropPath,
		IsFavorite:       m.IsFavorite,
		OriginalLanguage: m.OriginalLanguage,
		Popularity:       m.Popularity,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
	if m.ReleaseDate != nil {
		d := datatypes.Date(*m.ReleaseDate)
		rec.ReleaseDate = &d
	}
	if m.Genres != nil {
		rec.Genres = datatypes.JSONSlice[string](append([]string{}, m.Genres...))
	}
	return rec
}

func (r *MovieRecord) toModel() *models.Movie {
	m := &models.Movie{
		ID:               r.ID,
		TmdbID:           r.TmdbID,
		Title:            r.Title,
		Overview:         r.Overview,
		VoteAverage:      r.VoteAverage,
		VoteCount:        r.VoteCount,
		PosterPath:       r.PosterPath,
		BackdropPath:     r.BackdropPath,
		IsFavorite:       r.IsFavorite,
		OriginalLanguage: r.OriginalLanguage,
		Popularity:       r.Popularity,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
	if r.ReleaseDate != nil {
		t := time.Time(*r.ReleaseDate)
		d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		m.ReleaseDate = &d
	}
	if r.Genres != nil {
		m.Genres = []string(r.Genres)
	}
	return m
}
