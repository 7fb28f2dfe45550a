package api

import (
	"time"

	"github.com/mantonx/cinelist/internal/modules/catalogmodule/models"
)

// CreateMovieRequest is the body of POST /api/movies
type CreateMovieRequest struct {
	TmdbID           int      `json:"tmdb_id" binding:"required"`
	Title            string   `json:"title" binding:"required,notblank,max=500"`
	Overview         string   `json:"overview"`
	ReleaseDate      string   `json:"release_date" binding:"omitempty,datetime=2006-01-02"`
	VoteAverage      float64  `json:"vote_average"`
	VoteCount        int      `json:"vote_count"`
	PosterPath       string   `json:"poster_path"`
	BackdropPath     string   `json:"backdrop_path"`
	Genres           []string `json:"genres"`
	IsFavorite       bool     `json:"is_favorite"`
	OriginalLanguage string   `json:"original_language" binding:"max=10"`
	Popularity       float64  `json:"popularity"`
}

// UpdateMovieRequest is the body of PUT /api/movies/:id. Only these fields
// are written; tmdb_id is required like on create but never overwrites the
// stored value.
type UpdateMovieRequest struct {
	TmdbID      int     `json:"tmdb_id" binding:"required"`
	Title       string  `json:"title" binding:"required,notblank,max=500"`
	Overview    string  `json:"overview"`
	ReleaseDate string  `json:"release_date" binding:"omitempty,datetime=2006-01-02"`
	VoteAverage float64 `json:"vote_average"`
	PosterPath  string  `json:"poster_path"`
	IsFavorite  bool    `json:"is_favorite"`
}

// MovieResponse is the JSON shape of a movie. release_date and genres are
// omitted when unknown; an empty genre list is rendered as [].
type MovieResponse struct {
	ID               uint      `json:"id,omitempty"`
	TmdbID           int       `json:"tmdb_id"`
	Title            string    `json:"title"`
	Overview         string    `json:"overview"`
	ReleaseDate      *string   `json:"release_date,omitempty"`
	VoteAverage      float64   `json:"vote_average"`
	VoteCount        int       `json:"vote_count"`
	PosterPath       string    `json:"poster_path"`
	BackdropPath     string    `json:"backdrop_path"`
	Genres           *[]string `json:"genres,omitempty"`
	IsFavorite       bool      `json:"is_favorite"`
	OriginalLanguage string    `json:"original_language"`
	Popularity       float64   `json:"popularity"`
	CreatedAt        *string   `json:"created_at,omitempty"`
	UpdatedAt        *string   `json:"updated_at,omitempty"`
}

func (r CreateMovieRequest) toModel() models.Movie {
	return models.Movie{
		TmdbID:           r.TmdbID,
		Title:            r.Title,
		Overview:         r.Overview,
		ReleaseDate:      parseDate(r.ReleaseDate),
		VoteAverage:      r.VoteAverage,
		VoteCount:        r.VoteCount,
		PosterPath:       r.PosterPath,
		BackdropPath:     r.BackdropPath,
		Genres:           r.Genres,
		IsFavorite:       r.IsFavorite,
		OriginalLanguage: r.OriginalLanguage,
		Popularity:       r.Popularity,
	}
}

func (r UpdateMovieRequest) toPatch() models.MoviePatch {
	return models.MoviePatch{
		Title:       r.Title,
		Overview:    r.Overview,
		ReleaseDate: parseDate(r.ReleaseDate),
		VoteAverage: r.VoteAverage,
		PosterPath:  r.PosterPath,
		IsFavorite:  r.IsFavorite,
	}
}

// parseDate expects input already checked by the datetime binding
func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(models.ReleaseDateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}

func toResponse(m *models.Movie) MovieResponse {
	resp := MovieResponse{
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
	}
	if m.ReleaseDate != nil {
		d := m.ReleaseDate.Format(models.ReleaseDateLayout)
		resp.ReleaseDate = &d
	}
	if m.Genres != nil {
		genres := m.Genres
		resp.Genres = &genres
	}
	if !m.CreatedAt.IsZero() {
		ts := m.CreatedAt.UTC().Format(time.RFC3339)
		resp.CreatedAt = &ts
	}
	if !m.UpdatedAt.IsZero() {
		ts := m.UpdatedAt.UTC().Format(time.RFC3339)
		resp.UpdatedAt = &ts
	}
	return resp
}

func toResponses(movies []models.Movie) []MovieResponse {
	out := make([]MovieResponse, 0, len(movies))
	for i := range movies {
		out = append(out, toResponse(&movies[i]))
	}
	return out
}
