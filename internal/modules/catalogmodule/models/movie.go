// Package models holds the catalog's domain and wire types.
package models

import (
	"time"
)

// ReleaseDateLayout is the calendar date format used by TMDb and the HTTP API
const ReleaseDateLayout = "2006-01-02"

// Movie is a catalog entry. ID is zero until the store assigns one.
// ReleaseDate and Genres are nil when unknown, which is distinct from an
// empty genre list.
type Movie struct {
	ID               uint
	TmdbID           int
	Title            string
	Overview         string
	ReleaseDate      *time.Time
	VoteAverage      float64
	VoteCount        int
	PosterPath       string
	BackdropPath     string
	Genres           []string
	IsFavorite       bool
	OriginalLanguage string
	Popularity       float64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsPersisted reports whether the store has assigned an id
func (m *Movie) IsPersisted() bool {
	return m.ID != 0
}

// MoviePatch carries the fields Update overwrites. Every other field of the
// stored record is left as is.
type MoviePatch struct {
	Title       string
	Overview    string
	ReleaseDate *time.Time
	VoteAverage float64
	PosterPath  string
	IsFavorite  bool
}

// Apply overwrites the patchable fields of m
func (p MoviePatch) Apply(m *Movie) {
	m.Title = p.Title
	m.Overview = p.Overview
	m.ReleaseDate = p.ReleaseDate
	m.VoteAverage = p.VoteAverage
	m.PosterPath = p.PosterPath
	m.IsFavorite = p.IsFavorite
}
