// Package normalizer converts raw TMDb movie records into catalog movies.
package normalizer

import (
	"time"

	"github.com/mantonx/cinelist/internal/modules/catalogmodule/models"
)

// UnknownGenre is the placeholder for codes missing from the genre table
const UnknownGenre = "Unknown"

// movieGenres maps TMDb movie genre codes to display names. Read-only after
// package init.
var movieGenres = map[int]string{
	28:    "Action",
	12:    "Adventure",
	16:    "Animation",
	35:    "Comedy",
	80:    "Crime",
	99:    "Documentary",
	18:    "Drama",
	10751: "Family",
	14:    "Fantasy",
	36:    "History",
	27:    "Horror",
	10402: "Music",
	9648:  "Mystery",
	10749: "Romance",
	878:   "Science Fiction",
	10770: "TV Movie",
	53:    "Thriller",
	10752: "War",
	37:    "Western",
}

// ResolveGenre returns the display name for a genre code, or UnknownGenre
func ResolveGenre(code int) string {
	if name, ok := movieGenres[code]; ok {
		return name
	}
	return UnknownGenre
}

// DropUnknownGenres removes UnknownGenre entries, keeping order and duplicates
func DropUnknownGenres(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if name != UnknownGenre {
			out = append(out, name)
		}
	}
	return out
}

// ResolveGenres maps codes to names and drops unresolved ones. A nil or
// empty code list yields nil so "no genre data" survives normalization.
func ResolveGenres(codes []int) []string {
	if len(codes) == 0 {
		return nil
	}
	names := make([]string, len(codes))
	for i, code := range codes {
		names[i] = ResolveGenre(code)
	}
	return DropUnknownGenres(names)
}

// ParseReleaseDate parses a YYYY-MM-DD date. Empty or malformed input
// yields nil.
func ParseReleaseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	date, err := time.Parse(models.ReleaseDateLayout, s)
	if err != nil {
		return nil
	}
	return &date
}

// Normalize converts a raw record into a non-favorite, unpersisted Movie
func Normalize(raw models.RawMovie) models.Movie {
	return models.Movie{
		TmdbID:           raw.ID,
		Title:            raw.Title,
		Overview:         raw.Overview,
		ReleaseDate:      ParseReleaseDate(raw.ReleaseDate),
		VoteAverage:      raw.VoteAverage,
		VoteCount:        raw.VoteCount,
		PosterPath:       raw.PosterPath,
		BackdropPath:     raw.BackdropPath,
		Genres:           ResolveGenres(raw.GenreIDs),
		IsFavorite:       false,
		OriginalLanguage: raw.OriginalLanguage,
		Popularity:       raw.Popularity,
	}
}

// NormalizeAll normalizes each record in order. It never returns nil.
func NormalizeAll(raws []models.RawMovie) []models.Movie {
	movies := make([]models.Movie, 0, len(raws))
	for _, raw := range raws {
		movies = append(movies, Normalize(raw))
	}
	return movies
}
