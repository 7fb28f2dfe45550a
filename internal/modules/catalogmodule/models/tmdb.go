package models

// RawMovie is a movie record as TMDb returns it from search, list and
// detail endpoints.
type RawMovie struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	Overview         string  `json:"overview"`
	ReleaseDate      string  `json:"release_date"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
	GenreIDs         []int   `json:"genre_ids"`
	OriginalLanguage string  `json:"original_language"`
	Popularity       float64 `json:"popularity"`
	Adult            bool    `json:"adult"`

	// Genres is only present on /movie/{id} responses
	Genres []RawGenre `json:"genres,omitempty"`
}

// RawGenre is a genre object from a detail response
type RawGenre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// RawPage is a paged TMDb result set
type RawPage struct {
	Page         int        `json:"page"`
	Results      []RawMovie `json:"results"`
	TotalPages   int        `json:"total_pages"`
	TotalResults int        `json:"total_results"`
}
