package domain

import "time"

// Genre is a reference entry a film can be tagged with.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Mpa is the age-rating a film carries.
type Mpa struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
}

// Director represents a film director.
type Director struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Film represents the canonical film entity in the database/service.
type Film struct {
	ID          int64
	Name        string
	Description string
	ReleaseDate time.Time
	Duration    int
	Mpa         Mpa
	Genres      []Genre
	Directors   []Director
}

// HasGenre reports whether the film is tagged with the genre.
func (f Film) HasGenre(genreID int64) bool {
	for _, g := range f.Genres {
		if g.ID == genreID {
			return true
		}
	}
	return false
}

// ReleaseYear returns the calendar year of the release date.
func (f Film) ReleaseYear() int {
	return f.ReleaseDate.Year()
}
