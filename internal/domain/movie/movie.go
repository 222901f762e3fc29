// Package movie holds the Movie value object and the immutable corpus.
package movie

import (
	"fmt"
	"slices"
	"strings"
)

// Movie is a single catalog entry (immutable value object).
type Movie struct {
	id         string
	title      string
	overview   string
	genres     []string
	actors     []string
	directors  []string
	year       int
	hasYear    bool
	rating     float64
	hasRating  bool
	popularity float64
	hasPop     bool
}

// Option sets an optional Movie attribute.
type Option func(*Movie)

// WithYear sets the release year.
func WithYear(year int) Option {
	return func(m *Movie) { m.year, m.hasYear = year, true }
}

// WithRating sets the average rating.
func WithRating(r float64) Option {
	return func(m *Movie) { m.rating, m.hasRating = r, true }
}

// WithPopularity sets the popularity score.
func WithPopularity(p float64) Option {
	return func(m *Movie) { m.popularity, m.hasPop = p, true }
}

// New validates and creates a Movie. ID is required; list fields are copied.
func New(id, title, overview string, genres, actors, directors []string, opts ...Option) (Movie, error) {
	if id == "" {
		return Movie{}, fmt.Errorf("movie ID is required")
	}
	m := Movie{
		id:        id,
		title:     title,
		overview:  overview,
		genres:    slices.Clone(genres),
		actors:    slices.Clone(actors),
		directors: slices.Clone(directors),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m, nil
}

// ID returns the corpus-unique identifier.
func (m Movie) ID() string { return m.id }

// Title returns the movie title.
func (m Movie) Title() string { return m.title }

// Overview returns the plot summary.
func (m Movie) Overview() string { return m.overview }

// Genres returns a copy of the genre labels.
func (m Movie) Genres() []string { return slices.Clone(m.genres) }

// Actors returns a copy of the cast names.
func (m Movie) Actors() []string { return slices.Clone(m.actors) }

// Directors returns a copy of the director names.
func (m Movie) Directors() []string { return slices.Clone(m.directors) }

// Year returns the release year and whether it is known.
func (m Movie) Year() (int, bool) { return m.year, m.hasYear }

// Rating returns the average rating and whether it is known.
func (m Movie) Rating() (float64, bool) { return m.rating, m.hasRating }

// Popularity returns the popularity score and whether it is known.
func (m Movie) Popularity() (float64, bool) { return m.popularity, m.hasPop }

// SearchText concatenates title, overview, genres, actors and directors.
// Always derived, never stored.
func (m Movie) SearchText() string {
	parts := []string{
		m.title,
		m.overview,
		strings.Join(m.genres, " "),
		strings.Join(m.actors, " "),
		strings.Join(m.directors, " "),
	}
	return strings.Join(parts, " ")
}
