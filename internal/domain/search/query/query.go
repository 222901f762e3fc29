// Package query holds the structured form of a parsed natural-language query.
package query

import "slices"

// YearRange is an inclusive release-year interval.
type YearRange struct {
	Start int
	End   int
}

// Contains reports whether year lies within the range.
func (r YearRange) Contains(year int) bool {
	return year >= r.Start && year <= r.End
}

// Query is a parsed query (immutable value object).
type Query struct {
	original  string
	processed string
	genres    []string
	actors    []string
	directors []string
	keywords  []string
	years     YearRange
	hasYears  bool
}

// Parts carries the extracted components passed to New.
type Parts struct {
	Genres    []string
	Actors    []string
	Directors []string
	Keywords  []string
	Years     *YearRange
}

// New creates a Query from the raw text and its extracted parts.
func New(original, processed string, p Parts) Query {
	q := Query{
		original:  original,
		processed: processed,
		genres:    slices.Clone(p.Genres),
		actors:    slices.Clone(p.Actors),
		directors: slices.Clone(p.Directors),
		keywords:  slices.Clone(p.Keywords),
	}
	if p.Years != nil {
		q.years, q.hasYears = *p.Years, true
	}
	return q
}

// Empty returns a query that carries only the raw text.
func Empty(original string) Query {
	return Query{original: original}
}

// Original returns the raw input text.
func (q Query) Original() string { return q.original }

// Processed returns the lowercased input text.
func (q Query) Processed() string { return q.processed }

// Genres returns the canonical genre labels in detection order.
func (q Query) Genres() []string { return slices.Clone(q.genres) }

// Actors returns person names classified as actors.
func (q Query) Actors() []string { return slices.Clone(q.actors) }

// Directors returns person names classified as directors.
func (q Query) Directors() []string { return slices.Clone(q.directors) }

// Keywords returns residual content words in appearance order.
func (q Query) Keywords() []string { return slices.Clone(q.keywords) }

// YearRange returns the year filter and whether one was detected.
func (q Query) YearRange() (YearRange, bool) { return q.years, q.hasYears }

// InYears reports whether a movie passes the year filter. Movies with an
// unknown year always pass.
func (q Query) InYears(year int, known bool) bool {
	if !q.hasYears || !known {
		return true
	}
	return q.years.Contains(year)
}

// Terms returns keywords, genres, actors and directors in that order.
func (q Query) Terms() []string {
	out := make([]string, 0, len(q.keywords)+len(q.genres)+len(q.actors)+len(q.directors))
	out = append(out, q.keywords...)
	out = append(out, q.genres...)
	out = append(out, q.actors...)
	out = append(out, q.directors...)
	return out
}
