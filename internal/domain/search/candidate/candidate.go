// Package candidate holds the per-engine hit type.
package candidate

// Hit is one engine result: a movie ID with a non-negative score.
type Hit struct {
	ID    string
	Score float64
}
