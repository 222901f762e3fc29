package result

import (
	"math"

	"github.com/kailas-cloud/cinedex/internal/domain/movie"
)

// Result is a single ranked movie.
type Result struct {
	movie   movie.Movie
	score   float64
	lexical float64
	vector  float64
	boost   float64
}

// New creates a ranked result. score is the combined, boosted score;
// lexical, vector and boost are its components.
func New(m movie.Movie, score, lexical, vector, boost float64) Result {
	return Result{movie: m, score: score, lexical: lexical, vector: vector, boost: boost}
}

// Movie returns the ranked movie.
func (r Result) Movie() movie.Movie { return r.movie }

// Score returns the combined score.
func (r Result) Score() float64 { return r.score }

// LexicalScore returns the lexical engine contribution before weighting.
func (r Result) LexicalScore() float64 { return r.lexical }

// VectorScore returns the vector engine contribution before weighting.
func (r Result) VectorScore() float64 { return r.vector }

// Boost returns the sum of exact-match boosts.
func (r Result) Boost() float64 { return r.boost }

// Relevance returns the score as a percentage clamped to [0, 100],
// rounded to one decimal.
func (r Result) Relevance() float64 {
	return Relevance(r.score)
}

// Relevance maps a combined score to a display percentage.
func Relevance(score float64) float64 {
	p := math.Min(score*100, 100)
	if p < 0 {
		p = 0
	}
	return math.Round(p*10) / 10
}
