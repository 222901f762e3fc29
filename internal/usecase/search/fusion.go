package search

import (
	"slices"
	"strings"

	"github.com/kailas-cloud/cinedex/internal/domain/movie"
	"github.com/kailas-cloud/cinedex/internal/domain/search/candidate"
	"github.com/kailas-cloud/cinedex/internal/domain/search/query"
	"github.com/kailas-cloud/cinedex/internal/domain/search/result"
)

// Weights holds fusion weights and additive boosts.
type Weights struct {
	Lexical float64
	Vector  float64
	Genre   float64
	Actor   float64
	Year    float64
}

// fuse merges lexical and vector hits into one ranked list.
// combined = Lexical*lex + Vector*vec + boosts, where a movie missing from a
// list scores 0 there. Movies are ordered by combined score, ties keeping
// first-seen order (lexical list first). Returns the first limit results and
// the number of distinct movies before truncation. IDs missing from the
// corpus are skipped.
func fuse(
	lexical, vector []candidate.Hit, q query.Query, corpus *movie.Corpus, w Weights, limit int,
) ([]result.Result, int) {
	type acc struct {
		id       string
		lex, vec float64
	}
	order := make([]*acc, 0, len(lexical)+len(vector))
	byID := make(map[string]*acc, len(lexical)+len(vector))
	get := func(id string) *acc {
		if a, ok := byID[id]; ok {
			return a
		}
		a := &acc{id: id}
		byID[id] = a
		order = append(order, a)
		return a
	}
	for _, h := range lexical {
		get(h.ID).lex = h.Score
	}
	for _, h := range vector {
		get(h.ID).vec = h.Score
	}

	results := make([]result.Result, 0, len(order))
	for _, a := range order {
		m, ok := corpus.ByID(a.id)
		if !ok {
			continue
		}
		b := boost(m, q, w)
		score := w.Lexical*a.lex + w.Vector*a.vec + b
		results = append(results, result.New(m, score, a.lex, a.vec, b))
	}

	slices.SortStableFunc(results, func(x, y result.Result) int {
		switch {
		case x.Score() > y.Score():
			return -1
		case x.Score() < y.Score():
			return 1
		}
		return 0
	})

	total := len(results)
	if limit >= 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, total
}

// boost sums exact-match bonuses: Genre per query genre equal to a movie
// genre, Actor per query actor or director contained in a movie actor or
// director name, Year once when the movie year falls in the query range.
func boost(m movie.Movie, q query.Query, w Weights) float64 {
	var b float64

	genres := lowerAll(m.Genres())
	for _, g := range q.Genres() {
		if slices.Contains(genres, strings.ToLower(g)) {
			b += w.Genre
		}
	}

	actors := lowerAll(m.Actors())
	for _, a := range q.Actors() {
		if containsSubstring(actors, strings.ToLower(a)) {
			b += w.Actor
		}
	}

	directors := lowerAll(m.Directors())
	for _, d := range q.Directors() {
		if containsSubstring(directors, strings.ToLower(d)) {
			b += w.Actor
		}
	}

	if yr, ok := q.YearRange(); ok {
		if year, known := m.Year(); known && yr.Contains(year) {
			b += w.Year
		}
	}
	return b
}

func lowerAll(in []string) []string {
	for i, s := range in {
		in[i] = strings.ToLower(s)
	}
	return in
}

func containsSubstring(haystack []string, needle string) bool {
	return slices.ContainsFunc(haystack, func(s string) bool { return strings.Contains(s, needle) })
}
