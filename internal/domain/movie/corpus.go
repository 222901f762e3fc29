package movie

import (
	"fmt"
	"hash/fnv"
	"iter"
	"strconv"
)

// Corpus is the ordered, read-only movie collection shared by both engines.
// Ordinals returned by the engines index into it.
type Corpus struct {
	movies []Movie
	byID   map[string]int
}

// NewCorpus indexes movies by ID. Empty or duplicate IDs are rejected.
func NewCorpus(movies []Movie) (*Corpus, error) {
	c := &Corpus{
		movies: make([]Movie, len(movies)),
		byID:   make(map[string]int, len(movies)),
	}
	for i, m := range movies {
		if m.id == "" {
			return nil, fmt.Errorf("movie at position %d has empty ID", i)
		}
		if _, dup := c.byID[m.id]; dup {
			return nil, fmt.Errorf("duplicate movie ID %q", m.id)
		}
		c.byID[m.id] = i
		c.movies[i] = m
	}
	return c, nil
}

// Len returns the number of movies.
func (c *Corpus) Len() int {
	if c == nil {
		return 0
	}
	return len(c.movies)
}

// At returns the movie at ordinal i.
func (c *Corpus) At(i int) Movie { return c.movies[i] }

// ByID looks up a movie by its identifier.
func (c *Corpus) ByID(id string) (Movie, bool) {
	if c == nil {
		return Movie{}, false
	}
	i, ok := c.byID[id]
	if !ok {
		return Movie{}, false
	}
	return c.movies[i], true
}

// All iterates over (ordinal, movie) pairs in corpus order.
func (c *Corpus) All() iter.Seq2[int, Movie] {
	return func(yield func(int, Movie) bool) {
		for i, m := range c.movies {
			if !yield(i, m) {
				return
			}
		}
	}
}

// Fingerprint hashes IDs and search text in corpus order. Persisted indexes
// built from a different corpus carry a different fingerprint.
func (c *Corpus) Fingerprint() string {
	h := fnv.New64a()
	for _, m := range c.All() {
		_, _ = h.Write([]byte(m.id))
		_, _ = h.Write([]byte{0})
		_, _ = h.Write([]byte(m.SearchText()))
		_, _ = h.Write([]byte{0})
	}
	return strconv.FormatUint(h.Sum64(), 16) + "-" + strconv.Itoa(len(c.movies))
}
