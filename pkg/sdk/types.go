package cinedex

import (
	"context"
	"time"
)

// SearchMode selects which engines answer a query.
type SearchMode string

// Search mode constants.
const (
	ModeHybrid   SearchMode = "hybrid"
	ModeSemantic SearchMode = "semantic"
	ModeKeyword  SearchMode = "keyword"
)

// Movie is a searchable movie record. Nil optionals mean unknown.
type Movie struct {
	ID         string
	Title      string
	Overview   string
	Genres     []string
	Actors     []string
	Directors  []string
	Year       *int
	Rating     *float64
	Popularity *float64
}

// SearchResult is a single ranked movie.
type SearchResult struct {
	Movie        Movie
	Score        float64
	LexicalScore float64
	VectorScore  float64
	Boost        float64
	// Relevance is Score as a percentage in [0, 100].
	Relevance float64
}

// SearchResponse is the answer to one search call.
type SearchResponse struct {
	Query         string
	Mode          SearchMode
	Results       []SearchResult
	TotalFound    int
	ExecutionTime time.Duration
	// Degraded lists engines that failed and contributed nothing.
	Degraded []string
}

// Loader supplies the corpus on first initialization.
type Loader interface {
	Load(ctx context.Context) ([]Movie, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context) ([]Movie, error)

// Load calls f.
func (f LoaderFunc) Load(ctx context.Context) ([]Movie, error) { return f(ctx) }

// Recognizer finds person names in a query, for example via an NER model.
type Recognizer interface {
	Persons(ctx context.Context, text string) ([]string, error)
}

// Config tunes ranking and persistence. Zero fields keep defaults.
type Config struct {
	LexicalWeight float64
	VectorWeight  float64
	GenreBoost    float64
	ActorBoost    float64
	YearBoost     float64
	DefaultLimit  int
	// IndexDir persists the lexical index between runs when set.
	IndexDir string
	// CacheSize enables an in-process response cache when positive.
	CacheSize int
	CacheTTL  time.Duration
}
