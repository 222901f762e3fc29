package search

import (
	"context"

	"github.com/kailas-cloud/cinedex/internal/domain/movie"
	"github.com/kailas-cloud/cinedex/internal/domain/search/candidate"
	"github.com/kailas-cloud/cinedex/internal/domain/search/query"
	"github.com/kailas-cloud/cinedex/internal/domain/search/result"
	"github.com/kailas-cloud/cinedex/internal/engine/lexical"
)

// Engine is one retrieval strategy over the corpus.
type Engine interface {
	Name() string
	Build(ctx context.Context, corpus *movie.Corpus) error
	Search(ctx context.Context, q query.Query, limit int) ([]candidate.Hit, error)
	Ready() bool
}

// Snapshotter is implemented by engines whose built index can be persisted.
type Snapshotter interface {
	Export() (lexical.Snapshot, error)
	Restore(corpus *movie.Corpus, s lexical.Snapshot) error
}

// QueryParser turns raw text into a structured query.
type QueryParser interface {
	Parse(ctx context.Context, raw string) query.Query
}

// CorpusLoader supplies the movie catalog.
type CorpusLoader interface {
	Load(ctx context.Context) ([]movie.Movie, error)
}

// SnapshotStore persists lexical index snapshots.
type SnapshotStore interface {
	Load(ctx context.Context) (lexical.Snapshot, error)
	Save(ctx context.Context, s lexical.Snapshot) error
}

// ResponseCache stores finished responses by key.
type ResponseCache interface {
	Get(ctx context.Context, key string) (result.Response, bool)
	Set(ctx context.Context, key string, resp result.Response)
}
