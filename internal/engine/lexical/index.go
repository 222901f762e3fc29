// Package lexical implements a per-field inverted index with BM25F scoring.
package lexical

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/cinedex/internal/domain"
	"github.com/kailas-cloud/cinedex/internal/domain/movie"
	"github.com/kailas-cloud/cinedex/internal/engine"
	"github.com/kailas-cloud/cinedex/internal/text"
)

// Name identifies the engine in logs, metrics and degraded-engine lists.
const Name = "lexical"

// Field is an indexed movie attribute.
type Field string

// Indexed fields.
const (
	FieldTitle      Field = "title"
	FieldOverview   Field = "overview"
	FieldGenres     Field = "genres"
	FieldCast       Field = "cast"
	FieldDirector   Field = "director"
	FieldSearchText Field = "search_text"
)

// Fields lists every indexed field in a fixed order.
var Fields = []Field{FieldTitle, FieldOverview, FieldGenres, FieldCast, FieldDirector, FieldSearchText}

// Operator combines the terms of a free-text clause.
type Operator string

// Free-text operators.
const (
	OpAnd Operator = "and"
	OpOr  Operator = "or"
)

// Config holds scoring and retrieval parameters.
type Config struct {
	B               float64
	K1              float64
	Operator        Operator
	FetchMultiplier int
	Workers         int
}

func (c *Config) applyDefaults() {
	if c.B == 0 {
		c.B = 0.75
	}
	if c.K1 == 0 {
		c.K1 = 1.2
	}
	if c.Operator == "" {
		c.Operator = OpAnd
	}
	if c.FetchMultiplier <= 0 {
		c.FetchMultiplier = 2
	}
}

var analyzer = text.Analyzer{Stop: text.IndexStopWords, MinLen: 2}

// Posting records how often a term occurs in one document field.
type Posting struct {
	Doc int32
	TF  int32
}

// fieldIndex holds postings and length statistics of one field.
type fieldIndex struct {
	postings map[string][]Posting
	lengths  []int32
	avgLen   float64
}

// index is an immutable, fully built index over one corpus.
type index struct {
	corpus *movie.Corpus
	fields map[Field]*fieldIndex
}

// Index is the lexical search engine. Builds publish a complete index
// atomically; queries never see a partially built one.
type Index struct {
	cfg     Config
	logger  *zap.Logger
	current atomic.Pointer[index]
}

// New creates an empty lexical index.
func New(cfg Config, logger *zap.Logger) *Index {
	cfg.applyDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Index{cfg: cfg, logger: logger.With(zap.String("component", Name))}
}

// Name returns the engine name.
func (x *Index) Name() string { return Name }

// Ready reports whether an index has been built or restored.
func (x *Index) Ready() bool { return x.current.Load() != nil }

// docFields is the analyzed form of one movie.
type docFields map[Field][]string

func analyzeMovie(m movie.Movie) docFields {
	return docFields{
		FieldTitle:      analyzer.Terms(m.Title()),
		FieldOverview:   analyzer.Terms(m.Overview()),
		FieldGenres:     analyzer.Terms(strings.Join(m.Genres(), " ")),
		FieldCast:       analyzer.Terms(strings.Join(m.Actors(), " ")),
		FieldDirector:   analyzer.Terms(strings.Join(m.Directors(), " ")),
		FieldSearchText: analyzer.Terms(m.SearchText()),
	}
}

// Build indexes every movie of corpus and replaces the current index.
func (x *Index) Build(ctx context.Context, corpus *movie.Corpus) error {
	start := time.Now()
	n := corpus.Len()

	docs, err := engine.ParallelMap(ctx, x.cfg.Workers, n, func(i int) docFields {
		return analyzeMovie(corpus.At(i))
	})
	if err != nil {
		return fmt.Errorf("%w: analyze documents: %w", domain.ErrBuildFailed, err)
	}

	ix := &index{corpus: corpus, fields: make(map[Field]*fieldIndex, len(Fields))}
	for _, f := range Fields {
		fi := &fieldIndex{postings: make(map[string][]Posting), lengths: make([]int32, n)}
		var total int64
		for doc, d := range docs {
			terms := d[f]
			fi.lengths[doc] = int32(len(terms))
			total += int64(len(terms))
			for term, tf := range countTerms(terms) {
				fi.postings[term] = append(fi.postings[term], Posting{Doc: int32(doc), TF: tf})
			}
		}
		if n > 0 {
			fi.avgLen = float64(total) / float64(n)
		}
		ix.fields[f] = fi
	}

	x.current.Store(ix)
	x.logger.Info("lexical index built",
		zap.Int("documents", n),
		zap.Int("terms", len(ix.fields[FieldSearchText].postings)),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}

func countTerms(terms []string) map[string]int32 {
	out := make(map[string]int32, len(terms))
	for _, t := range terms {
		out[t]++
	}
	return out
}

// bm25 scores one term in one field. idf follows ln(N/(df+1)) + 1, which
// stays positive for any df <= N.
func (x *Index) bm25(fi *fieldIndex, docCount, df int, p Posting) float64 {
	idf := math.Log(float64(docCount)/float64(df+1)) + 1
	tf := float64(p.TF)
	norm := 1 - x.cfg.B
	if fi.avgLen > 0 {
		norm += x.cfg.B * float64(fi.lengths[p.Doc]) / fi.avgLen
	}
	return idf * tf * (x.cfg.K1 + 1) / (tf + x.cfg.K1*norm)
}
