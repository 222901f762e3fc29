// Package vector implements TF-IDF vector-space search with cosine ranking.
package vector

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/cinedex/internal/domain"
	"github.com/kailas-cloud/cinedex/internal/domain/movie"
	"github.com/kailas-cloud/cinedex/internal/engine"
	"github.com/kailas-cloud/cinedex/internal/text"
)

// Name identifies the engine in logs, metrics and degraded-engine lists.
const Name = "vector"

// Config holds vectorizer and retrieval parameters.
type Config struct {
	MaxFeatures     int
	NgramMin        int
	NgramMax        int
	MinDF           int
	FetchMultiplier int
	Workers         int
}

func (c *Config) applyDefaults() {
	if c.MaxFeatures <= 0 {
		c.MaxFeatures = 5000
	}
	if c.NgramMin <= 0 {
		c.NgramMin = 1
	}
	if c.NgramMax < c.NgramMin {
		c.NgramMax = max(c.NgramMin, 2)
	}
	if c.MinDF <= 0 {
		c.MinDF = 2
	}
	if c.FetchMultiplier <= 0 {
		c.FetchMultiplier = 3
	}
}

var analyzer = text.Analyzer{Stop: text.EnglishStopWords, MinLen: 2}

// entry is one non-zero cell of the document-term matrix.
type entry struct {
	doc    int32
	weight float64
}

// model is a fitted vocabulary plus the L2-normalized document matrix,
// stored column-wise so a query only touches the terms it contains.
type model struct {
	corpus  *movie.Corpus
	vocab   map[string]int
	idf     []float64
	columns [][]entry
}

// Index is the vector search engine.
type Index struct {
	cfg     Config
	logger  *zap.Logger
	current atomic.Pointer[model]
}

// New creates an unfitted vector index.
func New(cfg Config, logger *zap.Logger) *Index {
	cfg.applyDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Index{cfg: cfg, logger: logger.With(zap.String("component", Name))}
}

// Name returns the engine name.
func (x *Index) Name() string { return Name }

// Ready reports whether the index has been fitted.
func (x *Index) Ready() bool { return x.current.Load() != nil }

func (x *Index) analyze(s string) []string {
	return text.NGrams(analyzer.Terms(s), x.cfg.NgramMin, x.cfg.NgramMax)
}

// Build fits the vocabulary on the search text of every movie and replaces
// the current model. A corpus too small to leave any term after min_df
// pruning yields an empty vocabulary, which matches nothing.
func (x *Index) Build(ctx context.Context, corpus *movie.Corpus) error {
	start := time.Now()
	n := corpus.Len()

	counts, err := engine.ParallelMap(ctx, x.cfg.Workers, n, func(i int) map[string]int {
		out := make(map[string]int)
		for _, g := range x.analyze(corpus.At(i).SearchText()) {
			out[g]++
		}
		return out
	})
	if err != nil {
		return fmt.Errorf("%w: analyze documents: %w", domain.ErrBuildFailed, err)
	}

	df := make(map[string]int)
	total := make(map[string]int)
	for _, c := range counts {
		for term, tf := range c {
			df[term]++
			total[term] += tf
		}
	}

	vocab := x.selectVocabulary(df, total)
	m := &model{
		corpus:  corpus,
		vocab:   make(map[string]int, len(vocab)),
		idf:     make([]float64, len(vocab)),
		columns: make([][]entry, len(vocab)),
	}
	for col, term := range vocab {
		m.vocab[term] = col
		m.idf[col] = math.Log(float64(1+n)/float64(1+df[term])) + 1
	}

	for doc, tf := range counts {
		for _, c := range m.weigh(tf) {
			m.columns[c.col] = append(m.columns[c.col], entry{doc: int32(doc), weight: c.weight})
		}
	}

	x.current.Store(m)
	x.logger.Info("vector index built",
		zap.Int("documents", n),
		zap.Int("vocabulary", len(vocab)),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}

// selectVocabulary keeps terms present in at least MinDF documents, caps
// them at MaxFeatures by corpus frequency (ties by term) and returns them
// sorted alphabetically.
func (x *Index) selectVocabulary(df, total map[string]int) []string {
	terms := make([]string, 0, len(df))
	for term, d := range df {
		if d >= x.cfg.MinDF {
			terms = append(terms, term)
		}
	}
	if len(terms) > x.cfg.MaxFeatures {
		slices.SortFunc(terms, func(a, b string) int {
			if c := cmp.Compare(total[b], total[a]); c != 0 {
				return c
			}
			return cmp.Compare(a, b)
		})
		terms = terms[:x.cfg.MaxFeatures]
	}
	slices.Sort(terms)
	return terms
}

// cell is one non-zero component of a sparse vector.
type cell struct {
	col    int
	weight float64
}

// weigh turns raw term counts into an L2-normalized tf-idf vector sorted by
// column. Terms outside the vocabulary are ignored. Sums run in column order
// so identical inputs always produce bit-identical weights.
func (m *model) weigh(counts map[string]int) []cell {
	vec := make([]cell, 0, len(counts))
	for term, tf := range counts {
		col, ok := m.vocab[term]
		if !ok {
			continue
		}
		vec = append(vec, cell{col: col, weight: float64(tf) * m.idf[col]})
	}
	slices.SortFunc(vec, func(a, b cell) int { return cmp.Compare(a.col, b.col) })

	var norm float64
	for _, c := range vec {
		norm += c.weight * c.weight
	}
	if norm == 0 {
		return nil
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i].weight /= norm
	}
	return vec
}
