package search

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/cinedex/internal/domain"
	"github.com/kailas-cloud/cinedex/internal/domain/movie"
	"github.com/kailas-cloud/cinedex/internal/domain/search/candidate"
	"github.com/kailas-cloud/cinedex/internal/domain/search/mode"
	"github.com/kailas-cloud/cinedex/internal/domain/search/query"
	"github.com/kailas-cloud/cinedex/internal/domain/search/request"
	"github.com/kailas-cloud/cinedex/internal/domain/search/result"
	"github.com/kailas-cloud/cinedex/internal/metrics"
)

// Deps wires the collaborators of a Service. Snapshots and Cache are optional.
type Deps struct {
	Loader    CorpusLoader
	Parser    QueryParser
	Lexical   Engine
	Vector    Engine
	Snapshots SnapshotStore
	Cache     ResponseCache
	Logger    *zap.Logger
}

// Service is the hybrid search orchestrator: it owns the corpus, builds both
// engines once and fuses their answers.
type Service struct {
	deps    Deps
	weights Weights
	limit   int
	logger  *zap.Logger

	mu          sync.Mutex // serializes Initialize
	corpus      atomic.Pointer[movie.Corpus]
	fingerprint string // written once under mu before ready is set
	ready       atomic.Bool
	buildFailed atomic.Bool
}

// New creates a search service.
func New(deps Deps, weights Weights, defaultLimit int) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultLimit <= 0 {
		defaultLimit = request.DefaultLimit
	}
	return &Service{
		deps:    deps,
		weights: weights,
		limit:   defaultLimit,
		logger:  logger.With(zap.String("component", "search")),
	}
}

// Initialize loads the corpus and builds both engines. It is idempotent:
// after a successful call further calls return true without work.
// Concurrent callers block until the first build finishes. It is the only
// way to retry after a failed build.
func (s *Service) Initialize(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ready.Load() {
		return true
	}
	return s.initializeLocked(ctx)
}

// lazyInitialize builds on first use. Callers that queued behind a build
// observe its outcome instead of starting another one.
func (s *Service) lazyInitialize(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ready.Load() || s.buildFailed.Load() {
		return
	}
	s.initializeLocked(ctx)
}

func (s *Service) initializeLocked(ctx context.Context) bool {
	if err := s.initialize(ctx); err != nil {
		s.buildFailed.Store(true)
		s.logger.Error("search initialization failed", zap.Error(err))
		return false
	}
	s.buildFailed.Store(false)
	s.ready.Store(true)
	return true
}

func (s *Service) initialize(ctx context.Context) error {
	start := time.Now()

	movies, err := s.deps.Loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("%w: load corpus: %w", domain.ErrBuildFailed, err)
	}
	corpus, err := movie.NewCorpus(movies)
	if err != nil {
		return fmt.Errorf("%w: %w: %w", domain.ErrBuildFailed, domain.ErrCorpusInvalid, err)
	}

	if err := s.buildLexical(ctx, corpus); err != nil {
		return err
	}
	vecStart := time.Now()
	if err := s.deps.Vector.Build(ctx, corpus); err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrBuildFailed, s.deps.Vector.Name(), err)
	}
	metrics.IndexBuildDuration.WithLabelValues(s.deps.Vector.Name(), "build").Observe(time.Since(vecStart).Seconds())

	s.fingerprint = corpus.Fingerprint()
	s.corpus.Store(corpus)
	metrics.IndexedDocuments.Set(float64(corpus.Len()))
	s.logger.Info("search initialized",
		zap.Int("movies", corpus.Len()),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}

// buildLexical restores the lexical index from a snapshot of the same corpus
// when one exists; otherwise it builds and saves a fresh one.
func (s *Service) buildLexical(ctx context.Context, corpus *movie.Corpus) error {
	lex := s.deps.Lexical
	snap, canSnap := lex.(Snapshotter)
	canSnap = canSnap && s.deps.Snapshots != nil

	start := time.Now()
	if canSnap {
		stored, err := s.deps.Snapshots.Load(ctx)
		switch {
		case err == nil:
			if err = snap.Restore(corpus, stored); err == nil {
				metrics.IndexBuildDuration.WithLabelValues(lex.Name(), "snapshot").Observe(time.Since(start).Seconds())
				return nil
			}
			s.logger.Info("lexical snapshot unusable, rebuilding", zap.Error(err))
		case errors.Is(err, domain.ErrSnapshotNotFound):
			s.logger.Info("no lexical snapshot, building")
		default:
			s.logger.Warn("lexical snapshot load failed, rebuilding", zap.Error(err))
		}
	}

	if err := lex.Build(ctx, corpus); err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrBuildFailed, lex.Name(), err)
	}
	metrics.IndexBuildDuration.WithLabelValues(lex.Name(), "build").Observe(time.Since(start).Seconds())

	if canSnap {
		exported, err := snap.Export()
		if err == nil {
			err = s.deps.Snapshots.Save(ctx, exported)
		}
		if err != nil {
			s.logger.Warn("lexical snapshot save failed", zap.Error(err))
		}
	}
	return nil
}

// IsReady reports whether both engines are built.
func (s *Service) IsReady() bool { return s.ready.Load() }

// ItemCount returns the corpus size, 0 before initialization.
func (s *Service) ItemCount() int { return s.corpus.Load().Len() }

// Search runs a hybrid search. It never fails: see SearchMode.
func (s *Service) Search(ctx context.Context, raw string, limit int) result.Response {
	return s.SearchMode(ctx, raw, limit, mode.Hybrid)
}

// SearchMode parses raw, queries the engines selected by m concurrently and
// fuses their hits. A non-ready service initializes itself once; if that
// fails the response is empty. An engine that fails contributes no hits and
// is listed in Response.Degraded.
func (s *Service) SearchMode(ctx context.Context, raw string, limit int, m mode.Mode) result.Response {
	start := time.Now()
	if limit <= 0 {
		limit = s.limit
	}
	if !m.IsValid() {
		m = mode.Hybrid
	}

	if !s.ready.Load() && !s.buildFailed.Load() {
		s.lazyInitialize(ctx)
	}
	corpus := s.corpus.Load()
	if !s.ready.Load() || corpus == nil {
		s.logger.Warn("search before successful initialization", zap.Error(domain.ErrNotReady))
		metrics.SearchRequestsTotal.WithLabelValues(string(m), "failed").Inc()
		resp := result.EmptyResponse(raw, m)
		resp.ExecutionTimeMs = elapsedMs(start)
		return resp
	}

	key := cacheKey(s.fingerprint, m, limit, raw)
	if s.deps.Cache != nil {
		if resp, ok := s.deps.Cache.Get(ctx, key); ok {
			metrics.ResponseCacheTotal.WithLabelValues("hit").Inc()
			resp.ExecutionTimeMs = elapsedMs(start)
			metrics.SearchRequestsTotal.WithLabelValues(string(m), "ok").Inc()
			return resp
		}
		metrics.ResponseCacheTotal.WithLabelValues("miss").Inc()
	}

	q := s.deps.Parser.Parse(ctx, raw)
	lexHits, vecHits, degraded := s.queryEngines(ctx, q, limit, m)

	results, total := fuse(lexHits, vecHits, q, corpus, s.weights, limit)
	resp := result.Response{
		Query:           raw,
		Mode:            m,
		Results:         results,
		TotalFound:      total,
		Degraded:        degraded,
		ExecutionTimeMs: elapsedMs(start),
	}

	status := "ok"
	if len(degraded) > 0 {
		status = "degraded"
	} else if s.deps.Cache != nil {
		s.deps.Cache.Set(ctx, key, resp)
	}
	metrics.SearchRequestsTotal.WithLabelValues(string(m), status).Inc()
	metrics.SearchDuration.WithLabelValues(string(m)).Observe(time.Since(start).Seconds())
	metrics.SearchResultsFound.Observe(float64(total))

	s.logger.Debug("search completed",
		zap.String("query", raw),
		zap.String("mode", string(m)),
		zap.Int("lexical_hits", len(lexHits)),
		zap.Int("vector_hits", len(vecHits)),
		zap.Int("total_found", total),
		zap.Strings("degraded", degraded),
	)
	return resp
}

// queryEngines runs the selected engines concurrently and waits for both.
// Engine errors are logged and turned into empty hit lists.
func (s *Service) queryEngines(
	ctx context.Context, q query.Query, limit int, m mode.Mode,
) (lexHits, vecHits []candidate.Hit, degraded []string) {
	// Engine failures degrade the response instead of cancelling the
	// sibling engine, so the goroutines never return an error.
	g, gctx := errgroup.WithContext(ctx)
	var lexErr, vecErr error

	if m.UsesLexical() {
		g.Go(func() error {
			lexHits, lexErr = s.runEngine(gctx, s.deps.Lexical, q, limit)
			return nil
		})
	}
	if m.UsesVector() {
		g.Go(func() error {
			vecHits, vecErr = s.runEngine(gctx, s.deps.Vector, q, limit)
			return nil
		})
	}
	_ = g.Wait()

	if lexErr != nil {
		lexHits = nil
		degraded = append(degraded, s.deps.Lexical.Name())
	}
	if vecErr != nil {
		vecHits = nil
		degraded = append(degraded, s.deps.Vector.Name())
	}
	return lexHits, vecHits, degraded
}

func (s *Service) runEngine(ctx context.Context, e Engine, q query.Query, limit int) (hits []candidate.Hit, err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s panicked: %v", domain.ErrEngineQuery, e.Name(), r)
		}
		metrics.EngineQueryDuration.WithLabelValues(e.Name()).Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.EngineErrorsTotal.WithLabelValues(e.Name()).Inc()
			s.logger.Warn("engine query failed", zap.String("engine", e.Name()), zap.Error(err))
		}
	}()

	hits, err = e.Search(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrEngineQuery, e.Name(), err)
	}
	return hits, nil
}

// cacheKey scopes cached responses to the corpus they were computed from,
// so a shared cache never serves hits from a previous dataset.
func cacheKey(fingerprint string, m mode.Mode, limit int, raw string) string {
	return fingerprint + "|" + string(m) + "|" + strconv.Itoa(limit) + "|" + raw
}

func elapsedMs(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}
