package cinedex

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/cinedex/internal/app"
	"github.com/kailas-cloud/cinedex/internal/config"
	"github.com/kailas-cloud/cinedex/internal/domain/search/mode"
	"github.com/kailas-cloud/cinedex/internal/domain/search/request"
	"github.com/kailas-cloud/cinedex/internal/domain/search/result"
)

// searchUseCase is the internal interface for the search orchestrator.
type searchUseCase interface {
	Initialize(ctx context.Context) bool
	SearchMode(ctx context.Context, raw string, limit int, m mode.Mode) result.Response
	IsReady() bool
	ItemCount() int
}

// Client is the cinedex SDK entry point. It is safe for concurrent use.
type Client struct {
	searchSvc searchUseCase
	healthSvc healthUseCase
	closer    func() error
	obs       *observer
}

// New creates a Client. Nothing is loaded until Initialize or the first
// search.
func New(opts ...Option) (*Client, error) {
	cc := &clientConfig{}
	for _, o := range opts {
		o.apply(cc)
	}

	if cc.movies != nil && cc.loader != nil {
		return nil, errors.New("cinedex: WithMovies and WithLoader are mutually exclusive")
	}

	cfg, err := cc.appConfig()
	if err != nil {
		return nil, err
	}

	obs, err := newObserver(cc.logger, cc.metricsReg)
	if err != nil {
		return nil, err
	}

	var appOpts app.Options
	switch {
	case cc.movies != nil:
		movies := cc.movies
		appOpts.Loader = &loaderAdapter{inner: LoaderFunc(func(context.Context) ([]Movie, error) {
			return movies, nil
		})}
	case cc.loader != nil:
		appOpts.Loader = &loaderAdapter{inner: cc.loader}
	}
	if cc.recognizer != nil {
		appOpts.Recognizer = &recognizerAdapter{inner: cc.recognizer}
	}

	a, err := app.New(context.Background(), cfg, zap.NewNop(), appOpts)
	if err != nil {
		return nil, fmt.Errorf("cinedex: %w", err)
	}

	return &Client{
		searchSvc: a.Search,
		healthSvc: a.Health,
		closer:    a.Close,
		obs:       obs,
	}, nil
}

// appConfig maps SDK options onto the service configuration.
func (cc *clientConfig) appConfig() (config.Config, error) {
	cfg := config.Default()
	t := cc.tuning

	if t.LexicalWeight != 0 || t.VectorWeight != 0 {
		cfg.Search.LexicalWeight, cfg.Search.VectorWeight = t.LexicalWeight, t.VectorWeight
	}
	if t.GenreBoost != 0 {
		cfg.Search.GenreBoost = t.GenreBoost
	}
	if t.ActorBoost != 0 {
		cfg.Search.ActorBoost = t.ActorBoost
	}
	if t.YearBoost != 0 {
		cfg.Search.YearBoost = t.YearBoost
	}
	if t.DefaultLimit > 0 {
		cfg.Search.DefaultLimit = min(t.DefaultLimit, request.MaxLimit)
	}

	if cc.dataset != "" {
		cfg.Data.Dir, cfg.Data.MoviesFile = filepath.Split(cc.dataset)
	}
	if t.IndexDir != "" {
		dir, err := filepath.Abs(t.IndexDir)
		if err != nil {
			return config.Config{}, fmt.Errorf("cinedex: index dir: %w", err)
		}
		cfg.Data.IndexDir = dir
	}

	if t.CacheSize > 0 {
		cfg.Cache.Driver = "memory"
		cfg.Cache.Size = t.CacheSize
		if t.CacheTTL >= time.Second {
			cfg.Cache.TTLSec = int(t.CacheTTL / time.Second)
		}
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("cinedex: invalid config: %w", err)
	}
	return cfg, nil
}

// Close releases the index store.
func (c *Client) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer()
}

// Initialize loads the corpus and builds both indexes. Calling it again
// after success is a no-op; after a failure it retries.
func (c *Client) Initialize(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("initialize", start, err) }()

	if !c.searchSvc.Initialize(ctx) {
		return ErrBuildFailed
	}
	return nil
}

// IsReady reports whether both indexes are built.
func (c *Client) IsReady() bool { return c.searchSvc.IsReady() }

// ItemCount returns the number of indexed movies, 0 before initialization.
func (c *Client) ItemCount() int { return c.searchSvc.ItemCount() }

// Search runs a hybrid search. limit <= 0 uses the configured default.
func (c *Client) Search(ctx context.Context, query string, limit int) (SearchResponse, error) {
	return c.SearchMode(ctx, query, limit, ModeHybrid)
}

// SearchMode runs a search with the given engines. A client that is not yet
// initialized initializes itself once; ErrNotReady is returned if that fails.
// Engine failures do not fail the call: see SearchResponse.Degraded.
func (c *Client) SearchMode(ctx context.Context, query string, limit int, m SearchMode) (resp SearchResponse, err error) {
	start := time.Now()
	defer func() {
		c.obs.observe("search", start, err, "mode", string(m), "total_found", resp.TotalFound)
	}()

	req, err := request.New(query, mode.Mode(m), max(limit, 0))
	if err != nil {
		return SearchResponse{}, fmt.Errorf("%w: %w", ErrInvalidQuery, err)
	}

	out := c.searchSvc.SearchMode(ctx, req.Query(), req.RequestedLimit(), req.Mode())
	if !c.searchSvc.IsReady() {
		return SearchResponse{}, ErrNotReady
	}
	c.obs.observeResults(len(out.Results))
	return responseFromDomain(out), nil
}
