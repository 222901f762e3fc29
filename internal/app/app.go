// Package app is the composition root shared by the CLI, the HTTP server
// and the public SDK.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/cinedex/internal/config"
	"github.com/kailas-cloud/cinedex/internal/db/badger"
	dbRedis "github.com/kailas-cloud/cinedex/internal/db/redis"
	"github.com/kailas-cloud/cinedex/internal/domain"
	"github.com/kailas-cloud/cinedex/internal/engine/lexical"
	"github.com/kailas-cloud/cinedex/internal/engine/vector"
	"github.com/kailas-cloud/cinedex/internal/metrics"
	"github.com/kailas-cloud/cinedex/internal/queryparser"
	movierepo "github.com/kailas-cloud/cinedex/internal/repository/movie"
	"github.com/kailas-cloud/cinedex/internal/repository/respcache"
	"github.com/kailas-cloud/cinedex/internal/repository/snapshot"
	openaiNER "github.com/kailas-cloud/cinedex/internal/transport/openai"
	healthuc "github.com/kailas-cloud/cinedex/internal/usecase/health"
	searchuc "github.com/kailas-cloud/cinedex/internal/usecase/search"
)

const cacheReadinessTimeout = 5 * time.Second

// Options override parts of the configuration-driven wiring.
type Options struct {
	// Loader replaces the dataset file loader.
	Loader searchuc.CorpusLoader
	// Recognizer replaces the configured person recognizer.
	Recognizer domain.PersonRecognizer
	// HTTPClient is used for dataset downloads.
	HTTPClient *http.Client
}

// App holds the wired services.
type App struct {
	Search     *searchuc.Service
	Health     *healthuc.Service
	Downloader *movierepo.Downloader

	logger  *zap.Logger
	closers []func() error
}

// New wires the search stack from cfg. Nothing is loaded or built until
// Search.Initialize (or the first search) runs.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger, opts Options) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics.RegisterSearchMetrics()

	a := &App{logger: logger}

	a.Downloader = NewDownloader(cfg.Data, opts.HTTPClient, logger)

	loader := opts.Loader
	if loader == nil {
		loader = movierepo.NewLoader(cfg.Data.MoviesPath(), logger).WithDownloader(a.Downloader)
	}

	recognizer := opts.Recognizer
	var recognizerHealth healthuc.RecognizerChecker
	if recognizer == nil && cfg.NER.Enabled {
		r := openaiNER.NewRecognizer(&openaiNER.Config{
			APIKey:  cfg.NER.APIKey,
			BaseURL: cfg.NER.BaseURL,
			Model:   cfg.NER.Model,
			Timeout: time.Duration(cfg.NER.TimeoutSec) * time.Second,
			Logger:  logger,
		})
		recognizer, recognizerHealth = r, r
		logger.Info("Person recognizer enabled", zap.String("model", cfg.NER.Model))
	}

	deps := searchuc.Deps{
		Loader: loader,
		Parser: queryparser.New(recognizer, logger),
		Lexical: lexical.New(lexical.Config{
			B:               cfg.Search.BM25B,
			K1:              cfg.Search.BM25K1,
			Operator:        lexical.Operator(cfg.Search.LexicalOperator),
			FetchMultiplier: cfg.Search.LexicalLimitMultiplier,
			Workers:         cfg.Search.BuildWorkers,
		}, logger),
		Vector: vector.New(vector.Config{
			MaxFeatures:     cfg.Search.TFIDFMaxFeatures,
			NgramMin:        cfg.Search.TFIDFNgramMin,
			NgramMax:        cfg.Search.TFIDFNgramMax,
			MinDF:           cfg.Search.TFIDFMinDF,
			FetchMultiplier: cfg.Search.VectorLimitMultiplier,
			Workers:         cfg.Search.BuildWorkers,
		}, logger),
		Logger: logger,
	}

	if path := cfg.Data.IndexPath(); path != "" {
		store, err := badger.Open(path, false, logger)
		if err != nil {
			return nil, fmt.Errorf("open index store: %w", err)
		}
		a.closers = append(a.closers, store.Close)
		deps.Snapshots = snapshot.New(store)
	}

	cache, cachePinger, err := a.buildCache(ctx, cfg.Cache)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	// Leave the interfaces nil rather than holding typed nil pointers.
	if cache != nil {
		deps.Cache = cache
	}

	a.Search = searchuc.New(deps, searchuc.Weights{
		Lexical: cfg.Search.LexicalWeight,
		Vector:  cfg.Search.VectorWeight,
		Genre:   cfg.Search.GenreBoost,
		Actor:   cfg.Search.ActorBoost,
		Year:    cfg.Search.YearBoost,
	}, cfg.Search.DefaultLimit)
	a.Health = healthuc.New(a.Search, cachePinger, recognizerHealth)
	return a, nil
}

// ClearSnapshot drops the persisted lexical index so the next start
// rebuilds it. It is a no-op when no index directory is configured.
func ClearSnapshot(ctx context.Context, cfg config.DataConfig, logger *zap.Logger) error {
	path := cfg.IndexPath()
	if path == "" {
		return nil
	}
	store, err := badger.Open(path, false, logger)
	if err != nil {
		return fmt.Errorf("open index store: %w", err)
	}
	clearErr := snapshot.New(store).Clear(ctx)
	return errors.Join(clearErr, store.Close())
}

// NewDownloader creates the dataset downloader for cfg. client may be nil.
func NewDownloader(cfg config.DataConfig, client *http.Client, logger *zap.Logger) *movierepo.Downloader {
	return movierepo.NewDownloader(movierepo.DownloaderConfig{
		URL:      cfg.DatasetURL,
		Path:     cfg.MoviesPath(),
		MinBytes: cfg.MinDatasetBytes,
		Timeout:  time.Duration(cfg.DownloadTimeout) * time.Second,
	}, client, logger)
}

func (a *App) buildCache(ctx context.Context, cfg config.CacheConfig) (*respcache.Cache, healthuc.CachePinger, error) {
	ttl := time.Duration(cfg.TTLSec) * time.Second
	prefix := cfg.KeyPrefix + "resp:"

	switch cfg.Driver {
	case "", "none":
		return nil, nil, nil
	case "memory":
		store := respcache.NewMemoryStore(cfg.Size, ttl)
		return respcache.New(store, prefix, ttl, a.logger), store, nil
	case "redis":
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:      cfg.Addrs,
			Username:   cfg.Username,
			Password:   cfg.Password,
			DB:         cfg.DB,
			ClientName: "cinedex-cache",
		})
		if err != nil {
			return nil, nil, fmt.Errorf("create redis cache: %w", err)
		}
		a.closers = append(a.closers, func() error { store.Close(); return nil })
		if err := store.WaitForReady(ctx, cacheReadinessTimeout); err != nil {
			a.logger.Warn("Response cache unreachable, continuing", zap.Error(err))
		}
		return respcache.New(store, prefix, ttl, a.logger), store, nil
	default:
		return nil, nil, fmt.Errorf("unknown cache driver %q", cfg.Driver)
	}
}

// Close releases stores in reverse order of creation.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}
