package movie

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/cinedex/internal/domain"
)

// DownloaderConfig configures dataset retrieval.
type DownloaderConfig struct {
	URL      string
	Path     string
	MinBytes int64
	Timeout  time.Duration
}

// Downloader fetches the dataset over HTTP.
type Downloader struct {
	cfg    DownloaderConfig
	client *http.Client
	logger *zap.Logger
}

// NewDownloader creates a downloader. A nil client selects one with
// cfg.Timeout.
func NewDownloader(cfg DownloaderConfig, client *http.Client, logger *zap.Logger) *Downloader {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Downloader{cfg: cfg, client: client, logger: logger}
}

// Verify checks that the dataset file exists and is at least MinBytes long.
func (d *Downloader) Verify() error {
	info, err := os.Stat(d.cfg.Path)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrDatasetUnavailable, err)
	}
	if info.Size() < d.cfg.MinBytes {
		return fmt.Errorf("%w: %s is %d bytes, want at least %d",
			domain.ErrDatasetUnavailable, d.cfg.Path, info.Size(), d.cfg.MinBytes)
	}
	return nil
}

// Ensure downloads the dataset unless a valid copy is already present.
func (d *Downloader) Ensure(ctx context.Context) error {
	if err := d.Verify(); err == nil {
		return nil
	}
	d.logger.Info("Dataset not available, downloading")
	return d.Download(ctx, true)
}

// Download fetches the dataset into Path. Without force an existing file is
// kept. The file is written to a temporary sibling and renamed into place.
func (d *Downloader) Download(ctx context.Context, force bool) error {
	if !force {
		if _, err := os.Stat(d.cfg.Path); err == nil {
			d.logger.Info("Dataset already exists", zap.String("path", d.cfg.Path))
			return nil
		}
	}
	if err := os.MkdirAll(filepath.Dir(d.cfg.Path), 0o755); err != nil {
		return fmt.Errorf("%w: create data dir: %w", domain.ErrDatasetUnavailable, err)
	}

	start := time.Now()
	d.logger.Info("Downloading dataset", zap.String("url", d.cfg.URL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.cfg.URL, nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %w", domain.ErrDatasetUnavailable, err)
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: fetch %s: %w", domain.ErrDatasetUnavailable, d.cfg.URL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: fetch %s: status %d", domain.ErrDatasetUnavailable, d.cfg.URL, resp.StatusCode)
	}

	n, err := writeAtomic(d.cfg.Path, resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrDatasetUnavailable, err)
	}
	d.logger.Info("Dataset downloaded",
		zap.String("path", d.cfg.Path),
		zap.Int64("bytes", n),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}

func writeAtomic(path string, r io.Reader) (int64, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.part")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return 0, fmt.Errorf("write dataset: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("close dataset: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return 0, fmt.Errorf("rename dataset: %w", err)
	}
	return n, nil
}
