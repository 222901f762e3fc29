package cinedex

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	movies  []Movie
	loader  Loader
	dataset string

	tuning     Config
	recognizer Recognizer

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithMovies searches the given movies instead of a dataset file.
// Movies without an ID get their position as ID.
func WithMovies(movies []Movie) Option {
	return optionFunc(func(c *clientConfig) {
		c.movies = append([]Movie(nil), movies...)
	})
}

// WithLoader supplies the corpus lazily on first initialization.
func WithLoader(l Loader) Option {
	return optionFunc(func(c *clientConfig) {
		c.loader = l
	})
}

// WithDataset reads the MSRD tab-separated movie file at path,
// downloading it first when missing. Ignored with WithMovies or WithLoader.
func WithDataset(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.dataset = path
	})
}

// WithConfig tunes ranking, persistence and caching.
func WithConfig(cfg Config) Option {
	return optionFunc(func(c *clientConfig) {
		c.tuning = cfg
	})
}

// WithRecognizer enables person recognition in queries.
// Pass nil to disable (default).
func WithRecognizer(r Recognizer) Option {
	return optionFunc(func(c *clientConfig) {
		c.recognizer = r
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
