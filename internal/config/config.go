package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the cinedex configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Data    DataConfig    `yaml:"data"`
	Search  SearchConfig  `yaml:"search"`
	Cache   CacheConfig   `yaml:"cache"`
	NER     NERConfig     `yaml:"ner"`
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
	// APIKeys enables bearer auth on the search API when non-empty.
	APIKeys []string `yaml:"api_keys"`
}

// DataConfig holds dataset and index locations.
type DataConfig struct {
	Dir             string `yaml:"data_dir"`
	MoviesFile      string `yaml:"movies_file"`
	IndexDir        string `yaml:"index_dir"` // empty disables index persistence
	DatasetURL      string `yaml:"dataset_url"`
	MinDatasetBytes int64  `yaml:"min_dataset_bytes"`
	DownloadTimeout int    `yaml:"download_timeout_sec"`
}

// MoviesPath returns the dataset file path.
func (d DataConfig) MoviesPath() string {
	return filepath.Join(d.Dir, d.MoviesFile)
}

// IndexPath returns the snapshot directory, or "" when persistence is off.
func (d DataConfig) IndexPath() string {
	if d.IndexDir == "" {
		return ""
	}
	if filepath.IsAbs(d.IndexDir) {
		return d.IndexDir
	}
	return filepath.Join(d.Dir, d.IndexDir)
}

// SearchConfig holds ranking and index-building parameters.
type SearchConfig struct {
	TFIDFMaxFeatures       int     `yaml:"tfidf_max_features"`
	TFIDFNgramMin          int     `yaml:"tfidf_ngram_min"`
	TFIDFNgramMax          int     `yaml:"tfidf_ngram_max"`
	TFIDFMinDF             int     `yaml:"tfidf_min_df"`
	LexicalLimitMultiplier int     `yaml:"lexical_limit_multiplier"`
	VectorLimitMultiplier  int     `yaml:"vector_limit_multiplier"`
	LexicalWeight          float64 `yaml:"lexical_weight"`
	VectorWeight           float64 `yaml:"vector_weight"`
	GenreBoost             float64 `yaml:"genre_boost"`
	ActorBoost             float64 `yaml:"actor_boost"`
	YearBoost              float64 `yaml:"year_boost"`
	BM25B                  float64 `yaml:"bm25_b"`
	BM25K1                 float64 `yaml:"bm25_k1"`
	LexicalOperator        string  `yaml:"lexical_operator"` // and (default), or
	BuildWorkers           int     `yaml:"build_workers"`
	DefaultLimit           int     `yaml:"default_limit"`
}

// CacheConfig holds response cache settings.
type CacheConfig struct {
	Driver    string   `yaml:"driver"` // none (default), memory, redis
	Size      int      `yaml:"size"`
	TTLSec    int      `yaml:"ttl_sec"`
	Addrs     []string `yaml:"addrs"`
	Username  string   `yaml:"username"`
	Password  string   `yaml:"password"`
	DB        int      `yaml:"db"`
	KeyPrefix string   `yaml:"key_prefix"`
}

// NERConfig holds person recognizer settings.
type NERConfig struct {
	Enabled    bool   `yaml:"enabled"`
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// Default returns a complete configuration without reading any file.
func Default() Config {
	cfg := Config{HTTP: HTTPConfig{Port: 5000}}
	cfg.ApplyDefaults()
	return cfg
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	c.Data.applyDefaults()
	c.Search.applyDefaults()
	if c.Cache.Driver == "" {
		c.Cache.Driver = "none"
	}
	if c.Cache.Size <= 0 {
		c.Cache.Size = 1024
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 300
	}
	if c.Cache.KeyPrefix == "" {
		c.Cache.KeyPrefix = "cinedex:"
	}
	if c.NER.Model == "" {
		c.NER.Model = "gpt-4o-mini"
	}
	if c.NER.TimeoutSec <= 0 {
		c.NER.TimeoutSec = 5
	}
}

func (d *DataConfig) applyDefaults() {
	if d.Dir == "" {
		d.Dir = "data"
	}
	if d.MoviesFile == "" {
		d.MoviesFile = "movies_metadata.csv"
	}
	if d.DatasetURL == "" {
		d.DatasetURL = "https://raw.githubusercontent.com/microsoft/MSRD/main/data/movies_metadata.csv"
	}
	if d.MinDatasetBytes <= 0 {
		d.MinDatasetBytes = 1 << 20
	}
	if d.DownloadTimeout <= 0 {
		d.DownloadTimeout = 120
	}
}

func (s *SearchConfig) applyDefaults() {
	if s.TFIDFMaxFeatures <= 0 {
		s.TFIDFMaxFeatures = 5000
	}
	if s.TFIDFNgramMin <= 0 {
		s.TFIDFNgramMin = 1
	}
	if s.TFIDFNgramMax <= 0 {
		s.TFIDFNgramMax = 2
	}
	if s.TFIDFMinDF <= 0 {
		s.TFIDFMinDF = 2
	}
	if s.LexicalLimitMultiplier <= 0 {
		s.LexicalLimitMultiplier = 2
	}
	if s.VectorLimitMultiplier <= 0 {
		s.VectorLimitMultiplier = 3
	}
	if s.LexicalWeight == 0 && s.VectorWeight == 0 {
		s.LexicalWeight, s.VectorWeight = 0.6, 0.4
	}
	if s.GenreBoost == 0 {
		s.GenreBoost = 0.3
	}
	if s.ActorBoost == 0 {
		s.ActorBoost = 0.4
	}
	if s.YearBoost == 0 {
		s.YearBoost = 0.2
	}
	if s.BM25B == 0 {
		s.BM25B = 0.75
	}
	if s.BM25K1 == 0 {
		s.BM25K1 = 1.2
	}
	if s.LexicalOperator == "" {
		s.LexicalOperator = "and"
	}
	if s.BuildWorkers <= 0 {
		s.BuildWorkers = 8
	}
	if s.DefaultLimit <= 0 {
		s.DefaultLimit = 10
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	s := c.Search
	if s.TFIDFNgramMin > s.TFIDFNgramMax {
		return fmt.Errorf("search.tfidf_ngram_min (%d) exceeds tfidf_ngram_max (%d)", s.TFIDFNgramMin, s.TFIDFNgramMax)
	}
	if s.LexicalWeight < 0 || s.VectorWeight < 0 {
		return fmt.Errorf("search weights must be non-negative")
	}
	if s.GenreBoost < 0 || s.ActorBoost < 0 || s.YearBoost < 0 {
		return fmt.Errorf("search boosts must be non-negative")
	}
	if s.BM25B < 0 || s.BM25B > 1 {
		return fmt.Errorf("search.bm25_b must be between 0 and 1, got %v", s.BM25B)
	}
	switch s.LexicalOperator {
	case "and", "or":
		// ok
	default:
		return fmt.Errorf("search.lexical_operator must be \"and\" or \"or\", got %q", s.LexicalOperator)
	}
	switch c.Cache.Driver {
	case "none", "memory":
		// ok
	case "redis":
		if len(c.Cache.Addrs) == 0 {
			return fmt.Errorf("cache.addrs is required for the redis driver")
		}
	default:
		return fmt.Errorf("cache.driver must be \"none\", \"memory\" or \"redis\", got %q", c.Cache.Driver)
	}
	if c.NER.Enabled && c.NER.APIKey == "" {
		return fmt.Errorf("ner.api_key is required when ner is enabled")
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
