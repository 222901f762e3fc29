package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidate_InvalidPort(t *testing.T) {
	cfg := Default()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_InvalidOperator(t *testing.T) {
	cfg := Default()
	cfg.Search.LexicalOperator = "xor"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid operator")
	}
	expected := `search.lexical_operator must be "and" or "or", got "xor"`
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestValidate_CacheDrivers(t *testing.T) {
	tests := []struct {
		driver  string
		addrs   []string
		wantErr bool
	}{
		{"none", nil, false},
		{"memory", nil, false},
		{"redis", []string{"localhost:6379"}, false},
		{"redis", nil, true},
		{"memcached", nil, true},
	}
	for _, tt := range tests {
		t.Run("driver="+tt.driver, func(t *testing.T) {
			cfg := Default()
			cfg.Cache.Driver = tt.driver
			cfg.Cache.Addrs = tt.addrs

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_NgramRange(t *testing.T) {
	cfg := Default()
	cfg.Search.TFIDFNgramMin = 3
	cfg.Search.TFIDFNgramMax = 2

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for inverted ngram range")
	}
}

func TestValidate_NERRequiresKey(t *testing.T) {
	cfg := Default()
	cfg.NER.Enabled = true

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for ner without api key")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.Data.Dir != "data" || cfg.Data.MoviesFile != "movies_metadata.csv" {
		t.Errorf("unexpected data defaults: %+v", cfg.Data)
	}
	s := cfg.Search
	if s.TFIDFMaxFeatures != 5000 {
		t.Errorf("expected TFIDFMaxFeatures=5000, got %d", s.TFIDFMaxFeatures)
	}
	if s.TFIDFNgramMin != 1 || s.TFIDFNgramMax != 2 {
		t.Errorf("expected ngram 1..2, got %d..%d", s.TFIDFNgramMin, s.TFIDFNgramMax)
	}
	if s.TFIDFMinDF != 2 {
		t.Errorf("expected TFIDFMinDF=2, got %d", s.TFIDFMinDF)
	}
	if s.LexicalLimitMultiplier != 2 || s.VectorLimitMultiplier != 3 {
		t.Errorf("expected multipliers 2/3, got %d/%d", s.LexicalLimitMultiplier, s.VectorLimitMultiplier)
	}
	if s.LexicalWeight != 0.6 || s.VectorWeight != 0.4 {
		t.Errorf("expected weights 0.6/0.4, got %v/%v", s.LexicalWeight, s.VectorWeight)
	}
	if s.GenreBoost != 0.3 || s.ActorBoost != 0.4 || s.YearBoost != 0.2 {
		t.Errorf("unexpected boosts %v/%v/%v", s.GenreBoost, s.ActorBoost, s.YearBoost)
	}
	if s.LexicalOperator != "and" {
		t.Errorf("expected LexicalOperator=and, got %q", s.LexicalOperator)
	}
	if cfg.Cache.Driver != "none" {
		t.Errorf("expected Cache.Driver=none, got %q", cfg.Cache.Driver)
	}
}

func TestApplyDefaults_KeepsOneZeroWeight(t *testing.T) {
	cfg := Config{Search: SearchConfig{LexicalWeight: 1}}
	cfg.ApplyDefaults()

	if cfg.Search.LexicalWeight != 1 || cfg.Search.VectorWeight != 0 {
		t.Errorf("weights = %v/%v, want 1/0", cfg.Search.LexicalWeight, cfg.Search.VectorWeight)
	}
}

func TestDataPaths(t *testing.T) {
	d := DataConfig{Dir: "data", MoviesFile: "m.tsv", IndexDir: "index"}
	if got := d.MoviesPath(); got != filepath.Join("data", "m.tsv") {
		t.Errorf("MoviesPath() = %q", got)
	}
	if got := d.IndexPath(); got != filepath.Join("data", "index") {
		t.Errorf("IndexPath() = %q", got)
	}
	d.IndexDir = ""
	if d.IndexPath() != "" {
		t.Error("empty index_dir must disable persistence")
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("CINEDEX_TEST_PORT", "8081")

	got := string(expandEnvVars([]byte("port: ${CINEDEX_TEST_PORT}\nhost: ${CINEDEX_UNSET_VAR:-fallback}")))
	want := "port: 8081\nhost: fallback"
	if got != want {
		t.Errorf("expandEnvVars() = %q, want %q", got, want)
	}
}

func TestLoad_FromConfigDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "config"), 0o750); err != nil {
		t.Fatal(err)
	}
	yaml := "http:\n  port: ${CINEDEX_TEST_HTTP_PORT:-5050}\nsearch:\n  genre_boost: 0.5\n"
	if err := os.WriteFile(filepath.Join(dir, "config", "unittest.yaml"), []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	cfg, err := Load("unittest")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.HTTP.Port != 5050 {
		t.Errorf("Port = %d, want 5050", cfg.HTTP.Port)
	}
	if cfg.Search.GenreBoost != 0.5 {
		t.Errorf("GenreBoost = %v, want 0.5", cfg.Search.GenreBoost)
	}
	if cfg.Search.ActorBoost != 0.4 {
		t.Errorf("ActorBoost = %v, want default 0.4", cfg.Search.ActorBoost)
	}
}
