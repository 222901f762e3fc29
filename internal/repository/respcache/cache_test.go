package respcache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/cinedex/internal/domain/search/mode"
)

func TestGet_Miss(t *testing.T) {
	c, _ := newTestCache(t)
	if _, ok := c.Get(context.Background(), "hybrid|10|space"); ok {
		t.Fatal("expected miss on empty store")
	}
}

func TestSetGet_RoundTrip(t *testing.T) {
	c := New(NewMemoryStore(8, time.Minute), "", time.Minute, zap.NewNop())
	ctx := context.Background()
	want := sampleResponse(t)

	c.Set(ctx, "k", want)
	got, ok := c.Get(ctx, "k")
	if !ok {
		t.Fatal("expected hit")
	}
	if got.Query != want.Query || got.Mode != mode.Hybrid || got.TotalFound != 3 {
		t.Errorf("response = %+v", got)
	}
	if len(got.Results) != 1 {
		t.Fatalf("results = %d", len(got.Results))
	}
	r := got.Results[0]
	if r.Score() != 0.93 || r.LexicalScore() != 1.2 || r.VectorScore() != 0.5 || r.Boost() != 0.2 {
		t.Errorf("scores = %v %v %v %v", r.Score(), r.LexicalScore(), r.VectorScore(), r.Boost())
	}
	mv := r.Movie()
	if mv.ID() != "42" || mv.Title() != "Space Cargo" || mv.Directors()[0] != "Ridley Scott" {
		t.Errorf("movie = %+v", mv)
	}
	if y, ok := mv.Year(); !ok || y != 1979 {
		t.Errorf("year = %d, %v", y, ok)
	}
	if _, ok := mv.Popularity(); ok {
		t.Error("popularity must stay unknown")
	}
	if got.ExecutionTimeMs != 0 {
		t.Error("execution time must not be cached")
	}
}

func TestSet_HashedPrefixedKey(t *testing.T) {
	c, ms := newTestCache(t)
	var gotKey string
	var gotTTL time.Duration
	ms.setFn = func(_ context.Context, key string, _ []byte, ttl time.Duration) error {
		gotKey, gotTTL = key, ttl
		return nil
	}

	c.Set(context.Background(), "hybrid|10|space", sampleResponse(t))
	if !strings.HasPrefix(gotKey, DefaultPrefix) || len(gotKey) != len(DefaultPrefix)+64 {
		t.Errorf("key = %q", gotKey)
	}
	if gotTTL != time.Minute {
		t.Errorf("ttl = %v", gotTTL)
	}
}

func TestGet_StoreErrorIsMiss(t *testing.T) {
	c, ms := newTestCache(t)
	ms.getFn = func(context.Context, string) ([]byte, error) {
		return nil, errors.New("connection reset")
	}
	if _, ok := c.Get(context.Background(), "k"); ok {
		t.Fatal("store error must be a miss")
	}
}

func TestGet_CorruptDataIsMiss(t *testing.T) {
	c, ms := newTestCache(t)
	ms.getFn = func(context.Context, string) ([]byte, error) {
		return []byte("{not json"), nil
	}
	if _, ok := c.Get(context.Background(), "k"); ok {
		t.Fatal("corrupt data must be a miss")
	}
}

func TestGet_UnknownModeIsMiss(t *testing.T) {
	c, ms := newTestCache(t)
	ms.getFn = func(context.Context, string) ([]byte, error) {
		return []byte(`{"query":"x","mode":"geo","results":[]}`), nil
	}
	if _, ok := c.Get(context.Background(), "k"); ok {
		t.Fatal("unknown mode must be a miss")
	}
}

func TestSet_StoreErrorIgnored(t *testing.T) {
	c, ms := newTestCache(t)
	ms.setFn = func(context.Context, string, []byte, time.Duration) error {
		return errors.New("READONLY")
	}
	c.Set(context.Background(), "k", sampleResponse(t))
}

func TestMemoryStore_Evicts(t *testing.T) {
	s := NewMemoryStore(2, 0)
	ctx := context.Background()
	_ = s.SetWithTTL(ctx, "a", []byte("1"), 0)
	_ = s.SetWithTTL(ctx, "b", []byte("2"), 0)
	_ = s.SetWithTTL(ctx, "c", []byte("3"), 0)

	if s.Len() != 2 {
		t.Fatalf("len = %d", s.Len())
	}
	if _, err := s.Get(ctx, "a"); err == nil {
		t.Error("oldest entry should be evicted")
	}
	if v, err := s.Get(ctx, "c"); err != nil || string(v) != "3" {
		t.Errorf("Get(c) = %q, %v", v, err)
	}
}
