package respcache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/cinedex/internal/db"
	"github.com/kailas-cloud/cinedex/internal/domain/movie"
	"github.com/kailas-cloud/cinedex/internal/domain/search/mode"
	"github.com/kailas-cloud/cinedex/internal/domain/search/result"
)

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

func newTestCache(t *testing.T) (*Cache, *mockKVStore) {
	t.Helper()
	ms := &mockKVStore{}
	return New(ms, "", time.Minute, zap.NewNop()), ms
}

func sampleResponse(t *testing.T) result.Response {
	t.Helper()
	m, err := movie.New("42", "Space Cargo", "Haulers in deep space.",
		[]string{"Science Fiction"}, []string{"Sigourney Weaver"}, []string{"Ridley Scott"},
		movie.WithYear(1979), movie.WithRating(8.4))
	if err != nil {
		t.Fatal(err)
	}
	return result.Response{
		Query:           "space cargo",
		Mode:            mode.Hybrid,
		Results:         []result.Result{result.New(m, 0.93, 1.2, 0.5, 0.2)},
		TotalFound:      3,
		ExecutionTimeMs: 12.5,
	}
}
