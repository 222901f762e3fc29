package db

import (
	"context"
	"time"
)

// Store is the main database facade combining all sub-interfaces.
type Store interface {
	Pinger
	KVStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVStore provides simple key-value operations.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// BatchStore writes and scans ordered key ranges.
type BatchStore interface {
	WriteBatch(ctx context.Context, entries []Entry) error
	ScanPrefix(ctx context.Context, prefix string, fn func(key string, value []byte) error) error
	DropPrefix(ctx context.Context, prefix string) error
}

// Entry is one key-value pair of a batch write.
type Entry struct {
	Key   string
	Value []byte
}
