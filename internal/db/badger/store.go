// Package badger implements an embedded db store on BadgerDB. It keeps
// lexical index snapshots between process restarts.
package badger

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"go.uber.org/zap"

	"github.com/kailas-cloud/cinedex/internal/db"
)

var (
	_ db.Pinger     = (*Store)(nil)
	_ db.KVStore    = (*Store)(nil)
	_ db.BatchStore = (*Store)(nil)
)

// Store wraps a BadgerDB instance.
type Store struct {
	db     *badger.DB
	logger *zap.Logger
}

// zapAdapter routes badger's internal logging through zap.
type zapAdapter struct {
	s *zap.SugaredLogger
}

var _ badger.Logger = (*zapAdapter)(nil)

func (a *zapAdapter) Errorf(msg string, items ...any)   { a.s.Errorf(msg, items...) }
func (a *zapAdapter) Warningf(msg string, items ...any) { a.s.Warnf(msg, items...) }
func (a *zapAdapter) Infof(msg string, items ...any)    { a.s.Debugf(msg, items...) }
func (a *zapAdapter) Debugf(msg string, items ...any)   { a.s.Debugf(msg, items...) }

// Open opens a BadgerDB database in dir, creating the directory if needed.
// With inMemory set, dir is ignored and nothing touches disk.
func Open(dir string, inMemory bool, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("badger")

	var opts badger.Options
	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := ensureDir(dir); err != nil {
			return nil, err
		}
		opts = badger.DefaultOptions(dir)
	}
	opts.Logger = &zapAdapter{s: logger.Sugar()}
	opts.Compression = options.None

	bdb, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", dir, err)
	}
	return &Store{db: bdb, logger: logger}, nil
}

func ensureDir(dir string) error {
	if dir == "" {
		return errors.New("badger: directory is required")
	}
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// IsClosed reports whether Close has been called.
func (s *Store) IsClosed() bool {
	return s.db.IsClosed()
}

// Ping fails once the database is closed.
func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	if s.db.IsClosed() {
		return &db.Error{Op: db.OpPing, Err: db.ErrClosed}
	}
	return nil
}

// Get returns a copy of the value stored at key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := s.check(ctx, db.OpGet); err != nil {
		return nil, err
	}
	var out []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, db.ErrKeyNotFound
	}
	if err != nil {
		return nil, &db.Error{Op: db.OpGet, Err: err}
	}
	return out, nil
}

// Set stores value at key.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	return s.SetWithTTL(ctx, key, value, 0)
}

// SetWithTTL stores value at key; a zero ttl never expires.
func (s *Store) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.check(ctx, db.OpSet); err != nil {
		return err
	}
	e := badger.NewEntry([]byte(key), value)
	if ttl > 0 {
		e = e.WithTTL(ttl)
	}
	if err := s.db.Update(func(txn *badger.Txn) error { return txn.SetEntry(e) }); err != nil {
		return &db.Error{Op: db.OpSet, Err: err}
	}
	return nil
}

// Del removes key. Missing keys are not an error.
func (s *Store) Del(ctx context.Context, key string) error {
	if err := s.check(ctx, db.OpDel); err != nil {
		return err
	}
	if err := s.db.Update(func(txn *badger.Txn) error { return txn.Delete([]byte(key)) }); err != nil {
		return &db.Error{Op: db.OpDel, Err: err}
	}
	return nil
}

// WriteBatch writes entries through a single badger write batch.
func (s *Store) WriteBatch(ctx context.Context, entries []db.Entry) error {
	if err := s.check(ctx, db.OpBatch); err != nil {
		return err
	}
	wb := s.db.NewWriteBatch()
	defer wb.Cancel()

	for i, e := range entries {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return &db.Error{Op: db.OpBatch, Err: err}
			}
		}
		if err := wb.Set([]byte(e.Key), e.Value); err != nil {
			return &db.Error{Op: db.OpBatch, Err: err}
		}
	}
	if err := wb.Flush(); err != nil {
		return &db.Error{Op: db.OpBatch, Err: err}
	}
	s.logger.Debug("batch written", zap.Int("entries", len(entries)))
	return nil
}

// ScanPrefix calls fn for every key starting with prefix, in key order.
// The value slice is only valid for the duration of the call.
func (s *Store) ScanPrefix(ctx context.Context, prefix string, fn func(key string, value []byte) error) error {
	if err := s.check(ctx, db.OpScan); err != nil {
		return err
	}
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			key := string(item.Key())
			if err := item.Value(func(val []byte) error { return fn(key, val) }); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return &db.Error{Op: db.OpScan, Err: err}
	}
	return nil
}

// DropPrefix deletes every key starting with prefix.
func (s *Store) DropPrefix(ctx context.Context, prefix string) error {
	if err := s.check(ctx, db.OpDrop); err != nil {
		return err
	}
	var keys [][]byte
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil {
		return &db.Error{Op: db.OpDrop, Err: err}
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()
	for _, k := range keys {
		if err := wb.Delete(k); err != nil {
			return &db.Error{Op: db.OpDrop, Err: err}
		}
	}
	if err := wb.Flush(); err != nil {
		return &db.Error{Op: db.OpDrop, Err: err}
	}
	return nil
}

func (s *Store) check(ctx context.Context, op string) error {
	if err := ctx.Err(); err != nil {
		return &db.Error{Op: op, Err: err}
	}
	if s.db.IsClosed() {
		return &db.Error{Op: op, Err: db.ErrClosed}
	}
	return nil
}
