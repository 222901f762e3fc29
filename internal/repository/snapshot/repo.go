// Package snapshot persists lexical index snapshots in an ordered key-value
// store.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kailas-cloud/cinedex/internal/db"
	"github.com/kailas-cloud/cinedex/internal/domain"
	"github.com/kailas-cloud/cinedex/internal/engine/lexical"
)

// formatVersion changes whenever the on-disk layout does.
const formatVersion = 1

const (
	rootPrefix    = "lex/"
	metaKey       = rootPrefix + "meta"
	lengthsPrefix = rootPrefix + "len/"
	postingPrefix = rootPrefix + "post/"
)

// store is the consumer interface for snapshots (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	WriteBatch(ctx context.Context, entries []db.Entry) error
	ScanPrefix(ctx context.Context, prefix string, fn func(key string, value []byte) error) error
	DropPrefix(ctx context.Context, prefix string) error
}

// Repo implements usecase/search.SnapshotStore.
type Repo struct {
	store store
}

// New creates a snapshot repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

type metaDTO struct {
	Version     int    `json:"version"`
	Fingerprint string `json:"fingerprint"`
	DocCount    int    `json:"doc_count"`
}

// Save replaces any stored snapshot with s.
func (r *Repo) Save(ctx context.Context, s lexical.Snapshot) error {
	meta, err := json.Marshal(metaDTO{Version: formatVersion, Fingerprint: s.Fingerprint, DocCount: s.DocCount})
	if err != nil {
		return fmt.Errorf("marshal snapshot meta: %w", err)
	}

	var entries []db.Entry
	for field, fs := range s.Fields {
		entries = append(entries, db.Entry{Key: lengthsKey(field), Value: encodeLengths(fs.Lengths)})
		for term, ps := range fs.Postings {
			entries = append(entries, db.Entry{Key: postingKey(field, term), Value: encodePostings(ps)})
		}
	}
	// Meta goes last so a partially written snapshot is never loadable.
	entries = append(entries, db.Entry{Key: metaKey, Value: meta})

	if err := r.store.DropPrefix(ctx, rootPrefix); err != nil {
		return fmt.Errorf("drop old snapshot: %w", err)
	}
	if err := r.store.WriteBatch(ctx, entries); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Load reads the stored snapshot. It returns domain.ErrSnapshotNotFound when
// nothing was saved and domain.ErrSnapshotStale for an unreadable one.
func (r *Repo) Load(ctx context.Context) (lexical.Snapshot, error) {
	raw, err := r.store.Get(ctx, metaKey)
	if errors.Is(err, db.ErrKeyNotFound) {
		return lexical.Snapshot{}, domain.ErrSnapshotNotFound
	}
	if err != nil {
		return lexical.Snapshot{}, fmt.Errorf("get snapshot meta: %w", err)
	}
	var meta metaDTO
	if err := json.Unmarshal(raw, &meta); err != nil {
		return lexical.Snapshot{}, fmt.Errorf("%w: meta: %w", domain.ErrSnapshotStale, err)
	}
	if meta.Version != formatVersion {
		return lexical.Snapshot{}, fmt.Errorf("%w: format version %d", domain.ErrSnapshotStale, meta.Version)
	}

	s := lexical.Snapshot{
		Fingerprint: meta.Fingerprint,
		DocCount:    meta.DocCount,
		Fields:      make(map[lexical.Field]lexical.FieldSnapshot, len(lexical.Fields)),
	}
	fieldOf := func(f lexical.Field) lexical.FieldSnapshot {
		fs, ok := s.Fields[f]
		if !ok {
			fs = lexical.FieldSnapshot{Postings: make(map[string][]lexical.Posting)}
		}
		return fs
	}

	err = r.store.ScanPrefix(ctx, lengthsPrefix, func(key string, value []byte) error {
		f := lexical.Field(strings.TrimPrefix(key, lengthsPrefix))
		lengths, err := decodeLengths(value)
		if err != nil {
			return fmt.Errorf("lengths of %q: %w", f, err)
		}
		fs := fieldOf(f)
		fs.Lengths = lengths
		s.Fields[f] = fs
		return nil
	})
	if err != nil {
		return lexical.Snapshot{}, wrapScan(err)
	}

	err = r.store.ScanPrefix(ctx, postingPrefix, func(key string, value []byte) error {
		field, term, ok := strings.Cut(strings.TrimPrefix(key, postingPrefix), "/")
		if !ok {
			return fmt.Errorf("%w: malformed key %q", errCorrupt, key)
		}
		ps, err := decodePostings(value)
		if err != nil {
			return fmt.Errorf("postings of %q: %w", term, err)
		}
		fs := fieldOf(lexical.Field(field))
		fs.Postings[term] = ps
		s.Fields[lexical.Field(field)] = fs
		return nil
	})
	if err != nil {
		return lexical.Snapshot{}, wrapScan(err)
	}
	return s, nil
}

// Clear removes the stored snapshot.
func (r *Repo) Clear(ctx context.Context) error {
	if err := r.store.DropPrefix(ctx, rootPrefix); err != nil {
		return fmt.Errorf("drop snapshot: %w", err)
	}
	return nil
}

func wrapScan(err error) error {
	if errors.Is(err, errCorrupt) {
		return fmt.Errorf("%w: %w", domain.ErrSnapshotStale, err)
	}
	return fmt.Errorf("scan snapshot: %w", err)
}

func lengthsKey(f lexical.Field) string {
	return lengthsPrefix + string(f)
}

func postingKey(f lexical.Field, term string) string {
	return postingPrefix + string(f) + "/" + term
}
