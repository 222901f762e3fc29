package lexical

import (
	"cmp"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/kailas-cloud/cinedex/internal/domain"
	"github.com/kailas-cloud/cinedex/internal/domain/movie"
)

// FieldSnapshot is the persisted form of one field.
type FieldSnapshot struct {
	Postings map[string][]Posting
	Lengths  []int32
}

// Snapshot is the persisted form of a built index. Fingerprint ties it to
// the corpus it was built from.
type Snapshot struct {
	Fingerprint string
	DocCount    int
	Fields      map[Field]FieldSnapshot
}

// Export returns the current index in persistable form.
func (x *Index) Export() (Snapshot, error) {
	ix := x.current.Load()
	if ix == nil {
		return Snapshot{}, domain.ErrNotReady
	}
	s := Snapshot{
		Fingerprint: ix.corpus.Fingerprint(),
		DocCount:    ix.corpus.Len(),
		Fields:      make(map[Field]FieldSnapshot, len(ix.fields)),
	}
	for f, fi := range ix.fields {
		s.Fields[f] = FieldSnapshot{Postings: fi.postings, Lengths: fi.lengths}
	}
	return s, nil
}

// Restore installs a persisted index for corpus. The snapshot must carry the
// corpus fingerprint and a complete, in-range set of fields.
func (x *Index) Restore(corpus *movie.Corpus, s Snapshot) error {
	if s.Fingerprint != corpus.Fingerprint() || s.DocCount != corpus.Len() {
		return domain.ErrSnapshotStale
	}
	n := corpus.Len()
	ix := &index{corpus: corpus, fields: make(map[Field]*fieldIndex, len(Fields))}
	for _, f := range Fields {
		fs, ok := s.Fields[f]
		if !ok {
			return fmt.Errorf("%w: field %q missing", domain.ErrSnapshotStale, f)
		}
		if len(fs.Lengths) != n {
			return fmt.Errorf("%w: field %q has %d lengths for %d documents",
				domain.ErrSnapshotStale, f, len(fs.Lengths), n)
		}
		fi := &fieldIndex{postings: make(map[string][]Posting, len(fs.Postings)), lengths: fs.Lengths}
		var total int64
		for _, l := range fs.Lengths {
			total += int64(l)
		}
		if n > 0 {
			fi.avgLen = float64(total) / float64(n)
		}
		for term, ps := range fs.Postings {
			for _, p := range ps {
				if p.Doc < 0 || int(p.Doc) >= n || p.TF <= 0 {
					return fmt.Errorf("%w: bad posting for %q", domain.ErrSnapshotStale, term)
				}
			}
			ps = slices.Clone(ps)
			slices.SortFunc(ps, func(a, b Posting) int { return cmp.Compare(a.Doc, b.Doc) })
			fi.postings[term] = ps
		}
		ix.fields[f] = fi
	}

	x.current.Store(ix)
	x.logger.Info("lexical index restored", zap.Int("documents", n))
	return nil
}
