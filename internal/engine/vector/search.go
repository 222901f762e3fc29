package vector

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/kailas-cloud/cinedex/internal/domain"
	"github.com/kailas-cloud/cinedex/internal/domain/search/candidate"
	"github.com/kailas-cloud/cinedex/internal/domain/search/query"
)

// queryText is what gets projected into the vector space: every extracted
// component, or the raw query when nothing was extracted.
func queryText(q query.Query) string {
	if terms := q.Terms(); len(terms) > 0 {
		return strings.Join(terms, " ")
	}
	return q.Original()
}

// Search ranks movies by cosine similarity to the query vector. The best
// limit*FetchMultiplier positive similarities are fetched before the year
// filter is applied.
func (x *Index) Search(ctx context.Context, q query.Query, limit int) ([]candidate.Hit, error) {
	m := x.current.Load()
	if m == nil {
		return nil, domain.ErrNotReady
	}
	if limit <= 0 {
		return []candidate.Hit{}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, g := range x.analyze(queryText(q)) {
		counts[g]++
	}
	qvec := m.weigh(counts)
	if len(qvec) == 0 {
		return []candidate.Hit{}, nil
	}

	// Each document accumulates its products in ascending column order.
	sims := make(map[int32]float64)
	for _, qc := range qvec {
		for _, e := range m.columns[qc.col] {
			sims[e.doc] += qc.weight * e.weight
		}
	}

	type scored struct {
		doc int32
		sim float64
	}
	ranked := make([]scored, 0, len(sims))
	for doc, s := range sims {
		if s > 0 {
			ranked = append(ranked, scored{doc, s})
		}
	}
	slices.SortFunc(ranked, func(a, b scored) int {
		if c := cmp.Compare(b.sim, a.sim); c != 0 {
			return c
		}
		return cmp.Compare(a.doc, b.doc)
	})
	if fetch := limit * x.cfg.FetchMultiplier; len(ranked) > fetch {
		ranked = ranked[:fetch]
	}

	hits := make([]candidate.Hit, 0, min(limit, len(ranked)))
	for _, r := range ranked {
		mv := m.corpus.At(int(r.doc))
		if !q.InYears(mv.Year()) {
			continue
		}
		hits = append(hits, candidate.Hit{ID: mv.ID(), Score: r.sim})
		if len(hits) == limit {
			break
		}
	}
	return hits, nil
}
