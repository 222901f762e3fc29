package lexical

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/kailas-cloud/cinedex/internal/domain"
	"github.com/kailas-cloud/cinedex/internal/domain/search/candidate"
	"github.com/kailas-cloud/cinedex/internal/domain/search/query"
)

// clause is one OR-ed branch of a lexical query.
type clause struct {
	field Field
	terms []string
	op    Operator
}

// buildClauses turns a structured query into OR-ed clauses: a free-text
// clause over search_text from the keywords, plus one exact clause per genre
// and per actor. Without any clause the raw query is used as free text.
func (x *Index) buildClauses(q query.Query) []clause {
	var out []clause
	if kw := q.Keywords(); len(kw) > 0 {
		out = append(out, clause{field: FieldSearchText, terms: analyzer.Terms(strings.Join(kw, " ")), op: x.cfg.Operator})
	}
	for _, g := range q.Genres() {
		out = append(out, clause{field: FieldGenres, terms: analyzer.Terms(g), op: OpAnd})
	}
	for _, a := range q.Actors() {
		out = append(out, clause{field: FieldCast, terms: analyzer.Terms(a), op: OpAnd})
	}
	if len(out) == 0 {
		out = append(out, clause{field: FieldSearchText, terms: analyzer.Terms(q.Original()), op: x.cfg.Operator})
	}
	return out
}

// Search returns up to limit movies ranked by summed clause score. The best
// limit*FetchMultiplier hits are fetched before the year filter is applied.
func (x *Index) Search(ctx context.Context, q query.Query, limit int) ([]candidate.Hit, error) {
	ix := x.current.Load()
	if ix == nil {
		return nil, domain.ErrNotReady
	}
	if limit <= 0 {
		return []candidate.Hit{}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scores := make(map[int32]float64)
	for _, c := range x.buildClauses(q) {
		for doc, s := range x.scoreClause(ix, c) {
			scores[doc] += s
		}
	}

	type scored struct {
		doc   int32
		score float64
	}
	ranked := make([]scored, 0, len(scores))
	for doc, s := range scores {
		ranked = append(ranked, scored{doc, s})
	}
	slices.SortFunc(ranked, func(a, b scored) int {
		if c := cmp.Compare(b.score, a.score); c != 0 {
			return c
		}
		return cmp.Compare(a.doc, b.doc)
	})
	if fetch := limit * x.cfg.FetchMultiplier; len(ranked) > fetch {
		ranked = ranked[:fetch]
	}

	hits := make([]candidate.Hit, 0, min(limit, len(ranked)))
	for _, r := range ranked {
		m := ix.corpus.At(int(r.doc))
		if !q.InYears(m.Year()) {
			continue
		}
		hits = append(hits, candidate.Hit{ID: m.ID(), Score: r.score})
		if len(hits) == limit {
			break
		}
	}
	return hits, nil
}

// scoreClause returns the BM25F score of every document matching c.
// An AND clause matches documents that contain every term.
func (x *Index) scoreClause(ix *index, c clause) map[int32]float64 {
	if len(c.terms) == 0 {
		return nil
	}
	fi := ix.fields[c.field]
	docCount := ix.corpus.Len()

	scores := make(map[int32]float64)
	matched := make(map[int32]int)
	for _, term := range c.terms {
		postings := fi.postings[term]
		if len(postings) == 0 && c.op == OpAnd {
			return nil
		}
		for _, p := range postings {
			scores[p.Doc] += x.bm25(fi, docCount, len(postings), p)
			matched[p.Doc]++
		}
	}
	if c.op == OpAnd {
		for doc, n := range matched {
			if n < len(c.terms) {
				delete(scores, doc)
			}
		}
	}
	return scores
}
