package cinedex

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/kailas-cloud/cinedex/internal/domain"
	"github.com/kailas-cloud/cinedex/internal/domain/movie"
	"github.com/kailas-cloud/cinedex/internal/domain/search/result"
)

func movieToDomain(m Movie, pos int) (movie.Movie, error) {
	id := m.ID
	if id == "" {
		id = strconv.Itoa(pos)
	}
	var opts []movie.Option
	if m.Year != nil {
		opts = append(opts, movie.WithYear(*m.Year))
	}
	if m.Rating != nil {
		opts = append(opts, movie.WithRating(*m.Rating))
	}
	if m.Popularity != nil {
		opts = append(opts, movie.WithPopularity(*m.Popularity))
	}
	return movie.New(id, m.Title, m.Overview, m.Genres, m.Actors, m.Directors, opts...)
}

func movieFromDomain(m movie.Movie) Movie {
	out := Movie{
		ID:        m.ID(),
		Title:     m.Title(),
		Overview:  m.Overview(),
		Genres:    m.Genres(),
		Actors:    m.Actors(),
		Directors: m.Directors(),
	}
	if y, ok := m.Year(); ok {
		out.Year = &y
	}
	if r, ok := m.Rating(); ok {
		out.Rating = &r
	}
	if p, ok := m.Popularity(); ok {
		out.Popularity = &p
	}
	return out
}

func responseFromDomain(r result.Response) SearchResponse {
	results := make([]SearchResult, len(r.Results))
	for i, res := range r.Results {
		results[i] = SearchResult{
			Movie:        movieFromDomain(res.Movie()),
			Score:        res.Score(),
			LexicalScore: res.LexicalScore(),
			VectorScore:  res.VectorScore(),
			Boost:        res.Boost(),
			Relevance:    res.Relevance(),
		}
	}
	return SearchResponse{
		Query:         r.Query,
		Mode:          SearchMode(r.Mode),
		Results:       results,
		TotalFound:    r.TotalFound,
		ExecutionTime: time.Duration(r.ExecutionTimeMs * float64(time.Millisecond)),
		Degraded:      r.Degraded,
	}
}

// loaderAdapter wraps a public Loader to satisfy the corpus loader port.
type loaderAdapter struct {
	inner Loader
}

func (a *loaderAdapter) Load(ctx context.Context) ([]movie.Movie, error) {
	movies, err := a.inner.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load movies: %w", err)
	}
	out := make([]movie.Movie, 0, len(movies))
	for i, m := range movies {
		dm, err := movieToDomain(m, i)
		if err != nil {
			return nil, fmt.Errorf("%w: movie %d: %w", domain.ErrCorpusInvalid, i, err)
		}
		out = append(out, dm)
	}
	return out, nil
}

// recognizerAdapter wraps a public Recognizer to satisfy domain.PersonRecognizer.
type recognizerAdapter struct {
	inner Recognizer
}

func (a *recognizerAdapter) Recognize(ctx context.Context, text string) ([]domain.Entity, error) {
	names, err := a.inner.Persons(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRecognizerUnavailable, err)
	}
	out := make([]domain.Entity, 0, len(names))
	for _, n := range names {
		out = append(out, domain.Entity{Text: n, Label: domain.LabelPerson})
	}
	return out, nil
}
