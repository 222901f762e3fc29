package lexical

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/cinedex/internal/domain"
	"github.com/kailas-cloud/cinedex/internal/domain/movie"
	"github.com/kailas-cloud/cinedex/internal/domain/search/query"
)

func mustMovie(t *testing.T, id, title, overview string, genres, actors, directors []string, year int) movie.Movie {
	t.Helper()
	var opts []movie.Option
	if year > 0 {
		opts = append(opts, movie.WithYear(year))
	}
	m, err := movie.New(id, title, overview, genres, actors, directors, opts...)
	if err != nil {
		t.Fatalf("movie.New: %v", err)
	}
	return m
}

func testCorpus(t *testing.T) *movie.Corpus {
	t.Helper()
	c, err := movie.NewCorpus([]movie.Movie{
		mustMovie(t, "1", "Star Voyage", "A crew explores deep space and meets aliens.",
			[]string{"Science Fiction", "Adventure"}, []string{"Tom Hanks", "Meg Ryan"}, []string{"Ron Howard"}, 1995),
		mustMovie(t, "2", "Laugh Riot", "Two friends get into trouble in the city.",
			[]string{"Comedy"}, []string{"Bill Murray"}, []string{"Harold Ramis"}, 1984),
		mustMovie(t, "3", "Dark Hollow", "A haunted house terrifies a family in space.",
			[]string{"Horror"}, []string{"Jamie Lee Curtis"}, []string{"John Carpenter"}, 1978),
		mustMovie(t, "4", "Unknown Year", "Space pirates on the run.",
			[]string{"Action"}, []string{"Tom Hanks"}, nil, 0),
	})
	if err != nil {
		t.Fatalf("NewCorpus: %v", err)
	}
	return c
}

func builtIndex(t *testing.T, cfg Config) *Index {
	t.Helper()
	x := New(cfg, nil)
	if err := x.Build(context.Background(), testCorpus(t)); err != nil {
		t.Fatalf("Build: %v", err)
	}
	return x
}

func TestSearch_NotReady(t *testing.T) {
	x := New(Config{}, nil)
	if x.Ready() {
		t.Fatal("fresh index must not be ready")
	}
	_, err := x.Search(context.Background(), query.Empty("space"), 10)
	if !errors.Is(err, domain.ErrNotReady) {
		t.Fatalf("err = %v, want ErrNotReady", err)
	}
}

func TestSearch_Keywords(t *testing.T) {
	x := builtIndex(t, Config{})
	q := query.New("space aliens", "space aliens", query.Parts{Keywords: []string{"space", "aliens"}})

	hits, err := x.Search(context.Background(), q, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 1 || hits[0].ID != "1" {
		t.Fatalf("hits = %+v, want only movie 1 (AND of space, aliens)", hits)
	}
	if hits[0].Score <= 0 {
		t.Errorf("score = %v, want > 0", hits[0].Score)
	}
}

func TestSearch_OrOperator(t *testing.T) {
	x := builtIndex(t, Config{Operator: OpOr})
	q := query.New("space aliens", "space aliens", query.Parts{Keywords: []string{"space", "aliens"}})

	hits, err := x.Search(context.Background(), q, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 3 {
		t.Fatalf("hits = %+v, want 3 space movies", hits)
	}
	if hits[0].ID != "1" {
		t.Errorf("top hit = %s, want 1 (matches both terms)", hits[0].ID)
	}
	for i := 1; i < len(hits); i++ {
		if hits[i].Score > hits[i-1].Score {
			t.Errorf("hits not sorted by score: %+v", hits)
		}
	}
}

func TestSearch_GenreAndActorClauses(t *testing.T) {
	x := builtIndex(t, Config{})
	q := query.New("sci-fi with Tom Hanks", "sci-fi with tom hanks", query.Parts{
		Genres: []string{"science fiction"},
		Actors: []string{"Tom Hanks"},
	})

	hits, err := x.Search(context.Background(), q, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("hits = %+v, want movies 1 and 4", hits)
	}
	if hits[0].ID != "1" {
		t.Errorf("top hit = %s, want 1 (genre and actor match)", hits[0].ID)
	}
}

func TestSearch_YearFilterKeepsUnknown(t *testing.T) {
	x := builtIndex(t, Config{Operator: OpOr})
	q := query.New("space in the 70s", "space in the 70s", query.Parts{
		Keywords: []string{"space"},
		Years:    &query.YearRange{Start: 1970, End: 1979},
	})

	hits, err := x.Search(context.Background(), q, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	got := map[string]bool{}
	for _, h := range hits {
		got[h.ID] = true
	}
	if got["1"] {
		t.Error("movie 1 (1995) must be filtered out")
	}
	if !got["3"] || !got["4"] {
		t.Errorf("hits = %+v, want movies 3 (1978) and 4 (unknown year)", hits)
	}
}

func TestSearch_FallbackToRawQuery(t *testing.T) {
	x := builtIndex(t, Config{})
	hits, err := x.Search(context.Background(), query.Empty("haunted"), 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 1 || hits[0].ID != "3" {
		t.Fatalf("hits = %+v, want movie 3", hits)
	}
}

func TestSearch_Limit(t *testing.T) {
	x := builtIndex(t, Config{Operator: OpOr})
	q := query.New("space", "space", query.Parts{Keywords: []string{"space"}})

	hits, err := x.Search(context.Background(), q, 1)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("len(hits) = %d, want 1", len(hits))
	}
	if hits, _ := x.Search(context.Background(), q, 0); len(hits) != 0 {
		t.Errorf("limit 0 must return nothing, got %+v", hits)
	}
}

func TestSearch_StopWordsOnly(t *testing.T) {
	x := builtIndex(t, Config{})
	hits, err := x.Search(context.Background(), query.Empty("the and of"), 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("hits = %+v, want none", hits)
	}
}

func TestBM25_TermFrequencyAndLength(t *testing.T) {
	x := New(Config{}, nil)
	fi := &fieldIndex{lengths: []int32{10, 10, 40}, avgLen: 20}

	low := x.bm25(fi, 3, 2, Posting{Doc: 0, TF: 1})
	high := x.bm25(fi, 3, 2, Posting{Doc: 1, TF: 3})
	long := x.bm25(fi, 3, 2, Posting{Doc: 2, TF: 1})

	if high <= low {
		t.Errorf("score must grow with tf: tf1=%v tf3=%v", low, high)
	}
	if long >= low {
		t.Errorf("score must shrink with field length: short=%v long=%v", low, long)
	}
	if low <= 0 {
		t.Errorf("score must be positive, got %v", low)
	}
}

func TestSnapshot_RoundTrip(t *testing.T) {
	built := builtIndex(t, Config{})
	snap, err := built.Export()
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	restored := New(Config{}, nil)
	if err := restored.Restore(testCorpus(t), snap); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if !restored.Ready() {
		t.Fatal("restored index must be ready")
	}

	q := query.New("space aliens", "space aliens", query.Parts{Keywords: []string{"space", "aliens"}})
	want, _ := built.Search(context.Background(), q, 10)
	got, err := restored.Search(context.Background(), q, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != len(want) || got[0] != want[0] {
		t.Errorf("restored hits %+v differ from built %+v", got, want)
	}
}

func TestSnapshot_Stale(t *testing.T) {
	built := builtIndex(t, Config{})
	snap, _ := built.Export()

	other, _ := movie.NewCorpus([]movie.Movie{mustMovie(t, "x", "Other", "", nil, nil, nil, 0)})
	err := New(Config{}, nil).Restore(other, snap)
	if !errors.Is(err, domain.ErrSnapshotStale) {
		t.Fatalf("err = %v, want ErrSnapshotStale", err)
	}

	if _, err := New(Config{}, nil).Export(); !errors.Is(err, domain.ErrNotReady) {
		t.Errorf("Export on empty index: err = %v, want ErrNotReady", err)
	}
}
