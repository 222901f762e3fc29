package queryparser

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/kailas-cloud/cinedex/internal/domain"
)

// --- Mocks ---

type mockRecognizer struct {
	entities []domain.Entity
	err      error
	calls    int
}

func (m *mockRecognizer) Recognize(_ context.Context, _ string) ([]domain.Entity, error) {
	m.calls++
	return m.entities, m.err
}

func persons(names ...string) []domain.Entity {
	out := make([]domain.Entity, len(names))
	for i, n := range names {
		out[i] = domain.Entity{Text: n, Label: domain.LabelPerson}
	}
	return out
}

// --- Year ranges ---

func TestParse_YearRange(t *testing.T) {
	tests := []struct {
		query      string
		start, end int
	}{
		{"90s action movies", 1990, 1999},
		{"movies from the 2000s", 2000, 2009},
		{"15s comedies", 2015, 2024},
		{"early 2000s comedies", 2000, 2004},
		{"late 90s thrillers", 1995, 1999},
		{"Late 1980s horror", 1985, 1989},
		{"mid 90s drama", 1993, 1997},
		{"mid-90s drama", 1993, 1997},
		{"heist films in 1995", 1995, 1995},
		{"1990s and 2005", 1990, 1999},
	}
	p := New(nil, nil)
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			q := p.Parse(context.Background(), tt.query)
			r, ok := q.YearRange()
			if !ok {
				t.Fatalf("no year range for %q", tt.query)
			}
			if r.Start != tt.start || r.End != tt.end {
				t.Errorf("YearRange(%q) = %d-%d, want %d-%d", tt.query, r.Start, r.End, tt.start, tt.end)
			}
		})
	}
}

func TestParse_NoYearRange(t *testing.T) {
	p := New(nil, nil)
	for _, in := range []string{"space adventure", "top 10 movies", "agent 007"} {
		if _, ok := p.Parse(context.Background(), in).YearRange(); ok {
			t.Errorf("unexpected year range for %q", in)
		}
	}
}

// --- Genres ---

func TestParse_Genres(t *testing.T) {
	tests := []struct {
		query string
		want  []string
	}{
		{"sci-fi movies with Tom Hanks", []string{"science fiction"}},
		{"SciFi and Rom-Com", []string{"science fiction", "romantic comedy"}},
		{"animated musical", []string{"music", "animation"}},
		{"dark comedy drama", []string{"comedy", "drama"}},
		{"nothing here", nil},
	}
	p := New(nil, nil)
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := p.Parse(context.Background(), tt.query).Genres()
			if !slices.Equal(got, tt.want) {
				t.Errorf("Genres(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

// --- Keywords ---

func TestParse_Keywords(t *testing.T) {
	p := New(nil, nil)
	q := p.Parse(context.Background(), "war movies about love in 1995")

	kw := q.Keywords()
	if !slices.Contains(kw, "love") {
		t.Errorf("keywords %v must contain love", kw)
	}
	for _, dropped := range []string{"about", "in", "1995", "movies"} {
		if slices.Contains(kw, dropped) {
			t.Errorf("keywords %v must not contain %q", kw, dropped)
		}
	}
	// war is detected as a genre and removed from the keywords.
	if !slices.Contains(q.Genres(), "war") {
		t.Errorf("genres %v must contain war", q.Genres())
	}
}

func TestParse_KeywordsOrderAndPunctuation(t *testing.T) {
	p := New(nil, nil)
	got := p.Parse(context.Background(), "Robots, robots! and an alien invasion?").Keywords()
	want := []string{"robots", "robots", "alien", "invasion"}
	if !slices.Equal(got, want) {
		t.Errorf("Keywords = %v, want %v", got, want)
	}
}

func TestParse_Empty(t *testing.T) {
	p := New(nil, nil)
	for _, in := range []string{"", "   "} {
		q := p.Parse(context.Background(), in)
		if len(q.Keywords()) != 0 || len(q.Genres()) != 0 {
			t.Errorf("Parse(%q) should be empty", in)
		}
		if _, ok := q.YearRange(); ok {
			t.Errorf("Parse(%q) should have no year range", in)
		}
		if q.Original() != in {
			t.Errorf("Original() = %q", q.Original())
		}
	}
}

// --- Persons ---

func TestParse_Persons(t *testing.T) {
	rec := &mockRecognizer{entities: persons("Tom Hanks", "Christopher Nolan")}
	p := New(rec, nil)

	q := p.Parse(context.Background(), "Tom Hanks space adventure movies directed by Christopher Nolan")

	if !slices.Equal(q.Directors(), []string{"Christopher Nolan"}) {
		t.Errorf("Directors() = %v", q.Directors())
	}
	if !slices.Equal(q.Actors(), []string{"Tom Hanks"}) {
		t.Errorf("Actors() = %v", q.Actors())
	}
	kw := q.Keywords()
	for _, name := range []string{"tom", "hanks", "christopher", "nolan"} {
		if slices.Contains(kw, name) {
			t.Errorf("keywords %v must not contain person token %q", kw, name)
		}
	}
	if !slices.Contains(kw, "space") {
		t.Errorf("keywords %v must contain space", kw)
	}
}

func TestParse_ActorWithoutCue(t *testing.T) {
	rec := &mockRecognizer{entities: persons("Tom Hanks")}
	q := New(rec, nil).Parse(context.Background(), "sci-fi movies with Tom Hanks")

	if !slices.Equal(q.Actors(), []string{"Tom Hanks"}) {
		t.Errorf("Actors() = %v", q.Actors())
	}
	if len(q.Directors()) != 0 {
		t.Errorf("Directors() = %v", q.Directors())
	}
}

func TestParse_IgnoresNonPersonEntities(t *testing.T) {
	rec := &mockRecognizer{entities: []domain.Entity{{Text: "Paris", Label: "GPE"}}}
	q := New(rec, nil).Parse(context.Background(), "movies set in Paris")

	if len(q.Actors())+len(q.Directors()) != 0 {
		t.Errorf("unexpected persons %v %v", q.Actors(), q.Directors())
	}
	if !slices.Contains(q.Keywords(), "paris") {
		t.Errorf("keywords %v must contain paris", q.Keywords())
	}
}

func TestParse_RecognizerError(t *testing.T) {
	rec := &mockRecognizer{err: errors.New("boom")}
	q := New(rec, nil).Parse(context.Background(), "movies with Tom Hanks")

	if rec.calls != 1 {
		t.Errorf("recognizer calls = %d, want 1", rec.calls)
	}
	if len(q.Actors()) != 0 {
		t.Errorf("Actors() = %v, want none", q.Actors())
	}
	if !slices.Equal(q.Keywords(), []string{"tom", "hanks"}) {
		t.Errorf("Keywords() = %v", q.Keywords())
	}
}

func TestIsDirector(t *testing.T) {
	tests := []struct {
		query, name string
		want        bool
	}{
		{"a film by steven spielberg", "steven spielberg", true},
		{"steven spielberg directed", "steven spielberg", true},
		{"films from the director james cameron", "james cameron", true},
		{"by the way one two three tom hanks", "tom hanks", false},
		{"tom hanks comedies", "tom hanks", false},
		{"unrelated", "tom hanks", false},
	}
	for _, tt := range tests {
		if got := isDirector(tt.query, tt.name); got != tt.want {
			t.Errorf("isDirector(%q, %q) = %v, want %v", tt.query, tt.name, got, tt.want)
		}
	}
}
