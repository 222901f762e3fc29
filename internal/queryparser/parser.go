// Package queryparser turns free-text movie queries into structured queries.
package queryparser

import (
	"context"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/kailas-cloud/cinedex/internal/domain"
	"github.com/kailas-cloud/cinedex/internal/domain/search/query"
	"github.com/kailas-cloud/cinedex/internal/text"
)

// genreSynonym maps a query substring to a canonical genre label.
type genreSynonym struct {
	key   string
	label string
}

// Table order decides output order.
var genreSynonyms = []genreSynonym{
	{"sci-fi", "science fiction"},
	{"scifi", "science fiction"},
	{"rom-com", "romantic comedy"},
	{"romcom", "romantic comedy"},
	{"action", "action"},
	{"thriller", "thriller"},
	{"horror", "horror"},
	{"comedy", "comedy"},
	{"drama", "drama"},
	{"adventure", "adventure"},
	{"fantasy", "fantasy"},
	{"crime", "crime"},
	{"mystery", "mystery"},
	{"war", "war"},
	{"western", "western"},
	{"musical", "music"},
	{"animation", "animation"},
	{"animated", "animation"},
	{"documentary", "documentary"},
	{"family", "family"},
	{"biography", "biography"},
	{"history", "history"},
	{"sport", "sport"},
	{"music", "music"},
}

var directorCues = []string{"directed", "director", "by"}

// directorWindow is how many tokens on each side of a name are checked for cues.
const directorWindow = 3

// Parser extracts year ranges, genres, people and keywords from a query.
// It never fails: unusable input yields an empty structured query.
type Parser struct {
	recognizer domain.PersonRecognizer
	logger     *zap.Logger
}

// New creates a parser. recognizer may be nil, which disables person extraction.
func New(recognizer domain.PersonRecognizer, logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{recognizer: recognizer, logger: logger.With(zap.String("component", "queryparser"))}
}

// Parse builds the structured form of raw.
func (p *Parser) Parse(ctx context.Context, raw string) query.Query {
	processed := strings.ToLower(raw)
	if strings.TrimSpace(processed) == "" {
		return query.Empty(raw)
	}

	parts := query.Parts{Genres: extractGenres(processed)}
	if yr, ok := extractYearRange(processed); ok {
		parts.Years = &yr
	}
	parts.Actors, parts.Directors = p.extractPersons(ctx, raw, processed)
	parts.Keywords = extractKeywords(processed, parts.Genres, parts.Actors, parts.Directors)

	q := query.New(raw, processed, parts)
	p.logger.Debug("parsed query",
		zap.String("query", raw),
		zap.Strings("genres", parts.Genres),
		zap.Strings("actors", parts.Actors),
		zap.Strings("directors", parts.Directors),
		zap.Strings("keywords", parts.Keywords),
		zap.Bool("has_years", parts.Years != nil),
	)
	return q
}

func extractGenres(processed string) []string {
	var out []string
	for _, g := range genreSynonyms {
		if strings.Contains(processed, g.key) && !slices.Contains(out, g.label) {
			out = append(out, g.label)
		}
	}
	return out
}

// yearPattern matches one textual form of a year or decade. Checked in order;
// the first match wins.
type yearPattern struct {
	re     *regexp.Regexp
	decade bool
	lo, hi int // offsets from the decade start (or the year itself)
}

var yearPatterns = []yearPattern{
	{regexp.MustCompile(`\bearly[\s-]*(\d{4}|\d{2})s\b`), true, 0, 4},
	{regexp.MustCompile(`\blate[\s-]*(\d{4}|\d{2})s\b`), true, 5, 9},
	{regexp.MustCompile(`\bmid[\s-]*(\d{4}|\d{2})s\b`), true, 3, 7},
	{regexp.MustCompile(`\b(\d{4}|\d{2})s\b`), true, 0, 9},
	{regexp.MustCompile(`\b(\d{4})\b`), false, 0, 0},
}

func extractYearRange(processed string) (query.YearRange, bool) {
	for _, p := range yearPatterns {
		m := p.re.FindStringSubmatch(processed)
		if m == nil {
			continue
		}
		base, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if p.decade {
			base = decadeStart(m[1], base)
		}
		return query.YearRange{Start: base + p.lo, End: base + p.hi}, true
	}
	return query.YearRange{}, false
}

// decadeStart maps "90" to 1990, "15" to 2015 and "1995" to 1990.
func decadeStart(digits string, n int) int {
	if len(digits) == 2 {
		if n >= 20 {
			return 1900 + n
		}
		return 2000 + n
	}
	return n - n%10
}

func (p *Parser) extractPersons(ctx context.Context, raw, processed string) (actors, directors []string) {
	if p.recognizer == nil {
		return nil, nil
	}
	entities, err := p.recognizer.Recognize(ctx, raw)
	if err != nil {
		p.logger.Warn("person recognition failed, continuing without names", zap.Error(err))
		return nil, nil
	}
	for _, e := range entities {
		if e.Label != domain.LabelPerson {
			continue
		}
		name := strings.TrimSpace(e.Text)
		if name == "" {
			continue
		}
		if isDirector(processed, strings.ToLower(name)) {
			directors = append(directors, name)
		} else {
			actors = append(actors, name)
		}
	}
	return actors, directors
}

// isDirector checks the tokens around the first occurrence of name for a
// director cue. A name missing from the query is treated as an actor.
func isDirector(processed, name string) bool {
	pos := strings.Index(processed, name)
	if pos < 0 {
		return false
	}
	before := text.Tokenize(processed[:pos])
	after := text.Tokenize(processed[pos+len(name):])
	if len(before) > directorWindow {
		before = before[len(before)-directorWindow:]
	}
	if len(after) > directorWindow {
		after = after[:directorWindow]
	}
	for _, w := range slices.Concat(before, after) {
		if slices.Contains(directorCues, w) {
			return true
		}
	}
	return false
}

func extractKeywords(processed string, entityGroups ...[]string) []string {
	var entities []string
	for _, group := range entityGroups {
		for _, e := range group {
			entities = append(entities, strings.ToLower(e))
		}
	}

	var out []string
	for _, word := range strings.Fields(processed) {
		w := text.StripPunct(word)
		if utf8.RuneCountInString(w) <= 2 || text.IsDigits(w) || text.QueryStopWords.Contains(w) {
			continue
		}
		if slices.ContainsFunc(entities, func(e string) bool { return strings.Contains(e, w) }) {
			continue
		}
		out = append(out, w)
	}
	return out
}
