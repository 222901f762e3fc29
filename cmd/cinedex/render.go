package main

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/cinedex/internal/domain/search/result"
)

const (
	maxCast     = 5
	maxOverview = 200
	ruleWidth   = 60
)

func printResponse(w io.Writer, resp result.Response) {
	if len(resp.Results) == 0 {
		fmt.Fprintln(w, "No movies found matching your query.")
		return
	}

	fmt.Fprintf(w, "\nSearch results for: '%s'\n", resp.Query)
	if resp.ExecutionTimeMs > 0 {
		fmt.Fprintf(w, "Search completed in %.2fms\n", resp.ExecutionTimeMs)
	}
	if len(resp.Degraded) > 0 {
		fmt.Fprintf(w, "Partial results: %s unavailable\n", strings.Join(resp.Degraded, ", "))
	}
	fmt.Fprintln(w, strings.Repeat("=", ruleWidth))

	for i, r := range resp.Results {
		m := r.Movie()
		fmt.Fprintf(w, "\n%d. %s\n", i+1, m.Title())
		if year, ok := m.Year(); ok {
			fmt.Fprintf(w, "   Year: %d\n", year)
		}
		if g := m.Genres(); len(g) > 0 {
			fmt.Fprintf(w, "   Genres: %s\n", strings.Join(g, ", "))
		}
		if d := m.Directors(); len(d) > 0 {
			fmt.Fprintf(w, "   Director(s): %s\n", strings.Join(d, ", "))
		}
		if cast := m.Actors(); len(cast) > 0 {
			fmt.Fprintf(w, "   Cast: %s\n", strings.Join(cast[:min(len(cast), maxCast)], ", "))
		}
		if o := m.Overview(); o != "" {
			fmt.Fprintf(w, "   Overview: %s\n", truncate(o, maxOverview))
		}
		fmt.Fprintf(w, "   Relevance: %.1f%%\n", r.Relevance())
		fmt.Fprintln(w, strings.Repeat("-", ruleWidth))
	}
}

// truncate cuts s to n runes and marks the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

func printHelp(w io.Writer) {
	fmt.Fprint(w, `
Example queries:
  sci-fi movies from the 90s
  comedy films with Tom Hanks
  war movies about love
  horror films from early 2000s
  action movies directed by Steven Spielberg
  animated movies for family

Commands:
  help            show this help
  quit, exit, q   leave interactive mode
`)
}
