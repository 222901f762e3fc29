package request

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/cinedex/internal/domain/search/mode"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength = 4096
	DefaultLimit   = 10
	MaxLimit       = 100
)

// Request is a validated search query.
type Request struct {
	query      string
	searchMode mode.Mode
	limit      int
	defaulted  bool
}

// New validates and normalizes search parameters.
// Defaults: mode=hybrid, limit=10. Limit is clamped to MaxLimit.
func New(query string, m mode.Mode, limit int) (Request, error) {
	if strings.TrimSpace(query) == "" {
		return Request{}, fmt.Errorf("query is required")
	}
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("query too long (max %d chars)", MaxQueryLength)
	}
	if m == "" {
		m = mode.Hybrid
	}
	if !m.IsValid() {
		return Request{}, fmt.Errorf("invalid search mode: %q", m)
	}
	if limit < 0 {
		return Request{}, fmt.Errorf("limit must be positive, got %d", limit)
	}
	defaulted := limit == 0
	if defaulted {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Request{query: query, searchMode: m, limit: limit, defaulted: defaulted}, nil
}

// Query returns the search query text.
func (r Request) Query() string { return r.query }

// Mode returns the search strategy.
func (r Request) Mode() mode.Mode { return r.searchMode }

// Limit returns the maximum results to return.
func (r Request) Limit() int { return r.limit }

// RequestedLimit is Limit, or 0 when the caller gave no limit so that the
// search service applies its configured default.
func (r Request) RequestedLimit() int {
	if r.defaulted {
		return 0
	}
	return r.limit
}
