package result

import "github.com/kailas-cloud/cinedex/internal/domain/search/mode"

// Response is the full answer to one search call.
type Response struct {
	Query           string
	Mode            mode.Mode
	Results         []Result
	TotalFound      int
	ExecutionTimeMs float64
	// Degraded names engines whose query failed and contributed nothing.
	Degraded []string
}

// EmptyResponse returns a response with no results.
func EmptyResponse(query string, m mode.Mode) Response {
	return Response{Query: query, Mode: m, Results: []Result{}}
}
