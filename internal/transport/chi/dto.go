package chi

import "github.com/kailas-cloud/cinedex/internal/domain/search/result"

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type statusResponse struct {
	Status     string `json:"status"`
	MovieCount *int   `json:"movie_count,omitempty"`
	Version    string `json:"version,omitempty"`
	Message    string `json:"message,omitempty"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

type searchResponse struct {
	Query           string         `json:"query"`
	Mode            string         `json:"mode"`
	Results         []searchResult `json:"results"`
	TotalFound      int            `json:"total_found"`
	ExecutionTimeMs float64        `json:"execution_time_ms"`
	Degraded        []string       `json:"degraded,omitempty"`
}

type searchResult struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Overview       string   `json:"overview"`
	Genres         []string `json:"genres"`
	Actors         []string `json:"actors"`
	Directors      []string `json:"directors"`
	Year           *int     `json:"year"`
	Rating         *float64 `json:"rating"`
	Popularity     *float64 `json:"popularity"`
	Score          float64  `json:"score"`
	RelevanceScore float64  `json:"relevance_score"`
	LexicalScore   float64  `json:"lexical_score"`
	VectorScore    float64  `json:"vector_score"`
	Boost          float64  `json:"boost"`
}

func responseToJSON(r result.Response) searchResponse {
	items := make([]searchResult, len(r.Results))
	for i, res := range r.Results {
		items[i] = resultToJSON(res)
	}
	return searchResponse{
		Query:           r.Query,
		Mode:            string(r.Mode),
		Results:         items,
		TotalFound:      r.TotalFound,
		ExecutionTimeMs: r.ExecutionTimeMs,
		Degraded:        r.Degraded,
	}
}

func resultToJSON(r result.Result) searchResult {
	m := r.Movie()
	item := searchResult{
		ID:             m.ID(),
		Title:          m.Title(),
		Overview:       m.Overview(),
		Genres:         nonNil(m.Genres()),
		Actors:         nonNil(m.Actors()),
		Directors:      nonNil(m.Directors()),
		Score:          r.Score(),
		RelevanceScore: r.Relevance(),
		LexicalScore:   r.LexicalScore(),
		VectorScore:    r.VectorScore(),
		Boost:          r.Boost(),
	}
	if y, ok := m.Year(); ok {
		item.Year = &y
	}
	if v, ok := m.Rating(); ok {
		item.Rating = &v
	}
	if v, ok := m.Popularity(); ok {
		item.Popularity = &v
	}
	return item
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
