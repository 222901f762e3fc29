package respcache

import (
	"fmt"

	"github.com/kailas-cloud/cinedex/internal/domain/movie"
	"github.com/kailas-cloud/cinedex/internal/domain/search/mode"
	"github.com/kailas-cloud/cinedex/internal/domain/search/result"
)

type responseDTO struct {
	Query      string      `json:"query"`
	Mode       string      `json:"mode"`
	Results    []resultDTO `json:"results"`
	TotalFound int         `json:"total_found"`
}

type resultDTO struct {
	Movie   movieDTO `json:"movie"`
	Score   float64  `json:"score"`
	Lexical float64  `json:"lexical"`
	Vector  float64  `json:"vector"`
	Boost   float64  `json:"boost"`
}

type movieDTO struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Overview   string   `json:"overview"`
	Genres     []string `json:"genres,omitempty"`
	Actors     []string `json:"actors,omitempty"`
	Directors  []string `json:"directors,omitempty"`
	Year       *int     `json:"year,omitempty"`
	Rating     *float64 `json:"rating,omitempty"`
	Popularity *float64 `json:"popularity,omitempty"`
}

// fromDomain drops timing and degraded engines; only complete responses
// are cached.
func fromDomain(r result.Response) responseDTO {
	dto := responseDTO{
		Query:      r.Query,
		Mode:       string(r.Mode),
		Results:    make([]resultDTO, 0, len(r.Results)),
		TotalFound: r.TotalFound,
	}
	for _, res := range r.Results {
		dto.Results = append(dto.Results, resultDTO{
			Movie:   movieFromDomain(res.Movie()),
			Score:   res.Score(),
			Lexical: res.LexicalScore(),
			Vector:  res.VectorScore(),
			Boost:   res.Boost(),
		})
	}
	return dto
}

func movieFromDomain(m movie.Movie) movieDTO {
	dto := movieDTO{
		ID:        m.ID(),
		Title:     m.Title(),
		Overview:  m.Overview(),
		Genres:    m.Genres(),
		Actors:    m.Actors(),
		Directors: m.Directors(),
	}
	if y, ok := m.Year(); ok {
		dto.Year = &y
	}
	if r, ok := m.Rating(); ok {
		dto.Rating = &r
	}
	if p, ok := m.Popularity(); ok {
		dto.Popularity = &p
	}
	return dto
}

func (d responseDTO) toDomain() (result.Response, error) {
	m := mode.Mode(d.Mode)
	if !m.IsValid() {
		return result.Response{}, fmt.Errorf("unknown mode %q", d.Mode)
	}
	resp := result.Response{
		Query:      d.Query,
		Mode:       m,
		Results:    make([]result.Result, 0, len(d.Results)),
		TotalFound: d.TotalFound,
	}
	for _, r := range d.Results {
		mv, err := r.Movie.toDomain()
		if err != nil {
			return result.Response{}, err
		}
		resp.Results = append(resp.Results, result.New(mv, r.Score, r.Lexical, r.Vector, r.Boost))
	}
	return resp, nil
}

func (d movieDTO) toDomain() (movie.Movie, error) {
	var opts []movie.Option
	if d.Year != nil {
		opts = append(opts, movie.WithYear(*d.Year))
	}
	if d.Rating != nil {
		opts = append(opts, movie.WithRating(*d.Rating))
	}
	if d.Popularity != nil {
		opts = append(opts, movie.WithPopularity(*d.Popularity))
	}
	return movie.New(d.ID, d.Title, d.Overview, d.Genres, d.Actors, d.Directors, opts...)
}
