package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/cinedex/internal/domain/movie"
	"github.com/kailas-cloud/cinedex/internal/domain/search/mode"
	"github.com/kailas-cloud/cinedex/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/cinedex/internal/usecase/health"
	"github.com/kailas-cloud/cinedex/internal/version"
)

// --- Mocks ---

type searchCall struct {
	raw   string
	limit int
	mode  mode.Mode
}

type mockSearcher struct {
	ready bool
	count int
	resp  result.Response
	calls []searchCall
	panic bool
}

func (m *mockSearcher) SearchMode(_ context.Context, raw string, limit int, md mode.Mode) result.Response {
	if m.panic {
		panic("engine exploded")
	}
	m.calls = append(m.calls, searchCall{raw: raw, limit: limit, mode: md})
	resp := m.resp
	resp.Query, resp.Mode = raw, md
	return resp
}

func (m *mockSearcher) IsReady() bool  { return m.ready }
func (m *mockSearcher) ItemCount() int { return m.count }

func newTestRouter(t *testing.T, s *mockSearcher, apiKeys ...string) http.Handler {
	t.Helper()
	srv := NewServer(s, healthuc.New(s, nil, nil), zap.NewNop())
	return NewRouter(srv, apiKeys)
}

func do(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, http.NoBody)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func sampleResult(t *testing.T) result.Result {
	t.Helper()
	m, err := movie.New("7", "Space Cargo", "Haulers in deep space.",
		[]string{"Science Fiction"}, []string{"Sigourney Weaver"}, nil, movie.WithYear(1979))
	if err != nil {
		t.Fatal(err)
	}
	return result.New(m, 1.25, 1.5, 0.4, 0.2)
}

// --- Tests ---

func TestSearchMovies_OK(t *testing.T) {
	s := &mockSearcher{ready: true, resp: result.Response{
		Results:         []result.Result{sampleResult(t)},
		TotalFound:      4,
		ExecutionTimeMs: 3.2,
	}}
	rr := do(t, newTestRouter(t, s), "/api/search?q=space+cargo&limit=5&mode=keyword")

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body)
	}
	if len(s.calls) != 1 || s.calls[0] != (searchCall{raw: "space cargo", limit: 5, mode: mode.Keyword}) {
		t.Errorf("calls = %+v", s.calls)
	}

	var body searchResponse
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Query != "space cargo" || body.Mode != "keyword" || body.TotalFound != 4 {
		t.Errorf("body = %+v", body)
	}
	if len(body.Results) != 1 {
		t.Fatalf("results = %d", len(body.Results))
	}
	got := body.Results[0]
	if got.ID != "7" || got.RelevanceScore != 100 || got.Year == nil || *got.Year != 1979 {
		t.Errorf("result = %+v", got)
	}
	if got.Rating != nil {
		t.Error("unknown rating must be null")
	}
	if got.Directors == nil {
		t.Error("directors must encode as an empty list")
	}
}

func TestSearchMovies_Defaults(t *testing.T) {
	s := &mockSearcher{ready: true}
	rr := do(t, newTestRouter(t, s), "/api/search?q=heist")

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if s.calls[0].limit != 0 || s.calls[0].mode != mode.Hybrid {
		t.Errorf("call = %+v, want configured default limit and hybrid", s.calls[0])
	}
}

func TestSearchMovies_BadRequests(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"missing q", "/api/search"},
		{"blank q", "/api/search?q=%20%20"},
		{"non-numeric limit", "/api/search?q=x&limit=ten"},
		{"negative limit", "/api/search?q=x&limit=-1"},
		{"unknown mode", "/api/search?q=x&mode=geo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &mockSearcher{ready: true}
			rr := do(t, newTestRouter(t, s), tt.target)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rr.Code)
			}
			var e errorResponse
			_ = json.NewDecoder(rr.Body).Decode(&e)
			if e.Code != codeBadRequest || e.Message == "" {
				t.Errorf("error = %+v", e)
			}
			if len(s.calls) != 0 {
				t.Error("search must not run for invalid input")
			}
		})
	}
}

func TestSearchMovies_NotReady(t *testing.T) {
	rr := do(t, newTestRouter(t, &mockSearcher{}), "/api/search?q=x")
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rr.Code)
	}
}

func TestStatus(t *testing.T) {
	for _, path := range []string{"/api/status", "/status"} {
		rr := do(t, newTestRouter(t, &mockSearcher{ready: true, count: 9000}), path)
		var body statusResponse
		_ = json.NewDecoder(rr.Body).Decode(&body)
		if rr.Code != http.StatusOK || body.Status != "ready" || body.MovieCount == nil || *body.MovieCount != 9000 {
			t.Errorf("%s: %d %+v", path, rr.Code, body)
		}
		if body.Version != version.Version {
			t.Errorf("%s: version = %q", path, body.Version)
		}
	}

	rr := do(t, newTestRouter(t, &mockSearcher{}), "/api/status")
	var body statusResponse
	_ = json.NewDecoder(rr.Body).Decode(&body)
	if body.Status != "not_ready" || body.MovieCount != nil {
		t.Errorf("not ready body = %+v", body)
	}
}

func TestHealthCheck(t *testing.T) {
	rr := do(t, newTestRouter(t, &mockSearcher{ready: true}), "/health")
	if rr.Code != http.StatusOK {
		t.Errorf("ready: status = %d", rr.Code)
	}
	var body healthResponse
	_ = json.NewDecoder(rr.Body).Decode(&body)
	if body.Status != "ok" || body.Checks["index"] != "ok" {
		t.Errorf("body = %+v", body)
	}

	rr = do(t, newTestRouter(t, &mockSearcher{}), "/health")
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("not ready: status = %d, want 503", rr.Code)
	}
}

func TestNotFound_JSON(t *testing.T) {
	rr := do(t, newTestRouter(t, &mockSearcher{}), "/nope")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
}

func TestRecoverer_JSON(t *testing.T) {
	rr := do(t, newTestRouter(t, &mockSearcher{ready: true, panic: true}), "/api/search?q=x")
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rr.Code)
	}
	var e errorResponse
	_ = json.NewDecoder(rr.Body).Decode(&e)
	if e.Code != codeInternal {
		t.Errorf("error = %+v", e)
	}
}

func TestRequestIDHeader(t *testing.T) {
	rr := do(t, newTestRouter(t, &mockSearcher{ready: true}), "/api/status")
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID")
	}
}

func TestRouter_Auth(t *testing.T) {
	h := newTestRouter(t, &mockSearcher{ready: true}, "secret")
	if rr := do(t, h, "/api/search?q=x"); rr.Code != http.StatusUnauthorized {
		t.Errorf("no token: status = %d", rr.Code)
	}
	if rr := do(t, h, "/health"); rr.Code != http.StatusOK {
		t.Errorf("health must bypass auth: status = %d", rr.Code)
	}
}
