package health

import "context"

// IndexChecker reports whether the search indexes are built.
type IndexChecker interface {
	IsReady() bool
}

// CachePinger checks response cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// RecognizerChecker checks person recognizer availability.
type RecognizerChecker interface {
	HealthCheck(ctx context.Context) error
}
