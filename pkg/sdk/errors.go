package cinedex

import "github.com/kailas-cloud/cinedex/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotReady              = domain.ErrNotReady
	ErrBuildFailed           = domain.ErrBuildFailed
	ErrInvalidQuery          = domain.ErrInvalidQuery
	ErrCorpusInvalid         = domain.ErrCorpusInvalid
	ErrDatasetUnavailable    = domain.ErrDatasetUnavailable
	ErrRecognizerUnavailable = domain.ErrRecognizerUnavailable
)
