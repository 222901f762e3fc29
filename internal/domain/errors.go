package domain

import "errors"

var (
	// ErrNotReady signals that the search indexes have not been built yet.
	ErrNotReady = errors.New("search index not ready")
	// ErrBuildFailed signals that index construction failed.
	ErrBuildFailed = errors.New("index build failed")
	// ErrEngineQuery signals a single engine failing to answer a query.
	ErrEngineQuery = errors.New("engine query failed")
	// ErrInvalidQuery signals an unusable search request.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrCorpusInvalid signals a corpus that cannot be indexed.
	ErrCorpusInvalid = errors.New("invalid corpus")
	// ErrDatasetUnavailable signals that the movie dataset could not be read or fetched.
	ErrDatasetUnavailable = errors.New("dataset unavailable")
	// ErrRecognizerUnavailable signals a person recognizer failure.
	ErrRecognizerUnavailable = errors.New("person recognizer unavailable")

	// ErrSnapshotNotFound signals that no persisted index exists.
	ErrSnapshotNotFound = errors.New("index snapshot not found")
	// ErrSnapshotStale signals a persisted index built from a different corpus.
	ErrSnapshotStale = errors.New("index snapshot is stale")
)
