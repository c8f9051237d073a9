package usecase

import (
	"errors"
	"fmt"
)

var (
	// ErrRefreshInProgress reports a duplicate trigger while a cycle runs.
	// Not a failure: the caller can read the cache or retry later.
	ErrRefreshInProgress = errors.New("refresh already in progress")

	// ErrAllSymbolsFailed is cycle-fatal: nothing could be scored, nothing
	// is published, the previous snapshot stays in place.
	ErrAllSymbolsFailed = errors.New("all symbol fetches failed")
)

// FetchError is a per-symbol, recoverable failure. It is absorbed into the
// snapshot's failed set and never propagated to refresh callers.
type FetchError struct {
	Symbol string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Symbol, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
