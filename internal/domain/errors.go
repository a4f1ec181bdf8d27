package domain

import "errors"

var (
	// ErrLookupFailure covers network errors, non-success statuses and timeouts
	// from any external capability.
	ErrLookupFailure = errors.New("lookup failure")
	// ErrIncompleteData is a successful response missing a required field.
	ErrIncompleteData = errors.New("incomplete data")
	// ErrNoResultFound is a search that matched nothing.
	ErrNoResultFound = errors.New("no result found")

	ErrNotFound = errors.New("not found")
)
