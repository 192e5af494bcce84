package types

import "errors"

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)

// Export execution errors. The fetcher wraps the underlying driver error
// with one of these so callers can tell which step failed.
var (
	ErrConnection = errors.New("store connection unavailable")
	ErrPrepare    = errors.New("preparing statement")
	ErrBind       = errors.New("binding statement parameters")
	ErrStep       = errors.New("stepping result rows")
)

// Export request errors.
var (
	ErrNoProjections        = errors.New("no columns selected")
	ErrUnknownColumn        = errors.New("unknown column")
	ErrInvalidDate          = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidDateRange     = errors.New("from date is after to date")
	ErrMissingEntityID      = errors.New("preview requires a task id")
	ErrInvalidDelimiter     = errors.New("invalid delimiter")
	ErrDelimiterIsQualifier = errors.New("delimiter and qualifier must differ")
	ErrInvalidOption        = errors.New("invalid export option")
	ErrUnknownEncoding      = errors.New("unknown output encoding")
)
