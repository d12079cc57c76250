package applehealth

import "errors"

var (
	// ErrArchiveCorrupt means the container or the export document cannot be read.
	ErrArchiveCorrupt = errors.New("archive corrupt")
	// ErrSchemaMismatch means an element's tag or required parts differ from what a converter expects.
	ErrSchemaMismatch = errors.New("schema mismatch")
	// ErrMalformedStatistic means a numeric field holds a non-numeric value.
	ErrMalformedStatistic = errors.New("malformed statistic")
	// ErrMalformedTimestamp means a date field cannot be parsed.
	ErrMalformedTimestamp = errors.New("malformed timestamp")
	// ErrInvalidCode means an enum-coded field carries a code outside its domain.
	ErrInvalidCode = errors.New("invalid code")
)
