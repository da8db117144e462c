package flatfile

import "errors"

// ---------------------------------------------------------------------------
// Sentinel errors
// ---------------------------------------------------------------------------

var (
	// ErrNotFound is returned by lookups that match no structurally valid row.
	ErrNotFound = errors.New("record not found")

	// ErrMalformedRow marks a row with fewer columns than its table declares.
	// Table scans absorb it; typed decoders return it.
	ErrMalformedRow = errors.New("malformed row")

	// ErrExhaustedRange is returned when every sequence number for an
	// identifier prefix is already taken.
	ErrExhaustedRange = errors.New("identifier range exhausted")

	// ErrFieldDelimiter rejects a field value that would shift the columns
	// of every following field on decode.
	ErrFieldDelimiter = errors.New("field contains a delimiter or line break")

	// ErrColumnCount rejects an append whose field count differs from the
	// table layout.
	ErrColumnCount = errors.New("wrong number of columns")
)
