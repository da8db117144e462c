package flatfile

import (
	"fmt"
	"strings"
)

// Delimiter separates columns within a row. There is no quoting or escaping.
const Delimiter = ","

// Encode joins fields into a single row in the order given.
func Encode(fields []string) string {
	return strings.Join(fields, Delimiter)
}

// Decode splits a row into its raw fields. It never fails; callers check the
// length before trusting an index. A trailing carriage return is dropped so
// files edited on Windows still match.
func Decode(line string) []string {
	return strings.Split(strings.TrimSuffix(line, "\r"), Delimiter)
}

// ValidateFields reports the first field that cannot be stored verbatim.
func ValidateFields(fields []string) error {
	for i, f := range fields {
		if strings.ContainsAny(f, Delimiter+"\r\n") {
			return fmt.Errorf("%w: column %d", ErrFieldDelimiter, i)
		}
	}
	return nil
}

// HasColumns reports whether row carries at least n columns.
func HasColumns(row []string, n int) bool {
	return len(row) >= n
}
