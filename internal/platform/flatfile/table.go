// Package flatfile stores fixed-column records as comma-delimited lines in
// plain text files. A Table is one file: rows are appended, never rewritten,
// and every read goes back to disk so callers always see the file's current
// state. Tables sharing a path share a writer lock through the Registry that
// created them.
package flatfile

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// maxLineSize bounds a single row. Rows are short; anything longer is a
// corrupt file rather than data.
const maxLineSize = 1024 * 1024

// Table is a view of one delimited text file with a fixed column layout.
type Table struct {
	fs      afero.Fs
	path    string
	columns int
	mu      *sync.Mutex
	entropy io.Reader
	log     zerolog.Logger
}

// ---------------------------------------------------------------------------
// Writes
// ---------------------------------------------------------------------------

// Append encodes fields and appends them as one line, creating the file if
// needed. A nil error means the line has been synced to storage.
func (t *Table) Append(fields []string) error {
	if err := t.checkRow(fields); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.appendLocked(fields)
}

// Insert generates a fresh identifier for prefix and a fresh secret, builds
// the row from them and appends it. Generation and append run under the
// table lock, so no other writer in this process can claim the same values
// in between. It returns the stored row.
func (t *Table) Insert(prefix string, build func(id, secret string) []string) ([]string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	id, err := t.GenerateIdentifier(prefix)
	if err != nil {
		return nil, err
	}
	secret, err := t.GenerateSecret()
	if err != nil {
		return nil, err
	}
	row := build(id, secret)
	if err := t.checkRow(row); err != nil {
		return nil, err
	}
	if err := t.appendLocked(row); err != nil {
		return nil, err
	}
	return row, nil
}

func (t *Table) checkRow(fields []string) error {
	if len(fields) != t.columns {
		return fmt.Errorf("%w: %s wants %d, got %d", ErrColumnCount, t.path, t.columns, len(fields))
	}
	return ValidateFields(fields)
}

func (t *Table) appendLocked(fields []string) error {
	if dir := filepath.Dir(t.path); dir != "." {
		if err := t.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory for %s: %w", t.path, err)
		}
	}

	terminated, err := t.endsWithNewline()
	if err != nil {
		return err
	}
	line := Encode(fields) + "\n"
	if !terminated {
		line = "\n" + line
	}

	f, err := t.fs.OpenFile(t.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s for append: %w", t.path, err)
	}
	if _, err := f.WriteString(line); err != nil {
		f.Close()
		return fmt.Errorf("append to %s: %w", t.path, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("sync %s: %w", t.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", t.path, err)
	}

	t.log.Debug().Str("table", t.path).Int("columns", len(fields)).Msg("row appended")
	return nil
}

// endsWithNewline reports whether the file is missing, empty, or ends in a
// line terminator. Files edited by hand often lack the final newline.
func (t *Table) endsWithNewline() (bool, error) {
	info, err := t.fs.Stat(t.path)
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", t.path, err)
	}
	if info.Size() == 0 {
		return true, nil
	}

	f, err := t.fs.Open(t.path)
	if err != nil {
		return false, fmt.Errorf("open %s: %w", t.path, err)
	}
	defer f.Close()

	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read %s: %w", t.path, err)
	}
	return last[0] == '\n', nil
}

// ---------------------------------------------------------------------------
// Reads
// ---------------------------------------------------------------------------

// Scan returns every row of the file in order, decoded but not validated.
// The sequence is lazy and can be ranged over again; each pass re-opens the
// file. A missing file yields no rows. Any other I/O failure is yielded once
// with a nil row and ends the pass.
func (t *Table) Scan() iter.Seq2[[]string, error] {
	return func(yield func([]string, error) bool) {
		f, err := t.fs.Open(t.path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return
			}
			yield(nil, fmt.Errorf("open %s: %w", t.path, err))
			return
		}
		defer f.Close()

		r := bufio.NewReader(f)
		for {
			line, oversized, err := nextLine(r)
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(nil, fmt.Errorf("read %s: %w", t.path, err))
				return
			}
			if oversized {
				t.log.Debug().Str("table", t.path).Int("limit", maxLineSize).Msg("skipping oversized row")
				continue
			}
			if !yield(Decode(line), nil) {
				return
			}
		}
	}
}

// nextLine reads one line without its terminator. A line longer than
// maxLineSize is consumed to its end and reported as oversized with no
// content. io.EOF is returned only once nothing is left to read.
func nextLine(r *bufio.Reader) (line string, oversized bool, err error) {
	var buf []byte
	read := false
	for {
		chunk, err := r.ReadSlice('\n')
		read = read || len(chunk) > 0
		if !oversized {
			buf = append(buf, chunk...)
			if len(bytes.TrimRight(buf, "\r\n")) > maxLineSize {
				oversized, buf = true, nil
			}
		}
		switch {
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case errors.Is(err, io.EOF):
			if !read {
				return "", false, io.EOF
			}
		case err != nil:
			return "", false, err
		}
		if oversized {
			return "", true, nil
		}
		return string(bytes.TrimSuffix(buf, []byte("\n"))), false, nil
	}
}

// ReadAll collects Scan into a slice.
func (t *Table) ReadAll() ([][]string, error) {
	var rows [][]string
	for row, err := range t.Scan() {
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Records returns the structurally valid rows in file order. Short rows are
// skipped.
func (t *Table) Records() ([][]string, error) {
	var rows [][]string
	for row, err := range t.Scan() {
		if err != nil {
			return nil, err
		}
		if t.valid(row, 0) {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// FindFirst returns the first valid row whose column equals value exactly.
func (t *Table) FindFirst(column int, value string) ([]string, error) {
	for row, err := range t.Scan() {
		if err != nil {
			return nil, err
		}
		if t.valid(row, column) && row[column] == value {
			return row, nil
		}
	}
	return nil, ErrNotFound
}

// FindLast is FindFirst scanning from the end of the file. Recency is append
// order; no field is interpreted as a timestamp.
func (t *Table) FindLast(column int, value string) ([]string, error) {
	rows, err := t.ReadAll()
	if err != nil {
		return nil, err
	}
	for i := len(rows) - 1; i >= 0; i-- {
		row := rows[i]
		if t.valid(row, column) && row[column] == value {
			return row, nil
		}
	}
	return nil, ErrNotFound
}

// FindAll returns every valid row whose column equals value, in file order.
// No match is an empty result, not an error.
func (t *Table) FindAll(column int, value string) ([][]string, error) {
	var rows [][]string
	for row, err := range t.Scan() {
		if err != nil {
			return nil, err
		}
		if t.valid(row, column) && row[column] == value {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func (t *Table) valid(row []string, column int) bool {
	if !HasColumns(row, t.columns) || column >= len(row) {
		t.log.Debug().
			Str("table", t.path).
			Int("columns", len(row)).
			Int("want", t.columns).
			Msg("skipping malformed row")
		return false
	}
	return true
}
