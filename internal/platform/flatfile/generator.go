package flatfile

import (
	"fmt"
	"io"
)

const (
	// MaxSequence is the highest sequence number an identifier prefix can use.
	MaxSequence = 9999

	// SecretLength is the fixed length of generated secrets.
	SecretLength = 8

	secretAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ1234567890"

	// Largest multiple of len(secretAlphabet) that fits in a byte. Bytes at or
	// above it are redrawn so every symbol is equally likely.
	secretByteCeiling = 256 - 256%len(secretAlphabet)
)

// GenerateIdentifier returns prefix followed by the lowest four-digit
// sequence number not already used in column 0 of the file. It scans the
// file on every call, so numbering survives restarts and reuses gaps.
func (t *Table) GenerateIdentifier(prefix string) (string, error) {
	taken, err := t.columnValues(0)
	if err != nil {
		return "", err
	}
	for i := 1; i <= MaxSequence; i++ {
		id := fmt.Sprintf("%s%04d", prefix, i)
		if _, ok := taken[id]; !ok {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: no %q identifiers left in %s", ErrExhaustedRange, prefix, t.path)
}

// GenerateSecret returns a random alphanumeric secret of SecretLength that
// does not appear in column 1 of the file. A collision redraws the whole
// secret.
func (t *Table) GenerateSecret() (string, error) {
	taken, err := t.columnValues(1)
	if err != nil {
		return "", err
	}
	for {
		secret, err := randomSecret(t.entropy)
		if err != nil {
			return "", fmt.Errorf("generate secret: %w", err)
		}
		if _, ok := taken[secret]; !ok {
			return secret, nil
		}
	}
}

// columnValues collects column i of every row long enough to have it,
// regardless of the table's declared layout. Uniqueness has to hold against
// short rows too.
func (t *Table) columnValues(i int) (map[string]struct{}, error) {
	values := make(map[string]struct{})
	for row, err := range t.Scan() {
		if err != nil {
			return nil, err
		}
		if len(row) > i {
			values[row[i]] = struct{}{}
		}
	}
	return values, nil
}

func randomSecret(r io.Reader) (string, error) {
	out := make([]byte, 0, SecretLength)
	buf := make([]byte, SecretLength)
	for len(out) < SecretLength {
		if _, err := io.ReadFull(r, buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if int(b) >= secretByteCeiling {
				continue
			}
			out = append(out, secretAlphabet[int(b)%len(secretAlphabet)])
			if len(out) == SecretLength {
				break
			}
		}
	}
	return string(out), nil
}
