package flatfile

import (
	"crypto/rand"
	"io"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Registry hands out Tables over a single filesystem. Every Table for the
// same cleaned path shares one writer lock, so identifier generation and the
// append that follows cannot interleave with another writer in this process.
// Other processes writing the same files are not coordinated.
type Registry struct {
	fs      afero.Fs
	log     zerolog.Logger
	entropy io.Reader

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewRegistry returns a Registry over fsys. Pass afero.NewOsFs() for real
// files and afero.NewMemMapFs() in tests.
func NewRegistry(fsys afero.Fs, logger zerolog.Logger) *Registry {
	return &Registry{
		fs:      fsys,
		log:     logger,
		entropy: rand.Reader,
		locks:   make(map[string]*sync.Mutex),
	}
}

// SetEntropy replaces the randomness source used for secrets. Tables handed
// out afterwards use it.
func (r *Registry) SetEntropy(src io.Reader) { r.entropy = src }

// Table returns a view of path with the given column layout.
func (r *Registry) Table(path string, columns int) *Table {
	clean := filepath.Clean(path)

	r.mu.Lock()
	lock, ok := r.locks[clean]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[clean] = lock
	}
	r.mu.Unlock()

	return &Table{
		fs:      r.fs,
		path:    clean,
		columns: columns,
		mu:      lock,
		entropy: r.entropy,
		log:     r.log,
	}
}
