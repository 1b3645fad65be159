// Package source discovers inquiry files and splits bulk email dumps into them.
package source

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ppiankov/tripparse/internal/model"
)

// DefaultMaxBytes caps how much of one inquiry file is read
const DefaultMaxBytes = 1 << 20

// ErrTooLarge marks a file larger than the read cap
var ErrTooLarge = errors.New("file exceeds read limit")

// Discover returns the *.txt files in dir, sorted by name
func Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".txt") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Slice(paths, func(i, j int) bool {
		return filepath.Base(paths[i]) < filepath.Base(paths[j])
	})
	return paths, nil
}

// Load discovers and reads every inquiry in dir. A file that cannot be read
// becomes an inquiry carrying its error, so it is reported rather than dropped.
func Load(dir string, maxBytes int64) ([]model.Inquiry, error) {
	paths, err := Discover(dir)
	if err != nil {
		return nil, err
	}

	inquiries := make([]model.Inquiry, 0, len(paths))
	for _, p := range paths {
		raw, err := ReadFile(p, maxBytes)
		inquiries = append(inquiries, model.Inquiry{
			ID:   filepath.Base(p),
			Path: p,
			Raw:  raw,
			Err:  err,
		})
	}
	return inquiries, nil
}

// ReadFile reads at most maxBytes from path. maxBytes <= 0 uses DefaultMaxBytes.
func ReadFile(path string, maxBytes int64) ([]byte, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	// Read one byte past the limit to detect oversized files
	raw, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if int64(len(raw)) > maxBytes {
		return nil, fmt.Errorf("%s: %w (%d bytes)", filepath.Base(path), ErrTooLarge, maxBytes)
	}
	return raw, nil
}
