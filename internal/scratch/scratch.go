// Package scratch holds uploaded clips on disk for the lifetime of one
// request. Stored names are random; nothing from the client ends up in a path.
package scratch

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/starford/swara/internal/checksum"
)

var allowedExt = map[string]bool{
	".wav":  true,
	".wave": true,
	".mp3":  true,
}

const fallbackExt = ".bin"

// Dir is a scratch directory for uploads.
type Dir struct {
	root string // absolute path
}

// File is one stored upload.
type File struct {
	Path         string
	OriginalName string
	Size         int64
	SHA256       string
}

// NewDir creates root if needed and returns a Dir rooted there.
func NewDir(root string) (*Dir, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("scratch: resolve root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("scratch: mkdir: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("scratch: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scratch: root is not a directory: %s", abs)
	}
	return &Dir{root: abs}, nil
}

// Root returns the absolute directory path.
func (d *Dir) Root() string { return d.root }

// Save streams r into a new uniquely named file. originalName only picks the
// extension, and only from an allow-list.
func (d *Dir) Save(r io.Reader, originalName string) (*File, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedExt[ext] {
		ext = fallbackExt
	}
	path := filepath.Join(d.root, uuid.NewString()+ext)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, fmt.Errorf("scratch: create: %w", err)
	}

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = f.Close()
			_ = os.Remove(path)
		}
	}()

	cw := checksum.NewWriter(f)
	if _, err := io.Copy(cw, r); err != nil {
		return nil, fmt.Errorf("scratch: write: %w", err)
	}
	if err := f.Sync(); err != nil {
		return nil, fmt.Errorf("scratch: fsync: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("scratch: close: %w", err)
	}
	success = true

	return &File{
		Path:         path,
		OriginalName: filepath.Base(originalName),
		Size:         cw.Size(),
		SHA256:       cw.Sum(),
	}, nil
}

// Remove deletes the stored file. Removing twice is not an error.
func (f *File) Remove() error {
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("scratch: remove %s: %w", filepath.Base(f.Path), err)
	}
	return nil
}

// Sweep deletes scratch files last modified more than olderThan ago and
// returns how many were removed. Files not named by Save are left alone.
func (d *Dir) Sweep(olderThan time.Duration) (int, error) {
	entries, err := os.ReadDir(d.root)
	if err != nil {
		return 0, fmt.Errorf("scratch: sweep: %w", err)
	}
	cutoff := time.Now().Add(-olderThan)
	removed := 0
	var errs []error
	for _, e := range entries {
		if !e.Type().IsRegular() || !isScratchName(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(d.root, e.Name())); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
			continue
		}
		removed++
	}
	if len(errs) > 0 {
		return removed, fmt.Errorf("scratch: sweep: %w", errors.Join(errs...))
	}
	return removed, nil
}

func isScratchName(name string) bool {
	ext := filepath.Ext(name)
	if ext != fallbackExt && !allowedExt[ext] {
		return false
	}
	_, err := uuid.Parse(strings.TrimSuffix(name, ext))
	return err == nil
}
