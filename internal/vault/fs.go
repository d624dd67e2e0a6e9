package vault

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ujupatipanno/trash-note/internal/checksum"
)

// FS stores documents as plain files under a root directory.
type FS struct {
	root string

	mu       sync.Mutex
	onRename []func(oldPath, newPath string)
}

// NewFS returns an FS rooted at dir. The directory must already exist.
func NewFS(dir string) (*FS, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("vault: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("vault: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("vault: root %s is not a directory", abs)
	}
	return &FS{root: abs}, nil
}

// Root returns the absolute root directory of the vault.
func (f *FS) Root() string {
	return f.root
}

// safePath resolves a relative note path against the root and rejects
// anything that escapes it.
func (f *FS) safePath(rel string) (string, error) {
	if rel == "" {
		return "", fmt.Errorf("vault: empty path")
	}
	cleaned := filepath.Clean(filepath.FromSlash(rel))
	if filepath.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("vault: path %q escapes the vault root", rel)
	}
	return filepath.Join(f.root, cleaned), nil
}

func (f *FS) Exists(path string) bool {
	abs, err := f.safePath(path)
	if err != nil {
		return false
	}
	info, err := os.Stat(abs)
	return err == nil && !info.IsDir()
}

func (f *FS) Read(path string) ([]byte, error) {
	abs, err := f.safePath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("vault: read %s: %w", path, err)
	}
	return data, nil
}

// Write replaces the document at path atomically: the content goes to a
// temporary file in the same directory which is then renamed over the target.
func (f *FS) Write(path string, content []byte) error {
	abs, err := f.safePath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return fmt.Errorf("vault: create parent dir for %s: %w", path, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(abs), ".trash-note-tmp-*")
	if err != nil {
		return fmt.Errorf("vault: create temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	ok := false
	defer func() {
		if !ok {
			os.Remove(tmpName)
		}
	}()
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return fmt.Errorf("vault: write temp file for %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("vault: sync temp file for %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("vault: close temp file for %s: %w", path, err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return fmt.Errorf("vault: rename temp file to %s: %w", path, err)
	}
	ok = true
	return nil
}

// Create writes a new document at path. It fails with an error wrapping
// fs.ErrExist when the path is already taken.
func (f *FS) Create(path string, content []byte) error {
	abs, err := f.safePath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return fmt.Errorf("vault: create parent dir for %s: %w", path, err)
	}
	file, err := os.OpenFile(abs, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("vault: create %s: %w", path, err)
	}
	if _, err := file.Write(content); err != nil {
		file.Close()
		os.Remove(abs)
		return fmt.Errorf("vault: write %s: %w", path, err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(abs)
		return fmt.Errorf("vault: sync %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("vault: close %s: %w", path, err)
	}
	return nil
}

func (f *FS) Delete(path string) error {
	abs, err := f.safePath(path)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil {
		return fmt.Errorf("vault: delete %s: %w", path, err)
	}
	return nil
}

// Move renames oldPath to newPath, creating parent directories as needed.
// Registered rename observers run after the rename succeeds.
func (f *FS) Move(oldPath, newPath string) error {
	oldAbs, err := f.safePath(oldPath)
	if err != nil {
		return err
	}
	newAbs, err := f.safePath(newPath)
	if err != nil {
		return err
	}
	if _, err := os.Stat(newAbs); err == nil {
		return fmt.Errorf("vault: move %s to %s: %w", oldPath, newPath, fs.ErrExist)
	}
	if err := os.MkdirAll(filepath.Dir(newAbs), 0o755); err != nil {
		return fmt.Errorf("vault: create parent dir for %s: %w", newPath, err)
	}
	if err := os.Rename(oldAbs, newAbs); err != nil {
		return fmt.Errorf("vault: move %s to %s: %w", oldPath, newPath, err)
	}
	f.notifyRename(oldPath, newPath)
	return nil
}

// List walks dir (or the whole vault when dir is empty) and returns metadata
// for every markdown file found, with paths relative to the root.
func (f *FS) List(dir string) ([]NoteMeta, error) {
	start := f.root
	if dir != "" {
		abs, err := f.safePath(dir)
		if err != nil {
			return nil, err
		}
		start = abs
	}
	var notes []NoteMeta
	err := filepath.WalkDir(start, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && p != start {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(f.root, p)
		if err != nil {
			return err
		}
		notes = append(notes, NoteMeta{
			Path:      filepath.ToSlash(rel),
			Checksum:  checksum.Sum(data),
			UpdatedAt: info.ModTime().UTC(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("vault: list %s: %w", dir, err)
	}
	return notes, nil
}

// OnRename registers fn to be called after every successful Move with the
// old and new relative paths.
func (f *FS) OnRename(fn func(oldPath, newPath string)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onRename = append(f.onRename, fn)
}

func (f *FS) notifyRename(oldPath, newPath string) {
	f.mu.Lock()
	observers := make([]func(string, string), len(f.onRename))
	copy(observers, f.onRename)
	f.mu.Unlock()
	for _, fn := range observers {
		fn(oldPath, newPath)
	}
}
