package settings

import (
	"errors"
	"fmt"
	"os"
	"sync"

	pkgconfig "github.com/ujupatipanno/trash-note/pkg/config"
)

// Store loads the settings file once and persists every mutation back to it
// immediately. Reads return copies; writes go through Update.
type Store struct {
	path string

	mu  sync.Mutex
	cur Settings
}

// Open reads the settings file at path. A missing file is not an error:
// the store starts from Defaults and the first Update creates the file.
func Open(path string) (*Store, error) {
	s := &Store{path: path, cur: Defaults()}
	if err := pkgconfig.Load(path, &s.cur); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("settings: load %s: %w", path, err)
	}
	return s, nil
}

// Get returns a copy of the current settings.
func (s *Store) Get() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur
}

// Update applies mutate to a copy of the current settings, validates the
// result, commits it in memory, and persists the whole object. A validation
// failure leaves the store unchanged. A persistence failure keeps the
// in-memory commit (last-write-wins; a later save will carry it) and is
// returned for the caller to log.
func (s *Store) Update(mutate func(*Settings)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.cur
	mutate(&next)
	if err := next.Validate(); err != nil {
		return fmt.Errorf("settings: validate: %w", err)
	}
	s.cur = next

	if err := pkgconfig.Save(s.path, &next); err != nil {
		return fmt.Errorf("settings: save %s: %w", s.path, err)
	}
	return nil
}
