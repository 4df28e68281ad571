package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNoProfile is returned when no student profile has been fetched yet
var ErrNoProfile = errors.New("no student profile saved yet")

func (s *Store) profilePath() string { return filepath.Join(s.dir, "student.json") }

// SaveProfile writes the last fetched student record to student.json.
func (s *Store) SaveProfile(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize profile: %w", err)
	}
	return writeAtomic(s.profilePath(), data, 0600)
}

// LoadProfile decodes student.json into v.
func (s *Store) LoadProfile(v any) error {
	data, err := os.ReadFile(s.profilePath())
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNoProfile
		}
		return fmt.Errorf("failed to read profile: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse profile: %w", err)
	}
	return nil
}
