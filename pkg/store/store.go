package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

var (
	// ErrDuplicateName is returned when a combination name is already taken
	ErrDuplicateName = errors.New("a combination with this name already exists")
	// ErrComboNotFound is returned when no saved combination matches
	ErrComboNotFound = errors.New("combination not found")
	// ErrNotCustom is returned when editing a course that came from the portal
	ErrNotCustom = errors.New("only custom courses can be changed")
	// ErrBackupNotFound is returned for unknown backup names
	ErrBackupNotFound = errors.New("backup not found")
	// ErrNoUserData is returned when there is nothing to back up
	ErrNoUserData = errors.New("no user data saved yet")
)

// DefaultKeepBackups is how many user data backups survive a save.
const DefaultKeepBackups = 5

// Store reads and writes everything under the data directory.
type Store struct {
	dir  string
	keep int
	now  func() time.Time
}

// New returns a store rooted at dir. Nothing is created until the first write.
func New(dir string) *Store {
	return &Store{dir: dir, keep: DefaultKeepBackups, now: time.Now}
}

// Dir is the data directory.
func (s *Store) Dir() string { return s.dir }

// CacheDir holds raw portal responses.
func (s *Store) CacheDir() string { return filepath.Join(s.dir, "cache") }

// LogDir holds golestoon.log.
func (s *Store) LogDir() string { return filepath.Join(s.dir, "logs") }

func (s *Store) userDataPath() string { return filepath.Join(s.dir, "user_data.json") }
func (s *Store) backupDir() string    { return filepath.Join(s.dir, "backups") }
func (s *Store) coursesDir() string   { return filepath.Join(s.dir, "courses_data") }

// writeAtomic replaces path with data through a temp file in the same directory.
func writeAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("could not create directory %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("could not create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
