package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const backupLayout = "20060102_150405"

// Backup is one timestamped copy of user_data.json.
type Backup struct {
	Name string
	Path string
	Time time.Time
	Size int64
}

func (s *Store) writeBackup(data []byte) (Backup, error) {
	ts := s.now()
	name := "user_data_" + ts.Format(backupLayout) + ".json"
	path := filepath.Join(s.backupDir(), name)
	if err := writeAtomic(path, data, 0644); err != nil {
		return Backup{}, fmt.Errorf("failed to write backup: %w", err)
	}
	return Backup{Name: name, Path: path, Time: ts, Size: int64(len(data))}, nil
}

// ListBackups returns the backups, newest first.
func (s *Store) ListBackups() ([]Backup, error) {
	entries, err := os.ReadDir(s.backupDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var out []Backup
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, "user_data_") || !strings.HasSuffix(name, ".json") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		stamp := strings.TrimSuffix(strings.TrimPrefix(name, "user_data_"), ".json")
		ts, err := time.ParseInLocation(backupLayout, stamp, time.Local)
		if err != nil {
			ts = info.ModTime()
		}
		out = append(out, Backup{
			Name: name,
			Path: filepath.Join(s.backupDir(), name),
			Time: ts,
			Size: info.Size(),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Time.Equal(out[j].Time) {
			return out[i].Time.After(out[j].Time)
		}
		return out[i].Name > out[j].Name
	})
	return out, nil
}

// CreateBackup copies the current user_data.json into the backup directory.
func (s *Store) CreateBackup() (Backup, error) {
	data, err := os.ReadFile(s.userDataPath())
	if err != nil {
		if os.IsNotExist(err) {
			return Backup{}, ErrNoUserData
		}
		return Backup{}, fmt.Errorf("failed to read user data: %w", err)
	}
	b, err := s.writeBackup(data)
	if err != nil {
		return Backup{}, err
	}
	_, err = s.PruneBackups(s.keep)
	return b, err
}

// RestoreBackup makes the named backup the current user data. The file
// being replaced is backed up first.
func (s *Store) RestoreBackup(name string) error {
	backups, err := s.ListBackups()
	if err != nil {
		return err
	}
	var target *Backup
	for i := range backups {
		if backups[i].Name == name {
			target = &backups[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("%w: %s", ErrBackupNotFound, name)
	}

	data, err := os.ReadFile(target.Path)
	if err != nil {
		return fmt.Errorf("failed to read backup: %w", err)
	}
	if !json.Valid(data) {
		return fmt.Errorf("backup %s is not valid JSON", name)
	}

	if current, err := os.ReadFile(s.userDataPath()); err == nil {
		if _, err := s.writeBackup(current); err != nil {
			return err
		}
	}
	if err := writeAtomic(s.userDataPath(), data, 0644); err != nil {
		return err
	}
	_, err = s.PruneBackups(s.keep)
	return err
}

// PruneBackups deletes all but the newest keep backups and returns the
// removed names.
func (s *Store) PruneBackups(keep int) ([]string, error) {
	backups, err := s.ListBackups()
	if err != nil {
		return nil, err
	}
	if keep < 0 {
		keep = 0
	}
	var removed []string
	for i := keep; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil && !os.IsNotExist(err) {
			return removed, fmt.Errorf("failed to remove backup %s: %w", backups[i].Name, err)
		}
		removed = append(removed, backups[i].Name)
	}
	return removed, nil
}
