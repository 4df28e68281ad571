package store

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"golestoon/pkg/course"
)

// Combination is a named, saved set of course keys.
type Combination struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Courses   []string  `json:"courses"`
	CreatedAt time.Time `json:"created_at"`
	Days      int       `json:"days"`
	Idle      float64   `json:"idle"`
}

// UserData is everything the user creates: custom courses, saved
// combinations, the current timetable and the priority list.
type UserData struct {
	CustomCourses   map[string]course.Course `json:"custom_courses"`
	SavedCombos     []Combination            `json:"saved_combos"`
	CurrentSchedule []string                 `json:"current_schedule"`
	PriorityList    []string                 `json:"priority_list"`
	LastSync        time.Time                `json:"last_sync"`
}

// NewUserData returns empty user data with every collection initialised.
func NewUserData() *UserData {
	d := &UserData{}
	d.fill()
	return d
}

func (d *UserData) fill() {
	if d.CustomCourses == nil {
		d.CustomCourses = make(map[string]course.Course)
	}
	if d.SavedCombos == nil {
		d.SavedCombos = []Combination{}
	}
	if d.CurrentSchedule == nil {
		d.CurrentSchedule = []string{}
	}
	if d.PriorityList == nil {
		d.PriorityList = []string{}
	}
	for k, c := range d.CustomCourses {
		c.Custom = true
		d.CustomCourses[k] = c
	}
}

func parseUserData(data []byte) (*UserData, error) {
	var d UserData
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	d.fill()
	return &d, nil
}

// LoadUserData reads user_data.json. When it is missing or corrupt the
// newest readable backup is used, and failing that empty data is returned.
// The second result names the backup that was used, if any.
func (s *Store) LoadUserData() (*UserData, string, error) {
	data, err := os.ReadFile(s.userDataPath())
	if err == nil {
		if d, perr := parseUserData(data); perr == nil {
			return d, "", nil
		}
	} else if !os.IsNotExist(err) {
		return nil, "", fmt.Errorf("failed to read user data: %w", err)
	}

	backups, err := s.ListBackups()
	if err != nil {
		return nil, "", err
	}
	for _, b := range backups {
		raw, err := os.ReadFile(b.Path)
		if err != nil {
			continue
		}
		if d, err := parseUserData(raw); err == nil {
			return d, b.Name, nil
		}
	}
	return NewUserData(), "", nil
}

// SaveUserData backs up the current file (or d itself on first save),
// writes d atomically and prunes old backups.
func (s *Store) SaveUserData(d *UserData) error {
	d.fill()
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize user data: %w", err)
	}

	previous, err := os.ReadFile(s.userDataPath())
	switch {
	case err == nil:
	case os.IsNotExist(err):
		previous = data
	default:
		return fmt.Errorf("failed to read user data: %w", err)
	}
	if _, err := s.writeBackup(previous); err != nil {
		return err
	}

	if err := writeAtomic(s.userDataPath(), data, 0644); err != nil {
		return err
	}
	_, err = s.PruneBackups(s.keep)
	return err
}
