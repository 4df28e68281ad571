package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golestoon/pkg/course"
)

const (
	availableFile   = "available_courses.json"
	unavailableFile = "unavailable_courses.json"
)

// HasCatalog reports whether any synced catalogue file exists.
func (s *Store) HasCatalog() bool {
	for _, name := range []string{availableFile, unavailableFile} {
		if _, err := os.Stat(filepath.Join(s.coursesDir(), name)); err == nil {
			return true
		}
	}
	return false
}

// SaveCatalogFiles writes the scraped offerings. A nil argument leaves the
// corresponding file untouched.
func (s *Store) SaveCatalogFiles(available, unavailable course.Offerings) error {
	for name, o := range map[string]course.Offerings{availableFile: available, unavailableFile: unavailable} {
		if o == nil {
			continue
		}
		data, err := json.MarshalIndent(o, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to serialize %s: %w", name, err)
		}
		if err := writeAtomic(filepath.Join(s.coursesDir(), name), data, 0644); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) readOfferings(name string) (course.Offerings, error) {
	data, err := os.ReadFile(filepath.Join(s.coursesDir(), name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	var o course.Offerings
	if err := json.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return o, nil
}

// LoadOfferings reads both catalogue files. Missing files yield nil.
func (s *Store) LoadOfferings() (available, unavailable course.Offerings, err error) {
	if available, err = s.readOfferings(availableFile); err != nil {
		return nil, nil, err
	}
	if unavailable, err = s.readOfferings(unavailableFile); err != nil {
		return nil, nil, err
	}
	return available, unavailable, nil
}

// LoadCatalog flattens the synced offerings into a keyed catalogue and
// merges the custom courses of d into it. A custom course whose key is
// now taken by a synced section gets a fresh key, and every reference in
// d follows it. The returned map lists those renames, old key to new.
func (s *Store) LoadCatalog(d *UserData) (course.Catalog, map[string]string, error) {
	available, unavailable, err := s.LoadOfferings()
	if err != nil {
		return nil, nil, err
	}
	catalog := Flatten(available, unavailable)
	if d == nil {
		return catalog, nil, nil
	}

	keys := make([]string, 0, len(d.CustomCourses))
	existing := make(map[string]bool, len(catalog)+len(d.CustomCourses))
	for k := range catalog {
		existing[k] = true
	}
	for k := range d.CustomCourses {
		keys = append(keys, k)
		existing[k] = true
	}
	sort.Strings(keys)

	renamed := make(map[string]string)
	for _, k := range keys {
		c := d.CustomCourses[k]
		c.Custom = true
		if _, taken := catalog[k]; taken {
			nk := course.GenerateKey(c, existing)
			existing[nk] = true
			delete(d.CustomCourses, k)
			d.CustomCourses[nk] = c
			d.RenameCourse(k, nk)
			renamed[k] = nk
			k = nk
		}
		catalog[k] = c
	}
	return catalog, renamed, nil
}

// Flatten turns offerings into a catalogue. Sections are visited in sorted
// faculty and department order so keys are stable between runs.
func Flatten(available, unavailable course.Offerings) course.Catalog {
	catalog := make(course.Catalog)
	existing := make(map[string]bool)
	add := func(o course.Offerings, isAvailable bool) {
		faculties := make([]string, 0, len(o))
		for f := range o {
			faculties = append(faculties, f)
		}
		sort.Strings(faculties)
		for _, f := range faculties {
			departments := make([]string, 0, len(o[f]))
			for d := range o[f] {
				departments = append(departments, d)
			}
			sort.Strings(departments)
			for _, d := range departments {
				major := strings.TrimSpace(f) + " - " + strings.TrimSpace(d)
				for _, c := range o[f][d] {
					c.IsAvailable = isAvailable
					c.Major = major
					c.Name = course.NormalizePersian(strings.TrimSpace(c.Name))
					c.Instructor = course.NormalizePersian(strings.TrimSpace(c.Instructor))
					key := course.GenerateKey(c, existing)
					existing[key] = true
					catalog[key] = c
				}
			}
		}
	}
	add(available, true)
	add(unavailable, false)
	return catalog
}
