package course

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultInstructor is what the portal shows when no lecturer is assigned.
const DefaultInstructor = "اساتید گروه آموزشی"

// Course is one offered section of a subject.
type Course struct {
	Code                 string    `json:"code" validate:"required,max=32"`
	Name                 string    `json:"name" validate:"required"`
	Credits              int       `json:"credits" validate:"gte=0,lte=30"`
	Instructor           string    `json:"instructor"`
	Schedule             []Session `json:"schedule" validate:"dive"`
	Location             string    `json:"location,omitempty"`
	Description          string    `json:"description,omitempty"`
	ExamTime             string    `json:"exam_time,omitempty"`
	Capacity             string    `json:"capacity,omitempty"`
	GenderRestriction    string    `json:"gender_restriction,omitempty"`
	EnrollmentConditions string    `json:"enrollment_conditions,omitempty"`
	IsAvailable          bool      `json:"is_available"`
	Major                string    `json:"major,omitempty"`
	Custom               bool      `json:"custom,omitempty"`
}

// PrimaryLocation returns the course location, falling back to the first
// session that names one.
func (c Course) PrimaryLocation() string {
	if c.Location != "" {
		return c.Location
	}
	for _, s := range c.Schedule {
		if s.Location != "" {
			return s.Location
		}
	}
	return ""
}

// Offerings is the portal's nested layout: faculty, then department, then sections.
type Offerings map[string]map[string][]Course

// Count returns the number of sections.
func (o Offerings) Count() int {
	n := 0
	for _, deps := range o {
		for _, list := range deps {
			n += len(list)
		}
	}
	return n
}

// Catalog maps unique course keys to courses.
type Catalog map[string]Course

// Keys returns the catalogue keys in sorted order.
func (c Catalog) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Lookup returns the courses for keys, failing on the first unknown key.
func (c Catalog) Lookup(keys []string) ([]Course, error) {
	out := make([]Course, 0, len(keys))
	for _, k := range keys {
		crs, ok := c[k]
		if !ok {
			return nil, fmt.Errorf("unknown course key %q", k)
		}
		out = append(out, crs)
	}
	return out, nil
}

// Majors lists the distinct majors in the catalogue, sorted.
func (c Catalog) Majors() []string {
	seen := make(map[string]bool)
	var majors []string
	for _, crs := range c {
		if crs.Major != "" && !seen[crs.Major] {
			seen[crs.Major] = true
			majors = append(majors, crs.Major)
		}
	}
	sort.Strings(majors)
	return majors
}

var keyReplacer = strings.NewReplacer(" ", "_", "-", "_", ".", "_")

// GenerateKey derives a unique catalogue key for c. The course code is used
// when it is free; otherwise name and instructor, then numeric suffixes.
func GenerateKey(c Course, existing map[string]bool) string {
	base := keyReplacer.Replace(strings.TrimSpace(c.Code))
	if base == "" || existing[base] {
		name := c.Name
		if name == "" {
			name = "unknown"
		}
		instructor := c.Instructor
		if instructor == "" {
			instructor = "unknown"
		}
		base = keyReplacer.Replace(name + "_" + instructor)
	}
	key := base
	for i := 1; existing[key]; i++ {
		key = fmt.Sprintf("%s_%d", base, i)
	}
	return key
}

// GroupCode strips the section suffix from a course code ("1214021_01" -> "1214021").
func GroupCode(code string) string {
	return strings.SplitN(code, "_", 2)[0]
}
