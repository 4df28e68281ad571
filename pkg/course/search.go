package course

import (
	"sort"
	"strings"
)

// GeneralCourses are university-wide general education subjects that
// students of every major can take.
var GeneralCourses = []string{
	"اندیشه اسلامی 1",
	"اندیشه اسلامی 2",
	"انسان در اسلام",
	"آیین زندگی",
	"اخلاق اسلامی مبانی و مفاهیم",
	"اخلاق خانواده",
	"عرفان عملی در اسلام",
	"انقلاب اسلامی ایران",
	"تاریخ اسلام",
	"تاریخ فرهنگ و تمدن اسلام",
	"تاریخ فرهنگ و تمدن اسلام و ایران",
	"تاریخ تحلیلی صدر اسلام",
	"تاریخ امامت",
	"تفسیر موضوعی قرآن",
	"تفسیر موضوعی نهج البلاغه",
	"حقوق اجتماعی و سیاسی در اسلام",
	"دانش خانواده و جمعیت",
	"زبان عمومی",
	"زبان خارجی",
	"شناخت محیط زیست",
	"فارسی عمومی",
	"فلسفه اخلاق",
	"کارآفرینی",
	"مبدا و معاد",
	"نبوت و امامت",
	"ورزش",
	"تربیت بدنی",
}

// IsGeneralCourse reports whether name matches one of GeneralCourses.
func IsGeneralCourse(name string) bool {
	folded := foldForMatch(name)
	if folded == "" {
		return false
	}
	for _, g := range GeneralCourses {
		if strings.Contains(folded, foldForMatch(g)) {
			return true
		}
	}
	return false
}

// Gender restriction values used by the portal.
const (
	GenderMale   = "مرد"
	GenderFemale = "زن"
	GenderMixed  = "مختلط"
)

var genderAliases = map[string]string{
	"آقا":    GenderMale,
	"مرد":    GenderMale,
	"male":   GenderMale,
	"خانم":   GenderFemale,
	"زن":     GenderFemale,
	"female": GenderFemale,
	"مختلط":  GenderMixed,
	"mixed":  GenderMixed,
}

// NormalizeGender maps the portal and English spellings onto the three canonical values.
func NormalizeGender(g string) string {
	g = NormalizePersian(strings.ToLower(strings.TrimSpace(g)))
	if v, ok := genderAliases[g]; ok {
		return v
	}
	return g
}

// Filter narrows a catalogue search. Zero values disable a criterion.
type Filter struct {
	Major           string
	FromHour        *int
	ToHour          *int
	GeneralOnly     bool
	Gender          string
	AvailableOnly   bool
	UnavailableOnly bool
	Day             *Day
	CustomOnly      bool
}

// Match reports whether c satisfies every enabled criterion.
func (f Filter) Match(c Course) bool {
	if f.Major != "" && strings.TrimSpace(c.Major) != strings.TrimSpace(f.Major) {
		return false
	}
	if f.AvailableOnly && !c.IsAvailable {
		return false
	}
	if f.UnavailableOnly && c.IsAvailable {
		return false
	}
	if f.CustomOnly && !c.Custom {
		return false
	}
	if from, to, ok := f.Hours(); ok && !matchesHours(c, from, to) {
		return false
	}
	if f.GeneralOnly && !IsGeneralCourse(c.Name) {
		return false
	}
	if f.Gender != "" {
		g := NormalizeGender(c.GenderRestriction)
		if g == "" {
			g = GenderMixed
		}
		if g != NormalizeGender(f.Gender) {
			return false
		}
	}
	if f.Day != nil {
		found := false
		for _, s := range c.Schedule {
			if s.Day == *f.Day {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Earliest and latest hours of the time window when only one bound is given.
const (
	FirstHour = 7
	LastHour  = 19
)

// Hours returns the time window of f. A missing bound falls back to
// FirstHour or LastHour and reversed bounds are swapped. ok is false when
// neither bound is set.
func (f Filter) Hours() (from, to int, ok bool) {
	if f.FromHour == nil && f.ToHour == nil {
		return 0, 0, false
	}
	from, to = FirstHour, LastHour
	if f.FromHour != nil {
		from = *f.FromHour
	}
	if f.ToHour != nil {
		to = *f.ToHour
	}
	if from > to {
		from, to = to, from
	}
	return from, to, true
}

// matchesHours is true when any session touches the [from, to] hour window.
func matchesHours(c Course, from, to int) bool {
	for _, s := range c.Schedule {
		start, end, err := s.Minutes()
		if err != nil {
			continue
		}
		if start/60 <= to && end/60 >= from {
			return true
		}
	}
	return false
}

// matchesTerms requires every term to appear in the name, code or instructor.
func matchesTerms(c Course, terms []string) bool {
	name := foldForMatch(c.Name)
	code := strings.ToLower(c.Code)
	instructor := foldForMatch(c.Instructor)
	for _, t := range terms {
		if !strings.Contains(name, t) && !strings.Contains(code, t) && !strings.Contains(instructor, t) {
			return false
		}
	}
	return true
}

// Result is a search hit.
type Result struct {
	Key    string
	Course Course
}

// Search returns the courses matching query and filter, ordered by key.
func (c Catalog) Search(query string, f Filter) []Result {
	terms := strings.Fields(foldForMatch(query))
	var out []Result
	for k, crs := range c {
		if !f.Match(crs) {
			continue
		}
		if len(terms) > 0 && !matchesTerms(crs, terms) {
			continue
		}
		out = append(out, Result{Key: k, Course: crs})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
