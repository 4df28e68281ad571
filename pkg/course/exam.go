package course

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var examPattern = regexp.MustCompile(`(\d{4}/\d{1,2}/\d{1,2}).*?(\d{1,2}:\d{2})\s*-\s*(\d{1,2}:\d{2})`)

// ExamSlot is a parsed final exam date and time. Dates are Solar Hijri
// "YYYY/MM/DD" strings as printed by the portal.
type ExamSlot struct {
	Date  string
	Start int
	End   int
}

// String renders the slot in the stored form "YYYY/MM/DD - HH:MM-HH:MM".
func (e ExamSlot) String() string {
	return fmt.Sprintf("%s - %s-%s", e.Date, FormatClock(e.Start), FormatClock(e.End))
}

// SortKey orders slots chronologically as plain strings.
func (e ExamSlot) SortKey() string {
	return normalizeDate(e.Date) + " " + FormatClock(e.Start)
}

var persianMonths = [...]string{
	"فروردین", "اردیبهشت", "خرداد", "تیر", "مرداد", "شهریور",
	"مهر", "آبان", "آذر", "دی", "بهمن", "اسفند",
}

// Pretty renders the slot with the Persian month name, e.g. "1404 دی 15, 08:00 - 10:00".
func (e ExamSlot) Pretty() string {
	parts := strings.Split(normalizeDate(e.Date), "/")
	date := e.Date
	if len(parts) == 3 {
		var m int
		if _, err := fmt.Sscanf(parts[1], "%d", &m); err == nil && m >= 1 && m <= 12 {
			date = fmt.Sprintf("%s %s %s", parts[0], persianMonths[m-1], parts[2])
		}
	}
	return fmt.Sprintf("%s, %s - %s", date, FormatClock(e.Start), FormatClock(e.End))
}

// normalizeDate pads month and day to two digits so string order is date order.
func normalizeDate(d string) string {
	parts := strings.Split(d, "/")
	if len(parts) != 3 {
		return d
	}
	for i := 1; i < 3; i++ {
		if len(parts[i]) == 1 {
			parts[i] = "0" + parts[i]
		}
	}
	return strings.Join(parts, "/")
}

// ParseExamTime extracts the exam slot from portal or stored text. It
// returns ok=false for empty or unannounced exams.
func ParseExamTime(s string) (ExamSlot, bool) {
	m := examPattern.FindStringSubmatch(s)
	if m == nil {
		return ExamSlot{}, false
	}
	start, err := ParseClock(m[2])
	if err != nil {
		return ExamSlot{}, false
	}
	end, err := ParseClock(m[3])
	if err != nil || end <= start {
		return ExamSlot{}, false
	}
	return ExamSlot{Date: normalizeDate(m[1]), Start: start, End: end}, true
}

// ExamConflict is a pair of courses with overlapping final exams.
type ExamConflict struct {
	A, B string
	Slot ExamSlot
}

// ExamConflicts finds courses among keys whose exams fall on the same date
// with overlapping times.
func ExamConflicts(keys []string, catalog Catalog) []ExamConflict {
	type placed struct {
		key  string
		slot ExamSlot
	}
	var slots []placed
	for _, k := range keys {
		c, ok := catalog[k]
		if !ok {
			continue
		}
		if slot, ok := ParseExamTime(c.ExamTime); ok {
			slots = append(slots, placed{k, slot})
		}
	}
	sort.SliceStable(slots, func(i, j int) bool { return slots[i].slot.SortKey() < slots[j].slot.SortKey() })

	var out []ExamConflict
	for i := 0; i < len(slots); i++ {
		for j := i + 1; j < len(slots); j++ {
			a, b := slots[i].slot, slots[j].slot
			if a.Date != b.Date {
				break
			}
			if Overlap(a.Start, a.End, b.Start, b.End) {
				out = append(out, ExamConflict{A: slots[i].key, B: slots[j].key, Slot: a})
			}
		}
	}
	return out
}
