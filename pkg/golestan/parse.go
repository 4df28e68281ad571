package golestan

import (
	"encoding/xml"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golestoon/pkg/course"
)

type reportXML struct {
	Rows []reportRow `xml:"row"`
}

type reportRow struct {
	Attrs []xml.Attr `xml:",any,attr"`
}

func (r reportRow) get(name string) string {
	for _, a := range r.Attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

var (
	tagPattern = regexp.MustCompile(`<[^>]*>`)
	// Sessions separate on these markers: درس(ت) theory, درس(ع) practical.
	entrySplit  = regexp.MustCompile(`درس\([تع]\)\s*:\s*`)
	daySpace    = `[\s\x{200c}\x{00a0}]*`
	dayPattern  = `(?:یک` + daySpace + `شنبه|دو` + daySpace + `شنبه|سه` + daySpace + `شنبه|چهار` + daySpace + `شنبه|پنج` + daySpace + `شنبه|شنبه|جمعه)`
	slotPattern = regexp.MustCompile(`(` + dayPattern + `)[\s\x{200c}\x{00a0}]+(\d{1,2}:\d{2})\s*-\s*(\d{1,2}:\d{2})(?:\s*([فز])(?:[\s،]|$))?`)
	locPattern  = regexp.MustCompile(`مکان\s*:\s*(.+?)(?:،|$)`)
)

const noEffect = "بی اثر"

// ParseCourseReport converts a report 102 payload into offerings grouped by
// faculty (B4) and department (B6).
func ParseCourseReport(payload string) (course.Offerings, error) {
	var doc reportXML
	if err := xml.Unmarshal([]byte(payload), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse course report XML: %w", err)
	}

	out := make(course.Offerings)
	for _, row := range doc.Rows {
		faculty := strings.TrimSpace(course.NormalizePersian(row.get("B4")))
		department := strings.TrimSpace(course.NormalizePersian(row.get("B6")))
		if out[faculty] == nil {
			out[faculty] = make(map[string][]course.Course)
		}
		out[faculty][department] = append(out[faculty][department], parseRow(row))
	}
	return out, nil
}

func parseRow(row reportRow) course.Course {
	instructor := stripBreaks(course.NormalizePersian(row.get("C11")))
	if instructor == "" {
		instructor = course.DefaultInstructor
	}

	c := course.Course{
		Code:                 strings.TrimSpace(row.get("C1")),
		Name:                 strings.TrimSpace(course.NormalizePersian(row.get("C2"))),
		Credits:              parseCredits(row.get("C3")),
		Capacity:             strings.TrimSpace(row.get("C7")),
		GenderRestriction:    strings.TrimSpace(course.NormalizePersian(row.get("C10"))),
		Instructor:           instructor,
		Schedule:             ParseScheduleText(row.get("C12")),
		EnrollmentConditions: enrollmentConditions(row.get("C15"), row.get("C16")),
		Description:          strings.TrimSpace(stripBreaks(course.NormalizePersian(row.get("C25")))),
	}
	if slot, ok := course.ParseExamTime(row.get("C13")); ok {
		c.ExamTime = slot.String()
	}
	c.Location = c.PrimaryLocation()
	return c
}

func stripBreaks(s string) string {
	s = strings.ReplaceAll(s, "<BR>", " ")
	s = strings.ReplaceAll(s, "<br>", " ")
	return strings.TrimSpace(s)
}

func parseCredits(raw string) int {
	s := strings.TrimSpace(tagPattern.ReplaceAllString(raw, ""))
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}

func enrollmentConditions(c15, c16 string) string {
	var s string
	if course.NormalizePersian(strings.TrimSpace(c16)) == noEffect {
		s = strings.TrimRight(c15, "، ")
	} else {
		s = c15 + c16
	}
	return stripBreaks(course.NormalizePersian(s))
}

// ParseScheduleText reads the portal's free-text timetable, e.g.
// "درس(ت): یک شنبه 08:00-10:00 ف مکان: کلاس 12، درس(ع): سه شنبه 10:00-12:00".
func ParseScheduleText(text string) []course.Session {
	text = course.NormalizePersian(text)
	var sessions []course.Session
	for _, entry := range entrySplit.Split(text, -1) {
		entry = strings.TrimSpace(strings.TrimRight(strings.TrimSpace(entry), "،"))
		if entry == "" {
			continue
		}
		matches := slotPattern.FindAllStringSubmatch(entry, -1)
		if len(matches) == 0 {
			continue
		}
		location := ""
		if m := locPattern.FindStringSubmatch(entry); m != nil {
			location = strings.TrimSpace(m[1])
		}
		for _, m := range matches {
			day, err := course.ParseDay(m[1])
			if err != nil {
				continue
			}
			start, err1 := course.ParseClock(m[2])
			end, err2 := course.ParseClock(m[3])
			if err1 != nil || err2 != nil || end <= start {
				continue
			}
			parity, _ := course.ParseParity(m[4])
			sessions = append(sessions, course.Session{
				Day:      day,
				Start:    course.FormatClock(start),
				End:      course.FormatClock(end),
				Parity:   parity,
				Location: location,
			})
		}
	}
	return sessions
}
