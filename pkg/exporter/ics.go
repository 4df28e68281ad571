package exporter

import (
	"fmt"
	"io"
	"time"

	"golestoon/pkg/course"

	ics "github.com/arran4/golang-ical"
)

// DefaultWeeks is the usual length of a Golestan semester.
const DefaultWeeks = 16

var weekdays = map[course.Day]time.Weekday{
	course.Saturday:  time.Saturday,
	course.Sunday:    time.Sunday,
	course.Monday:    time.Monday,
	course.Tuesday:   time.Tuesday,
	course.Wednesday: time.Wednesday,
	course.Thursday:  time.Thursday,
	course.Friday:    time.Friday,
}

// tehran returns Iran Standard Time. Iran has not observed daylight saving
// since 2022, so the fixed zone is used when tzdata is unavailable.
func tehran() *time.Location {
	if loc, err := time.LoadLocation("Asia/Tehran"); err == nil {
		return loc
	}
	return time.FixedZone("IRST", 3*3600+1800)
}

// firstMeeting returns the date of the first session on or after the
// semester start. Week one begins at start; even-week sessions begin in
// week two.
func firstMeeting(start time.Time, s course.Session) time.Time {
	offset := (int(weekdays[s.Day]) - int(start.Weekday()) + 7) % 7
	if s.Parity == course.EvenWeeks {
		offset += 7
	}
	return start.AddDate(0, 0, offset)
}

// meetings counts the occurrences of a session within weeks.
func meetings(s course.Session, weeks int) int {
	switch s.Parity {
	case course.OddWeeks:
		return (weeks + 1) / 2
	case course.EvenWeeks:
		return weeks / 2
	}
	return weeks
}

// GenerateICS creates an ICS calendar with one recurring event per course
// session and writes it to the provided writer. Sessions meeting on even or
// odd weeks only recur every second week.
func GenerateICS(courses []course.Course, semesterStart time.Time, weeks int, w io.Writer) error {
	if weeks <= 0 {
		weeks = DefaultWeeks
	}
	loc := tehran()
	start := time.Date(semesterStart.Year(), semesterStart.Month(), semesterStart.Day(), 0, 0, 0, 0, loc)

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//golestoon//course planner//FA")
	now := time.Now()

	for _, c := range courses {
		for i, s := range c.Schedule {
			from, to, err := s.Minutes()
			if err != nil {
				continue // Skip malformed sessions
			}
			count := meetings(s, weeks)
			if count == 0 {
				continue
			}
			day := firstMeeting(start, s)
			startAt := day.Add(time.Duration(from) * time.Minute)
			endAt := day.Add(time.Duration(to) * time.Minute)

			event := cal.AddEvent(fmt.Sprintf("%s-%d-%s@golestoon", c.Code, i, startAt.Format("20060102T1504")))
			event.SetCreatedTime(now)
			event.SetDtStampTime(now)
			event.SetModifiedAt(now)
			event.SetStartAt(startAt)
			event.SetEndAt(endAt)
			event.SetSummary(c.Name)
			if where := s.Location; where != "" {
				event.SetLocation(where)
			} else {
				event.SetLocation(c.PrimaryLocation())
			}
			interval := 1
			if s.Parity != course.EveryWeek {
				interval = 2
			}
			event.AddProperty(ics.ComponentPropertyRrule, fmt.Sprintf("FREQ=WEEKLY;INTERVAL=%d;COUNT=%d", interval, count))

			description := fmt.Sprintf("Code: %s\nInstructor: %s\nCredits: %d\nWeeks: %s", c.Code, c.Instructor, c.Credits, s.Parity.Label())
			if c.ExamTime != "" {
				description += "\nExam: " + c.ExamTime
			}
			event.SetDescription(description)
		}
	}

	return cal.SerializeTo(w)
}
