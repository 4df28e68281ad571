package exporter

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"golestoon/pkg/course"
	"golestoon/pkg/planner"
)

// Unannounced is shown for courses without an exam date.
const Unannounced = "اعلام نشده"

// Format is an export file type.
type Format string

const (
	CSV  Format = "csv"
	HTML Format = "html"
	TXT  Format = "txt"
	ICS  Format = "ics"
)

// ParseFormat accepts csv, html, txt and ics, with or without a leading dot.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))); f {
	case CSV, HTML, TXT, ICS:
		return f, nil
	case "text":
		return TXT, nil
	case "htm":
		return HTML, nil
	}
	return "", fmt.Errorf("unknown export format %q (want csv, html, txt or ics)", s)
}

// Extension is the file extension for the format, including the dot.
func (f Format) Extension() string { return "." + string(f) }

// ExamRow is one line of the exam timetable.
type ExamRow struct {
	Name       string
	Code       string
	Instructor string
	Classes    []string
	Exam       string
	Credits    int
	Location   string

	slot      course.ExamSlot
	announced bool
}

// ClassTimes joins the class sessions with sep.
func (r ExamRow) ClassTimes(sep string) string {
	if len(r.Classes) == 0 {
		return "نامشخص"
	}
	return strings.Join(r.Classes, sep)
}

// ExamReport is everything the exam exporters print.
type ExamReport struct {
	Rows      []ExamRow
	Stats     planner.Stats
	Days      []string
	Generated time.Time
}

// BuildExamReport collects the exam rows for keys, sorted by exam date and
// time with unannounced exams last.
func BuildExamReport(keys []string, catalog course.Catalog, now time.Time) ExamReport {
	rep := ExamReport{Stats: planner.ComputeStats(keys, catalog), Generated: now}
	days := make(map[course.Day]bool)
	for _, k := range keys {
		c, ok := catalog[k]
		if !ok {
			continue
		}
		row := ExamRow{
			Name:       c.Name,
			Code:       c.Code,
			Instructor: c.Instructor,
			Credits:    c.Credits,
			Location:   c.PrimaryLocation(),
			Exam:       Unannounced,
		}
		for _, s := range c.Schedule {
			row.Classes = append(row.Classes, s.String())
			days[s.Day] = true
		}
		if slot, ok := course.ParseExamTime(c.ExamTime); ok {
			row.slot, row.announced = slot, true
			row.Exam = slot.Pretty()
		}
		rep.Rows = append(rep.Rows, row)
	}
	for _, d := range course.Days {
		if days[d] {
			rep.Days = append(rep.Days, d.String())
		}
	}

	sort.SliceStable(rep.Rows, func(i, j int) bool {
		a, b := rep.Rows[i], rep.Rows[j]
		if a.announced != b.announced {
			return a.announced
		}
		if a.announced && a.slot.SortKey() != b.slot.SortKey() {
			return a.slot.SortKey() < b.slot.SortKey()
		}
		return a.Name < b.Name
	})
	return rep
}

// WriteExams writes the report in one of the tabular formats.
func WriteExams(f Format, rep ExamReport, w io.Writer) error {
	switch f {
	case CSV:
		return WriteExamCSV(rep, w)
	case HTML:
		return WriteExamHTML(rep, w)
	case TXT:
		return WriteExamTXT(rep, w)
	}
	return fmt.Errorf("exam timetable cannot be exported as %s", f)
}
