package exporter

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"golestoon/pkg/course"
)

func TestGenerateICS(t *testing.T) {
	courses := []course.Course{
		{
			Code:       "1214032_01",
			Name:       "Data Structures",
			Credits:    3,
			Instructor: "Rezaei",
			Schedule: []course.Session{
				{Day: course.Sunday, Start: "08:00", End: "10:00", Location: "Room 12"},
				{Day: course.Tuesday, Start: "10:00", End: "12:00", Parity: course.EvenWeeks},
			},
			Location: "Building A",
		},
	}

	// Saturday 2026-02-07
	start := time.Date(2026, time.February, 7, 0, 0, 0, 0, time.UTC)

	var buf bytes.Buffer
	if err := GenerateICS(courses, start, 16, &buf); err != nil {
		t.Fatalf("GenerateICS failed: %v", err)
	}
	output := buf.String()

	if !strings.Contains(output, "SUMMARY:Data Structures") {
		t.Errorf("Expected ICS to contain course summary, got: \n%s", output)
	}
	if !strings.Contains(output, "LOCATION:Room 12") || !strings.Contains(output, "LOCATION:Building A") {
		t.Errorf("Expected session and fallback locations, got: \n%s", output)
	}

	// Sunday 8 Feb 08:00 Tehran time is 04:30 UTC.
	if !strings.Contains(output, "DTSTART:20260208T043000Z") {
		t.Errorf("Expected weekly session start (UTC), got: \n%s", output)
	}
	if !strings.Contains(output, "RRULE:FREQ=WEEKLY;INTERVAL=1;COUNT=16") {
		t.Errorf("Expected weekly recurrence, got: \n%s", output)
	}

	// Even-week session starts in week two: Tuesday 17 Feb 10:00 = 06:30 UTC.
	if !strings.Contains(output, "DTSTART:20260217T063000Z") {
		t.Errorf("Expected even-week session to start in the second week, got: \n%s", output)
	}
	if !strings.Contains(output, "RRULE:FREQ=WEEKLY;INTERVAL=2;COUNT=8") {
		t.Errorf("Expected fortnightly recurrence, got: \n%s", output)
	}
}

func TestGenerateICSSkipsBadSessions(t *testing.T) {
	courses := []course.Course{{
		Code: "x", Name: "Broken",
		Schedule: []course.Session{{Day: course.Monday, Start: "10:00", End: "09:00"}},
	}}
	var buf bytes.Buffer
	if err := GenerateICS(courses, time.Now(), 0, &buf); err != nil {
		t.Fatalf("GenerateICS failed: %v", err)
	}
	if strings.Contains(buf.String(), "BEGIN:VEVENT") {
		t.Error("malformed session should not produce an event")
	}
}

func TestMeetings(t *testing.T) {
	tests := []struct {
		parity course.Parity
		weeks  int
		want   int
	}{
		{course.EveryWeek, 16, 16},
		{course.OddWeeks, 15, 8},
		{course.EvenWeeks, 15, 7},
	}
	for _, tt := range tests {
		if got := meetings(course.Session{Parity: tt.parity}, tt.weeks); got != tt.want {
			t.Errorf("meetings(%q, %d) = %d, want %d", tt.parity, tt.weeks, got, tt.want)
		}
	}
}
