package exporter

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"golestoon/pkg/course"
)

func examCatalog() course.Catalog {
	return course.Catalog{
		"late": {
			Code: "2", Name: "شبکه", Credits: 2, Instructor: "دکتر الف",
			ExamTime: "1404/10/20 - 14:00-16:00",
			Schedule: []course.Session{{Day: course.Monday, Start: "10:00", End: "12:00", Parity: course.OddWeeks}},
		},
		"early": {
			Code: "1", Name: "ساختمان داده", Credits: 3, Instructor: "دکتر ب", Location: "کلاس 5",
			ExamTime: "1404/10/05 - 08:00-10:00",
			Schedule: []course.Session{{Day: course.Saturday, Start: "08:00", End: "10:00"}},
		},
		"none": {Code: "3", Name: "ورزش", Credits: 1},
	}
}

var generated = time.Date(2025, 10, 1, 9, 30, 0, 0, time.UTC)

func TestBuildExamReportOrder(t *testing.T) {
	rep := BuildExamReport([]string{"none", "late", "early", "missing"}, examCatalog(), generated)
	if len(rep.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rep.Rows))
	}
	order := []string{rep.Rows[0].Code, rep.Rows[1].Code, rep.Rows[2].Code}
	if strings.Join(order, ",") != "1,2,3" {
		t.Errorf("rows should be sorted by exam with unannounced last, got %v", order)
	}
	if rep.Rows[2].Exam != Unannounced {
		t.Errorf("expected unannounced marker, got %q", rep.Rows[2].Exam)
	}
	if rep.Rows[0].Exam != "1404 دی 05, 08:00 - 10:00" {
		t.Errorf("unexpected exam text %q", rep.Rows[0].Exam)
	}
	if rep.Stats.Credits != 6 || rep.Stats.Courses != 3 {
		t.Errorf("unexpected stats %+v", rep.Stats)
	}
	if len(rep.Days) != 2 || rep.Days[0] != course.Saturday.String() {
		t.Errorf("days should be in week order, got %v", rep.Days)
	}
}

func TestWriteExamCSV(t *testing.T) {
	rep := BuildExamReport([]string{"late", "early"}, examCatalog(), generated)
	var buf bytes.Buffer
	if err := WriteExamCSV(rep, &buf); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\xef\xbb\xbf")) {
		t.Error("CSV should start with a UTF-8 BOM")
	}
	records, err := csv.NewReader(bytes.NewReader(buf.Bytes()[3:])).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 3 || records[0][0] != "نام درس" || records[0][6] != "محل برگزاری" {
		t.Fatalf("unexpected records %v", records)
	}
	if records[1][1] != "1" || records[1][6] != "کلاس 5" || records[1][5] != "3" {
		t.Errorf("unexpected first row %v", records[1])
	}
}

func TestWriteExamHTML(t *testing.T) {
	cat := examCatalog()
	c := cat["early"]
	c.Name = "<script>x</script>"
	cat["early"] = c

	rep := BuildExamReport([]string{"late", "early"}, cat, generated)
	var buf bytes.Buffer
	if err := WriteExamHTML(rep, &buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, `dir="rtl"`) {
		t.Error("page should be right-to-left")
	}
	if strings.Contains(out, "<script>x</script>") {
		t.Error("course names must be escaped")
	}
	if !strings.Contains(out, "2025/10/01 - 09:30") {
		t.Error("generation time missing")
	}
}

func TestWriteExamTXT(t *testing.T) {
	rep := BuildExamReport([]string{"late", "early"}, examCatalog(), generated)
	var buf bytes.Buffer
	if err := WriteExamTXT(rep, &buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"مجموع واحدها: 5", "ساختمان داده", "شبکه", parityLegend[0]} {
		if !strings.Contains(out, want) {
			t.Errorf("text export missing %q:\n%s", want, out)
		}
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"csv": CSV, ".HTML": HTML, "text": TXT, "ics": ICS} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("pdf"); err == nil {
		t.Error("expected an error for pdf")
	}
	if err := WriteExams(ICS, ExamReport{}, &bytes.Buffer{}); err == nil {
		t.Error("ics is not a tabular exam format")
	}
}
