package course

import "testing"

func TestParseExamTime(t *testing.T) {
	tests := []struct {
		in   string
		ok   bool
		want string
	}{
		{"1403/10/15 - 08:00-10:00", true, "1403/10/15 - 08:00-10:00"},
		{"تاریخ: 1403/4/2 ساعت: 13:30-15:30", true, "1403/04/02 - 13:30-15:30"},
		{"", false, ""},
		{"اعلام نشده", false, ""},
		{"1403/10/15 - 10:00-08:00", false, ""},
	}
	for _, tt := range tests {
		slot, ok := ParseExamTime(tt.in)
		if ok != tt.ok {
			t.Errorf("ParseExamTime(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if ok && slot.String() != tt.want {
			t.Errorf("ParseExamTime(%q) = %q, want %q", tt.in, slot.String(), tt.want)
		}
	}
}

func TestExamSlotPretty(t *testing.T) {
	slot, ok := ParseExamTime("1403/10/05 - 08:00-10:00")
	if !ok {
		t.Fatal("expected slot to parse")
	}
	if got := slot.Pretty(); got != "1403 دی 05, 08:00 - 10:00" {
		t.Errorf("Pretty() = %q", got)
	}
}

func TestExamConflicts(t *testing.T) {
	catalog := Catalog{
		"a": {Code: "a", Name: "A", ExamTime: "1403/10/15 - 08:00-10:00"},
		"b": {Code: "b", Name: "B", ExamTime: "1403/10/15 - 09:00-11:00"},
		"c": {Code: "c", Name: "C", ExamTime: "1403/10/15 - 11:00-13:00"},
		"d": {Code: "d", Name: "D", ExamTime: "1403/10/16 - 08:00-10:00"},
		"e": {Code: "e", Name: "E"},
	}
	conflicts := ExamConflicts([]string{"d", "c", "b", "a", "e"}, catalog)
	if len(conflicts) != 1 {
		t.Fatalf("expected 1 exam conflict, got %d: %+v", len(conflicts), conflicts)
	}
	got := conflicts[0]
	if !((got.A == "a" && got.B == "b") || (got.A == "b" && got.B == "a")) {
		t.Errorf("unexpected conflict pair %s/%s", got.A, got.B)
	}
}
