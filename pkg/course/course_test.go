package course

import (
	"strings"
	"testing"
)

func TestGenerateKey(t *testing.T) {
	existing := map[string]bool{}

	c := Course{Code: "12-14.021 01", Name: "Data Structures", Instructor: "Rezaei"}
	k1 := GenerateKey(c, existing)
	if k1 != "12_14_021_01" {
		t.Errorf("first key = %q", k1)
	}
	existing[k1] = true

	k2 := GenerateKey(c, existing)
	if k2 != "Data_Structures_Rezaei" {
		t.Errorf("second key = %q", k2)
	}
	existing[k2] = true

	k3 := GenerateKey(c, existing)
	if k3 != "Data_Structures_Rezaei_1" {
		t.Errorf("third key = %q", k3)
	}

	anon := GenerateKey(Course{}, existing)
	if anon != "unknown_unknown" {
		t.Errorf("anonymous key = %q", anon)
	}
}

func TestCatalogHelpers(t *testing.T) {
	catalog := searchCatalog()
	if got := catalog.Majors(); len(got) != 2 || got[0] != "کامپیوتر" && got[1] != "کامپیوتر" {
		t.Errorf("Majors() = %v", got)
	}
	if _, err := catalog.Lookup([]string{"1214021_01", "nope"}); err == nil || !strings.Contains(err.Error(), "nope") {
		t.Errorf("expected unknown key error, got %v", err)
	}
	if GroupCode("1214021_01") != "1214021" {
		t.Errorf("GroupCode did not strip the section")
	}
}

func TestValidate(t *testing.T) {
	good := Course{
		Code: "X1", Name: "Test", Credits: 3,
		Schedule: []Session{{Day: Sunday, Start: "08:00", End: "10:00", Parity: EvenWeeks}},
	}
	if err := Validate(good); err != nil {
		t.Fatalf("valid course rejected: %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(c *Course)
		message string
	}{
		{"missing name", func(c *Course) { c.Name = "" }, "name is required"},
		{"bad clock", func(c *Course) { c.Schedule[0].Start = "8am" }, "not HH:MM"},
		{"end before start", func(c *Course) { c.Schedule[0].End = "07:00" }, "later than start"},
		{"bad parity", func(c *Course) { c.Schedule[0].Parity = "weird" }, "even, odd or empty"},
		{"credits", func(c *Course) { c.Credits = 99 }, "credits is out of range"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := good
			c.Schedule = append([]Session(nil), good.Schedule...)
			tt.mutate(&c)
			err := Validate(c)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.message) {
				t.Errorf("error %q does not mention %q", err, tt.message)
			}
		})
	}
}
