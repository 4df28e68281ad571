package store

import (
	"errors"
	"slices"
	"testing"

	"golestoon/pkg/course"
)

func editCatalog() course.Catalog {
	return course.Catalog{
		"A": {Code: "A", Name: "A", Schedule: []course.Session{{Day: course.Saturday, Start: "08:00", End: "10:00"}}},
		"B": {Code: "B", Name: "B", Schedule: []course.Session{{Day: course.Saturday, Start: "11:00", End: "12:00"}}},
	}
}

func TestSaveCombination(t *testing.T) {
	d := NewUserData()
	catalog := editCatalog()

	combo, err := d.SaveCombination("plan one", []string{"A", "B"}, catalog, false)
	if err != nil {
		t.Fatalf("SaveCombination failed: %v", err)
	}
	if combo.ID == "" || combo.Days != 1 || combo.Idle != 1 {
		t.Errorf("unexpected combination %+v", combo)
	}

	if _, err := d.SaveCombination("plan one", []string{"A"}, catalog, false); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("expected ErrDuplicateName, got %v", err)
	}
	replaced, err := d.SaveCombination("plan one", []string{"A"}, catalog, true)
	if err != nil {
		t.Fatal(err)
	}
	if replaced.ID != combo.ID || len(d.SavedCombos) != 1 {
		t.Errorf("replace should keep the ID and count: %+v", d.SavedCombos)
	}
	if _, err := d.SaveCombination("bad", []string{"missing"}, catalog, false); err == nil {
		t.Error("expected error for unknown key")
	}

	if found, err := d.FindCombination(combo.ID[:8]); err != nil || found.Name != "plan one" {
		t.Errorf("lookup by ID prefix failed: %v", err)
	}
	if _, err := d.DeleteCombination("plan one"); err != nil {
		t.Fatal(err)
	}
	if _, err := d.FindCombination("plan one"); !errors.Is(err, ErrComboNotFound) {
		t.Errorf("expected ErrComboNotFound, got %v", err)
	}
}

func TestCustomCourses(t *testing.T) {
	d := NewUserData()
	catalog := editCatalog()

	c := course.Course{Code: "A", Name: "Reading group", Credits: 1,
		Schedule: []course.Session{{Day: course.Monday, Start: "16:00", End: "17:00"}}}
	key, err := d.AddCustomCourse(c, catalog)
	if err != nil {
		t.Fatalf("AddCustomCourse failed: %v", err)
	}
	if key == "A" {
		t.Error("custom key must not shadow a catalogue key")
	}
	if !d.CustomCourses[key].Custom || d.CustomCourses[key].Instructor != course.DefaultInstructor {
		t.Errorf("unexpected stored course %+v", d.CustomCourses[key])
	}

	bad := c
	bad.Schedule = []course.Session{{Day: course.Monday, Start: "17:00", End: "16:00"}}
	if _, err := d.AddCustomCourse(bad, catalog); err == nil {
		t.Error("expected validation error")
	}

	if err := d.UpdateCustomCourse("A", c); !errors.Is(err, ErrNotCustom) {
		t.Errorf("expected ErrNotCustom for portal course, got %v", err)
	}
	c.Credits = 2
	if err := d.UpdateCustomCourse(key, c); err != nil || d.CustomCourses[key].Credits != 2 {
		t.Errorf("update failed: %v", err)
	}

	d.CurrentSchedule = []string{"A", key}
	d.PriorityList = []string{key}
	d.SavedCombos = []Combination{{ID: "x", Name: "n", Courses: []string{key, "B"}}}
	if err := d.RemoveCustomCourse(key); err != nil {
		t.Fatal(err)
	}
	if slices.Contains(d.CurrentSchedule, key) || len(d.PriorityList) != 0 || slices.Contains(d.SavedCombos[0].Courses, key) {
		t.Errorf("references not removed: %+v", d)
	}
}
