package course

import "testing"

func intp(v int) *int { return &v }

func searchCatalog() Catalog {
	return Catalog{
		"1214021_01": {
			Code: "1214021_01", Name: "ساختمان داده", Instructor: "دکتر رضایی", Major: "کامپیوتر",
			IsAvailable: true, GenderRestriction: "مختلط",
			Schedule: []Session{{Day: Saturday, Start: "08:00", End: "10:00"}},
		},
		"1214022_01": {
			Code: "1214022_01", Name: "مدار منطقی", Instructor: "دکتر كريمي", Major: "کامپیوتر",
			GenderRestriction: "آقا",
			Schedule:          []Session{{Day: Monday, Start: "15:00", End: "17:00"}},
		},
		"9000001_01": {
			Code: "9000001_01", Name: "اندیشه اسلامی 1", Instructor: DefaultInstructor, Major: "معارف",
			IsAvailable: true, GenderRestriction: "خانم",
			Schedule:    []Session{{Day: Tuesday, Start: "10:00", End: "12:00"}},
		},
		"custom_1": {
			Code: "custom_1", Name: "Reading group", Custom: true,
			Schedule: []Session{{Day: Wednesday, Start: "18:00", End: "19:00"}},
		},
	}
}

func keysOf(results []Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Key
	}
	return out
}

func TestCatalogSearch(t *testing.T) {
	catalog := searchCatalog()
	monday := Monday

	tests := []struct {
		name   string
		query  string
		filter Filter
		want   []string
	}{
		{"everything", "", Filter{}, []string{"1214021_01", "1214022_01", "9000001_01", "custom_1"}},
		{"by name", "ساختمان", Filter{}, []string{"1214021_01"}},
		{"arabic letters in instructor match", "كريمي", Filter{}, []string{"1214022_01"}},
		{"persian letters match arabic", "کریمی", Filter{}, []string{"1214022_01"}},
		{"by code", "9000001", Filter{}, []string{"9000001_01"}},
		{"major", "", Filter{Major: "کامپیوتر"}, []string{"1214021_01", "1214022_01"}},
		{"available only", "", Filter{AvailableOnly: true}, []string{"1214021_01", "9000001_01"}},
		{"unavailable only", "", Filter{UnavailableOnly: true}, []string{"1214022_01", "custom_1"}},
		{"general only", "", Filter{GeneralOnly: true}, []string{"9000001_01"}},
		{"gender alias", "", Filter{Gender: "مرد"}, []string{"1214022_01"}},
		{"gender female", "", Filter{Gender: "female"}, []string{"9000001_01"}},
		{"afternoon window", "", Filter{FromHour: intp(14), ToHour: intp(20)}, []string{"1214022_01", "custom_1"}},
		{"morning window", "", Filter{FromHour: intp(7), ToHour: intp(9)}, []string{"1214021_01"}},
		{"from hour only", "", Filter{FromHour: intp(15)}, []string{"1214022_01", "custom_1"}},
		{"to hour only", "", Filter{ToHour: intp(9)}, []string{"1214021_01"}},
		{"reversed window", "", Filter{FromHour: intp(16), ToHour: intp(10)}, []string{"1214021_01", "1214022_01", "9000001_01"}},
		{"day", "", Filter{Day: &monday}, []string{"1214022_01"}},
		{"custom only", "", Filter{CustomOnly: true}, []string{"custom_1"}},
		{"no match", "فیزیک", Filter{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := keysOf(catalog.Search(tt.query, tt.filter))
			if len(got) != len(tt.want) {
				t.Fatalf("Search() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Search()[%d] = %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestIsGeneralCourse(t *testing.T) {
	if !IsGeneralCourse("تفسير موضوعي قرآن") {
		t.Error("expected Arabic-lettered name to match a general course")
	}
	if IsGeneralCourse("ریاضی عمومی 1") {
		t.Error("did not expect a major course to be general")
	}
	if IsGeneralCourse("") {
		t.Error("empty name is not a general course")
	}
}

func TestNormalizeGender(t *testing.T) {
	for in, want := range map[string]string{
		"آقا": GenderMale, "Male": GenderMale, "خانم": GenderFemale, "mixed": GenderMixed, "": "",
	} {
		if got := NormalizeGender(in); got != want {
			t.Errorf("NormalizeGender(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFilterHours(t *testing.T) {
	tests := []struct {
		name     string
		f        Filter
		from, to int
		ok       bool
	}{
		{"unset", Filter{}, 0, 0, false},
		{"both", Filter{FromHour: intp(9), ToHour: intp(12)}, 9, 12, true},
		{"from only", Filter{FromHour: intp(15)}, 15, LastHour, true},
		{"to only", Filter{ToHour: intp(10)}, FirstHour, 10, true},
		{"reversed", Filter{FromHour: intp(16), ToHour: intp(10)}, 10, 16, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to, ok := tt.f.Hours()
			if from != tt.from || to != tt.to || ok != tt.ok {
				t.Errorf("Hours() = %d, %d, %v; want %d, %d, %v", from, to, ok, tt.from, tt.to, tt.ok)
			}
		})
	}
}
