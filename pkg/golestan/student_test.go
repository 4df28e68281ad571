package golestan

import (
	"testing"
)

const profileScript = `<script id="clientEventHandlersJS" type="text/javascript">
F51851 = 'محمدی علی';
F34501 = 'حسن';
F61151 = 'فنی و مهندسی';
F16451 = 'کامپیوتر';
F17551 = 'مهندسی نرم افزار';
F41301 = 'کارشناسی';
F41351 = 'روزانه';
F43301 = 'عادی';
F42251 = 'دارد';
F41701 = '17.25';
F41801 = '64.00';
F42401 = '1';
F42451 = '';
F42371 = '0';
</script>
<script>T01XML = '<Root><N F4350="4021"/><N F4350="4022"/><N F4350=""/></Root>';</script>`

const semesterPage = `<script>
F43501 = '4021';
F57551 = 'نيمسال اول 1402';
F44551 = 'عادی';
F43551 = 'عادی';
F44151 = '';
F4385 = '2';
F4375 = '0';
T01XML = '<Root><N F4360="16.50" F4365="20" F4370="18"/><N F4360="16.10" F4370="40"/></Root>';
T02XML = '<Root><N F5560="1214032" F5565="01" F0200="ساختمان داده" F0205="3" F3952="اصلی" F3965="قطعی" F3945="18"/><N F5560="1214040" F5565="02" F0200="شبکه" F0205="2" F3952="اصلی" F3965="" F3945=""/></Root>';
</script>`

const semesterUngraded = `<script>
F43501 = '4022';
T01XML = '<Root><N F4360="" F4365="6" F4370="4"/></Root>';
T02XML = '<Root><N F5560="1" F5565="1" F0205="2" F3945="15"/><N F5560="2" F5565="1" F0205="2" F3945="16"/><N F5560="3" F5565="1" F0205="2" F3945=""/></Root>';
</script>`

func TestParseStudentInfo(t *testing.T) {
	s, err := ParseStudentInfo([]byte(formPage("", profileScript)))
	if err != nil {
		t.Fatalf("ParseStudentInfo: %v", err)
	}
	if s.Name != "محمدی علی" || s.FatherName != "حسن" || s.Major != "مهندسی نرم افزار" {
		t.Errorf("unexpected names: %+v", s)
	}
	if !s.RegistrationPermission {
		t.Error("expected registration permission")
	}
	if s.OverallGPA != 17.25 || s.TotalUnitsPassed != 64 || s.TotalProbation != 1 || s.ConsecutiveProbation != 0 {
		t.Errorf("unexpected numbers: %+v", s)
	}
}

func TestParseStudentInfoMissingScript(t *testing.T) {
	if _, err := ParseStudentInfo([]byte(formPage("", ""))); err == nil {
		t.Error("expected an error when the profile script is missing")
	}
}

func TestSemesterIDs(t *testing.T) {
	ids := semesterIDs([]byte(profileScript))
	if len(ids) != 2 || ids[0] != "4021" || ids[1] != "4022" {
		t.Errorf("semesterIDs = %v", ids)
	}
	if ids := semesterIDs([]byte("<html></html>")); ids != nil {
		t.Errorf("expected no ids, got %v", ids)
	}
}

func TestParseSemester(t *testing.T) {
	sem := ParseSemester([]byte(semesterPage))
	if sem.ID != 4021 || sem.Description != "نيمسال اول 1402" {
		t.Errorf("unexpected header: %+v", sem)
	}
	if sem.GPA != 16.5 || sem.UnitsTaken != 20 || sem.UnitsPassed != 18 || sem.UnitsFailed != 2 {
		t.Errorf("unexpected summary: %+v", sem)
	}
	if sem.CumulativeGPA != 16.1 || sem.CumulativeUnitsPassed != 40 {
		t.Errorf("unexpected cumulative row: %+v", sem)
	}
	if len(sem.Courses) != 2 {
		t.Fatalf("expected 2 courses, got %d", len(sem.Courses))
	}
	if sem.Courses[0].Code != "1214032_01" || sem.Courses[0].Grade == nil || *sem.Courses[0].Grade != 18 {
		t.Errorf("unexpected first course %+v", sem.Courses[0])
	}
	if sem.Courses[1].Grade != nil {
		t.Errorf("ungraded course should have a nil grade")
	}
}

func TestParseSemesterRecomputesGPA(t *testing.T) {
	sem := ParseSemester([]byte(semesterUngraded))
	if sem.GPA != 15.5 {
		t.Errorf("expected recomputed GPA 15.5, got %v", sem.GPA)
	}
}

func TestComputeGPA(t *testing.T) {
	g := func(v float64) *float64 { return &v }
	tests := []struct {
		name    string
		courses []Enrollment
		want    float64
	}{
		{"empty", nil, 0},
		{"ungraded only", []Enrollment{{Units: 3}}, 0},
		{"weighted", []Enrollment{{Units: 3, Grade: g(20)}, {Units: 1, Grade: g(10)}}, 17.5},
		{"rounded", []Enrollment{{Units: 1, Grade: g(17)}, {Units: 2, Grade: g(18)}}, 17.67},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeGPA(tt.courses); got != tt.want {
				t.Errorf("ComputeGPA = %v, want %v", got, tt.want)
			}
		})
	}
}
