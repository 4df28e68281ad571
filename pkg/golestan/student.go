package golestan

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/antchfx/htmlquery"
)

// Student is the comprehensive profile shown on the portal's student page.
type Student struct {
	ID                     string     `json:"student_id"`
	Name                   string     `json:"name"`
	FatherName             string     `json:"father_name"`
	Faculty                string     `json:"faculty"`
	Department             string     `json:"department"`
	Major                  string     `json:"major"`
	DegreeLevel            string     `json:"degree_level"`
	StudyType              string     `json:"study_type"`
	EnrollmentStatus       string     `json:"enrollment_status"`
	RegistrationPermission bool       `json:"registration_permission"`
	OverallGPA             float64    `json:"overall_gpa"`
	TotalUnitsPassed       float64    `json:"total_units_passed"`
	TotalProbation         int        `json:"total_probation"`
	ConsecutiveProbation   int        `json:"consecutive_probation"`
	SpecialProbation       int        `json:"special_probation"`
	Semesters              []Semester `json:"semesters"`
	UpdatedAt              time.Time  `json:"updated_at"`
}

// Semester is one term of the transcript.
type Semester struct {
	ID                    int          `json:"semester_id"`
	Description           string       `json:"semester_description"`
	GPA                   float64      `json:"semester_gpa"`
	UnitsTaken            float64      `json:"units_taken"`
	UnitsPassed           float64      `json:"units_passed"`
	UnitsFailed           float64      `json:"units_failed"`
	UnitsDropped          float64      `json:"units_dropped"`
	CumulativeGPA         float64      `json:"cumulative_gpa"`
	CumulativeUnitsPassed float64      `json:"cumulative_units_passed"`
	ProbationStatus       string       `json:"probation_status"`
	Status                string       `json:"semester_status"`
	Type                  string       `json:"semester_type"`
	Courses               []Enrollment `json:"courses"`
}

// Enrollment is one course taken in a semester. Grade is nil until graded.
type Enrollment struct {
	Code       string   `json:"course_code"`
	Name       string   `json:"course_name"`
	Units      float64  `json:"course_units"`
	Type       string   `json:"course_type"`
	GradeState string   `json:"grade_state"`
	Grade      *float64 `json:"grade,omitempty"`
}

const (
	studentPath = "/Forms/F1802_PROCESS_MNG_STDJAMEHMON/F1802_01_PROCESS_MNG_STDJAMEHMON_Dat.aspx?r=%s&fid=0%s12310&b=10&l=1&tck=%s&&lastm=20250906103728"
	registered  = "دارد"
)

// FetchStudentRecord downloads the profile and every semester of the transcript.
func (c *Client) FetchStudentRecord(ctx context.Context) (*Student, error) {
	if !c.LoggedIn() {
		return nil, ErrNotLoggedIn
	}

	rnd := random()
	page, err := c.get(ctx, fmt.Sprintf(studentPath, rnd, ";", c.session.tck))
	if err != nil {
		return nil, fmt.Errorf("failed to open student page: %w", err)
	}
	st, err := parseFormState(page)
	if err != nil {
		return nil, fmt.Errorf("failed to read student page: %w", err)
	}

	c.setCookies("ASP.NET_SessionId", c.session.id, "f", "12310", "ft", "0", "lt", c.session.lt,
		"seq", c.nextSeq(), "sno", "", "stdno", "", "su", "3", "u", c.session.u)
	postPath := fmt.Sprintf(studentPath, rnd, "%3b", c.session.tck)
	submit := func(action, middleXML string) ([]byte, error) {
		page, err := c.post(ctx, postPath, st.form(action, map[string]string{
			"TicketTextBox": st.Ticket,
			"XMLStdHlp":     "",
			"TxtMiddle":     middleXML,
			"ex":            "",
		}))
		if err != nil {
			return nil, err
		}
		next, err := parseFormState(page)
		if err != nil {
			return nil, fmt.Errorf("failed to read student page: %w", err)
		}
		st = next
		return page, nil
	}

	if _, err := submit("00", "<r/>"); err != nil {
		return nil, err
	}
	page, err = submit("08", middle("F41251", c.username, "F01951", "", "F02001", ""))
	if err != nil {
		return nil, err
	}
	student, err := ParseStudentInfo(page)
	if err != nil {
		return nil, err
	}
	student.ID = c.username

	for _, id := range semesterIDs(page) {
		page, err := submit("80", middle("F41251", c.username, "F01951", "", "F02001", "", "F43501", id))
		if err != nil {
			return nil, fmt.Errorf("semester %s: %w", id, err)
		}
		sem := ParseSemester(page)
		c.log.Debug().Str("semester", id).Int("courses", len(sem.Courses)).Msg("fetched semester")
		student.Semesters = append(student.Semesters, sem)
	}
	return student, nil
}

// jsVar finds NAME = '...'; assignments in inline scripts.
func jsVar(src, name string) string {
	re := regexp.MustCompile(regexp.QuoteMeta(name) + `\s*=\s*'([^']*)';`)
	if m := re.FindStringSubmatch(src); m != nil {
		return m[1]
	}
	return ""
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

func parseInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// ParseStudentInfo reads the profile variables from the page's
// clientEventHandlersJS script.
func ParseStudentInfo(page []byte) (*Student, error) {
	doc, err := htmlquery.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("failed to parse student page: %w", err)
	}
	node := htmlquery.FindOne(doc, "//script[@id='clientEventHandlersJS']")
	if node == nil {
		return nil, fmt.Errorf("student page has no profile script")
	}
	src := htmlquery.InnerText(node)

	return &Student{
		Name:                   jsVar(src, "F51851"),
		FatherName:             jsVar(src, "F34501"),
		Faculty:                jsVar(src, "F61151"),
		Department:             jsVar(src, "F16451"),
		Major:                  jsVar(src, "F17551"),
		DegreeLevel:            jsVar(src, "F41301"),
		StudyType:              jsVar(src, "F41351"),
		EnrollmentStatus:       jsVar(src, "F43301"),
		RegistrationPermission: jsVar(src, "F42251") == registered,
		OverallGPA:             parseFloat(jsVar(src, "F41701")),
		TotalUnitsPassed:       parseFloat(jsVar(src, "F41801")),
		TotalProbation:         parseInt(jsVar(src, "F42401")),
		ConsecutiveProbation:   parseInt(jsVar(src, "F42451")),
		SpecialProbation:       parseInt(jsVar(src, "F42371")),
		UpdatedAt:              time.Now(),
	}, nil
}

type nodeList struct {
	Nodes []struct {
		Attrs []xml.Attr `xml:",any,attr"`
	} `xml:"N"`
}

func (l nodeList) attr(i int, name string) string {
	for _, a := range l.Nodes[i].Attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// embeddedXML decodes the XML assigned to a script variable such as T01XML.
func embeddedXML(page, name string) (nodeList, bool) {
	var l nodeList
	raw := jsVar(page, name)
	if raw == "" {
		return l, false
	}
	if err := xml.Unmarshal([]byte(raw), &l); err != nil {
		return l, false
	}
	return l, true
}

func semesterIDs(page []byte) []string {
	l, ok := embeddedXML(string(page), "T01XML")
	if !ok {
		return nil
	}
	var ids []string
	for i := range l.Nodes {
		if id := l.attr(i, "F4350"); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// ParseSemester reads a semester page: the summary rows of T01XML and the
// course rows of T02XML.
func ParseSemester(page []byte) Semester {
	src := string(page)
	sem := Semester{
		ID:              parseInt(jsVar(src, "F43501")),
		Description:     jsVar(src, "F57551"),
		Status:          jsVar(src, "F44551"),
		Type:            jsVar(src, "F43551"),
		ProbationStatus: jsVar(src, "F44151"),
	}

	if l, ok := embeddedXML(src, "T01XML"); ok {
		if len(l.Nodes) >= 1 {
			sem.GPA = parseFloat(l.attr(0, "F4360"))
			sem.UnitsTaken = parseFloat(l.attr(0, "F4365"))
			sem.UnitsPassed = parseFloat(l.attr(0, "F4370"))
			sem.UnitsFailed = parseFloat(jsVar(src, "F4385"))
			sem.UnitsDropped = parseFloat(jsVar(src, "F4375"))
		}
		if len(l.Nodes) >= 2 {
			sem.CumulativeGPA = parseFloat(l.attr(1, "F4360"))
			sem.CumulativeUnitsPassed = parseFloat(l.attr(1, "F4370"))
		}
	}

	if l, ok := embeddedXML(src, "T02XML"); ok {
		for i := range l.Nodes {
			e := Enrollment{
				Code:       l.attr(i, "F5560") + "_" + l.attr(i, "F5565"),
				Name:       l.attr(i, "F0200"),
				Units:      parseFloat(l.attr(i, "F0205")),
				Type:       l.attr(i, "F3952"),
				GradeState: l.attr(i, "F3965"),
			}
			if g := strings.TrimSpace(l.attr(i, "F3945")); g != "" {
				v := parseFloat(g)
				e.Grade = &v
			}
			sem.Courses = append(sem.Courses, e)
		}
	}

	if sem.GPA == 0 {
		sem.GPA = ComputeGPA(sem.Courses)
	}
	return sem
}

// ComputeGPA is the unit-weighted mean of graded courses, rounded to two decimals.
func ComputeGPA(courses []Enrollment) float64 {
	var points, units float64
	for _, e := range courses {
		if e.Grade == nil {
			continue
		}
		units += e.Units
		points += *e.Grade * e.Units
	}
	if units == 0 {
		return 0
	}
	return math.Round(points/units*100) / 100
}
