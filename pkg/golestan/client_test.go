package golestan

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"golestoon/pkg/captcha"
)

const availableXML = `<Root><row B4="فنی" B6="کامپیوتر" C1="1" C2="الف" C3="3" C12="درس(ت): شنبه 08:00-10:00"/></Root>`
const unavailableXML = `<Root><row B4="فنی" B6="کامپیوتر" C1="2" C2="ب" C3="2"/></Root>`

func formPage(ticket string, script string) string {
	return fmt.Sprintf(`<html><body><form>
<input type="hidden" name="__VIEWSTATE" value="vs"/>
<input type="hidden" name="__VIEWSTATEGENERATOR" value="gen"/>
<input type="hidden" name="__EVENTVALIDATION" value="ev"/>
<input type="hidden" name="TicketTextBox" value="%s"/>
</form>%s</body></html>`, ticket, script)
}

// fakePortal mimics the request flow of a Golestan installation.
type fakePortal struct {
	t            *testing.T
	captcha      string
	captchaCalls atomic.Int32
	busy         atomic.Int32
	reportPosts  atomic.Int32
}

func (p *fakePortal) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/_templates/unvarm/unvarm.aspx", func(w http.ResponseWriter, r *http.Request) {
		if p.busy.Load() > 0 {
			p.busy.Add(-1)
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "ASP.NET_SessionId", Value: "sess1", Path: "/"})
		fmt.Fprint(w, "ok")
	})
	mux.HandleFunc("/Forms/AuthenticateUser/AuthUser.aspx", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.PostFormValue("Fm_Action") == "09" {
			mid := r.PostFormValue("TxtMiddle")
			if strings.Contains(mid, `F51701="`+p.captcha+`"`) && strings.Contains(mid, `F80401="p&amp;ss"`) {
				http.SetCookie(w, &http.Cookie{Name: "lt", Value: "LT", Path: "/"})
				http.SetCookie(w, &http.Cookie{Name: "u", Value: "U", Path: "/"})
				fmt.Fprint(w, formPage("T1", ""))
				return
			}
		}
		fmt.Fprint(w, formPage("", ""))
	})
	mux.HandleFunc("/Forms/AuthenticateUser/captcha.aspx", func(w http.ResponseWriter, r *http.Request) {
		n := p.captchaCalls.Add(1)
		fmt.Fprintf(w, "image-%d", n)
	})
	mux.HandleFunc("/Forms/F0213_PROCESS_SYSMENU/F0213_01_PROCESS_SYSMENU_Dat.aspx", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, formPage("MENU", ""))
	})
	mux.HandleFunc("/Forms/F0202_PROCESS_REP_FILTER/F0202_01_PROCESS_REP_FILTER_DAT.ASPX", func(w http.ResponseWriter, r *http.Request) {
		if ck, err := r.Cookie("lt"); err != nil || ck.Value != "LT" {
			p.t.Errorf("report request without lt cookie")
		}
		if r.Method != http.MethodPost || r.PostFormValue("Fm_Action") != "09" {
			http.SetCookie(w, &http.Cookie{Name: "ctck", Value: "C", Path: "/"})
			fmt.Fprint(w, formPage("REP", ""))
			return
		}
		p.reportPosts.Add(1)
		payload := unavailableXML
		if strings.Contains(r.PostFormValue("XmlPubPrm"), `F1="1"`) {
			payload = availableXML
		}
		fmt.Fprint(w, formPage("REP2", "<script>var xmlDat = '"+payload+"';</script>"))
	})
	mux.HandleFunc("/Forms/F1802_PROCESS_MNG_STDJAMEHMON/F1802_01_PROCESS_MNG_STDJAMEHMON_Dat.aspx", func(w http.ResponseWriter, r *http.Request) {
		switch r.PostFormValue("Fm_Action") {
		case "08":
			if !strings.Contains(r.PostFormValue("TxtMiddle"), `F41251="40112345"`) {
				p.t.Errorf("profile request without student number: %s", r.PostFormValue("TxtMiddle"))
			}
			fmt.Fprint(w, formPage("S2", profileScript))
		case "80":
			if strings.Contains(r.PostFormValue("TxtMiddle"), `F43501="4021"`) {
				fmt.Fprint(w, formPage("S3", semesterPage))
				return
			}
			fmt.Fprint(w, formPage("S3", semesterUngraded))
		default:
			fmt.Fprint(w, formPage("S1", ""))
		}
	})
	return http.AllowQuerySemicolons(mux)
}

func newTestClient(t *testing.T, p *fakePortal, opts ...Option) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(p.handler())
	t.Cleanup(server.Close)

	solver := captcha.SolverFunc(func(ctx context.Context, image []byte) (string, error) {
		// The first image is always read wrong.
		if string(image) == "image-1" {
			return "wrong", nil
		}
		return p.captcha, nil
	})
	opts = append([]Option{WithRetryDelay(time.Millisecond), WithRateLimit(time.Millisecond, 100)}, opts...)
	c, err := NewClient(server.URL+"/", solver, opts...)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c, server
}

func TestLoginRetriesCaptcha(t *testing.T) {
	p := &fakePortal{t: t, captcha: "k7m2"}
	c, _ := newTestClient(t, p)

	if err := c.Login(context.Background(), "40112345", "p&ss"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !c.LoggedIn() {
		t.Fatal("expected client to be logged in")
	}
	if got := p.captchaCalls.Load(); got != 2 {
		t.Errorf("expected 2 captcha downloads, got %d", got)
	}
	if c.session.tck != "MENU" {
		t.Errorf("expected menu ticket, got %q", c.session.tck)
	}
}

func TestLoginFailsAfterAttempts(t *testing.T) {
	p := &fakePortal{t: t, captcha: "k7m2"}
	c, _ := newTestClient(t, p, WithCaptchaAttempts(3))

	err := c.Login(context.Background(), "40112345", "wrong-password")
	if !errors.Is(err, ErrAuthFailed) {
		t.Fatalf("expected ErrAuthFailed, got %v", err)
	}
	if got := p.captchaCalls.Load(); got != 3 {
		t.Errorf("expected 3 attempts, got %d", got)
	}
	if c.LoggedIn() {
		t.Error("client should not be logged in")
	}
}

func TestLoginRequiresCredentials(t *testing.T) {
	p := &fakePortal{t: t}
	c, _ := newTestClient(t, p)
	if err := c.Login(context.Background(), "", ""); !errors.Is(err, ErrAuthFailed) {
		t.Fatalf("expected ErrAuthFailed, got %v", err)
	}
}

func TestGetRetriesTransientErrors(t *testing.T) {
	p := &fakePortal{t: t, captcha: "k7m2"}
	p.busy.Store(2)
	c, _ := newTestClient(t, p)

	if err := c.Login(context.Background(), "40112345", "p&ss"); err != nil {
		t.Fatalf("Login should survive two 503s: %v", err)
	}
}

func TestFetchRequiresLogin(t *testing.T) {
	p := &fakePortal{t: t}
	c, _ := newTestClient(t, p)
	if _, err := c.FetchCourseReports(context.Background(), Both); !errors.Is(err, ErrNotLoggedIn) {
		t.Errorf("expected ErrNotLoggedIn, got %v", err)
	}
	if _, err := c.FetchStudentRecord(context.Background()); !errors.Is(err, ErrNotLoggedIn) {
		t.Errorf("expected ErrNotLoggedIn, got %v", err)
	}
}

func TestFetchCourseReports(t *testing.T) {
	p := &fakePortal{t: t, captcha: "k7m2"}
	c, _ := newTestClient(t, p, WithCacheDir(t.TempDir()))
	ctx := context.Background()
	if err := c.Login(ctx, "40112345", "p&ss"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	reports, err := c.FetchCourseReports(ctx, Both)
	if err != nil {
		t.Fatalf("FetchCourseReports: %v", err)
	}
	if reports.Available != availableXML || reports.Unavailable != unavailableXML {
		t.Errorf("unexpected payloads: %+v", reports)
	}
	if p.reportPosts.Load() != 2 {
		t.Errorf("expected 2 report posts, got %d", p.reportPosts.Load())
	}

	offerings, err := ParseCourseReport(reports.Available)
	if err != nil {
		t.Fatalf("ParseCourseReport: %v", err)
	}
	if offerings.Count() != 1 || len(offerings["فنی"]["کامپیوتر"][0].Schedule) != 1 {
		t.Errorf("unexpected offerings %+v", offerings)
	}

	cached, ok := c.CachedReports(AvailableOnly)
	if !ok {
		t.Fatal("expected the both-entry to answer an available-only lookup")
	}
	if cached.Available != availableXML || cached.Unavailable != "" {
		t.Errorf("cached reports not filtered: %+v", cached)
	}
}

func TestFetchAvailableOnly(t *testing.T) {
	p := &fakePortal{t: t, captcha: "k7m2"}
	c, _ := newTestClient(t, p)
	ctx := context.Background()
	if err := c.Login(ctx, "40112345", "p&ss"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	reports, err := c.FetchCourseReports(ctx, AvailableOnly)
	if err != nil {
		t.Fatalf("FetchCourseReports: %v", err)
	}
	if reports.Available == "" || reports.Unavailable != "" {
		t.Errorf("expected only the available list, got %+v", reports)
	}
	if p.reportPosts.Load() != 1 {
		t.Errorf("expected a single report post, got %d", p.reportPosts.Load())
	}
}

func TestFetchStudentRecord(t *testing.T) {
	p := &fakePortal{t: t, captcha: "k7m2"}
	c, _ := newTestClient(t, p)
	ctx := context.Background()
	if err := c.Login(ctx, "40112345", "p&ss"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	student, err := c.FetchStudentRecord(ctx)
	if err != nil {
		t.Fatalf("FetchStudentRecord: %v", err)
	}
	if student.ID != "40112345" || student.Name != "محمدی علی" {
		t.Errorf("unexpected student %+v", student)
	}
	if len(student.Semesters) != 2 {
		t.Fatalf("expected 2 semesters, got %d", len(student.Semesters))
	}
	if student.Semesters[0].ID != 4021 || student.Semesters[1].GPA != 15.5 {
		t.Errorf("unexpected semesters %+v", student.Semesters)
	}
}

func TestParseStatus(t *testing.T) {
	for in, want := range map[string]Status{"": Both, "both": Both, "Available": AvailableOnly, "unavailable": UnavailableOnly} {
		got, err := ParseStatus(in)
		if err != nil || got != want {
			t.Errorf("ParseStatus(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseStatus("maybe"); err == nil {
		t.Error("expected an error for an unknown status")
	}
}
