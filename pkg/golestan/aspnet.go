package golestan

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// formState holds the hidden ASP.NET fields every postback must echo.
type formState struct {
	ViewState          string
	ViewStateGenerator string
	EventValidation    string
	Ticket             string
}

// parseFormState extracts the hidden ASP.NET fields from a page.
func parseFormState(body []byte) (formState, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return formState{}, err
	}
	field := func(name string) (string, bool) {
		return doc.Find(fmt.Sprintf("input[name=%q]", name)).First().Attr("value")
	}

	var st formState
	var ok bool
	if st.ViewState, ok = field("__VIEWSTATE"); !ok {
		return formState{}, fmt.Errorf("page has no __VIEWSTATE field")
	}
	st.ViewStateGenerator, _ = field("__VIEWSTATEGENERATOR")
	st.EventValidation, _ = field("__EVENTVALIDATION")
	st.Ticket, _ = field("TicketTextBox")
	return st, nil
}

// form builds a postback body from the state plus extra fields.
func (st formState) form(action string, extra map[string]string) url.Values {
	v := url.Values{}
	v.Set("__VIEWSTATE", st.ViewState)
	v.Set("__VIEWSTATEGENERATOR", st.ViewStateGenerator)
	v.Set("__EVENTVALIDATION", st.EventValidation)
	v.Set("Fm_Action", action)
	v.Set("Frm_Type", "")
	v.Set("Frm_No", "")
	v.Set("TicketTextBox", "")
	v.Set("TxtMiddle", "<r/>")
	for k, val := range extra {
		v.Set(k, val)
	}
	return v
}

var xmlDatPattern = regexp.MustCompile(`(?s)xmlDat\s*=\s*["'](.*?)["'];`)

// extractXMLDat returns the report payload embedded in a results page.
func extractXMLDat(body []byte) (string, bool) {
	m := xmlDatPattern.FindSubmatch(body)
	if m == nil || len(bytes.TrimSpace(m[1])) == 0 {
		return "", false
	}
	return string(m[1]), true
}

// middle builds the TxtMiddle element <r a="v" .../> with escaped values.
// Attribute order follows pairs.
func middle(pairs ...string) string {
	var b strings.Builder
	b.WriteString("<r")
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(" ")
		b.WriteString(pairs[i])
		b.WriteString(`="`)
		_ = xml.EscapeText(&b, []byte(pairs[i+1]))
		b.WriteString(`"`)
	}
	b.WriteString("/>")
	return b.String()
}
