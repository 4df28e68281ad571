package golestan

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Status selects which course lists a report fetch returns.
type Status int

const (
	Both Status = iota
	AvailableOnly
	UnavailableOnly
)

// ParseStatus accepts "available", "unavailable" and "both".
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "both", "all":
		return Both, nil
	case "available":
		return AvailableOnly, nil
	case "unavailable":
		return UnavailableOnly, nil
	}
	return Both, fmt.Errorf("unknown course status %q (want available, unavailable or both)", s)
}

func (s Status) String() string {
	switch s {
	case AvailableOnly:
		return "available"
	case UnavailableOnly:
		return "unavailable"
	}
	return "both"
}

func (s Status) wantsAvailable() bool   { return s != UnavailableOnly }
func (s Status) wantsUnavailable() bool { return s != AvailableOnly }

// Reports holds the raw report 102 payloads.
type Reports struct {
	Available   string    `json:"available,omitempty"`
	Unavailable string    `json:"unavailable,omitempty"`
	FetchedAt   time.Time `json:"fetched_at"`
}

const reportPath = "/Forms/F0202_PROCESS_REP_FILTER/F0202_01_PROCESS_REP_FILTER_DAT.ASPX?r=%s&fid=1%s102&b=10&l=1&tck=%s&&lastm=20230828062456"

const reportPrivateParams = `<Root><N UQID="48" id="4" F="" T=""/><N UQID="50" id="8" F="" T=""/><N UQID="52" id="12" F="" T=""/><N UQID="62" id="16" F="" T=""/><N UQID="14" id="18" F="" T=""/><N UQID="16" id="20" F="" T=""/><N UQID="18" id="22" F="" T=""/><N UQID="20" id="24" F="" T=""/><N UQID="22" id="26" F="" T=""/></Root>`

// reportPublicParams takes the availability flag twice (1 offered, 0 not offered).
const reportPublicParams = `<Root><N id="4" F1="4041" T1="4041" F2="" T2="" A="" S="" Q="" B=""/><N id="5" F1="10" T1="10" F2="" T2="" A="0" S="1" Q="1" B="B"/><N id="6" F1="%d" T1="%d" F2="" T2="" A="" S="" Q="" B=""/><N id="12" F1="" T1="" F2="" T2="" A="0" S="1" Q="2" B="B"/><N id="16" F1="" T1="" F2="" T2="" A="0" S="1" Q="3" B="B"/><N id="22" F1="" T1="" F2="" T2="" A="0" S="" Q="6" B="S"/><N id="24" F1="" T1="" F2="" T2="" A="0" S="" Q="7" B="S"/><N id="30" F1="" T1="" F2="" T2="" A="" S="" Q="" B=""/><N id="32" F1="" T1="" F2="" T2="" A="" S="" Q="" B=""/><N id="36" F1="" T1="" F2="" T2="" A="" S="" Q="" B=""/><N id="38" F1="" T1="" F2="" T2="" A="" S="" Q="" B=""/><N id="40" F1="" T1="" F2="" T2="" A="" S="" Q="" B=""/><N id="44" F1="" T1="" F2="" T2="" A="" S="" Q="" B=""/><N id="45" F1="" T1="" F2="" T2="" A="" S="" Q="" B=""/><N id="46" F1="" T1="" F2="" T2="" A="" S="" Q="" B=""/><N id="48" F1="" T1="" F2="" T2="" A="" S="" Q="" B=""/><N id="52" F1="" T1="" F2="" T2="" A="" S="" Q="" B=""/><N id="56" F1="" T1="" F2="" T2="" A="" S="" Q="" B=""/><N id="64" F1="" T1="" F2="" T2="" A="" S="" Q="" B=""/><N id="68" F1="" T1="" F2="" T2="" A="" S="" Q="" B=""/><N id="99" F1="" T1="" F2="" T2="" A="" S="" Q="" B=""/><N id="100" F1="" T1="" F2="" T2="" A="" S="" Q="" B=""/><N id="101" F1="" T1="" F2="" T2="" A="" S="" Q="" B=""/><N id="103" F1="" T1="" F2="" T2="" A="" S="" Q="" B=""/><N id="104" F1="" T1="" F2="" T2="" A="" S="" Q="" B=""/><N id="105" F1="" T1="" F2="" T2="" A="" S="" Q="" B=""/><N id="107" F1="" T1="" F2="" T2="" A="" S="" Q="" B=""/><N id="112" F1="" T1="" F2="" T2="" A="" S="" Q="" B=""/></Root>`

// reportFields are the empty filter fields the report form always posts.
var reportFields = []string{
	"F_ID", "F9999", "HelpCode", "Ref1", "Ref2", "Ref3", "Ref4", "Ref5",
	"NameH", "FacNoH", "GrpNoH", "RepSrc", "tbExcel", "txtuqid", "ex",
}

func reportForm(ticket string, extra map[string]string) map[string]string {
	m := map[string]string{
		"TicketTextBox": ticket,
		"XmlPriPrm":     "",
		"XmlPubPrm":     "",
		"XmlMoredi":     "",
		"ShowError":     "",
	}
	for _, f := range reportFields {
		m[f] = ""
	}
	for k, v := range extra {
		m[k] = v
	}
	return m
}

// FetchCourseReports opens report 102 and downloads the requested course
// lists. The raw payloads are cached when a cache directory is configured.
func (c *Client) FetchCourseReports(ctx context.Context, status Status) (Reports, error) {
	if !c.LoggedIn() {
		return Reports{}, ErrNotLoggedIn
	}

	c.setCookies("ASP.NET_SessionId", c.session.id, "f", "11130", "ft", "0", "lt", c.session.lt,
		"seq", fmt.Sprint(c.session.seq), "su", "3", "u", c.session.u)

	rnd := random()
	getPath := fmt.Sprintf(reportPath, rnd, ";", c.session.tck)
	postPath := fmt.Sprintf(reportPath, rnd, "%3b", c.session.tck)

	page, err := c.get(ctx, getPath)
	if err != nil {
		return Reports{}, fmt.Errorf("failed to open course report: %w", err)
	}
	st, err := parseFormState(page)
	if err != nil {
		return Reports{}, fmt.Errorf("failed to read course report form: %w", err)
	}
	c.session.ctck = c.cookie("ctck")

	c.setCookies("ASP.NET_SessionId", c.session.id, "ctck", c.session.ctck, "f", "102", "ft", "1",
		"lt", c.session.lt, "seq", c.nextSeq(), "stdno", "", "su", "3", "u", c.session.u)
	page, err = c.post(ctx, postPath, st.form("00", reportForm(st.Ticket, nil)))
	if err != nil {
		return Reports{}, err
	}
	if st, err = parseFormState(page); err != nil {
		return Reports{}, fmt.Errorf("failed to read course report dashboard: %w", err)
	}
	c.log.Debug().Msg("opened course report dashboard")

	fetch := func(flag int, showError string) (string, error) {
		c.setCookies("ASP.NET_SessionId", c.session.id, "ctck", c.session.ctck, "f", "102", "ft", "1",
			"lt", c.session.lt, "seq", fmt.Sprint(c.session.seq), "su", "0", "u", c.session.u)
		form := st.form("09", reportForm(st.Ticket, map[string]string{
			"XmlPriPrm": reportPrivateParams,
			"XmlPubPrm": fmt.Sprintf(reportPublicParams, flag, flag),
			"XmlMoredi": "<Root/>",
			"ShowError": showError,
		}))
		page, err := c.post(ctx, postPath, form)
		if err != nil {
			return "", err
		}
		payload, ok := extractXMLDat(page)
		if next, err := parseFormState(page); err == nil {
			st = next
		}
		if ck := c.cookie("ctck"); ck != "" {
			c.session.ctck = ck
		}
		if !ok {
			return "", ErrNoReport
		}
		return payload, nil
	}

	out := Reports{FetchedAt: time.Now()}
	if status.wantsAvailable() {
		if out.Available, err = fetch(1, ""); err != nil {
			return Reports{}, fmt.Errorf("available courses: %w", err)
		}
		c.log.Info().Int("bytes", len(out.Available)).Msg("fetched available courses")
	}
	if status.wantsUnavailable() {
		if out.Unavailable, err = fetch(0, "0"); err != nil {
			return Reports{}, fmt.Errorf("unavailable courses: %w", err)
		}
		c.log.Info().Int("bytes", len(out.Unavailable)).Msg("fetched unavailable courses")
	}

	c.writeCache(status, out)
	return out, nil
}
