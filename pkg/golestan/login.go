package golestan

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	sessionPath  = "/_templates/unvarm/unvarm.aspx?typ=1"
	authGetPath  = "/Forms/AuthenticateUser/AuthUser.aspx?fid=0;1&tck=&&&lastm=20240303092318"
	authPostPath = "/Forms/AuthenticateUser/AuthUser.aspx?fid=0%3b1&tck=&&&lastm=20240303092318"
	captchaPath  = "/Forms/AuthenticateUser/captcha.aspx?"
	sysMenuPath  = "/Forms/F0213_PROCESS_SYSMENU/F0213_01_PROCESS_SYSMENU_Dat.aspx?r=%s&fid=0%s11130&b=&l=&tck=%s&&lastm=20240303092316"
)

// Login authenticates with the portal, solving captchas until the portal
// sets its lt and u cookies or the attempts run out.
func (c *Client) Login(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return fmt.Errorf("%w: username and password are required", ErrAuthFailed)
	}
	c.username = username
	c.session = session{seq: 1}

	if _, err := c.get(ctx, sessionPath); err != nil {
		return fmt.Errorf("failed to open session: %w", err)
	}
	c.session.id = c.cookie("ASP.NET_SessionId")
	c.setCookies("ASP.NET_SessionId", c.session.id, "f", "", "ft", "", "lt", "", "seq", "", "su", "", "u", "")

	page, err := c.get(ctx, authGetPath)
	if err != nil {
		return fmt.Errorf("failed to load login page: %w", err)
	}
	st, err := parseFormState(page)
	if err != nil {
		return fmt.Errorf("failed to read login page: %w", err)
	}
	page, err = c.post(ctx, authPostPath, st.form("00", nil))
	if err != nil {
		return err
	}
	if st, err = parseFormState(page); err != nil {
		return fmt.Errorf("failed to read login form: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		c.log.Info().Int("attempt", attempt).Int("of", c.maxAttempts).Msg("logging in")

		image, err := c.get(ctx, captchaPath+random())
		if err != nil {
			lastErr = err
			continue
		}
		code, err := c.solver.Solve(ctx, image)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			c.log.Warn().Err(err).Msg("captcha not solved")
			continue
		}

		form := st.form("09", map[string]string{
			"TxtMiddle": middle("F51851", "", "F80351", username, "F80401", password,
				"F51701", code, "F83181", "1", "F51602", "", "F51803", "0", "F51601", "1"),
		})
		page, err := c.post(ctx, authPostPath, form)
		if err != nil {
			lastErr = err
			continue
		}

		c.session.lt = c.cookie("lt")
		c.session.u = c.cookie("u")
		if c.LoggedIn() {
			c.log.Info().Int("attempt", attempt).Msg("authenticated")
			if next, err := parseFormState(page); err == nil {
				c.session.tck = next.Ticket
			}
			if id := c.cookie("ASP.NET_SessionId"); id != "" {
				c.session.id = id
			}
			return c.openMenu(ctx)
		}

		lastErr = errors.New("invalid captcha or credentials")
		if next, err := parseFormState(page); err == nil {
			st = next
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.retryDelay):
		}
	}
	return fmt.Errorf("%w after %d attempts: %v", ErrAuthFailed, c.maxAttempts, lastErr)
}

// openMenu loads the system menu, which issues the ticket later pages need.
func (c *Client) openMenu(ctx context.Context) error {
	c.setCookies("ASP.NET_SessionId", c.session.id, "f", "1", "ft", "0", "lt", c.session.lt,
		"seq", fmt.Sprint(c.session.seq), "stdno", "", "su", "0", "u", c.session.u)

	rnd := random()
	page, err := c.get(ctx, fmt.Sprintf(sysMenuPath, rnd, ";", c.session.tck))
	if err != nil {
		return fmt.Errorf("failed to open system menu: %w", err)
	}
	st, err := parseFormState(page)
	if err != nil {
		return fmt.Errorf("failed to read system menu: %w", err)
	}

	c.setCookies("ASP.NET_SessionId", c.session.id, "f", "11130", "ft", "0", "lt", c.session.lt,
		"seq", c.nextSeq(), "su", "3", "u", c.session.u)
	page, err = c.post(ctx, fmt.Sprintf(sysMenuPath, rnd, "%3b", c.session.tck), st.form("00", map[string]string{
		"TicketTextBox": st.Ticket,
		"XMLStdHlp":     "",
		"ex":            "",
	}))
	if err != nil {
		return err
	}
	if st, err = parseFormState(page); err != nil {
		return fmt.Errorf("failed to read system menu: %w", err)
	}
	c.session.tck = st.Ticket
	return nil
}
