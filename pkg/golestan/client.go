package golestan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"

	"golestoon/pkg/captcha"
)

var (
	// ErrAuthFailed is returned when every login attempt was rejected
	ErrAuthFailed = errors.New("golestan authentication failed")
	// ErrNotLoggedIn is returned when a portal page is requested before Login
	ErrNotLoggedIn = errors.New("not logged in to golestan")
	// ErrNoReport is returned when a report response carries no data
	ErrNoReport = errors.New("report response contained no data")
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/140.0.0.0 Safari/537.36"

// Client talks to one Golestan installation. It is not safe for concurrent use:
// the portal tracks a single navigation sequence per session.
type Client struct {
	base        *url.URL
	httpClient  *http.Client
	limiter     *rate.Limiter
	solver      captcha.Solver
	log         zerolog.Logger
	cacheDir    string
	maxAttempts int
	retryDelay  time.Duration

	username string
	session  session
}

// session is the portal state carried between requests.
type session struct {
	id   string
	lt   string
	u    string
	tck  string
	ctck string
	seq  int
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for progress and retries.
func WithLogger(l zerolog.Logger) Option { return func(c *Client) { c.log = l } }

// WithCacheDir enables the on-disk report cache.
func WithCacheDir(dir string) Option { return func(c *Client) { c.cacheDir = dir } }

// WithCaptchaAttempts sets how many captcha rounds Login tries.
func WithCaptchaAttempts(n int) Option { return func(c *Client) { c.maxAttempts = n } }

// WithRateLimit sets the request rate against the portal.
func WithRateLimit(every time.Duration, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Every(every), burst) }
}

// WithRetryDelay sets the base delay between retried GETs.
func WithRetryDelay(d time.Duration) Option { return func(c *Client) { c.retryDelay = d } }

// NewClient creates a client for the portal at baseURL.
func NewClient(baseURL string, solver captcha.Solver, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid portal URL %q: %w", baseURL, err)
	}
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}
	c := &Client{
		base:        base,
		httpClient:  &http.Client{Timeout: 30 * time.Second, Jar: jar},
		limiter:     rate.NewLimiter(rate.Every(400*time.Millisecond), 3),
		solver:      solver,
		log:         zerolog.Nop(),
		maxAttempts: 5,
		retryDelay:  time.Second,
		session:     session{seq: 1},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// LoggedIn reports whether Login succeeded on this client.
func (c *Client) LoggedIn() bool {
	return c.session.lt != "" && c.session.u != ""
}

func (c *Client) resolve(path string) string {
	return c.base.String() + path
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "fa-IR,fa;q=0.9,en-US;q=0.8,en;q=0.7")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
}

// get fetches path, retrying up to 3 times on network errors and 502/503/504.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		if attempt > 0 {
			c.log.Warn().Err(lastErr).Int("attempt", attempt+1).Msg("portal busy, retrying")
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * c.retryDelay):
			}
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.resolve(path), nil)
		if err != nil {
			return nil, err
		}
		c.setHeaders(req)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			continue
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		switch {
		case resp.StatusCode == http.StatusBadGateway || resp.StatusCode == http.StatusServiceUnavailable || resp.StatusCode == http.StatusGatewayTimeout:
			lastErr = fmt.Errorf("transient status code: %d", resp.StatusCode)
			continue
		case resp.StatusCode != http.StatusOK:
			return nil, fmt.Errorf("unexpected status code %d when fetching %s", resp.StatusCode, path)
		case err != nil:
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		return body, nil
	}
	return nil, fmt.Errorf("failed after 3 attempts: %w", lastErr)
}

// post submits an ASP.NET form. Posts are never retried because the portal
// advances its ticket on every submission.
func (c *Client) post(ctx context.Context, path string, form url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.resolve(path), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Origin", c.base.String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to post %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d when posting %s", resp.StatusCode, path)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return body, nil
}

// setCookies overwrites the navigation cookies the portal's own scripts
// would normally set in the browser.
func (c *Client) setCookies(pairs ...string) {
	cookies := make([]*http.Cookie, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		cookies = append(cookies, &http.Cookie{Name: pairs[i], Value: pairs[i+1], Path: "/"})
	}
	c.httpClient.Jar.SetCookies(c.base, cookies)
}

func (c *Client) cookie(name string) string {
	for _, ck := range c.httpClient.Jar.Cookies(c.base) {
		if ck.Name == name {
			return ck.Value
		}
	}
	return ""
}

func (c *Client) nextSeq() string {
	c.session.seq++
	return strconv.Itoa(c.session.seq)
}

// random mimics the cache-busting r= parameter of the portal's scripts.
func random() string {
	return strconv.FormatFloat(rand.Float64(), 'f', 16, 64)
}
