package captcha

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPSolver posts captcha images to a recognition service and expects
// {"text": "..."} back.
type HTTPSolver struct {
	URL        string
	HTTPClient *http.Client
	Attempts   int
	// Backoff is the base delay between attempts. It grows linearly.
	Backoff time.Duration
}

// NewHTTPSolver returns a solver for the service at url with the default retry policy.
func NewHTTPSolver(url string) *HTTPSolver {
	return &HTTPSolver{
		URL:        url,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
		Attempts:   3,
		Backoff:    time.Second,
	}
}

type solveResponse struct {
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

// Solve sends the image, retrying network errors and 502/503/504 answers.
func (s *HTTPSolver) Solve(ctx context.Context, image []byte) (string, error) {
	attempts := max(s.Attempts, 1)
	client := s.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(time.Duration(attempt) * s.Backoff):
			}
		}

		text, retry, err := s.post(ctx, client, image)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !retry {
			break
		}
	}
	return "", fmt.Errorf("%w: %v", ErrServiceFailed, lastErr)
}

func (s *HTTPSolver) post(ctx context.Context, client *http.Client, image []byte) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(image))
	if err != nil {
		return "", false, err
	}
	req.Header.Set("Content-Type", http.DetectContentType(image))
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return "", ctx.Err() == nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return "", true, fmt.Errorf("transient status code: %d", resp.StatusCode)
	default:
		return "", false, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return "", true, fmt.Errorf("failed to read response body: %w", err)
	}
	var out solveResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", false, fmt.Errorf("failed to parse response: %w", err)
	}
	if out.Error != "" {
		return "", false, fmt.Errorf("service error: %s", out.Error)
	}
	text := clean(out.Text)
	if text == "" {
		return "", false, ErrEmptyAnswer
	}
	return text, false, nil
}
