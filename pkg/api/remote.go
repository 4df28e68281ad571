package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golestoon/pkg/course"
)

// ErrRemoteUnavailable wraps every failure to reach a remote catalogue.
var ErrRemoteUnavailable = errors.New("remote catalogue unavailable")

// RemoteCatalog reads the catalogue from another instance's API.
type RemoteCatalog struct {
	BaseURL    string
	HTTPClient *http.Client
	// Timeouts are the per-attempt deadlines. The request is tried once
	// per entry.
	Timeouts []time.Duration
}

// NewRemoteCatalog returns a client that tries with a 5s deadline and
// retries once with 3s.
func NewRemoteCatalog(baseURL string) *RemoteCatalog {
	return &RemoteCatalog{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{},
		Timeouts:   []time.Duration{5 * time.Second, 3 * time.Second},
	}
}

// FetchOfferings downloads the raw synced catalogue.
func (r *RemoteCatalog) FetchOfferings(ctx context.Context) (available, unavailable course.Offerings, err error) {
	var lastErr error
	for _, timeout := range r.Timeouts {
		var payload OfferingsPayload
		if lastErr = r.get(ctx, "/offerings", timeout, &payload); lastErr == nil {
			return payload.Available, payload.Unavailable, nil
		}
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}
	}
	return nil, nil, fmt.Errorf("%w: %v", ErrRemoteUnavailable, lastErr)
}

// Healthy reports whether the remote instance answers its health check.
func (r *RemoteCatalog) Healthy(ctx context.Context) bool {
	var out map[string]string
	return r.get(ctx, "/healthz", r.Timeouts[len(r.Timeouts)-1], &out) == nil && out["status"] == "ok"
}

func (r *RemoteCatalog) get(ctx context.Context, path string, timeout time.Duration, into any) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.BaseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := r.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	var envelope struct {
		Data  json.RawMessage `json:"data"`
		Error *ErrorBody      `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("invalid response from %s: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		if envelope.Error != nil {
			return fmt.Errorf("%s: %s (%d)", envelope.Error.Code, envelope.Error.Message, resp.StatusCode)
		}
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return json.Unmarshal(envelope.Data, into)
}
