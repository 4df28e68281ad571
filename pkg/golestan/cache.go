package golestan

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// cacheDuration determines how long report data is kept before refreshing
const cacheDuration = 12 * time.Hour

// CacheEntry represents the disk data format
type CacheEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Status    string    `json:"status"`
	Reports   Reports   `json:"reports"`
}

func (c *Client) cachePath(status Status) (string, bool) {
	if c.cacheDir == "" {
		return "", false
	}
	if err := os.MkdirAll(c.cacheDir, 0755); err != nil {
		return "", false
	}
	return filepath.Join(c.cacheDir, "report_102_"+status.String()+".json"), true
}

// CachedReports returns unexpired report payloads saved by an earlier fetch.
// A "both" entry also answers requests for a single list.
func (c *Client) CachedReports(status Status) (Reports, bool) {
	candidates := []Status{status}
	if status != Both {
		candidates = append(candidates, Both)
	}
	for _, s := range candidates {
		path, ok := c.cachePath(s)
		if !ok {
			return Reports{}, false
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue // File doesn't exist or can't be read
		}
		var entry CacheEntry
		if err := json.Unmarshal(data, &entry); err != nil {
			continue
		}
		if time.Since(entry.Timestamp) > cacheDuration {
			continue // Expired
		}
		r := entry.Reports
		if !status.wantsAvailable() {
			r.Available = ""
		}
		if !status.wantsUnavailable() {
			r.Unavailable = ""
		}
		return r, true
	}
	return Reports{}, false
}

// writeCache saves the reports to disk
func (c *Client) writeCache(status Status, r Reports) {
	path, ok := c.cachePath(status)
	if !ok {
		return
	}

	entry := CacheEntry{
		Timestamp: time.Now(),
		Status:    status.String(),
		Reports:   r,
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		c.log.Warn().Err(err).Msg("could not write report cache")
	}
}

// ClearCache removes every cached report.
func (c *Client) ClearCache() error {
	for _, s := range []Status{Both, AvailableOnly, UnavailableOnly} {
		path, ok := c.cachePath(s)
		if !ok {
			return nil
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}
