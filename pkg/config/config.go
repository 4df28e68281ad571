package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultPortalURL is the Golestan portal of Imam Khomeini International University.
const DefaultPortalURL = "https://golestan.ikiu.ac.ir"

// DefaultSyncInterval is used by sync --watch when nothing is configured.
const DefaultSyncInterval = 6 * time.Hour

// AppConfig holds all user-defined persistent settings
type AppConfig struct {
	DataDir          string `json:"data_dir,omitempty"`
	AccentColor      string `json:"accent_color,omitempty"`
	PortalURL        string `json:"portal_url,omitempty"`
	CaptchaURL       string `json:"captcha_url,omitempty"`
	RemoteCatalogURL string `json:"remote_catalog_url,omitempty"`
	SyncInterval     string `json:"sync_interval,omitempty"`
	LogLevel         string `json:"log_level,omitempty"`
	SemesterStart    string `json:"semester_start,omitempty"`
	SemesterWeeks    int    `json:"semester_weeks,omitempty"`
	DefaultMajor     string `json:"default_major,omitempty"`
	ListenAddr       string `json:"listen_addr,omitempty"`
}

// getConfigPath returns the absolute path to ~/.golestoon.json
func getConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".golestoon.json"), nil
}

// Load reads the configuration file and then applies environment overrides.
// A .env file in the working directory is loaded first when present.
func Load() (*AppConfig, error) {
	cfg, err := LoadFile()
	if err != nil {
		return nil, err
	}
	_ = godotenv.Load()
	cfg.applyEnv()
	return cfg, nil
}

// LoadFile reads ~/.golestoon.json without environment overrides, which is
// what `config` edits and saves back. A missing file yields an empty config.
func LoadFile() (*AppConfig, error) {
	path, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &AppConfig{}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg AppConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Save writes the application configuration back to disk.
func Save(cfg *AppConfig) error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func (c *AppConfig) applyEnv() {
	c.DataDir = getEnv("GOLESTOON_DATA_DIR", c.DataDir)
	c.PortalURL = getEnv("GOLESTAN_URL", c.PortalURL)
	c.CaptchaURL = getEnv("CAPTCHA_SERVICE_URL", c.CaptchaURL)
	c.RemoteCatalogURL = getEnv("CATALOG_API_URL", c.RemoteCatalogURL)
	c.SyncInterval = getEnv("SYNC_INTERVAL", c.SyncInterval)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.SemesterStart = getEnv("SEMESTER_START", c.SemesterStart)
	c.SemesterWeeks = getEnvInt("SEMESTER_WEEKS", c.SemesterWeeks)
	c.ListenAddr = getEnv("LISTEN_ADDR", c.ListenAddr)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// ResolveDataDir returns the data directory, ~/.golestoon unless configured.
// A leading ~ is expanded.
func (c *AppConfig) ResolveDataDir() (string, error) {
	dir := c.DataDir
	if dir == "" || dir == "~" || strings.HasPrefix(dir, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("could not find user home directory: %w", err)
		}
		switch {
		case dir == "":
			return filepath.Join(homeDir, ".golestoon"), nil
		case dir == "~":
			return homeDir, nil
		default:
			return filepath.Join(homeDir, dir[2:]), nil
		}
	}
	return filepath.Abs(dir)
}

// Portal returns the portal base URL.
func (c *AppConfig) Portal() string {
	if c.PortalURL == "" {
		return DefaultPortalURL
	}
	return strings.TrimRight(c.PortalURL, "/")
}

// Interval parses SyncInterval, falling back to DefaultSyncInterval.
func (c *AppConfig) Interval() time.Duration {
	if d, err := time.ParseDuration(c.SyncInterval); err == nil && d > 0 {
		return d
	}
	return DefaultSyncInterval
}

// Semester returns the configured semester start date and length in weeks.
// An empty start yields the zero time.
func (c *AppConfig) Semester() (time.Time, int, error) {
	weeks := c.SemesterWeeks
	if weeks <= 0 {
		weeks = 16
	}
	if c.SemesterStart == "" {
		return time.Time{}, weeks, nil
	}
	start, err := time.ParseInLocation("2006-01-02", c.SemesterStart, time.Local)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("semester_start %q must be YYYY-MM-DD: %w", c.SemesterStart, err)
	}
	return start, weeks, nil
}

// Listen returns the address for the catalogue API server.
func (c *AppConfig) Listen() string {
	if c.ListenAddr == "" {
		return "127.0.0.1:8780"
	}
	return c.ListenAddr
}
