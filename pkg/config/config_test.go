package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestConfigLoadSave(t *testing.T) {
	tempDir := t.TempDir()

	// Override the home directory environment variable for testing
	t.Setenv("HOME", tempDir)
	t.Setenv("USERPROFILE", tempDir)

	// 1. Test Load with no existing file
	cfg, err := LoadFile()
	if err != nil {
		t.Fatalf("expected no error when loading missing config, got: %v", err)
	}
	if cfg == nil {
		t.Fatalf("expected empty config to be returned, got nil")
	}

	// 2. Modify and Save the config
	cfg.DataDir = "~/planner"
	cfg.CaptchaURL = "http://localhost:9000/solve"
	cfg.SyncInterval = "2h"
	cfg.SemesterStart = "2025-09-20"
	cfg.SemesterWeeks = 17

	if err := Save(cfg); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	configPath := filepath.Join(tempDir, ".golestoon.json")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Errorf("expected config file to be created at %s", configPath)
	}

	// 3. Test Load with existing file
	loadedCfg, err := LoadFile()
	if err != nil {
		t.Fatalf("failed to load existing config: %v", err)
	}
	if !reflect.DeepEqual(cfg, loadedCfg) {
		t.Errorf("loaded config does not match saved config.\nGot: %+v\nExpected: %+v", loadedCfg, cfg)
	}

	dir, err := loadedCfg.ResolveDataDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join(tempDir, "planner") {
		t.Errorf("ResolveDataDir() = %s", dir)
	}
	if loadedCfg.Interval() != 2*time.Hour {
		t.Errorf("Interval() = %v", loadedCfg.Interval())
	}
	start, weeks, err := loadedCfg.Semester()
	if err != nil || weeks != 17 || start.Month() != time.September || start.Day() != 20 {
		t.Errorf("Semester() = %v %d %v", start, weeks, err)
	}
}

func TestConfigEnvOverrides(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	t.Setenv("USERPROFILE", tempDir)

	if err := Save(&AppConfig{LogLevel: "info", PortalURL: "https://file.example/"}); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SEMESTER_WEEKS", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("env override ignored: %q", cfg.LogLevel)
	}
	if cfg.Portal() != "https://file.example" {
		t.Errorf("Portal() = %q", cfg.Portal())
	}
	if cfg.SemesterWeeks != 0 {
		t.Errorf("invalid number should fall back, got %d", cfg.SemesterWeeks)
	}
}

func TestConfigDefaults(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	t.Setenv("USERPROFILE", tempDir)

	cfg := &AppConfig{}
	dir, err := cfg.ResolveDataDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join(tempDir, ".golestoon") {
		t.Errorf("default data dir = %s", dir)
	}
	if cfg.Portal() != DefaultPortalURL || cfg.Interval() != DefaultSyncInterval {
		t.Errorf("unexpected defaults %q %v", cfg.Portal(), cfg.Interval())
	}
	if _, _, err := (&AppConfig{SemesterStart: "1404/07/01"}).Semester(); err == nil {
		t.Error("expected error for non-ISO semester start")
	}
}

func TestConfigParseError(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	t.Setenv("USERPROFILE", tempDir)

	configPath := filepath.Join(tempDir, ".golestoon.json")
	if err := os.WriteFile(configPath, []byte("invalid json { content"), 0644); err != nil {
		t.Fatalf("failed to write invalid json: %v", err)
	}

	if _, err := Load(); err == nil {
		t.Errorf("expected error when loading invalid json, got nil")
	}
}
