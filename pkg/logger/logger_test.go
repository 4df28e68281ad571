package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetupWritesLogFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	log, closer, err := Setup("debug", dir, false)
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	log.Info().Str("course", "1214021_01").Msg("added")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "golestoon.log"))
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), `"course":"1214021_01"`) || !strings.Contains(string(data), `"message":"added"`) {
		t.Errorf("unexpected log line: %s", data)
	}
}

func TestSetupWithoutOutputs(t *testing.T) {
	log, closer, err := Setup("bogus", "", false)
	if err != nil {
		t.Fatal(err)
	}
	defer closer.Close()
	// Nop logger must not panic.
	log.Error().Msg("discarded")
}

func TestSetupRejectsUnusableLogDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs")
	if err := os.WriteFile(file, []byte("not a directory"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := Setup("info", file, false); err == nil {
		t.Error("expected an error when the log directory is a file")
	}
}
