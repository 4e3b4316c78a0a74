package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLeveledLoggerLevels(t *testing.T) {
	tests := []struct {
		level     int
		wantDebug bool
		wantInfo  bool
		wantWarn  bool
	}{
		{level: 0},
		{level: 1, wantWarn: true},
		{level: 3, wantInfo: true, wantWarn: true},
		{level: 5, wantDebug: true, wantInfo: true, wantWarn: true},
		{level: 9, wantDebug: true, wantInfo: true, wantWarn: true},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		l := NewLeveledLogger(tt.level, &buf)
		l.Debug("debug %d", 1)
		l.Info("info %d", 2)
		l.Warn("warn %d", 3)
		l.Error("error %d", 4)

		out := buf.String()
		if got := strings.Contains(out, "debug 1"); got != tt.wantDebug {
			t.Errorf("level %d: debug logged = %v, want %v", tt.level, got, tt.wantDebug)
		}
		if got := strings.Contains(out, "info 2"); got != tt.wantInfo {
			t.Errorf("level %d: info logged = %v, want %v", tt.level, got, tt.wantInfo)
		}
		if got := strings.Contains(out, "warn 3"); got != tt.wantWarn {
			t.Errorf("level %d: warn logged = %v, want %v", tt.level, got, tt.wantWarn)
		}
		if !strings.Contains(out, "error 4") {
			t.Errorf("level %d: error should always be logged, got %q", tt.level, out)
		}
	}
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewLeveledLogger(0, &buf)
	l.Info("hidden")
	l.SetLevel(3)
	l.Info("shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Errorf("info should be dropped at level 0, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("info should be logged at level 3, got %q", buf.String())
	}
}

func TestInitializeWithFile(t *testing.T) {
	previous := Logger
	defer func() { Logger = previous }()

	path := filepath.Join(t.TempDir(), "server.log")
	closer := Initialize(Options{Level: 3, File: path})
	Info("written to %s", "file")
	if err := closer.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "written to file") {
		t.Errorf("log file should contain message, got %q", string(data))
	}
}
