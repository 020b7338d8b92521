package logger

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_WritesFieldsAndSource(t *testing.T) {
	if err := SetLevelString("info"); err != nil {
		t.Fatalf("SetLevelString: %v", err)
	}
	var buf bytes.Buffer
	l := New(&buf, "text")

	l.Info(context.Background(), "answer recorded", String("role", "player"), Int("number", 7))

	out := buf.String()
	for _, want := range []string{"answer recorded", "role=player", "number=7", "source=", "logger_test.go"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestNew_JSONFormat(t *testing.T) {
	if err := SetLevelString("debug"); err != nil {
		t.Fatalf("SetLevelString: %v", err)
	}
	defer SetLevelString("info")

	var buf bytes.Buffer
	New(&buf, "json").Named("catalog").Debug(context.Background(), "fetch", String("path", "/x"))

	out := buf.String()
	for _, want := range []string{`"level":"debug"`, `"logger":"catalog"`, `"path":"/x"`, `"message":"fetch"`} {
		if !strings.Contains(out, want) {
			t.Errorf("JSON output %q missing %s", out, want)
		}
	}
}

func TestNamed_Nests(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "json").Named("survey").Named("navigator").Info(context.Background(), "moved",
		Error(errors.New("stale tick")), Bool("auto", true))

	out := buf.String()
	for _, want := range []string{`"logger":"survey.navigator"`, `"error":"stale tick"`, `"auto":true`} {
		if !strings.Contains(out, want) {
			t.Errorf("JSON output %q missing %s", out, want)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	if err := SetLevelString("warn"); err != nil {
		t.Fatalf("SetLevelString: %v", err)
	}
	defer SetLevelString("info")

	var buf bytes.Buffer
	l := New(&buf, "text")
	l.Info(context.Background(), "hidden")
	l.Warn(context.Background(), "shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Error("info message should be filtered at warn level")
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Error("warn message should be written")
	}
}

func TestSetLevelString_Unknown(t *testing.T) {
	if err := SetLevelString("verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestInit_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "sportsmind.log")
	if err := Init(Options{File: path, Level: "info"}); err != nil {
		t.Fatalf("Init: %v", err)
	}

	Named("test").Info(context.Background(), "to file")
	if err := Sync(); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "to file") {
		t.Errorf("log file missing message: %q", data)
	}
}

func TestGet_BeforeInit(t *testing.T) {
	if err := Sync(); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	// Must not panic.
	Get().Error(context.Background(), "discarded")
}
