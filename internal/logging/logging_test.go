package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("warn", false, &buf)
	l.Infof("hidden %d", 1)
	l.Warnf("shown %d", 2)
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line should be filtered: %q", out)
	}
	if !strings.Contains(out, "WARN\tshown 2") {
		t.Fatalf("missing warn line: %q", out)
	}
}

func TestLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("debug", true, &buf)
	l.Debugf("cache miss %s", "k")
	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("invalid json %q: %v", buf.String(), err)
	}
	if payload["level"] != "debug" || payload["msg"] != "cache miss k" {
		t.Fatalf("unexpected payload: %v", payload)
	}
}

func TestDiscardAndNilSafe(t *testing.T) {
	Discard().Errorf("nothing")
	var l *Logger
	l.Infof("nil logger must not panic")
	if err := l.Close(); err != nil {
		t.Fatalf("Close on nil: %v", err)
	}
}

func TestNewFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "logs", "gitnr.log")
	l, err := NewFile("info", false, p)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	l.Infof("hello")
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(b), "INFO\thello") {
		t.Fatalf("log file content = %q", b)
	}
}
