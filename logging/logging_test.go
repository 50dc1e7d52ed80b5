package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"debug", false},
		{"INFO", false},
		{"", false},
		{"warning", false},
		{"error", false},
		{"loud", true},
	}
	for _, tt := range tests {
		_, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) err = %v", tt.in, err)
		}
	}
}

func TestNew_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, "warn")
	if err != nil {
		t.Fatal(err)
	}
	l.Info("quiet")
	l.Warn("loud", "quest", "abc")

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Error("info should be filtered at warn level")
	}
	if !strings.Contains(out, "loud") || !strings.Contains(out, "quest=abc") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestOpen_AppendsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "beatquest.log")
	l, c, err := Open(path, "info")
	if err != nil {
		t.Fatal(err)
	}
	l.Info("quest offered")
	c.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "quest offered") {
		t.Errorf("log file missing entry: %q", data)
	}
}

func TestOpen_EmptyPathDiscards(t *testing.T) {
	l, c, err := Open("", "debug")
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	l.Info("dropped")

	if _, _, err := Open("", "nope"); err == nil {
		t.Error("bad level should still fail")
	}
}

func TestOrDiscard(t *testing.T) {
	if OrDiscard(nil) == nil {
		t.Fatal("expected a logger")
	}
	l := Discard()
	if OrDiscard(l) != l {
		t.Error("non-nil logger should pass through")
	}
}
