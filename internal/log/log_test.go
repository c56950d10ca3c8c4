package log

import (
	"bytes"
	"errors"
	stdlog "log"
	"strings"
	"testing"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(stdlog.New(&buf, "", 0))
	t.Cleanup(func() {
		SetOutput(stdlog.New(&bytes.Buffer{}, "", 0))
		SetLevel(LevelInfo)
	})
	return &buf
}

func TestInfoFormatsPairs(t *testing.T) {
	buf := capture(t)
	SetLevel(LevelInfo)

	Info("reservation created", "listing_id", "l1", "total", 300, "dangling")

	out := buf.String()
	if !strings.Contains(out, "[INFO] reservation created listing_id=l1 total=300") {
		t.Fatalf("unexpected line: %q", out)
	}
	if strings.Contains(out, "dangling") {
		t.Fatalf("odd trailing value should be dropped: %q", out)
	}
}

func TestLevelFiltering(t *testing.T) {
	buf := capture(t)
	SetLevel(LevelError)

	Debug("hidden")
	Info("hidden too")
	Error("shown", errors.New("boom"), "id", 7)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug/info should be filtered: %q", out)
	}
	if !strings.Contains(out, "[ERROR] shown err=boom id=7") {
		t.Fatalf("unexpected error line: %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{"debug": LevelDebug, " ERROR ": LevelError, "": LevelInfo, "verbose": LevelInfo}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}
