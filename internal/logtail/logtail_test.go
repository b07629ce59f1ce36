package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zapcore"
)

func TestRead(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}

	if err := os.WriteFile(logPath, []byte(content.String()), 0o644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{name: "read all (0)", maxLines: 0, expected: expectedAll},
		{name: "read all (negative)", maxLines: -1, expected: expectedAll},
		{name: "read partial (5)", maxLines: 5, expected: expectedAll[5:]},
		{name: "read exactly all (10)", maxLines: 10, expected: expectedAll},
		{name: "read more than exists (20)", maxLines: 20, expected: expectedAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "nope.log"), 10)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("Read() = %v, want no lines", got)
	}
}

func TestParse(t *testing.T) {
	line := `{"level":"warn","ts":"2025-10-08T21:01:05.000Z","logger":"telly.browser","msg":"search failed","query":"lost","caller":"browser/browser.go:10"}`

	e := Parse(line)
	if !e.Parsed {
		t.Fatalf("Parse() Parsed = false, want true")
	}
	if e.Level != zapcore.WarnLevel {
		t.Fatalf("Level = %v, want warn", e.Level)
	}
	if e.Logger != "telly.browser" || e.Message != "search failed" {
		t.Fatalf("Logger/Message = %q/%q", e.Logger, e.Message)
	}
	want := time.Date(2025, 10, 8, 21, 1, 5, 0, time.UTC)
	if !e.Time.Equal(want) {
		t.Fatalf("Time = %v, want %v", e.Time, want)
	}
	if len(e.Fields) != 1 || e.Fields["query"] != "lost" {
		t.Fatalf("Fields = %v, want only query", e.Fields)
	}
	if got := e.String(); !strings.Contains(got, "WARN  [telly.browser] search failed query=lost") {
		t.Fatalf("String() = %q", got)
	}
}

func TestParse_NotJSON(t *testing.T) {
	e := Parse("plain text")
	if e.Parsed {
		t.Fatalf("Parse() Parsed = true, want false")
	}
	if e.String() != "plain text" {
		t.Fatalf("String() = %q, want raw line", e.String())
	}
}

func TestFormat_FiltersByLevel(t *testing.T) {
	lines := []string{
		`{"level":"debug","msg":"cache hit"}`,
		``,
		`{"level":"info","msg":"starting ui"}`,
		`{"level":"error","msg":"boom","error":"x"}`,
	}

	got := Format(lines, zapcore.InfoLevel)
	want := []string{"INFO  starting ui", "ERROR boom error=x"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Format() = %q, want %q", got, want)
	}
}
