package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"strings"
	"testing"
)

// captureStdout replaces os.Stdout with a pipe, calls f, then returns the
// captured output and restores os.Stdout. It is NOT safe for parallel use
// because os.Stdout is a package-level variable.
func captureStdout(t *testing.T, f func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	orig := os.Stdout
	os.Stdout = w

	done := make(chan struct{})
	var buf bytes.Buffer
	go func() {
		io.Copy(&buf, r) //nolint:errcheck
		close(done)
	}()

	f()

	w.Close()
	<-done
	os.Stdout = orig
	r.Close()
	return buf.String()
}

// TestFormatJSON verifies that formatJSON emits indented JSON to stdout.
func TestFormatJSON(t *testing.T) {
	type sample struct {
		ID       int64  `json:"id"`
		Location string `json:"location"`
	}
	v := sample{ID: 7, Location: "Berlin Mitte"}

	got := captureStdout(t, func() { formatJSON(v) })

	// Must be valid JSON.
	var out sample
	if err := json.Unmarshal([]byte(got), &out); err != nil {
		t.Fatalf("output is not valid JSON: %v\noutput: %s", err, got)
	}
	if out.ID != 7 {
		t.Errorf("id: got %d, want 7", out.ID)
	}
	if out.Location != "Berlin Mitte" {
		t.Errorf("location: got %q, want %q", out.Location, "Berlin Mitte")
	}
	// Must be indented (contains newlines and spaces).
	if !strings.Contains(got, "\n") {
		t.Errorf("expected indented JSON but got: %s", got)
	}
}

// TestFormatJSONArray verifies an array value is valid JSON.
func TestFormatJSONArray(t *testing.T) {
	items := []map[string]string{{"a": "1"}, {"b": "2"}}
	got := captureStdout(t, func() { formatJSON(items) })

	var out []map[string]string
	if err := json.Unmarshal([]byte(got), &out); err != nil {
		t.Fatalf("output is not valid JSON array: %v\noutput: %s", err, got)
	}
	if len(out) != 2 {
		t.Errorf("expected 2 items, got %d", len(out))
	}
}

// TestFormatTable verifies column alignment and separator row.
func TestFormatTable(t *testing.T) {
	headers := []string{"ID", "LOCATION", "LEASED"}
	rows := [][]string{
		{"1", "Berlin", "true"},
		{"12", "Hamburg Hafencity", "false"},
	}

	got := captureStdout(t, func() { formatTable(headers, rows) })
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")

	// Expect: header, separator, row, row.
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), got)
	}

	// Header line must contain all header names.
	for _, h := range headers {
		if !strings.Contains(lines[0], h) {
			t.Errorf("header line missing %q: %s", h, lines[0])
		}
	}

	// Separator line must contain only dashes and spaces.
	sep := strings.TrimSpace(lines[1])
	for _, ch := range sep {
		if ch != '-' && ch != ' ' {
			t.Errorf("separator contains unexpected char %q: %s", ch, lines[1])
		}
	}

	// Data rows must contain cell values.
	if !strings.Contains(lines[2], "Berlin") {
		t.Errorf("row 0 missing location: %s", lines[2])
	}
	if !strings.Contains(lines[3], "Hamburg Hafencity") {
		t.Errorf("row 1 missing location: %s", lines[3])
	}
}

// TestFormatTableNumericAlignment verifies that all-numeric columns are
// right-aligned while text columns stay left-aligned.
func TestFormatTableNumericAlignment(t *testing.T) {
	headers := []string{"ID", "AMOUNT", "LOCATION"}
	rows := [][]string{
		{"1", "982350", "Berlin"},
		{"12", "2947050", "Hamburg"},
	}

	got := captureStdout(t, func() { formatTable(headers, rows) })
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), got)
	}

	// Width of ID is 2, AMOUNT is 7; short values pad on the left.
	if !strings.HasPrefix(lines[2], " 1   982350") {
		t.Errorf("numeric columns not right-aligned: %q", lines[2])
	}
	if !strings.HasPrefix(lines[3], "12  2947050") {
		t.Errorf("numeric columns not right-aligned: %q", lines[3])
	}

	// Text column keeps left alignment.
	if !strings.Contains(lines[2], "Berlin") {
		t.Errorf("row 0 missing location: %s", lines[2])
	}
}

// TestFormatQuiet verifies quiet output prints only the value.
func TestFormatQuiet(t *testing.T) {
	got := captureStdout(t, func() { formatQuiet("42") })
	if got != "42\n" {
		t.Errorf("got %q, want %q", got, "42\n")
	}
}
