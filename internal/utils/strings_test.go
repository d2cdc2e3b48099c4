package utils

import (
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

// TestJSONToString_Compact verifies that JSONToString produces compact JSON by default.
func TestJSONToString_Compact(t *testing.T) {
	input := map[string]int{"a": 1, "b": 2}
	result := JSONToString(input)

	// Must be valid JSON and must not contain a newline (compact mode).
	if strings.Contains(result, "\n") {
		t.Errorf("JSONToString() compact mode should not contain newlines, got: %q", result)
	}
	if !strings.Contains(result, `"a"`) {
		t.Errorf("JSONToString() result missing key 'a': %q", result)
	}
}

// TestJSONToString_Indented verifies that passing indent=true produces
// pretty-printed JSON with newlines.
func TestJSONToString_Indented(t *testing.T) {
	input := map[string]int{"x": 42}
	result := JSONToString(input, true)

	if !strings.Contains(result, "\n") {
		t.Errorf("JSONToString(indent=true) should contain newlines, got: %q", result)
	}
	if !strings.Contains(result, "  ") {
		t.Errorf("JSONToString(indent=true) should contain two-space indentation, got: %q", result)
	}
}

// TestJSONToString_MarshalError verifies that JSONToString returns an error
// sentinel string rather than panicking when the value cannot be marshaled.
func TestJSONToString_MarshalError(t *testing.T) {
	// Channels cannot be marshaled to JSON.
	input := make(chan int)
	result := JSONToString(input)

	if !strings.HasPrefix(result, `{"error":`) {
		t.Errorf("JSONToString() on unmarshalable value should return error JSON, got: %q", result)
	}
}

// TestTruncateString table-driven tests cover: string shorter than maxLen,
// string exactly at maxLen, string longer than maxLen, zero maxLen (uses
// DefaultMaxStringLength), and negative maxLen.
func TestTruncateString(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		maxLen int
		// wantTruncated indicates whether the result should contain the truncation suffix
		wantTruncated bool
	}{
		{
			name:          "shorter than maxLen returns unchanged",
			input:         "hello",
			maxLen:        10,
			wantTruncated: false,
		},
		{
			name:          "exactly at maxLen returns unchanged",
			input:         "hello",
			maxLen:        5,
			wantTruncated: false,
		},
		{
			name:          "longer than maxLen gets truncated",
			input:         "hello world",
			maxLen:        5,
			wantTruncated: true,
		},
		{
			name:          "zero maxLen uses DefaultMaxStringLength",
			input:         strings.Repeat("a", DefaultMaxStringLength+1),
			maxLen:        0,
			wantTruncated: true,
		},
		{
			name:          "negative maxLen uses DefaultMaxStringLength",
			input:         strings.Repeat("b", DefaultMaxStringLength+1),
			maxLen:        -1,
			wantTruncated: true,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			got := TruncateString(testCase.input, testCase.maxLen)

			hasSuffix := strings.Contains(got, "... (truncated, total:")
			if hasSuffix != testCase.wantTruncated {
				t.Errorf("TruncateString(%q, %d) truncated=%v, want truncated=%v; got %q",
					testCase.input, testCase.maxLen, hasSuffix, testCase.wantTruncated, got)
			}
		})
	}
}

// TestTruncateString_ContentPreserved verifies that the prefix before the
// ellipsis exactly matches the first maxLen characters of the input.
func TestTruncateString_ContentPreserved(t *testing.T) {
	input := "abcdefghij"
	got := TruncateString(input, 4)

	if !strings.HasPrefix(got, "abcd") {
		t.Errorf("TruncateString() should start with first 4 chars, got: %q", got)
	}
}

// TestTruncateStringDefault verifies that TruncateStringDefault delegates to
// TruncateString with DefaultMaxStringLength.
func TestTruncateStringDefault(t *testing.T) {
	// String shorter than the default: should be returned unchanged.
	short := "short"
	if got := TruncateStringDefault(short); got != short {
		t.Errorf("TruncateStringDefault(%q) = %q, want %q", short, got, short)
	}

	// String longer than the default: should be truncated.
	long := strings.Repeat("x", DefaultMaxStringLength+10)
	got := TruncateStringDefault(long)
	if !strings.Contains(got, "... (truncated, total:") {
		t.Errorf("TruncateStringDefault() should truncate long string, got: %q", got[:50])
	}
}

// TestTruncateString_RuneBoundary verifies that truncation never splits a
// multi-byte UTF-8 sequence.
func TestTruncateString_RuneBoundary(t *testing.T) {
	input := "abééé" // each é is two bytes
	got := TruncateString(input, 3)

	if !strings.HasPrefix(got, "ab...") {
		t.Errorf("TruncateString() should cut before the split rune, got: %q", got)
	}
	if !utf8.ValidString(got) {
		t.Errorf("TruncateString() produced invalid UTF-8: %q", got)
	}
}

func TestPrefix(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		maxBytes int
		want     string
	}{
		{"shorter than limit", "hello", 10, "hello"},
		{"exact limit", "hello", 5, "hello"},
		{"cut ascii", "hello world", 5, "hello"},
		{"zero limit", "hello", 0, ""},
		{"negative limit", "hello", -3, ""},
		{"cut inside rune backs off", "日本語", 4, "日"},
		{"cut on rune boundary", "日本語", 6, "日本"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			got := Prefix(testCase.input, testCase.maxBytes)
			if got != testCase.want {
				t.Errorf("Prefix(%q, %d) = %q, want %q", testCase.input, testCase.maxBytes, got, testCase.want)
			}
			if !strings.HasPrefix(testCase.input, got) {
				t.Errorf("Prefix(%q, %d) = %q is not a prefix of the input", testCase.input, testCase.maxBytes, got)
			}
		})
	}
}

func TestValueString(t *testing.T) {
	testCases := []struct {
		name  string
		input interface{}
		want  string
	}{
		{"nil", nil, ""},
		{"string", "direct", "direct"},
		{"bool", true, "true"},
		{"int", 42, "42"},
		{"int64", int64(-7), "-7"},
		{"float64", 1.5, "1.5"},
		{"error", errors.New("boom"), "boom"},
		{"duration stringer", 2 * time.Second, "2s"},
		{"other", []int{1, 2}, "[1 2]"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := ValueString(testCase.input); got != testCase.want {
				t.Errorf("ValueString(%v) = %q, want %q", testCase.input, got, testCase.want)
			}
		})
	}
}
