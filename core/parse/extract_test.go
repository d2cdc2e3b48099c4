package parse

import (
	"testing"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "bare object", input: `{"a": 1}`, want: `{"a": 1}`},
		{name: "json fence", input: "```json\n{\"a\": 1}\n```", want: `{"a": 1}`},
		{name: "bare fence", input: "```\n{\"x\": 1}\n```", want: `{"x": 1}`},
		{name: "extra unbalanced fences", input: "```json\n{\"a\":1}\n```\n```", want: `{"a":1}`},
		{name: "fence after prose", input: "Sure:\n```json\n{\"a\": 1}\n```", want: `{"a": 1}`},
		{
			name:  "prose around nested object",
			input: "Here you go:\n{\"a\": {\"b\": [1, 2]}}\nThanks!",
			want:  `{"a": {"b": [1, 2]}}`,
		},
		{
			name:  "think trace with decoy object",
			input: "<think>{\"wrong\": true}</think>{\"right\": true}",
			want:  `{"right": true}`,
		},
		{
			name:  "reasoning trace spanning lines",
			input: "<reasoning>\nstep {1}\nstep 2\n</reasoning>\n{\"ok\": 1}",
			want:  `{"ok": 1}`,
		},
		{name: "array", input: "[1, 2, 3]", want: "[1, 2, 3]"},
		{
			name:  "array is not repaired",
			input: "Result: [\"a\",\n\"b\"] done",
			want:  "[\"a\",\n\"b\"]",
		},
		{name: "no delimiters", input: "no json here", want: "{}"},
		{name: "empty", input: "", want: "{}"},
		{name: "closer before opener", input: "} oops {", want: "{}"},
		{name: "closer before opener falls to array", input: "} [1] {", want: "[1]"},
		{name: "lone open brace", input: "{", want: "{}"},
		{name: "lone close brace", input: "}", want: "{}"},
		{
			name:  "pretty printed with newline inside string",
			input: "{\n  \"a\": \"line1\nline2\",\n  \"b\": 2\n}",
			want:  `{  "a": "line1\nline2",  "b": 2}`,
		},
		{name: "NUL inside string", input: "{\"a\": \"x\x00y\"}", want: `{"a": "xy"}`},
		{name: "C1 control inside string", input: "{\"a\": \"x\u0085y\u007fz\"}", want: `{"a": "xyz"}`},
		{name: "tab is a control character", input: "{\"a\":\t1}", want: `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractJSON(tt.input)
			if got != tt.want {
				t.Errorf("ExtractJSON(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExtractJSON_NeverEmpty(t *testing.T) {
	for _, input := range []string{"", " ", "```", "```json", "<think></think>", "\x00", "]["} {
		if got := ExtractJSON(input); got == "" {
			t.Errorf("ExtractJSON(%q) returned an empty string", input)
		}
	}
}

func TestStripReasoning(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "no tags", input: "plain", want: "plain"},
		{name: "think", input: "a<think>x</think>b", want: "ab"},
		{name: "reasoning", input: "a<reasoning>x</reasoning>b", want: "ab"},
		{name: "both kinds", input: "<think>1</think>a<reasoning>2</reasoning>b", want: "ab"},
		{name: "multi-line", input: "<think>\n1\n2\n</think>ok", want: "ok"},
		{name: "empty span", input: "<think></think>ok", want: "ok"},
		{name: "non-greedy", input: "<think>1</think>keep<think>2</think>", want: "keep"},
		{name: "unclosed", input: "<think>open", want: "<think>open"},
		{name: "does not trim", input: " <think>x</think> ", want: "  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripReasoning(tt.input); got != tt.want {
				t.Errorf("StripReasoning(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestEscapeStringNewlines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "newline in string", input: "\"a\nb\"", want: `"a\nb"`},
		{name: "several newlines in one string", input: "\"a\nb\nc\"", want: `"a\nb\nc"`},
		{name: "newline between tokens kept", input: "{\n\"a\": 1\n}", want: "{\n\"a\": 1\n}"},
		{name: "carriage return", input: "\"a\r\nb\"", want: `"a\r\nb"`},
		{name: "escaped quote does not close", input: "\"say \\\"hi\n\\\"\"", want: `"say \"hi\n\""`},
		{name: "backslash before raw newline", input: "\"a\\\nb\"", want: `"a\nb"`},
		{name: "no newline fast path", input: `{"a": "b"}`, want: `{"a": "b"}`},
		{name: "unicode untouched", input: "\"é\n日\"", want: `"é\n日"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EscapeStringNewlines(tt.input); got != tt.want {
				t.Errorf("EscapeStringNewlines(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStripControlChars(t *testing.T) {
	input := "a\x00b\x1fc\x7fd\u0080e\u009ff g"
	want := "abcdef g"
	if got := StripControlChars(input); got != want {
		t.Errorf("StripControlChars(%q) = %q, want %q", input, got, want)
	}
}
