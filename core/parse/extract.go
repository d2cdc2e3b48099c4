package parse

import (
	"regexp"
	"strings"
)

const (
	fence          = "```"
	jsonFence      = "```json"
	emptyObjectRaw = "{}"
)

// reasoningPatterns match one reasoning trace each, tags included. Matching is
// non-greedy and spans lines, so repeated traces are removed one by one and an
// unclosed tag is left alone.
var reasoningPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?s)<think>.*?</think>`),
	regexp.MustCompile(`(?s)<reasoning>.*?</reasoning>`),
}

// StripReasoning removes every <think>...</think> and
// <reasoning>...</reasoning> span from text. It does not trim.
func StripReasoning(text string) string {
	for _, pattern := range reasoningPatterns {
		text = pattern.ReplaceAllString(text, "")
	}
	return text
}

// ExtractJSON returns the part of text most likely to be the JSON payload.
//
// Steps, in order:
//  1. a leading ```json (or bare ```) opener on the trimmed text is removed once;
//  2. every remaining ``` is removed;
//  3. reasoning traces are stripped;
//  4. the span from the first '{' to the last '}' is returned, with string
//     newlines escaped and control characters deleted; failing that, the span
//     from the first '[' to the last ']' is returned untouched; failing that,
//     "{}".
//
// It never returns "".
func ExtractJSON(text string) string {
	candidate, _ := extract(text)
	return candidate
}

// extract is ExtractJSON that also reports whether a boundary was found; the
// "{}" placeholder comes back with false.
func extract(text string) (string, bool) {
	text = strings.TrimSpace(text)
	switch {
	case strings.HasPrefix(text, jsonFence):
		text = strings.TrimPrefix(text, jsonFence)
	case strings.HasPrefix(text, fence):
		text = strings.TrimPrefix(text, fence)
	}
	text = strings.ReplaceAll(text, fence, "")
	text = StripReasoning(text)

	if candidate, ok := span(text, '{', '}'); ok {
		return StripControlChars(EscapeStringNewlines(candidate)), true
	}
	if candidate, ok := span(text, '[', ']'); ok {
		return candidate, true
	}
	return emptyObjectRaw, false
}

// span slices text from the first open to the last closer, inclusive. It
// fails when either is missing or the closer does not come after the opener.
func span(text string, open, closer byte) (string, bool) {
	start := strings.IndexByte(text, open)
	end := strings.LastIndexByte(text, closer)
	if start == -1 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

// EscapeStringNewlines rewrites literal line breaks inside double-quoted
// strings as \n (or \r) escape sequences. Line breaks between tokens are left
// alone.
func EscapeStringNewlines(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 8)
	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
			// A backslash directly before a raw break becomes \n or \r.
			if c == '\n' {
				b.WriteByte('n')
				continue
			}
			if c == '\r' {
				b.WriteByte('r')
				continue
			}
		case !inString:
			if c == '"' {
				inString = true
			}
		case c == '\\':
			escaped = true
		case c == '"':
			inString = false
		case c == '\n':
			b.WriteString(`\n`)
			continue
		case c == '\r':
			b.WriteString(`\r`)
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// StripControlChars deletes C0 (U+0000 to U+001F) and C1 (U+007F to U+009F)
// control characters.
func StripControlChars(s string) string {
	return strings.Map(func(r rune) rune {
		if r <= 0x1f || (r >= 0x7f && r <= 0x9f) {
			return -1
		}
		return r
	}, s)
}
