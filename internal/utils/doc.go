// Package utils provides small shared helpers used by the parser and its
// tooling: rune-safe truncation of raw model output for logs and diagnostics,
// deep copies of decoded JSON values, JSON stringification and an
// elapsed-time timer.
//
// Key entry points: [Prefix] and [TruncateString] for bounding text,
// [CloneJSON] for handing out values the caller may mutate, and [Timer] for
// measuring latency.
package utils
