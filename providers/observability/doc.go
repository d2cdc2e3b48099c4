// Package observability defines the logging and metrics interfaces the
// response parser is instrumented against, plus the semantic conventions used
// when recording observations.
//
// Nothing in the parser reads a process-wide logger. Callers inject a
// [Provider], a [Logger] or a [Metrics] implementation explicitly, or attach a
// [Logger] to a [context.Context] with [ContextWithLogger]. When nothing is
// supplied the [Nop] provider discards everything.
//
// Concrete backends live in sub-packages: slogobs (log/slog), zapobs (zap)
// and promobs (Prometheus).
package observability
