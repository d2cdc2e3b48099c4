// Package slogobs provides an observability.Provider backed by log/slog.
//
// Records are written by a small slog.Handler in one of two layouts: compact
// single-line text for terminals or JSON for log aggregation. Counters and
// histograms are kept in memory and echoed at DEBUG level, which is enough to
// follow parse outcomes while debugging without a metrics backend.
//
// The main entry point is [New]; output format and log level can be tuned with
// [WithFormat], [WithLevel], [WithOutput], [WithColors], and [WithLogger], or
// through ARCHMESH_LOG_FORMAT and ARCHMESH_LOG_LEVEL.
package slogobs
