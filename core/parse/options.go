package parse

import (
	"github.com/archmesh/archmesh/internal/utils"
	"github.com/archmesh/archmesh/providers/observability"
)

const (
	// DefaultRawResponseLimit bounds the raw_response prefix in the diagnostic
	// fallback mapping, in bytes.
	DefaultRawResponseLimit = utils.DefaultMaxStringLength

	// DefaultFallbackMessage is the error field of the diagnostic fallback
	// mapping.
	DefaultFallbackMessage = "Failed to parse LLM response"
)

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger parse diagnostics are written to. Without it, a
// logger attached to the call context (observability.ContextWithLogger) is
// used, and otherwise nothing is logged.
func WithLogger(logger observability.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
			p.explicitLogger = true
		}
	}
}

// WithMetrics sets the metrics sink for outcome counters and latency.
func WithMetrics(metrics observability.Metrics) Option {
	return func(p *Parser) {
		if metrics != nil {
			p.metrics = metrics
		}
	}
}

// WithObserver sets both the logger and the metrics sink.
func WithObserver(provider observability.Provider) Option {
	return func(p *Parser) {
		WithLogger(provider)(p)
		WithMetrics(provider)(p)
	}
}

// WithRepairer replaces the second-chance repair strategy.
func WithRepairer(repairer Repairer) Option {
	return func(p *Parser) {
		if repairer != nil {
			p.repairer = repairer
		}
	}
}

// WithRawResponseLimit bounds, in bytes, the prefix of the input kept in the
// diagnostic fallback mapping. Non-positive values keep the default.
func WithRawResponseLimit(limit int) Option {
	return func(p *Parser) {
		if limit > 0 {
			p.rawResponseLimit = limit
		}
	}
}

// WithFallbackMessage sets the error field of the diagnostic fallback mapping.
func WithFallbackMessage(message string) Option {
	return func(p *Parser) {
		if message != "" {
			p.fallbackMessage = message
		}
	}
}
