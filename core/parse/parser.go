package parse

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"github.com/archmesh/archmesh/internal/utils"
	"github.com/archmesh/archmesh/providers/observability"
)

var errNoBoundary = errors.New("parse: no JSON object or array in text")

// Outcome is the terminal state of one parse call.
type Outcome string

const (
	// OutcomeEmpty means the input was empty and {} was returned.
	OutcomeEmpty Outcome = "empty"
	// OutcomeDirect means the extracted candidate parsed on the first try.
	OutcomeDirect Outcome = "direct"
	// OutcomeRepaired means the candidate parsed after the repair pass.
	OutcomeRepaired Outcome = "repaired"
	// OutcomeFallback means both attempts failed and a fallback was returned.
	OutcomeFallback Outcome = "fallback"
	// OutcomeFailed means both attempts failed and the caller got an error.
	OutcomeFailed Outcome = "failed"
)

// Parser runs the extract, parse, repair, fallback pipeline over raw model
// output. It is immutable after New and safe for concurrent use.
type Parser struct {
	logger           observability.Logger
	explicitLogger   bool
	metrics          observability.Metrics
	repairer         Repairer
	rawResponseLimit int
	fallbackMessage  string
}

// New creates a Parser. Without options it logs nothing, records no metrics
// and repairs with the heuristic rewrites.
func New(opts ...Option) *Parser {
	p := &Parser{
		logger:           observability.Nop(),
		metrics:          observability.Nop(),
		repairer:         HeuristicRepairer{},
		rawResponseLimit: DefaultRawResponseLimit,
		fallbackMessage:  DefaultFallbackMessage,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var defaultParser = New()

// Parse runs the default Parser. See [Parser.Parse].
func Parse(ctx context.Context, text string, fallback map[string]any) any {
	return defaultParser.Parse(ctx, text, fallback)
}

// ParseObject runs the default Parser. See [Parser.ParseObject].
func ParseObject(ctx context.Context, text string, fallback map[string]any) map[string]any {
	return defaultParser.ParseObject(ctx, text, fallback)
}

// Parse turns raw model text into a JSON value: a map[string]any for objects
// or a []any for arrays.
//
// Empty text yields an empty map. Otherwise the candidate from [ExtractJSON]
// is parsed; if that fails it is repaired once and parsed again. If that
// fails too, or if the text holds no '{'...'}' or '['...']' span at all, a
// deep copy of fallback is returned, or, when fallback is nil, a mapping
// with an "error" message and a bounded "raw_response" prefix of text. Parse
// errors are logged, never returned, and Parse does not panic on any input.
func (p *Parser) Parse(ctx context.Context, text string, fallback map[string]any) any {
	timer := utils.NewTimer()
	value, outcome, err := p.run(ctx, text)
	if err != nil {
		outcome = OutcomeFallback
		value = p.fallbackValue(ctx, text, fallback, err)
	}
	p.record(ctx, outcome, timer)
	return value
}

// ParseObject is Parse restricted to objects: a candidate that parses to
// anything other than a JSON object is handled like a parse failure.
func (p *Parser) ParseObject(ctx context.Context, text string, fallback map[string]any) map[string]any {
	timer := utils.NewTimer()
	value, outcome, err := p.run(ctx, text)
	object, isObject := value.(map[string]any)
	if err == nil && !isObject {
		err = errors.New("parse: decoded value is not a JSON object")
	}
	if err != nil {
		outcome = OutcomeFallback
		object = p.fallbackValue(ctx, text, fallback, err)
	}
	p.record(ctx, outcome, timer)
	return object
}

// ParseResponse decodes a provider body with [Decode] and parses the answer
// text with Parse. Envelope errors from strict providers are returned; once
// decoding succeeds the result follows Parse and err is nil.
func (p *Parser) ParseResponse(ctx context.Context, provider Provider, response RawResponse, fallback map[string]any) (any, error) {
	text, err := Decode(provider, response)
	if err != nil {
		p.metrics.Counter(observability.MetricDecodeFailures).Add(ctx, 1,
			observability.String(observability.AttrLLMProvider, provider.String()))
		p.loggerFor(ctx).Warn(ctx, "Could not decode provider response",
			observability.String(observability.AttrLLMProvider, provider.String()),
			observability.Error(err),
		)
		return nil, err
	}
	return p.Parse(ctx, text, fallback), nil
}

// run is the shared pipeline. It returns the decoded value and how it was
// obtained, or the post-repair parse error.
func (p *Parser) run(ctx context.Context, text string) (any, Outcome, error) {
	if text == "" {
		return map[string]any{}, OutcomeEmpty, nil
	}

	logger := p.loggerFor(ctx)
	candidate, found := extract(text)
	if !found {
		logger.Debug(ctx, "No JSON boundary in LLM response",
			observability.Int(observability.AttrParseRawLength, len(text)),
		)
		return nil, OutcomeFailed, errNoBoundary
	}

	value, firstErr := unmarshal(candidate)
	if firstErr == nil {
		logger.Trace(ctx, "Parsed LLM response",
			observability.String(observability.AttrParseOutcome, string(OutcomeDirect)),
			observability.Int(observability.AttrParseRawLength, len(text)),
		)
		return value, OutcomeDirect, nil
	}

	parseID := uuid.NewString()
	logger.Debug(ctx, "First parse attempt failed, repairing",
		observability.String(observability.AttrParseID, parseID),
		observability.String(observability.AttrParseStage, "parse_1"),
		observability.String(observability.AttrParseRepairer, p.repairer.Name()),
		observability.Text(observability.AttrParseCandidate, candidate),
		observability.Error(firstErr),
	)

	repaired, repairErr := p.repairer.Repair(candidate)
	if repairErr != nil {
		return nil, OutcomeFailed, p.logSecondFailure(ctx, parseID, candidate, repairErr)
	}

	value, secondErr := unmarshal(repaired)
	if secondErr != nil {
		return nil, OutcomeFailed, p.logSecondFailure(ctx, parseID, repaired, secondErr)
	}

	logger.Info(ctx, "Recovered LLM response with repair",
		observability.String(observability.AttrParseID, parseID),
		observability.String(observability.AttrParseOutcome, string(OutcomeRepaired)),
		observability.String(observability.AttrParseRepairer, p.repairer.Name()),
	)
	return value, OutcomeRepaired, nil
}

func (p *Parser) logSecondFailure(ctx context.Context, parseID, candidate string, err error) error {
	p.loggerFor(ctx).Debug(ctx, "Repaired parse attempt failed",
		observability.String(observability.AttrParseID, parseID),
		observability.String(observability.AttrParseStage, "parse_2"),
		observability.Text(observability.AttrParseCandidate, candidate),
		observability.Error(err),
	)
	return err
}

// fallbackValue picks the caller's fallback or builds the diagnostic mapping.
func (p *Parser) fallbackValue(ctx context.Context, text string, fallback map[string]any, err error) map[string]any {
	p.loggerFor(ctx).Warn(ctx, "Could not parse LLM response, using fallback",
		observability.String(observability.AttrParseOutcome, string(OutcomeFallback)),
		observability.Bool(observability.AttrParseFallbackSupplied, fallback != nil),
		observability.Int(observability.AttrParseRawLength, len(text)),
		observability.Text(observability.AttrParseRawResponse, text),
		observability.Error(err),
	)
	if fallback != nil {
		return utils.CloneMap(fallback)
	}
	return map[string]any{
		"error":        p.fallbackMessage,
		"raw_response": utils.Prefix(text, p.rawResponseLimit),
	}
}

func (p *Parser) record(ctx context.Context, outcome Outcome, timer *utils.Timer) {
	timer.Stop()
	if observability.IsNop(p.metrics) {
		return
	}
	attr := observability.String(observability.AttrParseOutcome, string(outcome))
	p.metrics.Counter(observability.MetricParseOutcomes).Add(ctx, 1, attr)
	p.metrics.Histogram(observability.MetricParseDuration).Record(ctx, timer.Millis(), attr)
}

// loggerFor prefers the configured logger, then one carried by ctx.
func (p *Parser) loggerFor(ctx context.Context) observability.Logger {
	if p.explicitLogger {
		return p.logger
	}
	if logger := observability.LoggerFromContext(ctx); logger != nil {
		return logger
	}
	return p.logger
}

func unmarshal(candidate string) (any, error) {
	var value any
	if err := json.Unmarshal([]byte(candidate), &value); err != nil {
		return nil, err
	}
	return value, nil
}
