package observability

// Semantic conventions for observability attributes.
// These constants define standard attribute names to ensure consistency
// across different components of the system.

// --- LLM Provider Attributes ---

const (
	// AttrLLMProvider is the provider family tag (e.g., "openai", "ollama")
	AttrLLMProvider = "llm.provider"
)

// --- Parse Attributes ---

const (
	// AttrParseID correlates the log records emitted by one parse call
	AttrParseID = "parse.id"

	// AttrParseOutcome is the terminal state of a parse call (empty, direct, repaired, fallback)
	AttrParseOutcome = "parse.outcome"

	// AttrParseStage is the pipeline stage that produced an observation (parse_1, parse_2)
	AttrParseStage = "parse.stage"

	// AttrParseRepairer is the name of the second-chance repair strategy
	AttrParseRepairer = "parse.repairer"

	// AttrParseRawLength is the length in bytes of the original input text
	AttrParseRawLength = "parse.raw_length"

	// AttrParseCandidate is the extracted (or repaired) candidate JSON text, truncated
	AttrParseCandidate = "parse.candidate"

	// AttrParseRawResponse is the original input text, truncated
	AttrParseRawResponse = "parse.raw_response"

	// AttrParseFallbackSupplied tells whether the caller passed its own fallback
	AttrParseFallbackSupplied = "parse.fallback_supplied"
)

// --- General Attributes ---

const (
	// AttrError is the error message
	AttrError = "error"

	// AttrDuration is the operation duration
	AttrDuration = "duration"
)

// --- Metric Names ---

const (
	// MetricParseOutcomes counts parse calls by terminal outcome
	MetricParseOutcomes = "archmesh.parse.outcomes"

	// MetricParseDuration records parse call latency in milliseconds
	MetricParseDuration = "archmesh.parse.duration_ms"

	// MetricDecodeFailures counts provider envelope mismatches by provider
	MetricDecodeFailures = "archmesh.decode.failures"
)
