// Package parse turns raw LLM provider output into JSON values that
// downstream builders can trust syntactically.
//
// The pipeline has four parts, each usable on its own:
//
//   - [Decode] unwraps the answer text from a provider envelope
//     (OpenAI-style choices, Anthropic-style content blocks, Ollama chat or
//     completion bodies).
//   - [ExtractJSON] cleans markdown fences and reasoning traces and slices out
//     the outermost object or array.
//   - [RepairJSON] applies ordered, named rewrites ([DefaultRewrites]) to
//     near-miss JSON.
//   - [Parser.Parse] orchestrates extract, parse, one repair attempt and the
//     fallback value. It never fails on malformed model output.
//
// Typed callers use [As] to land the parsed value in a struct, with the same
// recovery steps and an explicit error instead of a fallback.
//
// A [Parser] holds no mutable state and never blocks; a single instance may
// be shared across goroutines. Diagnostics go through an injected
// observability.Logger, never a global logger.
package parse
