package parse

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Provider identifies a family of LLM response envelopes.
type Provider string

const (
	// ProviderOpenAI covers chat-completions style bodies:
	// {"choices":[{"message":{"content": ...}}]}.
	ProviderOpenAI Provider = "openai"

	// ProviderAnthropic covers messages style bodies:
	// {"content":[{"text": ...}]}.
	ProviderAnthropic Provider = "anthropic"

	// ProviderOllama covers self-hosted chat ({"message":{"content": ...}})
	// and legacy completion ({"response": ...}) bodies.
	ProviderOllama Provider = "ollama"
)

// RawResponse is a provider response body already deserialized from JSON.
// Decoders only read it.
type RawResponse = map[string]any

// decodeFunc extracts the answer text from one envelope family.
type decodeFunc func(response RawResponse) (string, error)

// decoders is the dispatch table. A new provider is a new constant plus an
// entry here.
var decoders = map[Provider]decodeFunc{
	ProviderOpenAI:    DecodeOpenAI,
	ProviderAnthropic: DecodeAnthropic,
	ProviderOllama:    DecodeOllama,
}

// ParseProvider maps a provider tag to a Provider. It accepts the canonical
// names and their "-style" aliases ("openai-style", ...), case-insensitively.
func ParseProvider(tag string) (Provider, error) {
	normalized := strings.ToLower(strings.TrimSpace(tag))
	normalized = strings.TrimSuffix(normalized, "-style")
	p := Provider(normalized)
	if _, ok := decoders[p]; !ok {
		return "", fmt.Errorf("%w: %q (known: %s)", ErrUnsupportedProvider, tag, strings.Join(KnownProviders(), ", "))
	}
	return p, nil
}

// KnownProviders lists the supported provider tags in sorted order.
func KnownProviders() []string {
	names := make([]string, 0, len(decoders))
	for p := range decoders {
		names = append(names, string(p))
	}
	sort.Strings(names)
	return names
}

// String returns the provider tag.
func (p Provider) String() string {
	return string(p)
}

// Decode extracts the textual answer from a provider response.
//
// OpenAI and Anthropic envelopes are strict: a body that does not match
// returns an error wrapping [ErrEnvelopeMismatch]. Ollama bodies are lenient
// and decode to "" when no answer field is present. An unknown provider
// returns an error wrapping [ErrUnsupportedProvider].
func Decode(provider Provider, response RawResponse) (string, error) {
	decode, ok := decoders[provider]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedProvider, string(provider))
	}
	return decode(response)
}

// DecodeBytes unmarshals a wire body and decodes it with [Decode]. A body
// that is not a JSON object is an envelope mismatch.
func DecodeBytes(provider Provider, body []byte) (string, error) {
	if _, ok := decoders[provider]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedProvider, string(provider))
	}
	var response RawResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("%w: %s: body is not a JSON object: %v", ErrEnvelopeMismatch, provider, err)
	}
	return Decode(provider, response)
}
