package parse

import (
	"fmt"
	"strings"
)

// DecodeOpenAI reads choices[0].message.content. A null content (tool-call
// turns) decodes to "".
func DecodeOpenAI(response RawResponse) (string, error) {
	choices, err := listAt(ProviderOpenAI, response, "choices")
	if err != nil {
		return "", err
	}
	choice, err := mapIn(ProviderOpenAI, choices, 0, "choices[0]")
	if err != nil {
		return "", err
	}
	message, err := mapAt(ProviderOpenAI, choice, "message", "choices[0].message")
	if err != nil {
		return "", err
	}
	return stringAt(ProviderOpenAI, message, "content", "choices[0].message.content")
}

// DecodeAnthropic reads content[0].text.
func DecodeAnthropic(response RawResponse) (string, error) {
	blocks, err := listAt(ProviderAnthropic, response, "content")
	if err != nil {
		return "", err
	}
	block, err := mapIn(ProviderAnthropic, blocks, 0, "content[0]")
	if err != nil {
		return "", err
	}
	return stringAt(ProviderAnthropic, block, "text", "content[0].text")
}

// DecodeOllama prefers message.content when a "message" key exists and falls
// back to the legacy "response" field otherwise. It never fails: missing or
// mistyped fields decode to "". Reasoning traces are stripped and the result
// is trimmed.
func DecodeOllama(response RawResponse) (string, error) {
	var text string
	if raw, ok := response["message"]; ok {
		message, _ := raw.(map[string]any)
		text, _ = message["content"].(string)
	} else {
		text, _ = response["response"].(string)
	}
	return strings.TrimSpace(StripReasoning(text)), nil
}

func mismatch(provider Provider, path, problem string) error {
	return fmt.Errorf("%w: %s: %s %s", ErrEnvelopeMismatch, provider, path, problem)
}

func listAt(provider Provider, m map[string]any, key string) ([]any, error) {
	raw, ok := m[key]
	if !ok {
		return nil, mismatch(provider, key, "is missing")
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, mismatch(provider, key, fmt.Sprintf("is %T, not a list", raw))
	}
	return list, nil
}

func mapIn(provider Provider, list []any, index int, path string) (map[string]any, error) {
	if index >= len(list) {
		return nil, mismatch(provider, path, "is out of range")
	}
	m, ok := list[index].(map[string]any)
	if !ok {
		return nil, mismatch(provider, path, fmt.Sprintf("is %T, not an object", list[index]))
	}
	return m, nil
}

func mapAt(provider Provider, m map[string]any, key, path string) (map[string]any, error) {
	raw, ok := m[key]
	if !ok {
		return nil, mismatch(provider, path, "is missing")
	}
	inner, ok := raw.(map[string]any)
	if !ok {
		return nil, mismatch(provider, path, fmt.Sprintf("is %T, not an object", raw))
	}
	return inner, nil
}

func stringAt(provider Provider, m map[string]any, key, path string) (string, error) {
	raw, ok := m[key]
	if !ok {
		return "", mismatch(provider, path, "is missing")
	}
	switch value := raw.(type) {
	case nil:
		return "", nil
	case string:
		return value, nil
	default:
		return "", mismatch(provider, path, fmt.Sprintf("is %T, not a string", raw))
	}
}
