package provider

import (
	"fmt"
	"strings"
)

// Kind identifies which provider API family serves a model. It is resolved
// once from the model identifier when an agent profile is loaded, not
// re-parsed per call.
type Kind string

const (
	KindAnthropic Kind = "anthropic"
	KindOpenAI    Kind = "openai"
)

// ResolveKind maps a model identifier to its provider kind by prefix.
func ResolveKind(model string) (Kind, error) {
	lower := strings.ToLower(strings.TrimSpace(model))
	switch {
	case strings.HasPrefix(lower, "claude"):
		return KindAnthropic, nil
	case strings.HasPrefix(lower, "gpt"), strings.HasPrefix(lower, "o1"),
		strings.HasPrefix(lower, "o3"), strings.HasPrefix(lower, "o4"):
		return KindOpenAI, nil
	default:
		return "", fmt.Errorf("unknown provider for model %q", model)
	}
}

// New creates a provider client for the given kind and credential.
func New(kind Kind, apiKey, apiBase string) (LLMProvider, error) {
	switch kind {
	case KindAnthropic:
		return NewAnthropicProvider(apiKey, apiBase), nil
	case KindOpenAI:
		return NewOpenAIProvider(apiKey, apiBase), nil
	default:
		return nil, fmt.Errorf("unsupported provider kind %q", kind)
	}
}
