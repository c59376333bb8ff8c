package provider

import "testing"

func TestResolveKind(t *testing.T) {
	cases := []struct {
		model string
		want  Kind
	}{
		{"claude-sonnet-4-20250514", KindAnthropic},
		{"Claude-3-5-haiku-latest", KindAnthropic},
		{"gpt-4o", KindOpenAI},
		{"gpt-4.1-mini", KindOpenAI},
		{"o1-preview", KindOpenAI},
		{"o3-mini", KindOpenAI},
		{"o4-mini", KindOpenAI},
	}
	for _, tc := range cases {
		got, err := ResolveKind(tc.model)
		if err != nil {
			t.Fatalf("ResolveKind(%q): %v", tc.model, err)
		}
		if got != tc.want {
			t.Fatalf("ResolveKind(%q) = %q, want %q", tc.model, got, tc.want)
		}
	}
}

func TestResolveKindUnknown(t *testing.T) {
	if _, err := ResolveKind("mistral-large"); err == nil {
		t.Fatal("expected error for unknown model family")
	}
	if _, err := ResolveKind(""); err == nil {
		t.Fatal("expected error for empty model")
	}
}

func TestNewProvider(t *testing.T) {
	p, err := New(KindAnthropic, "key", "")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := p.(*AnthropicProvider); !ok {
		t.Fatalf("New(KindAnthropic) = %T", p)
	}
	p, err = New(KindOpenAI, "key", "")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := p.(*OpenAIProvider); !ok {
		t.Fatalf("New(KindOpenAI) = %T", p)
	}
	if _, err := New("bedrock", "key", ""); err == nil {
		t.Fatal("expected error for unsupported kind")
	}
}
