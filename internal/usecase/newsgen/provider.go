// Package newsgen turns a topic into a short news article using one of several
// text-generation backends that share the same output contract.
package newsgen

import "strings"

// Provider selects the text-generation backend.
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOpenAI Provider = "openai"
	ProviderClaude Provider = "claude"
)

// ParseProvider maps a request value to a Provider. Unknown or empty values
// select Gemini.
func ParseProvider(s string) Provider {
	switch Provider(strings.ToLower(strings.TrimSpace(s))) {
	case ProviderOpenAI:
		return ProviderOpenAI
	case ProviderClaude, "anthropic":
		return ProviderClaude
	default:
		return ProviderGemini
	}
}

// CitesSources reports whether the backend is asked to list its sources.
// The Gemini path runs without a search tool, so it never does.
func (p Provider) CitesSources() bool {
	return p == ProviderOpenAI || p == ProviderClaude
}

func (p Provider) String() string { return string(p) }
