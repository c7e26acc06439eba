package ai

import "strings"

// ProviderName represents an AI provider identifier
type ProviderName string

// Provider name constants
const (
	ProviderNameAzure  ProviderName = "azure"
	ProviderNameOpenAI ProviderName = "openai"
	ProviderNameGoogle ProviderName = "gemini"
)

// String returns the string representation of the provider name
func (p ProviderName) String() string {
	return string(p)
}

// IsValid checks if the provider name is supported
func (p ProviderName) IsValid() bool {
	switch p {
	case ProviderNameAzure, ProviderNameOpenAI, ProviderNameGoogle:
		return true
	default:
		return false
	}
}

// AllProviderNames returns all supported provider names
func AllProviderNames() []ProviderName {
	return []ProviderName{
		ProviderNameAzure,
		ProviderNameOpenAI,
		ProviderNameGoogle,
	}
}

// NormalizeProviderName makes provider lookup more forgiving.
func NormalizeProviderName(name string) ProviderName {
	return ProviderName(strings.ToLower(strings.TrimSpace(name)))
}
