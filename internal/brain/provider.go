// Package brain talks to LLM providers. Its one job in hogwash is turning a
// watch history into foraged recommendations.
package brain

import (
	"context"
)

// Provider is one LLM backend that can answer a forage prompt.
type Provider interface {
	// Name is the config key of the backend, e.g. "gemini".
	Name() string

	// Available reports whether credentials are present.
	Available() bool

	Generate(ctx context.Context, req Request) (Response, error)
}

// Request carries the forage prompts.
type Request struct {
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
}

// Response is a provider reply. Raw holds the undecoded body for the event
// log when the recommendation JSON fails to parse.
type Response struct {
	Content string
	Model   string
	Raw     string
}

// ProviderManager picks which configured backend serves a forage.
type ProviderManager struct {
	providers []Provider
	preferred string
}

func NewProviderManager() *ProviderManager {
	return &ProviderManager{}
}

func (pm *ProviderManager) AddProvider(p Provider) {
	pm.providers = append(pm.providers, p)
}

// SetPreferred names the backend to try first. Unknown names fall back to
// registration order.
func (pm *ProviderManager) SetPreferred(name string) {
	pm.preferred = name
}

// Pick returns the backend for the next forage, or nil when none has
// credentials.
func (pm *ProviderManager) Pick() Provider {
	var first Provider
	for _, p := range pm.providers {
		if !p.Available() {
			continue
		}
		if p.Name() == pm.preferred {
			return p
		}
		if first == nil {
			first = p
		}
	}
	return first
}

// Ready lists the backends with credentials, in registration order.
func (pm *ProviderManager) Ready() []string {
	var names []string
	for _, p := range pm.providers {
		if p.Available() {
			names = append(names, p.Name())
		}
	}
	return names
}
