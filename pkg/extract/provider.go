package extract

import (
	"context"
	"fmt"
)

// Provider extracts readable content for a batch of URLs.
type Provider interface {
	Name() string
	Extract(ctx context.Context, urls []string, req Request) (*BatchResponse, error)
}

// ProviderError reports a failure signaled inside an otherwise well-formed
// provider response body.
type ProviderError struct {
	Provider string
	Message  string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

// Registry stores named providers.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

// Register adds or replaces a provider by name.
func (r *Registry) Register(provider Provider) {
	if r == nil || provider == nil {
		return
	}
	if r.providers == nil {
		r.providers = make(map[string]Provider)
	}
	r.providers[provider.Name()] = provider
}

// Get returns a provider by name.
func (r *Registry) Get(name string) Provider {
	if r == nil {
		return nil
	}
	return r.providers[name]
}

// Names returns registered provider names.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	out := make([]string, 0, len(r.providers))
	for name := range r.providers {
		out = append(out, name)
	}
	return out
}

func registerProviders(registry *Registry, cfg *Config) {
	if registry == nil || cfg == nil {
		return
	}
	if p := newValyuProvider(cfg); p != nil {
		registry.Register(p)
	}
	if p := newExaProvider(cfg); p != nil {
		registry.Register(p)
	}
	if p := newDirectProvider(cfg); p != nil {
		registry.Register(p)
	}
}
