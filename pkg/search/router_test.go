package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestBuildOrderPrependsConfiguredProvider(t *testing.T) {
	t.Helper()

	cfg := (&Config{Provider: ProviderExa}).WithDefaults()
	order := buildOrder(cfg)
	if order[0] != ProviderExa {
		t.Fatalf("expected exa first, got %#v", order)
	}
	// The default fallbacks follow, deduped.
	if len(order) != len(DefaultFallbackOrder) {
		t.Fatalf("unexpected order: %#v", order)
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	t.Helper()

	if _, err := Search(context.Background(), Request{}, &Config{}); err == nil {
		t.Fatalf("expected error for empty query")
	}
}

func TestSearchFallsBackAcrossProviders(t *testing.T) {
	t.Helper()

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer failing.Close()
	working := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"results":[{"url":"https://example.com","title":"T","content":"c"}]}`))
	}))
	defer working.Close()

	// Exa (failing) is first in the chain, valyu (working) second.
	cfg := &Config{
		Provider:  ProviderExa,
		Fallbacks: []string{ProviderValyu},
		Exa:       ExaConfig{APIKey: "test-key", BaseURL: failing.URL},
		Valyu:     ValyuConfig{APIKey: "test-key", BaseURL: working.URL},
	}
	resp, err := Search(context.Background(), Request{Query: "test"}, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Provider != ProviderValyu {
		t.Fatalf("expected fallback to valyu, got %q", resp.Provider)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(resp.Results))
	}
}
