package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

// valyuOnlyConfig pins the provider chain to valyu so tests never fall back
// to live keyless providers.
func valyuOnlyConfig(serverURL string) *Config {
	return &Config{
		Provider:  ProviderValyu,
		Fallbacks: []string{ProviderValyu},
		Valyu:     ValyuConfig{APIKey: "test-key", BaseURL: serverURL},
	}
}

func TestLookupReturnsEmptyOnTransportError(t *testing.T) {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer server.Close()

	results := Lookup(context.Background(), Request{Query: "test"}, valyuOnlyConfig(server.URL))
	if len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
}

func TestLookupReturnsEmptyOnFailureFlag(t *testing.T) {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":false,"error":"bad request"}`))
	}))
	defer server.Close()

	results := Lookup(context.Background(), Request{Query: "test"}, valyuOnlyConfig(server.URL))
	if len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
}

func TestLookupReturnsEmptyWithoutProviders(t *testing.T) {
	t.Helper()

	disabled := false
	cfg := &Config{
		Provider:  ProviderValyu,
		Fallbacks: []string{ProviderValyu},
		Valyu:     ValyuConfig{Enabled: &disabled},
	}
	results := Lookup(context.Background(), Request{Query: "test"}, cfg)
	if len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
}

func TestLookupAppliesDomainFilter(t *testing.T) {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"results":[
			{"url":"https://docs.example.com/a","title":"A","content":"a"},
			{"url":"https://other.org/b","title":"B","content":"b"}
		]}`))
	}))
	defer server.Close()

	results := Lookup(context.Background(), Request{
		Query:      "test",
		FilterList: []string{"example.com"},
	}, valyuOnlyConfig(server.URL))
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Link != "https://docs.example.com/a" {
		t.Fatalf("unexpected result: %#v", results[0])
	}

	results = Lookup(context.Background(), Request{
		Query:      "test",
		FilterList: []string{"nomatch.net"},
	}, valyuOnlyConfig(server.URL))
	if len(results) != 0 {
		t.Fatalf("expected filter to drop everything, got %d results", len(results))
	}
}
