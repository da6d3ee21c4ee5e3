package extract

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/beeper/web-retrieval/pkg/shared/valyu"
)

func newTestValyuProvider(t *testing.T, serverURL string) *valyuProvider {
	t.Helper()
	client, err := valyu.NewClient("test-key", serverURL, 5)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return &valyuProvider{cfg: ValyuConfig{APIKey: "test-key", BaseURL: serverURL}, client: client}
}

func TestValyuProviderExtractSendsTuning(t *testing.T) {
	t.Helper()

	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "test-key" {
			t.Fatalf("missing api key header")
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"results":[{"url":"https://example.com","content":"hello","metadata":{"title":"Example"}}]}`))
	}))
	defer server.Close()

	provider := newTestValyuProvider(t, server.URL)
	resp, err := provider.Extract(context.Background(),
		[]string{"https://example.com"},
		Request{ResponseLength: LengthMedium, ExtractEffort: EffortHigh},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotBody["response_length"] != "medium" {
		t.Fatalf("expected response_length=medium, got %#v", gotBody["response_length"])
	}
	if gotBody["extraction_effort"] != "high" {
		t.Fatalf("expected extraction_effort=high, got %#v", gotBody["extraction_effort"])
	}
	urls, ok := gotBody["urls"].([]any)
	if !ok || len(urls) != 1 || urls[0] != "https://example.com" {
		t.Fatalf("unexpected urls payload: %#v", gotBody["urls"])
	}

	if len(resp.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(resp.Results))
	}
	if resp.Results[0].Content != "hello" {
		t.Fatalf("unexpected content: %q", resp.Results[0].Content)
	}
	metadata, ok := resp.Results[0].Metadata.(map[string]any)
	if !ok || metadata["title"] != "Example" {
		t.Fatalf("unexpected metadata: %#v", resp.Results[0].Metadata)
	}
}

func TestValyuProviderExtractFailureFlag(t *testing.T) {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":false,"error":"invalid API key"}`))
	}))
	defer server.Close()

	provider := newTestValyuProvider(t, server.URL)
	_, err := provider.Extract(context.Background(), []string{"https://example.com"}, Request{})
	if err == nil {
		t.Fatalf("expected error")
	}
	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected ProviderError, got %T: %v", err, err)
	}
	if provErr.Message != "invalid API key" {
		t.Fatalf("unexpected message: %q", provErr.Message)
	}
}

func TestNewValyuProviderRequiresKey(t *testing.T) {
	t.Helper()

	if p := newValyuProvider((&Config{}).WithDefaults()); p != nil {
		t.Fatalf("expected nil provider without an API key")
	}
}
