package valyu

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewClientRequiresKey(t *testing.T) {
	t.Helper()

	if _, err := NewClient("  ", "", 0); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestClientContents(t *testing.T) {
	t.Helper()

	var gotBody map[string]any
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if r.Header.Get("x-api-key") != "test-key" {
			t.Fatalf("missing api key header")
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"tx_id":"tx-1","results":[{"url":"https://example.com","content":"text","length":4}]}`))
	}))
	defer server.Close()

	client, err := NewClient("test-key", server.URL, 5)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	resp, err := client.Contents(context.Background(), ContentsRequest{
		URLs:           []string{"https://example.com"},
		ResponseLength: "max",
		ExtractEffort:  "auto",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/contents" {
		t.Fatalf("unexpected path: %q", gotPath)
	}
	if gotBody["response_length"] != "max" || gotBody["extraction_effort"] != "auto" {
		t.Fatalf("unexpected body: %#v", gotBody)
	}
	if !resp.Success || resp.TxID != "tx-1" || len(resp.Results) != 1 {
		t.Fatalf("unexpected response: %#v", resp)
	}
}

func TestClientContentsRequiresURLs(t *testing.T) {
	t.Helper()

	client, err := NewClient("test-key", "", 0)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := client.Contents(context.Background(), ContentsRequest{}); err == nil {
		t.Fatalf("expected error for empty url list")
	}
}

func TestClientSearchDecodesStructuredHits(t *testing.T) {
	t.Helper()

	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"results":[{"url":"https://example.com","content":{"a":1},"data_type":"structured"}]}`))
	}))
	defer server.Close()

	client, err := NewClient("test-key", server.URL, 5)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	resp, err := client.Search(context.Background(), SearchRequest{Query: "q", MaxNumResults: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/deepsearch" {
		t.Fatalf("unexpected path: %q", gotPath)
	}
	content, ok := resp.Results[0].Content.(map[string]any)
	if !ok || content["a"] != float64(1) {
		t.Fatalf("expected structured content to decode as a map, got %#v", resp.Results[0].Content)
	}
}

func TestShouldAttachBearerAuth(t *testing.T) {
	t.Helper()

	tests := []struct {
		baseURL string
		want    bool
	}{
		{"https://api.valyu.network/v1", false},
		{"https://API.VALYU.NETWORK/v1", false},
		{"https://proxy.internal.example/valyu", true},
		{"", false},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.baseURL, func(t *testing.T) {
			if got := ShouldAttachBearerAuth(tc.baseURL); got != tc.want {
				t.Fatalf("ShouldAttachBearerAuth(%q) = %v, want %v", tc.baseURL, got, tc.want)
			}
		})
	}
}
