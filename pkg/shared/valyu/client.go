// Package valyu provides a typed client for the Valyu content and search APIs.
package valyu

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/beeper/web-retrieval/pkg/shared/httputil"
)

const (
	DefaultBaseURL     = "https://api.valyu.network/v1"
	DefaultTimeoutSecs = 60
)

var ErrMissingAPIKey = errors.New("missing Valyu API key")

// Client talks to the Valyu API. Each client is scoped to one API key and
// safe for concurrent use.
type Client struct {
	apiKey      string
	baseURL     string
	timeoutSecs int
}

// NewClient creates a client for the given API key. Base URL and timeout
// fall back to defaults when zero.
func NewClient(apiKey, baseURL string, timeoutSecs int) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if timeoutSecs <= 0 {
		timeoutSecs = DefaultTimeoutSecs
	}
	return &Client{
		apiKey:      apiKey,
		baseURL:     strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		timeoutSecs: timeoutSecs,
	}, nil
}

// ContentsRequest is the wire payload for the contents (extraction) endpoint.
type ContentsRequest struct {
	URLs           []string `json:"urls"`
	ResponseLength string   `json:"response_length,omitempty"`
	ExtractEffort  string   `json:"extraction_effort,omitempty"`
}

// ContentResult is one extracted page in a contents response.
// Metadata is left untyped on purpose: the API may send an arbitrary JSON
// value here and non-object metadata is ignored by consumers.
type ContentResult struct {
	URL      string  `json:"url"`
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	Source   string  `json:"source"`
	Length   int     `json:"length"`
	Metadata any     `json:"metadata"`
	Cost     float64 `json:"deduction_dollars"`
}

// ContentsResponse is the envelope returned by the contents endpoint.
type ContentsResponse struct {
	Success bool            `json:"success"`
	Error   string          `json:"error"`
	TxID    string          `json:"tx_id"`
	Results []ContentResult `json:"results"`
	Cost    float64         `json:"total_deduction_dollars"`
}

// SearchRequest is the wire payload for the deepsearch endpoint.
type SearchRequest struct {
	Query              string  `json:"query"`
	MaxNumResults      int     `json:"max_num_results,omitempty"`
	SearchType         string  `json:"search_type,omitempty"`
	RelevanceThreshold float64 `json:"relevance_threshold,omitempty"`
}

// SearchHit is one raw result in a deepsearch response. Content is untyped
// because structured hits carry JSON objects or arrays instead of text.
type SearchHit struct {
	URL       string  `json:"url"`
	Title     string  `json:"title"`
	Content   any     `json:"content"`
	Text      string  `json:"text"`
	Snippet   string  `json:"snippet"`
	DataType  string  `json:"data_type"`
	Source    string  `json:"source"`
	Relevance float64 `json:"relevance_score"`
}

// SearchResponse is the envelope returned by the deepsearch endpoint.
type SearchResponse struct {
	Success bool        `json:"success"`
	Error   string      `json:"error"`
	TxID    string      `json:"tx_id"`
	Results []SearchHit `json:"results"`
	Cost    float64     `json:"total_deduction_dollars"`
}

// Contents extracts page content for a list of URLs in a single call.
func (c *Client) Contents(ctx context.Context, req ContentsRequest) (*ContentsResponse, error) {
	if len(req.URLs) == 0 {
		return nil, fmt.Errorf("contents request needs at least one url")
	}
	data, _, err := httputil.PostJSON(ctx, c.baseURL+"/contents", AuthHeaders(c.baseURL, c.apiKey), req, c.timeoutSecs)
	if err != nil {
		return nil, err
	}
	var resp ContentsResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding contents response: %w", err)
	}
	return &resp, nil
}

// Search runs a deepsearch query.
func (c *Client) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, fmt.Errorf("search request needs a query")
	}
	data, _, err := httputil.PostJSON(ctx, c.baseURL+"/deepsearch", AuthHeaders(c.baseURL, c.apiKey), req, c.timeoutSecs)
	if err != nil {
		return nil, err
	}
	var resp SearchResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}
	return &resp, nil
}
