package search

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/beeper/web-retrieval/pkg/shared/stringutil"
	"github.com/beeper/web-retrieval/pkg/shared/valyu"
)

type valyuProvider struct {
	cfg    ValyuConfig
	client *valyu.Client
}

func newValyuProvider(cfg *Config) Provider {
	if cfg == nil {
		return nil
	}
	if !isEnabled(cfg.Valyu.Enabled, true) {
		return nil
	}
	if strings.TrimSpace(cfg.Valyu.APIKey) == "" {
		return nil
	}
	client, err := valyu.NewClient(cfg.Valyu.APIKey, cfg.Valyu.BaseURL, cfg.Valyu.TimeoutSecs)
	if err != nil {
		return nil
	}
	return &valyuProvider{cfg: cfg.Valyu, client: client}
}

func (p *valyuProvider) Name() string {
	return ProviderValyu
}

func (p *valyuProvider) Search(ctx context.Context, req Request) (*Response, error) {
	count := req.Count
	if count <= 0 {
		count = DefaultSearchCount
	}

	start := time.Now()
	resp, err := p.client.Search(ctx, valyu.SearchRequest{
		Query:              req.Query,
		MaxNumResults:      count,
		SearchType:         p.cfg.SearchType,
		RelevanceThreshold: p.cfg.RelevanceThreshold,
	})
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		msg := strings.TrimSpace(resp.Error)
		if msg == "" {
			msg = "unknown error"
		}
		return nil, fmt.Errorf("valyu search failed: %s", msg)
	}

	results := make([]Result, 0, len(resp.Results))
	for _, hit := range resp.Results {
		// Hits without a URL are dropped.
		if hit.URL == "" {
			continue
		}
		results = append(results, Result{
			Link:    hit.URL,
			Title:   hit.Title,
			Snippet: hitSnippet(ctx, hit),
		})
	}

	return &Response{
		Query:     req.Query,
		Provider:  ProviderValyu,
		Count:     len(results),
		TookMs:    time.Since(start).Milliseconds(),
		Results:   results,
		NoResults: len(results) == 0,
	}, nil
}

// hitSnippet picks the first non-empty of content/text/snippet and renders
// non-text payloads. Empty strings, maps, and lists count as absent.
// Structured content becomes indented JSON; anything else non-string is
// coerced with fmt.
func hitSnippet(ctx context.Context, hit valyu.SearchHit) string {
	content := hit.Content
	switch v := content.(type) {
	case string:
		if v != "" {
			return v
		}
		content = nil
	case map[string]any:
		if len(v) == 0 {
			content = nil
		}
	case []any:
		if len(v) == 0 {
			content = nil
		}
	}
	if content == nil {
		return stringutil.FirstNonEmpty(hit.Text, hit.Snippet)
	}

	dataType := hit.DataType
	if dataType == "" {
		dataType = "unstructured"
	}
	if dataType == "structured" {
		switch content.(type) {
		case map[string]any, []any:
			pretty, err := json.MarshalIndent(content, "", "  ")
			if err == nil {
				return string(pretty)
			}
			zerolog.Ctx(ctx).Warn().Err(err).Str("url", hit.URL).
				Msg("Failed to render structured content as JSON")
		}
	}
	return fmt.Sprint(content)
}
