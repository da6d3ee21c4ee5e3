package search

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/beeper/web-retrieval/pkg/shared/httputil"
)

type exaProvider struct {
	cfg ExaConfig
}

func newExaProvider(cfg *Config) Provider {
	if cfg == nil {
		return nil
	}
	if !isEnabled(cfg.Exa.Enabled, true) {
		return nil
	}
	if strings.TrimSpace(cfg.Exa.APIKey) == "" {
		return nil
	}
	return &exaProvider{cfg: cfg.Exa}
}

func (p *exaProvider) Name() string {
	return ProviderExa
}

func (p *exaProvider) Search(ctx context.Context, req Request) (*Response, error) {
	endpoint := strings.TrimRight(p.cfg.BaseURL, "/") + "/search"
	count := req.Count
	if count <= 0 {
		count = DefaultSearchCount
	}

	payload := map[string]any{
		"query":      req.Query,
		"type":       p.cfg.Type,
		"numResults": count,
		"contents": map[string]any{
			"highlights": map[string]any{
				"maxCharacters": p.cfg.TextMaxCharacters,
			},
		},
	}

	start := time.Now()
	data, _, err := httputil.PostJSON(ctx, endpoint, map[string]string{
		"x-api-key": p.cfg.APIKey,
		"accept":    "application/json",
	}, payload, p.cfg.TimeoutSecs)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Results []struct {
			Title      string   `json:"title"`
			URL        string   `json:"url"`
			Text       string   `json:"text"`
			Highlights []string `json:"highlights"`
		} `json:"results"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(resp.Results))
	for _, entry := range resp.Results {
		if entry.URL == "" {
			continue
		}
		snippet := ""
		if len(entry.Highlights) > 0 {
			snippet = strings.TrimSpace(entry.Highlights[0])
		} else if entry.Text != "" {
			snippet = entry.Text
		}
		results = append(results, Result{
			Link:    entry.URL,
			Title:   strings.TrimSpace(entry.Title),
			Snippet: snippet,
		})
	}

	return &Response{
		Query:     req.Query,
		Provider:  ProviderExa,
		Count:     len(results),
		TookMs:    time.Since(start).Milliseconds(),
		Results:   results,
		NoResults: len(results) == 0,
	}, nil
}
