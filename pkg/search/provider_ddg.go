package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/beeper/web-retrieval/pkg/shared/httputil"
)

// ddgProvider queries the DuckDuckGo instant answer API. It needs no API
// key and sits at the end of the fallback chain.
type ddgProvider struct {
	cfg DDGConfig
}

func newDDGProvider(cfg *Config) Provider {
	if cfg == nil {
		return nil
	}
	if !isEnabled(cfg.DDG.Enabled, true) {
		return nil
	}
	return &ddgProvider{cfg: cfg.DDG}
}

func (p *ddgProvider) Name() string {
	return ProviderDuckDuckGo
}

type ddgTopic struct {
	Text     string     `json:"Text"`
	FirstURL string     `json:"FirstURL"`
	Topics   []ddgTopic `json:"Topics"`
}

func (p *ddgProvider) Search(ctx context.Context, req Request) (*Response, error) {
	apiURL := fmt.Sprintf("https://api.duckduckgo.com/?q=%s&format=json&no_html=1&skip_disambig=1",
		url.QueryEscape(req.Query))

	start := time.Now()
	data, _, err := httputil.GetJSON(ctx, apiURL, nil, p.cfg.TimeoutSecs)
	if err != nil {
		return nil, err
	}

	var decoded struct {
		AbstractText  string     `json:"AbstractText"`
		AbstractURL   string     `json:"AbstractURL"`
		Heading       string     `json:"Heading"`
		RelatedTopics []ddgTopic `json:"RelatedTopics"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, fmt.Errorf("failed to parse search results: %w", err)
	}

	var results []Result
	if decoded.AbstractText != "" && decoded.AbstractURL != "" {
		results = append(results, Result{
			Link:    decoded.AbstractURL,
			Title:   decoded.Heading,
			Snippet: decoded.AbstractText,
		})
	}
	var appendTopic func(topic ddgTopic)
	appendTopic = func(topic ddgTopic) {
		if topic.Text != "" && topic.FirstURL != "" {
			title, snippet := splitTopicText(topic.Text)
			results = append(results, Result{
				Link:    topic.FirstURL,
				Title:   title,
				Snippet: snippet,
			})
		}
		for _, child := range topic.Topics {
			appendTopic(child)
		}
	}
	for _, topic := range decoded.RelatedTopics {
		appendTopic(topic)
	}

	count := req.Count
	if count <= 0 {
		count = DefaultSearchCount
	}
	if len(results) > count {
		results = results[:count]
	}

	return &Response{
		Query:     req.Query,
		Provider:  ProviderDuckDuckGo,
		Count:     len(results),
		TookMs:    time.Since(start).Milliseconds(),
		Results:   results,
		NoResults: len(results) == 0,
	}, nil
}

func splitTopicText(text string) (title string, snippet string) {
	parts := strings.SplitN(text, " - ", 2)
	if len(parts) == 2 {
		return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	}
	return strings.TrimSpace(text), ""
}
