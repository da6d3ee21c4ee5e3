package extract

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

func (p *exaProvider) Extract(ctx context.Context, urls []string, req Request) (*BatchResponse, error) {
	endpoint := strings.TrimRight(p.cfg.BaseURL, "/") + "/contents"
	payload := map[string]any{
		"urls": urls,
	}
	if budget := req.ResponseLength.CharBudget(); budget > 0 {
		payload["text"] = map[string]any{"maxCharacters": budget}
	} else {
		payload["text"] = true
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
			URL           string `json:"url"`
			Title         string `json:"title"`
			Text          string `json:"text"`
			Summary       string `json:"summary"`
			Author        string `json:"author"`
			PublishedDate string `json:"publishedDate"`
		} `json:"results"`
		Statuses []struct {
			ID     string `json:"id"`
			Status string `json:"status"`
			Error  any    `json:"error"`
		} `json:"statuses"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}

	items := make([]BatchItem, 0, len(resp.Results))
	for _, entry := range resp.Results {
		text := entry.Text
		if text == "" {
			text = entry.Summary
		}
		metadata := map[string]any{}
		if entry.Title != "" {
			metadata["title"] = entry.Title
		}
		if entry.Author != "" {
			metadata["author"] = entry.Author
		}
		if entry.PublishedDate != "" {
			metadata["published_date"] = entry.PublishedDate
		}
		items = append(items, BatchItem{
			URL:      entry.URL,
			Content:  text,
			Metadata: metadata,
		})
	}
	return &BatchResponse{
		Provider: ProviderExa,
		Results:  items,
		TookMs:   time.Since(start).Milliseconds(),
	}, nil
}
