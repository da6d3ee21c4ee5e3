package extract

import (
	"context"
	"strings"
	"time"

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

func (p *valyuProvider) Extract(ctx context.Context, urls []string, req Request) (*BatchResponse, error) {
	start := time.Now()
	resp, err := p.client.Contents(ctx, valyu.ContentsRequest{
		URLs:           urls,
		ResponseLength: string(req.ResponseLength),
		ExtractEffort:  string(req.ExtractEffort),
	})
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		msg := strings.TrimSpace(resp.Error)
		if msg == "" {
			msg = "unknown error"
		}
		return nil, &ProviderError{Provider: ProviderValyu, Message: msg}
	}

	items := make([]BatchItem, 0, len(resp.Results))
	for _, entry := range resp.Results {
		items = append(items, BatchItem{
			URL:      entry.URL,
			Content:  entry.Content,
			Metadata: entry.Metadata,
		})
	}
	return &BatchResponse{
		Provider: ProviderValyu,
		Results:  items,
		TookMs:   time.Since(start).Milliseconds(),
	}, nil
}
