package extract

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"maps"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/beeper/web-retrieval/pkg/shared/tokens"
)

var (
	ErrNoURLs      = errors.New("at least one URL must be provided")
	ErrNoProviders = errors.New("no extract providers available")
)

// Loader produces normalized documents for a fixed list of URLs. It is
// single-use per Documents call but the loader itself can be iterated again
// by calling Documents a second time.
type Loader struct {
	urls      []string
	cfg       *Config
	req       Request
	policy    FailurePolicy
	providers []Provider
	log       zerolog.Logger
}

// NewLoader builds a loader for the given URLs. The URL list must be
// non-empty and at least one provider must be usable with the config.
func NewLoader(urls []string, cfg *Config, log zerolog.Logger) (*Loader, error) {
	if len(urls) == 0 {
		return nil, ErrNoURLs
	}
	cfg = cfg.WithDefaults()

	registry := NewRegistry()
	registerProviders(registry, cfg)
	providers := make([]Provider, 0, len(cfg.Fallbacks)+1)
	for _, name := range buildOrder(cfg) {
		if p := registry.Get(name); p != nil {
			providers = append(providers, p)
		}
	}
	if len(providers) == 0 {
		registered := registry.Names()
		slices.Sort(registered)
		return nil, fmt.Errorf("%w (order %v, registered %v)", ErrNoProviders, buildOrder(cfg), registered)
	}

	policy := ContinueOnFailure
	if !isEnabled(cfg.ContinueOnFailure, true) {
		policy = PropagateFailure
	}

	return &Loader{
		urls: slices.Clone(urls),
		cfg:  cfg,
		req: Request{
			ResponseLength: cfg.ResponseLength,
			ExtractEffort:  cfg.ExtractEffort,
		},
		policy:    policy,
		providers: providers,
		log:       log.With().Str("component", "extract-loader").Logger(),
	}, nil
}

// Documents returns a lazy, single-pass document sequence. URLs are
// submitted in batches of at most BatchSize; each batch's network call only
// happens once the consumer has drained the previous batch. When the
// failure policy is PropagateFailure, a failed batch terminates the
// sequence with an error after everything already yielded.
func (l *Loader) Documents(ctx context.Context) iter.Seq2[Document, error] {
	return func(yield func(Document, error) bool) {
		for start := 0; start < len(l.urls); start += BatchSize {
			batch := l.urls[start:min(start+BatchSize, len(l.urls))]
			resp, err := l.extractBatch(ctx, batch)
			if err != nil {
				if l.policy == PropagateFailure {
					yield(Document{}, err)
					return
				}
				l.log.Error().Err(err).Strs("urls", batch).Msg("Batch extraction failed")
				continue
			}
			if len(resp.Results) == 0 {
				l.log.Warn().Strs("urls", batch).Msg("No results returned for batch")
				continue
			}
			for _, item := range resp.Results {
				if item.Content == "" {
					l.log.Warn().Str("url", item.URL).Msg("No content extracted")
					continue
				}
				if !yield(l.normalize(item), nil) {
					return
				}
			}
		}
	}
}

// LoadAll drains the document sequence. On a propagated batch failure it
// returns the documents collected so far together with the error.
func (l *Loader) LoadAll(ctx context.Context) ([]Document, error) {
	var docs []Document
	for doc, err := range l.Documents(ctx) {
		if err != nil {
			return docs, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// extractBatch runs the batch through the provider chain. Under
// PropagateFailure the first provider's failure is returned immediately,
// without trying fallbacks: fail-fast means the consumer sees the error,
// not a silently degraded result from a weaker provider.
func (l *Loader) extractBatch(ctx context.Context, batch []string) (*BatchResponse, error) {
	var lastErr error
	for _, provider := range l.providers {
		resp, err := provider.Extract(ctx, batch, l.req)
		if err == nil && resp == nil {
			err = fmt.Errorf("provider %s returned empty response", provider.Name())
		}
		if err != nil {
			if l.policy == PropagateFailure {
				return nil, err
			}
			lastErr = err
			continue
		}
		return resp, nil
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, ErrNoProviders
}

func (l *Loader) normalize(item BatchItem) Document {
	content := item.Content
	if l.cfg.MaxDocTokens > 0 {
		truncated, err := tokens.Truncate(content, l.cfg.TokenizerModel, l.cfg.MaxDocTokens)
		if err != nil {
			l.log.Warn().Err(err).Str("url", item.URL).Msg("Token truncation failed")
		} else {
			content = truncated
		}
	}
	metadata := map[string]any{"source": item.URL}
	// Non-object metadata from the provider is ignored.
	if extra, ok := item.Metadata.(map[string]any); ok {
		maps.Copy(metadata, extra)
	}
	return Document{Content: content, Metadata: metadata}
}

func buildOrder(cfg *Config) []string {
	order := make([]string, 0, len(cfg.Fallbacks)+1)
	provider := cfg.Provider
	if provider != "" && provider != "auto" {
		order = append(order, provider)
	}
	order = append(order, cfg.Fallbacks...)
	return dedupeOrder(order)
}

func dedupeOrder(items []string) []string {
	seen := make(map[string]bool, len(items))
	result := make([]string, 0, len(items))
	for _, item := range items {
		name := strings.TrimSpace(item)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		result = append(result, name)
	}
	if len(result) == 0 {
		return slices.Clone(DefaultFallbackOrder)
	}
	return result
}
