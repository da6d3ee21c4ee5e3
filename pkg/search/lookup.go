package search

import (
	"context"

	"github.com/rs/zerolog"
)

// Lookup runs a search that never fails: provider errors, missing
// providers, and panics are all logged and reduced to an empty result
// list. The domain allow-list from the request is applied to whatever the
// provider returned.
func Lookup(ctx context.Context, req Request, cfg *Config) (results []Result) {
	log := zerolog.Ctx(ctx).With().Str("component", "search-lookup").Logger()
	ctx = log.WithContext(ctx)
	defer func() {
		if r := recover(); r != nil {
			log.Error().Any("panic", r).Str("query", req.Query).Msg("Search panicked")
			results = nil
		}
	}()

	log.Info().Str("query", req.Query).Msg("Searching")
	resp, err := Search(ctx, req, cfg)
	if err != nil {
		log.Error().Err(err).Str("query", req.Query).Msg("Search failed")
		return nil
	}

	results = resp.Results
	if len(req.FilterList) > 0 && len(results) > 0 {
		results = FilterByDomains(results, req.FilterList)
	}
	log.Info().Int("results", len(results)).Str("provider", resp.Provider).Msg("Search finished")
	return results
}
