// Command retrieve searches the web or extracts page content from the
// command line, printing normalized results as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"go.mau.fi/util/ptr"
	"gopkg.in/yaml.v3"

	"github.com/beeper/web-retrieval/pkg/cache"
	"github.com/beeper/web-retrieval/pkg/extract"
	"github.com/beeper/web-retrieval/pkg/search"
	"github.com/beeper/web-retrieval/pkg/shared/stringutil"
	"github.com/beeper/web-retrieval/pkg/shared/tokens"
)

type fileConfig struct {
	Search  *search.Config  `yaml:"search"`
	Extract *extract.Config `yaml:"extract"`
}

func main() {
	configPath := flag.String("config", "", "path to a yaml config file")
	cachePath := flag.String("cache", "", "path to a sqlite response cache (search only)")
	cacheTTL := flag.Duration("cache-ttl", 15*time.Minute, "cache entry lifetime")
	countTokens := flag.Bool("count-tokens", false, "include token counts in extract output")
	tokenModel := flag.String("token-model", "gpt-4o", "model used for token counting")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Usage = usage
	flag.Parse()

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Str("request_id", xid.New().String()).
		Logger()
	ctx := log.WithContext(context.Background())

	args := flag.Args()
	if len(args) < 1 {
		usage()
		os.Exit(2)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *configPath).Msg("Failed to load config")
	}

	var store *cache.Store
	if *cachePath != "" {
		store, err = cache.NewStore(ctx, *cachePath, *cacheTTL)
		if err != nil {
			log.Fatal().Err(err).Str("path", *cachePath).Msg("Failed to open cache")
		}
		defer store.Close()
	}

	switch args[0] {
	case "search":
		runSearch(ctx, args[1:], cfg.Search, store)
	case "extract":
		runExtract(ctx, args[1:], cfg.Extract, *countTokens, *tokenModel)
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage:
  retrieve [flags] search [-count N] [-filter domains] <query>
  retrieve [flags] extract [-length L] [-effort E] [-fail-fast] [-max-tokens N] <url>...

Flags:
`)
	flag.PrintDefaults()
}

func loadConfig(path string) (*fileConfig, error) {
	if path == "" {
		return &fileConfig{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func runSearch(ctx context.Context, args []string, cfg *search.Config, store *cache.Store) {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	count := fs.Int("count", 0, "maximum results (0 = provider default)")
	filter := fs.String("filter", "", "comma-separated domain allow-list")
	_ = fs.Parse(args)
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "search: missing query")
		os.Exit(2)
	}
	query := strings.Join(fs.Args(), " ")
	log := zerolog.Ctx(ctx)

	cacheKey := fmt.Sprintf("%s|%d|%s", query, *count, *filter)
	if store != nil {
		if payload, found, err := store.Get(ctx, "search", cacheKey); err == nil && found {
			log.Debug().Msg("Serving search results from cache")
			fmt.Println(string(payload))
			return
		}
	}

	results := search.Lookup(ctx, search.Request{
		Query:      query,
		Count:      *count,
		FilterList: stringutil.SplitCSV(*filter),
	}, search.ApplyEnvDefaults(cfg))

	payload, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to render results")
	}
	if store != nil {
		if err := store.Put(ctx, "search", cacheKey, payload); err != nil {
			log.Warn().Err(err).Msg("Failed to cache search results")
		}
	}
	fmt.Println(string(payload))
}

func runExtract(ctx context.Context, args []string, cfg *extract.Config, countTokens bool, tokenModel string) {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	length := fs.String("length", "", "response length: short, medium, large, max")
	effort := fs.String("effort", "", "extract effort: auto, normal, high")
	failFast := fs.Bool("fail-fast", false, "stop on the first failed batch")
	maxTokens := fs.Int("max-tokens", 0, "truncate each document to a token budget")
	_ = fs.Parse(args)
	urls := fs.Args()
	log := zerolog.Ctx(ctx)

	cfg = extract.ApplyEnvDefaults(cfg)
	if *length != "" {
		cfg.ResponseLength = extract.ResponseLength(*length)
	}
	if *effort != "" {
		cfg.ExtractEffort = extract.ExtractEffort(*effort)
	}
	if *failFast {
		cfg.ContinueOnFailure = ptr.Ptr(false)
	}
	if *maxTokens > 0 {
		cfg.MaxDocTokens = *maxTokens
	}

	loader, err := extract.NewLoader(urls, cfg, *log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create loader")
	}

	type docOut struct {
		Source   string         `json:"source"`
		Content  string         `json:"content"`
		Metadata map[string]any `json:"metadata"`
		Tokens   int            `json:"tokens,omitempty"`
	}
	out := make([]docOut, 0, len(urls))
	for doc, err := range loader.Documents(ctx) {
		if err != nil {
			log.Fatal().Err(err).Msg("Extraction failed")
		}
		entry := docOut{Content: doc.Content, Metadata: doc.Metadata}
		if source, ok := doc.Metadata["source"].(string); ok {
			entry.Source = source
		}
		if countTokens {
			if n, err := tokens.Count(doc.Content, tokenModel); err == nil {
				entry.Tokens = n
			}
		}
		out = append(out, entry)
	}

	payload, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to render documents")
	}
	fmt.Println(string(payload))
}
