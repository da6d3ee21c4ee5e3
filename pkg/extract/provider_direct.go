package extract

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/dyatlov/go-opengraph/opengraph"
)

// directProvider fetches pages itself and extracts text locally. It is the
// keyless fallback at the end of the provider chain.
type directProvider struct {
	cfg DirectConfig
}

func newDirectProvider(cfg *Config) Provider {
	if cfg == nil {
		return nil
	}
	if !isEnabled(cfg.Direct.Enabled, true) {
		return nil
	}
	return &directProvider{cfg: cfg.Direct}
}

func (p *directProvider) Name() string {
	return ProviderDirect
}

func (p *directProvider) Extract(ctx context.Context, urls []string, req Request) (*BatchResponse, error) {
	maxChars := req.ResponseLength.CharBudget()
	if maxChars <= 0 || maxChars > p.cfg.MaxChars {
		maxChars = p.cfg.MaxChars
	}

	start := time.Now()
	items := make([]BatchItem, 0, len(urls))
	for _, pageURL := range urls {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		item, err := p.extractOne(ctx, pageURL, maxChars)
		if err != nil {
			// Per-URL failures surface as empty content so the loader can
			// log and skip them like any other contentless result.
			items = append(items, BatchItem{URL: pageURL})
			continue
		}
		items = append(items, item)
	}
	return &BatchResponse{
		Provider: ProviderDirect,
		Results:  items,
		TookMs:   time.Since(start).Milliseconds(),
	}, nil
}

func (p *directProvider) extractOne(ctx context.Context, pageURL string, maxChars int) (BatchItem, error) {
	if !isAllowedURL(pageURL) {
		return BatchItem{}, fmt.Errorf("url not allowed")
	}

	client := &http.Client{
		Timeout: time.Duration(p.cfg.TimeoutSecs) * time.Second,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= p.cfg.MaxRedirects {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return BatchItem{}, err
	}
	request.Header.Set("User-Agent", p.cfg.UserAgent)
	request.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := client.Do(request)
	if err != nil {
		return BatchItem{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return BatchItem{}, fmt.Errorf("http %d: %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, int64(maxChars*4)))
	if err != nil {
		return BatchItem{}, err
	}

	html := string(body)
	text, metadata := extractHTML(html)
	if maxChars > 0 && len(text) > maxChars {
		text = text[:maxChars]
	}
	return BatchItem{URL: pageURL, Content: text, Metadata: metadata}, nil
}

// extractHTML pulls readable body text plus opengraph/title metadata out of
// an HTML page.
func extractHTML(html string) (string, map[string]any) {
	metadata := map[string]any{}

	og := opengraph.NewOpenGraph()
	if err := og.ProcessHTML(strings.NewReader(html)); err == nil {
		if og.Title != "" {
			metadata["title"] = og.Title
		}
		if og.Description != "" {
			metadata["description"] = og.Description
		}
		if og.SiteName != "" {
			metadata["site_name"] = og.SiteName
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", metadata
	}
	if _, ok := metadata["title"]; !ok {
		if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
			metadata["title"] = title
		}
	}
	doc.Find("script, style, noscript, iframe").Remove()
	text := doc.Find("body").Text()
	return strings.Join(strings.Fields(text), " "), metadata
}

var directBlockedCIDRs = []*net.IPNet{
	mustParseCIDR("127.0.0.0/8"),
	mustParseCIDR("10.0.0.0/8"),
	mustParseCIDR("172.16.0.0/12"),
	mustParseCIDR("192.168.0.0/16"),
	mustParseCIDR("169.254.0.0/16"),
	mustParseCIDR("::1/128"),
}

func mustParseCIDR(value string) *net.IPNet {
	_, parsed, err := net.ParseCIDR(value)
	if err != nil {
		panic(fmt.Sprintf("invalid CIDR %q: %v", value, err))
	}
	return parsed
}

func isAllowedURL(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	if host == "localhost" {
		return false
	}
	ip := net.ParseIP(host)
	if ip != nil {
		if ip4 := ip.To4(); ip4 != nil {
			ip = ip4
		}
		for _, cidr := range directBlockedCIDRs {
			if cidr.Contains(ip) {
				return false
			}
		}
	}
	return true
}
