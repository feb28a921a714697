package core

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/mohammad-safakhou/voyago/config"
	"github.com/mohammad-safakhou/voyago/internal/trip/telemetry"
)

// NewSearchProviders creates the configured web search clients.
func NewSearchProviders(cfg config.SearchConfig) []SearchProvider {
	httpc := NewHTTPClient(cfg.Timeout, 2, 300*time.Millisecond)
	var providers []SearchProvider
	if cfg.TavilyAPIKey != "" {
		providers = append(providers, &TavilyClient{cfg: cfg, http: httpc})
	}
	if cfg.BraveAPIKey != "" {
		providers = append(providers, &BraveClient{cfg: cfg, http: httpc})
	}
	if cfg.SerperAPIKey != "" {
		providers = append(providers, &SerperClient{cfg: cfg, http: httpc})
	}
	return providers
}

// TavilyClient implements SearchProvider using the Tavily search API.
type TavilyClient struct {
	cfg  config.SearchConfig
	http *HTTPClient
}

func (t *TavilyClient) Name() string { return "tavily" }

func (t *TavilyClient) Search(ctx context.Context, query string) (string, error) {
	var resp struct {
		Results []struct {
			Title   string `json:"title"`
			URL     string `json:"url"`
			Content string `json:"content"`
		} `json:"results"`
	}
	body := map[string]any{
		"api_key":     t.cfg.TavilyAPIKey,
		"query":       query,
		"max_results": maxResults(t.cfg.MaxResults, 5),
	}
	if err := t.http.DoJSON(ctx, "POST", "https://api.tavily.com/search", nil, body, &resp); err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, r := range resp.Results {
		fmt.Fprintf(&sb, "%s\n%s\n\n", r.Title, r.Content)
	}
	return strings.TrimSpace(sb.String()), nil
}

// BraveClient implements SearchProvider using the Brave Search API.
type BraveClient struct {
	cfg  config.SearchConfig
	http *HTTPClient
}

func (b *BraveClient) Name() string { return "brave" }

func (b *BraveClient) Search(ctx context.Context, query string) (string, error) {
	var resp struct {
		Web struct {
			Results []struct{ Title, URL, Description string } `json:"results"`
		} `json:"web"`
	}
	headers := map[string]string{"X-Subscription-Token": b.cfg.BraveAPIKey}
	u := fmt.Sprintf("https://api.search.brave.com/res/v1/web/search?q=%s&count=%d",
		url.QueryEscape(query), maxResults(b.cfg.MaxResults, 5))
	if err := b.http.DoJSON(ctx, "GET", u, headers, nil, &resp); err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, r := range resp.Web.Results {
		fmt.Fprintf(&sb, "%s\n%s\n\n", r.Title, r.Description)
	}
	return strings.TrimSpace(sb.String()), nil
}

// SerperClient implements SearchProvider using serper.dev.
type SerperClient struct {
	cfg  config.SearchConfig
	http *HTTPClient
}

func (s *SerperClient) Name() string { return "serper" }

func (s *SerperClient) Search(ctx context.Context, query string) (string, error) {
	var resp struct {
		Organic []struct{ Title, Link, Snippet string } `json:"organic"`
	}
	headers := map[string]string{"X-API-KEY": s.cfg.SerperAPIKey}
	body := map[string]any{"q": query, "num": maxResults(s.cfg.MaxResults, 5)}
	if err := s.http.DoJSON(ctx, "POST", "https://google.serper.dev/search", headers, body, &resp); err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, r := range resp.Organic {
		fmt.Fprintf(&sb, "%s\n%s\n\n", r.Title, r.Snippet)
	}
	return strings.TrimSpace(sb.String()), nil
}

func maxResults(a, def int) int {
	if a > 0 {
		return a
	}
	return def
}

// SearchFacade fans a query across the configured providers in order,
// returning the first non-empty result. Responses are cached; provider
// failures surface as errors for the stage's fallback path, never as a
// pipeline failure.
type SearchFacade struct {
	providers []SearchProvider
	cache     Cache
	telemetry *telemetry.Telemetry
	logger    *log.Logger
}

func NewSearchFacade(providers []SearchProvider, cache Cache, tele *telemetry.Telemetry) *SearchFacade {
	return &SearchFacade{
		providers: providers,
		cache:     cache,
		telemetry: tele,
		logger:    log.New(log.Writer(), "[SEARCH] ", log.LstdFlags),
	}
}

// SearchText returns concatenated plain-text content for a query.
func (f *SearchFacade) SearchText(ctx context.Context, query string) (string, error) {
	key := "search:" + query
	if f.cache != nil {
		if v, ok := f.cache.Get(ctx, key); ok {
			return v, nil
		}
	}
	if len(f.providers) == 0 {
		return "", fmt.Errorf("no search providers configured")
	}

	var lastErr error
	for _, p := range f.providers {
		start := time.Now()
		text, err := p.Search(ctx, query)
		if f.telemetry != nil {
			f.telemetry.RecordProviderEvent(ctx, telemetry.ProviderEvent{
				Provider: p.Name(),
				Duration: time.Since(start),
				Success:  err == nil && text != "",
			})
		}
		if err != nil {
			f.logger.Printf("provider %s failed: %v", p.Name(), err)
			lastErr = err
			continue
		}
		if text == "" {
			lastErr = fmt.Errorf("provider %s returned no content", p.Name())
			continue
		}
		if f.cache != nil {
			f.cache.Set(ctx, key, text)
		}
		return text, nil
	}
	return "", fmt.Errorf("all search providers failed: %w", lastErr)
}
