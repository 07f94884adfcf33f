package news

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"finance-backend/internal/shared/telemetry"
)

const (
	DefaultTavilyURL  = "https://api.tavily.com"
	searchQuery       = "latest financial news India stock market NSE BSE"
	maxResults        = 5
	descriptionLength = 200
	dateLayout        = "2006-01-02"
	defaultSource     = "Financial News"
)

var includeDomains = []string{
	"moneycontrol.com",
	"economictimes.indiatimes.com",
	"financialexpress.com",
	"livemint.com",
	"business-standard.com",
	"ndtv.com/business",
	"bloomberg.com",
}

// Provider fetches fresh headlines.
type Provider interface {
	Search(ctx context.Context) ([]Item, error)
}

// TavilyClient searches financial news with the Tavily API.
type TavilyClient struct {
	apiKey string
	http   *resty.Client
	now    func() time.Time
}

// NewTavilyClient builds a client; baseURL may be empty for the public endpoint.
func NewTavilyClient(apiKey, baseURL string, timeout time.Duration) (*TavilyClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("TAVILY_API_KEY is required")
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultTavilyURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	return &TavilyClient{apiKey: apiKey, http: client, now: time.Now}, nil
}

type searchRequest struct {
	APIKey         string   `json:"api_key"`
	Query          string   `json:"query"`
	SearchDepth    string   `json:"search_depth"`
	MaxResults     int      `json:"max_results"`
	IncludeDomains []string `json:"include_domains"`
}

type searchResponse struct {
	Results []struct {
		Title         string `json:"title"`
		URL           string `json:"url"`
		Content       string `json:"content"`
		PublishedDate string `json:"published_date"`
	} `json:"results"`
}

func (c *TavilyClient) Search(ctx context.Context) ([]Item, error) {
	var out searchResponse
	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+c.apiKey).
		SetBody(searchRequest{
			APIKey:         c.apiKey,
			Query:          searchQuery,
			SearchDepth:    "advanced",
			MaxResults:     maxResults,
			IncludeDomains: includeDomains,
		}).
		SetResult(&out).
		Post("/search")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.IsError() {
		body := resp.String()
		if len(body) > 256 {
			body = body[:256]
		}
		return nil, fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode(), body)
	}
	telemetry.Info("news.search.response", map[string]any{
		"results":     len(out.Results),
		"duration_ms": time.Since(start).Milliseconds(),
	})

	today := c.now().Format(dateLayout)
	items := make([]Item, 0, len(out.Results))
	for _, r := range out.Results {
		published := today
		if t, err := time.Parse(time.RFC1123, r.PublishedDate); err == nil {
			published = t.Format(dateLayout)
		}
		items = append(items, Item{
			ID:          uuid.NewString(),
			Title:       r.Title,
			Description: truncate(r.Content, descriptionLength) + "...",
			Source:      SourceName(r.URL),
			URL:         r.URL,
			PublishedAt: published,
		})
	}
	return items, nil
}

// SourceName turns a result URL into a display name, e.g. https://www.livemint.com/x → "Livemint".
func SourceName(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Hostname() == "" {
		return defaultSource
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	label, _, _ := strings.Cut(host, ".")
	if label == "" {
		return defaultSource
	}
	return cases.Title(language.English).String(label)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
