// Package websearch queries the Brave Search API.
package websearch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"privatelives/internal/upstream"
	"privatelives/internal/usecase/search"
)

const provider = "brave"

// Brave implements search.Searcher.
type Brave struct {
	apiKey  string
	baseURL string
	api     *upstream.Client
}

// NewBrave returns a Brave client. Without apiKey every search fails with
// upstream.ErrNotConfigured.
func NewBrave(apiKey, baseURL string, timeout time.Duration) *Brave {
	if baseURL == "" {
		baseURL = "https://api.search.brave.com"
	}
	return &Brave{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		api:     upstream.NewClient(provider, timeout),
	}
}

type braveResponse struct {
	Web struct {
		Results []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			Description string `json:"description"`
		} `json:"results"`
	} `json:"web"`
}

// Search implements search.Searcher.
func (b *Brave) Search(ctx context.Context, query string, count int) ([]search.Result, error) {
	if b.apiKey == "" {
		return nil, upstream.NotConfigured("BRAVE_API_KEY")
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("count", strconv.Itoa(count))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+"/res/v1/web/search?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create http request: %w", err)
	}
	req.Header.Set("X-Subscription-Token", b.apiKey)

	var resp braveResponse
	if err := b.api.DoJSON(req, "web_search", &resp); err != nil {
		return nil, err
	}

	results := make([]search.Result, 0, len(resp.Web.Results))
	for _, r := range resp.Web.Results {
		results = append(results, search.Result{
			Title:   PlainText(r.Title),
			URL:     r.URL,
			Snippet: PlainText(r.Description),
		})
	}
	return results, nil
}

// PlainText strips markup such as Brave's <strong> highlights and decodes entities.
func PlainText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
