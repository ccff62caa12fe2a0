// Package search proxies web searches to a search engine and trims the results.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"privatelives/internal/upstream"
)

const (
	DefaultLimit = 5
	MaxLimit     = 20
)

// ErrMissingQuery is returned before any upstream call when the query is blank.
var ErrMissingQuery = errors.New("missing query")

// Result is one trimmed search hit. Snippet is plain text.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Searcher queries a web search engine.
type Searcher interface {
	Search(ctx context.Context, query string, count int) ([]Result, error)
}

// Service validates queries and bounds the result count.
type Service struct {
	Searcher Searcher
}

// ClampLimit applies the default for non-positive values and caps at MaxLimit.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

// Search returns at most limit results for query.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrMissingQuery
	}
	if s.Searcher == nil {
		return nil, upstream.NotConfigured("searcher")
	}

	limit = ClampLimit(limit)
	results, err := s.Searcher.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("web search: %w", err)
	}

	out := make([]Result, 0, len(results))
	for _, r := range results {
		if r.URL == "" {
			continue
		}
		out = append(out, r)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}
