// Package stockphoto builds stock-photo redirect URLs keyed by topic.
package stockphoto

import (
	"context"
	"net/url"
	"strings"

	"privatelives/internal/usecase/imagegen"
)

// DefaultBaseURL serves a random matching photo as a redirect.
const DefaultBaseURL = "https://source.unsplash.com"

// Generator implements imagegen.Generator without any network call.
type Generator struct {
	BaseURL string
	Size    string
}

// New returns a Generator for baseURL (DefaultBaseURL when empty) at 1600x900.
func New(baseURL string) *Generator {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Generator{BaseURL: strings.TrimRight(baseURL, "/"), Size: "1600x900"}
}

// GenerateImage returns {BaseURL}/{Size}/?{escaped topic}.
func (g *Generator) GenerateImage(_ context.Context, req imagegen.Request) (string, error) {
	return g.BaseURL + "/" + g.Size + "/?" + url.QueryEscape(req.Topic), nil
}
