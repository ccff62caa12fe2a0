// Package imagegen returns an illustration URL for a topic from one of several
// image backends.
package imagegen

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Provider selects the image backend.
type Provider string

const (
	ProviderStock   Provider = "stock"
	ProviderOpenAI  Provider = "openai"
	ProviderComfyUI Provider = "comfyui"
)

// ParseProvider maps a request value to a Provider; anything unknown is stock.
func ParseProvider(s string) Provider {
	switch p := Provider(strings.ToLower(strings.TrimSpace(s))); p {
	case ProviderOpenAI, ProviderComfyUI:
		return p
	default:
		return ProviderStock
	}
}

// ErrMissingTopic is returned before any upstream call when the topic is blank.
var ErrMissingTopic = errors.New("missing topic")

// Request describes one image to produce.
type Request struct {
	Topic string
	// LoRA optionally names a LoRA to apply (ComfyUI only).
	LoRA string
}

// Generator produces an image reference: an http(s) URL or a data:image URI.
type Generator interface {
	GenerateImage(ctx context.Context, req Request) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, req Request) (string, error)

func (f GeneratorFunc) GenerateImage(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// Service dispatches to the Generator registered for a Provider.
// A provider without a generator falls back to Fallback when set.
type Service struct {
	Generators map[Provider]Generator
	Fallback   Generator
}

// Generate returns the image URL for req using provider.
func (s *Service) Generate(ctx context.Context, req Request, provider Provider) (string, error) {
	req.Topic = strings.TrimSpace(req.Topic)
	if req.Topic == "" {
		return "", ErrMissingTopic
	}
	req.LoRA = strings.TrimSpace(req.LoRA)

	g := s.Generators[provider]
	if g == nil {
		g = s.Fallback
	}
	if g == nil {
		return "", fmt.Errorf("no image generator for %q", provider)
	}

	url, err := g.GenerateImage(ctx, req)
	if err != nil {
		return "", fmt.Errorf("generate image with %s: %w", provider, err)
	}
	return url, nil
}

// Prompt is the text-to-image instruction for a topic.
func Prompt(topic string) string {
	return "Editorial photograph illustrating a news story about " + topic +
		". Natural light, documentary style, no text, no logos, no watermarks."
}
