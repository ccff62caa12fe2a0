package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"privatelives/internal/upstream"
)

const providerClaude = "claude"

// ClaudeConfig configures the Anthropic adapter.
type ClaudeConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
}

// Claude writes news articles with the Anthropic Messages API.
type Claude struct {
	client     anthropic.Client
	cfg        ClaudeConfig
	configured bool
}

// NewClaude creates the adapter; without an API key every call fails with
// upstream.ErrNotConfigured.
func NewClaude(cfg ClaudeConfig) *Claude {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 2048
	}
	c := &Claude{cfg: cfg}
	if cfg.APIKey == "" {
		slog.Warn("ANTHROPIC_API_KEY not set, claude provider will answer 500")
		return c
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	c.client = anthropic.NewClient(opts...)
	c.configured = true
	return c
}

// WriteArticle implements newsgen.Writer. Text blocks are concatenated in order.
func (c *Claude) WriteArticle(ctx context.Context, prompt string) (string, error) {
	if !c.configured {
		return "", upstream.NotConfigured("ANTHROPIC_API_KEY")
	}

	message, err := upstream.Timed(ctx, providerClaude, "article", func(ctx context.Context) (*anthropic.Message, error) {
		return c.client.Messages.New(ctx, anthropic.MessageNewParams{
			Model:     anthropic.Model(c.cfg.Model),
			MaxTokens: int64(c.cfg.MaxTokens),
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
			},
		})
	})
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("claude article: %w", &upstream.StatusError{
				Provider: providerClaude, StatusCode: apiErr.StatusCode, Body: apiErr.Error(),
			})
		}
		return "", fmt.Errorf("claude article: %w", err)
	}

	var b strings.Builder
	for _, block := range message.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			b.WriteString(tb.Text)
		}
	}
	if strings.TrimSpace(b.String()) == "" {
		return "", fmt.Errorf("claude article: %w", upstream.ErrEmpty)
	}
	return b.String(), nil
}
