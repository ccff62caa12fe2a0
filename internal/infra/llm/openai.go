package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sashabaranov/go-openai"

	"privatelives/internal/upstream"
	"privatelives/internal/usecase/imagegen"
)

const providerOpenAI = "openai"

// OpenAIConfig configures the OpenAI adapter.
type OpenAIConfig struct {
	APIKey string
	// BaseURL overrides the API endpoint, including the /v1 suffix.
	BaseURL    string
	TextModel  string
	ImageModel string
}

// OpenAI writes news articles with chat completions and draws images.
type OpenAI struct {
	client *openai.Client
	cfg    OpenAIConfig
}

// NewOpenAI creates the adapter; without an API key every call fails with
// upstream.ErrNotConfigured.
func NewOpenAI(cfg OpenAIConfig) *OpenAI {
	o := &OpenAI{cfg: cfg}
	if cfg.APIKey == "" {
		slog.Warn("OPENAI_API_KEY not set, openai providers will answer 500")
		return o
	}
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	o.client = openai.NewClientWithConfig(oc)
	return o
}

// openAIError keeps the upstream status for logs and classification.
func openAIError(op string, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("openai %s: %w", op, &upstream.StatusError{
			Provider: providerOpenAI, StatusCode: apiErr.HTTPStatusCode, Body: apiErr.Message,
		})
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("openai %s: %w", op, &upstream.StatusError{
			Provider: providerOpenAI, StatusCode: reqErr.HTTPStatusCode, Body: reqErr.Error(),
		})
	}
	return fmt.Errorf("openai %s: %w", op, err)
}

// WriteArticle implements newsgen.Writer.
func (o *OpenAI) WriteArticle(ctx context.Context, prompt string) (string, error) {
	if o.client == nil {
		return "", upstream.NotConfigured("OPENAI_API_KEY")
	}

	resp, err := upstream.Timed(ctx, providerOpenAI, "article", func(ctx context.Context) (openai.ChatCompletionResponse, error) {
		return o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: o.cfg.TextModel,
			Messages: []openai.ChatCompletionMessage{{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			}},
		})
	})
	if err != nil {
		return "", openAIError("article", err)
	}

	var b strings.Builder
	for _, choice := range resp.Choices {
		b.WriteString(choice.Message.Content)
		for _, part := range choice.Message.MultiContent {
			if part.Type == openai.ChatMessagePartTypeText {
				b.WriteString(part.Text)
			}
		}
		if b.Len() > 0 {
			break
		}
	}
	if strings.TrimSpace(b.String()) == "" {
		return "", fmt.Errorf("openai article: %w", upstream.ErrEmpty)
	}
	return b.String(), nil
}

// GenerateImage implements imagegen.Generator. The first item carrying a URL or
// a base64 payload wins; base64 is returned as a data URI.
func (o *OpenAI) GenerateImage(ctx context.Context, req imagegen.Request) (string, error) {
	if o.client == nil {
		return "", upstream.NotConfigured("OPENAI_API_KEY")
	}

	ir := openai.ImageRequest{
		Prompt: imagegen.Prompt(req.Topic),
		Model:  o.cfg.ImageModel,
		N:      1,
		Size:   openai.CreateImageSize1792x1024,
	}
	// gpt-image models always answer base64 and reject response_format.
	if strings.HasPrefix(o.cfg.ImageModel, "dall-e") {
		ir.ResponseFormat = openai.CreateImageResponseFormatURL
	} else {
		ir.Size = "1536x1024"
	}

	resp, err := upstream.Timed(ctx, providerOpenAI, "image", func(ctx context.Context) (openai.ImageResponse, error) {
		return o.client.CreateImage(ctx, ir)
	})
	if err != nil {
		return "", openAIError("image", err)
	}

	for _, item := range resp.Data {
		if u := strings.TrimSpace(item.URL); u != "" {
			return u, nil
		}
		if b64 := strings.TrimSpace(item.B64JSON); b64 != "" {
			return "data:image/png;base64," + b64, nil
		}
	}
	return "", fmt.Errorf("openai image: %w", upstream.ErrEmpty)
}
