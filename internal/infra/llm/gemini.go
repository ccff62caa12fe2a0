// Package llm adapts the model SDKs (Gemini, OpenAI, Anthropic) to the
// generation use cases. Every adapter makes exactly one SDK call per request
// and has SDK retries disabled.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"privatelives/internal/upstream"
	"privatelives/internal/usecase/language"
)

const providerGemini = "gemini"

// GeminiConfig configures the Gemini adapter.
type GeminiConfig struct {
	APIKey string
	// BaseURL overrides the API endpoint; empty means the SDK default.
	BaseURL     string
	TextModel   string
	SpeechModel string
}

// Gemini serves news articles, translations and speech from the Gemini API.
type Gemini struct {
	client *genai.Client
	cfg    GeminiConfig
}

// NewGemini creates the adapter. A missing API key is not an error here: the
// adapter is returned unconfigured and every call fails with upstream.ErrNotConfigured.
func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	g := &Gemini{cfg: cfg}
	if cfg.APIKey == "" {
		slog.Warn("GEMINI_API_KEY not set, gemini endpoints will answer 500")
		return g, nil
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	g.client = client
	return g, nil
}

func (g *Gemini) generate(ctx context.Context, operation, model, prompt string, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	if g.client == nil {
		return nil, upstream.NotConfigured("GEMINI_API_KEY")
	}
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	resp, err := upstream.Timed(ctx, providerGemini, operation, func(ctx context.Context) (*genai.GenerateContentResponse, error) {
		return g.client.Models.GenerateContent(ctx, model, contents, config)
	})
	if err != nil {
		return nil, fmt.Errorf("gemini %s: %w", operation, err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("gemini %s: %w", operation, upstream.ErrEmpty)
	}
	return resp, nil
}

// candidateText concatenates the non-thought text parts of the first candidate.
func candidateText(resp *genai.GenerateContentResponse) string {
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}
	return b.String()
}

// WriteArticle implements newsgen.Writer.
func (g *Gemini) WriteArticle(ctx context.Context, prompt string) (string, error) {
	resp, err := g.generate(ctx, "article", g.cfg.TextModel, prompt, nil)
	if err != nil {
		return "", err
	}
	text := candidateText(resp)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("gemini article: %w", upstream.ErrEmpty)
	}
	return text, nil
}

var variantSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"text":     {Type: genai.TypeString},
		"phonetic": {Type: genai.TypeString},
	},
	Required: []string{"text", "phonetic"},
}

var translationSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"natural": variantSchema,
		"formal":  variantSchema,
		"literal": variantSchema,
	},
	Required: []string{"natural", "formal", "literal"},
}

// Translate implements language.Translator using structured JSON output.
func (g *Gemini) Translate(ctx context.Context, prompt string) (language.Translation, error) {
	resp, err := g.generate(ctx, "translate", g.cfg.TextModel, prompt, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   translationSchema,
	})
	if err != nil {
		return language.Translation{}, err
	}

	raw := strings.TrimSpace(candidateText(resp))
	raw = strings.TrimSuffix(strings.TrimPrefix(raw, "```json"), "```")

	var tr language.Translation
	if err := json.Unmarshal([]byte(raw), &tr); err != nil {
		return language.Translation{}, fmt.Errorf("gemini translate: %w: %v", upstream.ErrMalformed, err)
	}
	return tr, nil
}

// Synthesize implements language.Synthesizer with the TTS model and a prebuilt voice.
func (g *Gemini) Synthesize(ctx context.Context, prompt, voice string) (language.Audio, error) {
	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
	}
	if voice != "" {
		config.SpeechConfig = &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: voice},
			},
		}
	}

	resp, err := g.generate(ctx, "speak", g.cfg.SpeechModel, prompt, config)
	if err != nil {
		return language.Audio{}, err
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return language.Audio{Data: part.InlineData.Data, MIMEType: part.InlineData.MIMEType}, nil
		}
	}
	return language.Audio{}, fmt.Errorf("gemini speak: %w", upstream.ErrEmpty)
}
