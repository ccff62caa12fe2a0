// Package config assembles the service configuration from environment variables
// and an optional YAML file describing provider models and voices.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	envcfg "privatelives/pkg/config"
)

// Config holds everything cmd/api needs to wire handlers.
//
// Secrets are allowed to be empty here. Each handler checks the secret it needs
// per request so that one missing key only disables the affected endpoint.
type Config struct {
	Port        int
	Version     string
	DatabaseURL string
	AdminToken  string

	Keys      APIKeys
	Endpoints Endpoints
	Models    Models
	Timeouts  Timeouts
	CORS      CORSConfig
	RateLimit RateLimitConfig
}

// APIKeys are the upstream credentials.
type APIKeys struct {
	OpenAI    string
	Gemini    string
	Anthropic string
	Brave     string
}

// Endpoints are upstream base URLs. Empty values mean the SDK default.
type Endpoints struct {
	OpenAIBaseURL string
	GeminiBaseURL string
	BraveBaseURL  string
	ComfyUIURL    string
}

// Models names the model and voice used by each provider.
type Models struct {
	GeminiText      string `yaml:"gemini_text"`
	GeminiSpeech    string `yaml:"gemini_speech"`
	OpenAIText      string `yaml:"openai_text"`
	OpenAIImage     string `yaml:"openai_image"`
	Claude          string `yaml:"claude"`
	BosnianVoice    string `yaml:"bosnian_voice"`
	CroatianVoice   string `yaml:"croatian_voice"`
	ComfyCheckpoint string `yaml:"comfy_checkpoint"`
}

// Timeouts bound the slow upstream paths.
type Timeouts struct {
	// NewsGenerate matches the hosting platform's execution budget for article generation.
	NewsGenerate time.Duration
	ComfyUI      time.Duration
	HTTPClient   time.Duration
}

// CORSConfig configures the cross-origin headers.
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	MaxAge         int
}

// RateLimitConfig configures the per-IP token bucket on the AI and search routes.
type RateLimitConfig struct {
	Enabled bool
	RPS     float64
	Burst   int
	// TrustedProxies lists the CIDRs whose X-Forwarded-For header is believed.
	// Empty means the client IP is always RemoteAddr.
	TrustedProxies []string
	CleanupEvery   time.Duration
	IdleTTL        time.Duration
}

type providersFile struct {
	Models Models `yaml:"models"`
}

// DefaultModels returns the models used when neither YAML nor env override them.
func DefaultModels() Models {
	return Models{
		GeminiText:      "gemini-2.5-flash",
		GeminiSpeech:    "gemini-2.5-flash-preview-tts",
		OpenAIText:      "gpt-4o-mini",
		OpenAIImage:     "dall-e-3",
		Claude:          "claude-sonnet-4-5-20250929",
		BosnianVoice:    "Kore",
		CroatianVoice:   "Puck",
		ComfyCheckpoint: "sd_xl_base_1.0.safetensors",
	}
}

// Load reads the configuration from the environment.
// When PROVIDERS_CONFIG points to a YAML file its models override the defaults,
// and model env variables override the file.
func Load() (*Config, error) {
	models := DefaultModels()
	if path := os.Getenv("PROVIDERS_CONFIG"); path != "" {
		fileModels, err := LoadModels(path)
		if err != nil {
			return nil, err
		}
		models = mergeModels(models, *fileModels)
	}
	models = Models{
		GeminiText:      envcfg.GetEnvString("GEMINI_TEXT_MODEL", models.GeminiText),
		GeminiSpeech:    envcfg.GetEnvString("GEMINI_TTS_MODEL", models.GeminiSpeech),
		OpenAIText:      envcfg.GetEnvString("OPENAI_TEXT_MODEL", models.OpenAIText),
		OpenAIImage:     envcfg.GetEnvString("OPENAI_IMAGE_MODEL", models.OpenAIImage),
		Claude:          envcfg.GetEnvString("CLAUDE_MODEL", models.Claude),
		BosnianVoice:    envcfg.GetEnvString("BOSNIAN_VOICE", models.BosnianVoice),
		CroatianVoice:   envcfg.GetEnvString("CROATIAN_VOICE", models.CroatianVoice),
		ComfyCheckpoint: envcfg.GetEnvString("COMFYUI_CHECKPOINT", models.ComfyCheckpoint),
	}

	cfg := &Config{
		Port:        envcfg.GetEnvInt("PORT", 8080),
		Version:     envcfg.GetEnvString("VERSION", "dev"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		AdminToken:  os.Getenv("ADMIN_TOKEN"),
		Keys: APIKeys{
			OpenAI:    os.Getenv("OPENAI_API_KEY"),
			Gemini:    firstNonEmpty(os.Getenv("GEMINI_API_KEY"), os.Getenv("GOOGLE_API_KEY")),
			Anthropic: os.Getenv("ANTHROPIC_API_KEY"),
			Brave:     os.Getenv("BRAVE_API_KEY"),
		},
		Endpoints: Endpoints{
			OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
			GeminiBaseURL: os.Getenv("GEMINI_BASE_URL"),
			BraveBaseURL:  envcfg.GetEnvString("BRAVE_BASE_URL", "https://api.search.brave.com"),
			ComfyUIURL:    os.Getenv("COMFYUI_URL"),
		},
		Models: models,
		Timeouts: Timeouts{
			NewsGenerate: envcfg.GetEnvDuration("NEWS_GENERATE_TIMEOUT", 25*time.Second),
			ComfyUI:      envcfg.GetEnvDuration("COMFYUI_TIMEOUT", 90*time.Second),
			HTTPClient:   envcfg.GetEnvDuration("UPSTREAM_HTTP_TIMEOUT", 30*time.Second),
		},
		CORS: CORSConfig{
			AllowedOrigins: envcfg.GetEnvStringList("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods: envcfg.GetEnvStringList("CORS_ALLOWED_METHODS",
				[]string{"GET", "POST", "PUT", "OPTIONS"}),
			AllowedHeaders: envcfg.GetEnvStringList("CORS_ALLOWED_HEADERS",
				[]string{"Content-Type", "X-Admin-Token", "X-Request-ID"}),
			MaxAge: envcfg.GetEnvInt("CORS_MAX_AGE", 86400),
		},
		RateLimit: RateLimitConfig{
			Enabled: envcfg.GetEnvBool("RATELIMIT_ENABLED", true),
			RPS:     envcfg.GetEnvFloat("RATELIMIT_RPS", 0.5),
			Burst:   envcfg.GetEnvInt("RATELIMIT_BURST", 5),

			TrustedProxies: envcfg.GetEnvStringList("RATELIMIT_TRUSTED_PROXIES", nil),
			CleanupEvery:   envcfg.GetEnvDuration("RATELIMIT_CLEANUP_INTERVAL", 5*time.Minute),
			IdleTTL:        envcfg.GetEnvDuration("RATELIMIT_IDLE_TTL", 10*time.Minute),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the non-secret settings. Secrets are checked per request.
func (c *Config) Validate() error {
	if err := envcfg.ValidateIntRange(c.Port, 1, 65535); err != nil {
		return fmt.Errorf("PORT: %w", err)
	}
	if err := envcfg.ValidateDurationRange(c.Timeouts.NewsGenerate, time.Second, 5*time.Minute); err != nil {
		return fmt.Errorf("NEWS_GENERATE_TIMEOUT: %w", err)
	}
	if err := envcfg.ValidatePositiveDuration(c.Timeouts.ComfyUI); err != nil {
		return fmt.Errorf("COMFYUI_TIMEOUT: %w", err)
	}
	if c.RateLimit.Enabled {
		if c.RateLimit.RPS <= 0 {
			return fmt.Errorf("RATELIMIT_RPS must be positive")
		}
		if c.RateLimit.Burst <= 0 {
			return fmt.Errorf("RATELIMIT_BURST must be positive")
		}
		if err := envcfg.ValidatePositiveDuration(c.RateLimit.CleanupEvery); err != nil {
			return fmt.Errorf("RATELIMIT_CLEANUP_INTERVAL: %w", err)
		}
		if err := envcfg.ValidatePositiveDuration(c.RateLimit.IdleTTL); err != nil {
			return fmt.Errorf("RATELIMIT_IDLE_TTL: %w", err)
		}
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		return fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}
	return nil
}

// LoadModels reads the `models:` section of a providers YAML file.
// The path comes from the operator (PROVIDERS_CONFIG), not from request input.
func LoadModels(path string) (*Models, error) {
	// #nosec G304 -- operator supplied path
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read providers config: %w", err)
	}

	var file providersFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse providers config: %w", err)
	}
	return &file.Models, nil
}

func mergeModels(base, override Models) Models {
	base.GeminiText = firstNonEmpty(override.GeminiText, base.GeminiText)
	base.GeminiSpeech = firstNonEmpty(override.GeminiSpeech, base.GeminiSpeech)
	base.OpenAIText = firstNonEmpty(override.OpenAIText, base.OpenAIText)
	base.OpenAIImage = firstNonEmpty(override.OpenAIImage, base.OpenAIImage)
	base.Claude = firstNonEmpty(override.Claude, base.Claude)
	base.BosnianVoice = firstNonEmpty(override.BosnianVoice, base.BosnianVoice)
	base.CroatianVoice = firstNonEmpty(override.CroatianVoice, base.CroatianVoice)
	base.ComfyCheckpoint = firstNonEmpty(override.ComfyCheckpoint, base.ComfyCheckpoint)
	return base
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
