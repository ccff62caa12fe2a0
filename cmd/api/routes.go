package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"privatelives/internal/config"
	hhttp "privatelives/internal/handler/http"
	"privatelives/internal/handler/http/auth"
	hcomfy "privatelives/internal/handler/http/comfyui"
	hgen "privatelives/internal/handler/http/generate"
	hlang "privatelives/internal/handler/http/language"
	"privatelives/internal/handler/http/middleware"
	hnews "privatelives/internal/handler/http/news"
	"privatelives/internal/handler/http/requestid"
	"privatelives/internal/handler/http/respond"
	hsearch "privatelives/internal/handler/http/search"
	hsub "privatelives/internal/handler/http/subscribe"
	pgRepo "privatelives/internal/infra/adapter/persistence/postgres"
	"privatelives/internal/infra/comfyui"
	"privatelives/internal/infra/db"
	"privatelives/internal/infra/llm"
	"privatelives/internal/infra/stockphoto"
	"privatelives/internal/infra/websearch"
	"privatelives/internal/observability/tracing"
	"privatelives/internal/usecase/imagegen"
	"privatelives/internal/usecase/language"
	"privatelives/internal/usecase/news"
	"privatelives/internal/usecase/newsgen"
	"privatelives/internal/usecase/search"
	"privatelives/internal/usecase/subscribe"
)

// ServerComponents holds what runServer needs beyond the handler.
type ServerComponents struct {
	Handler     http.Handler
	RateLimiter *middleware.RateLimiter
}

// services are the use cases behind the /api routes.
type services struct {
	News      *news.Service
	Subscribe *subscribe.Service
	NewsGen   *newsgen.Service
	ImageGen  *imagegen.Service
	Language  *language.Service
	Search    *search.Service
	ComfyUI   hcomfy.LoRALister
}

// setupServer builds the upstream adapters and use cases and returns the
// fully wrapped handler.
func setupServer(ctx context.Context, logger *slog.Logger, cfg *config.Config, database *db.Provider) (*ServerComponents, error) {
	svcs, err := buildServices(ctx, cfg, database)
	if err != nil {
		return nil, err
	}

	rl, err := newRateLimiter(logger, cfg.RateLimit)
	if err != nil {
		return nil, err
	}

	mux := setupRoutes(cfg, svcs, database, rl)
	return &ServerComponents{
		Handler:     applyMiddleware(logger, cfg, mux),
		RateLimiter: rl,
	}, nil
}

func buildServices(ctx context.Context, cfg *config.Config, database *db.Provider) (*services, error) {
	gemini, err := llm.NewGemini(ctx, llm.GeminiConfig{
		APIKey:      cfg.Keys.Gemini,
		BaseURL:     cfg.Endpoints.GeminiBaseURL,
		TextModel:   cfg.Models.GeminiText,
		SpeechModel: cfg.Models.GeminiSpeech,
	})
	if err != nil {
		return nil, err
	}
	openAI := llm.NewOpenAI(llm.OpenAIConfig{
		APIKey:     cfg.Keys.OpenAI,
		BaseURL:    cfg.Endpoints.OpenAIBaseURL,
		TextModel:  cfg.Models.OpenAIText,
		ImageModel: cfg.Models.OpenAIImage,
	})
	claude := llm.NewClaude(llm.ClaudeConfig{
		APIKey: cfg.Keys.Anthropic,
		Model:  cfg.Models.Claude,
	})
	comfy := comfyui.New(comfyui.Config{
		BaseURL:    cfg.Endpoints.ComfyUIURL,
		Checkpoint: cfg.Models.ComfyCheckpoint,
		Timeout:    cfg.Timeouts.ComfyUI,
	}, cfg.Timeouts.HTTPClient)

	return &services{
		News:      &news.Service{Repo: pgRepo.NewNewsRepo(database)},
		Subscribe: &subscribe.Service{Repo: pgRepo.NewSubscriberRepo(database)},
		NewsGen: &newsgen.Service{
			Writers: map[newsgen.Provider]newsgen.Writer{
				newsgen.ProviderGemini: gemini,
				newsgen.ProviderOpenAI: openAI,
				newsgen.ProviderClaude: claude,
			},
			Timeout: cfg.Timeouts.NewsGenerate,
		},
		ImageGen: &imagegen.Service{
			Generators: map[imagegen.Provider]imagegen.Generator{
				imagegen.ProviderOpenAI:  openAI,
				imagegen.ProviderComfyUI: comfy,
			},
			Fallback: stockphoto.New(""),
		},
		Language: &language.Service{
			Translator:  gemini,
			Synthesizer: gemini,
			Voices: map[language.Language]string{
				language.Bosnian:  cfg.Models.BosnianVoice,
				language.Croatian: cfg.Models.CroatianVoice,
			},
		},
		Search:  &search.Service{Searcher: websearch.NewBrave(cfg.Keys.Brave, cfg.Endpoints.BraveBaseURL, cfg.Timeouts.HTTPClient)},
		ComfyUI: comfy,
	}, nil
}

// newRateLimiter returns nil when rate limiting is disabled.
func newRateLimiter(logger *slog.Logger, cfg config.RateLimitConfig) (*middleware.RateLimiter, error) {
	if !cfg.Enabled {
		logger.Warn("rate limiting is DISABLED - not recommended for production")
		return nil, nil
	}

	cidrs, err := middleware.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		return nil, fmt.Errorf("RATELIMIT_TRUSTED_PROXIES: %w", err)
	}
	proxyCfg := middleware.TrustedProxyConfig{Enabled: len(cidrs) > 0, AllowedCIDRs: cidrs}
	if proxyCfg.Enabled {
		logger.Info("rate limiting: trusted proxy mode enabled",
			slog.Int("trusted_proxies_count", len(cidrs)))
	} else {
		logger.Info("rate limiting: using RemoteAddr (proxy headers ignored)")
	}

	logger.Info("rate limiting initialized",
		slog.Float64("rps", cfg.RPS),
		slog.Int("burst", cfg.Burst))
	return middleware.NewRateLimiter(cfg.RPS, cfg.Burst, middleware.NewIPExtractor(proxyCfg)), nil
}

// setupRoutes registers the API and ops routes. Routes are registered without
// a method so each handler can answer OPTIONS and 405 itself. A nil rl leaves
// the expensive routes unthrottled.
func setupRoutes(cfg *config.Config, svcs *services, database *db.Provider, rl *middleware.RateLimiter) *http.ServeMux {
	throttled := func(h http.Handler) http.Handler {
		if rl == nil {
			return h
		}
		return rl.Middleware(h)
	}
	gate := auth.Gate{Token: cfg.AdminToken}

	mux := http.NewServeMux()

	mux.Handle("/health", &hhttp.HealthHandler{
		DB:      database,
		Version: cfg.Version,
		Upstreams: map[string]bool{
			"gemini":    cfg.Keys.Gemini != "",
			"openai":    cfg.Keys.OpenAI != "",
			"anthropic": cfg.Keys.Anthropic != "",
			"brave":     cfg.Keys.Brave != "",
			"comfyui":   cfg.Endpoints.ComfyUIURL != "",
		},
		RateLimiter: rateLimiterStats(rl),
	})
	mux.Handle("/live", &hhttp.LiveHandler{})
	mux.Handle("/metrics", hhttp.MetricsHandler())

	mux.Handle("/api/news", hnews.Handler{Svc: svcs.News, Gate: gate})
	mux.Handle("/api/subscribe", hsub.Handler{Svc: svcs.Subscribe})

	mux.Handle("/api/news-generate", throttled(hgen.NewsHandler{Svc: svcs.NewsGen}))
	mux.Handle("/api/image-generate", throttled(hgen.ImageHandler{Svc: svcs.ImageGen}))
	mux.Handle("/api/bosnian-beats-translate", throttled(hlang.TranslateHandler{Svc: svcs.Language, Lang: language.Bosnian}))
	mux.Handle("/api/bosnian-beats-speak", throttled(hlang.SpeakHandler{Svc: svcs.Language, Lang: language.Bosnian}))
	mux.Handle("/api/balkan-beats-speak", throttled(hlang.SpeakHandler{Svc: svcs.Language, Lang: language.Croatian}))
	mux.Handle("/api/web-search", throttled(hsearch.Handler{Svc: svcs.Search}))

	mux.Handle("/api/balkan-beats-live", hlang.LiveHandler{})
	mux.Handle("/api/comfyui-loras", hcomfy.Handler{Client: svcs.ComfyUI})

	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		respond.Message(w, http.StatusNotFound, "Not found")
	}))
	return mux
}

// rateLimiterStats avoids storing a typed nil in the KeyCounter interface.
func rateLimiterStats(rl *middleware.RateLimiter) hhttp.KeyCounter {
	if rl == nil {
		return nil
	}
	return rl
}

// applyMiddleware wraps the mux. Outermost first:
// Request ID → Tracing → Logging → Recovery → Metrics → CORS → Body Limit.
func applyMiddleware(logger *slog.Logger, cfg *config.Config, handler http.Handler) http.Handler {
	logger.Info("CORS enabled",
		slog.Any("allowed_origins", cfg.CORS.AllowedOrigins),
		slog.Any("allowed_methods", cfg.CORS.AllowedMethods),
		slog.Any("allowed_headers", cfg.CORS.AllowedHeaders),
		slog.Int("max_age", cfg.CORS.MaxAge))

	return hhttp.Chain(handler,
		requestid.Middleware,
		tracing.Middleware,
		hhttp.Logging(logger),
		hhttp.Recover(logger),
		hhttp.MetricsMiddleware,
		middleware.CORS(middleware.CORSConfig{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			AllowedMethods: cfg.CORS.AllowedMethods,
			AllowedHeaders: cfg.CORS.AllowedHeaders,
			MaxAge:         cfg.CORS.MaxAge,
			Logger:         logger,
		}),
		hhttp.LimitRequestBody(hhttp.DefaultMaxBodyBytes),
	)
}
