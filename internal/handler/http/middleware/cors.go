package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
)

// CORSConfig holds the configuration for CORS middleware.
type CORSConfig struct {
	// AllowedOrigins is matched case-insensitively without trailing slash.
	// "*" allows every origin and disables credentials.
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	// MaxAge is how long preflight results may be cached, in seconds.
	MaxAge int
	Logger *slog.Logger
}

// OriginValidator decides whether a browser origin may read responses.
type OriginValidator interface {
	IsAllowed(origin string) bool
}

// WhitelistValidator matches origins exactly, or everything when it holds "*".
type WhitelistValidator struct {
	allowedOrigins map[string]struct{}
	any            bool
}

// NewWhitelistValidator lowercases origins and drops trailing slashes and blanks.
func NewWhitelistValidator(origins []string) *WhitelistValidator {
	v := &WhitelistValidator{allowedOrigins: make(map[string]struct{}, len(origins))}
	for _, origin := range origins {
		origin = normalizeOrigin(origin)
		if origin == "" {
			continue
		}
		if origin == "*" {
			v.any = true
			continue
		}
		v.allowedOrigins[origin] = struct{}{}
	}
	return v
}

// IsAllowed reports whether origin is on the list.
func (v *WhitelistValidator) IsAllowed(origin string) bool {
	if v.any {
		return true
	}
	_, ok := v.allowedOrigins[normalizeOrigin(origin)]
	return ok
}

// AllowsAny reports whether the list contains "*".
func (v *WhitelistValidator) AllowsAny() bool {
	return v.any
}

func normalizeOrigin(origin string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(origin)), "/")
}

// CORS sets the cross-origin headers and answers every OPTIONS preflight
// with 204 without calling next.
//
// With a "*" allow-list the response carries `Access-Control-Allow-Origin: *`.
// With an explicit list the request origin is echoed back together with
// `Vary: Origin`; origins not on the list get no CORS headers and the browser
// blocks the response.
func CORS(config CORSConfig) func(http.Handler) http.Handler {
	validator := NewWhitelistValidator(config.AllowedOrigins)
	methods := strings.Join(config.AllowedMethods, ", ")
	headers := strings.Join(config.AllowedHeaders, ", ")
	maxAge := strconv.Itoa(config.MaxAge)
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			allowed := false

			switch {
			case validator.AllowsAny():
				w.Header().Set("Access-Control-Allow-Origin", "*")
				allowed = true
			case origin != "" && validator.IsAllowed(origin):
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
				allowed = true
			case origin != "":
				logger.Warn("CORS: origin not allowed",
					slog.String("origin", origin),
					slog.String("path", r.URL.Path),
					slog.String("method", r.Method))
			}

			if r.Method == http.MethodOptions {
				if allowed {
					w.Header().Set("Access-Control-Allow-Methods", methods)
					w.Header().Set("Access-Control-Allow-Headers", headers)
					w.Header().Set("Access-Control-Max-Age", maxAge)
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
