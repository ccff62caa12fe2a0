// Package respond writes JSON responses and turns errors into `{error}` bodies
// without leaking upstream payloads or secrets.
package respond

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"privatelives/internal/infra/db"
	"privatelives/internal/upstream"
)

// User-facing messages shared by several handlers. The site's visitors are Swedish.
const (
	MsgInternal       = "internal server error"
	MsgUpstreamFailed = "Tjänsten svarade inte som väntat. Försök igen om en stund."
	MsgTimeout        = "Det tog för lång tid. Försök igen."
	MsgInvalidJSON    = "Invalid JSON body"
)

// JSON writes a JSON response with the given status code and data.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			// headers are already sent
			slog.Default().Error("failed to encode JSON response",
				slog.Int("status_code", code),
				slog.Any("error", err))
		}
	}
}

// Error writes `{"error": err.Error()}`. Use it only for messages written for users.
func Error(w http.ResponseWriter, code int, err error) {
	JSON(w, code, map[string]string{"error": err.Error()})
}

// Message writes `{"error": msg}`.
func Message(w http.ResponseWriter, code int, msg string) {
	JSON(w, code, map[string]string{"error": msg})
}

// MethodNotAllowed answers 405 with an Allow header listing the supported methods.
func MethodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	Message(w, http.StatusMethodNotAllowed, "Method not allowed")
}

// safeFragments mark validation messages that may be shown to users as-is.
var safeFragments = []string{
	"required",
	"invalid",
	"not found",
	"already exists",
	"must be",
	"must contain",
	"cannot be",
	"too long",
}

// SafeError returns validation messages as-is and replaces anything else, and
// every 5xx, with a generic message after logging the sanitized error.
func SafeError(w http.ResponseWriter, code int, err error) {
	if err == nil {
		return
	}

	msg := err.Error()
	lowerMsg := strings.ToLower(msg)
	isSafe := false
	for _, safe := range safeFragments {
		if strings.Contains(lowerMsg, safe) {
			isSafe = true
			break
		}
	}
	if code >= 500 {
		isSafe = false
	}

	if isSafe {
		Message(w, code, msg)
		return
	}
	slog.Default().Error("internal server error",
		slog.String("status", http.StatusText(code)),
		slog.Int("code", code),
		slog.String("error", SanitizeError(err)))
	Message(w, code, MsgInternal)
}

// AppError is an error type that carries a user-facing message.
type AppError struct {
	UserMsg string // shown to users
	Err     error  // logged, never shown
	Code    int
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.UserMsg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError with the given parameters.
func NewAppError(code int, userMsg string, err error) *AppError {
	return &AppError{Code: code, UserMsg: userMsg, Err: err}
}

// SafeErrorV2 writes the user message of an *AppError and logs its internal error.
// Other errors fall back to SafeError with code.
func SafeErrorV2(w http.ResponseWriter, code int, err error) {
	if err == nil {
		return
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Err != nil {
			level := slog.LevelError
			if appErr.Code < 500 {
				level = slog.LevelWarn
			}
			slog.Default().Log(context.Background(), level, "application error",
				slog.String("status", http.StatusText(appErr.Code)),
				slog.Int("code", appErr.Code),
				slog.String("user_message", appErr.UserMsg),
				slog.String("error", SanitizeError(appErr.Err)))
		}
		Message(w, appErr.Code, appErr.UserMsg)
		return
	}

	SafeError(w, code, err)
}

// UpstreamError maps an adapter error to an AppError: missing configuration is
// a 500 naming the missing setting, a deadline is a 504, everything else a 502
// with a fixed message.
func UpstreamError(err error) *AppError {
	switch upstream.Classify(err) {
	case upstream.KindNotConfigured:
		return NewAppError(http.StatusInternalServerError, configMessage(err), err)
	case upstream.KindTimeout:
		return NewAppError(http.StatusGatewayTimeout, MsgTimeout, err)
	default:
		return NewAppError(http.StatusBadGateway, MsgUpstreamFailed, err)
	}
}

// configMessage names the missing setting ("OPENAI_API_KEY is not configured").
func configMessage(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, upstream.ErrNotConfigured.Error()+": "); i >= 0 {
		setting := strings.TrimSuffix(msg[i+len(upstream.ErrNotConfigured.Error())+2:], " is not set")
		if setting != "" && !strings.ContainsAny(setting, " :") {
			return setting + " is not configured"
		}
	}
	return "Server configuration error"
}

// DatabaseError maps a repository failure to a 500: a missing DSN names the
// setting, anything else is the generic message.
func DatabaseError(err error) *AppError {
	if errors.Is(err, db.ErrNotConfigured) {
		return NewAppError(http.StatusInternalServerError, "DATABASE_URL is not configured", err)
	}
	return NewAppError(http.StatusInternalServerError, MsgInternal, err)
}
