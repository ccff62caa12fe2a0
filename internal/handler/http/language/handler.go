// Package language serves the phrasebook endpoints: translation, speech and
// the live transcription placeholder.
package language

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"privatelives/internal/handler/http/respond"
	"privatelives/internal/observability/logging"
	"privatelives/internal/upstream"
	langUC "privatelives/internal/usecase/language"
)

const (
	msgMissingText = "Missing text"
	msgTextTooLong = "Text is too long"
	// MsgTranslationFailed is shown in place of every variant when translation fails.
	MsgTranslationFailed = "Översättningen misslyckades. Försök igen."
	msgNoAudio           = "No audio returned"
)

type textRequest struct {
	Text string `json:"text"`
}

// TranslateResponse carries the three variants. Error is set when they hold
// MsgTranslationFailed instead of a translation.
type TranslateResponse struct {
	langUC.Translation
	Error string `json:"error,omitempty"`
}

// SpeakResponse carries base64-encoded audio.
type SpeakResponse struct {
	Audio    string `json:"audio"`
	MIMEType string `json:"mimeType"`
}

func decodeText(w http.ResponseWriter, r *http.Request) (textRequest, bool) {
	var req textRequest
	switch r.Method {
	case http.MethodPost:
	case http.MethodOptions:
		w.WriteHeader(http.StatusNoContent)
		return req, false
	default:
		respond.MethodNotAllowed(w, http.MethodPost, http.MethodOptions)
		return req, false
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Message(w, http.StatusBadRequest, respond.MsgInvalidJSON)
		return req, false
	}
	return req, true
}

// inputError writes a 400 for text validation errors and reports whether it did.
func inputError(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, langUC.ErrMissingText):
		respond.Message(w, http.StatusBadRequest, msgMissingText)
	case errors.Is(err, langUC.ErrTextTooLong):
		respond.Message(w, http.StatusBadRequest, msgTextTooLong)
	default:
		return false
	}
	return true
}

// TranslateHandler answers POST /api/bosnian-beats-translate {text}. Upstream
// failures are embedded in a 200 so the phrasebook can render them in place.
type TranslateHandler struct {
	Svc  *langUC.Service
	Lang langUC.Language
}

func (h TranslateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeText(w, r)
	if !ok {
		return
	}

	tr, err := h.Svc.Translate(r.Context(), req.Text, h.Lang)
	if err != nil {
		if inputError(w, err) {
			return
		}
		logging.FromContext(r.Context()).Warn("translation failed",
			slog.String("language", string(h.Lang)),
			slog.String("error", respond.SanitizeError(err)))
		respond.JSON(w, http.StatusOK, TranslateResponse{
			Translation: langUC.ErrorTranslation(MsgTranslationFailed),
			Error:       respond.UpstreamError(err).UserMsg,
		})
		return
	}
	respond.JSON(w, http.StatusOK, TranslateResponse{Translation: tr})
}

// SpeakHandler answers POST {text} with {audio, mimeType} read in Lang.
type SpeakHandler struct {
	Svc  *langUC.Service
	Lang langUC.Language
}

func (h SpeakHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeText(w, r)
	if !ok {
		return
	}

	audio, err := h.Svc.Speak(r.Context(), req.Text, h.Lang)
	if err != nil {
		if inputError(w, err) {
			return
		}
		if errors.Is(err, upstream.ErrEmpty) {
			respond.SafeErrorV2(w, http.StatusInternalServerError,
				respond.NewAppError(http.StatusInternalServerError, msgNoAudio, err))
			return
		}
		respond.SafeErrorV2(w, http.StatusBadGateway, respond.UpstreamError(err))
		return
	}
	respond.JSON(w, http.StatusOK, SpeakResponse{
		Audio:    base64.StdEncoding.EncodeToString(audio.Data),
		MIMEType: audio.MIMEType,
	})
}
