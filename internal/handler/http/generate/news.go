// Package generate serves the AI generation proxies: news articles and images.
package generate

import (
	"encoding/json"
	"errors"
	"net/http"

	"privatelives/internal/handler/http/respond"
	"privatelives/internal/usecase/newsgen"
)

const msgMissingTopic = "Missing topic"

type topicRequest struct {
	Topic    string `json:"topic"`
	Provider string `json:"provider"`
	LoRA     string `json:"lora"`
}

// decodePost handles OPTIONS and non-POST methods and decodes the body into req.
// It reports whether the caller should continue.
func decodePost(w http.ResponseWriter, r *http.Request, req any) bool {
	switch r.Method {
	case http.MethodPost:
	case http.MethodOptions:
		w.WriteHeader(http.StatusNoContent)
		return false
	default:
		respond.MethodNotAllowed(w, http.MethodPost, http.MethodOptions)
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		respond.Message(w, http.StatusBadRequest, respond.MsgInvalidJSON)
		return false
	}
	return true
}

// NewsHandler answers POST /api/news-generate {topic, provider?} with
// {title, content, sources}.
type NewsHandler struct{ Svc *newsgen.Service }

func (h NewsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req topicRequest
	if !decodePost(w, r, &req) {
		return
	}

	article, err := h.Svc.Generate(r.Context(), req.Topic, newsgen.ParseProvider(req.Provider))
	if err != nil {
		if errors.Is(err, newsgen.ErrMissingTopic) {
			respond.Message(w, http.StatusBadRequest, msgMissingTopic)
			return
		}
		respond.SafeErrorV2(w, http.StatusBadGateway, respond.UpstreamError(err))
		return
	}
	if article.Sources == nil {
		article.Sources = []newsgen.Source{}
	}
	respond.JSON(w, http.StatusOK, article)
}
