// Package search serves the web-search proxy.
package search

import (
	"encoding/json"
	"errors"
	"net/http"

	"privatelives/internal/handler/http/respond"
	searchUC "privatelives/internal/usecase/search"
)

type request struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

// Handler answers POST /api/web-search {query, limit?} with {results}.
type Handler struct{ Svc *searchUC.Service }

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
	case http.MethodOptions:
		w.WriteHeader(http.StatusNoContent)
		return
	default:
		respond.MethodNotAllowed(w, http.MethodPost, http.MethodOptions)
		return
	}

	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Message(w, http.StatusBadRequest, respond.MsgInvalidJSON)
		return
	}

	results, err := h.Svc.Search(r.Context(), req.Query, req.Limit)
	if err != nil {
		if errors.Is(err, searchUC.ErrMissingQuery) {
			respond.Message(w, http.StatusBadRequest, "Missing query")
			return
		}
		respond.SafeErrorV2(w, http.StatusBadGateway, respond.UpstreamError(err))
		return
	}
	if results == nil {
		results = []searchUC.Result{}
	}
	respond.JSON(w, http.StatusOK, map[string][]searchUC.Result{"results": results})
}
