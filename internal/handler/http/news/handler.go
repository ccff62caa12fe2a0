// Package news serves /api/news: public reads, and admin-gated drafts and writes.
package news

import (
	"encoding/json"
	"errors"
	"net/http"

	"privatelives/internal/domain/entity"
	"privatelives/internal/handler/http/auth"
	"privatelives/internal/handler/http/pathutil"
	"privatelives/internal/handler/http/respond"
	newsUC "privatelives/internal/usecase/news"
)

const (
	msgUnauthorized = "Unauthorized"
	msgNoAdminToken = "ADMIN_TOKEN is not configured"
)

// Handler dispatches /api/news by method.
type Handler struct {
	Svc  *newsUC.Service
	Gate auth.Gate
}

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		h.get(w, r)
	case http.MethodPost:
		if h.authorize(w, r) {
			h.create(w, r)
		}
	case http.MethodPut:
		if h.authorize(w, r) {
			h.update(w, r)
		}
	case http.MethodOptions:
		w.WriteHeader(http.StatusNoContent)
	default:
		respond.MethodNotAllowed(w, http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions)
	}
}

// authorize writes the rejection itself and reports whether the write may proceed.
func (h Handler) authorize(w http.ResponseWriter, r *http.Request) bool {
	switch h.Gate.Check(r) {
	case auth.Admin:
		return true
	case auth.Unconfigured:
		respond.Message(w, http.StatusInternalServerError, msgNoAdminToken)
	default:
		respond.Message(w, http.StatusUnauthorized, msgUnauthorized)
	}
	return false
}

func (h Handler) get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	admin := h.Gate.IsAdmin(r)
	q := r.URL.Query()

	var (
		post *entity.NewsPost
		err  error
	)
	switch {
	case q.Get("id") != "":
		id, perr := pathutil.ParseID(q.Get("id"))
		if perr != nil {
			respond.Message(w, http.StatusBadRequest, "Invalid id")
			return
		}
		post, err = h.Svc.Get(ctx, id, admin)
	case q.Get("slug") != "":
		post, err = h.Svc.GetBySlug(ctx, q.Get("slug"), admin)
	default:
		posts, err := h.Svc.List(ctx, admin)
		if err != nil {
			respond.SafeErrorV2(w, http.StatusInternalServerError, respond.DatabaseError(err))
			return
		}
		out := make([]DTO, 0, len(posts))
		for _, p := range posts {
			out = append(out, toDTO(p))
		}
		respond.JSON(w, http.StatusOK, out)
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toDTO(post))
}

func (h Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Message(w, http.StatusBadRequest, respond.MsgInvalidJSON)
		return
	}

	post, err := h.Svc.Create(r.Context(), newsUC.CreateInput{
		Title:     req.Title,
		Content:   req.Content,
		ImageURL:  req.ImageURL,
		Published: req.Published,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, toDTO(post))
}

func (h Handler) update(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Message(w, http.StatusBadRequest, respond.MsgInvalidJSON)
		return
	}

	// ?id= wins over the body
	var id int64
	if raw := r.URL.Query().Get("id"); raw != "" {
		parsed, err := pathutil.ParseID(raw)
		if err != nil {
			respond.Message(w, http.StatusBadRequest, "Invalid id")
			return
		}
		id = parsed
	} else if req.ID != nil {
		id = *req.ID
	}
	if id <= 0 {
		respond.Message(w, http.StatusBadRequest, "Missing id")
		return
	}

	post, err := h.Svc.Update(r.Context(), newsUC.UpdateInput{
		ID:        id,
		Title:     req.Title,
		Content:   req.Content,
		ImageURL:  req.ImageURL,
		Published: req.Published,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toDTO(post))
}

func writeError(w http.ResponseWriter, err error) {
	var vErr *entity.ValidationError
	switch {
	case errors.Is(err, newsUC.ErrNotFound):
		respond.Message(w, http.StatusNotFound, "Not found")
	case errors.Is(err, newsUC.ErrInvalidID):
		respond.Message(w, http.StatusBadRequest, "Invalid id")
	case errors.Is(err, newsUC.ErrDuplicateSlug):
		respond.Message(w, http.StatusConflict, err.Error())
	case errors.As(err, &vErr):
		respond.Message(w, http.StatusBadRequest, vErr.Field+" "+vErr.Message)
	default:
		respond.SafeErrorV2(w, http.StatusInternalServerError, respond.DatabaseError(err))
	}
}
