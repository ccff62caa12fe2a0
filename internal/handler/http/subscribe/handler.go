// Package subscribe serves the newsletter sign-up form.
package subscribe

import (
	"encoding/json"
	"net/http"

	"privatelives/internal/handler/http/respond"
	subUC "privatelives/internal/usecase/subscribe"
)

// Swedish strings shown by the sign-up form.
const (
	MsgInvalidEmail = "Ogiltig e-postadress"
	MsgSubscribed   = "Tack! Du är nu prenumerant."
	MsgAlready      = "Du är redan prenumerant."
)

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	IsNew   bool   `json:"isNew"`
}

// Handler answers POST /api/subscribe {email}.
type Handler struct{ Svc *subUC.Service }

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

	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Message(w, http.StatusBadRequest, respond.MsgInvalidJSON)
		return
	}

	isNew, err := h.Svc.Subscribe(r.Context(), req.Email)
	if err != nil {
		if subUC.IsInvalidEmail(err) {
			respond.Message(w, http.StatusBadRequest, MsgInvalidEmail)
			return
		}
		respond.SafeErrorV2(w, http.StatusInternalServerError, respond.DatabaseError(err))
		return
	}

	msg := MsgSubscribed
	if !isNew {
		msg = MsgAlready
	}
	respond.JSON(w, http.StatusOK, Response{Success: true, Message: msg, IsNew: isNew})
}
