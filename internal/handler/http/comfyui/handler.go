// Package comfyui lists the LoRA models installed on the ComfyUI server.
package comfyui

import (
	"context"
	"net/http"

	"privatelives/internal/handler/http/respond"
)

// LoRALister is implemented by the ComfyUI client.
type LoRALister interface {
	LoRAs(ctx context.Context) ([]string, error)
}

// Handler answers GET /api/comfyui-loras with {loras}.
type Handler struct{ Client LoRALister }

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
	case http.MethodOptions:
		w.WriteHeader(http.StatusNoContent)
		return
	default:
		respond.MethodNotAllowed(w, http.MethodGet, http.MethodOptions)
		return
	}

	loras, err := h.Client.LoRAs(r.Context())
	if err != nil {
		respond.SafeErrorV2(w, http.StatusBadGateway, respond.UpstreamError(err))
		return
	}
	if loras == nil {
		loras = []string{}
	}
	respond.JSON(w, http.StatusOK, map[string][]string{"loras": loras})
}
