package generate

import (
	"errors"
	"net/http"

	"privatelives/internal/handler/http/respond"
	"privatelives/internal/usecase/imagegen"
)

// ImageHandler answers POST /api/image-generate {topic, provider?, lora?} with {imageUrl}.
type ImageHandler struct{ Svc *imagegen.Service }

func (h ImageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req topicRequest
	if !decodePost(w, r, &req) {
		return
	}

	url, err := h.Svc.Generate(r.Context(),
		imagegen.Request{Topic: req.Topic, LoRA: req.LoRA},
		imagegen.ParseProvider(req.Provider))
	if err != nil {
		if errors.Is(err, imagegen.ErrMissingTopic) {
			respond.Message(w, http.StatusBadRequest, msgMissingTopic)
			return
		}
		respond.SafeErrorV2(w, http.StatusBadGateway, respond.UpstreamError(err))
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"imageUrl": url})
}
