package generate_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"privatelives/internal/handler/http/generate"
	"privatelives/internal/infra/stockphoto"
	"privatelives/internal/upstream"
	"privatelives/internal/usecase/imagegen"
)

type recordingGenerator struct {
	url  string
	err  error
	reqs []imagegen.Request
}

func (g *recordingGenerator) GenerateImage(_ context.Context, req imagegen.Request) (string, error) {
	g.reqs = append(g.reqs, req)
	return g.url, g.err
}

func TestImageHandler(t *testing.T) {
	openai := &recordingGenerator{url: "data:image/png;base64,iVBORw0KGgo="}
	comfy := &recordingGenerator{url: "http://comfy.local/view?filename=a.png&subfolder=&type=output"}
	h := generate.ImageHandler{Svc: &imagegen.Service{
		Generators: map[imagegen.Provider]imagegen.Generator{
			imagegen.ProviderOpenAI:  openai,
			imagegen.ProviderComfyUI: comfy,
		},
		Fallback: stockphoto.New(""),
	}}

	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "default is stock", body: `{"topic":"Zagreb street festival"}`, want: "https://source.unsplash.com/1600x900/?Zagreb+street+festival"},
		{name: "openai", body: `{"topic":"Zagreb","provider":"openai"}`, want: openai.url},
		{name: "comfyui with lora", body: `{"topic":"Zagreb","provider":"comfyui","lora":"film.safetensors"}`, want: comfy.url},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serve(h, http.MethodPost, tt.body)
			require.Equal(t, http.StatusOK, rr.Code)

			var got map[string]string
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
			assert.Equal(t, tt.want, got["imageUrl"])
		})
	}

	require.Len(t, comfy.reqs, 1)
	assert.Equal(t, "film.safetensors", comfy.reqs[0].LoRA)
}

func TestImageHandler_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		err      error
		wantCode int
	}{
		{name: "missing topic", body: `{"provider":"openai"}`, wantCode: http.StatusBadRequest},
		{name: "missing key", body: `{"topic":"x","provider":"openai"}`, err: upstream.NotConfigured("OPENAI_API_KEY"), wantCode: http.StatusInternalServerError},
		{name: "no usable image", body: `{"topic":"x","provider":"openai"}`, err: upstream.ErrEmpty, wantCode: http.StatusBadGateway},
		{name: "upstream 500", body: `{"topic":"x","provider":"openai"}`, err: &upstream.StatusError{Provider: "openai", StatusCode: 500, Body: "stack trace"}, wantCode: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &recordingGenerator{err: tt.err}
			h := generate.ImageHandler{Svc: &imagegen.Service{
				Generators: map[imagegen.Provider]imagegen.Generator{imagegen.ProviderOpenAI: gen},
			}}
			rr := serve(h, http.MethodPost, tt.body)

			assert.Equal(t, tt.wantCode, rr.Code)
			assert.NotContains(t, rr.Body.String(), "stack trace")
			if tt.wantCode == http.StatusBadRequest {
				assert.Empty(t, gen.reqs)
			}
		})
	}
}
