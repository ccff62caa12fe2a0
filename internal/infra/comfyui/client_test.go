package comfyui_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"privatelives/internal/infra/comfyui"
	"privatelives/internal/upstream"
	"privatelives/internal/usecase/imagegen"
)

func newClient(srvURL string, timeout time.Duration) *comfyui.Client {
	return comfyui.New(comfyui.Config{
		BaseURL:      srvURL + "/",
		Checkpoint:   "sdxl.safetensors",
		Timeout:      timeout,
		PollInterval: 5 * time.Millisecond,
	}, 5*time.Second)
}

func TestClient_LoRAs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/object_info/LoraLoader", r.URL.Path)
		_, _ = w.Write([]byte(`{"LoraLoader":{"input":{"required":{` +
			`"model":["MODEL"],"lora_name":[["zeta.safetensors","alpha.safetensors"],{}]}}}}`))
	}))
	defer srv.Close()

	got, err := newClient(srv.URL, time.Second).LoRAs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha.safetensors", "zeta.safetensors"}, got)
}

func TestClient_LoRAs_Malformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := newClient(srv.URL, time.Second).LoRAs(context.Background())
	assert.ErrorIs(t, err, upstream.ErrMalformed)
}

func TestClient_GenerateImage(t *testing.T) {
	var polls atomic.Int32
	var workflow map[string]struct {
		ClassType string         `json:"class_type"`
		Inputs    map[string]any `json:"inputs"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/prompt":
			var body struct {
				Prompt   json.RawMessage `json:"prompt"`
				ClientID string          `json:"client_id"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.NoError(t, json.Unmarshal(body.Prompt, &workflow))
			assert.NotEmpty(t, body.ClientID)
			_, _ = w.Write([]byte(`{"prompt_id":"p-1","number":1,"node_errors":{}}`))
		case "/history/p-1":
			if polls.Add(1) < 3 {
				_, _ = w.Write([]byte(`{}`))
				return
			}
			_, _ = w.Write([]byte(`{"p-1":{"outputs":{"9":{"images":[` +
				`{"filename":"privatelives_0001.png","subfolder":"","type":"output"}]}},` +
				`"status":{"status_str":"success","completed":true}}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	got, err := newClient(srv.URL, 5*time.Second).GenerateImage(context.Background(),
		imagegen.Request{Topic: "Sarajevo", LoRA: "film.safetensors"})
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/view?filename=privatelives_0001.png&subfolder=&type=output", got)
	assert.GreaterOrEqual(t, polls.Load(), int32(3))

	require.Contains(t, workflow, "10")
	assert.Equal(t, "LoraLoader", workflow["10"].ClassType)
	assert.Equal(t, "film.safetensors", workflow["10"].Inputs["lora_name"])
	assert.Equal(t, "sdxl.safetensors", workflow["4"].Inputs["ckpt_name"])
	assert.Contains(t, workflow["6"].Inputs["text"], "Sarajevo")
}

func TestClient_GenerateImage_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/prompt" {
			_, _ = w.Write([]byte(`{"prompt_id":"p-2"}`))
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := newClient(srv.URL, 50*time.Millisecond).GenerateImage(context.Background(), imagegen.Request{Topic: "x"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_GenerateImage_RejectedWorkflow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"type":"prompt_outputs_failed_validation"}}`))
	}))
	defer srv.Close()

	_, err := newClient(srv.URL, time.Second).GenerateImage(context.Background(), imagegen.Request{Topic: "x"})
	var se *upstream.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadRequest, se.StatusCode)
}

func TestClient_NotConfigured(t *testing.T) {
	c := comfyui.New(comfyui.Config{}, time.Second)

	_, err := c.LoRAs(context.Background())
	assert.ErrorIs(t, err, upstream.ErrNotConfigured)
	_, err = c.GenerateImage(context.Background(), imagegen.Request{Topic: "x"})
	assert.ErrorIs(t, err, upstream.ErrNotConfigured)
}
