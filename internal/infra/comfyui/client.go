// Package comfyui drives a ComfyUI server: it lists the installed LoRAs and runs
// a text-to-image workflow, returning the /view URL of the first output image.
package comfyui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"privatelives/internal/upstream"
	"privatelives/internal/usecase/imagegen"
)

const provider = "comfyui"

// Config configures the ComfyUI client.
type Config struct {
	BaseURL    string
	Checkpoint string
	// Timeout bounds one generation including polling.
	Timeout      time.Duration
	PollInterval time.Duration
	Width        int
	Height       int
	Steps        int
}

// Client talks to one ComfyUI server.
type Client struct {
	cfg Config
	api *upstream.Client
}

// New returns a client. An empty BaseURL yields a client whose calls fail with
// upstream.ErrNotConfigured.
func New(cfg Config, httpTimeout time.Duration) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 90 * time.Second
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = 1344, 768
	}
	if cfg.Steps <= 0 {
		cfg.Steps = 25
	}
	return &Client{cfg: cfg, api: upstream.NewClient(provider, httpTimeout)}
}

func (c *Client) configured() error {
	if c.cfg.BaseURL == "" {
		return upstream.NotConfigured("COMFYUI_URL")
	}
	return nil
}

type objectInfo map[string]struct {
	Input struct {
		Required map[string][]json.RawMessage `json:"required"`
	} `json:"input"`
}

// LoRAs lists the LoRA files the server can load, sorted.
func (c *Client) LoRAs(ctx context.Context) ([]string, error) {
	if err := c.configured(); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/object_info/LoraLoader", nil)
	if err != nil {
		return nil, fmt.Errorf("create http request: %w", err)
	}

	var info objectInfo
	if err := c.api.DoJSON(req, "loras", &info); err != nil {
		return nil, err
	}

	spec := info["LoraLoader"].Input.Required["lora_name"]
	if len(spec) == 0 {
		return nil, fmt.Errorf("comfyui loras: %w", upstream.ErrMalformed)
	}
	var names []string
	if err := json.Unmarshal(spec[0], &names); err != nil {
		return nil, fmt.Errorf("comfyui loras: %w: %v", upstream.ErrMalformed, err)
	}
	sort.Strings(names)
	return names, nil
}

type promptResponse struct {
	PromptID   string          `json:"prompt_id"`
	NodeErrors json.RawMessage `json:"node_errors"`
}

type imageRef struct {
	Filename  string `json:"filename"`
	Subfolder string `json:"subfolder"`
	Type      string `json:"type"`
}

type historyEntry struct {
	Outputs map[string]struct {
		Images []imageRef `json:"images"`
	} `json:"outputs"`
	Status struct {
		StatusStr string `json:"status_str"`
		Completed bool   `json:"completed"`
	} `json:"status"`
}

// GenerateImage implements imagegen.Generator. It queues the workflow, then reads
// the prompt history until an output image appears or the timeout passes.
func (c *Client) GenerateImage(ctx context.Context, in imagegen.Request) (string, error) {
	if err := c.configured(); err != nil {
		return "", err
	}
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	body, err := json.Marshal(map[string]any{
		"prompt":    c.workflow(imagegen.Prompt(in.Topic), in.LoRA),
		"client_id": uuid.NewString(),
	})
	if err != nil {
		return "", fmt.Errorf("marshal workflow: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/prompt", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var queued promptResponse
	if err := c.api.DoJSON(req, "prompt", &queued); err != nil {
		return "", err
	}
	if queued.PromptID == "" {
		return "", fmt.Errorf("comfyui prompt: %w", upstream.ErrMalformed)
	}
	slog.DebugContext(ctx, "comfyui prompt queued", slog.String("prompt_id", queued.PromptID))

	ticker := time.NewTicker(c.cfg.PollInterval)
	defer ticker.Stop()
	for {
		img, done, err := c.history(ctx, queued.PromptID)
		if err != nil {
			return "", err
		}
		if done {
			return c.viewURL(img), nil
		}
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("comfyui prompt %s: %w", queued.PromptID, ctx.Err())
		case <-ticker.C:
		}
	}
}

// history reports the first output image of promptID once the run has finished.
func (c *Client) history(ctx context.Context, promptID string) (imageRef, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/history/"+url.PathEscape(promptID), nil)
	if err != nil {
		return imageRef{}, false, fmt.Errorf("create http request: %w", err)
	}

	var hist map[string]historyEntry
	if err := c.api.DoJSON(req, "history", &hist); err != nil {
		return imageRef{}, false, err
	}
	entry, ok := hist[promptID]
	if !ok {
		return imageRef{}, false, nil
	}
	if entry.Status.StatusStr == "error" {
		return imageRef{}, false, fmt.Errorf("comfyui prompt %s failed: %w", promptID, upstream.ErrEmpty)
	}

	keys := make([]string, 0, len(entry.Outputs))
	for k := range entry.Outputs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, img := range entry.Outputs[k].Images {
			if img.Filename != "" {
				return img, true, nil
			}
		}
	}
	if entry.Status.Completed {
		return imageRef{}, false, fmt.Errorf("comfyui prompt %s: %w", promptID, upstream.ErrEmpty)
	}
	return imageRef{}, false, nil
}

func (c *Client) viewURL(img imageRef) string {
	q := url.Values{}
	q.Set("filename", img.Filename)
	q.Set("subfolder", img.Subfolder)
	q.Set("type", firstNonEmpty(img.Type, "output"))
	return c.cfg.BaseURL + "/view?" + q.Encode()
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

type node struct {
	ClassType string         `json:"class_type"`
	Inputs    map[string]any `json:"inputs"`
}

// workflow builds the API-format graph: checkpoint, optional LoRA, positive and
// negative prompts, KSampler, VAE decode and save.
func (c *Client) workflow(prompt, lora string) map[string]node {
	model, clip := []any{"4", 0}, []any{"4", 1}

	wf := map[string]node{
		"4": {ClassType: "CheckpointLoaderSimple", Inputs: map[string]any{"ckpt_name": c.cfg.Checkpoint}},
		"5": {ClassType: "EmptyLatentImage", Inputs: map[string]any{
			"width": c.cfg.Width, "height": c.cfg.Height, "batch_size": 1,
		}},
	}
	if lora != "" {
		wf["10"] = node{ClassType: "LoraLoader", Inputs: map[string]any{
			"model": model, "clip": clip, "lora_name": lora,
			"strength_model": 0.8, "strength_clip": 0.8,
		}}
		model, clip = []any{"10", 0}, []any{"10", 1}
	}
	wf["6"] = node{ClassType: "CLIPTextEncode", Inputs: map[string]any{"text": prompt, "clip": clip}}
	wf["7"] = node{ClassType: "CLIPTextEncode", Inputs: map[string]any{
		"text": "text, watermark, logo, blurry, deformed", "clip": clip,
	}}
	wf["3"] = node{ClassType: "KSampler", Inputs: map[string]any{
		"seed":         rand.Int64N(1 << 48),
		"steps":        c.cfg.Steps,
		"cfg":          7,
		"sampler_name": "euler",
		"scheduler":    "normal",
		"denoise":      1,
		"model":        model,
		"positive":     []any{"6", 0},
		"negative":     []any{"7", 0},
		"latent_image": []any{"5", 0},
	}}
	wf["8"] = node{ClassType: "VAEDecode", Inputs: map[string]any{"samples": []any{"3", 0}, "vae": []any{"4", 2}}}
	wf["9"] = node{ClassType: "SaveImage", Inputs: map[string]any{"filename_prefix": "privatelives", "images": []any{"8", 0}}}
	return wf
}
