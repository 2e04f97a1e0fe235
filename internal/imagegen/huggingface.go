// internal/imagegen/huggingface.go
package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	apperrors "github.com/Corphon/DreamLogger/internal/errors"
)

const (
	DefaultHuggingFaceBaseURL = "https://api-inference.huggingface.co"

	// maxImageBytes bounds how much of a response body is buffered.
	maxImageBytes = 20 << 20
)

// DefaultModels are tried in order.
var DefaultModels = []string{
	"stabilityai/stable-diffusion-xl-base-1.0",
	"Lykon/dreamshaper-8",
}

// HuggingFace calls the Hugging Face inference API for a single model.
type HuggingFace struct {
	model   string
	token   string
	baseURL string
	client  *http.Client
}

// NewHuggingFace creates a provider for model. An empty baseURL uses the public API.
func NewHuggingFace(model, token, baseURL string) *HuggingFace {
	if baseURL == "" {
		baseURL = DefaultHuggingFaceBaseURL
	}
	return &HuggingFace{
		model:   model,
		token:   token,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
	}
}

func (h *HuggingFace) Name() string {
	return "huggingface:" + h.model
}

func (h *HuggingFace) Generate(ctx context.Context, prompt string) ([]byte, error) {
	payload, err := json.Marshal(map[string]string{"inputs": prompt})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/models/%s", h.baseURL, h.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, apperrors.NewProviderError(
			fmt.Sprintf("%s: status %d", h.Name(), resp.StatusCode),
			errors.New(strings.TrimSpace(string(body))))
	}
	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "image") {
		return nil, fmt.Errorf("%s: %w (content-type %q)", h.Name(), ErrNotImage, resp.Header.Get("Content-Type"))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("%s: read image: %w", h.Name(), err)
	}
	return data, nil
}
