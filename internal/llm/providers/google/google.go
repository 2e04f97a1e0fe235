// internal/llm/providers/google/google.go
package google

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
	"github.com/Corphon/DreamLogger/internal/llm"
)

const (
	ProviderName   = "google"
	DefaultModel   = "gemini-2.0-flash"
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
)

func init() {
	llm.Register(ProviderName, func() llm.Provider {
		return &Provider{
			models: []string{
				"gemini-2.0-flash",
				"gemini-2.5-flash",
				"gemini-2.5-pro",
			},
			baseURL: DefaultBaseURL,
		}
	})
}

// Provider calls the Gemini generateContent REST endpoint.
type Provider struct {
	apiKey       string
	baseURL      string
	client       *http.Client
	defaultModel string
	models       []string
}

func (p *Provider) Initialize(config map[string]string) error {
	apiKey, exists := config["api_key"]
	if !exists || apiKey == "" {
		return errors.New("google api key not provided")
	}

	p.apiKey = apiKey
	// timeouts come from the caller's context
	p.client = &http.Client{}

	if model, exists := config["default_model"]; exists && model != "" {
		p.defaultModel = model
	} else {
		p.defaultModel = DefaultModel
	}

	if baseURL, exists := config["base_url"]; exists && baseURL != "" {
		p.baseURL = strings.TrimRight(baseURL, "/")
	}

	return nil
}

func (p *Provider) GetName() string {
	return ProviderName
}

func (p *Provider) GetSupportedModels() []string {
	return append([]string(nil), p.models...)
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents          []content         `json:"contents"`
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type generationConfig struct {
	Temperature     float32 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata struct {
		TotalTokenCount int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}

func (p *Provider) CompleteText(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	model := req.Model
	if model == "" {
		model = p.defaultModel
	}

	body := generateRequest{
		Contents: []content{{Parts: []part{{Text: req.Prompt}}}},
	}
	if req.SystemPrompt != "" {
		body.SystemInstruction = &content{Parts: []part{{Text: req.SystemPrompt}}}
	}
	if req.Temperature > 0 || req.MaxTokens > 0 {
		body.GenerationConfig = &generationConfig{
			Temperature:     req.Temperature,
			MaxOutputTokens: req.MaxTokens,
		}
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	apiURL := fmt.Sprintf("%s/models/%s:generateContent", p.baseURL, model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(jsonData))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-goog-api-key", p.apiKey)

	httpResp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(httpResp.Body, 64<<10))
		var errorResp struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(respBody, &errorResp) == nil && errorResp.Error.Message != "" {
			return nil, apperrors.NewProviderError(
				fmt.Sprintf("google gemini API error (%d)", httpResp.StatusCode), errors.New(errorResp.Error.Message))
		}
		return nil, apperrors.NewProviderError(
			fmt.Sprintf("google gemini API error (%d)", httpResp.StatusCode), errors.New(string(respBody)))
	}

	var response generateResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode gemini response: %w", err)
	}

	if len(response.Candidates) == 0 {
		return nil, errors.New("google gemini returned no candidates")
	}

	var resultText strings.Builder
	for _, pt := range response.Candidates[0].Content.Parts {
		resultText.WriteString(pt.Text)
	}
	if resultText.Len() == 0 {
		return nil, errors.New("google gemini returned an empty candidate")
	}

	return &llm.CompletionResponse{
		Text:         resultText.String(),
		FinishReason: response.Candidates[0].FinishReason,
		TokensUsed:   response.UsageMetadata.TotalTokenCount,
		ModelName:    model,
		ProviderName: p.GetName(),
	}, nil
}
