// internal/llm/interface.go
package llm

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// ErrUnknownProvider is returned when no factory is registered under a name.
var ErrUnknownProvider = errors.New("unknown text generation provider")

// CompletionRequest is the provider-neutral generation request.
type CompletionRequest struct {
	Prompt       string  `json:"prompt"`
	SystemPrompt string  `json:"system_prompt,omitempty"`
	MaxTokens    int     `json:"max_tokens,omitempty"`
	Temperature  float32 `json:"temperature,omitempty"`
	Model        string  `json:"model,omitempty"`
}

// CompletionResponse is the provider-neutral generation result.
type CompletionResponse struct {
	Text         string `json:"text"`
	FinishReason string `json:"finish_reason,omitempty"`
	TokensUsed   int    `json:"tokens_used,omitempty"`
	ModelName    string `json:"model_name,omitempty"`
	ProviderName string `json:"provider_name,omitempty"`
}

// Provider is implemented by every text generation backend.
type Provider interface {
	// Initialize configures the provider. Keys: api_key, default_model, base_url.
	Initialize(config map[string]string) error

	GetName() string

	GetSupportedModels() []string

	CompleteText(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}

// ProviderFactory builds an uninitialized provider.
type ProviderFactory func() Provider

var (
	providersMu sync.RWMutex
	providers   = make(map[string]ProviderFactory)
)

// Register makes a provider factory available under name.
func Register(name string, factory ProviderFactory) {
	providersMu.Lock()
	defer providersMu.Unlock()
	providers[name] = factory
}

// GetProvider creates and initializes the named provider.
func GetProvider(name string, config map[string]string) (Provider, error) {
	providersMu.RLock()
	factory, exists := providers[name]
	providersMu.RUnlock()
	if !exists {
		return nil, ErrUnknownProvider
	}

	provider := factory()
	if err := provider.Initialize(config); err != nil {
		return nil, err
	}
	return provider, nil
}

// ListProviders returns the registered provider names, sorted.
func ListProviders() []string {
	providersMu.RLock()
	defer providersMu.RUnlock()

	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
