// internal/services/llm_service.go
package services

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Corphon/DreamLogger/internal/config"
	"github.com/Corphon/DreamLogger/internal/llm"
	"github.com/Corphon/DreamLogger/internal/llm/providers/google"
	"github.com/Corphon/DreamLogger/internal/utils"
)

var ErrLLMNotReady = errors.New("llm service not ready")

const (
	defaultCacheExpiration = 30 * time.Minute
	maxCacheEntries        = 500
)

// LLMService is the single entry point for text generation calls.
type LLMService struct {
	providerMutex sync.RWMutex
	provider      llm.Provider
	providerName  string
	model         string
	timeout       time.Duration
	cache         *LLMCache
	isReady       bool
	readyState    string
}

// LLMCache keeps recent completions keyed by prompt and model.
type LLMCache struct {
	cache      map[string]*CacheEntry
	mutex      sync.RWMutex
	expiration time.Duration
}

type CacheEntry struct {
	Response  string
	CreatedAt time.Time
}

// NewLLMService builds the text provider from cfg. A missing API key yields a
// service that is not ready; callers then take their fallback path.
func NewLLMService(cfg *config.Config) *LLMService {
	service := createBaseLLMService(cfg.TextTimeout)

	if !cfg.TextGenerationEnabled() {
		service.readyState = "API key not configured"
		return service
	}

	provider, err := llm.GetProvider(google.ProviderName, map[string]string{
		"api_key":       cfg.GeminiAPIKey,
		"default_model": cfg.GeminiModel,
		"base_url":      cfg.GeminiBaseURL,
	})
	if err != nil {
		service.readyState = fmt.Sprintf("Initialization failed: %v", err)
		return service
	}

	service.setProvider(provider, google.ProviderName, cfg.GeminiModel)
	return service
}

// NewLLMServiceWithProvider wraps an already initialized provider.
func NewLLMServiceWithProvider(provider llm.Provider, timeout time.Duration) *LLMService {
	service := createBaseLLMService(timeout)
	if provider != nil {
		service.setProvider(provider, provider.GetName(), "")
	}
	return service
}

func createBaseLLMService(timeout time.Duration) *LLMService {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &LLMService{
		timeout: timeout,
		cache: &LLMCache{
			cache:      make(map[string]*CacheEntry),
			expiration: defaultCacheExpiration,
		},
		readyState: "Not initialized",
	}
}

func (s *LLMService) setProvider(provider llm.Provider, name, model string) {
	s.providerMutex.Lock()
	defer s.providerMutex.Unlock()

	s.provider = provider
	s.providerName = name
	s.model = model
	s.isReady = true
	s.readyState = "Ready"
}

// IsReady reports whether a provider is configured.
func (s *LLMService) IsReady() bool {
	s.providerMutex.RLock()
	defer s.providerMutex.RUnlock()
	return s.isReady && s.provider != nil
}

func (s *LLMService) GetReadyState() string {
	s.providerMutex.RLock()
	defer s.providerMutex.RUnlock()
	return s.readyState
}

func (s *LLMService) GetProviderName() string {
	s.providerMutex.RLock()
	defer s.providerMutex.RUnlock()
	return s.providerName
}

// Generate sends prompt to the provider, bounded by the configured timeout.
// Identical prompts within the cache window are answered from memory.
func (s *LLMService) Generate(ctx context.Context, prompt string) (string, error) {
	s.providerMutex.RLock()
	provider, name, model, ready := s.provider, s.providerName, s.model, s.isReady
	s.providerMutex.RUnlock()

	if !ready || provider == nil {
		return "", ErrLLMNotReady
	}

	cacheKey := s.generateCacheKey(prompt, model)
	if cached, ok := s.cache.get(cacheKey); ok {
		utils.GetLogger().Debug("LLM cache hit", map[string]interface{}{"cache_key_prefix": cacheKey[:8]})
		return cached, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	resp, err := provider.CompleteText(callCtx, llm.CompletionRequest{
		Prompt: prompt,
		Model:  model,
	})
	elapsed := time.Since(start)

	if err != nil {
		outcome := "error"
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			outcome = "timeout"
		}
		utils.ObserveProviderCall(name, outcome, elapsed)
		return "", fmt.Errorf("%s completion failed: %w", name, err)
	}

	utils.ObserveProviderCall(name, "success", elapsed)
	s.cache.set(cacheKey, resp.Text)
	return resp.Text, nil
}

// Ping checks that the provider answers at all. It bypasses the cache.
func (s *LLMService) Ping(ctx context.Context) error {
	s.providerMutex.RLock()
	provider, ready := s.provider, s.isReady
	s.providerMutex.RUnlock()

	if !ready || provider == nil {
		return ErrLLMNotReady
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := provider.CompleteText(callCtx, llm.CompletionRequest{Prompt: pingPrompt})
	if err != nil {
		return err
	}
	if resp.Text == "" {
		return errors.New("empty ping response")
	}
	return nil
}

func (s *LLMService) generateCacheKey(prompt, model string) string {
	sum := md5.Sum([]byte(model + "\x00" + prompt))
	return hex.EncodeToString(sum[:])
}

func (c *LLMCache) get(key string) (string, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, ok := c.cache[key]
	if !ok || time.Since(entry.CreatedAt) > c.expiration {
		return "", false
	}
	return entry.Response, true
}

func (c *LLMCache) set(key, response string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if len(c.cache) >= maxCacheEntries {
		c.evictOldest()
	}
	c.cache[key] = &CacheEntry{Response: response, CreatedAt: time.Now()}
}

// evictOldest drops the oldest entry. Caller holds the lock.
func (c *LLMCache) evictOldest() {
	var (
		oldestKey  string
		oldestTime time.Time
	)
	for k, v := range c.cache {
		if oldestKey == "" || v.CreatedAt.Before(oldestTime) {
			oldestKey, oldestTime = k, v.CreatedAt
		}
	}
	delete(c.cache, oldestKey)
}
