package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Corphon/DreamLogger/internal/config"
	"github.com/Corphon/DreamLogger/internal/llm"
)

type stubProvider struct {
	text  string
	err   error
	delay time.Duration
	calls int
}

func (p *stubProvider) Initialize(map[string]string) error { return nil }
func (p *stubProvider) GetName() string                    { return "stub" }
func (p *stubProvider) GetSupportedModels() []string       { return []string{"stub-1"} }

func (p *stubProvider) CompleteText(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	p.calls++
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if p.err != nil {
		return nil, p.err
	}
	return &llm.CompletionResponse{Text: p.text, ProviderName: "stub"}, nil
}

func TestLLMService_NotConfigured(t *testing.T) {
	svc := NewLLMService(&config.Config{TextTimeout: time.Second})

	assert.False(t, svc.IsReady())
	assert.Equal(t, "API key not configured", svc.GetReadyState())

	_, err := svc.Generate(context.Background(), "hi")
	assert.ErrorIs(t, err, ErrLLMNotReady)
	assert.ErrorIs(t, svc.Ping(context.Background()), ErrLLMNotReady)
}

func TestLLMService_ConfiguredWithGemini(t *testing.T) {
	svc := NewLLMService(&config.Config{GeminiAPIKey: "key", GeminiModel: "gemini-2.0-flash", TextTimeout: time.Second})

	assert.True(t, svc.IsReady())
	assert.Equal(t, "google", svc.GetProviderName())
}

func TestLLMService_GenerateCaches(t *testing.T) {
	p := &stubProvider{text: "Calm"}
	svc := NewLLMServiceWithProvider(p, time.Second)

	first, err := svc.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	second, err := svc.Generate(context.Background(), "prompt")
	require.NoError(t, err)

	assert.Equal(t, "Calm", first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, p.calls)
}

func TestLLMService_ErrorsAreNotCached(t *testing.T) {
	p := &stubProvider{err: errors.New("503")}
	svc := NewLLMServiceWithProvider(p, time.Second)

	_, err := svc.Generate(context.Background(), "prompt")
	require.Error(t, err)
	_, err = svc.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.Equal(t, 2, p.calls)
}

func TestLLMService_Timeout(t *testing.T) {
	p := &stubProvider{text: "late", delay: time.Second}
	svc := NewLLMServiceWithProvider(p, 20*time.Millisecond)

	start := time.Now()
	_, err := svc.Generate(context.Background(), "prompt")

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestLLMService_Ping(t *testing.T) {
	assert.NoError(t, NewLLMServiceWithProvider(&stubProvider{text: "yes"}, time.Second).Ping(context.Background()))
	assert.Error(t, NewLLMServiceWithProvider(&stubProvider{}, time.Second).Ping(context.Background()))
}

func TestLLMCache_EvictsOldest(t *testing.T) {
	c := &LLMCache{cache: make(map[string]*CacheEntry), expiration: time.Hour}
	c.cache["old"] = &CacheEntry{Response: "o", CreatedAt: time.Now().Add(-time.Minute)}
	c.cache["new"] = &CacheEntry{Response: "n", CreatedAt: time.Now()}

	c.evictOldest()

	_, ok := c.get("old")
	assert.False(t, ok)
	_, ok = c.get("new")
	assert.True(t, ok)
}
