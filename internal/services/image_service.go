// internal/services/image_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Corphon/DreamLogger/internal/config"
	"github.com/Corphon/DreamLogger/internal/dream"
	"github.com/Corphon/DreamLogger/internal/imagegen"
	"github.com/Corphon/DreamLogger/internal/utils"
)

const (
	imagePromptMaxRunes = 100
	placeholderMaxToken = 9999
)

// ImageStore persists generated image bytes and returns their public URL.
type ImageStore interface {
	SaveImage(filename string, data []byte) (string, error)
}

// ImageService produces an illustration URL for a dream. It always returns a
// usable URL: a saved generated image or a placeholder.
type ImageService struct {
	providers   []imagegen.Provider
	store       ImageStore
	timeout     time.Duration
	placeholder string
	rnd         dream.RandomSource
	now         func() time.Time
}

// NewImageService configures one Hugging Face provider per model. Without a
// token no provider is configured and every dream gets a placeholder.
func NewImageService(cfg *config.Config, store ImageStore, rnd dream.RandomSource) *ImageService {
	var providers []imagegen.Provider
	if cfg.ImageGenerationEnabled() {
		for _, model := range cfg.ImageModels {
			providers = append(providers, imagegen.NewHuggingFace(model, cfg.HuggingFaceToken, cfg.HuggingFaceBaseURL))
		}
	}
	return NewImageServiceWithProviders(providers, store, cfg.ImageTimeout, cfg.PlaceholderImage, rnd)
}

func NewImageServiceWithProviders(providers []imagegen.Provider, store ImageStore, timeout time.Duration, placeholder string, rnd dream.RandomSource) *ImageService {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if rnd == nil {
		rnd = dream.NewEntropySource()
	}
	return &ImageService{
		providers:   providers,
		store:       store,
		timeout:     timeout,
		placeholder: placeholder,
		rnd:         rnd,
		now:         time.Now,
	}
}

// ImagePrompt builds the generation prompt from the first 100 runes of dreamText.
func ImagePrompt(dreamText string) string {
	return fmt.Sprintf(imagePromptTemplate, utils.TruncateRunes(dreamText, imagePromptMaxRunes))
}

// Generate tries each provider in order and returns the first saved image URL.
func (s *ImageService) Generate(ctx context.Context, dreamText string) string {
	prompt := ImagePrompt(dreamText)

	for _, provider := range s.providers {
		url, err := s.tryProvider(ctx, provider, prompt)
		if err != nil {
			utils.GetLogger().Warn("image generation failed", map[string]interface{}{
				"provider": provider.Name(),
				"error":    err.Error(),
			})
			continue
		}
		utils.RecordImageResult("generated")
		return url
	}

	utils.RecordImageResult("placeholder")
	return s.placeholderURL()
}

func (s *ImageService) tryProvider(ctx context.Context, provider imagegen.Provider, prompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	data, err := provider.Generate(callCtx, prompt)
	if err != nil {
		utils.ObserveProviderCall(provider.Name(), "error", time.Since(start))
		return "", err
	}
	utils.ObserveProviderCall(provider.Name(), "success", time.Since(start))

	if s.store == nil {
		return "", fmt.Errorf("no image store configured")
	}
	return s.store.SaveImage(s.imageFileName(), data)
}

// imageFileName is unique even for several images saved in the same second.
func (s *ImageService) imageFileName() string {
	return fmt.Sprintf("dream_image_%d_%s.png", s.now().Unix(), uuid.NewString()[:8])
}

func (s *ImageService) placeholderURL() string {
	return fmt.Sprintf("%s?random=%d", s.placeholder, s.rnd.IntN(placeholderMaxToken)+1)
}
