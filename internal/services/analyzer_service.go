// internal/services/analyzer_service.go
package services

import (
	"context"
	"errors"
	"strings"

	"github.com/Corphon/DreamLogger/internal/dream"
	"github.com/Corphon/DreamLogger/internal/models"
	"github.com/Corphon/DreamLogger/internal/utils"
)

var errEmptyCompletion = errors.New("empty completion")

// TextGenerator produces free text for a prompt. Any error means "no result".
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// AnalyzerService turns dream text into a mood and an interpretation with a
// scene. Provider output is used when it is usable; everything else falls back
// to the local classifier and composer, so Analyze never fails.
type AnalyzerService struct {
	text     TextGenerator
	composer *dream.Composer
}

// NewAnalyzerService accepts a nil generator, in which case only local analysis runs.
func NewAnalyzerService(text TextGenerator, composer *dream.Composer) *AnalyzerService {
	if composer == nil {
		composer = dream.NewComposer(nil)
	}
	return &AnalyzerService{
		text:     text,
		composer: composer,
	}
}

// Analyze runs mood detection and interpretation for text. The text is not validated here.
func (s *AnalyzerService) Analyze(ctx context.Context, text string) *models.AnalysisResult {
	mood, moodSource := s.detectMood(ctx, text)
	interpretation, scene, interpSource := s.interpret(ctx, text)

	utils.RecordAnalysisStep("mood", moodSource)
	utils.RecordAnalysisStep("interpretation", interpSource)

	return &models.AnalysisResult{
		Mood:                 mood,
		Interpretation:       dream.Assemble(interpretation, scene),
		Scene:                scene,
		MoodSource:           moodSource,
		InterpretationSource: interpSource,
	}
}

func (s *AnalyzerService) detectMood(ctx context.Context, text string) (dream.Mood, string) {
	raw, err := s.generate(ctx, buildMoodPrompt(text))
	if err != nil {
		logFallback("mood", err)
		return dream.Classify(text), models.SourceFallback
	}

	if mood, ok := dream.ParseMood(raw); ok {
		return mood, models.SourceProvider
	}

	utils.GetLogger().Info("provider mood not recognized, using keywords", map[string]interface{}{
		"response": utils.TruncateRunes(raw, 50),
	})
	return dream.Classify(text), models.SourceFallback
}

func (s *AnalyzerService) interpret(ctx context.Context, text string) (string, string, string) {
	raw, err := s.generate(ctx, buildInterpretationPrompt(text))
	if err != nil {
		logFallback("interpretation", err)
		return dream.FallbackInterpretation, s.composer.Compose(text), models.SourceFallback
	}

	if interpretation, scene, ok := dream.ParseInterpretation(raw); ok {
		return interpretation, scene, models.SourceProvider
	}

	// unformatted answer: keep it whole, compose the scene locally
	return raw, s.composer.Compose(text), models.SourcePartial
}

func (s *AnalyzerService) generate(ctx context.Context, prompt string) (string, error) {
	if s.text == nil {
		return "", ErrLLMNotReady
	}
	raw, err := s.text.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(raw) == "" {
		return "", errEmptyCompletion
	}
	return raw, nil
}

func logFallback(step string, err error) {
	fields := map[string]interface{}{"step": step}
	if errors.Is(err, ErrLLMNotReady) {
		utils.GetLogger().Debug("text provider not configured, using local analysis", fields)
		return
	}
	fields["error"] = err.Error()
	utils.GetLogger().Warn("text provider failed, using local analysis", fields)
}
