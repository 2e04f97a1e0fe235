// internal/services/dream_service.go
package services

import (
	"context"
	"strings"

	apperrors "github.com/Corphon/DreamLogger/internal/errors"
	"github.com/Corphon/DreamLogger/internal/models"
	"github.com/Corphon/DreamLogger/internal/utils"
)

// Analyzer computes mood and interpretation for dream text.
type Analyzer interface {
	Analyze(ctx context.Context, text string) *models.AnalysisResult
}

// ImageGenerator returns an illustration URL for dream text. It never fails.
type ImageGenerator interface {
	Generate(ctx context.Context, dreamText string) string
}

// DreamRepository is the append-only dream journal.
type DreamRepository interface {
	AppendDream(ctx context.Context, d *models.Dream) error
	ListDreams(ctx context.Context, username string) ([]models.Dream, error)
}

// Notifier is told about every saved dream.
type Notifier interface {
	NotifyDream(d *models.Dream)
}

// DreamService analyzes, illustrates and records dreams.
type DreamService struct {
	analyzer Analyzer
	images   ImageGenerator
	repo     DreamRepository
	notifier Notifier
}

func NewDreamService(analyzer Analyzer, images ImageGenerator, repo DreamRepository) *DreamService {
	return &DreamService{
		analyzer: analyzer,
		images:   images,
		repo:     repo,
	}
}

// SetNotifier registers n to receive saved dreams. nil disables notifications.
func (s *DreamService) SetNotifier(n Notifier) {
	s.notifier = n
}

// Submit analyzes text for username and appends the result to the journal.
// Provider failures are absorbed; only validation and persistence errors are returned.
// Once started, a submission is not cut short by cancellation of ctx; provider
// calls stay bounded by their own timeouts.
func (s *DreamService) Submit(ctx context.Context, username, text string) (*models.Dream, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.NewValidationError("No dream text provided", nil)
	}
	ctx = context.WithoutCancel(ctx)

	utils.GetLogger().Info("Analyzing dream", map[string]interface{}{
		"username": username,
		"dream":    utils.TruncateRunes(text, 100),
	})

	result := s.analyzer.Analyze(ctx, text)
	imageURL := s.images.Generate(ctx, text)

	record := &models.Dream{
		Username:       username,
		DreamText:      text,
		Mood:           result.Mood,
		Interpretation: result.Interpretation,
		ImageURL:       imageURL,
	}
	if err := s.repo.AppendDream(ctx, record); err != nil {
		utils.GetLogger().Error("failed to save dream", map[string]interface{}{
			"username": username,
			"error":    err.Error(),
		})
		return nil, apperrors.NewProcessingError("Analysis failed, please try again", err)
	}

	utils.RecordDreamSaved(string(record.Mood))
	if s.notifier != nil {
		s.notifier.NotifyDream(record)
	}
	return record, nil
}

// History returns username's dreams, newest first.
func (s *DreamService) History(ctx context.Context, username string) ([]models.Dream, error) {
	return s.repo.ListDreams(ctx, username)
}
