// internal/models/dream.go
package models

import (
	"time"

	"github.com/Corphon/DreamLogger/internal/dream"
)

// Result sources reported by the analyzer.
const (
	SourceProvider = "provider"
	SourcePartial  = "partial" // provider interpretation, locally composed scene
	SourceFallback = "fallback"
)

// Dream is one persisted journal entry.
type Dream struct {
	ID             int64      `json:"id"`
	Username       string     `json:"username,omitempty"`
	DreamText      string     `json:"dream_text"`
	Mood           dream.Mood `json:"mood"`
	Interpretation string     `json:"interpretation"`
	ImageURL       string     `json:"image_url"`
	CreatedAt      time.Time  `json:"created_at"`
}

// AnalysisResult is the output of one analysis. Interpretation already embeds Scene.
type AnalysisResult struct {
	Mood                 dream.Mood `json:"mood"`
	Interpretation       string     `json:"interpretation"`
	Scene                string     `json:"scene"`
	MoodSource           string     `json:"mood_source"`
	InterpretationSource string     `json:"interpretation_source"`
}

// AnalyzeRequest is the body of POST /analyze.
type AnalyzeRequest struct {
	Dream string `json:"dream"`
}

// AnalyzeResponse is the body returned by POST /analyze.
type AnalyzeResponse struct {
	ID             int64      `json:"id"`
	Mood           dream.Mood `json:"mood"`
	Interpretation string     `json:"interpretation"`
	Image          string     `json:"image"`
	CreatedAt      string     `json:"created_at"`
}

// DisplayTimeLayout is how timestamps appear in API responses.
const DisplayTimeLayout = "2006-01-02 15:04:05"

// DreamEntry is one item of GET /dreams.
type DreamEntry struct {
	ID             int64      `json:"id"`
	DreamText      string     `json:"dream_text"`
	Mood           dream.Mood `json:"mood"`
	Interpretation string     `json:"interpretation"`
	ImageURL       string     `json:"image_url"`
	CreatedAt      string     `json:"created_at"`
}

// Entry converts d to its API form.
func (d *Dream) Entry() DreamEntry {
	return DreamEntry{
		ID:             d.ID,
		DreamText:      d.DreamText,
		Mood:           d.Mood,
		Interpretation: d.Interpretation,
		ImageURL:       d.ImageURL,
		CreatedAt:      d.CreatedAt.UTC().Format(DisplayTimeLayout),
	}
}

// AnalyzeResponse converts a freshly saved d to the POST /analyze body.
func (d *Dream) AnalyzeResponse() AnalyzeResponse {
	return AnalyzeResponse{
		ID:             d.ID,
		Mood:           d.Mood,
		Interpretation: d.Interpretation,
		Image:          d.ImageURL,
		CreatedAt:      d.CreatedAt.UTC().Format(DisplayTimeLayout),
	}
}
