package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Corphon/DreamLogger/internal/dream"
)

func sampleDream() *Dream {
	return &Dream{
		ID:             7,
		Username:       "alice",
		DreamText:      "I was flying over the ocean",
		Mood:           dream.MoodExcited,
		Interpretation: "A sense of freedom.",
		ImageURL:       "/static/generated/dream_image_1.png",
		CreatedAt:      time.Date(2024, 3, 9, 22, 5, 1, 123456000, time.FixedZone("CET", 3600)),
	}
}

func TestDreamEntryFormatsTimestampInUTC(t *testing.T) {
	entry := sampleDream().Entry()

	assert.Equal(t, int64(7), entry.ID)
	assert.Equal(t, "2024-03-09 21:05:01", entry.CreatedAt)
	assert.Equal(t, "/static/generated/dream_image_1.png", entry.ImageURL)
}

func TestDreamEntryJSONShape(t *testing.T) {
	b, err := json.Marshal(sampleDream().Entry())
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &fields))

	assert.ElementsMatch(t,
		[]string{"id", "dream_text", "mood", "interpretation", "image_url", "created_at"},
		keys(fields))
	assert.Equal(t, "Excited", fields["mood"])
}

func TestAnalyzeResponseUsesImageKey(t *testing.T) {
	b, err := json.Marshal(sampleDream().AnalyzeResponse())
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &fields))

	assert.ElementsMatch(t, []string{"id", "mood", "interpretation", "image", "created_at"}, keys(fields))
	assert.Equal(t, "/static/generated/dream_image_1.png", fields["image"])
}

func keys(m map[string]interface{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
