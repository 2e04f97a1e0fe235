// internal/services/prompts.go
package services

import "fmt"

const moodPromptTemplate = `
Analyze the emotional tone and mood of this dream description.
Return ONLY ONE of these four mood categories: Excited, Anxious, Calm, or Mysterious

Dream: %s

Mood category:
`

const interpretationPromptTemplate = `
You are a mystical dream interpreter. Analyze this dream and provide:
1. A poetic, mystical interpretation (2-3 sentences)
2. A personalized dream scene story (4-5 sentences that retell the dream as an enchanted narrative)

Format your response as:
INTERPRETATION: [your mystical interpretation]
SCENE: [your dream scene story]

Dream to interpret: %s
`

const imagePromptTemplate = "surreal dream, %s, ethereal, mystical, fantasy, vivid colors"

// pingPrompt is sent once at startup to check that the text provider answers.
const pingPrompt = "Hello, are you working?"

func buildMoodPrompt(dreamText string) string {
	return fmt.Sprintf(moodPromptTemplate, dreamText)
}

func buildInterpretationPrompt(dreamText string) string {
	return fmt.Sprintf(interpretationPromptTemplate, dreamText)
}
