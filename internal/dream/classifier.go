// internal/dream/classifier.go
package dream

import "strings"

// Classify returns the mood whose lexicon has the most keywords contained in text.
// Each keyword scores at most once. Ties go to the earliest mood in Moods() order;
// a text without any keyword is DefaultMood.
func Classify(text string) Mood {
	lower := strings.ToLower(text)

	best := DefaultMood
	bestScore := 0
	for _, e := range moodLexicon {
		score := countKeywords(lower, e.keywords)
		if score > bestScore {
			best = e.mood
			bestScore = score
		}
	}
	return best
}

// Scores reports the keyword score of every mood for text.
func Scores(text string) map[Mood]int {
	lower := strings.ToLower(text)
	scores := make(map[Mood]int, len(moodLexicon))
	for _, e := range moodLexicon {
		scores[e.mood] = countKeywords(lower, e.keywords)
	}
	return scores
}

// ParseMood extracts the first known mood named anywhere in s, case-insensitively.
func ParseMood(s string) (Mood, bool) {
	lower := strings.ToLower(s)
	for _, e := range moodLexicon {
		if strings.Contains(lower, strings.ToLower(string(e.mood))) {
			return e.mood, true
		}
	}
	return "", false
}

// IsValid reports whether m is one of the known mood categories.
func (m Mood) IsValid() bool {
	for _, e := range moodLexicon {
		if e.mood == m {
			return true
		}
	}
	return false
}

func (m Mood) String() string {
	return string(m)
}

// countKeywords expects lowerText to already be lowercased.
func countKeywords(lowerText string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(lowerText, kw) {
			n++
		}
	}
	return n
}

func containsAny(lowerText string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lowerText, kw) {
			return true
		}
	}
	return false
}
