// internal/dream/composer.go
package dream

import "strings"

const (
	openingFallback = "In this mystical realm, you began a journey through landscapes beyond imagination"
	emotionFallback = "The experience wove threads of transformation through your sleeping consciousness"
	closingSentence = "When you awakened, the dream's essence lingered, whispering insights for your waking life"
)

// SceneElements lists, per dimension, the fragment categories whose keywords matched.
type SceneElements map[Dimension][]Fragment

// Matched reports whether any fragment of d matched.
func (e SceneElements) Matched(d Dimension) bool {
	return len(e[d]) > 0
}

// Names returns the matched fragment names of d in lexicon order.
func (e SceneElements) Names(d Dimension) []string {
	names := make([]string, 0, len(e[d]))
	for _, f := range e[d] {
		names = append(names, f.Name)
	}
	return names
}

// Composer turns dream text into a short templated story.
// Output varies between calls unless the RandomSource is seeded.
type Composer struct {
	rnd RandomSource
}

// NewComposer creates a composer; a nil source falls back to entropy.
func NewComposer(src RandomSource) *Composer {
	if src == nil {
		src = NewEntropySource()
	}
	return &Composer{rnd: src}
}

// Elements scans text against every scene dimension.
func Elements(text string) SceneElements {
	lower := strings.ToLower(text)
	elements := make(SceneElements, len(sceneLexicon))
	for _, dim := range sceneLexicon {
		for _, f := range dim.fragments {
			if containsAny(lower, f.Keywords) {
				elements[dim.dimension] = append(elements[dim.dimension], f)
			}
		}
	}
	return elements
}

// Compose builds the story. Sentences are emitted in the order
// location, character, action, object, emotion, closing and end with one period.
func (c *Composer) Compose(text string) string {
	elements := Elements(text)
	parts := make([]string, 0, 6)

	if phrase, ok := c.pick(elements[DimensionLocation]); ok {
		parts = append(parts, "In this vision, you found yourself "+phrase)
	} else {
		parts = append(parts, openingFallback)
	}

	if phrase, ok := c.pick(elements[DimensionCharacter]); ok {
		parts = append(parts, "Accompanied by "+phrase+", you discovered hidden meanings in every encounter")
	}

	if phrase, ok := c.pick(elements[DimensionAction]); ok {
		parts = append(parts, "As the dream unfolded, you were "+phrase+", each movement revealing deeper layers of your subconscious")
	}

	if phrase, ok := c.pick(elements[DimensionObject]); ok {
		parts = append(parts, "Throughout the experience, "+phrase+" appeared as guides, offering glimpses into your inner wisdom")
	}

	if phrase, ok := c.pick(elements[DimensionEmotion]); ok {
		parts = append(parts, "The journey carried "+phrase+", teaching your soul through the language of dreams")
	} else {
		parts = append(parts, emotionFallback)
	}

	parts = append(parts, closingSentence)

	return strings.Join(parts, ". ") + "."
}

// pick chooses one matched fragment, then one of its phrases.
func (c *Composer) pick(matched []Fragment) (string, bool) {
	if len(matched) == 0 {
		return "", false
	}
	f := matched[c.rnd.IntN(len(matched))]
	if len(f.Phrases) == 0 {
		return "", false
	}
	return f.Phrases[c.rnd.IntN(len(f.Phrases))], true
}
