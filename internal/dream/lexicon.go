// internal/dream/lexicon.go
package dream

// Mood is the emotional tone assigned to a dream.
type Mood string

const (
	MoodExcited    Mood = "Excited"
	MoodAnxious    Mood = "Anxious"
	MoodCalm       Mood = "Calm"
	MoodMysterious Mood = "Mysterious"
)

// DefaultMood is returned when no mood keyword matches.
const DefaultMood = MoodMysterious

// moodEntry pairs a mood with its trigger keywords.
type moodEntry struct {
	mood     Mood
	keywords []string
}

// Order matters: ties resolve to the earliest entry.
var moodLexicon = []moodEntry{
	{MoodExcited, []string{
		"flying", "soar", "beautiful", "amazing", "wonderful", "joy", "happy", "love",
		"success", "win", "celebration", "bright", "golden", "magical", "adventure", "discovery",
	}},
	{MoodAnxious, []string{
		"falling", "chase", "scary", "fear", "nightmare", "dark", "lost", "trapped",
		"monster", "danger", "death", "hurt", "pain", "scream", "hide", "run",
	}},
	{MoodCalm, []string{
		"peaceful", "quiet", "serene", "gentle", "soft", "floating", "garden", "nature",
		"water", "meditation", "rest", "comfortable",
	}},
	{MoodMysterious, []string{
		"strange", "weird", "unknown", "mysterious", "bizarre", "surreal", "abstract",
		"symbols", "riddle", "puzzle",
	}},
}

// Moods returns every mood category in tie-break order.
func Moods() []Mood {
	out := make([]Mood, 0, len(moodLexicon))
	for _, e := range moodLexicon {
		out = append(out, e.mood)
	}
	return out
}

// MoodKeywords returns a copy of the keywords for a mood, nil for unknown moods.
func MoodKeywords(m Mood) []string {
	for _, e := range moodLexicon {
		if e.mood == m {
			return append([]string(nil), e.keywords...)
		}
	}
	return nil
}

// Dimension is one narrative axis of a composed scene.
type Dimension string

const (
	DimensionLocation  Dimension = "location"
	DimensionCharacter Dimension = "character"
	DimensionAction    Dimension = "action"
	DimensionObject    Dimension = "object"
	DimensionEmotion   Dimension = "emotion"
)

// Fragment is one named phrase set inside a scene dimension.
type Fragment struct {
	Name     string
	Keywords []string
	Phrases  []string
}

type dimensionEntry struct {
	dimension Dimension
	fragments []Fragment
}

var sceneLexicon = []dimensionEntry{
	{DimensionLocation, []Fragment{
		{"sky", []string{"flying", "sky", "clouds", "air", "high"}, []string{"floating through ethereal skies"}},
		{"water", []string{"water", "ocean", "sea", "river", "swimming"}, []string{"diving through crystal waters"}},
		{"forest", []string{"forest", "trees", "woods", "jungle"}, []string{"wandering through enchanted forests"}},
		{"building", []string{"house", "home", "building", "room"}, []string{"exploring shifting architectural wonders"}},
		{"city", []string{"city", "street", "road", "urban"}, []string{"navigating through dreamscape cities"}},
		{"school", []string{"school", "class", "teacher", "student"}, []string{"discovering halls of infinite learning"}},
		{"vehicle", []string{"car", "driving", "vehicle", "road"}, []string{"journeying on roads that bend reality"}},
	}},
	{DimensionCharacter, []Fragment{
		{"figures", []string{"person", "people", "man", "woman", "child", "friend", "family", "stranger"}, []string{"mysterious figures"}},
		{"animals", []string{"animal", "dog", "cat", "bird", "snake", "lion", "wolf"}, []string{"spirit animals"}},
		{"shadows", []string{"monster", "demon", "ghost", "shadow"}, []string{"shadow beings"}},
	}},
	{DimensionAction, []Fragment{
		{"racing", []string{"running", "chase", "escape", "flee"}, []string{"racing through dimensions"}},
		{"descending", []string{"falling", "drop", "descend"}, []string{"descending through layers of consciousness"}},
		{"ascending", []string{"climbing", "up", "ascend", "rise"}, []string{"ascending toward illuminated peaks"}},
		{"seeking", []string{"lost", "searching", "looking", "find"}, []string{"seeking hidden truths"}},
		{"conversing", []string{"talking", "speaking", "conversation"}, []string{"exchanging wisdom with cosmic entities"}},
	}},
	{DimensionObject, []Fragment{
		{"doorways", []string{"door", "gate", "entrance", "portal"}, []string{"mystical doorways"}},
		{"mirrors", []string{"mirror", "reflection", "image"}, []string{"mirrors revealing alternate selves"}},
		{"light", []string{"light", "bright", "glow", "shine"}, []string{"sources of otherworldly light"}},
		{"texts", []string{"book", "writing", "text", "letter"}, []string{"ancient texts written in starlight"}},
	}},
	{DimensionEmotion, []Fragment{
		{"fear", []string{"scared", "afraid", "fear", "terror"}, []string{"waves of primal fear transforming into courage"}},
		{"bliss", []string{"happy", "joy", "excited", "love"}, []string{"currents of pure bliss"}},
		{"sorrow", []string{"sad", "cry", "tears", "sorrow"}, []string{"healing tears that nourish dream gardens"}},
		{"anger", []string{"angry", "mad", "rage", "furious"}, []string{"fire energy burning away old patterns"}},
	}},
}

// Dimensions returns the scene dimensions in composition order.
func Dimensions() []Dimension {
	out := make([]Dimension, 0, len(sceneLexicon))
	for _, e := range sceneLexicon {
		out = append(out, e.dimension)
	}
	return out
}

// Fragments returns a deep copy of the fragment categories of a dimension.
func Fragments(d Dimension) []Fragment {
	for _, e := range sceneLexicon {
		if e.dimension != d {
			continue
		}
		out := make([]Fragment, len(e.fragments))
		for i, f := range e.fragments {
			out[i] = Fragment{
				Name:     f.Name,
				Keywords: append([]string(nil), f.Keywords...),
				Phrases:  append([]string(nil), f.Phrases...),
			}
		}
		return out
	}
	return nil
}
