// internal/dream/protocol.go
package dream

import "strings"

const (
	InterpretationMarker = "INTERPRETATION:"
	SceneMarker          = "SCENE:"
)

// ParseInterpretation splits provider output of the form
//
//	INTERPRETATION: ...
//	SCENE: ...
//
// at the first SCENE marker. ok is false when either marker is missing.
func ParseInterpretation(raw string) (interpretation, scene string, ok bool) {
	if !strings.Contains(raw, InterpretationMarker) {
		return "", "", false
	}
	before, after, found := strings.Cut(raw, SceneMarker)
	if !found {
		return "", "", false
	}
	interpretation = strings.TrimSpace(strings.ReplaceAll(before, InterpretationMarker, ""))
	scene = strings.TrimSpace(after)
	return interpretation, scene, true
}
