// internal/dream/assembler.go
package dream

// SceneHeader separates the interpretation from the dream scene in the display string.
const SceneHeader = "\n\n📖 **Dream Scene**: "

// FallbackInterpretation is used whenever no provider interpretation is available.
const FallbackInterpretation = "Your dream echoes with mysterious symbols. It whispers wisdom wrapped in shadows, revealing hidden aspects of your subconscious mind."

// Assemble joins an interpretation and a scene into one display string.
func Assemble(interpretation, scene string) string {
	return interpretation + SceneHeader + scene
}
