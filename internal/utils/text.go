// internal/utils/text.go
package utils

// TruncateRunes keeps at most maxLength runes of text, without an ellipsis.
func TruncateRunes(text string, maxLength int) string {
	if maxLength <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= maxLength {
		return text
	}
	return string(runes[:maxLength])
}
