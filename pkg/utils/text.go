package utils

import "unicode/utf8"

// PreviewEllipsis is appended to truncated previews.
const PreviewEllipsis = "…"

// Preview returns at most limit characters of text, followed by an ellipsis when truncated.
func Preview(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return string(runes[:limit]) + PreviewEllipsis
}
