package utils

import (
	"path"
	"regexp"
	"strings"
)

var unsafeFileNameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// SanitizeFileName keeps the base name of fileName and replaces every character
// outside [a-zA-Z0-9._-] with an underscore.
func SanitizeFileName(fileName string) string {
	base := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if base == "/" || base == "." {
		base = ""
	}
	return unsafeFileNameChars.ReplaceAllString(base, "_")
}
