package utils

import (
	"path"
	"regexp"
	"strings"
	"unicode/utf8"
)

const maxFilenameLength = 255

var unsafeFilenameChars = regexp.MustCompile(`[\\/:*?"<>|\x00-\x1f]`)

// Validators provides validation methods
type Validators struct{}

// NewValidators creates a new validators instance
func NewValidators() *Validators {
	return &Validators{}
}

// SanitizeFilename reduces a client supplied filename to a safe object key suffix.
// Directory components are dropped and unsafe characters replaced with "_".
func (v *Validators) SanitizeFilename(filename string) string {
	name := strings.ReplaceAll(filename, "\\", "/")
	name = path.Base(strings.TrimSpace(name))
	name = unsafeFilenameChars.ReplaceAllString(name, "_")

	if name == "" || name == "." || name == ".." || name == "/" {
		return "file"
	}

	// keep the tail so the extension survives, starting on a rune boundary
	if len(name) > maxFilenameLength {
		cut := len(name) - maxFilenameLength
		for cut < len(name) && !utf8.RuneStart(name[cut]) {
			cut++
		}
		name = name[cut:]
	}

	return name
}
