package documents

import (
	"path"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// accentFolder strips combining marks so "résumé" folds to "resume".
var accentFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// SanitizeFilename reduces an untrusted client filename to a safe base name
// made of ASCII letters, digits, '.', '-' and '_'. It never returns a path.
// The extension survives even when nothing of the stem does, so "отчёт.pdf"
// becomes "file.pdf".
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(strings.TrimSpace(name))
	if folded, _, err := transform.String(accentFolder, name); err == nil {
		name = folded
	}

	rawExt := filepath.Ext(name)
	rawStem := strings.TrimSuffix(name, rawExt)
	ext := strings.Trim(asciiOnly(rawExt), "._")
	if strings.Trim(rawStem, ". ") == "" {
		// dotfiles such as ".hidden" have no extension
		ext = ""
	}
	if ext == "" {
		if clean := strings.Trim(asciiOnly(name), "._"); clean != "" {
			return clean
		}
		return "file"
	}
	stem := strings.Trim(asciiOnly(rawStem), "._")
	if stem == "" {
		stem = "file"
	}
	return stem + "." + ext
}

func asciiOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	return b.String()
}

// ClientExtension returns the lowercased extension of the unsanitized client
// filename, so names whose stem is entirely non-ASCII keep their type.
func ClientExtension(name string) string {
	return Extension(path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/")))
}

// Extension returns the lowercased extension of name without the dot.
func Extension(name string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
}

func snippet(body string, max int) string {
	if max <= 0 || len(body) <= max {
		return body
	}
	cut := max
	for cut > 0 && !isRuneStart(body[cut]) {
		cut--
	}
	return strings.TrimSpace(body[:cut]) + "..."
}

func isRuneStart(b byte) bool { return b&0xC0 != 0x80 }

func ptrString(val string) *string {
	return &val
}
