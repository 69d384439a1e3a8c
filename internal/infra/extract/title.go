package extract

import (
	"path/filepath"
	"strings"
)

const maxTitleLen = 200

// firstLineTitle uses the first short non-empty line, falling back to a
// cleaned up filename.
func firstLineTitle(text, filename string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || len(line) > maxTitleLen || strings.ContainsRune(line, 0) {
			continue
		}
		return line
	}
	return titleFromFilename(filename)
}

func titleFromFilename(filename string) string {
	base := filepath.Base(filename)
	if base == "." || base == "/" {
		return ""
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.NewReplacer("_", " ", "-", " ").Replace(base)
}
