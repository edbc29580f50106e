package utils

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// GenerateStorageKey builds an object store key for a document upload. The
// random suffix keeps concurrent uploads of the same name from colliding.
// Keys look like documents/{name}_{suffix}.{ext}
func GenerateStorageKey(name, filename string) string {
	ext := "pdf"
	if i := strings.LastIndex(filename, "."); i >= 0 && i < len(filename)-1 {
		ext = filename[i+1:]
	}

	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("documents/%s_%s.%s", name, suffix, ext)
}
