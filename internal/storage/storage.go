package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
)

// ByteStore abstracts where document bytes live. Save returns an opaque
// reference that Open and Delete accept later.
type ByteStore interface {
	Save(ctx context.Context, key string, r io.Reader) (string, error)
	Open(ctx context.Context, ref string) (io.ReadCloser, error)
	Delete(ctx context.Context, ref string) error
}

// BuildKey derives a collision-resistant storage key from the upload's
// coordinates. The original file name is kept as the suffix so keys stay
// recognizable on disk.
func BuildKey(caseID, userID, fileName string) string {
	return fmt.Sprintf("%d_%s_%s_%s", time.Now().Unix(), caseID, userID, SanitizeFileName(fileName))
}

// SanitizeFileName strips path separators and control characters so a
// client-supplied name cannot escape the storage root.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	var b strings.Builder
	for _, r := range name {
		switch {
		case r == '/' || r == '\\' || r == 0:
			b.WriteRune('_')
		case r < 0x20:
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	cleaned = strings.TrimLeft(cleaned, ".")
	if cleaned == "" {
		cleaned = "unnamed"
	}
	return cleaned
}
