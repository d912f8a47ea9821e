// Package form holds the editing side of a listing: image slots with local
// previews, persisted drafts and the multi-step wizard.
package form

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"cafeadmin/internal/domain/entity"

	"github.com/gabriel-vasile/mimetype"
)

const (
	pathPrefix       = "cafes"
	pathBucketLayout = "20060102150405"
	defaultExtension = "jpg"
)

// PathGenerator derives storage paths of the form
// cafes/<YYYYMMDDhhmmss>/<category>-<millis>.<ext>. Millisecond suffixes are
// strictly increasing within a generator, so paths never repeat in-process.
type PathGenerator struct {
	mu         sync.Mutex
	now        func() time.Time
	lastMillis int64
}

func NewPathGenerator() *PathGenerator {
	return &PathGenerator{now: time.Now}
}

// Generate returns a fresh path for an upload in category c.
func (g *PathGenerator) Generate(c entity.ImageCategory, contentType, filename string) string {
	g.mu.Lock()
	now := g.now()
	millis := now.UnixMilli()
	if millis <= g.lastMillis {
		millis = g.lastMillis + 1
	}
	g.lastMillis = millis
	g.mu.Unlock()

	return fmt.Sprintf("%s/%s/%s-%d.%s",
		pathPrefix, now.Format(pathBucketLayout), c, millis, ExtensionFor(contentType, filename))
}

// ExtensionFor picks a file extension from the declared content type, then
// the original filename, falling back to jpg.
func ExtensionFor(contentType, filename string) string {
	mediaType, _, _ := strings.Cut(contentType, ";")
	mediaType = strings.ToLower(strings.TrimSpace(mediaType))
	if mediaType != "" {
		if mt := mimetype.Lookup(mediaType); mt != nil && mt.Extension() != "" {
			return strings.TrimPrefix(mt.Extension(), ".")
		}
	}

	if ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), ".")); isSimpleExtension(ext) {
		return ext
	}

	return defaultExtension
}

func isSimpleExtension(ext string) bool {
	if ext == "" || len(ext) > 8 {
		return false
	}
	for _, r := range ext {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}

	return true
}
