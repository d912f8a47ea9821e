package form

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

const previewScheme = "blob:"

// Preview is a locally held payload shown before it has been uploaded.
type Preview struct {
	ContentType string
	Data        []byte
}

// PreviewRegistry owns the in-memory preview resources of one wizard.
type PreviewRegistry struct {
	mu    sync.Mutex
	items map[string]Preview
}

func NewPreviewRegistry() *PreviewRegistry {
	return &PreviewRegistry{items: make(map[string]Preview)}
}

// Create registers a payload and returns its blob: reference
func (r *PreviewRegistry) Create(contentType string, data []byte) string {
	ref := previewScheme + uuid.NewString()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[ref] = Preview{ContentType: contentType, Data: data}

	return ref
}

// Get looks up a preview by reference
func (r *PreviewRegistry) Get(ref string) (Preview, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.items[ref]

	return p, ok
}

// Release frees a preview; it reports whether the reference was held
func (r *PreviewRegistry) Release(ref string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[ref]; !ok {
		return false
	}
	delete(r.items, ref)

	return true
}

// ReleaseAll frees every preview
func (r *PreviewRegistry) ReleaseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.items)
}

// Len returns the number of held previews
func (r *PreviewRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.items)
}

// IsLocalPreview reports whether ref points into a PreviewRegistry rather than a public URL
func IsLocalPreview(ref string) bool {
	return strings.HasPrefix(ref, previewScheme)
}
