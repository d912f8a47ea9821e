package form

import (
	"strings"
	"testing"
	"time"

	"cafeadmin/internal/domain/entity"

	"github.com/stretchr/testify/assert"
)

func TestPathGenerator_SameMillisecond(t *testing.T) {
	fixed := time.Date(2025, 3, 14, 9, 26, 53, 589_000_000, time.UTC)
	g := &PathGenerator{now: func() time.Time { return fixed }}

	main := g.Generate(entity.ImageMain, "image/jpeg", "a.jpg")
	exterior := g.Generate(entity.ImageExterior, "image/jpeg", "a.jpg")
	again := g.Generate(entity.ImageMain, "image/jpeg", "a.jpg")

	assert.True(t, strings.HasPrefix(main, "cafes/20250314092653/main-"))
	assert.True(t, strings.HasPrefix(exterior, "cafes/20250314092653/exterior-"))
	assert.True(t, strings.HasSuffix(main, ".jpg"))
	assert.NotEqual(t, main, exterior)
	assert.NotEqual(t, main, again)
}

func TestExtensionFor(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		filename    string
		want        string
	}{
		{name: "png", contentType: "image/png", want: "png"},
		{name: "webp with params", contentType: "image/webp; charset=binary", want: "webp"},
		{name: "filename fallback", contentType: "", filename: "shop.GIF", want: "gif"},
		{name: "default", contentType: "", filename: "noext", want: "jpg"},
		{name: "odd extension ignored", contentType: "", filename: "x.j p g", want: "jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtensionFor(tt.contentType, tt.filename))
		})
	}
}
