package form

import (
	"cafeadmin/internal/domain/codec"
	"cafeadmin/internal/domain/entity"
	domainerrors "cafeadmin/internal/domain/errors"

	"github.com/google/uuid"
)

// ImageSlots applies slot operations to an ImageSet while keeping local
// previews in step: a superseded or cleared preview is always released.
type ImageSlots struct {
	paths    *PathGenerator
	previews *PreviewRegistry
}

func NewImageSlots(paths *PathGenerator, previews *PreviewRegistry) *ImageSlots {
	return &ImageSlots{paths: paths, previews: previews}
}

// AssignUpload stages a payload in category c under a newly generated path.
// The entry id and caption of a replaced slot carry over.
func (s *ImageSlots) AssignUpload(images *entity.ImageSet, c entity.ImageCategory, data []byte, contentType, filename string) (*entity.ImageSlot, error) {
	if !c.Valid() {
		return nil, domainerrors.ErrUnknownImageCategory
	}
	if contentType == "" {
		contentType = codec.DefaultContentType
	}

	id := uuid.NewString()
	var caption string
	if prev := images.Get(c); prev != nil {
		s.releasePreview(prev)
		if prev.ID != "" {
			id = prev.ID
		}
		caption = prev.Caption
	}

	slot := &entity.ImageSlot{
		ID:          id,
		StoragePath: s.paths.Generate(c, contentType, filename),
		Caption:     caption,
		PreviewURL:  s.previews.Create(contentType, data),
		FileBase64:  codec.EncodeDataURI(contentType, data),
	}
	images.Set(c, slot)

	return slot, nil
}

// Clear empties category c. The caller must pass confirmed=true; the record
// itself is untouched until the next submit.
func (s *ImageSlots) Clear(images *entity.ImageSet, c entity.ImageCategory, confirmed bool) error {
	if !c.Valid() {
		return domainerrors.ErrUnknownImageCategory
	}
	if !confirmed {
		return domainerrors.ErrConfirmationRequired
	}

	if prev := images.Get(c); prev != nil {
		s.releasePreview(prev)
	}
	images.Set(c, nil)

	return nil
}

// SetCaption edits the caption of category c. The slot must not be empty.
func (s *ImageSlots) SetCaption(images *entity.ImageSet, c entity.ImageCategory, caption string) error {
	if !c.Valid() {
		return domainerrors.ErrUnknownImageCategory
	}
	slot := images.Get(c)
	if slot == nil {
		return domainerrors.ErrEmptyImageSlot
	}
	slot.Caption = caption

	return nil
}

// ReleaseAll frees every preview held for the set
func (s *ImageSlots) ReleaseAll() {
	s.previews.ReleaseAll()
}

func (s *ImageSlots) releasePreview(slot *entity.ImageSlot) {
	if IsLocalPreview(slot.PreviewURL) {
		s.previews.Release(slot.PreviewURL)
	}
}
