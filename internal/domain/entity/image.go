package entity

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ImageCategory is one of the 16 fixed image slots of a listing.
type ImageCategory int

const (
	ImageMain ImageCategory = iota
	ImageExterior
	ImageInterior
	ImagePower
	ImageDrink
	ImageFood
	ImageOther1
	ImageOther2
	ImageOther3
	ImageOther4
	ImageOther5
	ImageOther6
	ImageOther7
	ImageOther8
	ImageOther9
	ImageOther10

	ImageCategoryCount = int(ImageOther10) + 1
)

// OtherImageCount is the number of free-form "other" slots
const OtherImageCount = int(ImageOther10-ImageOther1) + 1

var imageCategoryNames = [ImageCategoryCount]string{
	"main", "exterior", "interior", "power", "drink", "food",
	"other1", "other2", "other3", "other4", "other5",
	"other6", "other7", "other8", "other9", "other10",
}

// AllImageCategories lists every category in display order
var AllImageCategories = func() []ImageCategory {
	out := make([]ImageCategory, ImageCategoryCount)
	for i := range out {
		out[i] = ImageCategory(i)
	}

	return out
}()

// RequiredImageCategories must be populated for a valid submission
var RequiredImageCategories = []ImageCategory{ImageMain, ImageExterior, ImageInterior, ImagePower, ImageDrink}

var ErrUnknownImageCategory = errors.New("unknown image category")

// ParseImageCategory resolves a category key such as "main" or "other3"
func ParseImageCategory(s string) (ImageCategory, error) {
	for i, name := range imageCategoryNames {
		if name == s {
			return ImageCategory(i), nil
		}
	}

	return 0, errors.Wrap(ErrUnknownImageCategory, s)
}

// Valid reports whether c is within the closed set
func (c ImageCategory) Valid() bool {
	return c >= 0 && int(c) < ImageCategoryCount
}

func (c ImageCategory) String() string {
	if !c.Valid() {
		return "ImageCategory(" + strconv.Itoa(int(c)) + ")"
	}

	return imageCategoryNames[c]
}

// Required reports whether the category is mandatory
func (c ImageCategory) Required() bool {
	return c >= ImageMain && c <= ImageDrink
}

// OtherIndex returns the zero-based position among other1..other10
func (c ImageCategory) OtherIndex() (int, bool) {
	if c < ImageOther1 || c > ImageOther10 {
		return 0, false
	}

	return int(c - ImageOther1), true
}

// DisplayOrder is the fixed 1-based position of the category
func (c ImageCategory) DisplayOrder() int {
	return int(c) + 1
}

func (c ImageCategory) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, errors.Wrap(ErrUnknownImageCategory, c.String())
	}

	return []byte(c.String()), nil
}

func (c *ImageCategory) UnmarshalText(text []byte) error {
	parsed, err := ParseImageCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed

	return nil
}

// ImageSlot binds an image to a category. FileBase64 carries a pending
// payload as a data URI and is never persisted. Staged marks a slot restored
// from a draft whose payload was never uploaded: its path points at nothing
// until a file is attached again.
type ImageSlot struct {
	ID          string `json:"id"`
	StoragePath string `json:"storagePath"`
	Caption     string `json:"caption"`
	PreviewURL  string `json:"previewUrl,omitempty"`
	FileBase64  string `json:"fileBase64,omitempty"`
	Staged      bool   `json:"staged,omitempty"`
}

// Pending reports whether the slot holds a payload that still has to be uploaded
func (s *ImageSlot) Pending() bool {
	return s != nil && s.FileBase64 != ""
}

// NeedsReattach reports whether the slot lost its staged payload and needs a new file
func (s *ImageSlot) NeedsReattach() bool {
	return s != nil && s.Staged && s.FileBase64 == ""
}

// Populated reports whether the slot counts as present for validation
func (s *ImageSlot) Populated() bool {
	if s == nil {
		return false
	}
	if s.FileBase64 != "" {
		return true
	}

	return !s.Staged && strings.TrimSpace(s.StoragePath) != ""
}

// ImageSet is the fixed array of slots indexed by category. A nil entry is an empty slot.
type ImageSet [ImageCategoryCount]*ImageSlot

// Get returns the slot for a category, nil when empty
func (s *ImageSet) Get(c ImageCategory) *ImageSlot {
	if !c.Valid() {
		return nil
	}

	return s[c]
}

// Set replaces the slot for a category
func (s *ImageSet) Set(c ImageCategory, slot *ImageSlot) {
	if c.Valid() {
		s[c] = slot
	}
}

// Populated returns the categories with a populated slot, in category order
func (s *ImageSet) Populated() []ImageCategory {
	var out []ImageCategory
	for _, c := range AllImageCategories {
		if s[c].Populated() {
			out = append(out, c)
		}
	}

	return out
}

// Clone deep-copies every slot
func (s ImageSet) Clone() ImageSet {
	var out ImageSet
	for i, slot := range s {
		if slot != nil {
			cp := *slot
			out[i] = &cp
		}
	}

	return out
}

// MarshalJSON encodes the set as an object keyed by category with null for empty slots.
func (s ImageSet) MarshalJSON() ([]byte, error) {
	m := make(map[string]*ImageSlot, ImageCategoryCount)
	for _, c := range AllImageCategories {
		m[c.String()] = s[c]
	}

	return json.Marshal(m)
}

// UnmarshalJSON accepts an object keyed by category; unknown keys are ignored.
func (s *ImageSet) UnmarshalJSON(data []byte) error {
	var m map[string]*ImageSlot
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}

	var out ImageSet
	for key, slot := range m {
		c, err := ParseImageCategory(key)
		if err != nil {
			continue
		}
		out[c] = slot
	}
	*s = out

	return nil
}
