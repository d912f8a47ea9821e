package codec

import (
	"encoding/base64"
	"regexp"
	"strings"

	"cafeadmin/internal/domain/entity"

	"github.com/pkg/errors"
)

// DefaultContentType is assumed when a payload carries no data-URI prefix
const DefaultContentType = "image/jpeg"

var dataURIPattern = regexp.MustCompile(`^data:(.+);base64,(.+)$`)

var ErrInvalidPayload = errors.New("invalid base64 payload")

// ParseDataURI splits "data:<content-type>;base64,<payload>" into its parts.
// A bare base64 string is accepted as image/jpeg.
func ParseDataURI(s string) (contentType string, data []byte, err error) {
	s = strings.TrimSpace(s)
	contentType, encoded := DefaultContentType, s
	if m := dataURIPattern.FindStringSubmatch(s); m != nil {
		contentType, encoded = m[1], m[2]
	}

	data, err = base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", nil, errors.Wrap(ErrInvalidPayload, err.Error())
	}
	if len(data) == 0 {
		return "", nil, errors.Wrap(ErrInvalidPayload, "empty payload")
	}

	return contentType, data, nil
}

// EncodeDataURI is the inverse of ParseDataURI
func EncodeDataURI(contentType string, data []byte) string {
	if contentType == "" {
		contentType = DefaultContentType
	}

	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// BuildImageRows derives one associated-image row per populated slot with a
// storage path, ordered by category with the category's fixed display order.
func BuildImageRows(cafeID string, images entity.ImageSet) []*entity.CafeImageRow {
	rows := make([]*entity.CafeImageRow, 0, entity.ImageCategoryCount)
	for _, c := range entity.AllImageCategories {
		slot := images.Get(c)
		if slot == nil || slot.StoragePath == "" || slot.NeedsReattach() {
			continue
		}
		rows = append(rows, &entity.CafeImageRow{
			CafeID:       cafeID,
			ImagePath:    slot.StoragePath,
			Category:     c,
			DisplayOrder: c.DisplayOrder(),
		})
	}

	return rows
}
