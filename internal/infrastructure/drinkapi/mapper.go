package drinkapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/drinkbook/client/internal/domain"
)

// Pexels rendering parameters for recipe thumbnails
const (
	PhotoWidth  = 500
	PhotoHeight = 500

	// PlaceholderImageURL is shown for recipes without a photo
	PlaceholderImageURL = "https://media.istockphoto.com/id/1147544807/vector/thumbnail-image-vector-graphic.jpg?s=612x612&w=0&k=20&c=rnCKVbdxqkjlcs3xH87-9gocETqpspHFXu5dIGB4wuM="
)

// PhotoURL converts a photo id into a renderable Pexels URL
func PhotoURL(id *int64) string {
	if id == nil || *id <= 0 {
		return PlaceholderImageURL
	}
	return fmt.Sprintf("https://images.pexels.com/photos/%d/pexels-photo-%d.jpeg?auto=compress&cs=tinysrgb&w=%d&h=%d",
		*id, *id, PhotoWidth, PhotoHeight)
}

// RefURL converts an image reference into a renderable URL. Numeric refs
// are Pexels photo ids; anything else is assumed to already be a URL.
func RefURL(ref domain.ImageRef) string {
	if id, ok := ref.PhotoID(); ok {
		return PhotoURL(&id)
	}
	if ref == "" {
		return PlaceholderImageURL
	}
	return string(ref)
}

// decodeImageRefs accepts the two shapes the image endpoints return:
// arrays of numeric photo ids and arrays of URL strings.
func decodeImageRefs(raw []json.RawMessage) ([]domain.ImageRef, error) {
	refs := make([]domain.ImageRef, 0, len(raw))
	for i, item := range raw {
		item = bytes.TrimSpace(item)
		if len(item) == 0 {
			return nil, fmt.Errorf("image %d: empty value", i)
		}

		switch item[0] {
		case '"':
			var s string
			if err := json.Unmarshal(item, &s); err != nil {
				return nil, fmt.Errorf("image %d: %w", i, err)
			}
			refs = append(refs, domain.ImageRef(s))
		default:
			var n json.Number
			if err := json.Unmarshal(item, &n); err != nil {
				return nil, fmt.Errorf("image %d: %w", i, err)
			}
			id, err := strconv.ParseInt(n.String(), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("image %d: not an integer photo id: %w", i, err)
			}
			refs = append(refs, domain.ImageRef(strconv.FormatInt(id, 10)))
		}
	}
	return refs, nil
}
