package domain

import "strconv"

// ImageRef is an opaque reference to a stock photo: either a numeric photo
// id or a full URL, depending on what the image service returned.
type ImageRef string

// PhotoID returns the numeric photo id when the reference is one
func (r ImageRef) PhotoID() (int64, bool) {
	id, err := strconv.ParseInt(string(r), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ImageSearchRequest is the request sent to the image search operation
type ImageSearchRequest struct {
	Query string `json:"name"`
	Count int    `json:"count"`
	Page  int    `json:"page"`
}
