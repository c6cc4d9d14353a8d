package model

import (
	"strings"
	"time"
)

// Media types reported by the provider. Anything else is stored verbatim.
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

// Entry is the persisted picture record for one calendar date.
type Entry struct {
	ID            int64
	Title         string
	Explanation   string
	URL           string
	MediaType     string
	Date          time.Time
	CreatedAt     time.Time
	LocalFilePath *string
}

// IsImage reports whether the entry's media can be used as wallpaper.
func IsImage(mediaType string) bool {
	return strings.EqualFold(strings.TrimSpace(mediaType), MediaTypeImage)
}

// HasLocalFile reports whether an image was downloaded for the entry.
func (e Entry) HasLocalFile() bool {
	return e.LocalFilePath != nil && *e.LocalFilePath != ""
}
