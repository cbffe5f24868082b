package models

import (
	"fmt"
	"strings"
)

// MediaKind selects the record store partition and the storage subdirectory
// for an object. It is decided once at ingestion and never changes.
type MediaKind string

const (
	KindFile  MediaKind = "file"
	KindPhoto MediaKind = "photo"
	KindVideo MediaKind = "video"
)

// AllKinds returns every media kind, in a fixed order.
func AllKinds() []MediaKind {
	return []MediaKind{KindFile, KindPhoto, KindVideo}
}

// Subdir maps the kind to its storage subdirectory name.
func (k MediaKind) Subdir() string {
	switch k {
	case KindPhoto:
		return "photos"
	case KindVideo:
		return "videos"
	default:
		return "files"
	}
}

// KindFromContentType classifies a payload by its declared content type.
// Anything that is not an image or a video is a generic file.
func KindFromContentType(contentType string) MediaKind {
	switch {
	case strings.Contains(contentType, "image"):
		return KindPhoto
	case strings.Contains(contentType, "video"):
		return KindVideo
	default:
		return KindFile
	}
}

// ParseKind converts a route segment ("files", "photos", "videos") into a
// MediaKind.
func ParseKind(s string) (MediaKind, error) {
	switch s {
	case "files":
		return KindFile, nil
	case "photos":
		return KindPhoto, nil
	case "videos":
		return KindVideo, nil
	default:
		return "", fmt.Errorf("unknown media kind %q", s)
	}
}
