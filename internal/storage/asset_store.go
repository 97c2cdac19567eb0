// Package storage abstracts the remote image-hosting service used for
// catalog assets.
package storage

import (
	"context"
	"path"
	"strings"
)

// Asset is the remote reference returned for an uploaded image.
type Asset struct {
	URL      string
	PublicID string
}

// AssetStore defines the operations the catalog needs from the image host.
// Upload failures are fatal to the caller's use case; Delete is best-effort
// and callers log failures instead of propagating them.
type AssetStore interface {
	Upload(ctx context.Context, localPath string) (Asset, error)
	Delete(ctx context.Context, publicID string) error
}

// PublicIDFromURL derives the public id of an asset from its stored URL:
// the last path segment with the extension stripped. Used for records that
// only persisted the URL.
func PublicIDFromURL(rawURL string) string {
	segment := path.Base(strings.TrimSuffix(rawURL, "/"))
	if segment == "." || segment == "/" {
		return ""
	}
	if i := strings.LastIndex(segment, "."); i > 0 {
		segment = segment[:i]
	}
	return segment
}
