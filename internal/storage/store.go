// Package storage keeps uploaded recipe images on the local filesystem or in
// an S3 compatible bucket.
package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
)

// ImageStore saves image bytes under a key and returns their public URL.
type ImageStore interface {
	Save(ctx context.Context, key, contentType string, data []byte) (string, error)
	// Delete removes the object behind a URL previously returned by Save.
	// Unknown URLs are not an error.
	Delete(ctx context.Context, url string) error
}

// MaxImageSize bounds a decoded upload.
const MaxImageSize = 10 << 20

var ErrInvalidDataURI = errors.New("invalid image data")

var imageExtensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// DecodeDataURI parses "data:image/png;base64,<payload>" and returns the
// content type, a file extension and the decoded bytes.
func DecodeDataURI(uri string) (contentType, ext string, data []byte, err error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(uri), "data:")
	if !ok {
		return "", "", nil, fmt.Errorf("%w: missing data: prefix", ErrInvalidDataURI)
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", "", nil, fmt.Errorf("%w: missing payload", ErrInvalidDataURI)
	}
	contentType, encoding, _ := strings.Cut(meta, ";")
	if encoding != "base64" {
		return "", "", nil, fmt.Errorf("%w: only base64 payloads are supported", ErrInvalidDataURI)
	}
	contentType = strings.ToLower(contentType)
	ext, ok = imageExtensions[contentType]
	if !ok {
		return "", "", nil, fmt.Errorf("%w: unsupported content type %q", ErrInvalidDataURI, contentType)
	}
	if base64.StdEncoding.DecodedLen(len(payload)) > MaxImageSize {
		return "", "", nil, fmt.Errorf("%w: image larger than %d bytes", ErrInvalidDataURI, MaxImageSize)
	}
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", "", nil, fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
	}
	if len(data) == 0 {
		return "", "", nil, fmt.Errorf("%w: empty image", ErrInvalidDataURI)
	}
	return contentType, ext, data, nil
}

// NewImageKey returns a fresh object key such as "recipes/<uuid>.png".
func NewImageKey(ext string) string {
	return path.Join("recipes", uuid.NewString()+"."+ext)
}
