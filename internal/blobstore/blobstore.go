package blobstore

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
)

var ErrNotFound = errors.New("blob not found")

// BlobStore holds uploaded images under slash-separated keys such as
// "banners/<name>.jpg" and exposes each one at a public URL.
type BlobStore interface {
	// Upload writes r under key, replacing any existing object, and returns
	// its public URL.
	Upload(ctx context.Context, key, contentType string, r io.Reader) (string, error)
	Get(ctx context.Context, key string) (io.ReadCloser, string, error)
	// Delete removes every key in one call. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
	List(ctx context.Context, prefix string) ([]string, error)
	// KeyFromURL maps a public URL produced by Upload back to its key.
	KeyFromURL(rawURL string) (string, bool)
}

// Object is one item of a batch upload.
type Object struct {
	Key         string
	ContentType string
	Data        []byte
}

// BatchResult reports the outcome of one Object. Err is nil on success.
type BatchResult struct {
	Key string
	URL string
	Err error
}

// BatchUploader is implemented by stores that can upload several objects in
// one call. Results are returned in input order.
type BatchUploader interface {
	UploadBatch(ctx context.Context, objects []Object) ([]BatchResult, error)
}

// ValidKey reports whether key is a relative, clean, slash-separated path.
func ValidKey(key string) bool {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, `\`) {
		return false
	}
	if path.Clean(key) != key {
		return false
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." || part == "." {
			return false
		}
	}
	return true
}

func MimeTypeToExt(mimeType string) string {
	switch mimeType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/svg+xml":
		return ".svg"
	default:
		return ".jpg"
	}
}

func ExtToMimeType(key string) string {
	switch strings.ToLower(path.Ext(key)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".svg":
		return "image/svg+xml"
	default:
		return "image/jpeg"
	}
}
