package upload

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/analiticosprojetos-netizen/lobianco-investimentos/internal/blobstore"
	"github.com/analiticosprojetos-netizen/lobianco-investimentos/internal/domain"
)

// Namespace is the key prefix a group of images is stored under.
type Namespace string

const (
	NamespaceLogo     Namespace = "logo"
	NamespaceBanners  Namespace = "banners"
	NamespaceListings Namespace = "imoveis"
)

// ListingNamespace returns the namespace holding the images of one listing.
func ListingNamespace(listingID string) Namespace {
	return Namespace(string(NamespaceListings) + "/" + listingID)
}

// BatchResult summarises a batch upload. URLs keeps the order of the
// submitted files; files that failed are absent.
type BatchResult struct {
	URLs      []string `json:"urls"`
	Succeeded int      `json:"succeeded"`
	Total     int      `json:"total"`
	Warnings  []string `json:"warnings,omitempty"`
}

func (r BatchResult) Failed() int {
	return r.Total - r.Succeeded
}

// Uploader validates base64 files and stores them in a blob store.
type Uploader struct {
	store   blobstore.BlobStore
	logger  *slog.Logger
	newName func(index int, filename, mimeType string) string
}

func NewUploader(store blobstore.BlobStore, logger *slog.Logger) *Uploader {
	return &Uploader{store: store, logger: logger, newName: objectName}
}

// objectName builds a collision-resistant name: a time-ordered unique ID,
// the position in the batch, and the original extension.
func objectName(index int, filename, mimeType string) string {
	ext := strings.ToLower(path.Ext(filename))
	if ext == "" || len(ext) > 6 || strings.ContainsAny(ext, "/\\") {
		ext = blobstore.MimeTypeToExt(mimeType)
	}
	return fmt.Sprintf("%s_%d%s", domain.NewID(), index, ext)
}

func (u *Uploader) key(ns Namespace, index int, f decodedFile) string {
	return string(ns) + "/" + u.newName(index, f.filename, f.mimeType)
}

// UploadOne validates and stores a single file and returns its public URL.
func (u *Uploader) UploadOne(ctx context.Context, ns Namespace, f File) (string, error) {
	d, err := decode(f)
	if err != nil {
		return "", err
	}
	key := u.key(ns, 0, d)
	url, err := u.store.Upload(ctx, key, d.mimeType, bytes.NewReader(d.data))
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	u.logger.Info("file uploaded", "key", key, "bytes", len(d.data))
	return url, nil
}

// UploadBatch stores every valid file under ns. Invalid files and failed
// uploads become warnings; the rest are still stored. When the store can
// upload in bulk it is used first, falling back to one upload per file if the
// bulk call fails as a whole.
func (u *Uploader) UploadBatch(ctx context.Context, ns Namespace, files []File) BatchResult {
	res := BatchResult{URLs: []string{}, Total: len(files)}

	objects := make([]blobstore.Object, 0, len(files))
	names := make([]string, 0, len(files))
	for i, f := range files {
		d, err := decode(f)
		if err != nil {
			u.logger.Warn("skipping invalid file", "namespace", ns, "filename", f.Filename, "error", err)
			res.Warnings = append(res.Warnings, fmt.Sprintf("%s: %v", displayName(f.Filename, i), err))
			continue
		}
		objects = append(objects, blobstore.Object{Key: u.key(ns, i, d), ContentType: d.mimeType, Data: d.data})
		names = append(names, displayName(f.Filename, i))
	}
	if len(objects) == 0 {
		return res
	}

	if bu, ok := u.store.(blobstore.BatchUploader); ok {
		results, err := bu.UploadBatch(ctx, objects)
		if err == nil && len(results) == len(objects) {
			for i, r := range results {
				if r.Err != nil {
					u.logger.Warn("batch item failed", "key", r.Key, "error", r.Err)
					res.Warnings = append(res.Warnings, fmt.Sprintf("%s: %v", names[i], r.Err))
					continue
				}
				res.URLs = append(res.URLs, r.URL)
			}
			res.Succeeded = len(res.URLs)
			return res
		}
		u.logger.Warn("batch upload failed, uploading files individually", "namespace", ns, "error", err)
	}

	for i, o := range objects {
		url, err := u.store.Upload(ctx, o.Key, o.ContentType, bytes.NewReader(o.Data))
		if err != nil {
			u.logger.Warn("upload failed", "key", o.Key, "error", err)
			res.Warnings = append(res.Warnings, fmt.Sprintf("%s: %v", names[i], err))
			continue
		}
		res.URLs = append(res.URLs, url)
	}
	res.Succeeded = len(res.URLs)
	return res
}

func displayName(filename string, index int) string {
	if filename != "" {
		return filename
	}
	return fmt.Sprintf("arquivo %d", index+1)
}

// DeleteURLs removes the blobs behind urls in a single store call. URLs the
// store does not own, such as the stock banner, are skipped.
func (u *Uploader) DeleteURLs(ctx context.Context, urls []string) error {
	keys := make([]string, 0, len(urls))
	for _, raw := range urls {
		key, ok := u.store.KeyFromURL(raw)
		if !ok {
			u.logger.Debug("skipping foreign url", "url", raw)
			continue
		}
		keys = append(keys, key)
	}
	return u.deleteKeys(ctx, keys)
}

// DeleteListing removes every blob of a listing: the ones referenced by urls
// plus anything else left under its namespace.
func (u *Uploader) DeleteListing(ctx context.Context, listingID string, urls []string) error {
	seen := make(map[string]bool)
	var keys []string
	add := func(key string) {
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	for _, raw := range urls {
		if key, ok := u.store.KeyFromURL(raw); ok {
			add(key)
		}
	}

	listed, err := u.store.List(ctx, string(ListingNamespace(listingID))+"/")
	if err != nil {
		u.logger.Warn("failed to list listing blobs", "listing_id", listingID, "error", err)
	}
	for _, key := range listed {
		add(key)
	}

	return u.deleteKeys(ctx, keys)
}

func (u *Uploader) deleteKeys(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := u.store.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("failed to delete %d blob(s): %w", len(keys), err)
	}
	u.logger.Info("blobs deleted", "count", len(keys))
	return nil
}
