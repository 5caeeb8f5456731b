package local

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/analiticosprojetos-netizen/lobianco-investimentos/internal/blobstore"
)

// LocalBlobStore keeps blobs as files below basePath. Files are served by
// the web layer under <publicURL>/storage/<key>.
type LocalBlobStore struct {
	basePath  string
	publicURL string
}

func NewLocalBlobStore(basePath, publicURL string) (*LocalBlobStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalBlobStore{
		basePath:  basePath,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

func (s *LocalBlobStore) URL(key string) string {
	return s.publicURL + "/storage/" + key
}

func (s *LocalBlobStore) KeyFromURL(rawURL string) (string, bool) {
	key, ok := strings.CutPrefix(rawURL, s.publicURL+"/storage/")
	if !ok {
		key, ok = strings.CutPrefix(rawURL, "/storage/")
	}
	if !ok || !blobstore.ValidKey(key) {
		return "", false
	}
	return key, true
}

func (s *LocalBlobStore) Upload(ctx context.Context, key, contentType string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	filePath, err := s.safeJoin(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		if cerr := f.Close(); cerr != nil {
			slog.Error("failed to close file after write error", "error", cerr)
		}
		if rerr := os.Remove(filePath); rerr != nil {
			slog.Error("failed to remove file after write error", "error", rerr)
		}
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Close(); err != nil {
		if rerr := os.Remove(filePath); rerr != nil {
			slog.Error("failed to remove file after close error", "error", rerr)
		}
		return "", fmt.Errorf("failed to close file: %w", err)
	}
	return s.URL(key), nil
}

// UploadBatch writes each object in turn. A failed object does not stop the
// batch.
func (s *LocalBlobStore) UploadBatch(ctx context.Context, objects []blobstore.Object) ([]blobstore.BatchResult, error) {
	results := make([]blobstore.BatchResult, 0, len(objects))
	for _, o := range objects {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		url, err := s.Upload(ctx, o.Key, o.ContentType, bytes.NewReader(o.Data))
		results = append(results, blobstore.BatchResult{Key: o.Key, URL: url, Err: err})
	}
	return results, nil
}

func (s *LocalBlobStore) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	filePath, err := s.safeJoin(key)
	if err != nil {
		return nil, "", err
	}

	f, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", blobstore.ErrNotFound
		}
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}
	return f, blobstore.ExtToMimeType(key), nil
}

func (s *LocalBlobStore) Delete(ctx context.Context, keys ...string) error {
	var errs []error
	for _, key := range keys {
		filePath, err := s.safeJoin(key)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			continue
		}
		if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
			errs = append(errs, fmt.Errorf("failed to delete %s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}

// List returns the keys below prefix in lexical order.
func (s *LocalBlobStore) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := filepath.WalkDir(s.basePath, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.basePath, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %q: %w", prefix, err)
	}
	sort.Strings(keys)
	return keys, nil
}

// safeJoin resolves key relative to basePath and rejects directory traversal.
func (s *LocalBlobStore) safeJoin(key string) (string, error) {
	if !blobstore.ValidKey(key) {
		return "", fmt.Errorf("invalid key %q", key)
	}

	absBase, err := filepath.Abs(s.basePath)
	if err != nil {
		return "", fmt.Errorf("invalid base path: %w", err)
	}

	absPath, err := filepath.Abs(filepath.Join(s.basePath, filepath.FromSlash(key)))
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}

	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		return "", fmt.Errorf("path traversal attempt")
	}
	return absPath, nil
}
