package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/analiticosprojetos-netizen/lobianco-investimentos/internal/blobstore"
)

const publicURL = "http://test/storage/"

// memStore is an in-memory blobstore.BlobStore that counts calls and can fail
// selected uploads.
type memStore struct {
	mu          sync.Mutex
	data        map[string][]byte
	uploads     int
	deleteCalls [][]string
	failUpload  func(key string) bool
	deleteErr   error
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (m *memStore) Upload(_ context.Context, key, _ string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploads++
	if m.failUpload != nil && m.failUpload(key) {
		return "", errors.New("storage unavailable")
	}
	m.data[key] = data
	return publicURL + key, nil
}

func (m *memStore) Get(_ context.Context, key string) (io.ReadCloser, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.data[key]
	if !ok {
		return nil, "", blobstore.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), blobstore.ExtToMimeType(key), nil
}

func (m *memStore) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteCalls = append(m.deleteCalls, keys)
	if m.deleteErr != nil {
		return m.deleteErr
	}
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *memStore) List(_ context.Context, prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var keys []string
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *memStore) KeyFromURL(raw string) (string, bool) {
	return strings.CutPrefix(raw, publicURL)
}

// batchStore adds bulk uploads on top of memStore.
type batchStore struct {
	*memStore
	batchCalls int
	batchErr   error
}

func (b *batchStore) UploadBatch(ctx context.Context, objects []blobstore.Object) ([]blobstore.BatchResult, error) {
	b.batchCalls++
	if b.batchErr != nil {
		return nil, b.batchErr
	}
	results := make([]blobstore.BatchResult, 0, len(objects))
	for _, o := range objects {
		url, err := b.memStore.Upload(ctx, o.Key, o.ContentType, bytes.NewReader(o.Data))
		results = append(results, blobstore.BatchResult{Key: o.Key, URL: url, Err: err})
	}
	return results, nil
}

func newTestUploader(store blobstore.BlobStore) *Uploader {
	u := NewUploader(store, slog.New(slog.DiscardHandler))
	u.newName = func(index int, _, mimeType string) string {
		return fmt.Sprintf("f%d%s", index, blobstore.MimeTypeToExt(mimeType))
	}
	return u
}

func pngFile(name string) File {
	return File{Data: dataURI("image/png", pngHeader), Filename: name}
}

func TestUploadOne(t *testing.T) {
	store := newMemStore()
	u := newTestUploader(store)

	url, err := u.UploadOne(context.Background(), NamespaceLogo, pngFile("logo.png"))
	require.NoError(t, err)
	assert.Equal(t, publicURL+"logo/f0.png", url)
	assert.Equal(t, pngHeader, store.data["logo/f0.png"])
}

func TestUploadOne_InvalidFileNotStored(t *testing.T) {
	store := newMemStore()
	u := newTestUploader(store)

	_, err := u.UploadOne(context.Background(), NamespaceBanners, File{Data: dataURI("text/plain", []byte("x"))})
	assert.ErrorIs(t, err, ErrNotImage)
	assert.Zero(t, store.uploads)
}

func TestUploadOne_StoreError(t *testing.T) {
	store := newMemStore()
	store.failUpload = func(string) bool { return true }
	u := newTestUploader(store)

	_, err := u.UploadOne(context.Background(), NamespaceLogo, pngFile("logo.png"))
	assert.Error(t, err)
}

func TestUploadBatch_PartialFailureKeepsOrder(t *testing.T) {
	store := newMemStore()
	store.failUpload = func(key string) bool { return strings.HasSuffix(key, "f1.png") }
	u := newTestUploader(store)

	res := u.UploadBatch(context.Background(), NamespaceBanners, []File{pngFile("a.png"), pngFile("b.png"), pngFile("c.png")})

	assert.Equal(t, []string{publicURL + "banners/f0.png", publicURL + "banners/f2.png"}, res.URLs)
	assert.Equal(t, 2, res.Succeeded)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 1, res.Failed())
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "b.png")
}

func TestUploadBatch_InvalidFilesSkipped(t *testing.T) {
	store := newMemStore()
	u := newTestUploader(store)

	res := u.UploadBatch(context.Background(), NamespaceBanners, []File{
		{Data: dataURI("application/pdf", []byte("%PDF")), Filename: "doc.pdf"},
		pngFile("ok.png"),
		{Data: dataURI("image/jpeg", make([]byte, MaxFileSize+1)), Filename: "huge.jpg"},
	})

	assert.Equal(t, []string{publicURL + "banners/f1.png"}, res.URLs)
	assert.Equal(t, 1, res.Succeeded)
	assert.Equal(t, 3, res.Total)
	assert.Len(t, res.Warnings, 2)
	assert.Equal(t, 1, store.uploads)
}

func TestUploadBatch_UsesBulkUpload(t *testing.T) {
	store := &batchStore{memStore: newMemStore()}
	u := newTestUploader(store)

	res := u.UploadBatch(context.Background(), NamespaceBanners, []File{pngFile("a.png"), pngFile("b.png")})

	assert.Equal(t, 1, store.batchCalls)
	assert.Equal(t, 2, res.Succeeded)
	assert.Equal(t, []string{publicURL + "banners/f0.png", publicURL + "banners/f1.png"}, res.URLs)
}

func TestUploadBatch_FallsBackWhenBulkFails(t *testing.T) {
	store := &batchStore{memStore: newMemStore(), batchErr: errors.New("bulk endpoint down")}
	u := newTestUploader(store)

	res := u.UploadBatch(context.Background(), NamespaceBanners, []File{pngFile("a.png"), pngFile("b.png")})

	assert.Equal(t, 1, store.batchCalls)
	assert.Equal(t, 2, store.uploads)
	assert.Equal(t, 2, res.Succeeded)
	assert.Empty(t, res.Warnings)
}

func TestUploadBatch_Empty(t *testing.T) {
	store := newMemStore()
	u := newTestUploader(store)

	res := u.UploadBatch(context.Background(), NamespaceBanners, nil)
	assert.NotNil(t, res.URLs)
	assert.Zero(t, res.Total)
	assert.Zero(t, store.uploads)
}

func TestDeleteURLs_SingleCallSkipsForeign(t *testing.T) {
	store := newMemStore()
	store.data["banners/a.jpg"] = nil
	store.data["banners/b.jpg"] = nil
	u := newTestUploader(store)

	err := u.DeleteURLs(context.Background(), []string{
		publicURL + "banners/a.jpg",
		"https://images.unsplash.com/photo.jpg",
		publicURL + "banners/b.jpg",
	})
	require.NoError(t, err)
	require.Len(t, store.deleteCalls, 1)
	assert.Equal(t, []string{"banners/a.jpg", "banners/b.jpg"}, store.deleteCalls[0])
	assert.Empty(t, store.data)
}

func TestDeleteURLs_NothingToDelete(t *testing.T) {
	store := newMemStore()
	u := newTestUploader(store)

	require.NoError(t, u.DeleteURLs(context.Background(), nil))
	assert.Empty(t, store.deleteCalls)
}

func TestDeleteURLs_StoreError(t *testing.T) {
	store := newMemStore()
	store.deleteErr = errors.New("boom")
	u := newTestUploader(store)

	err := u.DeleteURLs(context.Background(), []string{publicURL + "logo/a.png"})
	assert.Error(t, err)
}

func TestDeleteListing_IncludesOrphans(t *testing.T) {
	store := newMemStore()
	store.data["imoveis/L1/a.jpg"] = nil
	store.data["imoveis/L1/orphan.jpg"] = nil
	store.data["imoveis/L2/a.jpg"] = nil
	u := newTestUploader(store)

	err := u.DeleteListing(context.Background(), "L1", []string{publicURL + "imoveis/L1/a.jpg"})
	require.NoError(t, err)
	require.Len(t, store.deleteCalls, 1)
	assert.ElementsMatch(t, []string{"imoveis/L1/a.jpg", "imoveis/L1/orphan.jpg"}, store.deleteCalls[0])

	remaining, err := store.List(context.Background(), "imoveis/")
	require.NoError(t, err)
	assert.Equal(t, []string{"imoveis/L2/a.jpg"}, remaining)
}
