package local

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/analiticosprojetos-netizen/lobianco-investimentos/internal/blobstore"
)

func newTestStore(t *testing.T) *LocalBlobStore {
	t.Helper()
	store, err := NewLocalBlobStore(t.TempDir(), "http://localhost:3000/")
	require.NoError(t, err)
	return store
}

func TestLocalBlobStoreUploadAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	imageData := []byte("fake jpeg data")

	url, err := store.Upload(ctx, "imoveis/abc/1_0.jpg", "image/jpeg", bytes.NewReader(imageData))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000/storage/imoveis/abc/1_0.jpg", url)

	reader, mimeType, err := store.Get(ctx, "imoveis/abc/1_0.jpg")
	require.NoError(t, err)
	defer reader.Close()

	assert.Equal(t, "image/jpeg", mimeType)
	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, imageData, data)
}

func TestLocalBlobStoreUpload_Overwrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Upload(ctx, "logo/a.png", "image/png", bytes.NewReader([]byte("one")))
	require.NoError(t, err)
	_, err = store.Upload(ctx, "logo/a.png", "image/png", bytes.NewReader([]byte("two")))
	require.NoError(t, err)

	reader, _, err := store.Get(ctx, "logo/a.png")
	require.NoError(t, err)
	defer reader.Close()
	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))
}

func TestLocalBlobStoreUploadBatch(t *testing.T) {
	store := newTestStore(t)

	results, err := store.UploadBatch(context.Background(), []blobstore.Object{
		{Key: "banners/1.jpg", ContentType: "image/jpeg", Data: []byte("a")},
		{Key: "../escape.jpg", ContentType: "image/jpeg", Data: []byte("b")},
		{Key: "banners/2.jpg", ContentType: "image/jpeg", Data: []byte("c")},
	})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err)
	assert.NoError(t, results[2].Err)
	assert.Equal(t, "http://localhost:3000/storage/banners/2.jpg", results[2].URL)
}

func TestLocalBlobStoreDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, key := range []string{"imoveis/x/1.jpg", "imoveis/x/2.jpg", "imoveis/y/1.jpg"} {
		_, err := store.Upload(ctx, key, "image/jpeg", bytes.NewReader([]byte("data")))
		require.NoError(t, err)
	}

	require.NoError(t, store.Delete(ctx, "imoveis/x/1.jpg", "imoveis/x/2.jpg", "imoveis/x/missing.jpg"))

	keys, err := store.List(ctx, "imoveis/")
	require.NoError(t, err)
	assert.Equal(t, []string{"imoveis/y/1.jpg"}, keys)

	_, _, err = store.Get(ctx, "imoveis/x/1.jpg")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestLocalBlobStoreList_Prefix(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, key := range []string{"banners/b.jpg", "banners/a.jpg", "logo/l.png"} {
		_, err := store.Upload(ctx, key, "image/jpeg", bytes.NewReader([]byte("data")))
		require.NoError(t, err)
	}

	keys, err := store.List(ctx, "banners/")
	require.NoError(t, err)
	assert.Equal(t, []string{"banners/a.jpg", "banners/b.jpg"}, keys)

	all, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestLocalBlobStoreNotFound(t *testing.T) {
	store := newTestStore(t)

	_, _, err := store.Get(context.Background(), "nonexistent.jpg")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestLocalBlobStorePathTraversal(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalBlobStore(filepath.Join(dir, "blobs"), "http://localhost:3000")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "secret.txt"), []byte("x"), 0600))
	ctx := context.Background()

	_, _, err = store.Get(ctx, "../secret.txt")
	assert.Error(t, err)

	_, err = store.Upload(ctx, "../../etc/passwd", "image/jpeg", bytes.NewReader(nil))
	assert.Error(t, err)

	assert.Error(t, store.Delete(ctx, "../secret.txt"))
	_, err = os.Stat(filepath.Join(dir, "secret.txt"))
	assert.NoError(t, err)
}

func TestLocalBlobStoreKeyFromURL(t *testing.T) {
	store := newTestStore(t)

	tests := []struct {
		url  string
		key  string
		isOK bool
	}{
		{"http://localhost:3000/storage/banners/a.jpg", "banners/a.jpg", true},
		{"/storage/logo/l.png", "logo/l.png", true},
		{"https://images.unsplash.com/photo.jpg", "", false},
		{"http://localhost:3000/storage/../x.jpg", "", false},
	}
	for _, tt := range tests {
		key, ok := store.KeyFromURL(tt.url)
		assert.Equal(t, tt.isOK, ok, tt.url)
		assert.Equal(t, tt.key, key, tt.url)
	}
}
