package upload

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00}

func dataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func TestAllowedImageMIME(t *testing.T) {
	tests := []struct {
		name         string
		data         []byte
		wantMIME     string
		wantDetected bool
	}{
		{"JPEG", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10}, "image/jpeg", true},
		{"PNG", pngHeader, "image/png", true},
		{"GIF", []byte("GIF89a"), "image/gif", true},
		{"WebP", append([]byte("RIFF\x00\x00\x00\x00WEBP"), make([]byte, 10)...), "image/webp", true},
		{"RIFF but not WebP", append([]byte("RIFF\x00\x00\x00\x00WAVE"), make([]byte, 10)...), "", false},
		{"plain text", []byte("hello world"), "", false},
		{"empty", []byte{}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mime, ok := allowedImageMIME(tt.data)
			assert.Equal(t, tt.wantDetected, ok)
			assert.Equal(t, tt.wantMIME, mime)
		})
	}
}

func TestDecode_DataURI(t *testing.T) {
	d, err := decode(File{Data: dataURI("image/png", pngHeader), Filename: "logo.png"})
	require.NoError(t, err)
	assert.Equal(t, "image/png", d.mimeType)
	assert.Equal(t, pngHeader, d.data)
	assert.Equal(t, "logo.png", d.filename)
}

func TestDecode_DeclaredTypeWins(t *testing.T) {
	// Browsers declare the type from the file, not the bytes.
	d, err := decode(File{Data: dataURI("image/svg+xml", []byte("<svg/>"))})
	require.NoError(t, err)
	assert.Equal(t, "image/svg+xml", d.mimeType)
}

func TestDecode_BareBase64IsSniffed(t *testing.T) {
	d, err := decode(File{Data: base64.StdEncoding.EncodeToString(pngHeader)})
	require.NoError(t, err)
	assert.Equal(t, "image/png", d.mimeType)
}

func TestDecode_Rejects(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"empty", "", ErrInvalidData},
		{"no comma", "data:image/png;base64", ErrInvalidData},
		{"not base64 uri", "data:image/png," + "abc", ErrInvalidData},
		{"bad base64", "data:image/png;base64,!!!", ErrInvalidData},
		{"pdf", dataURI("application/pdf", []byte("%PDF-1.4")), ErrNotImage},
		{"bare text", base64.StdEncoding.EncodeToString([]byte("hello")), ErrNotImage},
		{"too large", dataURI("image/jpeg", make([]byte, MaxFileSize+1)), ErrTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decode(File{Data: tt.data})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDecode_ExactlyMaxSize(t *testing.T) {
	_, err := decode(File{Data: dataURI("image/jpeg", make([]byte, MaxFileSize))})
	assert.NoError(t, err)
}

func TestObjectName(t *testing.T) {
	name := objectName(2, "Foto Sala.PNG", "image/png")
	assert.True(t, strings.HasSuffix(name, "_2.png"), name)

	name = objectName(0, "", "image/webp")
	assert.True(t, strings.HasSuffix(name, "_0.webp"), name)

	assert.NotEqual(t, objectName(0, "a.jpg", "image/jpeg"), objectName(0, "a.jpg", "image/jpeg"))
}
