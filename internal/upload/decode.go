package upload

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// MaxFileSize is the largest decoded image accepted.
const MaxFileSize = 10 << 20

var (
	ErrInvalidData = errors.New("invalid file data")
	ErrTooLarge    = errors.New("file exceeds the 10 MB limit")
	ErrNotImage    = errors.New("file is not an image")
)

// File is a base64 encoded file as posted by the admin panel. Data is either
// a data URI ("data:image/png;base64,...") or bare base64.
type File struct {
	Data     string `json:"file"`
	Filename string `json:"filename"`
}

type decodedFile struct {
	filename string
	mimeType string
	data     []byte
}

// decode parses f and checks it is an image of at most MaxFileSize bytes.
// The declared data URI type wins; bare base64 is sniffed.
func decode(f File) (decodedFile, error) {
	payload := strings.TrimSpace(f.Data)
	if payload == "" {
		return decodedFile{}, fmt.Errorf("%w: empty", ErrInvalidData)
	}

	var declared string
	if rest, ok := strings.CutPrefix(payload, "data:"); ok {
		meta, encoded, found := strings.Cut(rest, ",")
		if !found {
			return decodedFile{}, fmt.Errorf("%w: malformed data uri", ErrInvalidData)
		}
		params := strings.Split(meta, ";")
		if params[len(params)-1] != "base64" {
			return decodedFile{}, fmt.Errorf("%w: data uri is not base64", ErrInvalidData)
		}
		declared = strings.ToLower(strings.TrimSpace(params[0]))
		payload = encoded
	}

	// Reject oversized payloads before allocating the decoded buffer.
	if base64.StdEncoding.DecodedLen(len(payload)) > MaxFileSize+3 {
		return decodedFile{}, ErrTooLarge
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return decodedFile{}, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	if len(data) > MaxFileSize {
		return decodedFile{}, ErrTooLarge
	}

	mimeType := declared
	if mimeType == "" {
		detected, ok := allowedImageMIME(data)
		if !ok {
			return decodedFile{}, ErrNotImage
		}
		mimeType = detected
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return decodedFile{}, fmt.Errorf("%w: %s", ErrNotImage, mimeType)
	}

	return decodedFile{filename: f.Filename, mimeType: mimeType, data: data}, nil
}

// allowedImageTypes is the set of MIME types recognised when no type is
// declared. net/http.DetectContentType handles JPEG, PNG, and GIF via
// magic-byte sniffing; WebP is detected separately.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// isWebP reports whether data is a WebP image (RIFF container with "WEBP" at
// offset 8).
func isWebP(data []byte) bool {
	return len(data) >= 12 &&
		string(data[0:4]) == "RIFF" &&
		string(data[8:12]) == "WEBP"
}

func allowedImageMIME(data []byte) (string, bool) {
	if isWebP(data) {
		return "image/webp", true
	}
	mime := http.DetectContentType(data)
	if allowedImageTypes[mime] {
		return mime, true
	}
	return "", false
}
