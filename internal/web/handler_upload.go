package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/analiticosprojetos-netizen/lobianco-investimentos/internal/blobstore"
	"github.com/analiticosprojetos-netizen/lobianco-investimentos/internal/upload"
)

type uploadRequest struct {
	upload.File
	Type string `json:"type"`
}

type bannersRequest struct {
	Files []upload.File `json:"files"`
}

// uploadNamespace maps the "type" field of an upload to its namespace.
// Anything other than a logo is stored as a banner.
func uploadNamespace(kind string) upload.Namespace {
	if strings.EqualFold(strings.TrimSpace(kind), "logo") {
		return upload.NamespaceLogo
	}
	return upload.NamespaceBanners
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	var req uploadRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, "upload", err)
		return
	}
	if strings.TrimSpace(req.Data) == "" || strings.TrimSpace(req.Filename) == "" {
		writeError(w, http.StatusBadRequest, "file and filename are required")
		return
	}

	url, err := s.uploader.UploadOne(r.Context(), uploadNamespace(req.Type), req.File)
	if err != nil {
		s.fail(w, r, "upload", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

func (s *Server) handleUploadBanners(w http.ResponseWriter, r *http.Request) {
	var req bannersRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, "upload banners", err)
		return
	}
	if len(req.Files) == 0 {
		writeError(w, http.StatusBadRequest, "no files provided")
		return
	}

	res := s.uploader.UploadBatch(r.Context(), upload.NamespaceBanners, req.Files)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  res.Succeeded > 0,
		"urls":     res.URLs,
		"message":  fmt.Sprintf("%d de %d banner(s) enviado(s) com sucesso", res.Succeeded, res.Total),
		"warnings": res.Warnings,
	})
}

// handleGetBlob serves stored images for the local backend, whose public
// URLs point back at this server.
func (s *Server) handleGetBlob(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if !blobstore.ValidKey(key) {
		http.NotFound(w, r)
		return
	}

	reader, mimeType, err := s.blobs.Get(r.Context(), key)
	if errors.Is(err, blobstore.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.fail(w, r, "get blob", err)
		return
	}
	defer closeWithLog(reader, "blob reader", s.logger)

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if _, err := io.Copy(w, reader); err != nil {
		s.logger.Error("write blob failed", "key", key, "error", err)
	}
}
