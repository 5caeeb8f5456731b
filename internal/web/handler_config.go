package web

import (
	"fmt"
	"net/http"

	"github.com/analiticosprojetos-netizen/lobianco-investimentos/internal/domain"
)

func (s *Server) handleGetSiteConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.configs.Read(r.Context()))
}

func (s *Server) handleSaveSiteConfig(w http.ResponseWriter, r *http.Request) {
	var patch domain.SiteConfigPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		s.fail(w, r, "save site config", err)
		return
	}

	saved, err := s.configs.Write(r.Context(), patch)
	if err != nil {
		s.fail(w, r, "save site config", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": saved})
}

func (s *Server) handleCleanupConfig(w http.ResponseWriter, r *http.Request) {
	res, err := s.configs.Cleanup(r.Context())
	if err != nil {
		s.fail(w, r, "cleanup site config", err)
		return
	}
	if res.Removed == 0 {
		writeJSON(w, http.StatusOK, map[string]any{"message": "Nenhuma configuração duplicada encontrada"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("%d configuração(ões) duplicada(s) removida(s)", res.Removed),
		"kept":    res.Kept,
	})
}

func (s *Server) handleDebugConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := s.configs.All(r.Context())
	if err != nil {
		s.fail(w, r, "list site configs", err)
		return
	}
	if configs == nil {
		configs = []*domain.SiteConfig{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"total": len(configs), "configs": configs})
}
