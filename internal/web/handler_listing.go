package web

import (
	"fmt"
	"net/http"

	"github.com/analiticosprojetos-netizen/lobianco-investimentos/internal/domain"
	"github.com/analiticosprojetos-netizen/lobianco-investimentos/internal/service"
	"github.com/analiticosprojetos-netizen/lobianco-investimentos/internal/upload"
)

// listingRequest is the body of POST and PUT /api/imoveis. New photos arrive
// in fotosParaUpload on create and in novasFotos on update; fotosExistentes
// lists the stored photos to keep, in display order.
type listingRequest struct {
	Type        domain.ListingType `json:"type"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Price       string             `json:"price"`
	Location    string             `json:"location"`
	Bedrooms    domain.Count       `json:"bedrooms"`
	Bathrooms   domain.Count       `json:"bathrooms"`
	Garage      domain.Count       `json:"garage"`
	Area        string             `json:"area"`
	Pool        bool               `json:"pool"`

	FotosParaUpload []upload.File `json:"fotosParaUpload"`
	FotosExistentes *[]string     `json:"fotosExistentes"`
	NovasFotos      []upload.File `json:"novasFotos"`
}

func (req listingRequest) input() service.ListingInput {
	return service.ListingInput{
		Type:        req.Type,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Location:    req.Location,
		Bedrooms:    req.Bedrooms,
		Bathrooms:   req.Bathrooms,
		Garage:      req.Garage,
		Area:        req.Area,
		Pool:        req.Pool,
	}
}

type saveResponse struct {
	Success bool               `json:"success"`
	Data    *domain.Listing    `json:"data"`
	Message string             `json:"message"`
	Upload  upload.BatchResult `json:"upload"`
}

func saveMessage(action string, res upload.BatchResult) string {
	if res.Failed() == 0 {
		return fmt.Sprintf("Imóvel %s com sucesso!", action)
	}
	return fmt.Sprintf("Imóvel %s com sucesso! %d de %d foto(s) enviada(s).", action, res.Succeeded, res.Total)
}

func (s *Server) handleListListings(w http.ResponseWriter, r *http.Request) {
	listings, err := s.listings.List(r.Context())
	if err != nil {
		s.fail(w, r, "list listings", err)
		return
	}
	writeJSON(w, http.StatusOK, listings)
}

func (s *Server) handleGetListing(w http.ResponseWriter, r *http.Request) {
	l, err := s.listings.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, "get listing", err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleCreateListing(w http.ResponseWriter, r *http.Request) {
	var req listingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, "create listing", err)
		return
	}

	res, err := s.listings.Create(r.Context(), req.input(), req.FotosParaUpload)
	if err != nil {
		s.fail(w, r, "create listing", err)
		return
	}
	writeJSON(w, http.StatusCreated, saveResponse{
		Success: true,
		Data:    res.Listing,
		Message: saveMessage("cadastrado", res.Upload),
		Upload:  res.Upload,
	})
}

func (s *Server) handleUpdateListing(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req listingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, "update listing", err)
		return
	}

	// Without fotosExistentes the stored photos are left as they are.
	var keep []string
	if req.FotosExistentes != nil {
		keep = *req.FotosExistentes
	} else {
		existing, err := s.listings.Get(r.Context(), id)
		if err != nil {
			s.fail(w, r, "update listing", err)
			return
		}
		keep = existing.ImageURLs
	}

	res, err := s.listings.Update(r.Context(), id, req.input(), keep, req.NovasFotos)
	if err != nil {
		s.fail(w, r, "update listing", err)
		return
	}
	writeJSON(w, http.StatusOK, saveResponse{
		Success: true,
		Data:    res.Listing,
		Message: saveMessage("atualizado", res.Upload),
		Upload:  res.Upload,
	})
}

func (s *Server) handleDeleteListing(w http.ResponseWriter, r *http.Request) {
	if err := s.listings.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.fail(w, r, "delete listing", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Imóvel excluído com sucesso!"})
}
