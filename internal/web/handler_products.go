package web

import (
	"errors"
	"net/http"

	"github.com/volumate/volumate/internal/domain"
	"github.com/volumate/volumate/internal/resolver"
)

// handleResolve is the manual-entry resolution path: the barcode arrives
// as typed text, so it is validated before hitting the resolver.
func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	barcode := r.PathValue("barcode")
	if err := resolver.ValidateBarcode(barcode); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res := s.resolver.Resolve(r.Context(), barcode)
	s.rememberResolution(res)
	s.writeData(w, http.StatusOK, res)
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	barcode := r.PathValue("barcode")

	res := s.lookupResolution(barcode)
	if res == nil {
		s.writeError(w, http.StatusNotFound, "no resolution for this barcode; resolve it first")
		return
	}

	if err := s.resolver.Save(r.Context(), res); err != nil {
		switch {
		case errors.Is(err, resolver.ErrNoScore):
			s.writeError(w, http.StatusUnprocessableEntity, "product has no score and cannot be saved")
		default:
			s.writeError(w, http.StatusInternalServerError, "failed to save product")
		}
		return
	}

	s.writeData(w, http.StatusOK, map[string]any{"state": res.State})
}

func (s *Server) handleListSaved(w http.ResponseWriter, r *http.Request) {
	products, err := s.resolver.ListSaved(r.Context())
	if err != nil {
		s.logger.Error("failed to list saved products", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to list saved products")
		return
	}
	if products == nil {
		products = []*domain.SavedProduct{}
	}
	s.writeData(w, http.StatusOK, products)
}

func (s *Server) handleDeleteSaved(w http.ResponseWriter, r *http.Request) {
	barcode := r.PathValue("barcode")

	if err := s.resolver.DeleteSaved(r.Context(), barcode); err != nil {
		s.logger.Error("failed to delete saved product", "barcode", barcode, "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}
	s.writeData(w, http.StatusOK, map[string]any{"barcode": barcode})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeData(w, http.StatusOK, map[string]any{
		"remoteHealthy": s.remote.Health(r.Context()),
	})
}
