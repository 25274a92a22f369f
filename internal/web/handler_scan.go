package web

import (
	"encoding/json"
	"net/http"

	"github.com/volumate/volumate/internal/domain"
	"github.com/volumate/volumate/internal/resolver"
)

// scanResult is the per-tick response: whether the event passed the gate,
// and the resolution it triggered when it did.
type scanResult struct {
	Accepted   bool                 `json:"accepted"`
	Locked     bool                 `json:"locked"`
	Resolution *resolver.Resolution `json:"resolution,omitempty"`
}

// handleScanEvent feeds one scanner tick through the session gate. An
// accepted event latches the session and resolves immediately; everything
// else is ignored until the session is reset.
func (s *Server) handleScanEvent(w http.ResponseWriter, r *http.Request) {
	var event domain.ScanEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid scan event")
		return
	}
	if event.Barcode == "" {
		s.writeError(w, http.StatusBadRequest, "scan event requires a barcode")
		return
	}

	if !s.session.Offer(event) {
		s.writeData(w, http.StatusOK, scanResult{Accepted: false, Locked: s.session.Locked()})
		return
	}

	res := s.resolver.Resolve(r.Context(), event.Barcode)
	s.rememberResolution(res)
	s.writeData(w, http.StatusOK, scanResult{Accepted: true, Locked: true, Resolution: res})
}

// handleScanReset unlatches the session ("scan again").
func (s *Server) handleScanReset(w http.ResponseWriter, r *http.Request) {
	s.session.Reset()
	s.writeData(w, http.StatusOK, scanResult{Accepted: false, Locked: false})
}
