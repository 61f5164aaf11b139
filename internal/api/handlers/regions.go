package handlers

import (
	"log"
	"net/http"

	"delivery-route-service/internal/api/dto"
	"delivery-route-service/internal/ports"
)

// RegionHandler exposes read-only access to stored region definitions.
type RegionHandler struct {
	Repo ports.RegionRepository
}

func (h *RegionHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	stored, err := h.Repo.ListRegions()
	if err != nil {
		log.Printf("list regions failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListRegionsResponse{Regions: make([]dto.RegionSummary, 0, len(stored))}
	for _, s := range stored {
		res.Regions = append(res.Regions, dto.RegionSummary{
			RegionID:      s.RegionID,
			Restaurants:   len(s.Region.Restaurants()),
			Neighborhoods: len(s.Region.Neighborhoods()),
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
