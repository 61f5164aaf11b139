package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"delivery-route-service/internal/api/dto"
	"delivery-route-service/internal/config"
	"delivery-route-service/internal/dispatch"
	"delivery-route-service/internal/generator"
	"delivery-route-service/internal/ports"
	"delivery-route-service/internal/simulation"
)

// RunHandler starts simulation runs against stored regions and serves
// back their reports.
type RunHandler struct {
	Regions ports.RegionRepository
	Reports ports.ReportRepository
	Default config.Simulation
}

// Start runs a simulation synchronously to completion and persists its
// report. Synchronous because a full run over the default 480-tick Friday
// scenario completes in well under the timeout budget cmd/server's HTTP
// server is configured with.
func (h *RunHandler) Start(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.StartRunRequest
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	if req.RegionID == "" {
		writeError(w, r, http.StatusBadRequest, "region_id is required")
		return
	}

	region, err := h.Regions.GetRegion(req.RegionID)
	if err != nil {
		writeError(w, r, http.StatusNotFound, "region not found")
		return
	}

	opts := h.optionsFrom(req)

	runner, err := simulation.New(r.Context(), region, opts)
	if err != nil {
		log.Printf("build simulation run failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	report, err := runner.Run(r.Context())
	if err != nil {
		log.Printf("run simulation failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	runID := newRunID()
	if err := h.Reports.SaveReport(runID, report); err != nil {
		log.Printf("save report failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, toRunReportResponse(runID, report))
}

func (h *RunHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	runID := r.PathValue("id")
	report, err := h.Reports.GetReport(runID)
	if err != nil {
		writeError(w, r, http.StatusNotFound, "run not found")
		return
	}

	writeJSON(w, r, http.StatusOK, toRunReportResponse(runID, report))
}

func (h *RunHandler) optionsFrom(req dto.StartRunRequest) simulation.Options {
	cfg := h.Default

	seed := cfg.Seed
	if req.Seed != 0 {
		seed = req.Seed
	}
	lastTick := cfg.LastTick
	if req.LastTick != 0 {
		lastTick = req.LastTick
	}
	orderCount := cfg.OrderCount
	if req.OrderCount != 0 {
		orderCount = req.OrderCount
	}
	capacity := cfg.VehicleCapacity
	if req.VehicleCapacity != 0 {
		capacity = req.VehicleCapacity
	}
	vehiclesPerRestaurant := 1
	if req.VehiclesPerRestaurant != 0 {
		vehiclesPerRestaurant = req.VehiclesPerRestaurant
	}

	return simulation.Options{
		RegionID:              req.RegionID,
		VehicleCapacity:       capacity,
		VehiclesPerRestaurant: vehiclesPerRestaurant,
		SendOutPolicy: dispatch.SendOutPolicy{
			SlackTicks: cfg.SendOutSlackTicks,
			WeightFrac: cfg.SendOutWeightFrac,
		},
		RebalanceEnabled: cfg.RebalanceEnabled,
		Generator: generator.FridayOrderGeneratorOptions{
			OrderCount:        orderCount,
			DeliveryInterval:  cfg.OrderDeliveryInterval,
			MaxWeight:         cfg.OrderMaxWeight,
			StandardDeviation: cfg.OrderStdDev,
		},
		Seed:                  seed,
		LastTick:               lastTick,
		AmountDeliveredFactor: cfg.AmountDeliveredFactor,
		InTimeMaxTicksOff:     cfg.InTimeMaxTicksOff,
		InTimeIgnoredTicksOff: cfg.InTimeIgnoredTicksOff,
		TravelDistanceFactor:  cfg.TravelDistanceFactor,
	}
}

func toRunReportResponse(runID string, report simulation.Report) dto.RunReportResponse {
	scores := make([]dto.RaterScoreResponse, len(report.Scores))
	for i, s := range report.Scores {
		scores[i] = dto.RaterScoreResponse{Criteria: s.Criteria, Score: s.Score}
	}
	return dto.RunReportResponse{
		RunID:     runID,
		RegionID:  report.RegionID,
		Seed:      report.Seed,
		LastTick:  report.LastTick,
		Delivered: report.Delivered,
		Pending:   report.Pending,
		Scores:    scores,
	}
}

func newRunID() string {
	return fmt.Sprintf("run-%d", time.Now().UnixNano())
}
