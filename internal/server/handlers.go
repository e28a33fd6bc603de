package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/claude/stride/internal/engine"
	"github.com/claude/stride/internal/models"
	"github.com/claude/stride/internal/periodization"
	"github.com/claude/stride/internal/storage"
	"github.com/claude/stride/internal/vdot"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{"status": "ok", "database": "not configured"}
	if s.db != nil {
		resp["database"] = "ok"
		if err := s.db.Ping(r.Context()); err != nil {
			resp["database"] = "unreachable"
			writeJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// handlePaces computes the fitness index and pace-zone table from a
// reference race given as ?distance_m=&time_s=.
func (s *Server) handlePaces(w http.ResponseWriter, r *http.Request) {
	distance, err := parseFloatParam(r, "distance_m")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	seconds, err := parseFloatParam(r, "time_s")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	index := vdot.ComputeIndex(distance, seconds)
	writeJSON(w, http.StatusOK, map[string]any{
		"fitness_index": index,
		"fitness_label": vdot.Label(index),
		"zones":         engine.ZoneTable(vdot.Zones(index)),
	})
}

type phasePreviewRequest struct {
	TotalWeeks     int                     `json:"total_weeks"`
	Distance       models.DistanceCategory `json:"distance"`
	EstPeakVolume  float64                 `json:"est_peak_volume_km"`
	FirstCycle     bool                    `json:"first_cycle"`
	PlanTotalWeeks int                     `json:"plan_total_weeks"`
}

// handlePhasePreview returns the phase allocation for a hypothetical cycle
// without building a plan.
func (s *Server) handlePhasePreview(w http.ResponseWriter, r *http.Request) {
	var req phasePreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.PlanTotalWeeks == 0 {
		req.PlanTotalWeeks = req.TotalWeeks
	}
	alloc := periodization.Allocate(req.TotalWeeks, req.Distance, req.EstPeakVolume, req.FirstCycle, req.PlanTotalWeeks)
	writeJSON(w, http.StatusOK, alloc)
}

func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	if s.lib == nil {
		writeJSON(w, http.StatusOK, map[string]any{"templates": []any{}})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"templates": s.lib.All()})
}

func (s *Server) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	var req engine.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Start.IsZero() {
		req.Start = time.Now()
	}

	doc := engine.Generate(req, s.lib)

	resp := map[string]any{"plan": doc}
	if s.db != nil {
		id, err := s.db.InsertPlan(r.Context(), req, doc)
		if err != nil {
			s.log.Error("plan insert failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		resp["id"] = id
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "plan store not configured"})
		return
	}
	plans, err := s.db.ListPlans(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if plans == nil {
		plans = []storage.PlanSummary{}
	}
	writeJSON(w, http.StatusOK, plans)
}

func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "plan store not configured"})
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid plan ID"})
		return
	}
	p, err := s.db.GetPlan(r.Context(), id)
	if errors.Is(err, storage.ErrPlanNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "plan not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeletePlan(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "plan store not configured"})
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid plan ID"})
		return
	}
	err = s.db.DeletePlan(r.Context(), id)
	if errors.Is(err, storage.ErrPlanNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "plan not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseFloatParam(r *http.Request, name string) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, errors.New(name + " parameter required")
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 {
		return 0, errors.New(name + " must be a positive number")
	}
	return v, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
