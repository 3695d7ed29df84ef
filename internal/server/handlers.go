package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/quickleads/lead-broker/internal/model"
	"github.com/quickleads/lead-broker/internal/pipeline"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// estimateResponse is the customer-facing estimate payload. The
// marketing fields are presentation only; clients rely on the numeric
// fields and quality_tier.
type estimateResponse struct {
	EstimateID    string  `json:"estimate_id"`
	LeadID        string  `json:"lead_id"`
	DistanceMiles float64 `json:"distance_miles"`
	CostLow       float64 `json:"estimated_cost_low"`
	CostHigh      float64 `json:"estimated_cost_high"`
	TypicalCost   float64 `json:"typical_cost"`
	QualityTier   string  `json:"quality_tier"`

	Breakdown struct {
		Labor       float64 `json:"labor"`
		TruckTravel float64 `json:"truck_travel"`
		Materials   float64 `json:"materials"`
	} `json:"breakdown"`

	Headline     string   `json:"headline"`
	Subheadline  string   `json:"subheadline"`
	NextSteps    string   `json:"next_steps"`
	SocialProof  string   `json:"social_proof"`
	TrustSignals []string `json:"trust_signals"`
	Disclaimer   string   `json:"disclaimer"`
}

func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	var sub model.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.processor.Process(r.Context(), &sub)
	if err != nil {
		var verr *pipeline.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusBadRequest, "Missing required field: "+verr.Field)
			return
		}
		zap.L().Error("server: estimate failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	lead := result.Lead
	resp := estimateResponse{
		EstimateID:    result.EstimateID,
		LeadID:        lead.LeadID,
		DistanceMiles: lead.DistanceMiles,
		CostLow:       lead.Estimate.Low,
		CostHigh:      lead.Estimate.High,
		TypicalCost:   lead.Estimate.Typical,
		QualityTier:   string(lead.QualityTier),
	}
	resp.Breakdown.Labor = lead.Estimate.Labor
	resp.Breakdown.TruckTravel = lead.Estimate.TruckTravel
	resp.Breakdown.Materials = lead.Estimate.Materials

	m := marketingCopy(lead, len(result.Buyers))
	resp.Headline = m.Headline
	resp.Subheadline = m.Subheadline
	resp.NextSteps = m.NextSteps
	resp.SocialProof = m.SocialProof
	resp.TrustSignals = m.TrustSignals
	resp.Disclaimer = m.Disclaimer

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBuyers(w http.ResponseWriter, r *http.Request) {
	buyers, err := s.store.ListActiveBuyers(r.Context())
	if err != nil {
		zap.L().Error("server: list buyers", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if buyers == nil {
		buyers = []model.Buyer{}
	}
	writeJSON(w, http.StatusOK, buyers)
}

func (s *Server) handleLeads(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	perPage := queryInt(r, "per_page", 20)

	result, err := s.store.ListLeads(r.Context(), page, perPage)
	if err != nil {
		zap.L().Error("server: list leads", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	leads := result.Leads
	if leads == nil {
		leads = []model.Lead{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"leads":        leads,
		"total":        result.Total,
		"pages":        result.Pages,
		"current_page": result.Page,
	})
}

func (s *Server) handleTrackAnalytics(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID        string `json:"session_id"`
		StepReached      int    `json:"step_reached"`
		Completed        bool   `json:"completed"`
		AbandonedAtStep  *int   `json:"abandoned_at_step"`
		TimeSpentSeconds *int   `json:"time_spent_seconds"`
		TestVariant      string `json:"test_variant"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec := &model.FormAnalytics{
		SessionID:        req.SessionID,
		StepReached:      req.StepReached,
		Completed:        req.Completed,
		AbandonedAtStep:  req.AbandonedAtStep,
		TimeSpentSeconds: req.TimeSpentSeconds,
		TestVariant:      req.TestVariant,
		UserAgent:        r.UserAgent(),
		IPAddress:        r.RemoteAddr,
		Referrer:         r.Referer(),
	}
	if err := s.store.InsertAnalytics(r.Context(), rec); err != nil {
		zap.L().Error("server: track analytics", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func (s *Server) handleInitBuyers(w http.ResponseWriter, r *http.Request) {
	created := 0
	for _, b := range model.SampleBuyers() {
		existing, err := s.store.GetBuyer(r.Context(), b.BuyerID)
		if err != nil {
			zap.L().Error("server: init buyers", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if existing != nil {
			continue
		}
		buyer := b
		if err := s.store.SaveBuyer(r.Context(), &buyer); err != nil {
			zap.L().Error("server: init buyers", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		created++
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"created": created,
	})
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return fallback
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("server: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
