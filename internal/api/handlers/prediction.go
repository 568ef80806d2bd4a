package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lumohealth/lumo/internal/service"
)

// PredictionHandler exposes the stress model over HTTP: current estimate,
// multi-day forecast, feature insights and explicit retraining.
type PredictionHandler struct {
	wellness *service.WellnessService
}

func NewPredictionHandler(wellness *service.WellnessService) *PredictionHandler {
	return &PredictionHandler{wellness: wellness}
}

// Current handles GET /users/{userID}/stress/current.
func (h *PredictionHandler) Current(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	score, err := h.wellness.Current(r.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrNoHistory) {
			writeError(w, http.StatusNotFound, "no check-in history for user")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to predict stress")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user_id":      userID,
		"stress_level": score,
	})
}

// Forecast handles GET /users/{userID}/stress/forecast?days=N.
func (h *PredictionHandler) Forecast(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	days := queryInt(r.URL.Query().Get("days"), service.DefaultForecastDays)

	forecast, err := h.wellness.Forecast(r.Context(), userID, days)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to forecast stress")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user_id":  userID,
		"days":     len(forecast),
		"forecast": forecast,
	})
}

// Insights handles GET /users/{userID}/stress/insights.
func (h *PredictionHandler) Insights(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	insights, err := h.wellness.Insights(r.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrNoHistory) {
			writeError(w, http.StatusNotFound, "no check-in history for user")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to build insights")
		return
	}

	writeJSON(w, http.StatusOK, insights)
}

// Train handles POST /users/{userID}/stress/train. Thin-history outcomes
// are reported as unprocessable rather than server faults.
func (h *PredictionHandler) Train(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	err := h.wellness.Train(r.Context(), userID)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]string{"status": "trained"})
	case errors.Is(err, service.ErrInsufficientData):
		writeError(w, http.StatusUnprocessableEntity, "not enough check-ins to train a model")
	case errors.Is(err, service.ErrInsufficientVariance):
		writeError(w, http.StatusUnprocessableEntity, "check-in history has too little variation to train")
	default:
		writeError(w, http.StatusInternalServerError, "failed to train model")
	}
}

// Forget handles DELETE /users/{userID}/model.
func (h *PredictionHandler) Forget(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	if err := h.wellness.Forget(userID); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete model")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
