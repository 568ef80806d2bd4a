package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lumohealth/lumo/internal/domain"
	"github.com/lumohealth/lumo/internal/store"
)

const dateLayout = "2006-01-02"

type CheckinHandler struct {
	records domain.RecordStore
}

func NewCheckinHandler(records domain.RecordStore) *CheckinHandler {
	return &CheckinHandler{records: records}
}

type checkinRequest struct {
	UserID            string   `json:"user_id"`
	Date              string   `json:"date"`
	MoodScore         *float64 `json:"mood_score"`
	StressLevel       *float64 `json:"stress_level"`
	EnergyLevel       *float64 `json:"energy_level"`
	SleepHours        *float64 `json:"sleep_hours"`
	WorkHours         *float64 `json:"work_hours"`
	ExerciseMinutes   *float64 `json:"exercise_minutes"`
	MeditationMinutes *float64 `json:"meditation_minutes"`
	CaffeineIntake    *float64 `json:"caffeine_intake"`
	AlcoholIntake     *float64 `json:"alcohol_intake"`
	Notes             string   `json:"notes"`
	Symptoms          []string `json:"symptoms"`
}

// Create upserts the day's check-in: one record per (user, date), updates
// supersede rather than append.
func (h *CheckinHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req checkinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	date := time.Now().UTC().Truncate(24 * time.Hour)
	if req.Date != "" {
		parsed, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		date = parsed
	}

	if !validScores(req) {
		writeError(w, http.StatusBadRequest, "metric out of range")
		return
	}

	record := &domain.DailyRecord{
		UserID:            req.UserID,
		Date:              date,
		MoodScore:         req.MoodScore,
		StressLevel:       req.StressLevel,
		EnergyLevel:       req.EnergyLevel,
		SleepHours:        req.SleepHours,
		WorkHours:         req.WorkHours,
		ExerciseMinutes:   req.ExerciseMinutes,
		MeditationMinutes: req.MeditationMinutes,
		CaffeineIntake:    req.CaffeineIntake,
		AlcoholIntake:     req.AlcoholIntake,
		Notes:             req.Notes,
		Symptoms:          req.Symptoms,
	}

	if err := h.records.Upsert(r.Context(), record); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save check-in")
		return
	}

	writeJSON(w, http.StatusCreated, record)
}

// GetByDate returns one user's check-in for a calendar date.
func (h *CheckinHandler) GetByDate(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	date, err := time.Parse(dateLayout, chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	record, err := h.records.GetByDate(r.Context(), userID, date)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no check-in for that date")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load check-in")
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// History lists the recent check-in window, oldest first.
func (h *CheckinHandler) History(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	days := queryInt(r.URL.Query().Get("days"), 30)

	records, err := h.records.ListRecent(r.Context(), userID, days)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load history")
		return
	}
	if records == nil {
		records = []domain.DailyRecord{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"records": records,
		"count":   len(records),
	})
}

// DeleteAll removes every check-in for the user.
func (h *CheckinHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	deleted, err := h.records.DeleteAllForUser(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete records")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": deleted})
}

// ScrubNotes blanks the free-text notes while keeping numeric history.
func (h *CheckinHandler) ScrubNotes(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	scrubbed, err := h.records.ScrubNotes(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to scrub notes")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"scrubbed": scrubbed})
}

func validScores(req checkinRequest) bool {
	inRange := func(v *float64, lo, hi float64) bool {
		return v == nil || (*v >= lo && *v <= hi)
	}
	return inRange(req.MoodScore, 1, 10) &&
		inRange(req.StressLevel, 1, 10) &&
		inRange(req.EnergyLevel, 1, 10) &&
		inRange(req.SleepHours, 0, 24) &&
		inRange(req.WorkHours, 0, 24) &&
		nonNegative(req.ExerciseMinutes) &&
		nonNegative(req.MeditationMinutes) &&
		nonNegative(req.CaffeineIntake) &&
		nonNegative(req.AlcoholIntake)
}

func nonNegative(v *float64) bool {
	return v == nil || *v >= 0
}
