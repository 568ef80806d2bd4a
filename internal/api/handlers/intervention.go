package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/lumohealth/lumo/internal/catalog"
	"github.com/lumohealth/lumo/internal/domain"
	"github.com/lumohealth/lumo/internal/service"
)

const defaultLogListLimit = 50

// InterventionHandler serves the intervention catalog, the personalized
// recommendation list and the per-user activity log.
type InterventionHandler struct {
	catalog  *catalog.Catalog
	selector *service.Selector
	wellness *service.WellnessService
	logs     domain.InterventionLogStore
	logger   *zap.Logger
}

func NewInterventionHandler(
	cat *catalog.Catalog,
	selector *service.Selector,
	wellness *service.WellnessService,
	logs domain.InterventionLogStore,
	logger *zap.Logger,
) *InterventionHandler {
	return &InterventionHandler{
		catalog:  cat,
		selector: selector,
		wellness: wellness,
		logs:     logs,
		logger:   logger,
	}
}

// Recommendations handles GET /users/{userID}/interventions/recommendations.
// If the snapshot pipeline fails the catalog's leading templates are served
// unscored instead of an error page.
func (h *InterventionHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	snap, err := h.wellness.Snapshot(r.Context(), userID)
	if err != nil {
		if !errors.Is(err, service.ErrNoHistory) {
			h.logger.Warn("snapshot failed, serving fallback recommendations",
				zap.String("user", userID), zap.Error(err))
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"user_id":         userID,
			"personalized":    false,
			"recommendations": h.selector.Fallback(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user_id":         userID,
		"personalized":    true,
		"recommendations": h.selector.Select(snap),
	})
}

// Immediate handles GET /users/{userID}/interventions/immediate. The tier
// depth follows the user's current stress; unknown users get the moderate
// tier.
func (h *InterventionHandler) Immediate(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	stress := service.NeutralScore
	if snap, err := h.wellness.Snapshot(r.Context(), userID); err == nil {
		stress = snap.CurrentStress
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user_id":       userID,
		"stress_level":  stress,
		"interventions": h.selector.SelectImmediate(stress),
	})
}

// Catalog handles GET /interventions?category=.
func (h *InterventionHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	if raw := r.URL.Query().Get("category"); raw != "" {
		cat := domain.InterventionCategory(raw)
		if !domain.ValidCategory(cat) {
			writeError(w, http.StatusBadRequest, "unknown category")
			return
		}
		writeJSON(w, http.StatusOK, h.catalog.ByCategory(cat))
		return
	}
	writeJSON(w, http.StatusOK, h.catalog.Templates())
}

type logRequest struct {
	Title  string `json:"title"`
	Status string `json:"status"`
}

// LogActivity handles POST /users/{userID}/interventions/log.
func (h *InterventionHandler) LogActivity(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req logRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if _, ok := h.catalog.ByTitle(req.Title); !ok {
		writeError(w, http.StatusBadRequest, "unknown intervention title")
		return
	}
	if req.Status != "completed" && req.Status != "planned" {
		writeError(w, http.StatusBadRequest, "status must be completed or planned")
		return
	}

	entry := domain.InterventionLog{
		UserID: userID,
		Title:  req.Title,
		Status: req.Status,
	}
	if err := h.logs.Log(r.Context(), &entry); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to log intervention")
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// Activity handles GET /users/{userID}/interventions/log?limit=.
func (h *InterventionHandler) Activity(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	limit := queryInt(r.URL.Query().Get("limit"), defaultLogListLimit)

	entries, err := h.logs.ListByUser(r.Context(), userID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list intervention log")
		return
	}
	if entries == nil {
		entries = []domain.InterventionLog{}
	}
	writeJSON(w, http.StatusOK, entries)
}
