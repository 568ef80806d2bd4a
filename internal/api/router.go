package api

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/lumohealth/lumo/internal/api/handlers"
	mw "github.com/lumohealth/lumo/internal/api/middleware"
	"github.com/lumohealth/lumo/internal/buildconfig"
	"github.com/lumohealth/lumo/internal/catalog"
	"github.com/lumohealth/lumo/internal/config"
	"github.com/lumohealth/lumo/internal/domain"
	"github.com/lumohealth/lumo/internal/service"
	"github.com/lumohealth/lumo/internal/store"
)

// App holds the router and background services for lifecycle management.
type App struct {
	Router    *chi.Mux
	Retention *service.RetentionService

	startTime    time.Time
	requestCount atomic.Int64
	errorCount   atomic.Int64
}

func NewApp(db *pgxpool.Pool, logger *zap.Logger) (*App, error) {
	// Stores
	recordStore := store.NewRecordStore(db)
	logStore := store.NewInterventionLogStore(db)
	modelStore, err := store.NewModelFSStore(config.ModelDir())
	if err != nil {
		return nil, err
	}

	// Services
	cat := catalog.New()
	wellnessSvc := service.NewWellnessService(recordStore, modelStore, logger)
	selector := service.NewSelector(cat, service.NewScorer(), logger)
	retentionSvc := service.NewRetentionService(recordStore, logger)
	retentionSvc.SetRetentionDays(config.RetentionDays())

	// Handlers
	checkinHandler := handlers.NewCheckinHandler(recordStore)
	predictionHandler := handlers.NewPredictionHandler(wellnessSvc)
	interventionHandler := handlers.NewInterventionHandler(cat, selector, wellnessSvc, logStore, logger)

	r := chi.NewRouter()

	app := &App{
		Router:    r,
		Retention: retentionSvc,
		startTime: time.Now(),
	}

	// Metrics collector for middleware
	metricsCollector := mw.NewMetricsCollector(&app.requestCount, &app.errorCount)

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(metricsCollector.Middleware)
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(mw.RateLimit(config.RateLimitRPS(), config.RateLimitBurst()))

	r.Get("/health", healthHandler(db))
	r.Get("/metrics", app.metricsHandler())

	r.Route("/v1", func(r chi.Router) {
		// Catalog browsing is not user-scoped.
		r.Get("/interventions", interventionHandler.Catalog)

		r.Route("/users/{userID}", func(r chi.Router) {
			// Daily check-ins
			r.Route("/checkins", func(r chi.Router) {
				r.Post("/", checkinHandler.Create)
				r.Get("/", checkinHandler.History)
				r.Get("/{date}", checkinHandler.GetByDate)
				r.Delete("/", checkinHandler.DeleteAll)
				r.Post("/scrub-notes", checkinHandler.ScrubNotes)
			})

			// Stress model
			r.Route("/stress", func(r chi.Router) {
				r.Get("/current", predictionHandler.Current)
				r.Get("/forecast", predictionHandler.Forecast)
				r.Get("/insights", predictionHandler.Insights)
				r.Post("/train", predictionHandler.Train)
			})
			r.Delete("/model", predictionHandler.Forget)

			// Interventions
			r.Route("/interventions", func(r chi.Router) {
				r.Get("/recommendations", interventionHandler.Recommendations)
				r.Get("/immediate", interventionHandler.Immediate)
				r.Post("/log", interventionHandler.LogActivity)
				r.Get("/log", interventionHandler.Activity)
			})
		})
	})

	return app, nil
}

func healthHandler(db *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

func (app *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)

		response := map[string]any{
			"uptime_seconds": uptime.Seconds(),
			"uptime_human":   uptime.Round(time.Second).String(),
			"request_count":  app.requestCount.Load(),
			"error_count":    app.errorCount.Load(),
			"goroutines":     runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
				"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
				"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
				"num_gc":         memStats.NumGC,
			},
			"go_version": runtime.Version(),
			"build":      buildconfig.VersionInfo(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// Ensure stores satisfy their interfaces at compile time.
var (
	_ domain.RecordStore          = (*store.RecordStore)(nil)
	_ domain.InterventionLogStore = (*store.InterventionLogStore)(nil)
	_ service.ModelStore          = (*store.ModelFSStore)(nil)
)
