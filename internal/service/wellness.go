package service

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/lumohealth/lumo/internal/domain"
	"github.com/lumohealth/lumo/internal/ml"
	"github.com/lumohealth/lumo/internal/store"
	"go.uber.org/zap"
)

const (
	// DefaultRetentionDays bounds how much history ever feeds training.
	DefaultRetentionDays = 90
	// SnapshotWindowDays is the rolling window behind intervention scoring.
	SnapshotWindowDays = 7
	// DefaultForecastDays is the standard forecast horizon.
	DefaultForecastDays = 7

	defaultForecastSeed = 1
)

var ErrNoHistory = errors.New("no check-in history for user")

// ModelStore persists trained bundles keyed by user.
type ModelStore interface {
	Save(userID string, b *ml.Bundle) error
	Load(userID string) (*ml.Bundle, error)
	Delete(userID string) error
}

// WellnessService owns one predictor per active user and serializes
// training and prediction per user. A predictor is not safe to train and
// query concurrently, so every entry point locks the user's session first.
type WellnessService struct {
	records domain.RecordStore
	models  ModelStore
	logger  *zap.Logger
	target  domain.Target

	forecastSeed int64

	mu       sync.Mutex
	sessions map[string]*userSession
}

type userSession struct {
	mu        sync.Mutex
	predictor *Predictor
	trainer   *Trainer
}

func NewWellnessService(records domain.RecordStore, models ModelStore, logger *zap.Logger) *WellnessService {
	return &WellnessService{
		records:      records,
		models:       models,
		logger:       logger,
		target:       domain.TargetStress,
		forecastSeed: defaultForecastSeed,
		sessions:     make(map[string]*userSession),
	}
}

// SetForecastSeed overrides the forecast jitter seed; tests use it for
// reproducible trajectories.
func (s *WellnessService) SetForecastSeed(seed int64) { s.forecastSeed = seed }

// Train retrains the user's model from the retained history and persists
// the new bundle. ErrInsufficientData and ErrInsufficientVariance are
// expected outcomes, not faults: the predictor stays in its prior state.
func (s *WellnessService) Train(ctx context.Context, userID string) error {
	sess := s.session(userID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	records, err := s.records.ListRecent(ctx, userID, DefaultRetentionDays)
	if err != nil {
		return err
	}

	bundle, err := sess.trainer.Train(records, s.target)
	if err != nil {
		return err
	}

	sess.predictor.SetBundle(bundle)
	if err := s.models.Save(userID, bundle); err != nil {
		s.logger.Error("failed to persist model bundle",
			zap.String("user", userID), zap.Error(err))
	}
	return nil
}

// Current predicts today's target value from the latest record. It never
// fails on an untrained model; it degrades to the neutral default.
func (s *WellnessService) Current(ctx context.Context, userID string) (float64, error) {
	sess := s.session(userID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	records, err := s.records.ListRecent(ctx, userID, DefaultRetentionDays)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, ErrNoHistory
	}

	s.ensureTrained(sess, userID, records)
	latest := records[len(records)-1]
	return sess.predictor.Predict(&latest), nil
}

// Forecast simulates the coming days from the recent history.
func (s *WellnessService) Forecast(ctx context.Context, userID string, days int) ([]float64, error) {
	if days <= 0 {
		days = DefaultForecastDays
	}

	sess := s.session(userID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	records, err := s.records.ListRecent(ctx, userID, DefaultRetentionDays)
	if err != nil {
		return nil, err
	}

	s.ensureTrained(sess, userID, records)
	rng := rand.New(rand.NewSource(s.forecastSeed))
	return sess.predictor.Forecast(records, days, time.Now(), rng), nil
}

// Insights bundles the trained importance ranking with the rule-based
// factor explanation for the latest record.
type Insights struct {
	Trained    bool                  `json:"trained"`
	Importance []domain.FactorWeight `json:"importance,omitempty"`
	Factors    map[string]string     `json:"factors"`
}

func (s *WellnessService) Insights(ctx context.Context, userID string) (*Insights, error) {
	sess := s.session(userID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	records, err := s.records.ListRecent(ctx, userID, DefaultRetentionDays)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoHistory
	}

	s.ensureTrained(sess, userID, records)
	latest := records[len(records)-1]
	return &Insights{
		Trained:    sess.predictor.Trained(),
		Importance: sess.predictor.Importance(),
		Factors:    sess.predictor.Explain(&latest),
	}, nil
}

// Snapshot summarizes the user's current state for intervention scoring.
func (s *WellnessService) Snapshot(ctx context.Context, userID string) (domain.Snapshot, error) {
	records, err := s.records.ListRecent(ctx, userID, SnapshotWindowDays)
	if err != nil {
		return domain.Snapshot{}, err
	}
	if len(records) == 0 {
		return domain.Snapshot{}, ErrNoHistory
	}
	return domain.BuildSnapshot(records), nil
}

// Forget drops the user's in-memory session and persisted model bundle.
func (s *WellnessService) Forget(userID string) error {
	s.mu.Lock()
	delete(s.sessions, userID)
	s.mu.Unlock()
	return s.models.Delete(userID)
}

// ensureTrained lazily restores a persisted bundle, falling back to a fresh
// training pass when none exists. Training failures leave the predictor
// untrained; prediction then degrades to the neutral default.
func (s *WellnessService) ensureTrained(sess *userSession, userID string, records []domain.DailyRecord) {
	if sess.predictor.Trained() {
		return
	}

	bundle, err := s.models.Load(userID)
	if err == nil && bundle.Target == string(s.target) {
		sess.predictor.SetBundle(bundle)
		return
	}
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		s.logger.Warn("failed to load model bundle",
			zap.String("user", userID), zap.Error(err))
	}

	bundle, err = sess.trainer.Train(records, s.target)
	if err != nil {
		s.logger.Info("predictor left untrained",
			zap.String("user", userID), zap.Error(err))
		return
	}
	sess.predictor.SetBundle(bundle)
	if err := s.models.Save(userID, bundle); err != nil {
		s.logger.Error("failed to persist model bundle",
			zap.String("user", userID), zap.Error(err))
	}
}

func (s *WellnessService) session(userID string) *userSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[userID]; ok {
		return sess
	}
	engineer := NewFeatureEngineer(s.target)
	sess := &userSession{
		predictor: NewPredictor(engineer, s.logger),
		trainer:   NewTrainer(engineer, s.logger),
	}
	s.sessions[userID] = sess
	return sess
}
