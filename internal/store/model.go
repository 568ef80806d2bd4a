package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lumohealth/lumo/internal/ml"
)

// ModelFSStore persists trained bundles as three co-located JSON artifacts
// (model, scaler, metadata) keyed by a one-way hash of the user identifier.
// The raw identifier never reaches the filesystem.
type ModelFSStore struct {
	dir string
}

func NewModelFSStore(dir string) (*ModelFSStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create model dir: %w", err)
	}
	return &ModelFSStore{dir: dir}, nil
}

type bundleMetadata struct {
	FeatureNames      []string           `json:"feature_names"`
	FeatureImportance map[string]float64 `json:"feature_importance"`
	Target            string             `json:"target"`
	TrainedAt         time.Time          `json:"trained_at"`
}

// Save writes all three artifacts for the user's bundle, replacing any
// prior set.
func (s *ModelFSStore) Save(userID string, b *ml.Bundle) error {
	key := userKey(userID)

	modelData, err := ml.MarshalModel(b.Model)
	if err != nil {
		return fmt.Errorf("marshal model: %w", err)
	}
	scalerData, err := json.Marshal(b.Scaler)
	if err != nil {
		return fmt.Errorf("marshal scaler: %w", err)
	}
	metaData, err := json.MarshalIndent(bundleMetadata{
		FeatureNames:      b.FeatureNames,
		FeatureImportance: b.Importance,
		Target:            b.Target,
		TrainedAt:         b.TrainedAt,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	if err := os.WriteFile(s.path(key, "model"), modelData, 0o644); err != nil {
		return err
	}
	if err := os.WriteFile(s.path(key, "scaler"), scalerData, 0o644); err != nil {
		return err
	}
	return os.WriteFile(s.path(key, "metadata"), metaData, 0o644)
}

// Load reconstructs the user's bundle. A partial artifact set is reported
// as ErrNotFound, never as a usable bundle.
func (s *ModelFSStore) Load(userID string) (*ml.Bundle, error) {
	key := userKey(userID)

	paths := []string{s.path(key, "model"), s.path(key, "scaler"), s.path(key, "metadata")}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			return nil, ErrNotFound
		}
	}

	modelData, err := os.ReadFile(paths[0])
	if err != nil {
		return nil, err
	}
	model, err := ml.UnmarshalModel(modelData)
	if err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}

	scalerData, err := os.ReadFile(paths[1])
	if err != nil {
		return nil, err
	}
	var scaler ml.Scaler
	if err := json.Unmarshal(scalerData, &scaler); err != nil {
		return nil, fmt.Errorf("decode scaler: %w", err)
	}

	metaData, err := os.ReadFile(paths[2])
	if err != nil {
		return nil, err
	}
	var meta bundleMetadata
	if err := json.Unmarshal(metaData, &meta); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}

	return &ml.Bundle{
		Model:        model,
		Scaler:       &scaler,
		FeatureNames: meta.FeatureNames,
		Importance:   meta.FeatureImportance,
		Target:       meta.Target,
		TrainedAt:    meta.TrainedAt,
	}, nil
}

// Delete removes every artifact for the user; missing files are not an
// error.
func (s *ModelFSStore) Delete(userID string) error {
	key := userKey(userID)
	for _, kind := range []string{"model", "scaler", "metadata"} {
		if err := os.Remove(s.path(key, kind)); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

func (s *ModelFSStore) path(key, kind string) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_%s.json", key, kind))
}

func userKey(userID string) string {
	sum := sha256.Sum256([]byte(userID))
	return hex.EncodeToString(sum[:])[:16]
}
