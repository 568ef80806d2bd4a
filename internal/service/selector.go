package service

import (
	"sort"

	"github.com/lumohealth/lumo/internal/catalog"
	"github.com/lumohealth/lumo/internal/domain"
	"go.uber.org/zap"
)

const (
	// MaxRecommendations bounds the personalized list length.
	MaxRecommendations = 12
	// keepThreshold drops templates that do not score strictly above it.
	keepThreshold = 0.5
	// fallbackCount is how many unscored templates the fallback surfaces.
	fallbackCount = 8

	// Immediate-relief tiers by current stress.
	veryHighStressMin = 8.0
	highTierMin       = 6.0
	highTierCount     = 3
	moderateTierCount = 2
)

// Selector turns a user snapshot into a ranked, category-balanced
// recommendation list and a severity-tiered immediate-relief subset.
type Selector struct {
	catalog *catalog.Catalog
	scorer  *Scorer
	logger  *zap.Logger
}

func NewSelector(cat *catalog.Catalog, scorer *Scorer, logger *zap.Logger) *Selector {
	return &Selector{
		catalog: cat,
		scorer:  scorer,
		logger:  logger,
	}
}

// Select scores the whole catalog against the snapshot, keeps templates
// scoring above the threshold, and orders them with each category's top
// survivor first so no single category monopolizes the list.
func (s *Selector) Select(snap domain.Snapshot) []domain.Recommendation {
	var kept []domain.Recommendation
	for _, t := range s.catalog.Templates() {
		score := s.scorer.Score(t, snap)
		if score > keepThreshold {
			kept = append(kept, domain.Recommendation{Template: t, Score: score})
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Score > kept[j].Score
	})

	selected := make([]domain.Recommendation, 0, MaxRecommendations)
	taken := make(map[string]bool, MaxRecommendations)

	// Guarantee category diversity before raw score takes over.
	for _, cat := range domain.Categories {
		for _, rec := range kept {
			if rec.Template.Category == cat {
				selected = append(selected, rec)
				taken[rec.Template.Title] = true
				break
			}
		}
	}

	for _, rec := range kept {
		if len(selected) >= MaxRecommendations {
			break
		}
		if taken[rec.Template.Title] {
			continue
		}
		selected = append(selected, rec)
		taken[rec.Template.Title] = true
	}

	return selected
}

// Fallback returns the catalog's leading templates unscored, so a caller
// whose snapshot pipeline failed still has something to render.
func (s *Selector) Fallback() []domain.Recommendation {
	templates := s.catalog.Templates()
	if len(templates) > fallbackCount {
		templates = templates[:fallbackCount]
	}
	out := make([]domain.Recommendation, 0, len(templates))
	for _, t := range templates {
		out = append(out, domain.Recommendation{Template: t})
	}
	return out
}

// SelectImmediate returns the immediate-relief prefix sized by stress
// severity: everything at very high stress, three at high, two otherwise.
func (s *Selector) SelectImmediate(currentStress float64) []domain.ImmediateTemplate {
	all := s.catalog.Immediate()
	switch {
	case currentStress >= veryHighStressMin:
		return all
	case currentStress >= highTierMin:
		return prefix(all, highTierCount)
	default:
		return prefix(all, moderateTierCount)
	}
}

func prefix(list []domain.ImmediateTemplate, n int) []domain.ImmediateTemplate {
	if len(list) > n {
		return list[:n]
	}
	return list
}
