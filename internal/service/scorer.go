package service

import (
	"strings"

	"github.com/lumohealth/lumo/internal/domain"
)

// Scoring weights. The final score is capped at 1.0 but deliberately not
// floored at 0: sub-zero scores are excluded by the selection threshold,
// not by clamping.
const (
	scoreBase = 0.5

	stressMatchBoost    = 0.3
	stressWildcardBoost = 0.1

	lowEnergyPhysicalPenalty = 0.2
	highEnergyMentalBoost    = 0.1

	sleepDeficitBoost     = 0.4
	lowExerciseBoost      = 0.2
	workContextBoost      = 0.3
	lowMoodSocialBoost    = 0.2
	lowMoodGratitudeBonus = 0.3
	eveningBias           = 0.1
)

// Stress buckets used when matching a template's declared conditions.
const (
	highStressMin    = 7.0
	moderateStressLo = 4.0
	moderateStressHi = 6.0
	lowStressMax     = 3.0
)

// Scorer computes how suitable one intervention template is for a user's
// current state.
type Scorer struct{}

func NewScorer() *Scorer { return &Scorer{} }

// Score returns a suitability value for the template given the snapshot,
// in (-inf, 1.0]. Anything at or below the selection threshold is treated
// as unsuitable by the selector.
func (s *Scorer) Score(t domain.InterventionTemplate, snap domain.Snapshot) float64 {
	score := scoreBase
	title := strings.ToLower(t.Title)

	switch t.Conditions["stress_level"] {
	case "high":
		if snap.CurrentStress >= highStressMin {
			score += stressMatchBoost
		}
	case "moderate":
		if snap.CurrentStress >= moderateStressLo && snap.CurrentStress <= moderateStressHi {
			score += stressMatchBoost
		}
	case "low":
		if snap.CurrentStress <= lowStressMax {
			score += stressMatchBoost
		}
	case "any":
		score += stressWildcardBoost
	}

	// Avoid pushing strenuous activity on depleted users; walks are fine.
	if snap.CurrentEnergy <= 3 && t.Category == domain.CategoryPhysical && !strings.Contains(title, "walk") {
		score -= lowEnergyPhysicalPenalty
	} else if snap.CurrentEnergy >= 7 && t.Category == domain.CategoryMental {
		score += highEnergyMentalBoost
	}

	// Sleep deficit is a priority driver.
	if snap.AvgSleep < 6 && strings.Contains(title, "sleep") {
		score += sleepDeficitBoost
	}

	if snap.AvgExercise < 30 && t.Category == domain.CategoryPhysical {
		score += lowExerciseBoost
	}

	if snap.AvgWorkHours > 9 && (strings.Contains(title, "desk") || strings.Contains(title, "work")) {
		score += workContextBoost
	}

	if snap.CurrentMood <= 4 {
		if t.Category == domain.CategorySocial {
			score += lowMoodSocialBoost
		}
		if strings.Contains(title, "gratitude") {
			score += lowMoodGratitudeBonus
		}
	}

	if t.BestTime == "Evening" {
		score += eveningBias
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}
