package domain

// InterventionCategory groups coping interventions by the kind of activity
// involved.
type InterventionCategory string

const (
	CategoryPhysical  InterventionCategory = "Physical"
	CategoryMental    InterventionCategory = "Mental"
	CategorySocial    InterventionCategory = "Social"
	CategoryLifestyle InterventionCategory = "Lifestyle"
)

// Categories is the canonical ordering used when balancing recommendations.
var Categories = []InterventionCategory{
	CategoryPhysical,
	CategoryMental,
	CategorySocial,
	CategoryLifestyle,
}

func ValidCategory(c InterventionCategory) bool {
	switch c {
	case CategoryPhysical, CategoryMental, CategorySocial, CategoryLifestyle:
		return true
	}
	return false
}

// InterventionTemplate is one catalog entry. Templates are static, shared
// read-only across users, and uniquely keyed by title.
type InterventionTemplate struct {
	Title        string               `json:"title"`
	Category     InterventionCategory `json:"category"`
	Icon         string               `json:"icon,omitempty"`
	Duration     string               `json:"duration"`
	Difficulty   string               `json:"difficulty"`
	BestTime     string               `json:"best_time"`
	Description  string               `json:"description"`
	Benefits     []string             `json:"benefits,omitempty"`
	Steps        []string             `json:"steps"`
	GuidedScript string               `json:"guided_script,omitempty"`
	// Conditions maps a metric name to a qualitative bucket the template
	// applies to, e.g. stress_level -> "high".
	Conditions map[string]string `json:"conditions,omitempty"`
}

// ImmediateTemplate is a quick-relief exercise surfaced for acute stress.
type ImmediateTemplate struct {
	Title       string   `json:"title"`
	Duration    string   `json:"duration"`
	Description string   `json:"description"`
	Steps       []string `json:"steps"`
	AudioGuide  string   `json:"audio_guide,omitempty"`
}

// Recommendation wraps a template with its suitability score for one user.
type Recommendation struct {
	Template InterventionTemplate `json:"template"`
	Score    float64              `json:"score"`
}
