// Package insights derives ranked, actionable recommendations from an image
// analysis result. Generation runs a fixed set of independent rule functions;
// ranking merges, sorts, and truncates their output.
package insights

// Type categorizes an insight by the domain that produced it
type Type string

// Insight types
const (
	TypeCompositional Type = "compositional"
	TypeQuality       Type = "quality"
	TypeContent       Type = "content"
	TypeTechnical     Type = "technical"
	TypeAccessibility Type = "accessibility"
	TypePrivacy       Type = "privacy"
	TypeOrganization  Type = "organization"
	TypeEnhancement   Type = "enhancement"
	TypeContext       Type = "context"
	TypeDiscovery     Type = "discovery"
	TypeAction        Type = "action"
)

// SuggestedAction is the follow-up a presentation layer can offer for an
// insight
type SuggestedAction string

// Suggested actions
const (
	ActionNone            SuggestedAction = "none"
	ActionCrop            SuggestedAction = "crop"
	ActionEnhance         SuggestedAction = "enhance"
	ActionCopy            SuggestedAction = "copy"
	ActionTag             SuggestedAction = "tag"
	ActionAddToCollection SuggestedAction = "addToCollection"
	ActionExport          SuggestedAction = "export"
	ActionShare           SuggestedAction = "share"
	ActionViewMetadata    SuggestedAction = "viewMetadata"
	ActionNavigate        SuggestedAction = "navigate"
)

// Priority orders insights for ranking: low < medium < high < critical
type Priority int

// Priorities
const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
	PriorityCritical
)

// String returns the lowercase priority name
func (p Priority) String() string {
	switch p {
	case PriorityCritical:
		return "critical"
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	default:
		return "low"
	}
}

// Insight is a single actionable recommendation derived from one analysis
// signal. Insights are immutable values with no identity beyond equality;
// they live only within a single analyze call.
type Insight struct {
	Type            Type              `json:"type"`
	Title           string            `json:"title"`
	Description     string            `json:"description"`
	Confidence      float64           `json:"confidence"`
	SuggestedAction SuggestedAction   `json:"suggested_action"`
	Priority        Priority          `json:"priority"`
	Category        string            `json:"category,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty"`
	Icon            string            `json:"icon,omitempty"`
}

// normalize fills derived defaults and clamps confidence into [0,1].
// NaN confidence is left untouched; Rank pins its ordering instead.
func normalize(ins Insight) Insight {
	if ins.SuggestedAction == "" {
		ins.SuggestedAction = ActionNone
	}
	if ins.Category == "" {
		ins.Category = defaultCategory(ins.Type)
	}
	if ins.Confidence < 0 {
		ins.Confidence = 0
	}
	if ins.Confidence > 1 {
		ins.Confidence = 1
	}
	return ins
}

func defaultCategory(t Type) string {
	switch t {
	case TypeCompositional:
		return "Composition"
	case TypeQuality:
		return "Quality"
	case TypeContent:
		return "Content"
	case TypeTechnical:
		return "Technical"
	case TypeAccessibility:
		return "Accessibility"
	case TypePrivacy:
		return "Privacy"
	case TypeOrganization:
		return "Organization"
	case TypeEnhancement:
		return "Enhancement"
	case TypeContext:
		return "Context"
	case TypeDiscovery:
		return "Discovery"
	case TypeAction:
		return "Actions"
	default:
		return "General"
	}
}
