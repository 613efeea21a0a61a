package types

// Rect represents a normalized rectangle with coordinates in [0,1] range
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Classification is a general-purpose scene/object label with confidence.
// The first entry of a classification list is the primary guess; no further
// ordering is guaranteed.
type Classification struct {
	Identifier string  `json:"identifier"`
	Confidence float64 `json:"confidence"`
}

// DetectedObject is a single object detection. Face and person detections
// use the synthetic identifiers "face" and "person".
type DetectedObject struct {
	Identifier string  `json:"identifier"`
	Confidence float64 `json:"confidence"`
	Box        Rect    `json:"box"`
}

// Scene is a scene-level label with confidence
type Scene struct {
	Identifier string  `json:"identifier"`
	Confidence float64 `json:"confidence"`
}

// TextRegion is one recognized OCR region
type TextRegion struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Box        Rect    `json:"box"`
}

// DominantColor is a representative color extracted from the pixel
// distribution. Lists of dominant colors are ordered by population,
// most dominant first. Channel values are normalized to [0,1].
type DominantColor struct {
	Red        float64 `json:"red"`
	Green      float64 `json:"green"`
	Blue       float64 `json:"blue"`
	Population float64 `json:"population"`
}

// Brightness returns the HSB brightness component of the color,
// i.e. the maximum of the RGB channels.
func (c DominantColor) Brightness() float64 {
	b := c.Red
	if c.Green > b {
		b = c.Green
	}
	if c.Blue > b {
		b = c.Blue
	}
	return b
}

// CroppingSuggestion is a suggested crop region with confidence
type CroppingSuggestion struct {
	Rect       Rect    `json:"rect"`
	Confidence float64 `json:"confidence"`
}

// VisualBalance scores how evenly visual weight is distributed
type VisualBalance struct {
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback"`
}

// SaliencyAnalysis holds visual-attention/composition analysis
type SaliencyAnalysis struct {
	CroppingSuggestions []CroppingSuggestion `json:"cropping_suggestions"`
	VisualBalance       VisualBalance        `json:"visual_balance"`
}

// QualityIssueKind identifies a specific quality problem
type QualityIssueKind string

// Quality issue kinds
const (
	IssueSoftFocus     QualityIssueKind = "softFocus"
	IssueUnderexposed  QualityIssueKind = "underexposed"
	IssueOverexposed   QualityIssueKind = "overexposed"
	IssueLowResolution QualityIssueKind = "lowResolution"
)

// QualityIssue is one detected quality problem with detail text
type QualityIssue struct {
	Kind   QualityIssueKind `json:"kind"`
	Detail string           `json:"detail"`
}

// QualityMetrics holds measured image quality values. Sharpness and
// Exposure are normalized to [0,1].
type QualityMetrics struct {
	Megapixels float64        `json:"megapixels"`
	Sharpness  float64        `json:"sharpness"`
	Exposure   float64        `json:"exposure"`
	Issues     []QualityIssue `json:"issues"`
}

// QualityLevel is a coarse overall quality rating
type QualityLevel string

// Quality levels
const (
	QualityLow    QualityLevel = "low"
	QualityMedium QualityLevel = "medium"
	QualityHigh   QualityLevel = "high"
)

// Caption is a short description from an external captioning model
type Caption struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// Person is a recognized person; person lists are ordered by relevance
type Person struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// Landmark is a recognized landmark
type Landmark struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// Barcode is a detected machine-readable code
type Barcode struct {
	Payload   string `json:"payload"`
	Symbology string `json:"symbology"`
}

// SmartTag is a suggested organizational tag
type SmartTag struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// AnalysisResult is the full multi-modal analysis snapshot for one image.
// Confidence values are expected to be pre-clamped to [0,1] by whoever
// produced them. Collections use empty slices for absence; only Caption and
// Saliency are genuinely optional and may be nil.
type AnalysisResult struct {
	Classifications  []Classification  `json:"classifications"`
	Objects          []DetectedObject  `json:"objects"`
	Scenes           []Scene           `json:"scenes"`
	TextRegions      []TextRegion      `json:"text_regions"`
	Colors           []DominantColor   `json:"colors"`
	Saliency         *SaliencyAnalysis `json:"saliency,omitempty"`
	QualityMetrics   QualityMetrics    `json:"quality_metrics"`
	Caption          *Caption          `json:"caption,omitempty"`
	RecognizedPeople []Person          `json:"recognized_people"`
	Landmarks        []Landmark        `json:"landmarks"`
	Barcodes         []Barcode         `json:"barcodes"`
	SmartTags        []SmartTag        `json:"smart_tags"`
	Quality          QualityLevel      `json:"quality"`
}

// ModelLabel is a single label returned by a vision model
type ModelLabel struct {
	Identifier string  `json:"identifier"`
	Confidence float64 `json:"confidence"`
}

// ModelDescription is the wire format returned by vision-model captioning
// backends
type ModelDescription struct {
	Caption    string       `json:"caption"`
	Confidence float64      `json:"confidence"`
	Labels     []ModelLabel `json:"labels"`
	Tags       []string     `json:"tags"`
}
