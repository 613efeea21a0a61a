package insights

import (
	"math"
	"strings"
	"testing"

	"github.com/vscarpenter/image-insights/pkg/types"
)

func findByTitle(list []Insight, title string) (Insight, bool) {
	for _, ins := range list {
		if ins.Title == title {
			return ins, true
		}
	}
	return Insight{}, false
}

func countByTitle(list []Insight, title string) int {
	n := 0
	for _, ins := range list {
		if ins.Title == title {
			n++
		}
	}
	return n
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestGenerateEmptyResult(t *testing.T) {
	// Every signal absent, metrics zeroed. The zero metrics themselves
	// still trigger resolution and enhancement rules.
	out := Generate(types.AnalysisResult{QualityMetrics: types.QualityMetrics{
		Megapixels: 10, Sharpness: 0.9, Exposure: 0.5,
	}}, "")

	if len(out) != 0 {
		t.Errorf("Expected no insights for a clean empty result, got %d: %+v", len(out), out)
	}
}

func TestPeopleDetected(t *testing.T) {
	result := types.AnalysisResult{
		Objects: []types.DetectedObject{{Identifier: "face", Confidence: 0.95}},
		QualityMetrics: types.QualityMetrics{
			Megapixels: 10, Sharpness: 0.9, Exposure: 0.5,
		},
	}

	out := Generate(result, "")

	if n := countByTitle(out, "People Detected"); n != 1 {
		t.Fatalf("Expected exactly one People Detected insight, got %d", n)
	}
	ins, _ := findByTitle(out, "People Detected")
	if ins.Priority != PriorityHigh {
		t.Errorf("Expected high priority, got %s", ins.Priority)
	}
	if ins.Confidence < 0.85 {
		t.Errorf("Expected confidence >= 0.85, got %f", ins.Confidence)
	}
	if ins.SuggestedAction != ActionTag {
		t.Errorf("Expected tag action, got %s", ins.SuggestedAction)
	}

	// The face also triggers the critical privacy insight.
	privacy, ok := findByTitle(out, "Faces Present")
	if !ok {
		t.Fatal("Expected Faces Present insight")
	}
	if privacy.Priority != PriorityCritical {
		t.Errorf("Expected critical priority, got %s", privacy.Priority)
	}
	if !almostEqual(privacy.Confidence, 0.95) {
		t.Errorf("Expected confidence 0.95, got %f", privacy.Confidence)
	}
}

func TestPeopleDetectedUsesRecognizedConfidence(t *testing.T) {
	result := types.AnalysisResult{
		Objects:          []types.DetectedObject{{Identifier: "person", Confidence: 0.6}},
		RecognizedPeople: []types.Person{{Name: "Alex", Confidence: 0.92}},
		QualityMetrics: types.QualityMetrics{
			Megapixels: 10, Sharpness: 0.9, Exposure: 0.5,
		},
	}

	out := Generate(result, "")
	ins, ok := findByTitle(out, "People Detected")
	if !ok {
		t.Fatal("Expected People Detected insight")
	}
	if !almostEqual(ins.Confidence, 0.92) {
		t.Errorf("Expected recognized-person confidence 0.92, got %f", ins.Confidence)
	}
}

func TestSharpnessEnhancement(t *testing.T) {
	result := types.AnalysisResult{
		QualityMetrics: types.QualityMetrics{
			Megapixels: 10, Sharpness: 0.2, Exposure: 0.5,
		},
	}

	out := Generate(result, "")
	ins, ok := findByTitle(out, "Sharpness Enhancement")
	if !ok {
		t.Fatal("Expected Sharpness Enhancement insight")
	}
	if !almostEqual(ins.Confidence, 0.8) {
		t.Errorf("Expected confidence 0.8, got %f", ins.Confidence)
	}
	if ins.Priority != PriorityHigh || ins.SuggestedAction != ActionEnhance {
		t.Errorf("Unexpected priority/action: %s/%s", ins.Priority, ins.SuggestedAction)
	}
}

func TestExposureBranchesAreMutuallyExclusive(t *testing.T) {
	result := types.AnalysisResult{
		QualityMetrics: types.QualityMetrics{
			Megapixels: 10, Sharpness: 0.9, Exposure: 0.9,
		},
	}

	out := Generate(result, "")
	ins, ok := findByTitle(out, "Reduce Exposure")
	if !ok {
		t.Fatal("Expected Reduce Exposure insight")
	}
	if !almostEqual(ins.Confidence, 0.5) {
		t.Errorf("Expected confidence 0.5, got %f", ins.Confidence)
	}
	if _, ok := findByTitle(out, "Brighten Image"); ok {
		t.Error("Did not expect Brighten Image alongside Reduce Exposure")
	}
}

func TestBrightenImage(t *testing.T) {
	result := types.AnalysisResult{
		QualityMetrics: types.QualityMetrics{
			Megapixels: 10, Sharpness: 0.9, Exposure: 0.15,
		},
	}

	out := Generate(result, "")
	ins, ok := findByTitle(out, "Brighten Image")
	if !ok {
		t.Fatal("Expected Brighten Image insight")
	}
	if !almostEqual(ins.Confidence, 0.5) {
		t.Errorf("Expected confidence (0.3-0.15)/0.3 = 0.5, got %f", ins.Confidence)
	}
	if _, ok := findByTitle(out, "Reduce Exposure"); ok {
		t.Error("Did not expect Reduce Exposure alongside Brighten Image")
	}
}

func TestTextContentDetected(t *testing.T) {
	// 31 characters across two regions.
	result := types.AnalysisResult{
		TextRegions: []types.TextRegion{
			{Text: "Hello world this is", Confidence: 0.9},
			{Text: "a test image", Confidence: 0.9},
		},
		QualityMetrics: types.QualityMetrics{
			Megapixels: 10, Sharpness: 0.9, Exposure: 0.5,
		},
	}

	out := Generate(result, "")
	ins, ok := findByTitle(out, "Text Content Detected")
	if !ok {
		t.Fatal("Expected Text Content Detected insight")
	}
	if !almostEqual(ins.Confidence, 31.0/120.0) {
		t.Errorf("Expected confidence %f, got %f", 31.0/120.0, ins.Confidence)
	}
	if ins.SuggestedAction != ActionCopy {
		t.Errorf("Expected copy action, got %s", ins.SuggestedAction)
	}
	if ins.Metadata["characters"] != "31" {
		t.Errorf("Expected character metadata 31, got %q", ins.Metadata["characters"])
	}
}

func TestTextCountsRunesNotBytes(t *testing.T) {
	// 29 runes stay below the 30-character floor even though the UTF-8
	// byte count is far higher.
	result := types.AnalysisResult{
		TextRegions: []types.TextRegion{
			{Text: strings.Repeat("ü", 29), Confidence: 0.9},
		},
		QualityMetrics: types.QualityMetrics{
			Megapixels: 10, Sharpness: 0.9, Exposure: 0.5,
		},
	}

	out := Generate(result, "")
	if _, ok := findByTitle(out, "Text Content Detected"); ok {
		t.Error("Expected no text insight below 30 runes")
	}
}

func TestTextConfidenceCap(t *testing.T) {
	result := types.AnalysisResult{
		TextRegions: []types.TextRegion{
			{Text: strings.Repeat("a", 500), Confidence: 0.9},
		},
		QualityMetrics: types.QualityMetrics{
			Megapixels: 10, Sharpness: 0.9, Exposure: 0.5,
		},
	}

	out := Generate(result, "")
	ins, ok := findByTitle(out, "Text Content Detected")
	if !ok {
		t.Fatal("Expected Text Content Detected insight")
	}
	if !almostEqual(ins.Confidence, 0.95) {
		t.Errorf("Expected capped confidence 0.95, got %f", ins.Confidence)
	}

	// Over 50 characters also triggers the privacy text insight; both
	// text-driven insights coexist without deduplication.
	if _, ok := findByTitle(out, "Readable Text Content"); !ok {
		t.Error("Expected Readable Text Content privacy insight")
	}
}

func TestLandmarkIdentified(t *testing.T) {
	result := types.AnalysisResult{
		Landmarks: []types.Landmark{{Name: "Eiffel Tower", Confidence: 0.8}},
		QualityMetrics: types.QualityMetrics{
			Megapixels: 10, Sharpness: 0.9, Exposure: 0.5,
		},
	}

	out := Generate(result, "")
	ins, ok := findByTitle(out, "Landmark Identified")
	if !ok {
		t.Fatal("Expected Landmark Identified insight")
	}
	if !almostEqual(ins.Confidence, 0.8) {
		t.Errorf("Expected confidence 0.8, got %f", ins.Confidence)
	}
	if ins.Priority != PriorityHigh || ins.SuggestedAction != ActionNavigate {
		t.Errorf("Unexpected priority/action: %s/%s", ins.Priority, ins.SuggestedAction)
	}
	if ins.Description != "Eiffel Tower" {
		t.Errorf("Expected landmark name as description, got %q", ins.Description)
	}
}

func TestLowColorContrast(t *testing.T) {
	result := types.AnalysisResult{
		Colors: []types.DominantColor{
			{Red: 0.5, Green: 0.5, Blue: 0.5},
			{Red: 0.6, Green: 0.6, Blue: 0.6},
		},
		QualityMetrics: types.QualityMetrics{
			Megapixels: 10, Sharpness: 0.9, Exposure: 0.5,
		},
	}

	out := Generate(result, "")
	ins, ok := findByTitle(out, "Low Color Contrast")
	if !ok {
		t.Fatal("Expected Low Color Contrast insight")
	}
	if !almostEqual(ins.Confidence, 0.75) {
		t.Errorf("Expected fixed confidence 0.75, got %f", ins.Confidence)
	}
	if ins.Priority != PriorityLow {
		t.Errorf("Expected low priority, got %s", ins.Priority)
	}
}

func TestHighContrastColorsProduceNoInsight(t *testing.T) {
	result := types.AnalysisResult{
		Colors: []types.DominantColor{
			{Red: 0.1, Green: 0.1, Blue: 0.1},
			{Red: 0.9, Green: 0.9, Blue: 0.9},
		},
		QualityMetrics: types.QualityMetrics{
			Megapixels: 10, Sharpness: 0.9, Exposure: 0.5,
		},
	}

	out := Generate(result, "")
	if _, ok := findByTitle(out, "Low Color Contrast"); ok {
		t.Error("Did not expect a contrast insight for well-separated colors")
	}
}

func TestImageDescriptionPrefersCaption(t *testing.T) {
	result := types.AnalysisResult{
		Caption: &types.Caption{Text: "A dog playing fetch in a park", Confidence: 0.9},
		QualityMetrics: types.QualityMetrics{
			Megapixels: 10, Sharpness: 0.9, Exposure: 0.5,
		},
	}

	out := Generate(result, "Photograph featuring subject.")
	ins, ok := findByTitle(out, "Image Description")
	if !ok {
		t.Fatal("Expected Image Description insight")
	}
	if ins.Description != "A dog playing fetch in a park" {
		t.Errorf("Expected caption text, got %q", ins.Description)
	}
	if !almostEqual(ins.Confidence, 0.9) {
		t.Errorf("Expected caption confidence 0.9, got %f", ins.Confidence)
	}
}

func TestImageDescriptionCaptionFloor(t *testing.T) {
	result := types.AnalysisResult{
		Caption: &types.Caption{Text: "A dog", Confidence: 0.1},
		QualityMetrics: types.QualityMetrics{
			Megapixels: 10, Sharpness: 0.9, Exposure: 0.5,
		},
	}

	out := Generate(result, "")
	ins, _ := findByTitle(out, "Image Description")
	if !almostEqual(ins.Confidence, 0.6) {
		t.Errorf("Expected floored confidence 0.6, got %f", ins.Confidence)
	}
}

func TestImageDescriptionFallsBackToNarrative(t *testing.T) {
	result := types.AnalysisResult{
		Classifications: []types.Classification{{Identifier: "dog", Confidence: 0.9}},
		QualityMetrics: types.QualityMetrics{
			Megapixels: 10, Sharpness: 0.9, Exposure: 0.5,
		},
	}

	out := Generate(result, "Photograph featuring dog.")
	ins, ok := findByTitle(out, "Image Description")
	if !ok {
		t.Fatal("Expected narrative-backed Image Description insight")
	}
	if ins.Description != "Photograph featuring dog." {
		t.Errorf("Expected narrative text, got %q", ins.Description)
	}
	if !almostEqual(ins.Confidence, 0.9) {
		t.Errorf("Expected primary classification confidence 0.9, got %f", ins.Confidence)
	}
}

func TestImageDescriptionSkipsPlaceholderCaption(t *testing.T) {
	result := types.AnalysisResult{
		Caption: &types.Caption{Text: "Image.", Confidence: 0.9},
		QualityMetrics: types.QualityMetrics{
			Megapixels: 10, Sharpness: 0.9, Exposure: 0.5,
		},
	}

	out := Generate(result, "A real narrative.")
	ins, ok := findByTitle(out, "Image Description")
	if !ok {
		t.Fatal("Expected narrative fallback for placeholder caption")
	}
	if ins.Description != "A real narrative." {
		t.Errorf("Expected narrative text, got %q", ins.Description)
	}
}

func TestResolutionInsights(t *testing.T) {
	tests := []struct {
		name       string
		megapixels float64
		title      string
	}{
		{"high resolution", 24.0, "High Resolution Image"},
		{"limited resolution", 1.2, "Limited Resolution"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := types.AnalysisResult{
				QualityMetrics: types.QualityMetrics{
					Megapixels: tt.megapixels, Sharpness: 0.9, Exposure: 0.5,
				},
			}

			out := Generate(result, "")
			ins, ok := findByTitle(out, tt.title)
			if !ok {
				t.Fatalf("Expected %s insight", tt.title)
			}
			if !almostEqual(ins.Confidence, 1.0) {
				t.Errorf("Expected confidence 1.0, got %f", ins.Confidence)
			}
			if ins.SuggestedAction != ActionViewMetadata {
				t.Errorf("Expected viewMetadata action, got %s", ins.SuggestedAction)
			}
		})
	}
}

func TestQualityIssuesCarryDetail(t *testing.T) {
	result := types.AnalysisResult{
		QualityMetrics: types.QualityMetrics{
			Megapixels: 10, Sharpness: 0.9, Exposure: 0.5,
			Issues: []types.QualityIssue{
				{Kind: types.IssueSoftFocus, Detail: "Image appears soft (sharpness 0.30)"},
				{Kind: types.IssueOverexposed, Detail: "Image is overexposed (exposure 0.92)"},
			},
		},
	}

	out := Generate(result, "")
	soft, ok := findByTitle(out, "Soft Focus Detected")
	if !ok {
		t.Fatal("Expected Soft Focus Detected insight")
	}
	if soft.Description != "Image appears soft (sharpness 0.30)" {
		t.Errorf("Expected issue detail as description, got %q", soft.Description)
	}
	if exposure, ok := findByTitle(out, "Exposure Issue"); !ok || !almostEqual(exposure.Confidence, 0.85) {
		t.Errorf("Expected Exposure Issue with confidence 0.85, got %+v ok=%v", exposure, ok)
	}
}

func TestFirstSceneAboveKeepsGivenOrder(t *testing.T) {
	// The first qualifying scene wins even when a later scene scores
	// higher.
	scenes := []types.Scene{
		{Identifier: "beach", Confidence: 0.75},
		{Identifier: "sunset", Confidence: 0.95},
	}

	scene, ok := firstSceneAbove(scenes, 0.7)
	if !ok {
		t.Fatal("Expected a qualifying scene")
	}
	if scene.Identifier != "beach" {
		t.Errorf("Expected first qualifying scene beach, got %s", scene.Identifier)
	}
}

func TestSceneInsights(t *testing.T) {
	result := types.AnalysisResult{
		Scenes: []types.Scene{{Identifier: "city_street", Confidence: 0.8}},
		QualityMetrics: types.QualityMetrics{
			Megapixels: 10, Sharpness: 0.9, Exposure: 0.5,
		},
	}

	out := Generate(result, "")

	// The same scene clears both the 0.6 organization and 0.7 context
	// thresholds; both insights are kept.
	match, ok := findByTitle(out, "Collection Match")
	if !ok {
		t.Fatal("Expected Collection Match insight")
	}
	if !strings.Contains(match.Description, "city street") {
		t.Errorf("Expected underscore normalization in %q", match.Description)
	}
	if _, ok := findByTitle(out, "Scene Identified"); !ok {
		t.Error("Expected Scene Identified insight")
	}
}

func TestSuggestedTags(t *testing.T) {
	result := types.AnalysisResult{
		SmartTags: []types.SmartTag{
			{Name: "dog", Confidence: 0.9},
			{Name: "park", Confidence: 0.8},
			{Name: "summer", Confidence: 0.7},
			{Name: "ignored", Confidence: 0.1},
		},
		QualityMetrics: types.QualityMetrics{
			Megapixels: 10, Sharpness: 0.9, Exposure: 0.5,
		},
	}

	out := Generate(result, "")
	ins, ok := findByTitle(out, "Suggested Tags")
	if !ok {
		t.Fatal("Expected Suggested Tags insight")
	}
	if ins.Description != "dog, park, summer" {
		t.Errorf("Expected first three tag names, got %q", ins.Description)
	}
	if !almostEqual(ins.Confidence, 0.8) {
		t.Errorf("Expected mean of top three (0.8), got %f", ins.Confidence)
	}
}

func TestExportReady(t *testing.T) {
	result := types.AnalysisResult{
		Quality: types.QualityHigh,
		QualityMetrics: types.QualityMetrics{
			Megapixels: 12.0, Sharpness: 0.9, Exposure: 0.5,
		},
	}

	out := Generate(result, "")
	ins, ok := findByTitle(out, "Export Ready")
	if !ok {
		t.Fatal("Expected Export Ready insight")
	}
	if ins.SuggestedAction != ActionExport {
		t.Errorf("Expected export action, got %s", ins.SuggestedAction)
	}

	// High quality alone is not enough under 8 MP.
	result.QualityMetrics.Megapixels = 6.0
	out = Generate(result, "")
	if _, ok := findByTitle(out, "Export Ready"); ok {
		t.Error("Did not expect Export Ready below 8 megapixels")
	}
}

func TestCompositionInsight(t *testing.T) {
	result := types.AnalysisResult{
		Saliency: &types.SaliencyAnalysis{
			CroppingSuggestions: []types.CroppingSuggestion{
				{Rect: types.Rect{X: 0.1, Y: 0.1, W: 0.5, H: 0.5}, Confidence: 0.88},
			},
			VisualBalance: types.VisualBalance{Score: 0.5, Feedback: "Visual weight leans to one side; recentering could help"},
		},
		QualityMetrics: types.QualityMetrics{
			Megapixels: 10, Sharpness: 0.9, Exposure: 0.5,
		},
	}

	out := Generate(result, "")
	ins, ok := findByTitle(out, "Better Crop Available")
	if !ok {
		t.Fatal("Expected Better Crop Available insight")
	}
	if !almostEqual(ins.Confidence, 0.88) {
		t.Errorf("Expected best-suggestion confidence 0.88, got %f", ins.Confidence)
	}
	if ins.Description != "Visual weight leans to one side; recentering could help" {
		t.Errorf("Expected balance feedback as description, got %q", ins.Description)
	}
	if ins.SuggestedAction != ActionCrop {
		t.Errorf("Expected crop action, got %s", ins.SuggestedAction)
	}
}

func TestNormalizeDefaults(t *testing.T) {
	ins := normalize(Insight{Type: TypeQuality, Confidence: 1.7})
	if ins.SuggestedAction != ActionNone {
		t.Errorf("Expected none action default, got %s", ins.SuggestedAction)
	}
	if ins.Category != "Quality" {
		t.Errorf("Expected derived category Quality, got %q", ins.Category)
	}
	if ins.Confidence != 1.0 {
		t.Errorf("Expected confidence clamped to 1.0, got %f", ins.Confidence)
	}

	if got := normalize(Insight{Confidence: -0.2}).Confidence; got != 0 {
		t.Errorf("Expected confidence clamped to 0, got %f", got)
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	result := types.AnalysisResult{
		Objects:   []types.DetectedObject{{Identifier: "face", Confidence: 0.9}},
		Scenes:    []types.Scene{{Identifier: "park", Confidence: 0.8}},
		Landmarks: []types.Landmark{{Name: "Arc de Triomphe", Confidence: 0.7}},
		QualityMetrics: types.QualityMetrics{
			Megapixels: 10, Sharpness: 0.3, Exposure: 0.5,
		},
	}

	first := Generate(result, "narrative.")
	second := Generate(result, "narrative.")
	if len(first) != len(second) {
		t.Fatalf("Insight counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Title != second[i].Title || first[i].Confidence != second[i].Confidence {
			t.Errorf("Insight %d differs between runs", i)
		}
	}
}
