// Package purpose classifies an analysis result into a high-level image
// genre such as portrait, landscape, or document.
package purpose

import (
	"strings"

	"github.com/vscarpenter/image-insights/pkg/types"
)

// Purpose is the inferred high-level genre of a photograph
type Purpose string

// Purpose values. Architecture, Wildlife, and ProductPhoto are reserved for
// future signal sources: they have narrative renderers but Classify never
// emits them.
const (
	Portrait     Purpose = "portrait"
	GroupPhoto   Purpose = "groupPhoto"
	Landscape    Purpose = "landscape"
	Architecture Purpose = "architecture"
	Wildlife     Purpose = "wildlife"
	Food         Purpose = "food"
	Document     Purpose = "document"
	Screenshot   Purpose = "screenshot"
	ProductPhoto Purpose = "productPhoto"
	General      Purpose = "general"
)

var foodTerms = []string{"food", "meal", "dish", "cuisine", "dessert", "snack", "plate", "bread", "pizza"}

var foodScenes = []string{"food", "restaurant"}

var outdoorScenes = []string{"outdoor", "nature", "landscape"}

// uiMarkers are OCR fragments that indicate application chrome (menu bars,
// the macOS command glyph) rather than document text.
var uiMarkers = []string{"⌘", "file", "edit"}

// Classify assigns exactly one Purpose to an analysis result. It is total:
// any input yields a value, with General as the fallback. The checks run in
// a fixed order and the first match wins.
func Classify(result types.AnalysisResult) Purpose {
	faces := countObjects(result.Objects, "face")
	people := countObjects(result.Objects, "person")
	totalPeople := faces
	if people > totalPeople {
		totalPeople = people
	}

	if totalPeople == 1 && faces > 0 {
		return Portrait
	}
	if totalPeople > 1 {
		return GroupPhoto
	}

	if hasFoodSignal(result) {
		return Food
	}

	// Region count over 100 is a crude stand-in for true text-area
	// coverage; the document/screenshot thresholds are tuned to it.
	textCoverage := float64(len(result.TextRegions)) / 100.0
	if containsUIMarkers(result.TextRegions) && textCoverage > 0.25 {
		return Screenshot
	}
	if textCoverage > 0.35 {
		return Document
	}

	for _, scene := range result.Scenes {
		if containsAny(scene.Identifier, outdoorScenes) {
			return Landscape
		}
	}

	return General
}

func countObjects(objects []types.DetectedObject, identifier string) int {
	n := 0
	for _, obj := range objects {
		if obj.Identifier == identifier {
			n++
		}
	}
	return n
}

func hasFoodSignal(result types.AnalysisResult) bool {
	for _, c := range result.Classifications {
		if containsAny(c.Identifier, foodTerms) {
			return true
		}
	}
	for _, s := range result.Scenes {
		if containsAny(s.Identifier, foodTerms) || containsAny(s.Identifier, foodScenes) {
			return true
		}
	}
	return false
}

func containsUIMarkers(regions []types.TextRegion) bool {
	for _, r := range regions {
		if containsAny(r.Text, uiMarkers) {
			return true
		}
	}
	return false
}

func containsAny(s string, terms []string) bool {
	lower := strings.ToLower(s)
	for _, term := range terms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}
