// Package narrative renders a short natural-language description of an
// image from its analysis result, tailored to the image's inferred purpose.
package narrative

import (
	"fmt"
	"strings"

	"github.com/vscarpenter/image-insights/pkg/purpose"
	"github.com/vscarpenter/image-insights/pkg/types"
)

// backgroundTerms are classification identifiers that never make a good
// narrative subject.
var backgroundTerms = []string{
	"background", "backdrop", "indoor", "outdoor",
	"wall", "floor", "texture", "pattern", "blur", "abstract",
}

var outdoorSettingTerms = []string{"outdoor", "nature", "landscape", "park", "garden", "field"}

// Synthesize renders a one-to-three sentence narrative for the given purpose
// and analysis result. It is total: the returned text is never empty and
// always ends with a period.
func Synthesize(p purpose.Purpose, result types.AnalysisResult) string {
	switch p {
	case purpose.Portrait:
		return renderPortrait(result)
	case purpose.GroupPhoto:
		return renderGroupPhoto(result)
	case purpose.Landscape:
		return renderLandscape(result)
	case purpose.Architecture:
		return renderArchitecture(result)
	case purpose.Wildlife:
		return renderWildlife(result)
	case purpose.Food:
		return renderFood(result)
	case purpose.Document:
		return renderDocument(result)
	case purpose.Screenshot:
		return renderScreenshot(result)
	case purpose.ProductPhoto:
		return renderProduct(result)
	default:
		return renderGeneral(result)
	}
}

func renderPortrait(result types.AnalysisResult) string {
	var base string
	switch {
	case len(result.RecognizedPeople) > 0:
		base = "Portrait of " + result.RecognizedPeople[0].Name
	case hasPersonObject(result.Objects):
		base = "Portrait photograph featuring a person"
	default:
		base = "Portrait photograph featuring " + titleCase(primarySubject(result.Classifications))
	}

	if result.Saliency != nil && result.Saliency.VisualBalance.Score > 0.7 {
		base += ", with balanced framing"
	}

	return base + ". " + describeLighting(result.Colors) + "."
}

func renderGroupPhoto(result types.AnalysisResult) string {
	n := len(result.RecognizedPeople)
	if n == 0 {
		n = 2
	}
	return fmt.Sprintf("Group photograph with %d people. %s.", n, describeLighting(result.Colors))
}

func renderLandscape(result types.AnalysisResult) string {
	var base string
	if len(result.Landmarks) > 0 {
		base = "Scenic view of " + result.Landmarks[0].Name
	} else {
		subject := "outdoor scene"
		if len(result.Scenes) > 0 {
			subject = normalizeIdentifier(result.Scenes[0].Identifier)
		}
		base = "Landscape photograph of " + subject
	}
	return fmt.Sprintf("%s, %s.", base, lowerFirst(describeLighting(result.Colors)))
}

func renderArchitecture(result types.AnalysisResult) string {
	subject := primarySubjectOr(result.Classifications, "a building")
	return fmt.Sprintf("Architectural photograph of %s. %s.", subject, describeLighting(result.Colors))
}

func renderWildlife(result types.AnalysisResult) string {
	subject := primarySubjectOr(result.Classifications, "an animal")
	return fmt.Sprintf("Wildlife photograph of %s. %s.", subject, describeLighting(result.Colors))
}

func renderFood(result types.AnalysisResult) string {
	subject := primarySubjectOr(result.Classifications, "a prepared dish")
	return fmt.Sprintf("Food photograph of %s. %s.", subject, describeLighting(result.Colors))
}

func renderDocument(result types.AnalysisResult) string {
	return fmt.Sprintf("Document with %d recognized text elements.", len(result.TextRegions))
}

func renderScreenshot(result types.AnalysisResult) string {
	return fmt.Sprintf("Screenshot containing %d text elements.", len(result.TextRegions))
}

func renderProduct(result types.AnalysisResult) string {
	subject := primarySubjectOr(result.Classifications, "an item")
	return fmt.Sprintf("Product photograph of %s. %s.", subject, describeLighting(result.Colors))
}

func renderGeneral(result types.AnalysisResult) string {
	subject := primarySubject(result.Classifications)
	base := "Photograph featuring " + subject
	if hasOutdoorSetting(result.Classifications) {
		base += " in an outdoor setting"
	}
	return base + ". " + describeLighting(result.Colors) + "."
}

// describeLighting derives a lighting descriptor from the most dominant
// color's brightness. Shared by every renderer that needs a lighting clause.
func describeLighting(colors []types.DominantColor) string {
	if len(colors) == 0 {
		return "Natural lighting"
	}
	brightness := colors[0].Brightness()
	switch {
	case brightness > 0.7:
		return "Bright, high-key lighting creates an airy atmosphere"
	case brightness < 0.3:
		return "Low-key lighting with dramatic shadows"
	default:
		return "Natural, balanced lighting"
	}
}

// primarySubject returns the first classification identifier that is not a
// background term, normalized for display. Defaults to "subject".
func primarySubject(classifications []types.Classification) string {
	return primarySubjectOr(classifications, "subject")
}

func primarySubjectOr(classifications []types.Classification, fallback string) string {
	for _, c := range classifications {
		if isBackgroundTerm(c.Identifier) {
			continue
		}
		return normalizeIdentifier(c.Identifier)
	}
	return fallback
}

func isBackgroundTerm(identifier string) bool {
	lower := strings.ToLower(identifier)
	for _, term := range backgroundTerms {
		if lower == term {
			return true
		}
	}
	return false
}

func hasPersonObject(objects []types.DetectedObject) bool {
	for _, obj := range objects {
		if obj.Identifier == "face" || obj.Identifier == "person" {
			return true
		}
	}
	return false
}

func hasOutdoorSetting(classifications []types.Classification) bool {
	for _, c := range classifications {
		lower := strings.ToLower(c.Identifier)
		for _, term := range outdoorSettingTerms {
			if strings.Contains(lower, term) {
				return true
			}
		}
	}
	return false
}

func normalizeIdentifier(identifier string) string {
	return strings.ReplaceAll(identifier, "_", " ")
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
