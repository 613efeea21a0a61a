package insights

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/vscarpenter/image-insights/pkg/types"
)

// ruleInput bundles everything a rule may inspect. The narrative is the
// synthesized description for the same result, used by the content rule as a
// caption fallback.
type ruleInput struct {
	result    types.AnalysisResult
	narrative string
}

type ruleFunc func(ruleInput) []Insight

// rules is the fixed, ordered list of independent insight generators. Each
// rule is pure and may contribute zero or more insights; emission order here
// is the final tie-break order in ranking.
var rules = []ruleFunc{
	compositionRule,
	qualityRule,
	contentRule,
	technicalRule,
	accessibilityRule,
	privacyRule,
	organizationRule,
	enhancementRule,
	contextRule,
	discoveryRule,
	actionRule,
}

// Generate runs every rule over the analysis result and concatenates their
// insights in rule order. It performs no deduplication: two rules producing
// insights with the same title both contribute.
func Generate(result types.AnalysisResult, narrative string) []Insight {
	in := ruleInput{result: result, narrative: narrative}
	var out []Insight
	for _, rule := range rules {
		for _, ins := range rule(in) {
			out = append(out, normalize(ins))
		}
	}
	return out
}

func compositionRule(in ruleInput) []Insight {
	saliency := in.result.Saliency
	if saliency == nil || len(saliency.CroppingSuggestions) == 0 {
		return nil
	}
	desc := "A tighter crop would strengthen the composition"
	if saliency.VisualBalance.Feedback != "" {
		desc = saliency.VisualBalance.Feedback
	}
	return []Insight{{
		Type:            TypeCompositional,
		Title:           "Better Crop Available",
		Description:     desc,
		Confidence:      saliency.CroppingSuggestions[0].Confidence,
		SuggestedAction: ActionCrop,
		Priority:        PriorityHigh,
		Icon:            "crop",
	}}
}

func qualityRule(in ruleInput) []Insight {
	var out []Insight
	for _, issue := range in.result.QualityMetrics.Issues {
		switch issue.Kind {
		case types.IssueSoftFocus:
			out = append(out, Insight{
				Type:            TypeQuality,
				Title:           "Soft Focus Detected",
				Description:     issue.Detail,
				Confidence:      0.9,
				SuggestedAction: ActionEnhance,
				Priority:        PriorityHigh,
				Icon:            "camera.metering.spot",
			})
		case types.IssueUnderexposed, types.IssueOverexposed:
			out = append(out, Insight{
				Type:            TypeQuality,
				Title:           "Exposure Issue",
				Description:     issue.Detail,
				Confidence:      0.85,
				SuggestedAction: ActionEnhance,
				Priority:        PriorityHigh,
				Icon:            "sun.max",
			})
		case types.IssueLowResolution:
			out = append(out, Insight{
				Type:        TypeQuality,
				Title:       "Low Resolution",
				Description: issue.Detail,
				Confidence:  1.0,
				Priority:    PriorityMedium,
				Icon:        "rectangle.compress.vertical",
			})
		}
	}
	return out
}

func contentRule(in ruleInput) []Insight {
	var out []Insight
	result := in.result

	if caption := result.Caption; caption != nil && caption.Text != "" && !strings.EqualFold(caption.Text, "image.") {
		out = append(out, Insight{
			Type:        TypeContent,
			Title:       "Image Description",
			Description: caption.Text,
			Confidence:  maxFloat(0.6, caption.Confidence),
			Priority:    PriorityMedium,
			Icon:        "text.below.photo",
		})
	} else if in.narrative != "" && !strings.EqualFold(in.narrative, "image.") {
		out = append(out, Insight{
			Type:        TypeContent,
			Title:       "Image Description",
			Description: in.narrative,
			Confidence:  maxFloat(0.55, primaryConfidence(result.Classifications)),
			Priority:    PriorityMedium,
			Icon:        "text.below.photo",
		})
	}

	if chars := totalTextCharacters(result.TextRegions); chars >= 30 {
		out = append(out, Insight{
			Type:            TypeContent,
			Title:           "Text Content Detected",
			Description:     fmt.Sprintf("%d characters of text recognized in this image", chars),
			Confidence:      minFloat(0.95, float64(chars)/120.0),
			SuggestedAction: ActionCopy,
			Priority:        PriorityMedium,
			Metadata:        map[string]string{"characters": fmt.Sprintf("%d", chars)},
			Icon:            "doc.text",
		})
	}

	if hasPeopleObject(result.Objects) {
		confidence := 0.85
		if len(result.RecognizedPeople) > 0 && result.RecognizedPeople[0].Confidence > confidence {
			confidence = result.RecognizedPeople[0].Confidence
		}
		out = append(out, Insight{
			Type:            TypeContent,
			Title:           "People Detected",
			Description:     "This photo contains people you may want to tag",
			Confidence:      confidence,
			SuggestedAction: ActionTag,
			Priority:        PriorityHigh,
			Icon:            "person.crop.rectangle",
		})
	}

	return out
}

func technicalRule(in ruleInput) []Insight {
	mp := in.result.QualityMetrics.Megapixels
	switch {
	case mp > 12:
		return []Insight{{
			Type:            TypeTechnical,
			Title:           "High Resolution Image",
			Description:     fmt.Sprintf("%.1f megapixels, suitable for large prints", mp),
			Confidence:      1.0,
			SuggestedAction: ActionViewMetadata,
			Priority:        PriorityLow,
			Metadata:        map[string]string{"megapixels": fmt.Sprintf("%.1f", mp)},
			Icon:            "photo.badge.checkmark",
		}}
	case mp < 2:
		return []Insight{{
			Type:            TypeTechnical,
			Title:           "Limited Resolution",
			Description:     fmt.Sprintf("%.1f megapixels, fine detail may be lost when printing", mp),
			Confidence:      1.0,
			SuggestedAction: ActionViewMetadata,
			Priority:        PriorityMedium,
			Metadata:        map[string]string{"megapixels": fmt.Sprintf("%.1f", mp)},
			Icon:            "photo",
		}}
	}
	return nil
}

func accessibilityRule(in ruleInput) []Insight {
	var out []Insight
	result := in.result

	if len(result.TextRegions) > 0 {
		mean := meanTextConfidence(result.TextRegions)
		if mean < 0.7 {
			out = append(out, Insight{
				Type:            TypeAccessibility,
				Title:           "Text Readability",
				Description:     "Some text in this image may be difficult to read",
				Confidence:      1 - mean,
				SuggestedAction: ActionEnhance,
				Priority:        PriorityMedium,
				Icon:            "textformat.size",
			})
		}
	}

	if len(result.Colors) >= 2 {
		delta := result.Colors[0].Brightness() - result.Colors[1].Brightness()
		if delta < 0 {
			delta = -delta
		}
		if delta < 0.3 {
			out = append(out, Insight{
				Type:            TypeAccessibility,
				Title:           "Low Color Contrast",
				Description:     "The dominant colors are close in brightness, which can reduce legibility",
				Confidence:      0.75,
				SuggestedAction: ActionEnhance,
				Priority:        PriorityLow,
				Icon:            "circle.lefthalf.filled",
			})
		}
	}

	return out
}

func privacyRule(in ruleInput) []Insight {
	var out []Insight
	result := in.result

	faces := 0
	for _, obj := range result.Objects {
		if obj.Identifier == "face" {
			faces++
		}
	}
	if faces > 0 {
		out = append(out, Insight{
			Type:        TypePrivacy,
			Title:       "Faces Present",
			Description: fmt.Sprintf("%d face(s) detected; consider consent before sharing", faces),
			Confidence:  0.95,
			Priority:    PriorityCritical,
			Metadata:    map[string]string{"faces": fmt.Sprintf("%d", faces)},
			Icon:        "eye.slash",
		})
	}

	if totalTextCharacters(result.TextRegions) > 50 {
		out = append(out, Insight{
			Type:            TypePrivacy,
			Title:           "Readable Text Content",
			Description:     "The image contains readable text that may include personal information",
			Confidence:      0.85,
			SuggestedAction: ActionCopy,
			Priority:        PriorityHigh,
			Icon:            "lock.doc",
		})
	}

	return out
}

func organizationRule(in ruleInput) []Insight {
	var out []Insight
	result := in.result

	if len(result.SmartTags) > 0 {
		top := result.SmartTags
		if len(top) > 3 {
			top = top[:3]
		}
		sum := 0.0
		names := make([]string, 0, len(top))
		for _, tag := range top {
			sum += tag.Confidence
			names = append(names, tag.Name)
		}
		out = append(out, Insight{
			Type:            TypeOrganization,
			Title:           "Suggested Tags",
			Description:     strings.Join(names, ", "),
			Confidence:      sum / float64(len(top)),
			SuggestedAction: ActionTag,
			Priority:        PriorityMedium,
			Icon:            "tag",
		})
	}

	if scene, ok := firstSceneAbove(result.Scenes, 0.6); ok {
		out = append(out, Insight{
			Type:            TypeOrganization,
			Title:           "Collection Match",
			Description:     fmt.Sprintf("This photo would fit a %q collection", strings.ReplaceAll(scene.Identifier, "_", " ")),
			Confidence:      scene.Confidence,
			SuggestedAction: ActionAddToCollection,
			Priority:        PriorityLow,
			Icon:            "folder.badge.plus",
		})
	}

	return out
}

func enhancementRule(in ruleInput) []Insight {
	var out []Insight
	metrics := in.result.QualityMetrics

	if metrics.Sharpness < 0.5 {
		out = append(out, Insight{
			Type:            TypeEnhancement,
			Title:           "Sharpness Enhancement",
			Description:     "Sharpening would improve the perceived detail of this image",
			Confidence:      1 - metrics.Sharpness,
			SuggestedAction: ActionEnhance,
			Priority:        PriorityHigh,
			Icon:            "wand.and.stars",
		})
	}

	// Exposure branches are mutually exclusive by construction.
	if metrics.Exposure < 0.3 {
		out = append(out, Insight{
			Type:            TypeEnhancement,
			Title:           "Brighten Image",
			Description:     "The image is underexposed and would benefit from brightening",
			Confidence:      (0.3 - metrics.Exposure) / 0.3,
			SuggestedAction: ActionEnhance,
			Priority:        PriorityHigh,
			Icon:            "sun.max",
		})
	} else if metrics.Exposure > 0.8 {
		out = append(out, Insight{
			Type:            TypeEnhancement,
			Title:           "Reduce Exposure",
			Description:     "The image is overexposed; lowering exposure would recover highlights",
			Confidence:      (metrics.Exposure - 0.8) / 0.2,
			SuggestedAction: ActionEnhance,
			Priority:        PriorityHigh,
			Icon:            "sun.min",
		})
	}

	return out
}

func contextRule(in ruleInput) []Insight {
	scene, ok := firstSceneAbove(in.result.Scenes, 0.7)
	if !ok {
		return nil
	}
	return []Insight{{
		Type:        TypeContext,
		Title:       "Scene Identified",
		Description: fmt.Sprintf("This looks like a %s scene", strings.ReplaceAll(scene.Identifier, "_", " ")),
		Confidence:  scene.Confidence,
		Priority:    PriorityLow,
		Icon:        "mappin.and.ellipse",
	}}
}

func discoveryRule(in ruleInput) []Insight {
	var out []Insight
	result := in.result

	if len(result.Landmarks) > 0 {
		out = append(out, Insight{
			Type:            TypeDiscovery,
			Title:           "Landmark Identified",
			Description:     result.Landmarks[0].Name,
			Confidence:      result.Landmarks[0].Confidence,
			SuggestedAction: ActionNavigate,
			Priority:        PriorityHigh,
			Icon:            "building.columns",
		})
	}

	if len(result.Barcodes) > 0 {
		out = append(out, Insight{
			Type:            TypeDiscovery,
			Title:           "Barcode Detected",
			Description:     fmt.Sprintf("%d machine-readable code(s) found", len(result.Barcodes)),
			Confidence:      0.95,
			SuggestedAction: ActionCopy,
			Priority:        PriorityHigh,
			Icon:            "barcode.viewfinder",
		})
	}

	return out
}

func actionRule(in ruleInput) []Insight {
	var out []Insight
	result := in.result

	if result.Quality == types.QualityHigh && result.QualityMetrics.Megapixels > 8 {
		out = append(out, Insight{
			Type:            TypeAction,
			Title:           "Export Ready",
			Description:     "High quality image suitable for export or printing",
			Confidence:      0.85,
			SuggestedAction: ActionExport,
			Priority:        PriorityLow,
			Icon:            "square.and.arrow.up.on.square",
		})
	}

	if len(result.RecognizedPeople) > 0 {
		out = append(out, Insight{
			Type:            TypeAction,
			Title:           "Share Suggestion",
			Description:     fmt.Sprintf("Share this photo with %s", result.RecognizedPeople[0].Name),
			Confidence:      result.RecognizedPeople[0].Confidence,
			SuggestedAction: ActionShare,
			Priority:        PriorityMedium,
			Icon:            "square.and.arrow.up",
		})
	}

	return out
}

// firstSceneAbove returns the first scene, in given order, whose confidence
// exceeds the threshold. Deliberately not the max-confidence scene.
func firstSceneAbove(scenes []types.Scene, threshold float64) (types.Scene, bool) {
	for _, scene := range scenes {
		if scene.Confidence > threshold {
			return scene, true
		}
	}
	return types.Scene{}, false
}

func hasPeopleObject(objects []types.DetectedObject) bool {
	for _, obj := range objects {
		lower := strings.ToLower(obj.Identifier)
		if strings.Contains(lower, "face") || strings.Contains(lower, "person") {
			return true
		}
	}
	return false
}

func totalTextCharacters(regions []types.TextRegion) int {
	total := 0
	for _, r := range regions {
		total += utf8.RuneCountInString(r.Text)
	}
	return total
}

func meanTextConfidence(regions []types.TextRegion) float64 {
	sum := 0.0
	for _, r := range regions {
		sum += r.Confidence
	}
	return sum / float64(len(regions))
}

func primaryConfidence(classifications []types.Classification) float64 {
	if len(classifications) == 0 {
		return 0
	}
	return classifications[0].Confidence
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
