// Package imageinsights turns a multi-modal image analysis result into
// human-readable output: a purpose-aware narrative describing the image and
// a bounded, ranked list of actionable insights.
//
// Basic usage:
//
//	package main
//
//	import (
//		"fmt"
//
//		imageinsights "github.com/vscarpenter/image-insights"
//		"github.com/vscarpenter/image-insights/pkg/types"
//	)
//
//	func main() {
//		engine := imageinsights.New()
//
//		result := types.AnalysisResult{
//			Objects: []types.DetectedObject{{Identifier: "face", Confidence: 0.92}},
//			QualityMetrics: types.QualityMetrics{
//				Megapixels: 10, Sharpness: 0.9, Exposure: 0.5,
//			},
//			Quality: types.QualityHigh,
//		}
//
//		report := engine.Analyze(result)
//		fmt.Println(report.Narrative)
//		for _, ins := range report.Insights {
//			fmt.Printf("[%s] %s (%.2f)\n", ins.Priority, ins.Title, ins.Confidence)
//		}
//	}
//
// The package consists of four components, evaluated over the same
// analysis-result input:
//
// 1. Purpose classification (pkg/purpose): assigns one discrete genre label
// 2. Narrative synthesis (pkg/narrative): renders a short description for that genre
// 3. Insight generation (pkg/insights): independent per-domain rule functions
// 4. Insight ranking (pkg/insights): priority/confidence sort with a fixed cap
//
// All four are pure, synchronous transformations over an in-memory input.
// They perform no I/O and keep no state, so a single Engine may be used
// concurrently for different results. Producing the AnalysisResult itself is
// the job of the provider packages (pkg/vision, pkg/quality, pkg/captioner)
// or of an external analysis pipeline.
package imageinsights

import (
	"image"

	"github.com/vscarpenter/image-insights/pkg/insights"
	"github.com/vscarpenter/image-insights/pkg/narrative"
	"github.com/vscarpenter/image-insights/pkg/purpose"
	"github.com/vscarpenter/image-insights/pkg/quality"
	"github.com/vscarpenter/image-insights/pkg/types"
	"github.com/vscarpenter/image-insights/pkg/vision"
)

// Version of the image insights library
const Version = "1.0.0"

// Options configures an Engine
type Options struct {
	// EnabledTypes restricts which insight types survive generation. The
	// filter is applied before ranking and never reorders insights. Empty
	// means all types are enabled.
	EnabledTypes []insights.Type
}

// Engine derives narratives and ranked insights from analysis results
type Engine struct {
	vision  *vision.Analyzer
	meter   *quality.Meter
	enabled map[insights.Type]bool
}

// New creates an Engine with default providers and every insight type
// enabled
func New() *Engine {
	return &Engine{
		vision: vision.New(),
		meter:  quality.New(),
	}
}

// NewWithOptions creates an Engine with custom options
func NewWithOptions(opts Options) *Engine {
	e := New()
	if len(opts.EnabledTypes) > 0 {
		e.enabled = make(map[insights.Type]bool, len(opts.EnabledTypes))
		for _, t := range opts.EnabledTypes {
			e.enabled[t] = true
		}
	}
	return e
}

// Report is the derived output for one analysis result
type Report struct {
	Purpose   purpose.Purpose    `json:"purpose"`
	Narrative string             `json:"narrative"`
	Insights  []insights.Insight `json:"insights"`
}

// Analyze classifies the image's purpose, synthesizes its narrative, and
// returns the ranked insight list. It is deterministic: identical inputs
// yield identical reports.
func (e *Engine) Analyze(result types.AnalysisResult) Report {
	p := purpose.Classify(result)
	text := narrative.Synthesize(p, result)
	generated := e.filter(insights.Generate(result, text))

	return Report{
		Purpose:   p,
		Narrative: text,
		Insights:  insights.Rank(generated),
	}
}

// BuildResult derives the locally computable analysis signals from pixels:
// saliency, dominant colors, and quality metrics. Detection signals (objects,
// scenes, text, people) come from external providers and are left empty; a
// captioner can fill in caption, classifications, and tags afterwards.
func (e *Engine) BuildResult(img image.Image) types.AnalysisResult {
	metrics := e.meter.Measure(img)
	return types.AnalysisResult{
		Colors:         e.vision.DominantColors(img),
		Saliency:       e.vision.AnalyzeSaliency(img),
		QualityMetrics: metrics,
		Quality:        e.meter.Level(metrics),
	}
}

// AnalyzeImage is a convenience that builds a local result from pixels and
// analyzes it in one step.
func (e *Engine) AnalyzeImage(img image.Image) (Report, types.AnalysisResult) {
	result := e.BuildResult(img)
	return e.Analyze(result), result
}

func (e *Engine) filter(list []insights.Insight) []insights.Insight {
	if e.enabled == nil {
		return list
	}
	kept := list[:0:0]
	for _, ins := range list {
		if e.enabled[ins.Type] {
			kept = append(kept, ins)
		}
	}
	return kept
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}
