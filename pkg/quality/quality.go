// Package quality measures image quality signals: resolution, sharpness,
// exposure, and the concrete issues derived from them.
package quality

import (
	"fmt"
	"image"

	"github.com/vscarpenter/image-insights/pkg/types"
)

// Meter computes quality metrics from raw pixels
type Meter struct {
	config Config
}

// Config holds thresholds for issue detection
type Config struct {
	SoftFocusBelow    float64
	UnderexposedBelow float64
	OverexposedAbove  float64
	LowResolutionMP   float64
	MaxSampleDim      int
}

// New creates a Meter with default thresholds. The defaults line up with
// the trigger bands of the enhancement insight rules.
func New() *Meter {
	return &Meter{
		config: Config{
			SoftFocusBelow:    0.5,
			UnderexposedBelow: 0.3,
			OverexposedAbove:  0.8,
			LowResolutionMP:   2.0,
			MaxSampleDim:      256,
		},
	}
}

// NewWithConfig creates a Meter with custom thresholds
func NewWithConfig(config Config) *Meter {
	return &Meter{config: config}
}

// Measure computes quality metrics for an image. Sharpness and exposure are
// sampled on a bounded grid so cost stays flat regardless of resolution.
func (m *Meter) Measure(img image.Image) types.QualityMetrics {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	metrics := types.QualityMetrics{
		Megapixels: float64(width*height) / 1e6,
	}
	if width == 0 || height == 0 {
		return metrics
	}

	step := 1
	if max := m.config.MaxSampleDim; max > 0 {
		if width/max > step {
			step = width / max
		}
		if height/max > step {
			step = height / max
		}
	}

	var lumaSum, gradientSum float64
	samples := 0
	for y := bounds.Min.Y; y < bounds.Max.Y-step; y += step {
		for x := bounds.Min.X; x < bounds.Max.X-step; x += step {
			l := luminance(img, x, y)
			lumaSum += l

			// Horizontal and vertical neighbor deltas approximate the
			// local gradient.
			dx := l - luminance(img, x+step, y)
			dy := l - luminance(img, x, y+step)
			if dx < 0 {
				dx = -dx
			}
			if dy < 0 {
				dy = -dy
			}
			gradientSum += dx + dy
			samples++
		}
	}

	if samples > 0 {
		metrics.Exposure = clamp01(lumaSum / float64(samples))
		// Mean gradients are small even on crisp images; scale into [0,1].
		metrics.Sharpness = clamp01(gradientSum / float64(samples) * 10)
	}

	metrics.Issues = m.issues(metrics)
	return metrics
}

// Level maps metrics to the coarse overall quality rating
func (m *Meter) Level(metrics types.QualityMetrics) types.QualityLevel {
	switch {
	case len(metrics.Issues) == 0 && metrics.Megapixels >= 8:
		return types.QualityHigh
	case len(metrics.Issues) >= 2 || metrics.Megapixels < m.config.LowResolutionMP:
		return types.QualityLow
	default:
		return types.QualityMedium
	}
}

func (m *Meter) issues(metrics types.QualityMetrics) []types.QualityIssue {
	var issues []types.QualityIssue
	if metrics.Sharpness < m.config.SoftFocusBelow {
		issues = append(issues, types.QualityIssue{
			Kind:   types.IssueSoftFocus,
			Detail: fmt.Sprintf("Image appears soft (sharpness %.2f)", metrics.Sharpness),
		})
	}
	if metrics.Exposure < m.config.UnderexposedBelow {
		issues = append(issues, types.QualityIssue{
			Kind:   types.IssueUnderexposed,
			Detail: fmt.Sprintf("Image is underexposed (exposure %.2f)", metrics.Exposure),
		})
	} else if metrics.Exposure > m.config.OverexposedAbove {
		issues = append(issues, types.QualityIssue{
			Kind:   types.IssueOverexposed,
			Detail: fmt.Sprintf("Image is overexposed (exposure %.2f)", metrics.Exposure),
		})
	}
	if metrics.Megapixels < m.config.LowResolutionMP {
		issues = append(issues, types.QualityIssue{
			Kind:   types.IssueLowResolution,
			Detail: fmt.Sprintf("Resolution is low (%.1f MP)", metrics.Megapixels),
		})
	}
	return issues
}

func luminance(img image.Image, x, y int) float64 {
	r, g, b, _ := img.At(x, y).RGBA()
	return (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 65535.0
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
