// Package vision derives composition signals from raw pixels: suggested
// crop regions, a visual balance score, and dominant colors. It is a local,
// model-free provider for the saliency and color portions of an analysis
// result.
package vision

import (
	"image"
	"math"
	"sort"

	"github.com/vscarpenter/image-insights/pkg/types"
)

// Analyzer computes saliency-based composition signals for images
type Analyzer struct {
	config Config
}

// Config holds configuration for saliency analysis
type Config struct {
	EdgeThreshold  float64
	ContrastWeight float64
	ColorWeight    float64
	MaxSuggestions int
	MaxColors      int
}

// New creates an Analyzer with default configuration
func New() *Analyzer {
	return &Analyzer{
		config: Config{
			EdgeThreshold:  0.01,
			ContrastWeight: 0.3,
			ColorWeight:    0.2,
			MaxSuggestions: 5,
			MaxColors:      5,
		},
	}
}

// NewWithConfig creates an Analyzer with custom configuration
func NewWithConfig(config Config) *Analyzer {
	return &Analyzer{config: config}
}

type region struct {
	x, y, w, h int
	score      float64
}

// AnalyzeSaliency builds the saliency portion of an analysis result:
// normalized cropping suggestions ordered by score and a visual balance
// assessment. Returns nil for degenerate (empty) images.
func (a *Analyzer) AnalyzeSaliency(img image.Image) *types.SaliencyAnalysis {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width < 3 || height < 3 {
		return nil
	}

	saliencyMap := a.saliencyMap(img)
	regions := a.findRegions(saliencyMap, width, height)

	suggestions := make([]types.CroppingSuggestion, 0, a.config.MaxSuggestions)
	if len(regions) > 0 {
		maxScore := regions[0].score
		for _, r := range regions {
			if len(suggestions) == a.config.MaxSuggestions {
				break
			}
			suggestions = append(suggestions, types.CroppingSuggestion{
				Rect: types.Rect{
					X: float64(r.x) / float64(width),
					Y: float64(r.y) / float64(height),
					W: float64(r.w) / float64(width),
					H: float64(r.h) / float64(height),
				},
				Confidence: clamp01(r.score / maxScore),
			})
		}
	}

	return &types.SaliencyAnalysis{
		CroppingSuggestions: suggestions,
		VisualBalance:       visualBalance(saliencyMap),
	}
}

// DominantColors extracts up to MaxColors representative colors from the
// image, most dominant first, with normalized population weights.
func (a *Analyzer) DominantColors(img image.Image) []types.DominantColor {
	bounds := img.Bounds()
	total := bounds.Dx() * bounds.Dy()
	if total == 0 {
		return nil
	}

	// Quantize to 4 bits per channel to reduce noise
	histogram := make(map[uint32]int)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			r = (r >> 8) & 0xf0
			g = (g >> 8) & 0xf0
			b = (b >> 8) & 0xf0
			histogram[(r<<16)|(g<<8)|b]++
		}
	}

	type bucket struct {
		key   uint32
		count int
	}
	buckets := make([]bucket, 0, len(histogram))
	for key, count := range histogram {
		buckets = append(buckets, bucket{key, count})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].count != buckets[j].count {
			return buckets[i].count > buckets[j].count
		}
		return buckets[i].key < buckets[j].key
	})

	n := a.config.MaxColors
	if n > len(buckets) {
		n = len(buckets)
	}
	colors := make([]types.DominantColor, 0, n)
	for _, b := range buckets[:n] {
		colors = append(colors, types.DominantColor{
			Red:        float64((b.key>>16)&0xff) / 255.0,
			Green:      float64((b.key>>8)&0xff) / 255.0,
			Blue:       float64(b.key&0xff) / 255.0,
			Population: float64(b.count) / float64(total),
		})
	}
	return colors
}

// saliencyMap scores each interior pixel by edge strength and brightness
func (a *Analyzer) saliencyMap(img image.Image) [][]float64 {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	saliency := make([][]float64, height)
	for i := range saliency {
		saliency[i] = make([]float64, width)
	}

	neighbors := [][2]int{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}

	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			r1, g1, b1, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()

			var edgeStrength float64
			for _, offset := range neighbors {
				r2, g2, b2, _ := img.At(x+offset[0]+bounds.Min.X, y+offset[1]+bounds.Min.Y).RGBA()
				dr := float64(r1) - float64(r2)
				dg := float64(g1) - float64(g2)
				db := float64(b1) - float64(b2)
				edgeStrength += math.Sqrt(dr*dr + dg*dg + db*db)
			}
			edgeStrength /= 8.0 * 65535.0

			brightness := (float64(r1) + float64(g1) + float64(b1)) / (3.0 * 65535.0)

			saliency[y][x] = a.config.ContrastWeight*edgeStrength + a.config.ColorWeight*brightness
		}
	}

	return saliency
}

// findRegions slides windows of several sizes over the saliency map and
// keeps the highest-scoring ones, best first.
func (a *Analyzer) findRegions(saliency [][]float64, width, height int) []region {
	var regions []region

	windowSizes := []int{width / 16, width / 8, width / 4, width / 2}
	for _, size := range windowSizes {
		if size < 10 || size > height {
			continue
		}
		step := size / 4
		if step < 1 {
			step = 1
		}
		for y := 0; y <= height-size; y += step {
			for x := 0; x <= width-size; x += step {
				score := regionScore(saliency, x, y, size, size)
				if score > a.config.EdgeThreshold {
					regions = append(regions, region{x: x, y: y, w: size, h: size, score: score})
				}
			}
		}
	}

	sort.SliceStable(regions, func(i, j int) bool {
		return regions[i].score > regions[j].score
	})
	return regions
}

func regionScore(saliency [][]float64, x, y, w, h int) float64 {
	var total float64
	count := 0
	for ry := y; ry < y+h && ry < len(saliency); ry++ {
		for rx := x; rx < x+w && rx < len(saliency[0]); rx++ {
			total += saliency[ry][rx]
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// visualBalance compares saliency mass between image halves. A perfectly
// even split scores 1.0.
func visualBalance(saliency [][]float64) types.VisualBalance {
	height := len(saliency)
	width := len(saliency[0])

	var left, right, top, bottom float64
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := saliency[y][x]
			if x < width/2 {
				left += v
			} else {
				right += v
			}
			if y < height/2 {
				top += v
			} else {
				bottom += v
			}
		}
	}

	score := 1.0
	if left+right > 0 {
		score -= 0.5 * math.Abs(left-right) / (left + right)
	}
	if top+bottom > 0 {
		score -= 0.5 * math.Abs(top-bottom) / (top + bottom)
	}
	score = clamp01(score)

	feedback := "Visual weight is evenly distributed"
	switch {
	case score < 0.4:
		feedback = "Visual weight is strongly concentrated on one side"
	case score < 0.7:
		feedback = "Visual weight leans to one side; recentering could help"
	}

	return types.VisualBalance{Score: score, Feedback: feedback}
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
