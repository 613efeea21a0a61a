// Package captioner augments an analysis result with signals from a vision
// model: a short caption, classification labels, and smart tags.
package captioner

import (
	"context"
	"strings"

	"github.com/vscarpenter/image-insights/pkg/client"
	"github.com/vscarpenter/image-insights/pkg/types"
)

// SimpleTestPrompt checks that the model can actually see images
const SimpleTestPrompt = `What do you see in this image? Describe it briefly.`

// DefaultPrompt is the default captioning prompt
const DefaultPrompt = `You are an image captioner.

Return JSON only:
{
  "caption": "one short neutral sentence (≤ 20 words)",
  "confidence": 0.0,
  "labels": [{"identifier": "string", "confidence": 0.0}],
  "tags": ["tag1", "tag2", "tag3", "tag4", "tag5"]
}

HARD RULES
- Confidence values are in [0,1].
- Labels name the main subjects, most prominent first, snake_case identifiers.
- Caption must be brief and factual. Do not guess real identities.
- Tags: lowercase, concise, no punctuation or duplicates.
- JSON only. No markdown, no code fences, no comments, no trailing commas.`

// defaultTagConfidence is assigned to tags, which the wire format carries
// without per-tag scores.
const defaultTagConfidence = 0.6

// Captioner produces caption signals using a vision model backend
type Captioner struct {
	client client.VisionClient
}

// New creates a Captioner with the given vision client
func New(client client.VisionClient) *Captioner {
	return &Captioner{client: client}
}

// Describe captions an image and returns the cleaned-up description
func (c *Captioner) Describe(ctx context.Context, model, imageB64 string) (*types.ModelDescription, error) {
	return c.DescribeWithPrompt(ctx, model, imageB64, DefaultPrompt)
}

// DescribeWithPrompt captions an image with a custom prompt
func (c *Captioner) DescribeWithPrompt(ctx context.Context, model, imageB64, prompt string) (*types.ModelDescription, error) {
	desc, err := c.client.DescribeImage(ctx, model, prompt, imageB64)
	if err != nil {
		return nil, err
	}

	desc.Confidence = clamp01(desc.Confidence)
	for i := range desc.Labels {
		desc.Labels[i].Confidence = clamp01(desc.Labels[i].Confidence)
	}
	desc.Tags = normalizeTags(desc.Tags)

	return desc, nil
}

// TestVision asks the model for a free-form description, to verify it can
// see the image at all.
func (c *Captioner) TestVision(ctx context.Context, model, imageB64 string) (string, error) {
	return c.client.SimpleQuery(ctx, model, SimpleTestPrompt, imageB64)
}

// Apply merges a model description into an analysis result. The caption is
// only set when the model produced usable text; labels extend the
// classification list and tags become smart tags.
func Apply(result *types.AnalysisResult, desc *types.ModelDescription) {
	if desc == nil {
		return
	}

	if caption := strings.TrimSpace(desc.Caption); caption != "" {
		result.Caption = &types.Caption{
			Text:       caption,
			Confidence: clamp01(desc.Confidence),
		}
	}

	for _, label := range desc.Labels {
		if label.Identifier == "" {
			continue
		}
		result.Classifications = append(result.Classifications, types.Classification{
			Identifier: label.Identifier,
			Confidence: clamp01(label.Confidence),
		})
	}

	for _, tag := range desc.Tags {
		result.SmartTags = append(result.SmartTags, types.SmartTag{
			Name:       tag,
			Confidence: defaultTagConfidence,
		})
	}
}

// normalizeTags lowercases, trims, deduplicates, and caps tags at 5 entries
func normalizeTags(tags []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, 5)
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
		if len(out) == 5 {
			break
		}
	}
	return out
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
