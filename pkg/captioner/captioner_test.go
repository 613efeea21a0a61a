package captioner

import (
	"context"
	"errors"
	"testing"

	"github.com/vscarpenter/image-insights/pkg/types"
)

// fakeVisionClient returns canned responses for testing
type fakeVisionClient struct {
	desc      *types.ModelDescription
	text      string
	err       error
	lastModel string
	lastQuery string
}

func (f *fakeVisionClient) SimpleQuery(ctx context.Context, model, prompt, imgB64 string) (string, error) {
	f.lastModel = model
	f.lastQuery = prompt
	return f.text, f.err
}

func (f *fakeVisionClient) DescribeImage(ctx context.Context, model, prompt, imgB64 string) (*types.ModelDescription, error) {
	f.lastModel = model
	f.lastQuery = prompt
	return f.desc, f.err
}

func TestDescribe(t *testing.T) {
	fake := &fakeVisionClient{
		desc: &types.ModelDescription{
			Caption:    "A dog in a park",
			Confidence: 0.9,
			Labels:     []types.ModelLabel{{Identifier: "dog", Confidence: 0.95}},
			Tags:       []string{"Dog", " park ", "dog", "outdoor"},
		},
	}

	desc, err := New(fake).Describe(context.Background(), "test-model", "aW1n")
	if err != nil {
		t.Fatalf("Describe failed: %v", err)
	}

	if fake.lastModel != "test-model" {
		t.Errorf("Expected model test-model, got %s", fake.lastModel)
	}
	if fake.lastQuery != DefaultPrompt {
		t.Error("Expected the default prompt")
	}
	if desc.Caption != "A dog in a park" {
		t.Errorf("Unexpected caption %q", desc.Caption)
	}

	// Tags are lowercased, trimmed, and deduplicated.
	expected := []string{"dog", "park", "outdoor"}
	if len(desc.Tags) != len(expected) {
		t.Fatalf("Expected %d tags, got %d: %v", len(expected), len(desc.Tags), desc.Tags)
	}
	for i, tag := range expected {
		if desc.Tags[i] != tag {
			t.Errorf("Tag %d: expected %s, got %s", i, tag, desc.Tags[i])
		}
	}
}

func TestDescribeClampsConfidences(t *testing.T) {
	fake := &fakeVisionClient{
		desc: &types.ModelDescription{
			Caption:    "test",
			Confidence: 1.8,
			Labels: []types.ModelLabel{
				{Identifier: "a", Confidence: -0.5},
				{Identifier: "b", Confidence: 2.0},
			},
		},
	}

	desc, err := New(fake).Describe(context.Background(), "m", "aW1n")
	if err != nil {
		t.Fatalf("Describe failed: %v", err)
	}
	if desc.Confidence != 1.0 {
		t.Errorf("Expected confidence clamped to 1.0, got %f", desc.Confidence)
	}
	if desc.Labels[0].Confidence != 0 || desc.Labels[1].Confidence != 1.0 {
		t.Errorf("Expected label confidences clamped, got %f and %f",
			desc.Labels[0].Confidence, desc.Labels[1].Confidence)
	}
}

func TestDescribeError(t *testing.T) {
	fake := &fakeVisionClient{err: errors.New("connection refused")}

	if _, err := New(fake).Describe(context.Background(), "m", "aW1n"); err == nil {
		t.Error("Expected error from failing backend")
	}
}

func TestTestVision(t *testing.T) {
	fake := &fakeVisionClient{text: "I see a cat."}

	got, err := New(fake).TestVision(context.Background(), "m", "aW1n")
	if err != nil {
		t.Fatalf("TestVision failed: %v", err)
	}
	if got != "I see a cat." {
		t.Errorf("Unexpected reply %q", got)
	}
	if fake.lastQuery != SimpleTestPrompt {
		t.Error("Expected the simple test prompt")
	}
}

func TestNormalizeTagsCap(t *testing.T) {
	tags := normalizeTags([]string{"a", "b", "c", "d", "e", "f", "g"})
	if len(tags) != 5 {
		t.Errorf("Expected 5 tags, got %d", len(tags))
	}
}

func TestNormalizeTagsSkipsEmpty(t *testing.T) {
	tags := normalizeTags([]string{"", "  ", "dog"})
	if len(tags) != 1 || tags[0] != "dog" {
		t.Errorf("Expected single dog tag, got %v", tags)
	}
}

func TestApply(t *testing.T) {
	result := types.AnalysisResult{
		Classifications: []types.Classification{{Identifier: "existing", Confidence: 0.5}},
	}

	Apply(&result, &types.ModelDescription{
		Caption:    "  A sunny beach  ",
		Confidence: 0.85,
		Labels: []types.ModelLabel{
			{Identifier: "beach", Confidence: 0.9},
			{Identifier: "", Confidence: 0.9},
		},
		Tags: []string{"beach", "summer"},
	})

	if result.Caption == nil || result.Caption.Text != "A sunny beach" {
		t.Fatalf("Expected trimmed caption, got %+v", result.Caption)
	}
	if result.Caption.Confidence != 0.85 {
		t.Errorf("Expected caption confidence 0.85, got %f", result.Caption.Confidence)
	}

	// Labels with empty identifiers are dropped; existing classifications
	// are preserved.
	if len(result.Classifications) != 2 {
		t.Fatalf("Expected 2 classifications, got %d", len(result.Classifications))
	}
	if result.Classifications[1].Identifier != "beach" {
		t.Errorf("Expected appended beach label, got %s", result.Classifications[1].Identifier)
	}

	if len(result.SmartTags) != 2 {
		t.Fatalf("Expected 2 smart tags, got %d", len(result.SmartTags))
	}
	if result.SmartTags[0].Confidence != defaultTagConfidence {
		t.Errorf("Expected default tag confidence %f, got %f",
			defaultTagConfidence, result.SmartTags[0].Confidence)
	}
}

func TestApplyEmptyCaption(t *testing.T) {
	var result types.AnalysisResult

	Apply(&result, &types.ModelDescription{Caption: "   "})
	if result.Caption != nil {
		t.Error("Expected no caption for whitespace-only text")
	}

	Apply(&result, nil)
	if result.Caption != nil {
		t.Error("Expected nil description to be a no-op")
	}
}
