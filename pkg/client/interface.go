package client

import (
	"context"

	"github.com/vscarpenter/image-insights/pkg/types"
)

// VisionClient abstracts a vision-model backend used for image captioning
type VisionClient interface {
	SimpleQuery(ctx context.Context, model, prompt, imgB64 string) (string, error)
	DescribeImage(ctx context.Context, model, prompt, imgB64 string) (*types.ModelDescription, error)
}
