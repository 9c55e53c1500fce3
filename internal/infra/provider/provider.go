// Package provider implements clients for the external generation and
// licensing services.
//
// This package contains:
//   - CaptionProvider: generative text (OpenAI chat completions)
//   - ImageProvider: image rendering over REST
//   - LicenseVerifier: license clearance over gRPC
//
// Providers return raw transport errors or taxonomy errors; retry policy
// is applied by callers through the executor, never in here.
package provider

import "context"

// CaptionRequest carries the semantically relevant inputs for caption
// generation. Cache keys are derived from these fields.
type CaptionRequest struct {
	Prompt   string `json:"prompt"`
	Voice    string `json:"voice"`
	Keywords string `json:"keywords"`
	Model    string `json:"model"`
}

// CaptionProvider generates marketing caption text.
type CaptionProvider interface {
	Name() string
	GenerateCaption(ctx context.Context, req CaptionRequest) (string, error)
}

// ImageRequest carries the semantically relevant inputs for rendering.
type ImageRequest struct {
	Prompt  string `json:"prompt"`
	Style   string `json:"style"`
	Palette string `json:"palette"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

// ImageProvider renders an image and returns its hosted URL.
type ImageProvider interface {
	Name() string
	RenderImage(ctx context.Context, req ImageRequest) (string, error)
}

// LicenseResult is the licensing service's verdict on one asset.
type LicenseResult struct {
	Cleared bool
	Reason  string
}

// LicenseVerifier checks whether generated content is clear to publish.
type LicenseVerifier interface {
	Name() string
	Verify(ctx context.Context, assetID string, content string) (LicenseResult, error)
}
