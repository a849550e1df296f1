package domain

import "context"

// Embedder maps a batch of texts to fixed-length vectors. All vectors of one
// call share the same dimension.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Generator is the opaque generative backend: prompt in, text out. Calls are
// synchronous and may be slow; implementations bound them with a timeout and
// surface expiry as an error.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
