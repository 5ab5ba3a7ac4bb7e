package build

import (
	"context"
	"os"

	"github.com/mridgway/shaker/internal/transform"
)

// SingleFileBackend passes one file through the output transform unchanged.
// Used for image deployment: no concatenation, no strip, no minify.
type SingleFileBackend struct {
	// name is the fixed logical output name supplied at construction.
	name string
}

// NewSingleFileBackend creates a single-file backend producing the given
// logical name.
func NewSingleFileBackend(name string) *SingleFileBackend {
	return &SingleFileBackend{name: name}
}

// Build reads exactly one file and forwards its raw bytes to the transform.
func (b *SingleFileBackend) Build(ctx context.Context, inputs []string, opts Options) (string, bool, error) {
	data, err := os.ReadFile(inputs[0])
	if err != nil {
		return "", false, err
	}

	cfg := opts.Config
	cfg.Name = b.name
	result, err := opts.Transform.Put(ctx, opts.Name, transform.EncodingBinary, data, cfg)
	if err != nil {
		return "", false, err
	}
	return result.URL, result.Skipped, nil
}
