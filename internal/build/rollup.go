package build

import (
	"bytes"
	"context"
	"os"

	"github.com/mridgway/shaker/internal/assets"
	"github.com/mridgway/shaker/internal/transform"
)

// RollupBackend concatenates an ordered file list into one bundle,
// optionally strips a pattern and minifies, then hands the result to the
// output transform.
type RollupBackend struct{}

// NewRollupBackend creates a rollup backend.
func NewRollupBackend() *RollupBackend {
	return &RollupBackend{}
}

// Build reads the inputs strictly in list order. Reads are sequential on
// purpose: concatenation order is a correctness requirement, regardless of
// how much concurrency surrounds this task.
func (b *RollupBackend) Build(ctx context.Context, inputs []string, opts Options) (string, bool, error) {
	var buf bytes.Buffer
	for _, path := range inputs {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", false, err
		}
		buf.Write(data)
	}

	blob := buf.Bytes()
	if opts.Strip != nil {
		blob = opts.Strip.ReplaceAll(blob, nil)
	}

	if opts.Minify {
		minified, err := minifyForName(opts.Name, blob)
		if err != nil {
			return "", false, err
		}
		blob = minified
	}

	result, err := opts.Transform.Put(ctx, opts.Name, transform.EncodingUTF8, blob, opts.Config)
	if err != nil {
		return "", false, err
	}
	return result.URL, result.Skipped, nil
}

// minifyForName picks the JS or CSS minifier from the bundle's own name.
func minifyForName(name string, blob []byte) ([]byte, error) {
	if assets.TypeOf(name) == assets.TypeCSS {
		return transform.MinifyCSS(blob)
	}
	return transform.MinifyJS(blob)
}
