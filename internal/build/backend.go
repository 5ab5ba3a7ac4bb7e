// Package build implements the bundling core: the three build backends, the
// bundle planner that turns a metadata tree into tasks, the bounded
// concurrent executor that drains them, and the pipeline that sequences a
// whole run.
package build

import (
	"context"
	"regexp"

	"github.com/mridgway/shaker/internal/metadata"
	"github.com/mridgway/shaker/internal/transform"
)

// Options carries the per-task build parameters.
type Options struct {
	// Transform is the resolved output transform the artifact is handed to.
	Transform transform.Transform
	// Name is the bundle name template containing the {hash} placeholder.
	Name string
	// Minify enables minification of the final bundle.
	Minify bool
	// Strip, when non-nil, is removed from the concatenated bundle before
	// minification.
	Strip *regexp.Regexp
	// Config is forwarded verbatim to the output transform.
	Config transform.Config
}

// Backend builds one bundle from an ordered input list. It returns the
// produced URL, a skipped flag when the transform reports no new bytes, or
// an error. Errors surface unchanged: a failed bundle is fatal to the run
// and is never retried.
type Backend interface {
	Build(ctx context.Context, inputs []string, opts Options) (url string, skipped bool, err error)
}

// Task is the ephemeral unit of work drained by the executor. It snapshots
// its input list at planning time and owns exactly one sink, which receives
// the produced URL on completion.
type Task struct {
	Backend Backend
	Inputs  []string
	Options Options
	Sink    metadata.Sink
}
