// Package lint defines the collaborator interface for the optional lint gate.
// Linting is a pass/fail call into an external linter; the core only walks
// the reported issues and aborts the run when any exist.
package lint

import (
	"context"
	"fmt"
)

// Issue is one reported lint finding.
type Issue struct {
	File    string
	Line    int
	Column  int
	Message string
}

// String formats the issue for logging.
func (i Issue) String() string {
	return fmt.Sprintf("%s:%d:%d: %s", i.File, i.Line, i.Column, i.Message)
}

// Linter checks a list of CSS files and reports issues. A non-empty result
// is fatal to the run. JS linting is declared in the pipeline but currently
// a no-op.
type Linter interface {
	Lint(ctx context.Context, cssFiles []string) ([]Issue, error)
}

// Func adapts a plain function to the Linter interface.
type Func func(ctx context.Context, cssFiles []string) ([]Issue, error)

// Lint implements Linter.
func (f Func) Lint(ctx context.Context, cssFiles []string) ([]Issue, error) {
	return f(ctx, cssFiles)
}
