package build

import (
	"context"
	"fmt"

	"github.com/mridgway/shaker/internal/assets"
	"github.com/mridgway/shaker/internal/config"
	"github.com/mridgway/shaker/internal/errors"
	"github.com/mridgway/shaker/internal/lint"
	"github.com/mridgway/shaker/internal/logging"
	"github.com/mridgway/shaker/internal/metadata"
	"github.com/mridgway/shaker/internal/transform"
)

// Pipeline sequences one shaker run:
//
//	start -> [lint gate] -> dev rewrite | plan and execute -> persist -> done
//
// The reserved "local" task selects dev mode, which rewrites file references
// to resolvable URLs without bundling. Every other task identifier resolves
// an output transform from the registry and runs the full plan-and-execute
// path.
type Pipeline struct {
	cfg      *config.Config
	logger   logging.Logger
	provider metadata.Provider
	resolver metadata.Resolver
	registry *transform.Registry
	linter   lint.Linter
}

// NewPipeline assembles a pipeline from its collaborators. resolver is
// required in dev mode, linter only when the lint gate is enabled.
func NewPipeline(
	cfg *config.Config,
	logger logging.Logger,
	provider metadata.Provider,
	resolver metadata.Resolver,
	registry *transform.Registry,
	linter lint.Linter,
) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		logger:   logger.WithComponent("pipeline"),
		provider: provider,
		resolver: resolver,
		registry: registry,
		linter:   linter,
	}
}

// Run executes the pipeline and returns the final metadata tree. On any
// error the final metadata is not persisted.
func (p *Pipeline) Run(ctx context.Context) (*metadata.Tree, error) {
	tree, err := p.provider.Load(ctx)
	if err != nil {
		return nil, err
	}

	if p.cfg.Lint {
		if err := p.lintGate(ctx, tree); err != nil {
			return nil, err
		}
	}

	if p.cfg.IsDevMode() {
		if err := p.devRewrite(ctx, tree); err != nil {
			return nil, err
		}
	} else {
		if err := p.planAndExecute(ctx, tree); err != nil {
			return nil, err
		}
	}

	if err := metadata.Persist(tree, p.cfg.Root); err != nil {
		return nil, err
	}
	p.logger.Info(ctx, "metadata persisted", "path", metadata.CompiledMetadataPath)
	return tree, nil
}

// lintGate runs the external CSS linter over every discovered stylesheet.
// Any reported issue is logged individually and aborts the run. JS linting
// is declared here but currently a no-op.
func (p *Pipeline) lintGate(ctx context.Context, tree *metadata.Tree) error {
	classified := assets.Classify(tree.AllFiles())
	if len(classified.CSS) == 0 || p.linter == nil {
		return nil
	}

	issues, err := p.linter.Lint(ctx, classified.CSS)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeLint, errors.ErrCodeLintFailed, "lint execution failed")
	}
	if len(issues) == 0 {
		return nil
	}

	for _, issue := range issues {
		p.logger.Error(ctx, nil, "lint issue", "issue", issue.String())
	}
	return errors.New(errors.ErrorTypeLint, errors.ErrCodeLintFailed,
		"css lint reported issues").WithContext("count", len(issues))
}

// devRewrite swaps every file reference for its URL-resolved form in place.
// No bundling, no concurrency.
func (p *Pipeline) devRewrite(ctx context.Context, tree *metadata.Tree) error {
	p.logger.Info(ctx, "dev mode: rewriting file references")
	return tree.Rewrite(p.resolver.Resolve)
}

// planAndExecute plans bundle tasks from the tree and drains them through
// the bounded executor.
func (p *Pipeline) planAndExecute(ctx context.Context, tree *metadata.Tree) error {
	// Embedders register extra transform modules before running the pipeline;
	// the module list in the config declares which ones this run relies on.
	for _, name := range p.cfg.Modules {
		if !p.registry.Has(name) {
			return errors.New(errors.ErrorTypeConfig, errors.ErrCodeUnknownTask,
				fmt.Sprintf("configured transform module %q is not registered", name))
		}
	}

	out, err := p.registry.Resolve(p.cfg.Task, p.cfg.TransformConfig)
	if err != nil {
		return err
	}
	strip, err := p.cfg.StripPattern()
	if err != nil {
		return err
	}

	tasks := Plan(tree, PlanOptions{
		Namer:          assets.NewNamer(p.cfg.CompiledDir),
		Transform:      out,
		Root:           p.cfg.Root,
		Minify:         p.cfg.Minify,
		Strip:          strip,
		Images:         p.cfg.Images,
		CacheTemplates: p.cfg.ClientCache,
		Extra:          p.cfg.TransformConfig,
	})
	p.logger.Info(ctx, "bundle plan ready", "tasks", len(tasks), "parallel", p.cfg.Parallel)

	executor := NewExecutor(p.cfg.Parallel, p.cfg.Delay, p.logger)

	var runErr error
	executor.Run(ctx, tree, tasks, func(err error) {
		runErr = err
	})
	if runErr != nil {
		return runErr
	}
	return nil
}
