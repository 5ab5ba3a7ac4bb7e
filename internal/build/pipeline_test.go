package build

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mridgway/shaker/internal/config"
	"github.com/mridgway/shaker/internal/lint"
	"github.com/mridgway/shaker/internal/logging"
	"github.com/mridgway/shaker/internal/metadata"
	"github.com/mridgway/shaker/internal/transform"
)

// fixtureProvider serves a pre-built tree, standing in for the manifest
// provider.
type fixtureProvider struct {
	tree *metadata.Tree
	err  error
}

func (p *fixtureProvider) Load(ctx context.Context) (*metadata.Tree, error) {
	return p.tree, p.err
}

// pathResolver is the trivial URL resolver used by dev-mode tests.
type pathResolver struct{}

func (pathResolver) Resolve(localPath string) (string, error) {
	return "/static/" + filepath.ToSlash(localPath), nil
}

// buildFixture lays out a small asset tree on disk and returns the static
// root plus a metadata tree referencing it.
func buildFixture(t *testing.T) (string, *metadata.Tree) {
	t.Helper()
	root, paths := writeFiles(t, map[string]string{
		"core/base.js":               "var core = 1;\n",
		"photos/gallery.js":          "var gallery = 1;\n",
		"photos/gallery.css":         ".gallery {}\n",
		"photos/binder.js":           "var binder = 1;\n",
		"photos/views/index.mu.html": "<div>{{x}}</div>",
		"app/index.css":              "body {}\n",
	})

	tree := &metadata.Tree{
		Core: []string{paths["core/base.js"]},
		Components: map[string]map[string]*metadata.View{
			"photos": {
				"gallery": {
					Dimensions: map[string][]string{
						"common": {paths["photos/gallery.js"], paths["photos/gallery.css"]},
					},
					Client: []string{paths["photos/binder.js"], paths["photos/views/index.mu.html"]},
				},
			},
		},
		App: map[string]*metadata.View{
			"index": {
				Dimensions: map[string][]string{"common": {paths["app/index.css"]}},
			},
		},
	}
	return root, tree
}

func devConfig(root string) *config.Config {
	return &config.Config{
		Task:        config.TaskLocal,
		Root:        root,
		CompiledDir: "compiled/",
		Parallel:    4,
		LogLevel:    "error",
	}
}

func buildConfig(root string) *config.Config {
	cfg := devConfig(root)
	cfg.Task = "files"
	cfg.ClientCache = true
	return cfg
}

func newTestPipeline(cfg *config.Config, tree *metadata.Tree, linter lint.Linter) *Pipeline {
	return NewPipeline(cfg, logging.NewTestLogger(), &fixtureProvider{tree: tree},
		pathResolver{}, transform.NewRegistry(), linter)
}

func TestPipelineDevModeRewritesInPlace(t *testing.T) {
	root, tree := buildFixture(t)
	counts := leafLengths(tree)

	result, err := newTestPipeline(devConfig(root), tree, nil).Run(context.Background())
	require.NoError(t, err)

	// Every leaf keeps its length and every element is URL-resolved.
	assert.Equal(t, counts, leafLengths(result))
	for _, f := range result.AllFiles() {
		assert.True(t, strings.HasPrefix(f, "/static/"), f)
	}

	// Metadata was persisted.
	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(metadata.CompiledMetadataPath)))
	assert.NoError(t, err)
}

func TestPipelineBuildModeCollapsesLeaves(t *testing.T) {
	root, tree := buildFixture(t)

	result, err := newTestPipeline(buildConfig(root), tree, nil).Run(context.Background())
	require.NoError(t, err)

	// Single-type leaves collapse to exactly one URL.
	require.Len(t, result.Core, 1)
	assert.True(t, strings.HasPrefix(result.Core[0], "/compiled/core_"))
	assert.Len(t, result.Components["photos"]["gallery"].Client, 1)
	assert.Len(t, result.App["index"].Dimensions["common"], 1)

	// The mixed js+css dimension holds one URL per content type.
	common := result.Components["photos"]["gallery"].Dimensions["common"]
	assert.Len(t, common, 2)

	// Artifacts exist on disk with resolved hashes.
	for _, url := range result.Core {
		assert.NotContains(t, url, "{hash}")
		_, err := os.Stat(filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(url, "/"))))
		assert.NoError(t, err)
	}
}

func TestPipelineBuildModeIsIdempotent(t *testing.T) {
	root, tree := buildFixture(t)

	first, err := newTestPipeline(buildConfig(root), tree, nil).Run(context.Background())
	require.NoError(t, err)

	_, treeAgain := buildFixture(t)
	// Re-point the second tree at the same root so artifact paths collide.
	cfg := buildConfig(root)
	second, err := newTestPipeline(cfg, treeAgain, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.Core, second.Core)
}

func TestPipelineLintGateAbortsRun(t *testing.T) {
	root, tree := buildFixture(t)
	cfg := buildConfig(root)
	cfg.Lint = true

	failing := lint.Func(func(ctx context.Context, cssFiles []string) ([]lint.Issue, error) {
		require.NotEmpty(t, cssFiles)
		return []lint.Issue{{File: cssFiles[0], Line: 1, Message: "empty ruleset"}}, nil
	})

	_, err := newTestPipeline(cfg, tree, failing).Run(context.Background())
	require.Error(t, err)

	// The run aborted before bundling or persisting anything.
	require.Len(t, tree.Core, 1)
	assert.Contains(t, tree.Core[0], "base.js")
	_, statErr := os.Stat(filepath.Join(root, filepath.FromSlash(metadata.CompiledMetadataPath)))
	assert.True(t, os.IsNotExist(statErr))
}

func TestPipelineLintPassProceeds(t *testing.T) {
	root, tree := buildFixture(t)
	cfg := buildConfig(root)
	cfg.Lint = true

	clean := lint.Func(func(ctx context.Context, cssFiles []string) ([]lint.Issue, error) {
		return nil, nil
	})

	_, err := newTestPipeline(cfg, tree, clean).Run(context.Background())
	assert.NoError(t, err)
}

func TestPipelineProviderErrorIsFatal(t *testing.T) {
	cfg := devConfig(t.TempDir())
	p := NewPipeline(cfg, logging.NewTestLogger(),
		&fixtureProvider{err: assert.AnError}, pathResolver{}, transform.NewRegistry(), nil)

	_, err := p.Run(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
}

func TestPipelineUnknownTaskIsFatal(t *testing.T) {
	root, tree := buildFixture(t)
	cfg := buildConfig(root)
	cfg.Task = "s3"

	_, err := newTestPipeline(cfg, tree, nil).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3")
}

func TestPipelineUnregisteredModuleIsFatal(t *testing.T) {
	root, tree := buildFixture(t)
	cfg := buildConfig(root)
	cfg.Modules = []string{"cdn"}

	_, err := newTestPipeline(cfg, tree, nil).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cdn")
}

func TestPipelineRegisteredModuleProceeds(t *testing.T) {
	root, tree := buildFixture(t)
	cfg := buildConfig(root)
	cfg.Modules = []string{"cdn"}

	registry := transform.NewRegistry()
	registry.Register("cdn", func(extra map[string]interface{}) (transform.Transform, error) {
		return &transform.FilesTransform{}, nil
	})
	p := NewPipeline(cfg, logging.NewTestLogger(), &fixtureProvider{tree: tree},
		pathResolver{}, registry, nil)

	_, err := p.Run(context.Background())
	assert.NoError(t, err)
}

func TestPipelineBackendFailureSkipsPersist(t *testing.T) {
	root, tree := buildFixture(t)
	// A core file that does not exist forces a rollup read failure.
	tree.Core = []string{filepath.Join(root, "core", "missing.js")}

	_, err := newTestPipeline(buildConfig(root), tree, nil).Run(context.Background())
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(root, filepath.FromSlash(metadata.CompiledMetadataPath)))
	assert.True(t, os.IsNotExist(statErr))
}

// leafLengths captures the length of every leaf list, keyed by a stable
// description, for shape comparisons.
func leafLengths(tree *metadata.Tree) map[string]int {
	out := map[string]int{
		"core":   len(tree.Core),
		"images": len(tree.Images),
	}
	for _, comp := range tree.ComponentNames() {
		for _, viewName := range tree.ViewNames(comp) {
			view := tree.Components[comp][viewName]
			out[comp+"/"+viewName+"/client"] = len(view.Client)
			for _, dim := range view.DimensionNames() {
				out[comp+"/"+viewName+"/"+dim] = len(view.Dimensions[dim])
			}
		}
	}
	for _, viewName := range tree.ViewNames(metadata.AppComponent) {
		view := tree.App[viewName]
		out["app/"+viewName+"/client"] = len(view.Client)
		for _, dim := range view.DimensionNames() {
			out["app/"+viewName+"/"+dim] = len(view.Dimensions[dim])
		}
	}
	return out
}
