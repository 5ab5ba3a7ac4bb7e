package build

import (
	"path/filepath"
	"regexp"

	"github.com/mridgway/shaker/internal/assets"
	"github.com/mridgway/shaker/internal/metadata"
	"github.com/mridgway/shaker/internal/transform"
)

// PlanOptions configures one planning pass.
type PlanOptions struct {
	Namer     *assets.Namer
	Transform transform.Transform
	Root      string
	Minify    bool
	Strip     *regexp.Regexp
	// Images enables image deployment tasks.
	Images bool
	// CacheTemplates controls whether client bundles register or drop HTML
	// view templates.
	CacheTemplates bool
	// Extra is the opaque config block forwarded to the transform.
	Extra map[string]interface{}
}

// Plan walks the metadata tree and emits one build task per bundle-worthy
// file group, in a fixed deterministic order: images, core, then each
// component view (client list first, then dimensions), then the app
// pseudo-component. Every to-be-replaced leaf is snapshotted into its task
// and truncated in place, so dev and build mode share one metadata shape.
// Leaves that classify to nothing produce no task and stay empty.
func Plan(tree *metadata.Tree, opts PlanOptions) []Task {
	var tasks []Task

	options := func(name string) Options {
		return Options{
			Transform: opts.Transform,
			Name:      name,
			Minify:    opts.Minify,
			Strip:     opts.Strip,
			Config:    transform.Config{Root: opts.Root, Name: name, Extra: opts.Extra},
		}
	}

	if opts.Images {
		sink := metadata.Sink{Kind: metadata.SinkImages}
		images := tree.Snapshot(sink)
		if len(images) > 0 {
			// All image tasks append into the shared images sink, which is
			// cleared once here, not per task.
			tree.Clear(sink)
			for _, img := range images {
				name := opts.Namer.Image(filepath.Base(img))
				imgOpts := options(name)
				imgOpts.Minify = false
				imgOpts.Strip = nil
				tasks = append(tasks, Task{
					Backend: NewSingleFileBackend(filepath.Base(img)),
					Inputs:  []string{img},
					Options: imgOpts,
					Sink:    sink,
				})
			}
		}
	}

	coreSink := metadata.Sink{Kind: metadata.SinkCore}
	if core := tree.Snapshot(coreSink); len(core) > 0 {
		tree.Clear(coreSink)
		tasks = append(tasks, Task{
			Backend: NewRollupBackend(),
			Inputs:  core,
			Options: options(opts.Namer.Core()),
			Sink:    coreSink,
		})
	}

	components := tree.ComponentNames()
	components = append(components, metadata.AppComponent)
	for _, component := range components {
		for _, view := range tree.ViewNames(component) {
			tasks = append(tasks, planView(tree, component, view, opts, options)...)
		}
	}

	return tasks
}

// planView emits the client task and up to two rollup tasks per dimension
// for one component view.
func planView(tree *metadata.Tree, component, view string, opts PlanOptions, options func(string) Options) []Task {
	var tasks []Task

	clientSink := metadata.Sink{Kind: metadata.SinkClient, Component: component, View: view}
	if client := tree.Snapshot(clientSink); len(client) > 0 {
		tree.Clear(clientSink)
		name := opts.Namer.Client(component)
		if component == metadata.AppComponent {
			name = opts.Namer.AppClient(view)
		}
		tasks = append(tasks, Task{
			Backend: NewClientCacheBackend(component, opts.CacheTemplates),
			Inputs:  client,
			Options: options(name),
			Sink:    clientSink,
		})
	}

	var dims []string
	if component == metadata.AppComponent {
		if v := treeAppView(tree, view); v != nil {
			dims = v.DimensionNames()
		}
	} else if v := treeComponentView(tree, component, view); v != nil {
		dims = v.DimensionNames()
	}

	for _, dim := range dims {
		sink := metadata.Sink{Kind: metadata.SinkDimension, Component: component, View: view, Dimension: dim}
		files := tree.Snapshot(sink)
		if len(files) == 0 {
			continue
		}

		classified := assets.Classify(files)
		if len(classified.JS) == 0 && len(classified.CSS) == 0 {
			continue
		}

		// The js and css tasks share this sink: it holds at most one URL
		// per emitted content type after the run.
		tree.Clear(sink)
		if len(classified.JS) > 0 {
			tasks = append(tasks, Task{
				Backend: NewRollupBackend(),
				Inputs:  classified.JS,
				Options: options(opts.Namer.Bundle(component, view, "js")),
				Sink:    sink,
			})
		}
		if len(classified.CSS) > 0 {
			tasks = append(tasks, Task{
				Backend: NewRollupBackend(),
				Inputs:  classified.CSS,
				Options: options(opts.Namer.Bundle(component, view, "css")),
				Sink:    sink,
			})
		}
	}

	return tasks
}

func treeComponentView(tree *metadata.Tree, component, view string) *metadata.View {
	if views, ok := tree.Components[component]; ok {
		return views[view]
	}
	return nil
}

func treeAppView(tree *metadata.Tree, view string) *metadata.View {
	return tree.App[view]
}
