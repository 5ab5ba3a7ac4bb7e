// Package metadata defines the asset metadata tree that one shaker run
// revolves around: the file lists discovered per component, view and
// dimension, the sink handles build tasks write produced URLs through, the
// manifest provider that constructs the tree, and the persistence of the
// final tree as a client-loadable registration snippet.
package metadata

import (
	"sort"
	"sync"
)

// AppComponent is the pseudo-component name under which application-level
// views are planned and named.
const AppComponent = "app"

// View holds the per-view file lists: one ordered list per context dimension
// plus the client list destined for a template-cache bundle.
type View struct {
	Dimensions map[string][]string `yaml:"dimensions" json:"dimensions"`
	Client     []string            `yaml:"client" json:"client"`
}

// Tree is the central mutable metadata structure. It is constructed once per
// run by the provider, mutated in place by planning and task completion, and
// persisted at run end. Leaf mutation goes through Sink handles; the tree's
// lock makes concurrent completions on distinct sinks, and appends on the
// shared images sink, safe.
type Tree struct {
	Core       []string                    `yaml:"core" json:"core"`
	Components map[string]map[string]*View `yaml:"components" json:"components"`
	App        map[string]*View            `yaml:"app" json:"app"`
	Images     []string                    `yaml:"images" json:"images,omitempty"`

	mu sync.Mutex
}

// SinkKind identifies which leaf family a sink addresses.
type SinkKind int

const (
	SinkCore SinkKind = iota
	SinkImages
	SinkDimension
	SinkClient
)

// Sink is a stable handle to one leaf list in the tree. Tasks hold sinks
// rather than aliased slice references so that ownership is explicit: each
// task writes exactly one sink, with the shared images sink as the sole
// multi-writer case.
type Sink struct {
	Kind      SinkKind
	Component string
	View      string
	Dimension string
}

// Snapshot returns a copy of the addressed list.
func (t *Tree) Snapshot(s Sink) []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	list := t.get(s)
	out := make([]string, len(list))
	copy(out, list)
	return out
}

// Clear truncates the addressed list to empty.
func (t *Tree) Clear(s Sink) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.set(s, []string{})
}

// Append appends a produced URL to the addressed list.
func (t *Tree) Append(s Sink, url string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.set(s, append(t.get(s), url))
}

func (t *Tree) get(s Sink) []string {
	switch s.Kind {
	case SinkCore:
		return t.Core
	case SinkImages:
		return t.Images
	}
	view := t.view(s)
	if view == nil {
		return nil
	}
	if s.Kind == SinkClient {
		return view.Client
	}
	return view.Dimensions[s.Dimension]
}

func (t *Tree) set(s Sink, list []string) {
	switch s.Kind {
	case SinkCore:
		t.Core = list
		return
	case SinkImages:
		t.Images = list
		return
	}
	view := t.view(s)
	if view == nil {
		return
	}
	if s.Kind == SinkClient {
		view.Client = list
		return
	}
	if view.Dimensions == nil {
		view.Dimensions = make(map[string][]string)
	}
	view.Dimensions[s.Dimension] = list
}

func (t *Tree) view(s Sink) *View {
	if s.Component == AppComponent {
		return t.App[s.View]
	}
	if views, ok := t.Components[s.Component]; ok {
		return views[s.View]
	}
	return nil
}

// ComponentNames returns component names in sorted order for deterministic
// planning.
func (t *Tree) ComponentNames() []string {
	names := make([]string, 0, len(t.Components))
	for name := range t.Components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ViewNames returns the view names of a component in sorted order. The app
// pseudo-component addresses the application-level views.
func (t *Tree) ViewNames(component string) []string {
	var views map[string]*View
	if component == AppComponent {
		views = t.App
	} else {
		views = t.Components[component]
	}
	names := make([]string, 0, len(views))
	for name := range views {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DimensionNames returns a view's dimension names in sorted order.
func (v *View) DimensionNames() []string {
	names := make([]string, 0, len(v.Dimensions))
	for name := range v.Dimensions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AllFiles returns every file path in the tree, used by the lint gate. Order
// follows the deterministic planning order.
func (t *Tree) AllFiles() []string {
	var files []string
	files = append(files, t.Images...)
	files = append(files, t.Core...)
	for _, comp := range t.ComponentNames() {
		for _, viewName := range t.ViewNames(comp) {
			view := t.Components[comp][viewName]
			files = append(files, view.Client...)
			for _, dim := range view.DimensionNames() {
				files = append(files, view.Dimensions[dim]...)
			}
		}
	}
	for _, viewName := range t.ViewNames(AppComponent) {
		view := t.App[viewName]
		files = append(files, view.Client...)
		for _, dim := range view.DimensionNames() {
			files = append(files, view.Dimensions[dim]...)
		}
	}
	return files
}

// Rewrite applies fn to every element of every leaf list in place. The first
// error aborts the walk. Used by dev mode to swap local paths for URLs.
func (t *Tree) Rewrite(fn func(path string) (string, error)) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	rewrite := func(list []string) error {
		for i, p := range list {
			url, err := fn(p)
			if err != nil {
				return err
			}
			list[i] = url
		}
		return nil
	}

	if err := rewrite(t.Core); err != nil {
		return err
	}
	if err := rewrite(t.Images); err != nil {
		return err
	}
	eachView := func(view *View) error {
		if err := rewrite(view.Client); err != nil {
			return err
		}
		for _, dim := range view.DimensionNames() {
			if err := rewrite(view.Dimensions[dim]); err != nil {
				return err
			}
		}
		return nil
	}
	for _, comp := range t.ComponentNames() {
		for _, viewName := range t.ViewNames(comp) {
			if err := eachView(t.Components[comp][viewName]); err != nil {
				return err
			}
		}
	}
	for _, viewName := range t.ViewNames(AppComponent) {
		if err := eachView(t.App[viewName]); err != nil {
			return err
		}
	}
	return nil
}
