package build

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mridgway/shaker/internal/assets"
	"github.com/mridgway/shaker/internal/transform"
)

// ClientCacheBackend is the template-cache rollup: a rollup that recognizes
// HTML view-template fragments among its inputs and rewrites each into a
// client-side template-registration snippet before concatenation. Non-HTML
// inputs pass through unchanged. Per-file minification never happens; only
// the final bundle is minified, and always with the JS minifier since the
// produced bundle is script regardless of what went in.
type ClientCacheBackend struct {
	// component is the owning component, used when the template path does
	// not carry the component name itself.
	component string
	// cacheTemplates toggles between registering templates (enabled) and
	// dropping them from the bundle (disabled).
	cacheTemplates bool
}

// NewClientCacheBackend creates a template-cache rollup for one component.
func NewClientCacheBackend(component string, cacheTemplates bool) *ClientCacheBackend {
	return &ClientCacheBackend{component: component, cacheTemplates: cacheTemplates}
}

// templateEntry is the serialized form embedded in a registration snippet.
type templateEntry struct {
	Component string `json:"component"`
	Action    string `json:"action"`
	Renderer  string `json:"renderer"`
	Template  string `json:"template"`
}

// Build concatenates the inputs, substituting registration snippets for HTML
// fragments, then strips and minifies the final bundle.
func (b *ClientCacheBackend) Build(ctx context.Context, inputs []string, opts Options) (string, bool, error) {
	var buf bytes.Buffer
	for _, path := range inputs {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", false, err
		}

		if assets.TypeOf(path) != assets.TypeHTML {
			buf.Write(data)
			continue
		}
		if !b.cacheTemplates {
			continue
		}

		snippet, err := b.registrationSnippet(path, data)
		if err != nil {
			return "", false, err
		}
		buf.WriteString(snippet)
	}

	blob := buf.Bytes()
	if opts.Strip != nil {
		blob = opts.Strip.ReplaceAll(blob, nil)
	}
	if opts.Minify {
		minified, err := transform.MinifyJS(blob)
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

// registrationSnippet turns a view-template fragment into a client cache
// registration call keyed by component, action and renderer parsed from the
// file path.
func (b *ClientCacheBackend) registrationSnippet(path string, body []byte) (string, error) {
	component, action, renderer := parseTemplatePath(path)
	if component == "" {
		component = b.component
	}

	entry, err := json.Marshal(templateEntry{
		Component: component,
		Action:    action,
		Renderer:  renderer,
		Template:  string(body),
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("shaker.cacheTemplate(%s);\n", entry), nil
}

// parseTemplatePath extracts the template key from a path shaped like
// <component>/views/<action>.<renderer>.html. The component is the segment
// preceding "views"; an empty component means the path carries none.
func parseTemplatePath(path string) (component, action, renderer string) {
	segments := strings.Split(filepath.ToSlash(path), "/")
	for i, seg := range segments {
		if seg == "views" && i > 0 {
			component = segments[i-1]
			break
		}
	}

	base := filepath.Base(path)
	parts := strings.Split(base, ".")
	// index.mu.html: action "index", renderer "mu". A bare index.html has
	// no renderer.
	action = parts[0]
	if len(parts) > 2 {
		renderer = strings.Join(parts[1:len(parts)-1], ".")
	}
	return component, action, renderer
}
