package metadata

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Resolver maps a local file path to the URL it is served from. Dev mode
// rewrites every leaf through a resolver instead of bundling.
type Resolver interface {
	Resolve(localPath string) (string, error)
}

// StaticResolver resolves paths under a static root to rooted URLs, with an
// optional prefix (e.g. a CDN base or mount point).
type StaticResolver struct {
	Root   string
	Prefix string
}

// Resolve returns the URL for a path under the static root. Paths outside the
// root are an error: the tree must only reference discoverable files.
func (r *StaticResolver) Resolve(localPath string) (string, error) {
	rel, err := filepath.Rel(r.Root, localPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("path %q is outside static root %q", localPath, r.Root)
	}
	return r.Prefix + "/" + filepath.ToSlash(rel), nil
}
