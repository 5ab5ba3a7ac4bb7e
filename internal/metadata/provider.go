package metadata

import (
	"context"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mridgway/shaker/internal/errors"
)

// Provider supplies the initial metadata tree for a run.
type Provider interface {
	Load(ctx context.Context) (*Tree, error)
}

// ManifestProvider loads the metadata tree from a YAML manifest on disk. The
// manifest lists the core assets, the per-component and application-level
// views, and optionally the deployable images.
type ManifestProvider struct {
	// Path is the manifest location. A missing manifest is a fatal
	// configuration error surfaced before any planning.
	Path string
}

// NewManifestProvider creates a provider reading the given manifest path.
func NewManifestProvider(path string) *ManifestProvider {
	return &ManifestProvider{Path: path}
}

// Load reads and decodes the manifest.
func (p *ManifestProvider) Load(ctx context.Context) (*Tree, error) {
	data, err := os.ReadFile(p.Path)
	if err != nil {
		return nil, errors.WrapConfig(err, errors.ErrCodeManifestMissing,
			"metadata manifest not readable").WithContext("path", p.Path)
	}

	var tree Tree
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, errors.WrapConfig(err, errors.ErrCodeInvalidConfig,
			"metadata manifest is not valid YAML").WithContext("path", p.Path)
	}

	if tree.Components == nil {
		tree.Components = make(map[string]map[string]*View)
	}
	if tree.App == nil {
		tree.App = make(map[string]*View)
	}
	return &tree, nil
}
