package metadata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// CompiledMetadataPath is the fixed path, relative to the static root, of the
// persisted client-loadable metadata module.
const CompiledMetadataPath = "autoload/compiled/shaker-meta.client.js"

// Persist serializes the final tree as a JSON blob wrapped in a client
// registration call and writes it under the static root. The file format is
// stable: clients load it to learn which bundles to fetch.
func Persist(tree *Tree, root string) error {
	blob, err := json.Marshal(tree)
	if err != nil {
		return fmt.Errorf("serializing metadata: %w", err)
	}

	target := filepath.Join(root, filepath.FromSlash(CompiledMetadataPath))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("creating metadata directory: %w", err)
	}

	snippet := fmt.Sprintf("shaker.load(%s);\n", blob)
	if err := os.WriteFile(target, []byte(snippet), 0o644); err != nil {
		return fmt.Errorf("writing metadata module: %w", err)
	}
	return nil
}
