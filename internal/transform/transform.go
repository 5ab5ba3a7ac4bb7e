// Package transform defines the output transform contract: the collaborator
// that alone performs content hashing and physical artifact writes. Build
// backends hand a transform the final bundle bytes and a name template; the
// transform resolves the hash placeholder, writes the artifact, and reports
// the produced URL. Transforms are selected by task identifier through a
// registry so deployments (local files, object stores, CDNs) are swappable
// without touching the bundling core.
package transform

import "context"

// Encodings passed alongside the artifact bytes.
const (
	EncodingUTF8   = "utf8"
	EncodingBinary = "binary"
)

// Config is forwarded verbatim from the orchestrator to the transform.
type Config struct {
	// Root is the static root that artifacts are written under.
	Root string
	// Name is the logical output name of the artifact.
	Name string
	// Extra carries the opaque pass-through config block.
	Extra map[string]interface{}
}

// Result describes one produced artifact.
type Result struct {
	// URL is the produced, client-fetchable reference to the artifact.
	URL string
	// Name is the resolved artifact name with the hash placeholder filled in.
	Name string
	// Skipped reports that no new bytes were produced (unchanged content
	// already present). Skips are success, not errors.
	Skipped bool
}

// Transform writes one artifact. name is a template that may contain the
// {hash} placeholder; the transform computes the content hash and resolves
// it. Exactly one artifact write per call, and no partial writes on error.
type Transform interface {
	Put(ctx context.Context, name, encoding string, data []byte, cfg Config) (Result, error)
}
