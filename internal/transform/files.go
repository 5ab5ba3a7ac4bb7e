package transform

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// hashLength is the number of hex characters of the SHA-256 content hash
// substituted for the {hash} placeholder.
const hashLength = 12

// FilesTransform writes artifacts to the local filesystem under the static
// root. The content hash of the final bytes resolves the {hash} placeholder,
// so an artifact that already exists on disk necessarily has identical
// content and the write is skipped.
type FilesTransform struct{}

// Put resolves the name template, writes the artifact, and returns its URL.
func (t *FilesTransform) Put(ctx context.Context, name, encoding string, data []byte, cfg Config) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])[:hashLength]
	resolved := strings.Replace(name, "{hash}", hash, 1)

	target := filepath.Join(cfg.Root, filepath.FromSlash(resolved))
	url := "/" + filepath.ToSlash(resolved)

	if _, err := os.Stat(target); err == nil {
		// Same name implies same hash implies same content.
		return Result{URL: url, Name: resolved, Skipped: true}, nil
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return Result{}, fmt.Errorf("creating artifact directory: %w", err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return Result{}, fmt.Errorf("writing artifact %s: %w", resolved, err)
	}
	return Result{URL: url, Name: resolved}, nil
}
