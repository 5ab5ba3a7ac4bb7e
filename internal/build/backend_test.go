package build

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mridgway/shaker/internal/transform"
)

// fakeTransform records Put calls and returns a canned result.
type fakeTransform struct {
	mu      sync.Mutex
	calls   []fakeCall
	skipped bool
	err     error
}

type fakeCall struct {
	Name     string
	Encoding string
	Data     []byte
	Config   transform.Config
}

func (f *fakeTransform) Put(ctx context.Context, name, encoding string, data []byte, cfg transform.Config) (transform.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return transform.Result{}, f.err
	}
	f.calls = append(f.calls, fakeCall{Name: name, Encoding: encoding, Data: append([]byte(nil), data...), Config: cfg})
	return transform.Result{URL: "/" + name, Name: name, Skipped: f.skipped}, nil
}

func (f *fakeTransform) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeTransform) lastCall() fakeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

// writeFiles creates the given files under a temp dir and returns their paths.
func writeFiles(t *testing.T, files map[string]string) (string, map[string]string) {
	t.Helper()
	dir := t.TempDir()
	paths := make(map[string]string, len(files))
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		paths[name] = path
	}
	return dir, paths
}
