package build

import (
	"context"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mridgway/shaker/internal/transform"
)

func TestRollupConcatenatesInListOrder(t *testing.T) {
	_, paths := writeFiles(t, map[string]string{
		"x.css": ".x { color: red; }\n",
		"y.css": ".y { color: blue; }\n",
	})
	ft := &fakeTransform{}

	url, skipped, err := NewRollupBackend().Build(context.Background(),
		[]string{paths["x.css"], paths["y.css"]},
		Options{Transform: ft, Name: "compiled/a_b_{hash}.css"})
	require.NoError(t, err)

	assert.False(t, skipped)
	assert.Equal(t, "/compiled/a_b_{hash}.css", url)
	require.Equal(t, 1, ft.callCount())
	assert.Equal(t, ".x { color: red; }\n.y { color: blue; }\n", string(ft.lastCall().Data))
	assert.Equal(t, transform.EncodingUTF8, ft.lastCall().Encoding)
}

func TestRollupStripPass(t *testing.T) {
	_, paths := writeFiles(t, map[string]string{
		"a.js": "var a = 1; /*debug*/ var b = 2;",
	})
	ft := &fakeTransform{}

	_, _, err := NewRollupBackend().Build(context.Background(),
		[]string{paths["a.js"]},
		Options{Transform: ft, Name: "compiled/core_{hash}.js", Strip: regexp.MustCompile(`/\*debug\*/ `)})
	require.NoError(t, err)

	assert.Equal(t, "var a = 1; var b = 2;", string(ft.lastCall().Data))
}

func TestRollupMinifyChoosesMinifierFromBundleName(t *testing.T) {
	_, paths := writeFiles(t, map[string]string{
		"x.css": "body {\n  color: #ffffff;\n}\n",
		"y.css": ".y {\n  margin: 0px;\n}\n",
	})
	ft := &fakeTransform{}

	url, _, err := NewRollupBackend().Build(context.Background(),
		[]string{paths["x.css"], paths["y.css"]},
		Options{Transform: ft, Name: "compiled/a_b_{hash}.css", Minify: true})
	require.NoError(t, err)

	// A single URL from a single transform call, over minified content.
	assert.Equal(t, "/compiled/a_b_{hash}.css", url)
	require.Equal(t, 1, ft.callCount())
	raw := "body {\n  color: #ffffff;\n}\n.y {\n  margin: 0px;\n}\n"
	assert.Less(t, len(ft.lastCall().Data), len(raw))
}

func TestRollupReadFailureNeverReachesTransform(t *testing.T) {
	_, paths := writeFiles(t, map[string]string{
		"x.css": ".x {}",
	})
	ft := &fakeTransform{}

	_, _, err := NewRollupBackend().Build(context.Background(),
		[]string{paths["x.css"], filepath.Join(t.TempDir(), "y.css")},
		Options{Transform: ft, Name: "compiled/a_b_{hash}.css", Minify: true})

	require.Error(t, err)
	assert.Equal(t, 0, ft.callCount())
}

func TestRollupTransformErrorPropagatesUnchanged(t *testing.T) {
	_, paths := writeFiles(t, map[string]string{"a.js": "var a;"})
	ft := &fakeTransform{err: assert.AnError}

	_, _, err := NewRollupBackend().Build(context.Background(),
		[]string{paths["a.js"]},
		Options{Transform: ft, Name: "compiled/core_{hash}.js"})

	assert.ErrorIs(t, err, assert.AnError)
}

func TestRollupSkippedFlagPropagates(t *testing.T) {
	_, paths := writeFiles(t, map[string]string{"a.js": "var a;"})
	ft := &fakeTransform{skipped: true}

	_, skipped, err := NewRollupBackend().Build(context.Background(),
		[]string{paths["a.js"]},
		Options{Transform: ft, Name: "compiled/core_{hash}.js"})
	require.NoError(t, err)
	assert.True(t, skipped)
}

func TestSingleFileBackend(t *testing.T) {
	_, paths := writeFiles(t, map[string]string{"logo.png": "\x89PNG"})
	ft := &fakeTransform{}

	url, skipped, err := NewSingleFileBackend("logo.png").Build(context.Background(),
		[]string{paths["logo.png"]},
		Options{Transform: ft, Name: "compiled/logo.png", Config: transform.Config{Root: "static"}})
	require.NoError(t, err)

	assert.False(t, skipped)
	assert.Equal(t, "/compiled/logo.png", url)
	require.Equal(t, 1, ft.callCount())
	call := ft.lastCall()
	assert.Equal(t, transform.EncodingBinary, call.Encoding)
	// The constructor-supplied logical name rides in the transform config.
	assert.Equal(t, "logo.png", call.Config.Name)
}

func TestSingleFileBackendReadError(t *testing.T) {
	ft := &fakeTransform{}
	_, _, err := NewSingleFileBackend("missing.png").Build(context.Background(),
		[]string{filepath.Join(t.TempDir(), "missing.png")},
		Options{Transform: ft, Name: "compiled/missing.png"})
	require.Error(t, err)
	assert.Equal(t, 0, ft.callCount())
}
