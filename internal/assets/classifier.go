// Package assets provides the pure helpers of the bundling core: content-type
// classification of file lists and the deterministic bundle naming scheme.
package assets

import (
	"path/filepath"
	"strings"
)

// ContentType is the inferred content type of an asset path.
type ContentType string

const (
	TypeJS      ContentType = "js"
	TypeCSS     ContentType = "css"
	TypeHTML    ContentType = "html"
	TypeUnknown ContentType = ""
)

// Classified partitions a file list into script and style groups.
type Classified struct {
	JS  []string
	CSS []string
}

// TypeOf infers the content type of a path from its extension.
func TypeOf(path string) ContentType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".js":
		return TypeJS
	case ".css":
		return TypeCSS
	case ".html", ".htm":
		return TypeHTML
	default:
		return TypeUnknown
	}
}

// Classify partitions paths into JS and CSS groups by extension-based
// content-type inference. Paths of any other type are dropped. Input order is
// preserved within each group.
func Classify(paths []string) Classified {
	var c Classified
	for _, p := range paths {
		switch TypeOf(p) {
		case TypeJS:
			c.JS = append(c.JS, p)
		case TypeCSS:
			c.CSS = append(c.CSS, p)
		}
	}
	return c
}
