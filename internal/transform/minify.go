package transform

import (
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/js"
)

const (
	mimeJS  = "application/javascript"
	mimeCSS = "text/css"
)

var minifier = func() *minify.M {
	m := minify.New()
	m.AddFunc(mimeJS, js.Minify)
	m.AddFunc(mimeCSS, css.Minify)
	return m
}()

// MinifyJS minifies a JavaScript bundle.
func MinifyJS(data []byte) ([]byte, error) {
	return minifier.Bytes(mimeJS, data)
}

// MinifyCSS minifies a CSS bundle.
func MinifyCSS(data []byte) ([]byte, error) {
	return minifier.Bytes(mimeCSS, data)
}
