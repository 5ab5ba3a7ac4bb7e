package assets

// HashToken is the placeholder in a bundle name template that the output
// transform replaces with the content hash of the final bytes. Names are
// templates until the transform resolves them; the core never computes the
// hash itself.
const HashToken = "{hash}"

// DefaultView is the normalized name for the wildcard view "*".
const DefaultView = "default"

// Namer builds bundle name templates under a compiled directory prefix.
type Namer struct {
	dir string
}

// NewNamer creates a Namer with the given compiled directory prefix. The
// prefix is used verbatim; callers pass it with a trailing separator.
func NewNamer(compiledDir string) *Namer {
	return &Namer{dir: compiledDir}
}

// NormalizeView maps the wildcard view name to its canonical form.
func NormalizeView(view string) string {
	if view == "*" {
		return DefaultView
	}
	return view
}

// Core returns the core bundle name template.
func (n *Namer) Core() string {
	return n.dir + "core_" + HashToken + ".js"
}

// Bundle returns the script or style bundle template for a component view.
// Application-level bundles pass the app pseudo-component name.
func (n *Namer) Bundle(component, view, ext string) string {
	return n.dir + component + "_" + NormalizeView(view) + "_" + HashToken + "." + ext
}

// Client returns the client-cache bundle template for a component.
func (n *Namer) Client(component string) string {
	return n.dir + "client_" + component + "_" + HashToken + ".js"
}

// AppClient returns the client-cache bundle template for an application-level
// view.
func (n *Namer) AppClient(view string) string {
	return n.dir + "appclient_" + NormalizeView(view) + "_" + HashToken + ".js"
}

// Image returns the name template for a deployed image; images keep their
// own file name and are not content-hashed by the core.
func (n *Namer) Image(base string) string {
	return n.dir + base
}
