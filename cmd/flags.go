package cmd

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// addRunFlags defines the bundling flags shared by run and watch.
func addRunFlags(fs *pflag.FlagSet) {
	fs.String("task", "", `output task ("local" rewrites for dev, "files" bundles to disk)`)
	fs.String("manifest", "", "path to the metadata manifest")
	fs.String("root", "", "static root directory")
	fs.String("compiled-dir", "", "compiled directory prefix for bundle names")
	fs.Bool("images", false, "deploy images")
	fs.Int("parallel", 0, "maximum concurrent build tasks")
	fs.Duration("delay", 0, "artificial per-task delay")
	fs.Bool("lint", false, "gate the run on a css lint pass")
	fs.Bool("minify", false, "minify bundles")
	fs.String("strip", "", "pattern stripped from bundles before minification")
	fs.Bool("client-cache", false, "rewrite html templates into client cache registrations")
}

// bindRunFlags binds the executing command's flags to their viper keys. Run
// per execution so bindings survive viper resets and only the active
// command's flag values are consulted.
func bindRunFlags(fs *pflag.FlagSet) error {
	bindings := map[string]string{
		"task":         "task",
		"manifest":     "manifest",
		"root":         "root",
		"compiled_dir": "compiled-dir",
		"images":       "images",
		"parallel":     "parallel",
		"delay":        "delay",
		"lint":         "lint",
		"minify":       "minify",
		"strip":        "strip",
		"client_cache": "client-cache",
	}
	for key, flag := range bindings {
		f := fs.Lookup(flag)
		if f == nil || !f.Changed {
			continue
		}
		if err := viper.BindPFlag(key, f); err != nil {
			return err
		}
	}
	return nil
}
