// Package walker discovers parseable documentation files under a root
// directory.
package walker

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/yourorg/tassdoc/internal/config"
)

// DocsConfig is an alias of config.DocsConfig.
type DocsConfig = config.DocsConfig

// Doc is one documentation file ready to parse. Scope is the name of the
// directory holding the file, which the vendor uses to group one API
// area's calls.
type Doc struct {
	Path  string
	Scope string
	Text  string
}

// Walk visits every parseable file under root in lexical order and calls
// fn for each. A directory whose name contains an ignored substring is
// pruned with its whole subtree; ignored filenames and foreign extensions
// are skipped. A callback error aborts the walk.
func Walk(root string, cfg DocsConfig, fn func(Doc) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && hasIgnoredDir(d.Name(), cfg.IgnoreDirs) {
				return filepath.SkipDir
			}
			return nil
		}
		if isIgnoredFile(d.Name(), cfg.IgnoreFiles) {
			return nil
		}
		if !hasAllowedExtension(d.Name(), cfg.Extensions) {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		return fn(Doc{
			Path:  path,
			Scope: filepath.Base(filepath.Dir(path)),
			Text:  string(data),
		})
	})
}

func hasIgnoredDir(name string, subs []string) bool {
	for _, s := range subs {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if strings.Contains(name, s) {
			return true
		}
	}
	return false
}

func isIgnoredFile(name string, ignores []string) bool {
	for _, ig := range ignores {
		if name == strings.TrimSpace(ig) {
			return true
		}
	}
	return false
}

func hasAllowedExtension(name string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if strings.ToLower(strings.TrimSpace(e)) == ext {
			return true
		}
	}
	return false
}
