// Package walker enumerates the files under a site root: filepath.WalkDir
// plus optional glob include/exclude filtering. It does not filter by
// extension — the engine dispatches HTML vs. everything-else itself, since
// non-HTML files still need a Defined(∅) record.
package walker

import (
	"os"
	"path/filepath"

	"github.com/gobwas/glob"
)

// File is one enumerated entry: its absolute filesystem path and its
// DocumentId relative to the site root.
type File struct {
	AbsPath string
	Doc     string // e.g. "/guides/intro.html"
}

// Options configures enumeration.
type Options struct {
	// Include, if non-empty, keeps only paths (relative to root, slash
	// separated) matching at least one glob pattern.
	Include []string
	// Exclude drops paths matching any glob pattern, applied after Include.
	Exclude []string
}

// skipDirs lists directory names never descended into, regardless of
// Options: VCS metadata and tooling dirs that never contain site content.
// Hidden dotfiles and other hidden directories (e.g. .well-known) are not
// excluded; only this fixed list is.
var skipDirs = map[string]bool{
	".git": true, ".svn": true, ".hg": true,
}

// Walk enumerates every file under root. filepath.WalkDir does not follow
// symbolic links: a symlink to a file is listed (and later read through the
// link), but a symlink to a directory is listed as a single entry and its
// contents are not enumerated. Only skipDirs are pruned, so hidden
// directories that may hold real site content (.well-known and the like)
// are still walked. Entries are returned in the order WalkDir happens to
// visit them; the core makes no ordering assumption.
func Walk(root string, opts Options) ([]File, error) {
	include, err := compileGlobs(opts.Include)
	if err != nil {
		return nil, err
	}
	exclude, err := compileGlobs(opts.Exclude)
	if err != nil {
		return nil, err
	}

	var files []File
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if len(include) > 0 && !matchesAny(rel, include) {
			return nil
		}
		if matchesAny(rel, exclude) {
			return nil
		}

		files = append(files, File{AbsPath: path, Doc: "/" + rel})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	if len(patterns) == 0 {
		return nil, nil
	}
	compiled := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, g)
	}
	return compiled, nil
}

func matchesAny(path string, patterns []glob.Glob) bool {
	for _, g := range patterns {
		if g.Match(path) {
			return true
		}
	}
	return false
}
