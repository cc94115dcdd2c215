package analyzer

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// Excluder matches root-relative paths against exclude globs
type Excluder struct {
	patterns []glob.Glob
}

// NewExcluder compiles the patterns with '/' as separator
func NewExcluder(patterns []string) (*Excluder, error) {
	e := &Excluder{patterns: make([]glob.Glob, 0, len(patterns))}
	for _, pat := range patterns {
		g, err := glob.Compile(filepath.ToSlash(pat), '/')
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pat, err)
		}
		e.patterns = append(e.patterns, g)
	}
	return e, nil
}

// Excluded reports whether any pattern matches the slash separated relative
// path. A leading slash is tried as well so "**/target/**" also matches a
// top-level "target".
func (e *Excluder) Excluded(relPath string, dir bool) bool {
	candidates := []string{relPath, "/" + relPath}
	if dir {
		candidates = append(candidates, relPath+"/", "/"+relPath+"/")
	}
	for _, g := range e.patterns {
		for _, c := range candidates {
			if g.Match(c) {
				return true
			}
		}
	}
	return false
}

// IsSource reports whether a path names a Java source file
func IsSource(path string) bool {
	return strings.HasSuffix(path, ".java")
}

// ScanDirectory walks the root directory and finds .java files in lexical
// order. Directories and files matching any of excludePatterns are skipped.
func ScanDirectory(root string, excludePatterns []string) ([]string, error) {
	excludes, err := NewExcluder(excludePatterns)
	if err != nil {
		return nil, err
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		if d.IsDir() {
			// Skip VCS metadata always
			if d.Name() == ".git" || d.Name() == ".svn" {
				return filepath.SkipDir
			}
			if excludes.Excluded(relPath, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if IsSource(path) && !excludes.Excluded(relPath, false) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}

	return files, nil
}
