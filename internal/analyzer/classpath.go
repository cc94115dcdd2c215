package analyzer

import (
	"archive/zip"
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"doctree/internal/logger"
)

// ExpandClassPath resolves wildcard entries ("lib/*") to the jars they name
// and follows the Class-Path attribute of every jar manifest, relative to the
// jar's directory. Entries that do not exist are logged and dropped.
func ExpandClassPath(entries []string) []string {
	var out []string
	seen := make(map[string]bool)

	var visit func(entry string)
	visit = func(entry string) {
		entry = filepath.Clean(strings.TrimPrefix(entry, "file:"))
		if seen[entry] {
			return
		}
		seen[entry] = true

		info, err := os.Stat(entry)
		if err != nil {
			logger.Debug("[CLASSPATH] skipping %s: %v", entry, err)
			return
		}
		out = append(out, entry)
		if info.IsDir() || !isArchive(entry) {
			return
		}

		refs, err := manifestClassPath(entry)
		if err != nil {
			logger.Debug("[CLASSPATH] %s: %v", entry, err)
			return
		}
		for _, ref := range refs {
			ref = strings.TrimPrefix(ref, "file:")
			if !filepath.IsAbs(ref) {
				ref = filepath.Join(filepath.Dir(entry), filepath.FromSlash(ref))
			}
			visit(ref)
		}
	}

	for _, entry := range entries {
		if dir, ok := strings.CutSuffix(filepath.ToSlash(entry), "*"); ok {
			matches, _ := filepath.Glob(filepath.Join(filepath.FromSlash(dir), "*.jar"))
			for _, m := range matches {
				visit(m)
			}
			continue
		}
		visit(entry)
	}
	return out
}

// manifestClassPath reads the space separated Class-Path attribute of a jar
func manifestClassPath(jarPath string) ([]string, error) {
	r, err := zip.OpenReader(jarPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name != "META-INF/MANIFEST.MF" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		value, err := manifestAttribute(rc, "Class-Path")
		if err != nil {
			return nil, err
		}
		return strings.Fields(value), nil
	}
	return nil, nil
}

// manifestAttribute returns the value of a main-section attribute, joining
// continuation lines (lines that start with a single space)
func manifestAttribute(r io.Reader, name string) (string, error) {
	var (
		value   strings.Builder
		current bool
	)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			// End of the main section
			break
		}
		if strings.HasPrefix(line, " ") {
			if current {
				value.WriteString(line[1:])
			}
			continue
		}
		if current {
			break
		}
		key, v, ok := strings.Cut(line, ":")
		if ok && strings.EqualFold(strings.TrimSpace(key), name) {
			current = true
			value.WriteString(strings.TrimPrefix(v, " "))
		}
	}
	return value.String(), scanner.Err()
}

func isArchive(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".jar" || ext == ".zip"
}

// ClassIndex is the set of qualified type names found on a classpath
type ClassIndex struct {
	types map[string]bool
}

// NewClassIndex indexes the .class and .java files of the given directories
// and archives
func NewClassIndex(entries []string) (*ClassIndex, error) {
	idx := &ClassIndex{types: make(map[string]bool)}
	for _, entry := range entries {
		info, err := os.Stat(entry)
		if err != nil {
			return nil, fmt.Errorf("classpath entry %s: %w", entry, err)
		}
		switch {
		case info.IsDir():
			err = idx.addDir(entry)
		case isArchive(entry):
			err = idx.addArchive(entry)
		}
		if err != nil {
			return nil, fmt.Errorf("classpath entry %s: %w", entry, err)
		}
	}
	return idx, nil
}

// HasType reports whether the qualified name is on the classpath
func (c *ClassIndex) HasType(qualifiedName string) bool {
	if c == nil {
		return false
	}
	return c.types[qualifiedName]
}

// Len returns the number of indexed types
func (c *ClassIndex) Len() int {
	if c == nil {
		return 0
	}
	return len(c.types)
}

func (c *ClassIndex) addDir(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		c.add(filepath.ToSlash(rel))
		return nil
	})
}

func (c *ClassIndex) addArchive(path string) error {
	r, err := zip.OpenReader(path)
	if err != nil {
		return err
	}
	defer r.Close()
	for _, f := range r.File {
		c.add(f.Name)
	}
	return nil
}

// add registers a slash separated .class or .java entry name
func (c *ClassIndex) add(name string) {
	var ok bool
	for _, ext := range []string{".class", ".java"} {
		if name, ok = strings.CutSuffix(name, ext); ok {
			break
		}
	}
	if !ok || strings.HasPrefix(name, "META-INF/") {
		return
	}
	base := name[strings.LastIndex(name, "/")+1:]
	if base == "module-info" || base == "package-info" {
		return
	}
	// Nested classes are addressed with dots in source
	c.types[strings.NewReplacer("/", ".", "$", ".").Replace(name)] = true
}
