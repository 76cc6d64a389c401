package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/ryftlang/restructure/domain"
)

// FileDiscoveryImpl implements domain.FileDiscovery, expanding a mix of
// plain paths, directories, and doublestar glob patterns (e.g.
// "testdata/**/*.dot") into concrete .dot fixture paths, the way the
// teacher's module_analyzer resolves package-exclude patterns with the
// same library.
type FileDiscoveryImpl struct{}

func NewFileDiscovery() *FileDiscoveryImpl {
	return &FileDiscoveryImpl{}
}

// CollectDotFiles resolves paths into an ordered, deduplicated list of
// .dot files.
func (f *FileDiscoveryImpl) CollectDotFiles(paths []string, recursive bool) ([]string, error) {
	seen := make(map[string]bool)
	var out []string

	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, p := range paths {
		if doublestar.ValidatePattern(p) && strings.ContainsAny(p, "*?[{") {
			matches, err := doublestar.FilepathGlob(p)
			if err != nil {
				return nil, fmt.Errorf("glob %s: %w", p, err)
			}
			for _, m := range matches {
				if isDotFile(m) {
					add(m)
				}
			}
			continue
		}

		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		if !info.IsDir() {
			add(p)
			continue
		}

		files, err := f.collectFromDirectory(p, recursive)
		if err != nil {
			return nil, err
		}
		for _, m := range files {
			add(m)
		}
	}
	return out, nil
}

func (f *FileDiscoveryImpl) collectFromDirectory(dir string, recursive bool) ([]string, error) {
	var files []string
	walkFn := func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if !recursive && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		if isDotFile(path) {
			files = append(files, path)
		}
		return nil
	}
	if err := filepath.Walk(dir, walkFn); err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	return files, nil
}

func isDotFile(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".dot"
}

var _ domain.FileDiscovery = (*FileDiscoveryImpl)(nil)
