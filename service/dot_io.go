package service

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ryftlang/restructure/internal/ast"
	"github.com/ryftlang/restructure/internal/dot"
	"github.com/ryftlang/restructure/internal/region"
)

// DotReader loads a region.Source from a .dot fixture on disk.
type DotReader struct {
	EntryName string
}

// NewDotReader creates a reader defaulting to an "entry"-named root
// vertex, the convention the test harness's fixtures use.
func NewDotReader(entryName string) *DotReader {
	if entryName == "" {
		entryName = "entry"
	}
	return &DotReader{EntryName: entryName}
}

// ReadRegion parses path and builds a region.Region from it.
func (d *DotReader) ReadRegion(path string) (*region.Region, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	fixture, err := dot.Parse(f, d.EntryName)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return region.Build(fixture)
}

// DotWriter writes the .dot debug dumps of spec §6 for a restructured
// region and its lifted AST, one pair per source file, into dir.
type DotWriter struct {
	Dir string
}

func NewDotWriter(dir string) *DotWriter {
	return &DotWriter{Dir: dir}
}

// WriteRegion dumps r to <dir>/<base>.region.dot.
func (w *DotWriter) WriteRegion(base string, r *region.Region) error {
	if w.Dir == "" {
		return nil
	}
	return w.writeFile(base+".region.dot", func(f *os.File) error {
		return dot.WriteRegion(f, r)
	})
}

// WriteAST dumps root to <dir>/<base>.ast.dot.
func (w *DotWriter) WriteAST(base string, root ast.Node) error {
	if w.Dir == "" {
		return nil
	}
	return w.writeFile(base+".ast.dot", func(f *os.File) error {
		return dot.WriteAST(f, root)
	})
}

func (w *DotWriter) writeFile(name string, emit func(*os.File) error) error {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return fmt.Errorf("create dot output dir %s: %w", w.Dir, err)
	}
	f, err := os.Create(filepath.Join(w.Dir, name))
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	defer f.Close()
	return emit(f)
}
