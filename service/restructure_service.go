package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/ryftlang/restructure/domain"
	"github.com/ryftlang/restructure/internal/ast"
	"github.com/ryftlang/restructure/internal/dot"
	"github.com/ryftlang/restructure/internal/region"
	"github.com/ryftlang/restructure/internal/version"
)

// RestructureServiceImpl drives the core pipeline — region.Build,
// region.Restructure (comb + collapse), ast.Build, ast.Beautify — over
// one or more .dot fixtures, and the topological-equivalence check of
// spec §8 S7 over a pair of them.
type RestructureServiceImpl struct {
	reader *DotReader
	writer *DotWriter
}

// NewRestructureService creates a service reading fixtures rooted at
// entryName and, if dotDir is non-empty, dumping a region/.dot and an
// ast/.dot debug pair per input (spec §6 "debug/test interfaces").
func NewRestructureService(entryName, dotDir string) *RestructureServiceImpl {
	return &RestructureServiceImpl{
		reader: NewDotReader(entryName),
		writer: NewDotWriter(dotDir),
	}
}

// Restructure runs the pipeline over every path in req.Paths.
func (s *RestructureServiceImpl) Restructure(ctx context.Context, req domain.RestructureRequest) (*domain.RestructureResponse, error) {
	resp := &domain.RestructureResponse{
		GeneratedAt: time.Now().Format(time.RFC3339),
		Version:     version.Short(),
	}

	for _, path := range req.Paths {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("restructure cancelled: %w", ctx.Err())
		default:
		}

		result, err := s.restructureOne(path)
		if err != nil {
			resp.Errors = append(resp.Errors, fmt.Sprintf("[%s] %v", path, err))
			continue
		}
		resp.Results = append(resp.Results, *result)
	}

	return resp, nil
}

// restructureOne builds, combs, lifts, and beautifies a single fixture,
// optionally dumping debug .dot pairs for both stages along the way.
func (s *RestructureServiceImpl) restructureOne(path string) (*domain.RestructureResult, error) {
	r, err := s.reader.ReadRegion(path)
	if err != nil {
		return nil, err
	}

	vertices, edges := countGraph(r)

	if err := region.Restructure(r); err != nil {
		return nil, fmt.Errorf("restructure: %w", err)
	}
	if err := s.writer.WriteRegion(baseName(path), r); err != nil {
		return nil, err
	}

	tree, err := ast.Build(r)
	if err != nil {
		return nil, fmt.Errorf("build ast: %w", err)
	}
	tree, err = ast.Beautify(tree, nil)
	if err != nil {
		return nil, fmt.Errorf("beautify: %w", err)
	}
	if err := s.writer.WriteAST(baseName(path), tree); err != nil {
		return nil, err
	}

	return &domain.RestructureResult{
		SourcePath:  path,
		RegionName:  r.Name(),
		VertexCount: vertices,
		EdgeCount:   edges,
		LoopCount:   countLoops(r),
		AST:         tree,
	}, nil
}

// CombOnly runs just the combing/collapse pass over path and dumps the
// resulting region, without lifting it to an AST — the `restructure
// comb` subcommand's entry point.
func (s *RestructureServiceImpl) CombOnly(path string) (*domain.RestructureResult, error) {
	r, err := s.reader.ReadRegion(path)
	if err != nil {
		return nil, err
	}

	vertices, edges := countGraph(r)

	if err := region.Restructure(r); err != nil {
		return nil, fmt.Errorf("restructure: %w", err)
	}
	if err := s.writer.WriteRegion(baseName(path), r); err != nil {
		return nil, err
	}

	postVertices, postEdges := countGraph(r)
	return &domain.RestructureResult{
		SourcePath:  path,
		RegionName:  r.Name(),
		VertexCount: postVertices,
		EdgeCount:   postEdges,
		LoopCount:   countLoops(r),
		ClonedTiles: postVertices - vertices,
		Warnings:    combWarnings(vertices, edges, postVertices, postEdges),
	}, nil
}

func combWarnings(preV, preE, postV, postE int) []string {
	if postV == preV {
		return nil
	}
	return []string{fmt.Sprintf("vertex count changed %d -> %d during combing (cloning occurred)", preV, postV)}
}

// CheckTopologicalEquivalence restructures and beautifies both inputs
// independently, then compares the results with ast.Equal — the direct
// analogue of CombingPass.cpp's runTest Equal/NotEqual harness.
func (s *RestructureServiceImpl) CheckTopologicalEquivalence(ctx context.Context, req domain.TopEquivalenceRequest) (*domain.TopEquivalenceResponse, error) {
	reader := s.reader
	if req.EntryName != "" {
		reader = NewDotReader(req.EntryName)
	}

	left, err := buildAndBeautify(reader, req.LeftPath)
	if err != nil {
		return nil, fmt.Errorf("left input: %w", err)
	}
	right, err := buildAndBeautify(reader, req.RightPath)
	if err != nil {
		return nil, fmt.Errorf("right input: %w", err)
	}

	if ast.Equal(left, right) {
		return &domain.TopEquivalenceResponse{Equal: true}, nil
	}
	return &domain.TopEquivalenceResponse{Equal: false, Reason: "restructured trees differ structurally"}, nil
}

// DumpRegionDOT restructures path and writes the resulting region as
// GraphViz directly to w, for `restructure dot --stage region`.
func (s *RestructureServiceImpl) DumpRegionDOT(path string, w io.Writer) error {
	r, err := s.reader.ReadRegion(path)
	if err != nil {
		return err
	}
	if err := region.Restructure(r); err != nil {
		return fmt.Errorf("restructure: %w", err)
	}
	return dot.WriteRegion(w, r)
}

// DumpASTDOT restructures, lifts, and beautifies path, then writes the
// resulting AST as GraphViz directly to w, for `restructure dot
// --stage ast` (the default).
func (s *RestructureServiceImpl) DumpASTDOT(path string, w io.Writer) error {
	tree, err := buildAndBeautify(s.reader, path)
	if err != nil {
		return err
	}
	return dot.WriteAST(w, tree)
}

func buildAndBeautify(reader *DotReader, path string) (ast.Node, error) {
	r, err := reader.ReadRegion(path)
	if err != nil {
		return nil, err
	}
	if err := region.Restructure(r); err != nil {
		return nil, fmt.Errorf("restructure: %w", err)
	}
	tree, err := ast.Build(r)
	if err != nil {
		return nil, fmt.Errorf("build ast: %w", err)
	}
	return ast.Beautify(tree, nil)
}

func countGraph(r *region.Region) (vertices, edges int) {
	vs := r.Vertices()
	vertices = len(vs)
	for _, v := range vs {
		edges += len(v.Successors)
	}
	return
}

func countLoops(r *region.Region) int {
	count := 0
	for _, v := range r.Vertices() {
		if v.HasCollapsedBody() {
			count++
			count += countLoops(v.Collapsed)
		}
	}
	return count
}

func baseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

var _ domain.Restructurer = (*RestructureServiceImpl)(nil)
