package domain

import (
	"context"
	"io"
)

// OutputFormat selects how a restructured result is rendered.
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatDOT  OutputFormat = "dot"
)

// RestructureRequest names the .dot fixtures (or glob patterns over
// them) to restructure and how to render the result.
type RestructureRequest struct {
	Paths        []string
	EntryName    string
	Recursive    bool
	OutputFormat OutputFormat
	OutputWriter io.Writer
	DotDir       string
	ShowProgress bool
}

// RestructureResult is the outcome of restructuring a single CFG.
type RestructureResult struct {
	SourcePath  string
	RegionName  string
	VertexCount int
	EdgeCount   int
	LoopCount   int
	ClonedTiles int
	AST         interface{}
	Warnings    []string
}

// RestructureResponse aggregates every file a batch run touched.
type RestructureResponse struct {
	Results     []RestructureResult
	Errors      []string
	GeneratedAt string
	Version     string
}

// TopEquivalenceRequest names the pair of .dot fixtures to compare after
// independently restructuring and beautifying each (spec §8 S7).
type TopEquivalenceRequest struct {
	LeftPath, RightPath string
	EntryName           string
}

// TopEquivalenceResponse reports whether the two inputs restructure to
// the same AST shape, per ast.Equal (component G).
type TopEquivalenceResponse struct {
	Equal  bool
	Reason string
}

// Restructurer is the narrow interface app and mcp program against; it
// hides the internal/region and internal/ast pipeline behind domain
// types (mirrors the teacher's per-analysis service interfaces, e.g.
// domain.ComplexityService).
type Restructurer interface {
	Restructure(ctx context.Context, req RestructureRequest) (*RestructureResponse, error)
	CheckTopologicalEquivalence(ctx context.Context, req TopEquivalenceRequest) (*TopEquivalenceResponse, error)
}

// ASTFormatter renders one RestructureResult in the requested format.
type ASTFormatter interface {
	Format(res *RestructureResult, format OutputFormat) (string, error)
	Write(res *RestructureResult, format OutputFormat, w io.Writer) error
}

// FileDiscovery expands CLI path/glob arguments into concrete .dot
// fixture paths (mirrors the teacher's FileReader.CollectPythonFiles).
type FileDiscovery interface {
	CollectDotFiles(paths []string, recursive bool) ([]string, error)
}

// ExecutableTask is one unit of batch work (mirrors the teacher's
// domain.ExecutableTask / ParallelExecutor contract).
type ExecutableTask interface {
	Name() string
	Execute(ctx context.Context) (*RestructureResult, error)
}

// ProgressReporter mirrors the teacher's domain.ProgressManager: an
// injectable sink for batch-run progress so restructure_service stays
// decoupled from any particular rendering (terminal bar vs. no-op).
type ProgressReporter interface {
	Initialize(total int)
	Start()
	Update(processed, total int)
	Complete(success bool)
}
