package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/ryftlang/restructure/domain"
)

// CombService is the narrow slice of domain.Restructurer the `comb`
// subcommand needs: just the combing/collapse pass, no AST lift.
type CombService interface {
	CombOnly(path string) (*domain.RestructureResult, error)
}

// CombUseCase runs only the combing/collapse pass over one or more
// fixtures and reports the resulting region shape, without lifting to
// an AST — useful for inspecting cloning/dispatcher behavior in
// isolation from the beautifier (spec §6 debug interfaces).
type CombUseCase struct {
	svc       CombService
	discovery domain.FileDiscovery
}

func NewCombUseCase(svc CombService, discovery domain.FileDiscovery) *CombUseCase {
	return &CombUseCase{svc: svc, discovery: discovery}
}

func (uc *CombUseCase) Execute(ctx context.Context, req domain.RestructureRequest) error {
	files, err := uc.discovery.CollectDotFiles(req.Paths, req.Recursive)
	if err != nil {
		return fmt.Errorf("collect input files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no .dot files found in %v", req.Paths)
	}

	writer := req.OutputWriter
	if writer == nil {
		writer = os.Stdout
	}

	for _, path := range files {
		select {
		case <-ctx.Done():
			return fmt.Errorf("comb cancelled: %w", ctx.Err())
		default:
		}

		res, err := uc.svc.CombOnly(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "[%s] %v\n", path, err)
			continue
		}
		writeCombResult(writer, res)
	}
	return nil
}

func writeCombResult(w io.Writer, res *domain.RestructureResult) {
	fmt.Fprintf(w, "%s\n", res.RegionName)
	fmt.Fprintf(w, "  source:       %s\n", res.SourcePath)
	fmt.Fprintf(w, "  vertices:     %d\n", res.VertexCount)
	fmt.Fprintf(w, "  edges:        %d\n", res.EdgeCount)
	fmt.Fprintf(w, "  loops:        %d\n", res.LoopCount)
	fmt.Fprintf(w, "  cloned tiles: %d\n", res.ClonedTiles)
	for _, warning := range res.Warnings {
		fmt.Fprintf(w, "  warning:      %s\n", warning)
	}
}
