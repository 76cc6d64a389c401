// Package app orchestrates config, service, and formatter into the
// use cases cmd/restructure and mcp/ both drive (mirrors the teacher's
// app/*_usecase.go layering).
package app

import (
	"context"
	"fmt"
	"os"

	"github.com/ryftlang/restructure/domain"
)

// RestructureUseCase drives one or more fixtures through
// domain.Restructurer and writes the formatted result out.
type RestructureUseCase struct {
	restructurer domain.Restructurer
	discovery    domain.FileDiscovery
	formatter    domain.ASTFormatter
}

func NewRestructureUseCase(restructurer domain.Restructurer, discovery domain.FileDiscovery, formatter domain.ASTFormatter) *RestructureUseCase {
	return &RestructureUseCase{restructurer: restructurer, discovery: discovery, formatter: formatter}
}

// Execute expands req.Paths via discovery, restructures every fixture
// found, and writes each formatted result to req.OutputWriter in turn.
func (uc *RestructureUseCase) Execute(ctx context.Context, req domain.RestructureRequest) error {
	files, err := uc.discovery.CollectDotFiles(req.Paths, req.Recursive)
	if err != nil {
		return fmt.Errorf("collect input files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no .dot files found in %v", req.Paths)
	}
	req.Paths = files

	resp, err := uc.restructurer.Restructure(ctx, req)
	if err != nil {
		return fmt.Errorf("restructure: %w", err)
	}

	writer := req.OutputWriter
	if writer == nil {
		writer = os.Stdout
	}
	for i := range resp.Results {
		if err := uc.formatter.Write(&resp.Results[i], req.OutputFormat, writer); err != nil {
			return fmt.Errorf("write result for %s: %w", resp.Results[i].SourcePath, err)
		}
	}
	for _, e := range resp.Errors {
		fmt.Fprintln(os.Stderr, e)
	}
	return nil
}
