package app

import (
	"context"
	"fmt"
	"os"

	"github.com/ryftlang/restructure/domain"
	"github.com/ryftlang/restructure/service"
)

// BatchUseCase fans out RestructureServiceImpl.Restructure over many
// files concurrently through service.BatchExecutorImpl (which reports
// progress), then formats every successful result in input order once
// the whole batch has finished.
type BatchUseCase struct {
	svc       *service.RestructureServiceImpl
	discovery domain.FileDiscovery
	formatter domain.ASTFormatter
	executor  *service.BatchExecutorImpl
}

func NewBatchUseCase(svc *service.RestructureServiceImpl, discovery domain.FileDiscovery, formatter domain.ASTFormatter, executor *service.BatchExecutorImpl) *BatchUseCase {
	return &BatchUseCase{svc: svc, discovery: discovery, formatter: formatter, executor: executor}
}

func (uc *BatchUseCase) Execute(ctx context.Context, req domain.RestructureRequest) error {
	files, err := uc.discovery.CollectDotFiles(req.Paths, req.Recursive)
	if err != nil {
		return fmt.Errorf("collect input files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no .dot files found in %v", req.Paths)
	}

	tasks := make([]domain.ExecutableTask, len(files))
	for i, f := range files {
		tasks[i] = service.NewRestructureTask(f, uc.svc)
	}

	results, errs := uc.executor.Run(ctx, tasks)

	writer := req.OutputWriter
	if writer == nil {
		writer = os.Stdout
	}
	var failed int
	for i, res := range results {
		if errs[i] != nil {
			failed++
			fmt.Fprintf(os.Stderr, "[%s] %v\n", files[i], errs[i])
			continue
		}
		if err := uc.formatter.Write(res, req.OutputFormat, writer); err != nil {
			return fmt.Errorf("write result for %s: %w", files[i], err)
		}
	}
	if failed == len(tasks) {
		return fmt.Errorf("all %d inputs failed to restructure", len(tasks))
	}
	return nil
}
