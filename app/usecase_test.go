package app

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ryftlang/restructure/domain"
	"github.com/ryftlang/restructure/service"
)

func TestRestructureUseCaseExecute(t *testing.T) {
	svc := service.NewRestructureService("entry", "")
	discovery := service.NewFileDiscovery()
	formatter := service.NewFormatter()
	uc := NewRestructureUseCase(svc, discovery, formatter)

	var buf bytes.Buffer
	err := uc.Execute(context.Background(), domain.RestructureRequest{
		Paths:        []string{"../testdata/trivial.dot"},
		OutputFormat: domain.OutputFormatText,
		OutputWriter: &buf,
	})
	require.NoError(t, err)
	require.Contains(t, buf.String(), "vertices:")
}

func TestRestructureUseCaseNoFilesFound(t *testing.T) {
	svc := service.NewRestructureService("entry", "")
	discovery := service.NewFileDiscovery()
	formatter := service.NewFormatter()
	uc := NewRestructureUseCase(svc, discovery, formatter)

	err := uc.Execute(context.Background(), domain.RestructureRequest{
		Paths: []string{"../testdata/does-not-exist"},
	})
	require.Error(t, err)
}

func TestBatchUseCaseExecute(t *testing.T) {
	svc := service.NewRestructureService("entry", "")
	discovery := service.NewFileDiscovery()
	formatter := service.NewFormatter()
	executor := service.NewBatchExecutor(0, nil)
	uc := NewBatchUseCase(svc, discovery, formatter, executor)

	var buf bytes.Buffer
	err := uc.Execute(context.Background(), domain.RestructureRequest{
		Paths:        []string{"../testdata/trivial.dot", "../testdata/diamond.dot"},
		OutputFormat: domain.OutputFormatText,
		OutputWriter: &buf,
	})
	require.NoError(t, err)
	require.Contains(t, buf.String(), "trivial")
	require.Contains(t, buf.String(), "diamond")
}

func TestCombUseCaseExecute(t *testing.T) {
	svc := service.NewRestructureService("entry", "")
	discovery := service.NewFileDiscovery()
	uc := NewCombUseCase(svc, discovery)

	var buf bytes.Buffer
	err := uc.Execute(context.Background(), domain.RestructureRequest{
		Paths:        []string{"../testdata/irreducible_loop.dot"},
		OutputWriter: &buf,
	})
	require.NoError(t, err)
	require.Contains(t, buf.String(), "loops:")
}

func TestTopEquivalenceUseCaseExecute(t *testing.T) {
	svc := service.NewRestructureService("entry", "")
	uc := NewTopEquivalenceUseCase(svc)

	var buf bytes.Buffer
	err := uc.Execute(context.Background(), domain.TopEquivalenceRequest{
		LeftPath:  "../testdata/simple.dot",
		RightPath: "../testdata/simple.dot",
	}, &buf)
	require.NoError(t, err)
	require.Contains(t, buf.String(), "equal:")
}
