package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ryftlang/restructure/domain"
)

func TestBatchExecutorRunOrdersResultsByTaskIndex(t *testing.T) {
	svc := NewRestructureService("entry", "")
	paths := []string{"../testdata/trivial.dot", "../testdata/diamond.dot", "../testdata/do_while.dot"}

	tasks := make([]domain.ExecutableTask, len(paths))
	for i, p := range paths {
		tasks[i] = NewRestructureTask(p, svc)
	}

	exec := NewBatchExecutor(2, nil)
	results, errs := exec.Run(context.Background(), tasks)

	require.Len(t, results, 3)
	require.Len(t, errs, 3)
	for i, err := range errs {
		require.NoError(t, err, "task %d (%s) should succeed", i, paths[i])
		require.NotNil(t, results[i])
		require.Equal(t, paths[i], results[i].SourcePath)
	}
}

func TestBatchExecutorRunContinuesPastFailures(t *testing.T) {
	svc := NewRestructureService("entry", "")
	paths := []string{"../testdata/trivial.dot", "../testdata/does-not-exist.dot", "../testdata/diamond.dot"}

	tasks := make([]domain.ExecutableTask, len(paths))
	for i, p := range paths {
		tasks[i] = NewRestructureTask(p, svc)
	}

	exec := NewBatchExecutor(0, nil)
	results, errs := exec.Run(context.Background(), tasks)

	require.NoError(t, errs[0])
	require.Error(t, errs[1])
	require.NoError(t, errs[2])
	require.NotNil(t, results[0])
	require.Nil(t, results[1])
	require.NotNil(t, results[2])
}
