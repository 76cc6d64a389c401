package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ryftlang/restructure/domain"
	"github.com/ryftlang/restructure/internal/ast"
)

func newTestService() *RestructureServiceImpl {
	return NewRestructureService("entry", "")
}

// S1 -- entry->exit sequences into Sequence[Code(entry), Code(exit)].
func TestRestructureTrivial(t *testing.T) {
	svc := newTestService()
	resp, err := svc.Restructure(context.Background(), domain.RestructureRequest{
		Paths: []string{"../testdata/trivial.dot"},
	})
	require.NoError(t, err)
	require.Empty(t, resp.Errors)
	require.Len(t, resp.Results, 1)

	res := resp.Results[0]
	require.Equal(t, 0, res.LoopCount)
	tree, ok := res.AST.(ast.Node)
	require.True(t, ok)
	seq, ok := tree.(*ast.Sequence)
	require.True(t, ok)
	require.Len(t, seq.Children, 2)
}

// S2 -- the diamond lifts to an If whose successor is the join/exit
// tail.
func TestRestructureDiamond(t *testing.T) {
	svc := newTestService()
	resp, err := svc.Restructure(context.Background(), domain.RestructureRequest{
		Paths: []string{"../testdata/diamond.dot"},
	})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)

	tree := resp.Results[0].AST.(ast.Node)
	seq, ok := tree.(*ast.Sequence)
	require.True(t, ok)
	require.GreaterOrEqual(t, len(seq.Children), 1)
	_, ok = seq.Children[0].(*ast.If)
	require.True(t, ok)
}

// S3 -- the two-entry cycle combs into exactly one loop.
func TestRestructureIrreducibleLoop(t *testing.T) {
	svc := newTestService()
	resp, err := svc.Restructure(context.Background(), domain.RestructureRequest{
		Paths: []string{"../testdata/irreducible_loop.dot"},
	})
	require.NoError(t, err)
	require.Empty(t, resp.Errors)
	require.Len(t, resp.Results, 1)
	require.Equal(t, 1, resp.Results[0].LoopCount)
}

// S4 -- do_while.dot's loop promotes to DoWhile.
func TestRestructureDoWhile(t *testing.T) {
	svc := newTestService()
	resp, err := svc.Restructure(context.Background(), domain.RestructureRequest{
		Paths: []string{"../testdata/do_while.dot"},
	})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	require.Equal(t, 1, resp.Results[0].LoopCount)

	loop := findLoop(resp.Results[0].AST.(ast.Node))
	require.NotNil(t, loop)
	require.Equal(t, ast.DoWhile, loop.LoopType)
}

// S5 -- while_loop.dot's loop promotes to While.
func TestRestructureWhile(t *testing.T) {
	svc := newTestService()
	resp, err := svc.Restructure(context.Background(), domain.RestructureRequest{
		Paths: []string{"../testdata/while_loop.dot"},
	})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)

	loop := findLoop(resp.Results[0].AST.(ast.Node))
	require.NotNil(t, loop)
	require.Equal(t, ast.While, loop.LoopType)
}

// S7 -- simple.dot is topologically equivalent to itself but not to
// trivial.dot.
func TestCheckTopologicalEquivalence(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	notEqual, err := svc.CheckTopologicalEquivalence(ctx, domain.TopEquivalenceRequest{
		LeftPath:  "../testdata/simple.dot",
		RightPath: "../testdata/trivial.dot",
	})
	require.NoError(t, err)
	require.False(t, notEqual.Equal)

	equal, err := svc.CheckTopologicalEquivalence(ctx, domain.TopEquivalenceRequest{
		LeftPath:  "../testdata/simple.dot",
		RightPath: "../testdata/simple.dot",
	})
	require.NoError(t, err)
	require.True(t, equal.Equal)
}

func TestCombOnly(t *testing.T) {
	svc := newTestService()
	res, err := svc.CombOnly("../testdata/irreducible_loop.dot")
	require.NoError(t, err)
	require.Equal(t, 1, res.LoopCount)
}

// findLoop returns the first Scs node found in a depth-first walk of
// tree, or nil.
func findLoop(n ast.Node) *ast.Scs {
	switch t := n.(type) {
	case nil:
		return nil
	case *ast.Scs:
		return t
	case *ast.Sequence:
		for _, c := range t.Children {
			if loop := findLoop(c); loop != nil {
				return loop
			}
		}
	case *ast.If:
		if loop := findLoop(t.Then); loop != nil {
			return loop
		}
		return findLoop(t.Else)
	}
	if succ := n.Successor(); succ != nil {
		return findLoop(succ)
	}
	return nil
}
