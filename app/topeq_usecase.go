package app

import (
	"context"
	"fmt"
	"io"

	"github.com/ryftlang/restructure/domain"
)

// TopEquivalenceUseCase drives the spec §8 S7 comparison: restructure
// two fixtures independently and report whether they beautify to the
// same AST shape.
type TopEquivalenceUseCase struct {
	restructurer domain.Restructurer
}

func NewTopEquivalenceUseCase(restructurer domain.Restructurer) *TopEquivalenceUseCase {
	return &TopEquivalenceUseCase{restructurer: restructurer}
}

func (uc *TopEquivalenceUseCase) Execute(ctx context.Context, req domain.TopEquivalenceRequest, w io.Writer) error {
	resp, err := uc.restructurer.CheckTopologicalEquivalence(ctx, req)
	if err != nil {
		return fmt.Errorf("check topological equivalence: %w", err)
	}
	if resp.Equal {
		fmt.Fprintf(w, "equal: %s ~ %s\n", req.LeftPath, req.RightPath)
		return nil
	}
	fmt.Fprintf(w, "not equal: %s != %s (%s)\n", req.LeftPath, req.RightPath, resp.Reason)
	return nil
}
