package main

import (
	"github.com/spf13/cobra"

	"github.com/ryftlang/restructure/app"
	"github.com/ryftlang/restructure/domain"
	"github.com/ryftlang/restructure/service"
)

// newTopEqCmd wires `restructure topeq`: restructure two fixtures
// independently and report whether they beautify to the same AST
// shape, the direct analogue of CombingPass.cpp's Equal/NotEqual test
// harness (spec §8 S7).
func newTopEqCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "topeq <left.dot> <right.dot>",
		Short: "Check whether two CFGs restructure to the same AST shape",
		Args:  cobra.ExactArgs(2),
		RunE:  runTopEq,
	}
	return cmd
}

func runTopEq(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	entry, _ := cmd.Flags().GetString("entry")
	svc := service.NewRestructureService(entry, cfg.Output.DotDir)
	useCase := app.NewTopEquivalenceUseCase(svc)

	req := domain.TopEquivalenceRequest{
		LeftPath:  args[0],
		RightPath: args[1],
		EntryName: entry,
	}
	return useCase.Execute(cmd.Context(), req, cmd.OutOrStdout())
}
