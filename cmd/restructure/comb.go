package main

import (
	"github.com/spf13/cobra"

	"github.com/ryftlang/restructure/app"
	"github.com/ryftlang/restructure/domain"
	"github.com/ryftlang/restructure/service"
)

// newCombCmd wires `restructure comb`: run only the combing + collapse
// pass over one or more fixtures and report the resulting region
// shape, skipping the AST lift and beautification stages entirely.
func newCombCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comb [paths...]",
		Short: "Run only the combing/collapse pass and dump the region",
		Long: `comb restructures the raw CFG into a reducible, single-entry,
single-exit-per-loop region — the dominator-based node-cloning and
entry/exit dispatcher synthesis of the combing pass — without lifting
the result to an AST. Pair with --dot-dir to inspect the region graph
GraphViz can render.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runComb,
	}
	return cmd
}

func runComb(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	entry, _ := cmd.Flags().GetString("entry")
	recursive, _ := cmd.Flags().GetBool("recursive")

	svc := service.NewRestructureService(entry, cfg.Output.DotDir)
	discovery := service.NewFileDiscovery()
	useCase := app.NewCombUseCase(svc, discovery)

	req := domain.RestructureRequest{
		Paths:        args,
		EntryName:    entry,
		Recursive:    recursive,
		OutputWriter: cmd.OutOrStdout(),
	}
	return useCase.Execute(cmd.Context(), req)
}
