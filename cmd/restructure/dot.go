package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ryftlang/restructure/service"
)

// newDotCmd wires `restructure dot`: emit a GraphViz .dot rendering of
// either the restructured region or the beautified AST for one or more
// fixtures, one document per input written to stdout in sequence.
func newDotCmd() *cobra.Command {
	var stage string
	cmd := &cobra.Command{
		Use:   "dot [paths...]",
		Short: "Emit GraphViz .dot dumps of a region or AST",
		Long: `dot restructures each given fixture and writes a GraphViz document for
it to stdout: the region graph after combing/collapsing (--stage
region), or the beautified AST (--stage ast, the default).`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDot(cmd, args, stage)
		},
	}
	cmd.Flags().StringVar(&stage, "stage", "ast", "Which stage to render: region or ast")
	return cmd
}

func runDot(cmd *cobra.Command, args []string, stage string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	entry, _ := cmd.Flags().GetString("entry")
	svc := service.NewRestructureService(entry, cfg.Output.DotDir)
	out := cmd.OutOrStdout()

	for _, path := range args {
		var err error
		switch stage {
		case "region":
			err = svc.DumpRegionDOT(path, out)
		case "ast":
			err = svc.DumpASTDOT(path, out)
		default:
			return fmt.Errorf("unknown --stage %q (want region or ast)", stage)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "[%s] %v\n", path, err)
		}
	}
	return nil
}
