package main

import (
	"github.com/spf13/cobra"

	"github.com/ryftlang/restructure/app"
	"github.com/ryftlang/restructure/domain"
	"github.com/ryftlang/restructure/service"
)

// newBuildCmd wires `restructure build`: build+comb+lift+beautify every
// .dot fixture given, in parallel when more than one file is supplied.
func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [paths...]",
		Short: "Build and beautify the AST for one or more CFGs",
		Long: `build restructures each given .dot fixture (or every *.dot file under a
given directory) into a beautified AST: sequence/loop/if/switch/break/
continue nodes with no gotos, per the combing + collapsing + lifting +
beautification pipeline.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runBuild,
	}
	return cmd
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	entry, _ := cmd.Flags().GetString("entry")
	recursive, _ := cmd.Flags().GetBool("recursive")
	rawFormat, _ := cmd.Flags().GetString("format")
	if rawFormat == "" {
		rawFormat = cfg.Output.Format
	}
	format, err := parseOutputFormat(rawFormat)
	if err != nil {
		return err
	}

	svc := service.NewRestructureService(entry, cfg.Output.DotDir)
	discovery := service.NewFileDiscovery()
	formatter := service.NewFormatter()

	req := domain.RestructureRequest{
		Paths:        args,
		EntryName:    entry,
		Recursive:    recursive,
		OutputFormat: format,
		OutputWriter: cmd.OutOrStdout(),
	}

	if len(args) > 1 {
		var progress domain.ProgressReporter
		if cfg.Batch.Progress {
			progress = service.NewProgressReporter()
		}
		executor := service.NewBatchExecutor(cfg.Batch.Workers, progress)
		useCase := app.NewBatchUseCase(svc, discovery, formatter, executor)
		return useCase.Execute(cmd.Context(), req)
	}

	useCase := app.NewRestructureUseCase(svc, discovery, formatter)
	return useCase.Execute(cmd.Context(), req)
}
