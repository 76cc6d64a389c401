package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ryftlang/restructure/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "restructure",
	Short: "Recover structured control flow from a raw CFG",
	Long: `restructure turns an externally-supplied control flow graph back into
a tree of sequences, conditionals, loops and switches — no gotos — via
dominator-based combing, strongly-connected-set collapsing, and a
four-pass beautifier.

Subcommands:
  restructure init    — scaffold a restructure.toml
  restructure config  — inspect the effective configuration
  restructure build   — build and beautify one or more CFGs
  restructure comb    — run only the combing/collapse pass, dump the region
  restructure topeq   — check two CFGs restructure to the same AST shape
  restructure dot     — emit GraphViz .dot dumps of a region or AST
  restructure version — print version information`,
	Version: version.Short(),
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().String("entry", "entry", "Name of the root vertex in each .dot fixture")
	rootCmd.PersistentFlags().StringP("format", "f", "", "Output format (text, json, dot)")
	rootCmd.PersistentFlags().String("dot-dir", "", "Directory to dump debug .dot pairs into")
	rootCmd.PersistentFlags().Bool("recursive", true, "Recurse into directories given as input paths")

	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newBuildCmd())
	rootCmd.AddCommand(newCombCmd())
	rootCmd.AddCommand(newTopEqCmd())
	rootCmd.AddCommand(newDotCmd())
	rootCmd.AddCommand(newVersionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
