package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := runCLI(t, "version", "--short")
	require.NoError(t, err)
	require.NotEmpty(t, out)
}

func TestInitCommandWritesToStdout(t *testing.T) {
	out, err := runCLI(t, "init", "--out", "-")
	require.NoError(t, err)
	require.Contains(t, out, "workers")
}

func TestConfigShowCommand(t *testing.T) {
	out, err := runCLI(t, "config", "show")
	require.NoError(t, err)
	require.Contains(t, out, "logging")
}

func TestBuildCommandSingleFile(t *testing.T) {
	out, err := runCLI(t, "build", "--format", "text", "../../testdata/trivial.dot")
	require.NoError(t, err)
	require.Contains(t, out, "vertices:")
}

func TestBuildCommandMultipleFilesBatches(t *testing.T) {
	out, err := runCLI(t, "build", "--format", "text", "../../testdata/trivial.dot", "../../testdata/diamond.dot")
	require.NoError(t, err)
	require.Contains(t, out, "trivial")
	require.Contains(t, out, "diamond")
}

func TestCombCommand(t *testing.T) {
	out, err := runCLI(t, "comb", "../../testdata/irreducible_loop.dot")
	require.NoError(t, err)
	require.Contains(t, out, "loops:")
}

func TestTopEqCommandSameFile(t *testing.T) {
	out, err := runCLI(t, "topeq", "../../testdata/simple.dot", "../../testdata/simple.dot")
	require.NoError(t, err)
	require.Contains(t, out, "equal:")
}

func TestTopEqCommandDifferentFiles(t *testing.T) {
	out, err := runCLI(t, "topeq", "../../testdata/trivial.dot", "../../testdata/diamond.dot")
	require.NoError(t, err)
	require.Contains(t, out, "not equal:")
}

func TestDotCommandRegionStage(t *testing.T) {
	out, err := runCLI(t, "dot", "--stage", "region", "../../testdata/trivial.dot")
	require.NoError(t, err)
	require.Contains(t, out, "digraph")
}

func TestDotCommandASTStage(t *testing.T) {
	out, err := runCLI(t, "dot", "--stage", "ast", "../../testdata/trivial.dot")
	require.NoError(t, err)
	require.Contains(t, out, "digraph")
}
