package service

import (
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCollectDotFilesPlainPaths(t *testing.T) {
	d := NewFileDiscovery()
	files, err := d.CollectDotFiles([]string{"../testdata/trivial.dot", "../testdata/diamond.dot"}, false)
	require.NoError(t, err)
	require.Len(t, files, 2)
}

func TestCollectDotFilesDirectory(t *testing.T) {
	d := NewFileDiscovery()
	files, err := d.CollectDotFiles([]string{"../testdata"}, false)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(files), 7)
	for _, f := range files {
		require.Equal(t, ".dot", filepath.Ext(f))
	}
}

func TestCollectDotFilesGlob(t *testing.T) {
	d := NewFileDiscovery()
	files, err := d.CollectDotFiles([]string{"../testdata/*.dot"}, false)
	require.NoError(t, err)

	names := make([]string, len(files))
	for i, f := range files {
		names[i] = filepath.Base(f)
	}
	sort.Strings(names)
	require.Contains(t, names, "trivial.dot")
	require.Contains(t, names, "diamond.dot")
}

func TestCollectDotFilesMissingPathErrors(t *testing.T) {
	d := NewFileDiscovery()
	_, err := d.CollectDotFiles([]string{"../testdata/does-not-exist.dot"}, false)
	require.Error(t, err)
}
