package dot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ryftlang/restructure/internal/region"
)

func TestParseDiamond(t *testing.T) {
	src := `digraph diamond {
  entry [cond="x"];
  entry -> left;
  entry -> right;
  left -> exit;
  right -> exit;
  exit [kind=empty];
}
`
	f, err := Parse(strings.NewReader(src), "entry")
	require.NoError(t, err)
	require.Equal(t, "diamond", f.Name())
	require.NotNil(t, f.Entry())
	require.Len(t, f.Vertices(), 4)

	r, err := region.Build(f)
	require.NoError(t, err)
	require.Equal(t, 4, r.Size())
	require.Len(t, r.Entry().Successors, 2)
}

func TestParseSwitchLabels(t *testing.T) {
	src := `digraph sw {
  entry -> a [label="0"];
  entry -> b [label="1"];
  entry -> c [label="default"];
  a -> exit;
  b -> exit;
  c -> exit;
  exit [kind=empty];
}
`
	f, err := Parse(strings.NewReader(src), "entry")
	require.NoError(t, err)
	r, err := region.Build(f)
	require.NoError(t, err)
	entry := r.Entry()
	require.Len(t, entry.Successors, 3)
	require.True(t, entry.CaseLabel(2).IsDefault())
}

func TestParseMissingEntry(t *testing.T) {
	_, err := Parse(strings.NewReader("digraph g { a -> b; }"), "entry")
	require.Error(t, err)
}

func TestRoundTripWriteRegion(t *testing.T) {
	src := `digraph simple {
  entry [cond="x"];
  entry -> left;
  entry -> right;
  left -> exit;
  right -> exit;
  exit [kind=empty];
}
`
	f, err := Parse(strings.NewReader(src), "entry")
	require.NoError(t, err)
	r, err := region.Build(f)
	require.NoError(t, err)

	var b strings.Builder
	require.NoError(t, WriteRegion(&b, r))
	require.Contains(t, b.String(), "digraph simple")
	require.Contains(t, b.String(), "kind=code")
}
