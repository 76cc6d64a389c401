package region

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// buildDiamond constructs entry->{a,b}->join->exit and returns the region
// plus each named vertex.
func buildDiamond(t *testing.T) (*Region, map[string]*Vertex) {
	t.Helper()
	r := NewRegion("diamond")
	entry := r.CreateVertex(KindCode, "entry")
	a := r.CreateVertex(KindCode, "a")
	b := r.CreateVertex(KindCode, "b")
	join := r.CreateVertex(KindCode, "join")
	exit := r.CreateVertex(KindEmpty, "exit")
	r.SetEntry(entry)
	r.Connect(entry, a)
	r.Connect(entry, b)
	r.Connect(a, join)
	r.Connect(b, join)
	r.Connect(join, exit)
	entry.Condition = Atomic("x")
	return r, map[string]*Vertex{"entry": entry, "a": a, "b": b, "join": join, "exit": exit}
}

func TestDominatorsDiamond(t *testing.T) {
	r, v := buildDiamond(t)
	dom := r.Dominators()

	require.True(t, dom.Dominates(v["entry"].ID, v["join"].ID))
	require.False(t, dom.Dominates(v["a"].ID, v["join"].ID))
	require.False(t, dom.Dominates(v["b"].ID, v["join"].ID))
	require.Equal(t, v["entry"].ID, dom.IDom(v["join"].ID))
}

func TestPostdominatorsDiamond(t *testing.T) {
	r, v := buildDiamond(t)
	pdom := r.Postdominators()

	require.True(t, pdom.Dominates(v["join"].ID, v["a"].ID))
	require.True(t, pdom.Dominates(v["join"].ID, v["b"].ID))
	require.True(t, pdom.Dominates(v["join"].ID, v["entry"].ID))
}

func TestSCCsFindsCycle(t *testing.T) {
	r := NewRegion("loop")
	entry := r.CreateVertex(KindCode, "entry")
	h := r.CreateVertex(KindCode, "h")
	body := r.CreateVertex(KindCode, "body")
	exit := r.CreateVertex(KindEmpty, "exit")
	r.SetEntry(entry)
	r.Connect(entry, h)
	h.Condition = Atomic("c")
	r.Connect(h, body)
	r.Connect(h, exit)
	r.Connect(body, h)

	sccs := r.SCCs()
	var found *SCC
	for _, s := range sccs {
		if s.NonTrivial() {
			found = s
		}
	}
	require.NotNil(t, found)
	require.ElementsMatch(t, []int{h.ID, body.ID}, idsOf(found.Vertices))
}

func idsOf(vs []*Vertex) []int {
	out := make([]int, len(vs))
	for i, v := range vs {
		out[i] = v.ID
	}
	return out
}

func TestRestructureSimpleLoopClonesNothing(t *testing.T) {
	r := NewRegion("loop")
	entry := r.CreateVertex(KindCode, "entry")
	h := r.CreateVertex(KindCode, "h")
	body := r.CreateVertex(KindCode, "body")
	exit := r.CreateVertex(KindEmpty, "exit")
	r.SetEntry(entry)
	r.Connect(entry, h)
	h.Condition = Atomic("c")
	r.Connect(h, body)
	r.Connect(h, exit)
	r.Connect(body, h)

	sizeBefore := r.Size()
	require.NoError(t, Restructure(r))
	require.Equal(t, sizeBefore-1, r.Size(), "a single-entry loop is already reducible; collapsing replaces {h, body} with one vertex and combing must not clone anything")
}

func TestRestructureIrreducibleTwoEntryLoop(t *testing.T) {
	r := NewRegion("irreducible")
	entry := r.CreateVertex(KindCode, "entry")
	p1 := r.CreateVertex(KindCode, "p1")
	p2 := r.CreateVertex(KindCode, "p2")
	h := r.CreateVertex(KindCode, "h")
	x := r.CreateVertex(KindCode, "x")
	exit := r.CreateVertex(KindEmpty, "exit")
	r.SetEntry(entry)
	entry.Condition = Atomic("x")
	r.Connect(entry, p1)
	r.Connect(entry, p2)
	r.Connect(p1, h)
	r.Connect(p2, x)
	h.Condition = Atomic("y")
	r.Connect(h, x)
	r.Connect(h, exit)
	r.Connect(x, h)

	require.NoError(t, Restructure(r))

	var collapsed *Vertex
	for _, v := range r.Vertices() {
		if v.Kind == KindCollapsed {
			collapsed = v
		}
	}
	require.NotNil(t, collapsed, "the {h,x} cycle must combine into a single Collapsed vertex")
	require.Len(t, collapsed.Successors, 1, "a collapsed loop vertex must have exactly one external successor")
}
