package ast

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ryftlang/restructure/internal/region"
)

// S4 -- a loop body ending with `if cond: continue` becomes
// Scs(DoWhile, ...), the terminal If removed from the body.
func TestDoWhilePromotion(t *testing.T) {
	cond := region.Atomic("c")
	body := &Code{Base: Base{ID: 1, Name: "body"}}
	continueNode := &Continue{Base: Base{ID: 2, Name: "continue"}}
	terminalIf := &If{Base: Base{ID: 3, Name: "if"}, Cond: cond, Then: continueNode}
	loop := &Scs{
		Base:     Base{ID: 4, Name: "loop"},
		LoopType: WhileTrue,
		Body:     &Sequence{Base: Base{ID: 5, Name: "sequence"}, Children: []Node{body, terminalIf}},
	}

	out, err := Beautify(loop, nil)
	require.NoError(t, err)

	scs, ok := out.(*Scs)
	require.True(t, ok)
	require.Equal(t, DoWhile, scs.LoopType)
	require.NotNil(t, scs.RelatedCondition)
	require.True(t, cond.Equal(scs.RelatedCondition.Cond))
	require.Equal(t, body, scs.Body)
}

// S5 -- a loop whose first node is `if not cond: break else: ...`
// becomes Scs(While, ...) with the break arm dropped.
func TestWhilePromotion(t *testing.T) {
	cond := region.Atomic("c")
	breakNode := &Break{Base: Base{ID: 1, Name: "break"}}
	rest := &Code{Base: Base{ID: 2, Name: "rest"}}
	leadingIf := &If{Base: Base{ID: 3, Name: "if"}, Cond: region.Not(cond), Then: breakNode}
	loop := &Scs{
		Base:     Base{ID: 4, Name: "loop"},
		LoopType: WhileTrue,
		Body:     &Sequence{Base: Base{ID: 5, Name: "sequence"}, Children: []Node{leadingIf, rest}},
	}

	out, err := Beautify(loop, nil)
	require.NoError(t, err)

	scs, ok := out.(*Scs)
	require.True(t, ok)
	require.Equal(t, While, scs.LoopType)
	require.NotNil(t, scs.RelatedCondition)
	require.True(t, cond.Equal(scs.RelatedCondition.Cond))
	require.Equal(t, rest, scs.Body)
}

// S6 -- a Switch with exactly two cases {3}->A, default->B rewrites to
// If(eq(cond,3), Then=A, Else=B), with Weaved propagated.
func TestDualSwitchSimplification(t *testing.T) {
	condValue := region.Atomic("state")
	a := &Code{Base: Base{ID: 1, Name: "a"}}
	b := &Code{Base: Base{ID: 2, Name: "b"}}
	sw := &Switch{
		Base:      Base{ID: 3, Name: "switch"},
		CondValue: condValue,
		Weaved:    true,
		Cases: []SwitchCase{
			{Labels: []region.Label{{3}}, Child: a},
			{Labels: nil, Child: b},
		},
	}

	out, err := Beautify(sw, nil)
	require.NoError(t, err)

	ifNode, ok := out.(*If)
	require.True(t, ok)
	require.True(t, ifNode.Weaved)
	require.Equal(t, a, ifNode.Then)
	require.Equal(t, b, ifNode.Else)
	require.Equal(t, region.EqualsConst(condValue, "3").String(), ifNode.Cond.String())
}

// A two-case *dispatcher* switch must be inlined to an If by the
// dispatcher pass, before dual-switch simplification ever sees it
// (spec §9 open question a): DispatcherKind must be cleared, not left
// set on a surviving Switch node.
func TestDispatcherSwitchInlinedBeforeDualSwitch(t *testing.T) {
	condValue := region.Atomic("disp.state")
	a := &Code{Base: Base{ID: 1, Name: "a"}}
	b := &Code{Base: Base{ID: 2, Name: "b"}}
	sw := &Switch{
		Base:           Base{ID: 3, Name: "dispatch"},
		CondValue:      condValue,
		DispatcherKind: EntryDispatcherKind,
		Cases: []SwitchCase{
			{Labels: []region.Label{{0}}, Child: a},
			{Labels: []region.Label{{1}}, Child: b},
		},
	}

	out, err := Beautify(sw, nil)
	require.NoError(t, err)

	ifNode, ok := out.(*If)
	require.True(t, ok)
	require.Equal(t, a, ifNode.Then)
	require.Equal(t, b, ifNode.Else)
}

// markImplicitReturn (pass 5) only marks the final Code of a top-level
// sequence when the caller says its origin block ends in a return.
func TestMarkImplicitReturn(t *testing.T) {
	first := &Code{Base: Base{ID: 1, Name: "first", OriginBlock: region.CodeBlockRef(nil)}}
	last := &Code{Base: Base{ID: 2, Name: "last", OriginBlock: blockRef("last")}}
	seq := &Sequence{Base: Base{ID: 3, Name: "sequence"}, Children: []Node{first, last}}

	out, err := Beautify(seq, func(ref region.CodeBlockRef) bool {
		return ref == blockRef("last")
	})
	require.NoError(t, err)

	gotSeq, ok := out.(*Sequence)
	require.True(t, ok)
	gotLast, ok := gotSeq.Children[1].(*Code)
	require.True(t, ok)
	require.True(t, gotLast.ImplicitReturn)

	gotFirst, ok := gotSeq.Children[0].(*Code)
	require.True(t, ok)
	require.False(t, gotFirst.ImplicitReturn)
}

type blockRef string
