package ast

import "github.com/ryftlang/restructure/internal/region"

// Equal reports structural equality between two trees: kind and
// attribute fields match and children recurse equal; IDs and names are
// ignored (spec §4.5).
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch at := a.(type) {
	case *Code:
		bt, ok := b.(*Code)
		return ok && at.ImplicitReturn == bt.ImplicitReturn && successorsEqual(at, bt)
	case *Break:
		_, ok := b.(*Break)
		return ok && successorsEqual(at, b)
	case *Continue:
		bt, ok := b.(*Continue)
		return ok && at.Implicit == bt.Implicit && at.ComputationIf.Equal(bt.ComputationIf) && successorsEqual(at, bt)
	case *If:
		bt, ok := b.(*If)
		return ok && at.Weaved == bt.Weaved && at.Cond.Equal(bt.Cond) && Equal(at.Then, bt.Then) && Equal(at.Else, bt.Else) && successorsEqual(at, bt)
	case *Scs:
		bt, ok := b.(*Scs)
		if !ok || at.LoopType != bt.LoopType || !Equal(at.Body, bt.Body) {
			return false
		}
		if (at.RelatedCondition == nil) != (bt.RelatedCondition == nil) {
			return false
		}
		if at.RelatedCondition != nil && !Equal(at.RelatedCondition, bt.RelatedCondition) {
			return false
		}
		return successorsEqual(at, bt)
	case *Sequence:
		bt, ok := b.(*Sequence)
		if !ok || len(at.Children) != len(bt.Children) {
			return false
		}
		for i := range at.Children {
			if !Equal(at.Children[i], bt.Children[i]) {
				return false
			}
		}
		return successorsEqual(at, bt)
	case *Switch:
		bt, ok := b.(*Switch)
		if !ok || len(at.Cases) != len(bt.Cases) || at.NeedStateVariable != bt.NeedStateVariable ||
			at.NeedLoopBreakDispatcher != bt.NeedLoopBreakDispatcher || at.Weaved != bt.Weaved || at.DispatcherKind != bt.DispatcherKind {
			return false
		}
		if !at.CondValue.Equal(bt.CondValue) {
			return false
		}
		for i := range at.Cases {
			if !labelsEqual(at.Cases[i].Labels, bt.Cases[i].Labels) || !Equal(at.Cases[i].Child, bt.Cases[i].Child) {
				return false
			}
		}
		return successorsEqual(at, bt)
	case *SwitchBreak:
		bt, ok := b.(*SwitchBreak)
		if !ok {
			return false
		}
		if (at.ParentSwitch == nil) != (bt.ParentSwitch == nil) {
			return false
		}
		return successorsEqual(at, bt)
	case *Set:
		bt, ok := b.(*Set)
		return ok && at.StateVariableValue == bt.StateVariableValue && at.DispatcherKind == bt.DispatcherKind && successorsEqual(at, bt)
	default:
		return false
	}
}

func successorsEqual(a, b Node) bool {
	return Equal(a.Successor(), b.Successor())
}

func labelsEqual(a, b []region.Label) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				return false
			}
		}
	}
	return true
}
