package ast

import "github.com/ryftlang/restructure/internal/region"

// Clone deep-copies n, assigning every node a fresh tree-unique ID, and
// returns the old ID -> new Node substitution map alongside it so a
// second pass can retarget any back-reference into the cloned subtree
// (spec §4.5, §9). clone(n) and n are guaranteed to share no node
// identities.
func Clone(n Node) (Node, map[int]Node) {
	b := &builder{nextID: maxID(n) + 1}
	subst := make(map[int]Node)
	pending := make(map[*SwitchBreak]int)

	cloned := b.cloneNode(n, subst, pending)

	for nb, oldParentID := range pending {
		if parent, ok := subst[oldParentID].(*Switch); ok {
			nb.ParentSwitch = parent
		}
	}
	return cloned, subst
}

func (b *builder) newBaseFrom(old Base) Base {
	return Base{ID: b.id(), Name: old.Name, OriginBlock: old.OriginBlock}
}

func (b *builder) cloneNode(n Node, subst map[int]Node, pending map[*SwitchBreak]int) Node {
	if n == nil {
		return nil
	}
	switch t := n.(type) {
	case *Code:
		c := &Code{Base: b.newBaseFrom(t.Base), ImplicitReturn: t.ImplicitReturn}
		subst[t.ID] = c
		c.SetSuccessor(b.cloneNode(t.Successor(), subst, pending))
		return c
	case *Break:
		c := &Break{Base: b.newBaseFrom(t.Base)}
		subst[t.ID] = c
		c.SetSuccessor(b.cloneNode(t.Successor(), subst, pending))
		return c
	case *Continue:
		c := &Continue{Base: b.newBaseFrom(t.Base), ComputationIf: t.ComputationIf.Clone(), Implicit: t.Implicit}
		subst[t.ID] = c
		c.SetSuccessor(b.cloneNode(t.Successor(), subst, pending))
		return c
	case *If:
		c := &If{Base: b.newBaseFrom(t.Base), Cond: t.Cond.Clone(), Weaved: t.Weaved}
		subst[t.ID] = c
		c.Then = b.cloneNode(t.Then, subst, pending)
		c.Else = b.cloneNode(t.Else, subst, pending)
		c.SetSuccessor(b.cloneNode(t.Successor(), subst, pending))
		return c
	case *Scs:
		c := &Scs{Base: b.newBaseFrom(t.Base), LoopType: t.LoopType}
		subst[t.ID] = c
		c.Body = b.cloneNode(t.Body, subst, pending)
		if t.RelatedCondition != nil {
			c.RelatedCondition, _ = b.cloneNode(t.RelatedCondition, subst, pending).(*If)
		}
		c.SetSuccessor(b.cloneNode(t.Successor(), subst, pending))
		return c
	case *Sequence:
		c := &Sequence{Base: b.newBaseFrom(t.Base)}
		subst[t.ID] = c
		c.Children = make([]Node, len(t.Children))
		for i, child := range t.Children {
			c.Children[i] = b.cloneNode(child, subst, pending)
		}
		c.SetSuccessor(b.cloneNode(t.Successor(), subst, pending))
		return c
	case *Switch:
		c := &Switch{
			Base:                    b.newBaseFrom(t.Base),
			CondValue:               t.CondValue.Clone(),
			NeedStateVariable:       t.NeedStateVariable,
			NeedLoopBreakDispatcher: t.NeedLoopBreakDispatcher,
			Weaved:                  t.Weaved,
			DispatcherKind:          t.DispatcherKind,
		}
		subst[t.ID] = c
		c.Cases = make([]SwitchCase, len(t.Cases))
		for i, cs := range t.Cases {
			c.Cases[i] = SwitchCase{Labels: cloneLabels(cs.Labels), Child: b.cloneNode(cs.Child, subst, pending)}
		}
		c.SetSuccessor(b.cloneNode(t.Successor(), subst, pending))
		return c
	case *SwitchBreak:
		c := &SwitchBreak{Base: b.newBaseFrom(t.Base)}
		subst[t.ID] = c
		if t.ParentSwitch != nil {
			pending[c] = t.ParentSwitch.ID
		}
		c.SetSuccessor(b.cloneNode(t.Successor(), subst, pending))
		return c
	case *Set:
		c := &Set{Base: b.newBaseFrom(t.Base), StateVariableValue: t.StateVariableValue, DispatcherKind: t.DispatcherKind}
		subst[t.ID] = c
		c.SetSuccessor(b.cloneNode(t.Successor(), subst, pending))
		return c
	default:
		return nil
	}
}

func cloneLabels(labels []region.Label) []region.Label {
	out := make([]region.Label, len(labels))
	for i, l := range labels {
		out[i] = append(region.Label(nil), l...)
	}
	return out
}
