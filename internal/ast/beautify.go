package ast

import (
	"fmt"

	"github.com/ryftlang/restructure/internal/region"
)

// Beautify runs the five canonicalization passes of spec §4.4, strictly
// in the documented order: inline-dispatcher must run before
// dual-switch simplification because the latter erases the
// dispatcher_kind tag the former still needs (spec §9 open question a).
// endsInReturn lets the caller answer "does this original block end in
// a return" for implicit-return marking without this package having to
// interpret the opaque region.CodeBlockRef itself; passing nil skips
// that pass entirely.
func Beautify(root Node, endsInReturn func(region.CodeBlockRef) bool) (Node, error) {
	b := &builder{nextID: maxID(root) + 1}

	passes := []func(Node) (Node, error){
		b.doWhilePromotionPass,
		b.whilePromotionPass,
		b.inlineDispatcherSwitchPass,
		b.dualSwitchSimplificationPass,
	}

	cur := root
	for _, pass := range passes {
		next, err := pass(cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}

	if endsInReturn != nil {
		cur = markImplicitReturn(cur, endsInReturn)
	}
	return cur, nil
}

// maxID finds the largest node ID in the tree so a fresh builder can
// keep allocating strictly increasing, tree-unique IDs across passes.
func maxID(n Node) int {
	max := 0
	walkAll(n, func(x Node) {
		if x.NodeID() > max {
			max = x.NodeID()
		}
	})
	return max
}

func walkAll(n Node, visit func(Node)) {
	if n == nil {
		return
	}
	visit(n)
	switch t := n.(type) {
	case *If:
		walkAll(t.Then, visit)
		walkAll(t.Else, visit)
	case *Scs:
		walkAll(t.Body, visit)
	case *Switch:
		for _, c := range t.Cases {
			walkAll(c.Child, visit)
		}
	case *Sequence:
		for _, c := range t.Children {
			walkAll(c, visit)
		}
	}
}

// walk performs a post-order rewrite: every structural child is
// rewritten first, then visit is applied to n itself, and its result
// replaces n in the parent's slot.
func (b *builder) walk(n Node, visit func(*builder, Node) (Node, error)) (Node, error) {
	if n == nil {
		return nil, nil
	}
	var err error
	switch t := n.(type) {
	case *If:
		if t.Then, err = b.walk(t.Then, visit); err != nil {
			return nil, err
		}
		if t.Else, err = b.walk(t.Else, visit); err != nil {
			return nil, err
		}
	case *Scs:
		if t.Body, err = b.walk(t.Body, visit); err != nil {
			return nil, err
		}
	case *Switch:
		for i := range t.Cases {
			if t.Cases[i].Child, err = b.walk(t.Cases[i].Child, visit); err != nil {
				return nil, err
			}
		}
	case *Sequence:
		for i := range t.Children {
			if t.Children[i], err = b.walk(t.Children[i], visit); err != nil {
				return nil, err
			}
		}
	}
	return visit(b, n)
}

func sequenceChildren(n Node) []Node {
	if n == nil {
		return nil
	}
	if seq, ok := n.(*Sequence); ok {
		return seq.Children
	}
	return []Node{n}
}

func rebuildBody(b *builder, children []Node) Node {
	switch len(children) {
	case 0:
		return nil
	case 1:
		return children[0]
	default:
		return &Sequence{Base: Base{ID: b.id(), Name: "sequence"}, Children: children}
	}
}

func isBreakLeaf(n Node) bool {
	brk, ok := n.(*Break)
	return ok && brk.Successor() == nil
}

func isContinueLeaf(n Node) bool {
	c, ok := n.(*Continue)
	return ok && c.Successor() == nil
}

// matchTerminalContinueIf recognizes `if cond: continue` (or its
// then/else mirror) as the last statement of a WhileTrue body.
func matchTerminalContinueIf(n Node) (*Expr, bool) {
	ifNode, ok := n.(*If)
	if !ok {
		return nil, false
	}
	if isContinueLeaf(ifNode.Then) && ifNode.Else == nil {
		return ifNode.Cond, true
	}
	if ifNode.Then == nil && isContinueLeaf(ifNode.Else) {
		return ifNode.Cond.Negate(), true
	}
	return nil, false
}

// matchLeadingBreakIf recognizes `if cond: ... else: break` (or its
// mirror) as the first statement of a WhileTrue body. The arm that is
// not the break may be empty.
func matchLeadingBreakIf(n Node) (*Expr, Node, bool) {
	ifNode, ok := n.(*If)
	if !ok {
		return nil, nil, false
	}
	if isBreakLeaf(ifNode.Else) {
		return ifNode.Cond, ifNode.Then, true
	}
	if isBreakLeaf(ifNode.Then) {
		return ifNode.Cond.Negate(), ifNode.Else, true
	}
	return nil, nil, false
}

// doWhilePromotionPass is spec §4.4 pass 1.
func (b *builder) doWhilePromotionPass(root Node) (Node, error) {
	return b.walk(root, func(b *builder, n Node) (Node, error) {
		scs, ok := n.(*Scs)
		if !ok || scs.LoopType != WhileTrue {
			return n, nil
		}
		children := sequenceChildren(scs.Body)
		if len(children) == 0 {
			return n, nil
		}
		last := children[len(children)-1]
		cond, ok := matchTerminalContinueIf(last)
		if !ok {
			return n, nil
		}
		ifNode := last.(*If)
		ifNode.Cond = cond
		scs.LoopType = DoWhile
		scs.RelatedCondition = ifNode
		scs.Body = rebuildBody(b, children[:len(children)-1])
		return scs, nil
	})
}

// whilePromotionPass is spec §4.4 pass 2.
func (b *builder) whilePromotionPass(root Node) (Node, error) {
	return b.walk(root, func(b *builder, n Node) (Node, error) {
		scs, ok := n.(*Scs)
		if !ok || scs.LoopType != WhileTrue {
			return n, nil
		}
		children := sequenceChildren(scs.Body)
		if len(children) == 0 {
			return n, nil
		}
		cond, thenBranch, ok := matchLeadingBreakIf(children[0])
		if !ok {
			return n, nil
		}
		ifNode := children[0].(*If)
		ifNode.Cond = cond
		scs.LoopType = While
		scs.RelatedCondition = ifNode
		newChildren := append(append([]Node{}, sequenceChildren(thenBranch)...), children[1:]...)
		scs.Body = rebuildBody(b, newChildren)
		return scs, nil
	})
}

// inlineDispatcherSwitchPass is spec §4.4 pass 3. It must run before
// dualSwitchSimplificationPass.
func (b *builder) inlineDispatcherSwitchPass(root Node) (Node, error) {
	return b.walk(root, func(b *builder, n Node) (Node, error) {
		sw, ok := n.(*Switch)
		if !ok || sw.DispatcherKind == NotDispatcher {
			return n, nil
		}
		nonDefault := make([]SwitchCase, 0, len(sw.Cases))
		var defaultCase *SwitchCase
		for i := range sw.Cases {
			c := sw.Cases[i]
			if len(c.Labels) == 0 || c.Labels[0].IsDefault() {
				defaultCase = &sw.Cases[i]
			} else {
				nonDefault = append(nonDefault, c)
			}
		}
		if len(sw.Cases) == 1 && len(nonDefault) == 1 {
			return nonDefault[0].Child, nil
		}
		if len(sw.Cases) == 2 {
			var thenCase, elseCase SwitchCase
			if defaultCase != nil && len(nonDefault) == 1 {
				thenCase, elseCase = nonDefault[0], *defaultCase
			} else {
				thenCase, elseCase = sw.Cases[0], sw.Cases[1]
			}
			cond := region.EqualsConst(sw.CondValue, labelConst(thenCase.Labels))
			return &If{Base: Base{ID: b.id(), Name: "if"}, Cond: cond, Then: thenCase.Child, Else: elseCase.Child}, nil
		}
		return n, nil
	})
}

// dualSwitchSimplificationPass is spec §4.4 pass 4. Only non-dispatcher
// switches reach here with DispatcherKind still set to NotDispatcher;
// any dispatcher switch with 1 or 2 cases was already consumed by the
// inline pass above.
func (b *builder) dualSwitchSimplificationPass(root Node) (Node, error) {
	return b.walk(root, func(b *builder, n Node) (Node, error) {
		sw, ok := n.(*Switch)
		if !ok || sw.DispatcherKind != NotDispatcher || len(sw.Cases) != 2 {
			return n, nil
		}
		thenCase, elseCase := sw.Cases[0], sw.Cases[1]
		if len(thenCase.Labels) == 0 || thenCase.Labels[0].IsDefault() {
			thenCase, elseCase = elseCase, thenCase
		}
		var cond *Expr
		if sw.CondValue != nil && len(thenCase.Labels) > 0 {
			cond = region.EqualsConst(sw.CondValue, labelConst(thenCase.Labels))
		} else {
			cond = region.Atomic(fmt.Sprintf("$switch.%d.case", n.NodeID()))
		}
		return &If{Base: Base{ID: b.id(), Name: "if"}, Cond: cond, Then: thenCase.Child, Else: elseCase.Child, Weaved: sw.Weaved}, nil
	})
}

func labelConst(labels []region.Label) string {
	if len(labels) == 0 || len(labels[0]) == 0 {
		return "default"
	}
	return fmt.Sprintf("%d", labels[0][0])
}

// markImplicitReturn is spec §4.4 pass 5: mark the terminal Code node
// of the top-level sequence implicit-return when its original block
// ends in a return.
func markImplicitReturn(root Node, endsInReturn func(region.CodeBlockRef) bool) Node {
	terminal := root
	if seq, ok := root.(*Sequence); ok && len(seq.Children) > 0 {
		terminal = seq.Children[len(seq.Children)-1]
	}
	if code, ok := terminal.(*Code); ok && endsInReturn(code.OriginBlock) {
		code.ImplicitReturn = true
	}
	return root
}
