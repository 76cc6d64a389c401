package ast

// collapseSequences implements §4.3: every node that still carries a
// hybrid successor link is folded into a Sequence with that successor
// (recursively flattened) appended, and the link is cleared. It
// recurses into every structural child first so the whole tree is
// processed bottom-up; by the time it returns, no node anywhere in the
// tree has a non-nil Successor (spec §8 invariant 3).
func (b *builder) collapseSequences(n Node) Node {
	if n == nil {
		return nil
	}

	switch t := n.(type) {
	case *If:
		t.Then = b.collapseSequences(t.Then)
		t.Else = b.collapseSequences(t.Else)
	case *Scs:
		t.Body = b.collapseSequences(t.Body)
	case *Switch:
		for i := range t.Cases {
			t.Cases[i].Child = b.collapseSequences(t.Cases[i].Child)
		}
	case *Sequence:
		for i := range t.Children {
			t.Children[i] = b.collapseSequences(t.Children[i])
		}
	}

	succ := n.Successor()
	if succ == nil {
		return n
	}
	n.SetSuccessor(nil)
	tail := b.collapseSequences(succ)
	return b.appendSequence(n, tail)
}

// appendSequence joins head (already processed) and tail into one flat
// Sequence, absorbing tail's own children directly if it is itself a
// Sequence rather than nesting one inside the other.
func (b *builder) appendSequence(head, tail Node) Node {
	if seq, ok := head.(*Sequence); ok {
		if tailSeq, ok := tail.(*Sequence); ok {
			seq.Children = append(seq.Children, tailSeq.Children...)
		} else {
			seq.Children = append(seq.Children, tail)
		}
		return seq
	}
	var children []Node
	if tailSeq, ok := tail.(*Sequence); ok {
		children = append([]Node{head}, tailSeq.Children...)
	} else {
		children = []Node{head, tail}
	}
	return &Sequence{Base: Base{ID: b.id(), Name: "sequence"}, Children: children}
}
