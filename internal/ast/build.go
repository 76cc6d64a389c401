package ast

import (
	"fmt"

	"github.com/ryftlang/restructure/domain"
	"github.com/ryftlang/restructure/internal/region"
)

// builder allocates densely packed, tree-unique node IDs (spec §3.4
// invariant); there is one builder per Build call, so no process-wide
// counter is ever shared across trees (spec §9).
type builder struct {
	nextID int
}

func (b *builder) id() int {
	id := b.nextID
	b.nextID++
	return id
}

// buildContext threads the state a recursive descent needs to decide
// between plain recursion, Continue, Break, and SwitchBreak. It is
// passed by value; the Go call stack plays the role of the push/pop
// stack the source implementation keeps explicitly.
type buildContext struct {
	// loopHeader is the entry vertex of the innermost enclosing Scs's
	// region, or nil outside any loop.
	loopHeader *region.Vertex
	// switchBoundary is the postdominator of the innermost enclosing
	// Switch, or nil outside any switch.
	switchBoundary *region.Vertex
	enclosingSwitch *Switch
}

// Build lifts a fully combed region.Region into an AST (spec §4.2),
// then runs sequencing (§4.3) so the returned tree carries no hybrid
// successor links.
func Build(r *region.Region) (Node, error) {
	if r == nil || r.Entry() == nil {
		return nil, domain.NewRestructureError(domain.ErrMalformedInput, "", "region has no entry vertex")
	}
	r.EnsureExit()
	b := &builder{}
	root, err := b.build(r.Entry(), nil, buildContext{})
	if err != nil {
		return nil, err
	}
	return b.collapseSequences(root), nil
}

// build constructs the node for v, honoring boundary (the point at
// which this particular recursive slice stops) ahead of loop/switch
// escape rules, ahead of ordinary kind-based dispatch.
func (b *builder) build(v, boundary *region.Vertex, ctx buildContext) (Node, error) {
	if v == nil || v == boundary {
		return nil, nil
	}
	if ctx.loopHeader != nil && v == ctx.loopHeader {
		return &Continue{Base: b.newBase(nil, "continue")}, nil
	}
	if ctx.switchBoundary != nil && v == ctx.switchBoundary {
		return &SwitchBreak{Base: b.newBase(nil, "switch-break"), ParentSwitch: ctx.enclosingSwitch}, nil
	}
	if ctx.loopHeader != nil && len(v.Successors) == 0 {
		return &Break{Base: b.newBase(nil, "break")}, nil
	}

	return b.dispatch(v, boundary, ctx)
}

// dispatch is the kind-based half of build: entering a vertex's own
// content, once boundary/loopHeader/switchBoundary escape rules have
// already been ruled out for this visit. buildLoop calls this directly
// for a loop's header vertex, since the header's first visit must build
// its content, not the Continue that build's loopHeader rule produces
// for a later back-edge visit to the same vertex.
func (b *builder) dispatch(v, boundary *region.Vertex, ctx buildContext) (Node, error) {
	switch {
	case v.Kind == region.KindCollapsed:
		return b.buildLoop(v, boundary, ctx)
	case len(v.Successors) == 0:
		return b.buildLeaf(v)
	case len(v.Successors) == 1:
		return b.buildLinear(v, boundary, ctx)
	case len(v.Successors) == 2 && !v.Kind.IsDispatcher():
		return b.buildIf(v, boundary, ctx)
	default:
		return b.buildSwitch(v, boundary, ctx)
	}
}

func (b *builder) newBase(v *region.Vertex, name string) Base {
	base := Base{ID: b.id(), Name: name}
	if v != nil {
		base.OriginBlock = v.CodeBlock
		if base.Name == "" {
			base.Name = v.Name
		}
	}
	return base
}

// buildLeaf handles a vertex with no successors — ordinarily the
// region's exit, outside any loop (an in-loop zero-
// successor vertex is caught by the Break rule in build before this is
// reached).
func (b *builder) buildLeaf(v *region.Vertex) (Node, error) {
	return b.buildSelf(v)
}

// buildSelf builds the node representing v alone, with no successor
// link, for every kind dispatch eventually bottoms out at.
func (b *builder) buildSelf(v *region.Vertex) (Node, error) {
	switch {
	case v.Kind.IsSet():
		dk := NotDispatcher
		if v.Kind == region.KindEntrySet {
			dk = EntryDispatcherKind
		} else if v.Kind == region.KindExitSet {
			dk = ExitDispatcherKind
		}
		return &Set{Base: b.newBase(v, ""), StateVariableValue: v.StateVariableValue, DispatcherKind: dk}, nil
	case v.Kind == region.KindCode, v.Kind == region.KindEmpty, v.Kind == region.KindTile:
		return &Code{Base: b.newBase(v, "")}, nil
	default:
		return nil, domain.NewRestructureError(domain.ErrUnexpectedNodeKind, fmt.Sprintf("%d", v.ID), fmt.Sprintf("builder cannot emit a leaf for vertex kind %s", v.Kind))
	}
}

// buildLinear handles a vertex with exactly one successor: build the
// vertex itself, then recurse on its successor, installing the result
// as the hybrid successor link §4.3 will later consume.
func (b *builder) buildLinear(v, boundary *region.Vertex, ctx buildContext) (Node, error) {
	self, err := b.buildSelf(v)
	if err != nil {
		return nil, err
	}
	next, err := b.build(v.Successors[0], boundary, ctx)
	if err != nil {
		return nil, err
	}
	self.SetSuccessor(next)
	return self, nil
}

// buildIf handles a two-successor conditional vertex: then/else recurse
// bounded by the vertex's immediate postdominator, and the If's own
// hybrid successor is the tree built from that postdominator onward.
func (b *builder) buildIf(v, boundary *region.Vertex, ctx buildContext) (Node, error) {
	p := immediatePostdominator(v)
	then, err := b.build(v.Successors[0], p, ctx)
	if err != nil {
		return nil, err
	}
	var els Node
	if v.Successors[1] != p {
		els, err = b.build(v.Successors[1], p, ctx)
		if err != nil {
			return nil, err
		}
	}
	node := &If{Base: b.newBase(v, ""), Cond: v.Condition, Then: then, Else: els}
	succ, err := b.build(p, boundary, ctx)
	if err != nil {
		return nil, err
	}
	node.SetSuccessor(succ)
	return node, nil
}

// buildSwitch handles a multi-way branch: a genuine source-level
// switch, or a synthesized entry/exit dispatcher. Each successor edge
// recurses bounded by the switch's immediate postdominator, carrying
// the switch as ctx.enclosingSwitch so a nested SwitchBreak can record
// its parent.
func (b *builder) buildSwitch(v, boundary *region.Vertex, ctx buildContext) (Node, error) {
	p := immediatePostdominator(v)
	node := &Switch{Base: b.newBase(v, "")}

	switch v.Kind {
	case region.KindEntryDispatcher:
		node.DispatcherKind = EntryDispatcherKind
		node.NeedStateVariable = true
		node.CondValue = region.Atomic(fmt.Sprintf("$entry.state.%d", v.ID))
	case region.KindExitDispatcher:
		node.DispatcherKind = ExitDispatcherKind
		node.NeedStateVariable = true
		node.CondValue = region.Atomic(fmt.Sprintf("$exit.state.%d", v.ID))
	default:
		node.DispatcherKind = NotDispatcher
	}

	innerCtx := ctx
	innerCtx.switchBoundary = p
	innerCtx.enclosingSwitch = node

	cases := make([]SwitchCase, 0, len(v.Successors))
	for i, s := range v.Successors {
		child, err := b.build(s, p, innerCtx)
		if err != nil {
			return nil, err
		}
		cases = append(cases, SwitchCase{Labels: []region.Label{v.CaseLabel(i)}, Child: child})
	}
	node.Cases = cases

	defaults := 0
	for _, c := range cases {
		if len(c.Labels) == 0 || c.Labels[0].IsDefault() {
			defaults++
		}
	}
	if defaults > 1 {
		return nil, domain.NewRestructureError(domain.ErrInvariantViolation, fmt.Sprintf("%d", v.ID), "switch built with more than one default case")
	}

	succ, err := b.build(p, boundary, ctx)
	if err != nil {
		return nil, err
	}
	node.SetSuccessor(succ)
	return node, nil
}

// buildLoop handles a Collapsed vertex by building an Scs over its
// inner region, then continuing past the loop via the Collapsed
// vertex's own single out-of-region successor (combing guarantees
// there is exactly one: collapseGroup funnels every exit through
// either the lone surviving external target or a single synthesized
// ExitDispatcher).
func (b *builder) buildLoop(v, boundary *region.Vertex, ctx buildContext) (Node, error) {
	inner := v.Collapsed
	if inner == nil || inner.Entry() == nil {
		return nil, domain.NewRestructureError(domain.ErrInvariantViolation, fmt.Sprintf("%d", v.ID), "collapsed vertex has no inner region")
	}
	bodyCtx := buildContext{loopHeader: inner.Entry()}
	body, err := b.buildHeader(inner.Entry(), bodyCtx)
	if err != nil {
		return nil, err
	}
	scs := &Scs{Base: b.newBase(v, ""), LoopType: WhileTrue, Body: body}

	var next Node
	if len(v.Successors) == 1 {
		next, err = b.build(v.Successors[0], boundary, ctx)
		if err != nil {
			return nil, err
		}
	}
	scs.SetSuccessor(next)
	return scs, nil
}

// buildHeader builds a loop's header vertex on first entry to the loop
// body. build's ordinary loopHeader rule exists for a *later* visit to
// the header (a back edge, which must lift to a bare Continue); applying
// that same rule to the very first visit would drop the header's own
// content and every vertex reachable from it. switchBoundary/zero-
// successor escapes still apply — a loop header can itself be a switch's
// postdominator or (degenerately) successor-less.
func (b *builder) buildHeader(v *region.Vertex, ctx buildContext) (Node, error) {
	if ctx.switchBoundary != nil && v == ctx.switchBoundary {
		return &SwitchBreak{Base: b.newBase(nil, "switch-break"), ParentSwitch: ctx.enclosingSwitch}, nil
	}
	if len(v.Successors) == 0 {
		return &Break{Base: b.newBase(nil, "break")}, nil
	}
	return b.dispatch(v, nil, ctx)
}

// immediatePostdominator returns v's immediate postdominator vertex
// within its own region, computing (or reusing the cached) postdominator
// tree.
func immediatePostdominator(v *region.Vertex) *region.Vertex {
	owner := v.Region()
	pdom := owner.Postdominators()
	id := pdom.IDom(v.ID)
	if id < 0 {
		return nil
	}
	return owner.Get(id)
}
