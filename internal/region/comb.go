package region

import "github.com/ryftlang/restructure/domain"

// maxCloneFactor bounds inflation's clone count at maxCloneFactor*|V|^2
// (spec §4.1.2 "Failure"). Exceeding it means the region is not
// structurable by this algorithm and the pass aborts fatally rather
// than looping forever.
const maxCloneFactor = 2

// Comb inflates r in place until no vertex has predecessors spanning
// more than one dominator-subtree branch of the entry, then synthesizes
// entry/exit dispatchers for any loop whose header or exit set still
// fails to converge to one vertex. It is the combing/inflation pass of
// spec §4.1.2.
func Comb(r *Region) error {
	budget := maxCloneFactor * r.Size() * r.Size()
	if budget < 16 {
		budget = 16
	}
	clones := 0

	for {
		dom := r.Dominators()
		preorder := preorderIndex(dom, r.entry)
		targets := problematicVertices(r, dom, preorder)
		if len(targets) == 0 {
			break
		}
		for _, v := range targets {
			n, err := cloneForBranches(r, v, dom, preorder)
			if err != nil {
				return err
			}
			clones += n
			if clones > budget {
				return domain.NewRestructureError(domain.ErrNonTerminatingInflation, "", "inflation exceeded its sanity bound")
			}
		}
	}

	return combineLoopEntriesAndExits(r)
}

// preorderIndex numbers every vertex reachable in the dominator tree by
// a preorder walk from root, breaking ties among dominator-tree
// siblings by vertex ID so the numbering is deterministic.
func preorderIndex(dom *domTree, root *Vertex) map[int]int {
	idx := make(map[int]int)
	if root == nil {
		return idx
	}
	counter := 0
	var visit func(id int)
	visit = func(id int) {
		if _, ok := idx[id]; ok {
			return
		}
		idx[id] = counter
		counter++
		for _, child := range dom.ImmediateDominated(id) {
			visit(child)
		}
	}
	visit(root.ID)
	return idx
}

// branchRoot walks up v's dominator chain to the immediate child of the
// region entry that dominates v — the "branch" of the entry's
// dominator tree v hangs off. If v is the entry itself, branchRoot
// returns v's own ID (it is its own branch).
func branchRoot(dom *domTree, entryID, id int) int {
	if id == entryID {
		return id
	}
	for {
		parent := dom.IDom(id)
		if parent == entryID || parent == id {
			return id
		}
		id = parent
	}
}

// problematicVertices finds every vertex whose predecessors fall into
// more than one branch of the entry's dominator tree (spec §4.1.2 step
// 1), in dominator-tree preorder (spec §4.1.2 ordering rule i).
func problematicVertices(r *Region, dom *domTree, preorder map[int]int) []*Vertex {
	var out []*Vertex
	if r.entry == nil {
		return out
	}
	for _, v := range r.Vertices() {
		if v == r.entry || len(v.Predecessors) < 2 {
			continue
		}
		branches := map[int]bool{}
		for _, p := range v.Predecessors {
			branches[branchRoot(dom, r.entry.ID, p.ID)] = true
		}
		if len(branches) > 1 {
			out = append(out, v)
		}
	}
	sortVerticesByPreorder(out, preorder)
	return out
}

func sortVerticesByPreorder(vs []*Vertex, preorder map[int]int) {
	for i := 1; i < len(vs); i++ {
		j := i
		for j > 0 && preorder[vs[j-1].ID] > preorder[vs[j].ID] {
			vs[j-1], vs[j] = vs[j], vs[j-1]
			j--
		}
	}
}

// cloneForBranches partitions v's predecessors by dominator branch,
// keeps the original vertex for the branch with the smallest
// entry-preorder number, and clones v (plus every vertex it dominates)
// once per remaining branch, redirecting that branch's edges to the
// fresh copy. It returns the number of vertices cloned.
func cloneForBranches(r *Region, v *Vertex, dom *domTree, preorder map[int]int) (int, error) {
	groups := map[int][]*Vertex{}
	for _, p := range v.Predecessors {
		b := branchRoot(dom, r.entry.ID, p.ID)
		groups[b] = append(groups[b], p)
	}
	if len(groups) < 2 {
		return 0, nil
	}

	branches := make([]int, 0, len(groups))
	for b := range groups {
		branches = append(branches, b)
	}
	sortByPreorder(branches, preorder)

	keep := branches[0]
	cloned := 0
	for _, b := range branches[1:] {
		mapping, err := cloneDominatedSubgraph(r, v, dom)
		if err != nil {
			return cloned, err
		}
		clone := mapping[v.ID]
		for _, p := range groups[b] {
			redirectEdge(p, v, clone)
		}
		cloned += len(mapping)
	}
	_ = keep
	return cloned, nil
}

func sortByPreorder(ids []int, preorder map[int]int) {
	for i := 1; i < len(ids); i++ {
		j := i
		for j > 0 && preorder[ids[j-1]] > preorder[ids[j]] {
			ids[j-1], ids[j] = ids[j], ids[j-1]
			j--
		}
	}
}

// cloneDominatedSubgraph deep-copies root and every vertex it
// dominates, preserving internal edges between copies and repointing
// edges that leave the dominated set at their original (shared)
// targets. It returns the original->clone vertex mapping.
func cloneDominatedSubgraph(r *Region, root *Vertex, dom *domTree) (map[int]*Vertex, error) {
	members := dominatedSet(dom, root.ID)
	mapping := make(map[int]*Vertex, len(members))

	for _, id := range members {
		orig := r.Get(id)
		if orig == nil {
			return nil, domain.NewRestructureError(domain.ErrInvariantViolation, "", "dominator tree references a vertex outside the region")
		}
		clone := r.CreateVertex(orig.Kind, orig.Name+".tile")
		if orig.Kind == KindCode || orig.Kind == KindEmpty {
			clone.Kind = orig.Kind
		} else if orig.Kind != KindCollapsed {
			clone.Kind = KindTile
		}
		clone.CodeBlock = orig.CodeBlock
		clone.Condition = orig.Condition
		clone.Weaved = orig.Weaved
		clone.StateVariableValue = orig.StateVariableValue
		clone.Collapsed = orig.Collapsed
		mapping[id] = clone
	}

	for _, id := range members {
		orig := r.Get(id)
		clone := mapping[id]
		labels := make([]Label, len(orig.Successors))
		for i, s := range orig.Successors {
			target := s
			if c, ok := mapping[s.ID]; ok {
				target = c
			}
			r.Connect(clone, target)
			labels[i] = orig.CaseLabel(i)
		}
		if len(labels) > 0 {
			_ = clone.SetCaseLabels(labels)
		}
	}

	return mapping, nil
}

// dominatedSet returns rootID and every vertex id dominator-dominated
// by it, via the dominator tree's children links.
func dominatedSet(dom *domTree, rootID int) []int {
	out := []int{rootID}
	for _, child := range dom.ImmediateDominated(rootID) {
		out = append(out, dominatedSet(dom, child)...)
	}
	return out
}

// redirectEdge rewrites the from->oldTo edge into from->newTo in
// place, preserving position (and thus case-label association) and
// updating both endpoints' adjacency lists directly; it does not go
// through Region.Connect/Disconnect since it must preserve edge order.
func redirectEdge(from, oldTo, newTo *Vertex) {
	for i, s := range from.Successors {
		if s == oldTo {
			from.Successors[i] = newTo
			break
		}
	}
	oldTo.Predecessors = removeVertexFromSlice(oldTo.Predecessors, from)
	newTo.Predecessors = append(newTo.Predecessors, from)
	if oldTo.region != nil {
		oldTo.region.invalidate()
	}
}

// combineLoopEntriesAndExits synthesizes EntrySet/EntryDispatcher pairs
// for any non-trivial SCC whose header set did not converge to one
// vertex after inflation, and the symmetric ExitSet/ExitDispatcher
// construction for SCCs with more than one converging exit target
// (spec §4.1.2, second paragraph).
func combineLoopEntriesAndExits(r *Region) error {
	changed := true
	for changed {
		changed = false
		for _, scc := range r.SCCs() {
			if !scc.NonTrivial() {
				continue
			}
			headers := scc.EntryVertices()
			if len(headers) > 1 {
				if err := synthesizeEntryDispatcher(r, headers); err != nil {
					return err
				}
				changed = true
				break
			}
			if needsExitDispatcher(scc) {
				if err := synthesizeExitDispatcher(r, scc); err != nil {
					return err
				}
				changed = true
				break
			}
		}
		if changed {
			r.invalidate()
		}
	}
	return nil
}

// synthesizeEntryDispatcher inserts one EntrySet vertex on each
// external edge into a header, all targeting a fresh EntryDispatcher
// that then branches to the original headers by state value.
func synthesizeEntryDispatcher(r *Region, headers []*Vertex) error {
	dispatcher := r.CreateVertex(KindEntryDispatcher, "entry.dispatcher")
	labels := make([]Label, 0, len(headers))

	for _, h := range headers {
		val := r.NextStateValue()
		for _, p := range append([]*Vertex(nil), h.Predecessors...) {
			inHeaderSCC := false
			for _, other := range headers {
				if p == other {
					inHeaderSCC = true
				}
			}
			if inHeaderSCC {
				continue
			}
			set := r.CreateVertex(KindEntrySet, "entry.set")
			set.StateVariableValue = val
			redirectEdge(p, h, set)
			r.Connect(set, dispatcher)
		}
		r.Connect(dispatcher, h)
		labels = append(labels, Label{uint64(val)})
	}
	return dispatcher.SetCaseLabels(labels)
}

// needsExitDispatcher reports whether the SCC has exit edges reaching
// more than one distinct external target.
func needsExitDispatcher(scc *SCC) bool {
	targets := map[int]bool{}
	for _, e := range scc.ExitEdges() {
		targets[e[1].ID] = true
	}
	return len(targets) > 1
}

// synthesizeExitDispatcher converges every exit edge of an SCC through
// one ExitSet/ExitDispatcher pair, the mirror image of
// synthesizeEntryDispatcher for a loop's outgoing edges.
func synthesizeExitDispatcher(r *Region, scc *SCC) error {
	dispatcher := r.CreateVertex(KindExitDispatcher, "exit.dispatcher")
	targetVal := map[int]int{}
	var targetsByVal []*Vertex
	labels := []Label{}

	for _, e := range scc.ExitEdges() {
		from, to := e[0], e[1]
		val, ok := targetVal[to.ID]
		if !ok {
			val = r.NextStateValue()
			targetVal[to.ID] = val
			targetsByVal = append(targetsByVal, to)
			labels = append(labels, Label{uint64(val)})
		}
		set := r.CreateVertex(KindExitSet, "exit.set")
		set.StateVariableValue = val
		redirectEdge(from, to, set)
		r.Connect(set, dispatcher)
	}
	for _, t := range targetsByVal {
		r.Connect(dispatcher, t)
	}
	return dispatcher.SetCaseLabels(labels)
}
