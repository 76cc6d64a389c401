package region

// Restructure is the full combing pipeline of spec §4.1: discover the
// nested SCS tree, recursively comb and collapse each inner region
// innermost-out, then comb the outer region. The result is ready for
// AST lifting — every remaining non-trivial strongly connected set is
// a single Collapsed vertex owning its own fully combed inner Region.
func Restructure(r *Region) error {
	for _, group := range discoverRegionTree(r) {
		if err := collapseGroup(r, group); err != nil {
			return err
		}
	}
	return Comb(r)
}

// discoverRegionTree finds the nested hierarchy of strongly connected
// sets (spec §4.1.1): the outermost SCC at this level, then — with the
// back-edges that close it removed — whatever SCCs remain nested
// inside it, recursively. The returned order is innermost-first, the
// order collapseGroup must be applied in.
func discoverRegionTree(r *Region) [][]*Vertex {
	all := make(map[int]bool)
	byID := make(map[int]*Vertex)
	for _, v := range r.Vertices() {
		all[v.ID] = true
		byID[v.ID] = v
	}

	var order [][]*Vertex
	var recurse func(members map[int]bool, excluded map[[2]int]bool)
	recurse = func(members map[int]bool, excluded map[[2]int]bool) {
		for _, scc := range tarjanInduced(members, excluded, byID) {
			if !scc.NonTrivial() {
				continue
			}
			sccIDs := make(map[int]bool, len(scc.Vertices))
			for _, v := range scc.Vertices {
				sccIDs[v.ID] = true
			}
			headers := make(map[int]bool)
			for _, v := range scc.Vertices {
				for _, p := range v.Predecessors {
					if members[p.ID] && !sccIDs[p.ID] {
						headers[v.ID] = true
					}
				}
			}
			inner := make(map[[2]int]bool, len(excluded))
			for k, v := range excluded {
				inner[k] = v
			}
			for _, v := range scc.Vertices {
				for _, s := range v.Successors {
					if sccIDs[s.ID] && headers[s.ID] {
						inner[[2]int{v.ID, s.ID}] = true
					}
				}
			}
			recurse(sccIDs, inner)
			order = append(order, scc.Vertices)
		}
	}
	recurse(all, map[[2]int]bool{})
	return order
}

// tarjanInduced runs Tarjan's algorithm over the subgraph induced by
// members, ignoring any edge present in excluded — used to re-discover
// SCCs once a loop's back-edges have been notionally cut.
func tarjanInduced(members map[int]bool, excluded map[[2]int]bool, byID map[int]*Vertex) []*SCC {
	st := &tarjanState{index: make(map[int]int), low: make(map[int]int), onStack: make(map[int]bool)}
	succFn := func(v *Vertex) []*Vertex {
		var out []*Vertex
		for _, s := range v.Successors {
			if !members[s.ID] || excluded[[2]int{v.ID, s.ID}] {
				continue
			}
			out = append(out, s)
		}
		return out
	}
	var ids []int
	for id := range members {
		ids = append(ids, id)
	}
	sortInts(ids)
	for _, id := range ids {
		if _, visited := st.index[id]; !visited {
			strongConnectInduced(st, byID[id], succFn)
		}
	}
	return st.result
}

func strongConnectInduced(st *tarjanState, v *Vertex, succFn func(*Vertex) []*Vertex) {
	st.index[v.ID] = st.counter
	st.low[v.ID] = st.counter
	st.counter++
	st.stack = append(st.stack, v)
	st.onStack[v.ID] = true

	for _, w := range succFn(v) {
		if _, visited := st.index[w.ID]; !visited {
			strongConnectInduced(st, w, succFn)
			if st.low[w.ID] < st.low[v.ID] {
				st.low[v.ID] = st.low[w.ID]
			}
		} else if st.onStack[w.ID] {
			if st.index[w.ID] < st.low[v.ID] {
				st.low[v.ID] = st.index[w.ID]
			}
		}
	}

	if st.low[v.ID] == st.index[v.ID] {
		var members []*Vertex
		for {
			n := len(st.stack) - 1
			w := st.stack[n]
			st.stack = st.stack[:n]
			st.onStack[w.ID] = false
			members = append(members, w)
			if w == v {
				break
			}
		}
		st.result = append(st.result, &SCC{Vertices: members})
	}
}

// collapseGroup replaces the vertices named by members with a single
// KindCollapsed vertex in r, after combing the extracted inner region
// and converging any lingering multi-header/multi-exit boundary into
// one entry point and one set of distinct exit targets.
func collapseGroup(r *Region, members []*Vertex) error {
	memberSet := make(map[int]bool, len(members))
	for _, v := range members {
		memberSet[v.ID] = true
	}

	headers := externalEntryHeaders(r, memberSet)
	var innerEntry *Vertex
	if len(headers) == 1 {
		innerEntry = headers[0]
	} else if len(headers) > 1 {
		// Only the dispatcher joins the group (it becomes the inner
		// region's entry, reading the state variable to route to the
		// right header); the EntrySet vertices it created stay outside,
		// as ordinary r vertices on the incoming edges, so
		// scanEntryBoundary below finds set->dispatcher as the group's
		// entry edge instead of losing the sets to the p->collapsed
		// rewrite (a set with no in-group predecessor would never lift
		// to a Set node at all).
		dispatcher, _, err := synthesizeGroupEntryDispatcher(r, headers)
		if err != nil {
			return err
		}
		memberSet[dispatcher.ID] = true
		innerEntry = dispatcher
	}

	entryEdges := scanEntryBoundary(r, memberSet)

	exitTargets := externalExitTargets(r, memberSet)
	if len(exitTargets) > 1 {
		extra, err := synthesizeGroupExitDispatcher(r, memberSet)
		if err != nil {
			return err
		}
		for _, v := range extra {
			memberSet[v.ID] = true
		}
	}
	exitEdges := scanExitBoundary(r, memberSet)

	// A vertex with one in-group successor (e.g. a back edge) and one
	// out-of-group successor (the loop exit) must not simply lose the
	// latter: that would silently turn a conditional branch into a
	// linear vertex once its owning vertices move into inner below. Give
	// every crossing edge a same-group stand-in with no successors of
	// its own instead, so the branch survives as a genuine 0-successor
	// vertex (spec §4.2 emits that as Break once inside a loop context).
	var stub *Vertex
	if len(exitEdges) > 0 {
		stub = r.CreateVertex(KindEmpty, "loop.exit")
		memberSet[stub.ID] = true
	}
	for _, e := range exitEdges {
		redirectEdge(e[0], e[1], stub)
	}

	inner := NewRegion(r.name + ".inner")
	for id := range memberSet {
		v := r.vertex[id]
		delete(r.vertex, id)
		v.region = inner
		inner.vertex[id] = v
		if id >= inner.nextID {
			inner.nextID = id + 1
		}
	}
	inner.SetEntry(innerEntry)

	collapsed := r.CreateVertex(KindCollapsed, "scs")
	collapsed.Collapsed = inner

	for _, e := range entryEdges {
		redirectEdge(e[0], e[1], collapsed)
	}

	seenTarget := make(map[int]bool)
	for _, e := range exitEdges {
		ext := e[1]
		if !seenTarget[ext.ID] {
			seenTarget[ext.ID] = true
			r.Connect(collapsed, ext)
		}
	}

	if err := Comb(inner); err != nil {
		return err
	}
	r.invalidate()
	return nil
}

func externalEntryHeaders(r *Region, memberSet map[int]bool) []*Vertex {
	seen := make(map[int]bool)
	var out []*Vertex
	for _, v := range r.Vertices() {
		if !memberSet[v.ID] {
			continue
		}
		for _, p := range v.Predecessors {
			if !memberSet[p.ID] && !seen[v.ID] {
				seen[v.ID] = true
				out = append(out, v)
			}
		}
	}
	return out
}

func externalExitTargets(r *Region, memberSet map[int]bool) []*Vertex {
	seen := make(map[int]bool)
	var out []*Vertex
	for _, v := range r.Vertices() {
		if !memberSet[v.ID] {
			continue
		}
		for _, s := range v.Successors {
			if !memberSet[s.ID] && !seen[s.ID] {
				seen[s.ID] = true
				out = append(out, s)
			}
		}
	}
	return out
}

func scanEntryBoundary(r *Region, memberSet map[int]bool) [][2]*Vertex {
	var out [][2]*Vertex
	for _, v := range r.Vertices() {
		if memberSet[v.ID] {
			continue
		}
		for _, s := range v.Successors {
			if memberSet[s.ID] {
				out = append(out, [2]*Vertex{v, s})
			}
		}
	}
	return out
}

func scanExitBoundary(r *Region, memberSet map[int]bool) [][2]*Vertex {
	var out [][2]*Vertex
	for _, v := range r.Vertices() {
		if !memberSet[v.ID] {
			continue
		}
		for _, s := range v.Successors {
			if !memberSet[s.ID] {
				out = append(out, [2]*Vertex{v, s})
			}
		}
	}
	return out
}

// synthesizeGroupEntryDispatcher is the group-collapse counterpart of
// synthesizeEntryDispatcher in comb.go: it only touches headers' own
// predecessor edges, since at this point the caller has not yet cut
// the group away from r.
func synthesizeGroupEntryDispatcher(r *Region, headers []*Vertex) (*Vertex, []*Vertex, error) {
	dispatcher := r.CreateVertex(KindEntryDispatcher, "entry.dispatcher")
	extra := []*Vertex{dispatcher}
	labels := make([]Label, 0, len(headers))

	for _, h := range headers {
		val := r.NextStateValue()
		for _, p := range append([]*Vertex(nil), h.Predecessors...) {
			isHeaderMember := false
			for _, other := range headers {
				if p == other {
					isHeaderMember = true
				}
			}
			if isHeaderMember {
				continue
			}
			set := r.CreateVertex(KindEntrySet, "entry.set")
			set.StateVariableValue = val
			redirectEdge(p, h, set)
			r.Connect(set, dispatcher)
			extra = append(extra, set)
		}
		r.Connect(dispatcher, h)
		labels = append(labels, Label{uint64(val)})
	}
	if err := dispatcher.SetCaseLabels(labels); err != nil {
		return nil, nil, err
	}
	return dispatcher, extra, nil
}

// synthesizeGroupExitDispatcher converges every group-to-outside edge
// through ExitSet vertices kept inside the group, each writing a state
// value and then leaving the loop (the in-group exit-stub rewrite in
// collapseGroup turns that final step into a Break). The ExitDispatcher
// itself stays outside the group: it becomes the collapsed vertex's one
// true successor, and only after the loop does it read the state
// variable back out to route to the real, distinct external targets —
// symmetric to how an EntryDispatcher becomes the loop's unique header
// instead of staying outside it.
func synthesizeGroupExitDispatcher(r *Region, memberSet map[int]bool) ([]*Vertex, error) {
	dispatcher := r.CreateVertex(KindExitDispatcher, "exit.dispatcher")
	var extra []*Vertex
	targetVal := map[int]int{}
	var targets []*Vertex
	var labels []Label

	for _, e := range scanExitBoundary(r, memberSet) {
		from, to := e[0], e[1]
		val, ok := targetVal[to.ID]
		if !ok {
			val = r.NextStateValue()
			targetVal[to.ID] = val
			targets = append(targets, to)
			labels = append(labels, Label{uint64(val)})
		}
		set := r.CreateVertex(KindExitSet, "exit.set")
		set.StateVariableValue = val
		redirectEdge(from, to, set)
		r.Connect(set, dispatcher)
		extra = append(extra, set)
	}
	for _, t := range targets {
		r.Connect(dispatcher, t)
	}
	if err := dispatcher.SetCaseLabels(labels); err != nil {
		return nil, err
	}
	return extra, nil
}
