package region

// SCC is one strongly connected component: a set of vertices in
// unspecified order, along with whether it is non-trivial (more than
// one vertex, or a single vertex with a self-loop). Non-trivial SCCs
// are the candidate nested regions combing and collapsing operate on
// (spec §4.1.1).
type SCC struct {
	Vertices []*Vertex
}

// NonTrivial reports whether s represents a genuine loop rather than a
// single acyclic vertex.
func (s *SCC) NonTrivial() bool {
	if len(s.Vertices) > 1 {
		return true
	}
	if len(s.Vertices) == 1 {
		v := s.Vertices[0]
		for _, succ := range v.Successors {
			if succ == v {
				return true
			}
		}
	}
	return false
}

// tarjanState carries the bookkeeping Tarjan's algorithm threads
// through its recursive DFS: index/lowlink per vertex, the component
// stack each finished SCC is popped from, and the onStack membership
// test.
type tarjanState struct {
	index   map[int]int
	low     map[int]int
	onStack map[int]bool
	stack   []*Vertex
	counter int
	result  []*SCC
}

// SCCs computes every strongly connected component of the region's
// vertex graph via Tarjan's algorithm, in the order Tarjan completes
// them: every SCC comes after the SCCs reachable from it. Each SCC is
// maximal, so loops nested inside one are not reported separately
// (discoverRegionTree finds those).
func (r *Region) SCCs() []*SCC {
	st := &tarjanState{
		index:   make(map[int]int),
		low:     make(map[int]int),
		onStack: make(map[int]bool),
	}
	for _, v := range r.Vertices() {
		if _, visited := st.index[v.ID]; !visited {
			st.strongConnect(v)
		}
	}
	return st.result
}

func (st *tarjanState) strongConnect(v *Vertex) {
	st.index[v.ID] = st.counter
	st.low[v.ID] = st.counter
	st.counter++
	st.stack = append(st.stack, v)
	st.onStack[v.ID] = true

	for _, w := range v.Successors {
		if _, visited := st.index[w.ID]; !visited {
			st.strongConnect(w)
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

// EntryVertices returns the subset of an SCC's vertices that have an
// incoming edge from outside the SCC, i.e. the set of candidate loop
// headers spec §4.1.1 requires combing to reduce to one.
func (s *SCC) EntryVertices() []*Vertex {
	members := make(map[int]bool, len(s.Vertices))
	for _, v := range s.Vertices {
		members[v.ID] = true
	}
	var entries []*Vertex
	for _, v := range s.Vertices {
		for _, p := range v.Predecessors {
			if !members[p.ID] {
				entries = append(entries, v)
				break
			}
		}
	}
	return entries
}

// ExitEdges returns every edge leaving the SCC: its source is a member,
// its target is not.
func (s *SCC) ExitEdges() [][2]*Vertex {
	members := make(map[int]bool, len(s.Vertices))
	for _, v := range s.Vertices {
		members[v.ID] = true
	}
	var edges [][2]*Vertex
	for _, v := range s.Vertices {
		for _, succ := range v.Successors {
			if !members[succ.ID] {
				edges = append(edges, [2]*Vertex{v, succ})
			}
		}
	}
	return edges
}
