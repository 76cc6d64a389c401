package region

import (
	"fmt"

	"github.com/ryftlang/restructure/domain"
)

// Region owns a set of vertices, an entry vertex, an optional unique
// exit vertex (see EnsureExit), and the derived analyses combing and AST
// building depend on (spec §3.2). Allocation is exclusive: a Vertex
// belongs to exactly one Region for its whole lifetime.
type Region struct {
	name    string
	entry   *Vertex
	exit    *Vertex
	vertex  map[int]*Vertex
	nextID  int
	nextVal int

	dom  *domTree
	pdom *domTree
}

// NewRegion creates an empty region with the given diagnostic name.
func NewRegion(name string) *Region {
	return &Region{name: name, vertex: make(map[int]*Vertex)}
}

// Name returns the region's diagnostic name (e.g. the function it was
// built from).
func (r *Region) Name() string { return r.name }

// Entry returns the region's unique entry vertex.
func (r *Region) Entry() *Vertex { return r.entry }

// SetEntry installs v as the region's entry vertex. v must already
// belong to the region.
func (r *Region) SetEntry(v *Vertex) { r.entry = v }

// Exit returns the region's exit vertex, or nil if EnsureExit has not
// run yet.
func (r *Region) Exit() *Vertex { return r.exit }

// Vertices returns every vertex owned by the region, in ID order, so
// iteration is deterministic across calls (preorder numbering and
// clone tie-breaks depend on stable enumeration).
func (r *Region) Vertices() []*Vertex {
	out := make([]*Vertex, 0, len(r.vertex))
	for _, v := range r.vertex {
		out = append(out, v)
	}
	sortVerticesByID(out)
	return out
}

func sortVerticesByID(vs []*Vertex) {
	for i := 1; i < len(vs); i++ {
		j := i
		for j > 0 && vs[j-1].ID > vs[j].ID {
			vs[j-1], vs[j] = vs[j], vs[j-1]
			j--
		}
	}
}

// Size returns the number of vertices the region owns.
func (r *Region) Size() int { return len(r.vertex) }

// CreateVertex allocates a fresh vertex owned by this region and
// assigns it the next densely packed ID.
func (r *Region) CreateVertex(kind Kind, name string) *Vertex {
	v := &Vertex{ID: r.nextID, Kind: kind, Name: name, region: r}
	r.nextID++
	r.vertex[v.ID] = v
	r.invalidate()
	return v
}

// NextStateValue returns the next densely packed state-variable value,
// assigned in preorder as vertices are created (spec §4.1.2 ordering
// rule ii).
func (r *Region) NextStateValue() int {
	v := r.nextVal
	r.nextVal++
	return v
}

// Get looks up a vertex by ID.
func (r *Region) Get(id int) *Vertex { return r.vertex[id] }

// Connect creates an ordered edge from -> to. Edge order on `from`
// encodes case-label position for dispatcher/switch vertices, so
// Connect always appends.
func (r *Region) Connect(from, to *Vertex) {
	from.Successors = append(from.Successors, to)
	to.Predecessors = append(to.Predecessors, from)
	r.invalidate()
}

// Disconnect removes a single from->to edge (the first one found, so
// parallel edges are removed one at a time).
func (r *Region) Disconnect(from, to *Vertex) {
	idx := from.successorIndex(to)
	if idx < 0 {
		return
	}
	from.Successors = append(from.Successors[:idx], from.Successors[idx+1:]...)
	if idx < len(from.successorLabels) {
		from.successorLabels = append(from.successorLabels[:idx], from.successorLabels[idx+1:]...)
	}
	to.Predecessors = removeVertexFromSlice(to.Predecessors, from)
	r.invalidate()
}

// RemoveVertex deletes v and every edge touching it.
func (r *Region) RemoveVertex(v *Vertex) {
	if v == nil {
		return
	}
	for _, p := range append([]*Vertex(nil), v.Predecessors...) {
		r.Disconnect(p, v)
	}
	for _, s := range append([]*Vertex(nil), v.Successors...) {
		r.Disconnect(v, s)
	}
	delete(r.vertex, v.ID)
	r.invalidate()
}

func (r *Region) invalidate() {
	r.dom = nil
	r.pdom = nil
}

// EnsureExit gives the region a unique exit vertex if it does not
// already have one: the region's only vertex with no successors when
// there is exactly one, otherwise a synthesized virtual exit that every
// vertex with no successors is wired into. It is idempotent.
func (r *Region) EnsureExit() *Vertex {
	if r.exit != nil {
		return r.exit
	}
	var sinks []*Vertex
	for _, v := range r.Vertices() {
		if len(v.Successors) == 0 {
			sinks = append(sinks, v)
		}
	}
	if len(sinks) == 1 {
		r.exit = sinks[0]
		return r.exit
	}
	exit := r.CreateVertex(KindEmpty, "exit")
	r.exit = exit
	for _, v := range sinks {
		r.Connect(v, exit)
	}
	return exit
}

// Visitor observes vertices and edges during a Region walk, mirroring
// the CFGVisitor contract the instruction-level IR's own CFG type uses
// (see internal/analyzer/cfg.go in the ambient pattern this is drawn
// from): returning false stops the traversal early.
type Visitor interface {
	VisitVertex(v *Vertex) bool
	VisitEdge(from, to *Vertex) bool
}

// Walk performs a depth-first traversal of the region starting at its
// entry vertex.
func (r *Region) Walk(visitor Visitor) {
	if r.entry == nil {
		return
	}
	seen := make(map[int]bool)
	r.walk(r.entry, visitor, seen)
}

func (r *Region) walk(v *Vertex, visitor Visitor, seen map[int]bool) {
	if v == nil || seen[v.ID] {
		return
	}
	seen[v.ID] = true
	if !visitor.VisitVertex(v) {
		return
	}
	for _, s := range v.Successors {
		if !visitor.VisitEdge(v, s) {
			return
		}
		r.walk(s, visitor, seen)
	}
}

// BreadthFirstWalk performs a breadth-first traversal of the region
// starting at its entry vertex.
func (r *Region) BreadthFirstWalk(visitor Visitor) {
	if r.entry == nil {
		return
	}
	seen := map[int]bool{r.entry.ID: true}
	queue := []*Vertex{r.entry}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		if !visitor.VisitVertex(v) {
			return
		}
		for _, s := range v.Successors {
			if !visitor.VisitEdge(v, s) {
				return
			}
			if !seen[s.ID] {
				seen[s.ID] = true
				queue = append(queue, s)
			}
		}
	}
}

func (r *Region) String() string {
	return fmt.Sprintf("Region(%s): %d vertices", r.name, r.Size())
}

// Build populates a fresh Region from the external Source contract
// (spec §6). It adds no exit vertex itself; EnsureExit, run later,
// synthesizes one only when the region does not have exactly one
// vertex with no successors.
func Build(src Source) (*Region, error) {
	if src == nil || src.Entry() == nil {
		return nil, domain.NewRestructureError(domain.ErrMalformedInput, "", "source has no entry vertex")
	}

	r := NewRegion(src.Name())
	mapping := make(map[string]*Vertex)

	// First pass: create every vertex so edge wiring can resolve
	// forward references regardless of Vertices() order.
	for _, sv := range src.Vertices() {
		kind := KindCode
		if sv.Kind() == SourceEmpty {
			kind = KindEmpty
		}
		v := r.CreateVertex(kind, sv.Name())
		v.CodeBlock = sv.CodeBlock()
		v.Condition = sv.Condition()
		mapping[sv.ID()] = v
	}

	entry, ok := mapping[src.Entry().ID()]
	if !ok {
		return nil, domain.NewRestructureError(domain.ErrMalformedInput, src.Entry().ID(), "entry vertex missing from Vertices()")
	}
	r.SetEntry(entry)

	// Second pass: wire edges and case labels now that every vertex
	// exists.
	for _, sv := range src.Vertices() {
		from := mapping[sv.ID()]
		labels := sv.CaseLabels()
		for i, ssucc := range sv.Successors() {
			to, ok := mapping[ssucc.ID()]
			if !ok {
				return nil, domain.NewRestructureError(domain.ErrMalformedInput, sv.ID(), "edge targets a vertex outside the source")
			}
			r.Connect(from, to)
			_ = i
		}
		if len(labels) > 0 {
			if err := from.SetCaseLabels(labels); err != nil {
				return nil, domain.NewRestructureError(domain.ErrMalformedInput, sv.ID(), err.Error())
			}
		}
	}

	return r, nil
}
