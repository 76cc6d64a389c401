// Package dot reads and writes the GraphViz .dot fixtures used by the
// test suite and by `restructure dot` (spec §6 "debug/test interfaces").
// The dialect accepted by Parse is a narrow subset of GraphViz: plain
// node and edge statements inside one `digraph name { ... }` block, with
// a handful of attributes (`kind`, `cond`, `label`) recording what the
// region builder needs and nothing GraphViz itself would render
// differently.
package dot

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/ryftlang/restructure/internal/region"
)

// BlockRef is the region.CodeBlockRef a dot fixture attaches to each
// SourceCode vertex: simply the node's name, since a fixture has no
// instruction-level IR to point back into.
type BlockRef string

type fixtureVertex struct {
	id         string
	name       string
	kind       region.SourceKind
	cond       *region.Expr
	successors []*fixtureVertex
	preds      []*fixtureVertex
	labels     []region.Label
}

func (v *fixtureVertex) ID() string                      { return v.id }
func (v *fixtureVertex) Name() string                    { return v.name }
func (v *fixtureVertex) Kind() region.SourceKind         { return v.kind }
func (v *fixtureVertex) Condition() *region.Expr         { return v.cond }
func (v *fixtureVertex) CaseLabels() []region.Label      { return v.labels }
func (v *fixtureVertex) CodeBlock() region.CodeBlockRef {
	if v.kind == region.SourceEmpty {
		return nil
	}
	return BlockRef(v.name)
}

func (v *fixtureVertex) Successors() []region.SourceVertex {
	out := make([]region.SourceVertex, len(v.successors))
	for i, s := range v.successors {
		out[i] = s
	}
	return out
}

func (v *fixtureVertex) Predecessors() []region.SourceVertex {
	out := make([]region.SourceVertex, len(v.preds))
	for i, p := range v.preds {
		out[i] = p
	}
	return out
}

// Fixture implements region.Source over a parsed .dot file.
type Fixture struct {
	name     string
	entry    *fixtureVertex
	vertices []*fixtureVertex
}

func (f *Fixture) Name() string                    { return f.name }
func (f *Fixture) Entry() region.SourceVertex       { return f.entry }
func (f *Fixture) Vertices() []region.SourceVertex {
	out := make([]region.SourceVertex, len(f.vertices))
	for i, v := range f.vertices {
		out[i] = v
	}
	return out
}

var (
	graphHeaderRe = regexp.MustCompile(`^\s*(strict\s+)?digraph\s+(\w+)\s*\{\s*$`)
	edgeRe        = regexp.MustCompile(`^\s*"?([\w.]+)"?\s*->\s*"?([\w.]+)"?\s*(\[(.*)\])?\s*;?\s*$`)
	nodeRe        = regexp.MustCompile(`^\s*"?([\w.]+)"?\s*(\[(.*)\])?\s*;?\s*$`)
	attrRe        = regexp.MustCompile(`(\w+)\s*=\s*"([^"]*)"`)
)

// Parse reads a .dot fixture, resolving entry as the name of the root
// vertex (spec §6 "an entry root").
func Parse(r io.Reader, entry string) (*Fixture, error) {
	scanner := bufio.NewScanner(r)
	f := &Fixture{name: "fixture"}
	byName := make(map[string]*fixtureVertex)

	order := func(name string) *fixtureVertex {
		if v, ok := byName[name]; ok {
			return v
		}
		v := &fixtureVertex{id: name, name: name, kind: region.SourceCode}
		byName[name] = v
		f.vertices = append(f.vertices, v)
		return v
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line == "}" || strings.HasPrefix(line, "//") {
			continue
		}
		if m := graphHeaderRe.FindStringSubmatch(line); m != nil {
			f.name = m[2]
			continue
		}
		if m := edgeRe.FindStringSubmatch(line); m != nil {
			from, to := order(m[1]), order(m[2])
			attrs := parseAttrs(m[4])
			from.successors = append(from.successors, to)
			to.preds = append(to.preds, from)
			from.labels = append(from.labels, parseLabel(attrs["label"]))
			continue
		}
		if m := nodeRe.FindStringSubmatch(line); m != nil {
			v := order(m[1])
			attrs := parseAttrs(m[3])
			if attrs["kind"] == "empty" {
				v.kind = region.SourceEmpty
			}
			if cond, ok := attrs["cond"]; ok && cond != "" {
				expr, err := parseExpr(cond)
				if err != nil {
					return nil, fmt.Errorf("node %s: %w", m[1], err)
				}
				v.cond = expr
			}
			continue
		}
		return nil, fmt.Errorf("dot: unrecognized line %q", line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	for _, v := range f.vertices {
		if len(v.successors) != 2 {
			v.cond = nil
		}
		if len(v.successors) <= 2 {
			v.labels = nil
		}
	}

	root, ok := byName[entry]
	if !ok {
		return nil, fmt.Errorf("dot: entry vertex %q not found", entry)
	}
	f.entry = root
	return f, nil
}

func parseAttrs(body string) map[string]string {
	out := make(map[string]string)
	for _, m := range attrRe.FindAllStringSubmatch(body, -1) {
		out[m[1]] = m[2]
	}
	return out
}

// parseLabel reads a dot edge's label attribute into a region.Label: the
// literal "default" (or an absent attribute) is the empty/default
// label, otherwise a comma-separated list of uint64 case values.
func parseLabel(raw string) region.Label {
	if raw == "" || raw == "default" {
		return nil
	}
	parts := strings.Split(raw, ",")
	label := make(region.Label, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 64)
		if err != nil {
			continue
		}
		label = append(label, n)
	}
	return label
}
