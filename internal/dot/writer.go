package dot

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ryftlang/restructure/internal/ast"
	"github.com/ryftlang/restructure/internal/region"
)

// WriteRegion dumps r as a GraphViz digraph, expanding every Collapsed
// vertex's inner region as a subgraph cluster so a nested loop's
// structure stays visible after combing (mirrors the teacher's
// DepGraph.ToDOT pattern of a strings.Builder plus one Fprintf per
// node/edge, adapted to region.Region's vertex/edge shape).
func WriteRegion(w io.Writer, r *region.Region) error {
	var b strings.Builder
	fmt.Fprintf(&b, "digraph %s {\n", sanitizeID(r.Name()))
	writeRegionBody(&b, r, 0)
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func writeRegionBody(b *strings.Builder, r *region.Region, depth int) {
	indent := strings.Repeat("  ", depth+1)
	for _, v := range r.Vertices() {
		attrs := []string{fmt.Sprintf(`name="%s"`, v.Name), fmt.Sprintf(`kind=%s`, v.Kind)}
		if v.Condition != nil {
			attrs = append(attrs, fmt.Sprintf(`cond="%s"`, v.Condition))
		}
		fmt.Fprintf(b, "%s%s [%s];\n", indent, nodeID(v), strings.Join(attrs, ", "))
		if v.HasCollapsedBody() {
			fmt.Fprintf(b, "%ssubgraph cluster_%s {\n", indent, nodeID(v))
			writeRegionBody(b, v.Collapsed, depth+1)
			fmt.Fprintf(b, "%s}\n", indent)
		}
	}
	for _, v := range r.Vertices() {
		for i, s := range v.Successors {
			label := v.CaseLabel(i)
			if label == nil {
				fmt.Fprintf(b, "%s%s -> %s;\n", indent, nodeID(v), nodeID(s))
			} else if label.IsDefault() {
				fmt.Fprintf(b, "%s%s -> %s [label=\"default\"];\n", indent, nodeID(v), nodeID(s))
			} else {
				fmt.Fprintf(b, "%s%s -> %s [label=%q];\n", indent, nodeID(v), nodeID(s), labelText(label))
			}
		}
	}
}

func nodeID(v *region.Vertex) string {
	return "v" + strconv.Itoa(v.ID)
}

func labelText(l region.Label) string {
	parts := make([]string, len(l))
	for i, n := range l {
		parts[i] = strconv.FormatUint(n, 10)
	}
	return strings.Join(parts, ",")
}

func sanitizeID(name string) string {
	if name == "" {
		return "region"
	}
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' {
			return r
		}
		return '_'
	}, name)
}

// WriteAST dumps root as a GraphViz digraph of its tree shape, one node
// per ast.Node, for `restructure dot --stage ast` and the test suite's visual
// debugging (spec §6).
func WriteAST(w io.Writer, root ast.Node) error {
	var b strings.Builder
	b.WriteString("digraph ast {\n")
	next := 0
	writeASTNode(&b, root, &next)
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func writeASTNode(b *strings.Builder, n ast.Node, next *int) string {
	if n == nil {
		return ""
	}
	id := fmt.Sprintf("n%d", *next)
	*next++
	label := astLabel(n)
	fmt.Fprintf(b, "  %s [label=%q];\n", id, label)

	link := func(child ast.Node) {
		if childID := writeASTNode(b, child, next); childID != "" {
			fmt.Fprintf(b, "  %s -> %s;\n", id, childID)
		}
	}

	switch t := n.(type) {
	case *ast.If:
		link(t.Then)
		link(t.Else)
	case *ast.Scs:
		link(t.Body)
	case *ast.Switch:
		for _, c := range t.Cases {
			link(c.Child)
		}
	case *ast.Sequence:
		for _, c := range t.Children {
			link(c)
		}
	}
	if succ := n.Successor(); succ != nil {
		if succID := writeASTNode(b, succ, next); succID != "" {
			fmt.Fprintf(b, "  %s -> %s [style=dashed];\n", id, succID)
		}
	}
	return id
}

func astLabel(n ast.Node) string {
	switch t := n.(type) {
	case *ast.Code:
		return "code:" + t.NodeName()
	case *ast.Break:
		return "break"
	case *ast.Continue:
		return "continue"
	case *ast.If:
		return "if:" + t.Cond.String()
	case *ast.Scs:
		return "loop:" + t.LoopType.String()
	case *ast.Sequence:
		return "seq"
	case *ast.Switch:
		return "switch"
	case *ast.SwitchBreak:
		return "switch-break"
	case *ast.Set:
		return fmt.Sprintf("set=%d", t.StateVariableValue)
	default:
		return "?"
	}
}
