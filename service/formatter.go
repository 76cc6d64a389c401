package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ryftlang/restructure/domain"
	"github.com/ryftlang/restructure/internal/ast"
	"github.com/ryftlang/restructure/internal/dot"
)

// FormatterImpl implements domain.ASTFormatter: text, JSON, and .dot
// renderings of a single RestructureResult, the restructure-domain
// counterpart of the teacher's OutputFormatterImpl.
type FormatterImpl struct{}

func NewFormatter() *FormatterImpl {
	return &FormatterImpl{}
}

func (f *FormatterImpl) Format(res *domain.RestructureResult, format domain.OutputFormat) (string, error) {
	switch format {
	case domain.OutputFormatText:
		return f.formatText(res), nil
	case domain.OutputFormatJSON:
		return f.formatJSON(res)
	case domain.OutputFormatDOT:
		return f.formatDOT(res)
	default:
		return "", fmt.Errorf("unsupported output format: %s", format)
	}
}

func (f *FormatterImpl) Write(res *domain.RestructureResult, format domain.OutputFormat, w io.Writer) error {
	out, err := f.Format(res, format)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

func (f *FormatterImpl) formatText(res *domain.RestructureResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", res.RegionName)
	fmt.Fprintf(&b, "  source:    %s\n", res.SourcePath)
	fmt.Fprintf(&b, "  vertices:  %d\n", res.VertexCount)
	fmt.Fprintf(&b, "  edges:     %d\n", res.EdgeCount)
	fmt.Fprintf(&b, "  loops:     %d\n", res.LoopCount)
	for _, w := range res.Warnings {
		fmt.Fprintf(&b, "  warning:   %s\n", w)
	}
	return b.String()
}

// jsonResult mirrors RestructureResult but swaps the opaque AST field
// for a plain tree the json package can walk without needing every
// ast.Node variant to be exported with json tags.
type jsonResult struct {
	SourcePath  string   `json:"source_path"`
	RegionName  string   `json:"region_name"`
	VertexCount int      `json:"vertex_count"`
	EdgeCount   int      `json:"edge_count"`
	LoopCount   int      `json:"loop_count"`
	Warnings    []string `json:"warnings,omitempty"`
	AST         any      `json:"ast,omitempty"`
}

func (f *FormatterImpl) formatJSON(res *domain.RestructureResult) (string, error) {
	jr := jsonResult{
		SourcePath:  res.SourcePath,
		RegionName:  res.RegionName,
		VertexCount: res.VertexCount,
		EdgeCount:   res.EdgeCount,
		LoopCount:   res.LoopCount,
		Warnings:    res.Warnings,
	}
	if node, ok := res.AST.(ast.Node); ok {
		jr.AST = jsonNode(node)
	}
	buf, err := json.MarshalIndent(jr, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal json: %w", err)
	}
	return string(buf), nil
}

// jsonNode converts an ast.Node into a plain map, the same exhaustive
// type-switch dispatch the rest of the ast package uses for
// kind-specific behavior (spec §9's "no virtual methods" design).
func jsonNode(n ast.Node) map[string]any {
	if n == nil {
		return nil
	}
	out := map[string]any{}
	switch t := n.(type) {
	case *ast.Code:
		out["kind"] = "code"
		out["name"] = t.NodeName()
		out["implicit_return"] = t.ImplicitReturn
	case *ast.Break:
		out["kind"] = "break"
	case *ast.Continue:
		out["kind"] = "continue"
		out["implicit"] = t.Implicit
	case *ast.If:
		out["kind"] = "if"
		out["cond"] = t.Cond.String()
		out["weaved"] = t.Weaved
		out["then"] = jsonNode(t.Then)
		out["else"] = jsonNode(t.Else)
	case *ast.Scs:
		out["kind"] = "loop"
		out["loop_type"] = t.LoopType.String()
		out["body"] = jsonNode(t.Body)
	case *ast.Sequence:
		out["kind"] = "sequence"
		children := make([]map[string]any, 0, len(t.Children))
		for _, c := range t.Children {
			children = append(children, jsonNode(c))
		}
		out["children"] = children
	case *ast.Switch:
		out["kind"] = "switch"
		out["dispatcher"] = t.DispatcherKind != ast.NotDispatcher
		cases := make([]map[string]any, 0, len(t.Cases))
		for _, c := range t.Cases {
			cases = append(cases, map[string]any{"child": jsonNode(c.Child)})
		}
		out["cases"] = cases
	case *ast.SwitchBreak:
		out["kind"] = "switch-break"
	case *ast.Set:
		out["kind"] = "set"
		out["state_value"] = t.StateVariableValue
	default:
		out["kind"] = "unknown"
	}
	if succ := n.Successor(); succ != nil {
		out["successor"] = jsonNode(succ)
	}
	return out
}

func (f *FormatterImpl) formatDOT(res *domain.RestructureResult) (string, error) {
	node, ok := res.AST.(ast.Node)
	if !ok {
		return "", fmt.Errorf("result %s carries no AST to render", res.SourcePath)
	}
	var buf bytes.Buffer
	if err := dot.WriteAST(&buf, node); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var _ domain.ASTFormatter = (*FormatterImpl)(nil)
