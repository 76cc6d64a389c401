package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ryftlang/restructure/domain"
)

// HandlerSet exposes MCP tool handlers with shared dependencies.
type HandlerSet struct {
	deps *Dependencies
}

// NewHandlerSet constructs a handler set.
func NewHandlerSet(deps *Dependencies) *HandlerSet {
	if deps == nil {
		deps = NewDependencies(nil)
	}
	return &HandlerSet{deps: deps}
}

// HandleRestructure handles the restructure_cfg tool: build, comb,
// lift, and beautify one or more .dot fixtures into a structured AST.
func (h *HandlerSet) HandleRestructure(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	path, ok := args["path"].(string)
	if !ok {
		return mcp.NewToolResultError("path parameter is required and must be a string"), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return mcp.NewToolResultError(fmt.Sprintf("path does not exist: %s", path)), nil
	}

	entry := "entry"
	if e, ok := args["entry"].(string); ok && e != "" {
		entry = e
	}
	recursive := true
	if r, ok := args["recursive"].(bool); ok {
		recursive = r
	}

	svc := h.deps.BuildRestructureService(entry)
	discovery := h.deps.BuildFileDiscovery()

	files, err := discovery.CollectDotFiles([]string{path}, recursive)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("collect input files: %v", err)), nil
	}
	if len(files) == 0 {
		return mcp.NewToolResultError(fmt.Sprintf("no .dot files found in %s", path)), nil
	}

	resp, err := svc.Restructure(ctx, domain.RestructureRequest{
		Paths:     files,
		EntryName: entry,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("restructure failed: %v", err)), nil
	}

	formatter := h.deps.BuildFormatter()
	out := map[string]interface{}{
		"generated_at": resp.GeneratedAt,
		"version":      resp.Version,
		"errors":       resp.Errors,
	}
	results := make([]string, 0, len(resp.Results))
	for i := range resp.Results {
		text, err := formatter.Format(&resp.Results[i], domain.OutputFormatJSON)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("format result for %s: %v", resp.Results[i].SourcePath, err)), nil
		}
		results = append(results, text)
	}
	out["results"] = results

	return toolResultJSON(out)
}

// HandleTopEquivalence handles the check_topological_equivalence tool:
// restructure two fixtures independently and report whether they
// beautify to the same AST shape.
func (h *HandlerSet) HandleTopEquivalence(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	left, ok := args["left_path"].(string)
	if !ok {
		return mcp.NewToolResultError("left_path parameter is required and must be a string"), nil
	}
	right, ok := args["right_path"].(string)
	if !ok {
		return mcp.NewToolResultError("right_path parameter is required and must be a string"), nil
	}
	entry := "entry"
	if e, ok := args["entry"].(string); ok && e != "" {
		entry = e
	}

	svc := h.deps.BuildRestructureService(entry)
	resp, err := svc.CheckTopologicalEquivalence(ctx, domain.TopEquivalenceRequest{
		LeftPath:  left,
		RightPath: right,
		EntryName: entry,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("check topological equivalence failed: %v", err)), nil
	}

	return toolResultJSON(map[string]interface{}{
		"equal":  resp.Equal,
		"reason": resp.Reason,
	})
}

func toolResultJSON(v interface{}) (*mcp.CallToolResult, error) {
	buf, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(buf)), nil
}
