package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers all restructure MCP tools with the server.
func RegisterTools(s *server.MCPServer, deps *Dependencies) {
	h := NewHandlerSet(deps)

	s.AddTool(mcp.NewTool("restructure_cfg",
		mcp.WithDescription("Recover structured control flow (sequence/if/loop/switch, no gotos) from a raw CFG given as a .dot fixture"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to a .dot fixture or a directory of them")),
		mcp.WithString("entry",
			mcp.Description("Name of the root vertex in the fixture (default: entry)")),
		mcp.WithBoolean("recursive",
			mcp.Description("Recurse into directories given as path (default: true)")),
	), h.HandleRestructure)

	s.AddTool(mcp.NewTool("check_topological_equivalence",
		mcp.WithDescription("Restructure two CFGs independently and report whether they beautify to the same AST shape"),
		mcp.WithString("left_path",
			mcp.Required(),
			mcp.Description("Path to the first .dot fixture")),
		mcp.WithString("right_path",
			mcp.Required(),
			mcp.Description("Path to the second .dot fixture")),
		mcp.WithString("entry",
			mcp.Description("Name of the root vertex shared by both fixtures (default: entry)")),
	), h.HandleTopEquivalence)
}
