package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/ryftlang/restructure/internal/config"
	"github.com/ryftlang/restructure/mcp"
)

const (
	serverName    = "restructure"
	serverVersion = "1.0.0"
)

func main() {
	configPath := flag.String("config", "", "Configuration file path")
	flag.Parse()

	// MCP uses stdout for JSON-RPC; all logging goes to stderr.
	log.SetOutput(os.Stderr)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	server := mcpserver.NewMCPServer(
		serverName,
		serverVersion,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithLogging(),
	)

	mcp.RegisterTools(server, mcp.NewDependencies(cfg))

	log.Printf("Starting %s MCP server v%s\n", serverName, serverVersion)
	log.Println("Registered tools:")
	log.Println("  - restructure_cfg: recover structured control flow from a raw CFG")
	log.Println("  - check_topological_equivalence: compare two CFGs' restructured shape")
	log.Println("")
	log.Println("Server ready - waiting for MCP client connection...")

	if err := mcpserver.ServeStdio(server); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}
