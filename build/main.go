package main

import (
	"flag"

	"github.com/goyek/goyek/v2"
)

// Flags for debug-proxy task
var (
	targetURL = flag.String("target", "", "Provider URL to proxy (for debug-proxy)")
	port      = flag.String("port", "8080", "Port to listen on (for debug-proxy)")
)

// Flags for mcp-debug-proxy task
var (
	logFile = flag.String("log", "", "Log file path (for mcp-debug-proxy)")
	mcpCmd  = flag.String("cmd", "go run . mcp serve", "MCP server command (for mcp-debug-proxy)")
)

// Flags for lint and test tasks
var (
	lintFix   = flag.Bool("lint-fix", false, "Auto-fix linting issues")
	testRun   = flag.String("run", "", "Only run tests matching this pattern (for test)")
	testShort = flag.Bool("short", false, "Skip tests that call live providers (for test)")
)

func main() {
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		args = []string{"list"}
	}
	goyek.Main(args)
}
