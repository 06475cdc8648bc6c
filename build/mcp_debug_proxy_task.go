package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/goyek/goyek/v2"
)

// MCPDebugProxy sits between an MCP client and `ranak mcp serve`, logging
// every JSON-RPC line in both directions.
var MCPDebugProxy = goyek.Define(goyek.Task{
	Name:  "mcp-debug-proxy",
	Usage: "MCP stdio debug proxy. Use -log=FILE [-cmd='ranak mcp serve']",
	Action: func(a *goyek.A) {
		if *logFile == "" {
			a.Fatal("Usage: go run ./build -log=<file> [-cmd='<command>'] mcp-debug-proxy")
		}
		cmdArgs := strings.Fields(*mcpCmd)
		if len(cmdArgs) == 0 {
			a.Fatal("-cmd cannot be empty")
		}

		lf, err := os.OpenFile(*logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			a.Fatalf("Failed to open log file: %v", err)
		}
		defer lf.Close()

		var logMu sync.Mutex
		logf := func(format string, args ...any) {
			logMu.Lock()
			defer logMu.Unlock()
			fmt.Fprintf(lf, "[%s] "+format, append([]any{time.Now().Format("15:04:05.000")}, args...)...)
		}
		logf("=== started: %s ===\n", strings.Join(cmdArgs, " "))

		// Cancelling the task stops the server.
		cmd := exec.CommandContext(a.Context(), cmdArgs[0], cmdArgs[1:]...)
		cmd.Stderr = os.Stderr
		stdin, err := cmd.StdinPipe()
		if err != nil {
			a.Fatalf("Failed to get stdin pipe: %v", err)
		}
		stdout, err := cmd.StdoutPipe()
		if err != nil {
			a.Fatalf("Failed to get stdout pipe: %v", err)
		}
		if err := cmd.Start(); err != nil {
			a.Fatalf("Failed to start command: %v", err)
		}

		relay := func(dir string, src io.Reader, dst io.Writer, done func()) {
			defer done()
			r := bufio.NewReader(src)
			for {
				line, err := r.ReadBytes('\n')
				if len(line) > 0 {
					logf("%s %s", dir, line)
					dst.Write(line)
				}
				if err != nil {
					if err != io.EOF {
						logf("%s read error: %v\n", dir, err)
					}
					return
				}
			}
		}

		go relay("-->", os.Stdin, stdin, func() { stdin.Close() })

		// stdout must be drained before Wait closes it.
		var wg sync.WaitGroup
		wg.Add(1)
		go relay("<--", stdout, os.Stdout, wg.Done)
		wg.Wait()

		err = cmd.Wait()
		logf("server exited: %v\n", err)
	},
})
