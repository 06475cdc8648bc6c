package main

import (
	"errors"
	"os"
	"os/exec"

	"github.com/goyek/goyek/v2"
)

// goCmd runs the go tool with the task's output wired to the terminal. A
// non-zero exit is reported as a task error, anything else is fatal.
func goCmd(a *goyek.A, what string, args ...string) {
	cmd := exec.CommandContext(a.Context(), "go", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			a.Errorf("%s failed (exit code %d)", what, exitErr.ExitCode())
			return
		}
		a.Fatalf("Failed to run %s: %v", what, err)
	}
}

// Lint runs golangci-lint on the codebase
var Lint = goyek.Define(goyek.Task{
	Name:  "lint",
	Usage: "Run golangci-lint. Use -lint-fix to auto-fix",
	Action: func(a *goyek.A) {
		args := []string{"tool", "golangci-lint", "run"}
		if *lintFix {
			args = append(args, "--fix")
		}
		goCmd(a, "golangci-lint", append(args, "./...")...)
	},
})

// Test runs the unit tests with the race detector
var Test = goyek.Define(goyek.Task{
	Name:  "test",
	Usage: "Run tests with -race. Use -run=PATTERN, -short to skip live provider tests",
	Action: func(a *goyek.A) {
		args := []string{"test", "-race", "-count=1"}
		if *testRun != "" {
			args = append(args, "-run", *testRun)
		}
		if *testShort {
			args = append(args, "-short")
		}
		goCmd(a, "go test", append(args, "./...")...)
	},
})

// GenSchema regenerates schema/ranak-config-schema.json from the config types
var GenSchema = goyek.Define(goyek.Task{
	Name:  "gen-schema",
	Usage: "Generate JSON schema for ranak configuration files",
	Action: func(a *goyek.A) {
		goCmd(a, "gen-schema", "run", "./cmd/gen-schema")
	},
})
