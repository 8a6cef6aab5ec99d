// Package main provides the CLI entrypoint for entity-weaver.
//
// entity-weaver prepares compiled JVM classes for static weaving:
//   - Scans the classpath for entities, mapped superclasses, embeddables and converters
//   - Adds every discovered class to META-INF/persistence.xml, creating it when missing
//   - Warns about discovered classes an existing descriptor does not declare
//   - Hands the descriptor to the external weaver
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"entity-weaver/internal/fault"
)

// version can be set during build with -ldflags.
var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, ""))
}

// run executes the command line and returns the process exit code.
func run(args []string, stdout, stderr io.Writer, workDir string) int {
	root := newRootCmd(&app{stdout: stdout, stderr: stderr, workDir: workDir})
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "entity-weaver: %v\n", err)

		return fault.ExitCode(err)
	}

	return fault.ExitSuccess
}
