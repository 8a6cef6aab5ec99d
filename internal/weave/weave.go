package weave

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"entity-weaver/internal/logging"
)

// Request describes one weaving run.
type Request struct {
	SourceDir string
	TargetDir string
	// PersistenceInfo is the directory holding META-INF/persistence.xml.
	PersistenceInfo string
	Classpath       []string
	LogLevel        logging.Level
}

// Weaver transforms the classes under SourceDir into TargetDir.
type Weaver interface {
	Weave(ctx context.Context, req Request) error
}

// ErrNoCommand is returned by NewExecWeaver for an empty command.
var ErrNoCommand = errors.New("weaver command is empty")

// ExecWeaver runs an external weaver process.
type ExecWeaver struct {
	command []string
	logger  *log.Logger
}

// NewExecWeaver creates a weaver running command followed by the request
// arguments.
func NewExecWeaver(command []string, logger *log.Logger) (*ExecWeaver, error) {
	if len(command) == 0 || strings.TrimSpace(command[0]) == "" {
		return nil, ErrNoCommand
	}

	if logger == nil {
		logger = logging.Discard()
	}

	return &ExecWeaver{
		command: append([]string(nil), command...),
		logger:  logger.WithPrefix("weave"),
	}, nil
}

// Args returns the full argument vector for req.
func (w *ExecWeaver) Args(req Request) []string {
	args := append([]string(nil), w.command...)

	if req.PersistenceInfo != "" {
		args = append(args, "-persistenceinfo", req.PersistenceInfo)
	}

	if len(req.Classpath) > 0 {
		args = append(args, "-classpath", strings.Join(req.Classpath, string(filepath.ListSeparator)))
	}

	return append(args, "-loglevel", req.LogLevel.String(), req.SourceDir, req.TargetDir)
}

// Weave runs the weaver and waits for it. The process output is logged
// line by line at debug level and quoted in the error on failure.
func (w *ExecWeaver) Weave(ctx context.Context, req Request) error {
	args := w.Args(req)

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	w.logger.Debug("running weaver", "command", strings.Join(args, " "))

	err := cmd.Run()
	w.logOutput(output.Bytes())

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("weaver interrupted: %w", ctxErr)
		}

		if tail := lastLine(output.Bytes()); tail != "" {
			return fmt.Errorf("running %s: %w: %s", args[0], err, tail)
		}

		return fmt.Errorf("running %s: %w", args[0], err)
	}

	return nil
}

func (w *ExecWeaver) logOutput(out []byte) {
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			w.logger.Debug(line)
		}
	}
}

func lastLine(out []byte) string {
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")

	return strings.TrimSpace(lines[len(lines)-1])
}

// NopWeaver does not weave. It records whether it was asked to.
type NopWeaver struct {
	Requests []Request
}

// Weave records req.
func (n *NopWeaver) Weave(_ context.Context, req Request) error {
	n.Requests = append(n.Requests, req)

	return nil
}
