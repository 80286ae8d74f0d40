// Package selector wraps the interactive fuzzy finder. Labels go in on
// stdin, one per line; the chosen label comes back on stdout. Dismissing
// the finder is a clean "no selection", not an error.
package selector

import (
	"context"
	"strings"

	perrors "github.com/passpick/passpick/internal/errors"
	"github.com/passpick/passpick/internal/logging"
	pkgexec "github.com/passpick/passpick/pkg/exec"
)

// DefaultCommand is the selector used when the config names none.
var DefaultCommand = []string{"fuzzel", "--dmenu"}

// Selector runs a dmenu-style chooser.
type Selector struct {
	command  []string
	logger   *logging.Logger
	executor pkgexec.CommandExecutor
	lookPath func(string) bool
}

// New creates a Selector running the given argv. An empty argv falls back
// to fuzzel --dmenu.
func New(command []string, logger *logging.Logger, executor pkgexec.CommandExecutor) *Selector {
	if len(command) == 0 {
		command = DefaultCommand
	}
	if executor == nil {
		executor = pkgexec.DefaultExecutor()
	}
	return &Selector{
		command:  command,
		logger:   logger,
		executor: executor,
		lookPath: pkgexec.LookPath,
	}
}

// WithLookPath overrides binary detection, for tests.
func (s *Selector) WithLookPath(f func(string) bool) *Selector {
	s.lookPath = f
	return s
}

// Command returns the configured argv, for health checks.
func (s *Selector) Command() []string {
	return s.command
}

// Choose presents labels and returns the user's pick. The second return
// is false when the user dismissed the finder; that is not an error and
// the caller must exit cleanly without delivering anything.
func (s *Selector) Choose(ctx context.Context, labels []string) (string, bool, error) {
	if !s.lookPath(s.command[0]) {
		return "", false, perrors.WrapCommandNotFound(s.command[0])
	}

	input := strings.Join(labels, "\n")
	stdout, stderr, err := s.executor.ExecuteInput(ctx, input, s.command[0], s.command[1:]...)

	choice := strings.TrimRight(string(stdout), "\n")

	// dmenu-style tools exit nonzero on escape; an empty choice means the
	// same thing regardless of exit status.
	if err != nil || choice == "" {
		if choice == "" {
			s.logger.Debug("selector dismissed, nothing chosen")
			return "", false, nil
		}
		return "", false, perrors.CommandError{
			Command: strings.Join(s.command, " "),
			Message: strings.TrimSpace(string(stderr)),
		}
	}

	return choice, true, nil
}
