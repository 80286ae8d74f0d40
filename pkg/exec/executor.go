// Package exec provides abstractions for command execution.
// This package enables testable code by allowing the external programs
// passpick drives (pass, the selector, the typing tool) to be mocked.
package exec

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
)

// CommandExecutor defines an interface for executing shell commands.
// This abstraction allows for mocking external tool behavior in tests.
type CommandExecutor interface {
	// Execute runs a command with the given context and arguments.
	// Returns stdout, stderr, and any error that occurred.
	Execute(ctx context.Context, name string, args ...string) (stdout []byte, stderr []byte, err error)

	// ExecuteInput runs a command with input piped to its stdin.
	// The selector and the typing tool both consume their payload this way.
	ExecuteInput(ctx context.Context, input string, name string, args ...string) (stdout []byte, stderr []byte, err error)
}

// RealCommandExecutor executes actual shell commands using os/exec.
// This is the production implementation.
type RealCommandExecutor struct{}

// Execute runs an actual shell command.
func (r *RealCommandExecutor) Execute(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// ExecuteInput runs an actual shell command with input on stdin.
func (r *RealCommandExecutor) ExecuteInput(ctx context.Context, input string, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = strings.NewReader(input)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// DefaultExecutor returns the standard production executor.
// This is used as the default when no executor is injected.
func DefaultExecutor() CommandExecutor {
	return &RealCommandExecutor{}
}

// LookPath reports whether a program is present on PATH.
// Availability checks for delivery backends and doctor share this.
func LookPath(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
