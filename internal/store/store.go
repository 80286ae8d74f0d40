// Package store wraps the pass(1) command line: listing the entry names a
// store knows and decrypting one entry's body. pass does all cryptography;
// this package only runs it and decodes its output.
package store

import (
	"context"
	"fmt"
	"strings"

	perrors "github.com/passpick/passpick/internal/errors"
	"github.com/passpick/passpick/internal/logging"
	pkgexec "github.com/passpick/passpick/pkg/exec"
)

// Store runs pass through an injectable executor so tests never need a
// real password store.
type Store struct {
	passBin  string
	storeDir string
	logger   *logging.Logger
	executor pkgexec.CommandExecutor
}

// Option configures a Store.
type Option func(*Store)

// WithExecutor swaps the command executor, primarily for tests.
func WithExecutor(e pkgexec.CommandExecutor) Option {
	return func(s *Store) { s.executor = e }
}

// WithStoreDir points pass at a non-default password store.
func WithStoreDir(dir string) Option {
	return func(s *Store) { s.storeDir = dir }
}

// WithPassBin overrides the pass binary name. Empty keeps the default.
func WithPassBin(bin string) Option {
	return func(s *Store) {
		if bin != "" {
			s.passBin = bin
		}
	}
}

// New creates a Store.
func New(logger *logging.Logger, opts ...Option) *Store {
	s := &Store{
		passBin:  "pass",
		logger:   logger,
		executor: pkgexec.DefaultExecutor(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns every entry name in the store, parsed from the tree that
// `pass list` prints.
func (s *Store) List(ctx context.Context) ([]string, error) {
	stdout, stderr, err := s.executePass(ctx, "list")
	if err != nil {
		return nil, perrors.UserError{
			Message:    "Failed to list the password store",
			Details:    strings.TrimSpace(string(stderr)),
			Suggestion: "Initialize pass with 'pass init <gpg-key-id>' or check your GPG setup",
			Err:        err,
		}
	}

	entries := ParseListing(string(stdout))
	s.logger.Debug("pass list yielded %d entries", len(entries))
	return entries, nil
}

// Show decrypts one entry and returns its body verbatim. The caller owns
// trimming; the first line must survive byte for byte.
func (s *Store) Show(ctx context.Context, name string) (string, error) {
	s.logger.Debug("decrypting entry %s", logging.Secret(name))

	stdout, stderr, err := s.executePass(ctx, "show", name)
	if err != nil {
		stderrStr := string(stderr)
		if strings.Contains(err.Error(), "not in the password store") ||
			strings.Contains(stderrStr, "not in the password store") ||
			strings.Contains(string(stdout), "not in the password store") {
			return "", perrors.UserError{
				Message:    fmt.Sprintf("Entry '%s' not found in pass", name),
				Suggestion: "Check the entry name with 'pass ls' or 'pass find <keyword>'",
				Err:        err,
			}
		}

		return "", perrors.UserError{
			Message:    fmt.Sprintf("Failed to decrypt entry '%s'", name),
			Details:    strings.TrimSpace(stderrStr),
			Suggestion: "Check your GPG key setup and that the password store is accessible",
			Err:        err,
		}
	}

	return string(stdout), nil
}

// executePass runs a pass subcommand, pointing it at a custom store
// directory when one is configured.
func (s *Store) executePass(ctx context.Context, args ...string) (stdout []byte, stderr []byte, err error) {
	if s.storeDir != "" {
		passCmd := s.passBin
		for _, arg := range args {
			passCmd += fmt.Sprintf(" %q", arg)
		}
		env := fmt.Sprintf("PASSWORD_STORE_DIR=%s ", s.storeDir)
		return s.executor.Execute(ctx, "sh", "-c", env+passCmd)
	}

	return s.executor.Execute(ctx, s.passBin, args...)
}

const (
	dirColorOn  = "\x1b[01;34m"
	colorOff    = "\x1b[0m"
	treeRunes   = " ├└─│"
	branchRunes = "└├─│"
)

// ParseListing decodes the colored tree that `pass list` prints into flat
// entry names. Directories are blue tree nodes; an entry's full name is the
// directory path down to it joined with slashes.
func ParseListing(listing string) []string {
	type node struct {
		value string
		isDir bool
	}

	var entries []string
	var stack []node

	lines := strings.Split(listing, "\n")
	if len(lines) > 0 {
		lines = lines[1:] // "Password Store" header
	}

	for _, line := range lines {
		value := stripLine(line)
		if value == "" {
			continue
		}
		depth := lineIndent(line)

		if depth < len(stack) {
			stack = stack[:depth]
		}
		stack = append(stack, node{value: value, isDir: isDirectoryLine(line)})

		if top := stack[len(stack)-1]; !top.isDir {
			parts := make([]string, len(stack))
			for i, n := range stack {
				parts[i] = n.value
			}
			entries = append(entries, strings.Join(parts, "/"))
		}
	}

	return entries
}

// lineIndent counts the tree depth of a listing line. Every level of
// nesting contributes four leading cells of spaces or vertical rules.
func lineIndent(line string) int {
	stripped := stripANSILine(line)
	count := 0
	for _, r := range stripped {
		if !strings.ContainsRune(treeRunes, r) {
			break
		}
		if r == ' ' || r == '│' {
			count++
		}
	}
	return count / 4
}

// isDirectoryLine reports whether a listing line is a directory node,
// recognizable by its blue color code.
func isDirectoryLine(line string) bool {
	return strings.Contains(line, dirColorOn) && strings.Contains(line, colorOff)
}

// stripANSILine removes the color codes and non-breaking spaces pass emits.
func stripANSILine(line string) string {
	line = strings.ReplaceAll(line, dirColorOn, "")
	line = strings.ReplaceAll(line, colorOff, "")
	return strings.ReplaceAll(line, " ", " ")
}

// stripLine reduces a listing line to the bare entry or directory name.
func stripLine(line string) string {
	noANSI := stripANSILine(line)
	return strings.TrimLeftFunc(noANSI, func(r rune) bool {
		return r == ' ' || r == '\t' || strings.ContainsRune(branchRunes, r)
	})
}
