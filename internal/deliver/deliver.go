// Package deliver hands a resolved payload to the outside world: the
// system clipboard or simulated keystrokes. Payload text is passed
// verbatim in both modes; multiline values keep their newlines.
package deliver

import (
	"context"
	"errors"
	"strings"

	"github.com/atotto/clipboard"

	perrors "github.com/passpick/passpick/internal/errors"
	"github.com/passpick/passpick/internal/logging"
	"github.com/passpick/passpick/internal/selection"
	pkgexec "github.com/passpick/passpick/pkg/exec"
)

// Mode selects the delivery mechanism.
type Mode int

const (
	ModeCopy Mode = iota
	ModeType
)

func (m Mode) String() string {
	if m == ModeType {
		return "type"
	}
	return "copy"
}

// ErrBackendUnavailable means the external program a mode needs is not
// installed. It is never silently downgraded to another mode.
var ErrBackendUnavailable = errors.New("delivery backend unavailable")

// typeTools are the keystroke injectors probed in order when the config
// names none: wtype for Wayland, xdotool for X11. Both read the payload
// from stdin so embedded newlines become literal newline keystrokes.
var typeTools = [][]string{
	{"wtype", "-"},
	{"xdotool", "type", "--clearmodifiers", "--file", "-"},
}

// Dispatcher delivers payloads.
type Dispatcher struct {
	logger   *logging.Logger
	executor pkgexec.CommandExecutor
	typeTool []string
	lookPath func(string) bool
	copyText func(string) error
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithExecutor swaps the command executor, primarily for tests.
func WithExecutor(e pkgexec.CommandExecutor) Option {
	return func(d *Dispatcher) { d.executor = e }
}

// WithTypeTool pins the keystroke tool argv instead of probing.
func WithTypeTool(argv []string) Option {
	return func(d *Dispatcher) { d.typeTool = argv }
}

// WithLookPath overrides binary detection, for tests.
func WithLookPath(f func(string) bool) Option {
	return func(d *Dispatcher) { d.lookPath = f }
}

// WithCopyFunc overrides the clipboard write, for tests.
func WithCopyFunc(f func(string) error) Option {
	return func(d *Dispatcher) { d.copyText = f }
}

// New creates a Dispatcher.
func New(logger *logging.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		logger:   logger,
		executor: pkgexec.DefaultExecutor(),
		lookPath: pkgexec.LookPath,
		copyText: clipboard.WriteAll,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Deliver sends the payload text, verbatim, through the requested mode.
func (d *Dispatcher) Deliver(ctx context.Context, payload selection.Payload, mode Mode) error {
	switch mode {
	case ModeType:
		return d.typeText(ctx, payload.Text)
	default:
		return d.copy(payload.Text)
	}
}

func (d *Dispatcher) copy(text string) error {
	if err := d.copyText(text); err != nil {
		return perrors.UserError{
			Message:    "Failed to copy to the clipboard",
			Details:    err.Error(),
			Suggestion: "Install wl-clipboard (Wayland) or xclip (X11)",
			Err:        ErrBackendUnavailable,
		}
	}
	d.logger.Debug("copied %d bytes to the clipboard", len(text))
	return nil
}

func (d *Dispatcher) typeText(ctx context.Context, text string) error {
	argv := d.typeTool
	if len(argv) == 0 {
		for _, tool := range typeTools {
			if d.lookPath(tool[0]) {
				argv = tool
				break
			}
		}
	}
	if len(argv) == 0 {
		return perrors.UserError{
			Message:    "No typing backend found",
			Suggestion: perrors.InstallHint("wtype") + "; or " + perrors.InstallHint("xdotool"),
			Err:        ErrBackendUnavailable,
		}
	}
	if !d.lookPath(argv[0]) {
		return perrors.UserError{
			Message:    "Typing backend '" + argv[0] + "' is not installed",
			Suggestion: perrors.InstallHint(argv[0]),
			Err:        ErrBackendUnavailable,
		}
	}

	_, stderr, err := d.executor.ExecuteInput(ctx, text, argv[0], argv[1:]...)
	if err != nil {
		return perrors.CommandError{
			Command: strings.Join(argv, " "),
			Message: strings.TrimSpace(string(stderr)),
		}
	}
	d.logger.Debug("typed %d bytes via %s", len(text), argv[0])
	return nil
}
