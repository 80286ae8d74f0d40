package errors

import (
	"fmt"
	"strings"
)

// UserError represents an error that should be shown to the user with helpful context
type UserError struct {
	Message    string
	Suggestion string
	Details    string
	Err        error
}

func (e UserError) Error() string {
	var parts []string

	if e.Message != "" {
		parts = append(parts, e.Message)
	} else if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}

	if e.Details != "" {
		parts = append(parts, "\n  Details: "+e.Details)
	}

	if e.Suggestion != "" {
		parts = append(parts, "\n  💡 Try: "+e.Suggestion)
	}

	return strings.Join(parts, "")
}

func (e UserError) Unwrap() error {
	return e.Err
}

// ConfigError represents a configuration error with helpful context
type ConfigError struct {
	Field      string
	Value      interface{}
	Message    string
	Suggestion string
}

func (e ConfigError) Error() string {
	msg := "Configuration error"
	if e.Field != "" {
		msg += fmt.Sprintf(" in field '%s'", e.Field)
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	msg += ": " + e.Message

	if e.Suggestion != "" {
		msg += "\n  💡 " + e.Suggestion
	}

	return msg
}

// CommandError represents a failure of one of the external programs
// passpick drives (pass, the selector, a delivery backend).
type CommandError struct {
	Command    string
	ExitCode   int
	Message    string
	Suggestion string
}

func (e CommandError) Error() string {
	msg := fmt.Sprintf("Command '%s' failed", e.Command)
	if e.ExitCode != 0 {
		msg += fmt.Sprintf(" (exit code: %d)", e.ExitCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}

	if e.Suggestion != "" {
		msg += "\n  💡 " + e.Suggestion
	}

	return msg
}

// installHints maps the external tools passpick depends on to install guidance.
var installHints = map[string]string{
	"pass":    "Install pass: https://www.passwordstore.org/ (apt install pass, brew install pass)",
	"gpg":     "Install GnuPG: https://gnupg.org/ (apt install gnupg)",
	"fuzzel":  "Install fuzzel: https://codeberg.org/dnkl/fuzzel (apt install fuzzel)",
	"rofi":    "Install rofi: https://github.com/davatorium/rofi",
	"dmenu":   "Install dmenu from your distribution (apt install suckless-tools)",
	"wtype":   "Install wtype for Wayland typing: https://github.com/atx/wtype",
	"xdotool": "Install xdotool for X11 typing (apt install xdotool)",
	"wl-copy": "Install wl-clipboard for Wayland (apt install wl-clipboard)",
	"xclip":   "Install xclip for X11 clipboards (apt install xclip)",
}

// WrapCommandNotFound wraps a missing external program in a CommandError
// with an install suggestion.
func WrapCommandNotFound(command string) error {
	suggestion := installHints[command]
	if suggestion == "" {
		suggestion = fmt.Sprintf("Make sure '%s' is installed and in your PATH", command)
	}

	return CommandError{
		Command:    command,
		Message:    "command not found",
		Suggestion: suggestion,
	}
}

// InstallHint returns the install guidance for a known external tool,
// or an empty string for unknown ones. The doctor command uses this.
func InstallHint(command string) string {
	return installHints[command]
}
