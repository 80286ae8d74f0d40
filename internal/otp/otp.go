// Package otp implements the one-time-password collaborator. An entry is
// OTP-capable when its body carries an otpauth:// line (the pass-otp
// convention); codes are then computed locally from that URI. Entries
// without a URI can still be served by shelling out to the pass otp
// extension when the fallback is enabled.
package otp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	perrors "github.com/passpick/passpick/internal/errors"
	pkgexec "github.com/passpick/passpick/pkg/exec"
)

// FindURI scans a decrypted entry body for an otpauth:// line.
func FindURI(raw string) (string, bool) {
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "otpauth://") {
			return line, true
		}
	}
	return "", false
}

// Available reports whether an entry body carries OTP configuration.
func Available(raw string) bool {
	_, ok := FindURI(raw)
	return ok
}

// URIGenerator computes TOTP codes from an otpauth:// URI.
// Now is injectable for tests and defaults to time.Now.
type URIGenerator struct {
	URI string
	Now func() time.Time
}

// NewURIGenerator returns a generator for the entry body's otpauth:// line,
// or false when the entry has none.
func NewURIGenerator(raw string) (*URIGenerator, bool) {
	uri, ok := FindURI(raw)
	if !ok {
		return nil, false
	}
	return &URIGenerator{URI: uri}, true
}

// Generate parses the URI and computes the current code, honoring the
// period, digit count, and algorithm encoded in it.
func (g *URIGenerator) Generate(_ context.Context) (string, error) {
	key, err := otp.NewKeyFromURL(g.URI)
	if err != nil {
		return "", fmt.Errorf("failed to parse otpauth URL: %w", err)
	}

	now := time.Now
	if g.Now != nil {
		now = g.Now
	}

	opts := totp.ValidateOpts{
		Period:    uint(key.Period()),
		Digits:    key.Digits(),
		Algorithm: key.Algorithm(),
	}

	code, err := totp.GenerateCodeCustom(key.Secret(), now(), opts)
	if err != nil {
		return "", fmt.Errorf("failed to generate TOTP code: %w", err)
	}

	return code, nil
}

// CommandGenerator asks the pass otp extension for a code. Used as a
// fallback for stores that keep OTP secrets outside the entry body.
type CommandGenerator struct {
	Entry    string
	PassBin  string
	Executor pkgexec.CommandExecutor
}

// Generate runs `pass otp <entry>` and returns the trimmed code.
func (g *CommandGenerator) Generate(ctx context.Context) (string, error) {
	bin := g.PassBin
	if bin == "" {
		bin = "pass"
	}

	stdout, stderr, err := g.Executor.Execute(ctx, bin, "otp", g.Entry)
	if err != nil {
		return "", perrors.UserError{
			Message:    fmt.Sprintf("pass otp failed for '%s'", g.Entry),
			Details:    strings.TrimSpace(string(stderr)),
			Suggestion: "Install pass-otp and check the entry holds an otpauth:// URI",
			Err:        err,
		}
	}

	code := strings.TrimSpace(string(stdout))
	if code == "" {
		return "", perrors.UserError{
			Message:    fmt.Sprintf("pass otp produced no code for '%s'", g.Entry),
			Suggestion: "Check the entry's OTP configuration with 'pass otp uri " + g.Entry + "'",
		}
	}
	return code, nil
}
