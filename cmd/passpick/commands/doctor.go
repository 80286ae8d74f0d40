package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/passpick/passpick/internal/config"
	perrors "github.com/passpick/passpick/internal/errors"
	pkgexec "github.com/passpick/passpick/pkg/exec"
)

// BackendHealth is one row of the doctor report.
type BackendHealth struct {
	Name       string
	Role       string
	Status     string
	Suggestion string
}

// NewDoctorCommand creates the doctor command: a health table of every
// external program passpick can need.
func NewDoctorCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that the external tools passpick needs are installed",
		Long: `Verify the external programs behind each collaborator.

This command checks:
- pass (the store) and gpg (decryption)
- the configured selector
- a clipboard tool (wl-copy, xclip, or xsel)
- a typing tool (wtype or xdotool)

Copying needs a clipboard tool; --type needs a typing tool. Missing
optional tools are warnings, a missing pass binary is an error.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			results := checkBackends(cfg)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "BACKEND\tROLE\tSTATUS\tHINT")
			for _, r := range results {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Name, r.Role, r.Status, r.Suggestion)
			}
			w.Flush()

			for _, r := range results {
				if r.Role == "store" && r.Status == "missing" {
					return perrors.UserError{
						Message:    "The password store backend is not usable",
						Suggestion: perrors.InstallHint(r.Name),
					}
				}
			}
			return nil
		},
	}
}

func checkBackends(cfg *config.Config) []BackendHealth {
	selectorBin := "fuzzel"
	if len(cfg.Settings.Selector) > 0 {
		selectorBin = cfg.Settings.Selector[0]
	}

	checks := []struct {
		name string
		role string
	}{
		{cfg.Settings.PassBin, "store"},
		{"gpg", "crypto"},
		{selectorBin, "selector"},
	}

	var results []BackendHealth
	for _, c := range checks {
		results = append(results, probe(c.name, c.role))
	}

	results = append(results, probeAny([]string{"wl-copy", "xclip", "xsel"}, "clipboard"))

	if len(cfg.Settings.TypeTool) > 0 {
		results = append(results, probe(cfg.Settings.TypeTool[0], "typing"))
	} else {
		results = append(results, probeAny([]string{"wtype", "xdotool"}, "typing"))
	}

	return results
}

func probe(name, role string) BackendHealth {
	h := BackendHealth{Name: name, Role: role, Status: "ok"}
	if !pkgexec.LookPath(name) {
		h.Status = "missing"
		h.Suggestion = perrors.InstallHint(name)
	}
	return h
}

// probeAny reports the first installed candidate, or a missing row naming
// them all.
func probeAny(candidates []string, role string) BackendHealth {
	for _, name := range candidates {
		if pkgexec.LookPath(name) {
			return BackendHealth{Name: name, Role: role, Status: "ok"}
		}
	}
	return BackendHealth{
		Name:       candidates[0],
		Role:       role,
		Status:     "missing",
		Suggestion: perrors.InstallHint(candidates[0]),
	}
}
