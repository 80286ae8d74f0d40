package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/passpick/passpick/internal/config"
	"github.com/passpick/passpick/internal/entry"
	perrors "github.com/passpick/passpick/internal/errors"
	"github.com/passpick/passpick/internal/selection"
)

// NewShowCommand creates the non-interactive show command for scripting.
func NewShowCommand(cfg *config.Config) *cobra.Command {
	var (
		fieldName  string
		otpMode    bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "show <entry>",
		Short: "Print one credential of an entry to stdout",
		Long: `Retrieve and print a single credential without any selector.

By default the password is printed; --field picks a named field and --otp
prints a freshly generated one-time code. Only the raw value goes to
stdout, so the command composes in scripts.

Examples:
  # Print the password
  passpick show work/mail

  # Print a field
  passpick show work/mail --field login

  # Use in scripts
  export TOKEN=$(passpick show ci/deploy --field token)`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			ctx := cmd.Context()

			payload, item, warnings, err := resolveDirect(ctx, cfg, name, fieldName, otpMode)
			if err != nil {
				return err
			}
			for _, w := range warnings {
				cfg.Logger.Warn("%s: %s", name, w)
			}

			if jsonOutput {
				output := map[string]interface{}{
					"entry": name,
					"label": item.Label,
					"value": payload.Text,
				}
				if payload.Kind == selection.KindMultilineField {
					output["multiline"] = true
				}
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")
				if err := encoder.Encode(output); err != nil {
					return fmt.Errorf("failed to encode JSON: %w", err)
				}
				return nil
			}

			fmt.Print(payload.Text)
			return nil
		},
	}

	cmd.Flags().StringVarP(&fieldName, "field", "f", "", "Field to print instead of the password")
	cmd.Flags().BoolVarP(&otpMode, "otp", "o", false, "Print a generated one-time code")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format with metadata")

	return cmd
}

// resolveDirect runs the decrypt-parse-resolve pipeline without a selector.
func resolveDirect(ctx context.Context, cfg *config.Config, name, fieldName string, otpMode bool) (selection.Payload, selection.Item, []entry.Warning, error) {
	raw, err := newStore(cfg).Show(ctx, name)
	if err != nil {
		return selection.Payload{}, selection.Item{}, nil, err
	}

	e, warnings := entry.Parse(raw)
	gen := otpGenerator(cfg, raw, name)
	items := selection.BuildItems(e, gen != nil)

	var item selection.Item
	switch {
	case otpMode:
		if gen == nil {
			return selection.Payload{}, selection.Item{}, warnings, perrors.UserError{
				Message:    fmt.Sprintf("Entry '%s' has no OTP configuration", name),
				Suggestion: "Add an otpauth:// line to the entry, or set otp_fallback in the config to use pass-otp",
			}
		}
		item = selection.Item{Label: selection.OTPLabel, Source: selection.SourceOTP}
	case fieldName != "":
		found, ok := selection.FindItem(items, fieldName)
		if !ok {
			return selection.Payload{}, selection.Item{}, warnings, perrors.UserError{
				Message:    fmt.Sprintf("Entry '%s' has no field '%s'", name, fieldName),
				Suggestion: fmt.Sprintf("Available: %v", selection.Labels(items)),
			}
		}
		item = found
	default:
		item = selection.Item{Label: selection.PasswordLabel, Source: selection.SourcePassword}
	}

	payload, err := selection.Resolve(ctx, e, item, gen)
	if err != nil {
		return selection.Payload{}, selection.Item{}, warnings, err
	}
	return payload, item, warnings, nil
}
