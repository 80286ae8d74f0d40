// Package commands wires the passpick CLI together: the interactive pick
// flow on the root command plus the non-interactive subcommands.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/passpick/passpick/internal/config"
	"github.com/passpick/passpick/internal/deliver"
	"github.com/passpick/passpick/internal/entry"
	perrors "github.com/passpick/passpick/internal/errors"
	"github.com/passpick/passpick/internal/otp"
	"github.com/passpick/passpick/internal/selection"
	"github.com/passpick/passpick/internal/selector"
	"github.com/passpick/passpick/internal/store"
)

// RootRunE returns the root command's run function: the full pick flow.
// Flags arrive via pointers so main can register them on the root command.
func RootRunE(cfg *config.Config, typeMode, otpMode *bool, fieldName *string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		name := ""
		if len(args) > 0 {
			name = args[0]
		}

		st := newStore(cfg)
		sel := newSelector(cfg)

		// Without an entry argument the store listing itself goes through
		// the selector first.
		if name == "" {
			entries, err := st.List(ctx)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				return perrors.UserError{
					Message:    "The password store is empty",
					Suggestion: "Add an entry with 'pass insert <name>'",
				}
			}
			chosen, ok, err := sel.Choose(ctx, entries)
			if err != nil {
				return err
			}
			if !ok {
				cfg.Logger.Debug("entry selection cancelled")
				return nil
			}
			name = chosen
		}

		raw, err := st.Show(ctx, name)
		if err != nil {
			return err
		}

		e, warnings := entry.Parse(raw)
		for _, w := range warnings {
			cfg.Logger.Warn("%s: %s", name, w)
		}

		gen := otpGenerator(cfg, raw, name)
		items := selection.BuildItems(e, gen != nil)

		var item selection.Item
		switch {
		case *otpMode:
			if gen == nil {
				return perrors.UserError{
					Message:    fmt.Sprintf("Entry '%s' has no OTP configuration", name),
					Suggestion: "Add an otpauth:// line to the entry, or set otp_fallback in the config to use pass-otp",
				}
			}
			item = selection.Item{Label: selection.OTPLabel, Source: selection.SourceOTP}

		case *fieldName != "":
			found, ok := selection.FindItem(items, *fieldName)
			if !ok {
				return perrors.UserError{
					Message:    fmt.Sprintf("Entry '%s' has no field '%s'", name, *fieldName),
					Suggestion: fmt.Sprintf("Available: %v", selection.Labels(items)),
				}
			}
			item = found

		default:
			label, ok, err := sel.Choose(ctx, selection.Labels(items))
			if err != nil {
				return err
			}
			if !ok {
				cfg.Logger.Debug("field selection cancelled")
				return nil
			}
			found, ok := selection.FindItem(items, label)
			if !ok {
				// The selector echoed something we never offered.
				return perrors.UserError{
					Message:    fmt.Sprintf("Selector returned unknown label '%s'", label),
					Suggestion: "Run the selector in pure dmenu mode so it only returns offered lines",
				}
			}
			item = found
		}

		payload, err := selection.Resolve(ctx, e, item, gen)
		if err != nil {
			return err
		}

		mode := deliver.ModeCopy
		if *typeMode {
			mode = deliver.ModeType
		}

		if err := newDispatcher(cfg).Deliver(ctx, payload, mode); err != nil {
			return err
		}

		verb := "Copied"
		if mode == deliver.ModeType {
			verb = "Typed"
		}
		cfg.Logger.Info("%s %s of '%s'", verb, item.Label, name)
		return nil
	}
}

func newStore(cfg *config.Config) *store.Store {
	return store.New(cfg.Logger,
		store.WithExecutor(cfg.CommandExecutor()),
		store.WithPassBin(cfg.Settings.PassBin),
		store.WithStoreDir(cfg.Settings.StoreDir))
}

func newSelector(cfg *config.Config) *selector.Selector {
	return selector.New(cfg.Settings.Selector, cfg.Logger, cfg.CommandExecutor())
}

func newDispatcher(cfg *config.Config) *deliver.Dispatcher {
	opts := []deliver.Option{deliver.WithExecutor(cfg.CommandExecutor())}
	if len(cfg.Settings.TypeTool) > 0 {
		opts = append(opts, deliver.WithTypeTool(cfg.Settings.TypeTool))
	}
	return deliver.New(cfg.Logger, opts...)
}

// otpGenerator picks the OTP collaborator for an entry: local TOTP when the
// body carries an otpauth:// URI, the pass-otp extension when the fallback
// is enabled, nil when the entry is not OTP-capable.
func otpGenerator(cfg *config.Config, raw, name string) selection.OTPGenerator {
	if gen, ok := otp.NewURIGenerator(raw); ok {
		return gen
	}
	if cfg.Settings.OTPFallback {
		return &otp.CommandGenerator{
			Entry:    name,
			PassBin:  cfg.Settings.PassBin,
			Executor: cfg.CommandExecutor(),
		}
	}
	return nil
}
