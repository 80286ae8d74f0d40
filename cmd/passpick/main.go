package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/passpick/passpick/cmd/passpick/commands"
	"github.com/passpick/passpick/internal/config"
	"github.com/passpick/passpick/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Global flags
	var (
		configFile string
		noColor    bool
		debug      bool
	)

	// Root command flags
	var (
		typeMode  bool
		otpMode   bool
		fieldName string
	)

	// Create config placeholder
	cfg := &config.Config{}

	rootCmd := &cobra.Command{
		Use:   "passpick [entry]",
		Short: "Pick a credential from pass with a fuzzy selector",
		Long: `passpick copies a password, a named field, or a one-time code out of
your pass(1) store. Without arguments it offers the whole store through
fuzzel --dmenu, then offers the entry's fields, then copies the pick to
the clipboard (or types it with --type).`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Args:    cobra.MaximumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Initialize logger with parsed flags
			logger := logging.New(debug, noColor)

			cfg.Path = configFile
			cfg.ExplicitPath = configFile != ""
			cfg.Logger = logger
			return cfg.Load()
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file path (default $XDG_CONFIG_HOME/passpick/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.Flags().BoolVarP(&typeMode, "type", "t", false, "Type the selection instead of copying to the clipboard")
	rootCmd.Flags().BoolVarP(&otpMode, "otp", "o", false, "Deliver a one-time code for the entry")
	rootCmd.Flags().StringVarP(&fieldName, "field", "f", "", "Deliver the named field without asking")

	rootCmd.RunE = commands.RootRunE(cfg, &typeMode, &otpMode, &fieldName)

	// Add commands
	rootCmd.AddCommand(
		commands.NewShowCommand(cfg),
		commands.NewListCommand(cfg),
		commands.NewDoctorCommand(cfg),
		commands.NewCompletionCommand(cfg),
	)

	return rootCmd.Execute()
}
