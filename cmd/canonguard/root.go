package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"viholabs/canonguard/pkg/cli"
	"viholabs/canonguard/pkg/config"
)

var (
	// Global flags
	cfgFile string
	verbose bool

	globalFlags struct {
		ruleset   string
		repo      string
		strict    bool
		logLevel  string
		logFormat string
	}
)

// Output streams, replaced in tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
	stdin  io.Reader = os.Stdin
)

var rootCmd = &cobra.Command{
	Use:   "canonguard [PHASE]",
	Short: "canonguard - phase-scoped policy gate for source changes",
	Long: `canonguard blocks source changes that break the canon of the current
development phase.

It inspects the files changed in git and checks them, in order, against:
  - the forbidden paths of the phase
  - the scope whitelist of the phase
  - the canonical content prohibitions
  - the traceability header rule

The first violation stops the run with exit code 2. Without a subcommand,
canonguard behaves like "canonguard check".`,
	Version:       Version,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with the gate's exit code.
func Execute() {
	ctx, stop := cli.SetupSignalHandler(context.Background())
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil && !cli.IsReported(err) {
		fmt.Fprintln(stderr, "Error:", err)
	}
	os.Exit(cli.ExitCode(err))
}

func init() {
	// Assigned here: runCheck reads rootCmd's flags.
	rootCmd.RunE = runCheck

	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", config.DefaultConfigFile, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
	rootCmd.PersistentFlags().StringVarP(&globalFlags.ruleset, "ruleset", "r", "", "ruleset file (default "+config.DefaultRuleset+")")
	rootCmd.PersistentFlags().StringVar(&globalFlags.repo, "repo", "", "directory inside the git repository (default .)")
	rootCmd.PersistentFlags().BoolVar(&globalFlags.strict, "strict", false, "reject incomplete ruleset entries")
	rootCmd.PersistentFlags().StringVar(&globalFlags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&globalFlags.logFormat, "log-format", "", "log format: text, json, console")

	addCheckFlags(rootCmd.Flags())
}

// loadConfig reads the configuration file and applies global flags. A
// missing file is only an error when --config was given explicitly.
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if rootCmd.PersistentFlags().Changed("config") {
		cfg, err = config.LoadConfig(cfgFile)
	} else {
		cfg, err = config.LoadOptionalConfig(cfgFile)
	}
	if err != nil {
		return nil, err
	}

	if globalFlags.ruleset != "" {
		cfg.Ruleset = globalFlags.ruleset
	}
	if globalFlags.repo != "" {
		cfg.Repository.Root = globalFlags.repo
	}
	if globalFlags.strict {
		cfg.Strict = true
	}
	if globalFlags.logLevel != "" {
		cfg.Logging.Level = globalFlags.logLevel
	}
	if globalFlags.logFormat != "" {
		cfg.Logging.Format = globalFlags.logFormat
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	return cfg, nil
}

// finishConfig re-applies defaults and validates after command flags have
// been merged in.
func finishConfig(cfg *config.Config) error {
	config.ApplyDefaults(cfg)
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}
