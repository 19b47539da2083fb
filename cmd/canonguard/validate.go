package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"viholabs/canonguard/pkg/cli"
)

var validateFlags struct {
	format string
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the ruleset",
	Long: `Load the ruleset and report whether it can be used.

With --strict every phase must list both forbidden_paths and allowed_paths,
and every prohibition needs patterns and a message.

Examples:
  # Validate the default ruleset
  canonguard validate

  # Strict validation of another file, as JSON
  canonguard validate --ruleset policy/canon.yaml --strict --format json`,
	Args: cobra.NoArgs,
	RunE: validateRuleset,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateFlags.format, "format", "o", "text", "output format: text, json")
}

// ValidationResult is the validate command's report.
type ValidationResult struct {
	Ruleset              string   `json:"ruleset"`
	Valid                bool     `json:"valid"`
	Strict               bool     `json:"strict"`
	Phases               []string `json:"phases,omitempty"`
	Prohibitions         []string `json:"prohibitions,omitempty"`
	TraceabilityRequired bool     `json:"traceability_required"`
	Error                string   `json:"error,omitempty"`
}

func validateRuleset(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(validateFlags.format)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	s, err := newSession(cfg)
	if err != nil {
		return err
	}

	result := ValidationResult{Ruleset: cfg.Ruleset, Strict: cfg.Strict}
	rules, loadErr := s.loadRuleset()
	if loadErr != nil {
		result.Error = loadErr.Error()
	} else {
		result.Valid = true
		result.Phases = rules.PhaseNames()
		for _, p := range rules.Prohibitions() {
			result.Prohibitions = append(result.Prohibitions, p.Key)
		}
		result.TraceabilityRequired = rules.Traceability().Required
	}

	if format == cli.FormatJSON {
		if err := cli.NewFormatter(format).FormatTo(stdout, result); err != nil {
			return err
		}
	} else {
		printValidation(result)
	}

	if loadErr != nil {
		return cli.Reported(loadErr)
	}
	return nil
}

func printValidation(r ValidationResult) {
	if !r.Valid {
		fmt.Fprintf(stdout, "❌ %s\n", r.Error)
		return
	}
	fmt.Fprintf(stdout, "✅ %s is valid\n", r.Ruleset)
	fmt.Fprintf(stdout, "   phases: %d\n", len(r.Phases))
	fmt.Fprintf(stdout, "   prohibitions: %d\n", len(r.Prohibitions))
	fmt.Fprintf(stdout, "   traceability required: %t\n", r.TraceabilityRequired)
}
