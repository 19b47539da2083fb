package main

import (
	"github.com/spf13/cobra"

	"viholabs/canonguard/pkg/cli"
)

var phasesFlags struct {
	format string
}

var phasesCmd = &cobra.Command{
	Use:   "phases",
	Short: "List the phases defined by the ruleset",
	Args:  cobra.NoArgs,
	RunE:  listPhases,
}

func init() {
	rootCmd.AddCommand(phasesCmd)

	phasesCmd.Flags().StringVarP(&phasesFlags.format, "format", "o", "text", "output format: text, json")
}

func listPhases(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(phasesFlags.format)
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

	rules, err := s.loadRuleset()
	if err != nil {
		return err
	}
	return cli.NewFormatter(format).FormatTo(stdout, rules.PhaseNames())
}
