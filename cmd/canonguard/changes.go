package main

import (
	"github.com/spf13/cobra"

	"viholabs/canonguard/pkg/cli"
)

var changesFlags struct {
	mode   string
	from   string
	to     string
	format string
}

var changesCmd = &cobra.Command{
	Use:   "changes",
	Short: "Print the changed files the gate would check",
	Long: `Print the changed files as the gate sees them, one per line.

Useful to debug which files a mode or revision range selects.

Examples:
  canonguard changes --mode staged
  canonguard changes --from origin/main --format json`,
	Args: cobra.NoArgs,
	RunE: listChanges,
}

func init() {
	rootCmd.AddCommand(changesCmd)

	changesCmd.Flags().StringVarP(&changesFlags.mode, "mode", "m", "", "changes to list: worktree, staged, all")
	changesCmd.Flags().StringVar(&changesFlags.from, "from", "", "list the revision range FROM..TO instead of local changes")
	changesCmd.Flags().StringVar(&changesFlags.to, "to", "", "end of the revision range (default HEAD)")
	changesCmd.Flags().StringVarP(&changesFlags.format, "format", "o", "text", "output format: text, json")
}

func listChanges(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(changesFlags.format)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if changesFlags.mode != "" {
		cfg.Repository.Mode = changesFlags.mode
	}
	if changesFlags.from != "" {
		cfg.Repository.From = changesFlags.from
	}
	if changesFlags.to != "" {
		cfg.Repository.To = changesFlags.to
	}
	if err := finishConfig(cfg); err != nil {
		return err
	}

	s, err := newSession(cfg)
	if err != nil {
		return err
	}
	src, err := s.gitSource()
	if err != nil {
		return err
	}

	files, err := src.ChangedFiles(commandContext(cmd))
	if err != nil {
		return cli.NewCommandError("changes", err)
	}
	if files == nil {
		files = []string{}
	}
	return cli.NewFormatter(format).FormatTo(stdout, files)
}
