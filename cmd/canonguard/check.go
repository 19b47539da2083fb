package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"viholabs/canonguard/pkg/changes"
	"viholabs/canonguard/pkg/config"
)

var checkFlags struct {
	mode        string
	from        string
	to          string
	files       []string
	filesFrom   string
	format      string
	metricsFile string
}

var checkCmd = &cobra.Command{
	Use:   "check [PHASE]",
	Short: "Check changed files against a phase",
	Long: `Check the changed files against the rules of PHASE.

PHASE defaults to the configured phase (UI_SHELL_ONLY). Changed files come
from git unless --files or --files-from supplies an explicit list.

Examples:
  # Unstaged changes against the default phase
  canonguard check

  # Pre-commit hook
  canonguard check UI_SHELL_ONLY --mode staged

  # Everything a branch changed since main, as JSON for CI
  canonguard check API_ROUTES --from origin/main --format json

  # An explicit list, e.g. from another tool
  git diff --name-only main | canonguard check --files-from -`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	addCheckFlags(checkCmd.Flags())
}

// addCheckFlags registers the check flags on fs. The root command shares
// them so that "canonguard PHASE" works like "canonguard check PHASE".
func addCheckFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&checkFlags.mode, "mode", "m", "", "changes to check: worktree, staged, all")
	fs.StringVar(&checkFlags.from, "from", "", "check the revision range FROM..TO instead of local changes")
	fs.StringVar(&checkFlags.to, "to", "", "end of the revision range (default HEAD)")
	fs.StringSliceVar(&checkFlags.files, "files", nil, "explicit changed files (comma separated)")
	fs.StringVar(&checkFlags.filesFrom, "files-from", "", "read changed files from a file, one per line (- for stdin)")
	fs.StringVarP(&checkFlags.format, "format", "o", "", "output format: text, json")
	fs.StringVar(&checkFlags.metricsFile, "metrics-file", "", "write Prometheus metrics to this file")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyCheckFlags(cfg)
	if err := finishConfig(cfg); err != nil {
		return err
	}

	files, err := explicitFiles()
	if err != nil {
		return err
	}

	s, err := newSession(cfg)
	if err != nil {
		return err
	}
	return s.check(commandContext(cmd), phaseArg(cfg, args), files)
}

func applyCheckFlags(cfg *config.Config) {
	if checkFlags.mode != "" {
		cfg.Repository.Mode = checkFlags.mode
	}
	if checkFlags.from != "" {
		cfg.Repository.From = checkFlags.from
	}
	if checkFlags.to != "" {
		cfg.Repository.To = checkFlags.to
	}
	if checkFlags.format != "" {
		cfg.Output.Format = checkFlags.format
	}
	if checkFlags.metricsFile != "" {
		cfg.Metrics.TextfilePath = checkFlags.metricsFile
	}
}

// explicitFiles returns the list given by --files and --files-from, or nil
// when neither was used.
func explicitFiles() ([]string, error) {
	if len(checkFlags.files) == 0 && checkFlags.filesFrom == "" {
		return nil, nil
	}

	files := changes.Compact(checkFlags.files)
	if checkFlags.filesFrom != "" {
		var (
			data []byte
			err  error
		)
		if checkFlags.filesFrom == "-" {
			data, err = io.ReadAll(stdin)
		} else {
			data, err = os.ReadFile(checkFlags.filesFrom)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read file list: %w", err)
		}
		files = append(files, changes.ParseList(string(data))...)
	}
	return files, nil
}

func phaseArg(cfg *config.Config, args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.Phase
}
