package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"viholabs/canonguard/pkg/changes"
	"viholabs/canonguard/pkg/cli"
	"viholabs/canonguard/pkg/config"
)

var watchFlags struct {
	mode     string
	debounce string
}

var watchCmd = &cobra.Command{
	Use:   "watch [PHASE]",
	Short: "Re-run the check whenever files change",
	Long: `Run the check once, then again after every burst of file changes
under the repository root or in the ruleset. A failing run does not stop
watching; press Ctrl-C to exit.

Examples:
  canonguard watch
  canonguard watch API_ROUTES --mode all --debounce 1s`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&watchFlags.mode, "mode", "m", "", "changes to check: worktree, staged, all")
	watchCmd.Flags().StringVar(&watchFlags.debounce, "debounce", "", "quiet period before re-running (e.g. 500ms)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if watchFlags.mode != "" {
		cfg.Repository.Mode = watchFlags.mode
	}
	if watchFlags.debounce != "" {
		d, err := time.ParseDuration(watchFlags.debounce)
		if err != nil {
			return fmt.Errorf("invalid --debounce: %w", err)
		}
		cfg.Watch.Debounce = d
	}
	if err := finishConfig(cfg); err != nil {
		return err
	}

	s, err := newSession(cfg)
	if err != nil {
		return err
	}
	ctx := commandContext(cmd)
	phase := phaseArg(cfg, args)

	runOnce := func() error {
		err := s.check(ctx, phase, nil)
		if cli.IsReported(err) {
			return nil
		}
		return err
	}

	w, err := changes.NewWatcher(watcherConfig(cfg), s.logger)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	if err := runOnce(); err != nil {
		s.logger.Error("initial run failed", "error", err)
	}
	return w.Watch(ctx, runOnce)
}

// watcherConfig keeps the metrics textfile, rewritten after every run, from
// triggering the next one.
func watcherConfig(cfg *config.Config) changes.WatcherConfig {
	return changes.WatcherConfig{
		Root:        cfg.Repository.Root,
		Extra:       []string{cfg.Ruleset},
		Debounce:    cfg.Watch.Debounce,
		IgnoreFiles: []string{cfg.Metrics.TextfilePath},
	}
}
