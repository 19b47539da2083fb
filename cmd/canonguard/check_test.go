package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"viholabs/canonguard/pkg/cli"
	"viholabs/canonguard/pkg/guard"
	"viholabs/canonguard/pkg/ruleset"
)

func TestRunCheck_CleanRepository(t *testing.T) {
	out := resetFlags(t)
	setupWorkspace(t)

	err := runCheck(nil, nil)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Phase: UI_SHELL_ONLY")
	assert.Contains(t, out.String(), "Changed files: (none)")
	assert.Contains(t, out.String(), "CANON GUARD PASSED")
}

func TestRunCheck_PassingChange(t *testing.T) {
	out := resetFlags(t)
	repo := setupWorkspace(t)
	writeFile(t, repo, "src/ui/Button.tsx", "// AUDIT v2\nexport const Button = 2\n")

	err := runCheck(nil, []string{"UI_SHELL_ONLY"})
	require.NoError(t, err)

	got := out.String()
	assert.Contains(t, got, " - src/ui/Button.tsx")
	assert.Contains(t, got, "✅ phase lock OK")
	assert.Contains(t, got, "✅ no_service_role_in_ui: OK")
	assert.Contains(t, got, "✅ CANON GUARD PASSED")
}

func TestRunCheck_Violations(t *testing.T) {
	tests := []struct {
		name    string
		phase   string
		content string
		files   []string
		want    string
	}{
		{
			name:  "forbidden path",
			files: []string{"supabase/migrations/001.sql"},
			want:  " - supabase/migrations/001.sql (match: supabase/)",
		},
		{
			name:  "outside scope",
			files: []string{"README.md"},
			want:  "(whitelist)\n - README.md\n",
		},
		{
			name:    "prohibited content",
			content: "// AUDIT\nconst k = process.env.SERVICE_ROLE\n",
			want:    "❌ CANON GUARD FAIL: service role key in UI",
		},
		{
			name:    "missing header",
			content: "export const Button = 3\n",
			want:    "❌ CANON GUARD FAIL: missing AUDIT header",
		},
		{
			name:  "scope of another phase",
			phase: "API_ROUTES",
			files: []string{"src/ui/Button.tsx"},
			want:  " - src/ui/Button.tsx",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := resetFlags(t)
			repo := setupWorkspace(t)
			if tt.content != "" {
				writeFile(t, repo, "src/ui/Button.tsx", tt.content)
			}
			checkFlags.files = tt.files

			var args []string
			if tt.phase != "" {
				args = []string{tt.phase}
			}
			err := runCheck(nil, args)
			require.Error(t, err)

			assert.Equal(t, cli.ExitFail, cli.ExitCode(err))
			assert.True(t, cli.IsReported(err))
			assert.Contains(t, out.String(), tt.want)
			assert.NotContains(t, out.String(), "CANON GUARD PASSED")

			var violation *guard.Violation
			assert.ErrorAs(t, err, &violation)
		})
	}
}

func TestRunCheck_UnknownPhase(t *testing.T) {
	out := resetFlags(t)
	setupWorkspace(t)

	err := runCheck(nil, []string{"NOPE"})
	require.Error(t, err)

	assert.Equal(t, cli.ExitFail, cli.ExitCode(err))
	assert.ErrorIs(t, err, ruleset.ErrUnknownPhase)
	assert.Contains(t, out.String(), "❌ CANON GUARD FAIL:")
	assert.Contains(t, out.String(), "API_ROUTES, UI_SHELL_ONLY")
}

func TestRunCheck_MissingRuleset(t *testing.T) {
	out := resetFlags(t)
	setupWorkspace(t)
	globalFlags.ruleset = filepath.Join(t.TempDir(), "missing.json")

	err := runCheck(nil, nil)
	require.Error(t, err)

	var cfgErr *ruleset.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, cli.ExitFail, cli.ExitCode(err))
	assert.Contains(t, out.String(), "CANON GUARD FAIL")
}

func TestRunCheck_InvalidMode(t *testing.T) {
	resetFlags(t)
	setupWorkspace(t)
	checkFlags.mode = "cached"

	err := runCheck(nil, nil)
	require.Error(t, err)
	assert.Equal(t, cli.ExitUsage, cli.ExitCode(err))
	assert.False(t, cli.IsReported(err))
}

func TestRunCheck_FilesFromStdinJSON(t *testing.T) {
	out := resetFlags(t)
	setupWorkspace(t)
	stdin = strings.NewReader("src/ui/Button.tsx\r\n\n")
	checkFlags.filesFrom = "-"
	checkFlags.format = "json"

	require.NoError(t, runCheck(nil, nil))

	var report cli.Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.True(t, report.Passed)
	assert.Equal(t, []string{"src/ui/Button.tsx"}, report.Changed)
	assert.NotEmpty(t, report.RunID)
}

func TestRunCheck_EmptyFileListPasses(t *testing.T) {
	out := resetFlags(t)
	repo := setupWorkspace(t)
	// A worktree change that the explicit list overrides.
	writeFile(t, repo, "src/ui/Button.tsx", "no header\n")

	listPath := filepath.Join(t.TempDir(), "files.txt")
	require.NoError(t, os.WriteFile(listPath, []byte("\n"), 0o644))
	checkFlags.filesFrom = listPath

	require.NoError(t, runCheck(nil, nil))
	assert.Contains(t, out.String(), "Changed files: (none)")
}

func TestRunCheck_WritesMetrics(t *testing.T) {
	resetFlags(t)
	setupWorkspace(t)
	metricsPath := filepath.Join(t.TempDir(), "canonguard.prom")
	checkFlags.metricsFile = metricsPath
	checkFlags.files = []string{"supabase/seed.sql"}

	err := runCheck(nil, nil)
	require.Error(t, err)

	data, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `canonguard_runs_total{phase="UI_SHELL_ONLY",result="fail"} 1`)
	assert.Contains(t, string(data), `canonguard_violations_total{phase="UI_SHELL_ONLY",stage="forbidden-path"} 1`)
}

func TestRunCheck_ConfigFile(t *testing.T) {
	out := resetFlags(t)
	setupWorkspace(t)

	cfgPath := filepath.Join(t.TempDir(), ".canonguard.yaml")
	writeFile(t, filepath.Dir(cfgPath), ".canonguard.yaml", "phase: API_ROUTES\noutput:\n  format: json\n")
	cfgFile = cfgPath
	checkFlags.files = []string{"src/ui/Button.tsx"}

	err := runCheck(nil, nil)
	require.Error(t, err)

	var report cli.Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, "API_ROUTES", report.Phase)
	require.NotNil(t, report.Violation)
	assert.Equal(t, guard.StageScope, report.Violation.Stage)
}

func TestRootCommand_PositionalPhase(t *testing.T) {
	out := resetFlags(t)
	repo := setupWorkspace(t)

	rootCmd.SetArgs([]string{"API_ROUTES", "--repo", repo, "--ruleset", globalFlags.ruleset, "--files", "src/ui/Button.tsx"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Equal(t, cli.ExitFail, cli.ExitCode(err))
	assert.Contains(t, out.String(), "Phase: API_ROUTES")
}
