package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

const testRules = `{
  "phases": {
    "UI_SHELL_ONLY": {
      "forbidden_paths": ["supabase/"],
      "allowed_paths": ["src/ui/"]
    },
    "API_ROUTES": {
      "forbidden_paths": [],
      "allowed_paths": ["src/api/"]
    }
  },
  "canonical_prohibitions": {
    "no_service_role_in_ui": {
      "forbidden_patterns": ["SERVICE_ROLE"],
      "message": "service role key in UI"
    }
  },
  "traceability": {
    "required": true,
    "header_regex": "AUDIT",
    "max_lines_to_scan": 10,
    "message": "missing AUDIT header"
  }
}`

// resetFlags restores every command flag to its zero value and captures
// stdout. It returns the captured output.
func resetFlags(t *testing.T) *bytes.Buffer {
	t.Helper()

	cfgFile = filepath.Join(t.TempDir(), "absent.yaml")
	verbose = false
	globalFlags.ruleset = ""
	globalFlags.repo = ""
	globalFlags.strict = false
	globalFlags.logLevel = ""
	globalFlags.logFormat = ""

	checkFlags.mode = ""
	checkFlags.from = ""
	checkFlags.to = ""
	checkFlags.files = nil
	checkFlags.filesFrom = ""
	checkFlags.format = ""
	checkFlags.metricsFile = ""

	phasesFlags.format = "text"
	validateFlags.format = "text"
	changesFlags.mode = ""
	changesFlags.from = ""
	changesFlags.to = ""
	changesFlags.format = "text"
	watchFlags.mode = ""
	watchFlags.debounce = ""

	buf := &bytes.Buffer{}
	origOut, origErr, origIn := stdout, stderr, stdin
	stdout = buf
	stderr = io.Discard
	t.Cleanup(func() {
		stdout, stderr, stdin = origOut, origErr, origIn
	})
	return buf
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	full := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

// setupWorkspace creates a repository with one committed UI file and a
// ruleset outside the repository, and points the global flags at them.
func setupWorkspace(t *testing.T) (repoDir string) {
	t.Helper()

	repoDir = t.TempDir()
	repo, err := gogit.PlainInit(repoDir, false)
	require.NoError(t, err)

	writeFile(t, repoDir, "src/ui/Button.tsx", "// AUDIT\nexport const Button = 1\n")
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("src/ui/Button.tsx")
	require.NoError(t, err)
	_, err = wt.Commit("initial", &gogit.CommitOptions{
		Author: &object.Signature{Name: "Test User", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	rulesDir := t.TempDir()
	writeFile(t, rulesDir, "canon_rules.json", testRules)

	globalFlags.repo = repoDir
	globalFlags.ruleset = filepath.Join(rulesDir, "canon_rules.json")
	return repoDir
}

func lines(s string) []string {
	return strings.Split(strings.TrimSpace(s), "\n")
}
