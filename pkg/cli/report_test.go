package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"viholabs/canonguard/pkg/guard"
)

func passedVerdict() *guard.Verdict {
	return &guard.Verdict{
		RunID:   "run-1",
		Phase:   "UI_SHELL_ONLY",
		Changed: []string{"src/ui/Button.tsx"},
		Steps: []guard.Step{
			{Stage: guard.StageForbiddenPath, Message: "phase lock OK (no forbidden paths)"},
			{Stage: guard.StageScope, Message: "scope whitelist OK"},
		},
		Duration: 1500 * time.Microsecond,
	}
}

func TestTextReporter_Passed(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&TextReporter{}).Verdict(&buf, passedVerdict()))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, Banner+"\n"))
	assert.Contains(t, out, "Phase: UI_SHELL_ONLY\n")
	assert.Contains(t, out, "Changed files:\n - src/ui/Button.tsx\n")
	assert.Contains(t, out, "✅ phase lock OK (no forbidden paths)\n✅ scope whitelist OK\n")
	assert.Contains(t, out, "✅ CANON GUARD PASSED")
	assert.NotContains(t, out, "❌")
}

func TestTextReporter_NoChanges(t *testing.T) {
	var buf bytes.Buffer
	v := &guard.Verdict{
		Phase: "UI_SHELL_ONLY",
		Steps: []guard.Step{{Stage: guard.StageChanges, Message: "no changes, repository clean"}},
	}
	require.NoError(t, (&TextReporter{}).Verdict(&buf, v))

	assert.Contains(t, buf.String(), "Changed files: (none)\n")
	assert.Contains(t, buf.String(), "✅ no changes, repository clean\n")
}

func TestTextReporter_Failures(t *testing.T) {
	tests := []struct {
		name      string
		violation *guard.Violation
		want      []string
	}{
		{
			name: "forbidden path hits are listed",
			violation: &guard.Violation{
				Stage:   guard.StageForbiddenPath,
				Message: "forbidden paths touched for this phase",
				Hits:    []guard.PathHit{{File: "supabase/a.sql", Pattern: "supabase/"}},
			},
			want: []string{
				"❌ CANON GUARD FAIL: forbidden paths touched for this phase\n",
				" - supabase/a.sql (match: supabase/)\n",
			},
		},
		{
			name: "scope lists illegal files",
			violation: &guard.Violation{
				Stage:   guard.StageScope,
				Message: "changes outside the allowed scope",
				Files:   []string{"README.md"},
			},
			want: []string{" - README.md\n"},
		},
		{
			name: "prohibition prints file and patterns flush",
			violation: &guard.Violation{
				Stage:    guard.ProhibitionStage("no_invented_kpis"),
				Message:  "KPIs must come from the canon",
				Files:    []string{"src/ui/kpi.tsx"},
				Patterns: []string{"fake_kpi", "mock_metric"},
			},
			want: []string{
				"\nfile: src/ui/kpi.tsx\npatterns: fake_kpi, mock_metric\n",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := passedVerdict()
			v.Steps = v.Steps[:1]
			v.Violation = tt.violation

			var buf bytes.Buffer
			require.NoError(t, (&TextReporter{}).Verdict(&buf, v))

			out := buf.String()
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
			assert.NotContains(t, out, "CANON GUARD PASSED")
		})
	}
}

func TestTextReporter_ConfigError(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&TextReporter{}).ConfigError(&buf, "NOPE", errors.New("phase \"NOPE\" is not defined")))

	assert.Equal(t, "\n❌ CANON GUARD FAIL: phase \"NOPE\" is not defined\n\n", buf.String())
}

func TestJSONReporter_Verdict(t *testing.T) {
	v := passedVerdict()
	v.Violation = &guard.Violation{Stage: guard.StageScope, Message: "out of scope", Files: []string{"x"}}

	var buf bytes.Buffer
	require.NoError(t, (&JSONReporter{}).Verdict(&buf, v))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "run-1", got["run_id"])
	assert.Equal(t, false, got["passed"])
	assert.Equal(t, 1.5, got["duration_ms"])

	violation, ok := got["violation"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, guard.StageScope, violation["stage"])
}

func TestJSONReporter_EmptyListsAreArrays(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&JSONReporter{}).Verdict(&buf, &guard.Verdict{Phase: "P"}))

	assert.Contains(t, buf.String(), `"changed":[]`)
	assert.Contains(t, buf.String(), `"steps":[]`)
	assert.Contains(t, buf.String(), `"passed":true`)
}

func TestJSONReporter_ConfigError(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&JSONReporter{}).ConfigError(&buf, "NOPE", errors.New("unknown")))

	var got Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.False(t, got.Passed)
	assert.Equal(t, "NOPE", got.Phase)
	require.NotNil(t, got.Violation)
	assert.Equal(t, guard.StageConfig, got.Violation.Stage)
}

func TestNewReporter(t *testing.T) {
	r, err := NewReporter(FormatJSON)
	require.NoError(t, err)
	assert.IsType(t, &JSONReporter{}, r)

	r, err = NewReporter(FormatText)
	require.NoError(t, err)
	assert.IsType(t, &TextReporter{}, r)

	_, err = NewReporter("xml")
	assert.Error(t, err)
}
