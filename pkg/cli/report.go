package cli

import (
	"fmt"
	"io"
	"strings"

	"viholabs/canonguard/pkg/guard"
)

// Banner is the first line of a text report.
const Banner = "== CANON GUARD =="

// Reporter renders gate results.
type Reporter interface {
	// Verdict renders a completed evaluation.
	Verdict(w io.Writer, v *guard.Verdict) error

	// ConfigError renders an error that prevented evaluation of phase.
	ConfigError(w io.Writer, phase string, err error) error
}

// NewReporter returns the reporter for format.
func NewReporter(format OutputFormat) (Reporter, error) {
	switch format {
	case FormatText, "":
		return &TextReporter{}, nil
	case FormatJSON:
		return &JSONReporter{Indent: true}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// Report is the machine-readable form of a run.
type Report struct {
	RunID      string           `json:"run_id,omitempty"`
	Phase      string           `json:"phase"`
	Passed     bool             `json:"passed"`
	Changed    []string         `json:"changed"`
	Steps      []guard.Step     `json:"steps"`
	Violation  *guard.Violation `json:"violation,omitempty"`
	DurationMS float64          `json:"duration_ms"`
}

// NewReport converts a verdict into a Report.
func NewReport(v *guard.Verdict) Report {
	r := Report{
		RunID:      v.RunID,
		Phase:      v.Phase,
		Passed:     v.Passed(),
		Changed:    v.Changed,
		Steps:      v.Steps,
		Violation:  v.Violation,
		DurationMS: float64(v.Duration.Microseconds()) / 1000,
	}
	if r.Changed == nil {
		r.Changed = []string{}
	}
	if r.Steps == nil {
		r.Steps = []guard.Step{}
	}
	return r
}

// TextReporter prints the human-readable report.
type TextReporter struct{}

// Verdict writes the header, the changed files, one line per passed step
// and either the failure block or the pass banner.
func (r *TextReporter) Verdict(w io.Writer, v *guard.Verdict) error {
	var sb strings.Builder

	sb.WriteString(Banner + "\n")
	fmt.Fprintf(&sb, "Phase: %s\n", v.Phase)
	if len(v.Changed) == 0 {
		sb.WriteString("Changed files: (none)\n")
	} else {
		sb.WriteString("Changed files:\n")
		for _, f := range v.Changed {
			fmt.Fprintf(&sb, " - %s\n", f)
		}
	}
	sb.WriteString("\n")

	for _, s := range v.Steps {
		fmt.Fprintf(&sb, "✅ %s\n", s.Message)
	}

	if v.Violation != nil {
		writeFailure(&sb, v.Violation.Message, violationLines(v.Violation))
	} else {
		sb.WriteString("\n✅ CANON GUARD PASSED\n\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// ConfigError writes the failure block for err.
func (r *TextReporter) ConfigError(w io.Writer, phase string, err error) error {
	var sb strings.Builder
	writeFailure(&sb, err.Error(), nil)
	_, werr := io.WriteString(w, sb.String())
	return werr
}

func writeFailure(sb *strings.Builder, message string, details []string) {
	fmt.Fprintf(sb, "\n❌ CANON GUARD FAIL: %s\n", message)
	for _, line := range details {
		sb.WriteString(line + "\n")
	}
	sb.WriteString("\n")
}

// violationLines indents list-style details; prohibition details are
// labelled lines and stay flush.
func violationLines(v *guard.Violation) []string {
	lines := v.Details()
	if len(v.Patterns) > 0 {
		return lines
	}
	for i, l := range lines {
		lines[i] = " - " + l
	}
	return lines
}

// JSONReporter prints one Report document per run.
type JSONReporter struct {
	Indent bool
}

// Verdict writes v as a Report.
func (r *JSONReporter) Verdict(w io.Writer, v *guard.Verdict) error {
	f := &JSONFormatter{Indent: r.Indent}
	return f.FormatTo(w, NewReport(v))
}

// ConfigError writes a failed Report whose violation has the config stage.
func (r *JSONReporter) ConfigError(w io.Writer, phase string, err error) error {
	f := &JSONFormatter{Indent: r.Indent}
	return f.FormatTo(w, Report{
		Phase:   phase,
		Changed: []string{},
		Steps:   []guard.Step{},
		Violation: &guard.Violation{
			Stage:   guard.StageConfig,
			Message: err.Error(),
		},
	})
}
