package guard

import (
	"fmt"
	"strings"
	"time"
)

// Stage names reported in violations and steps.
const (
	StageChanges       = "changes"
	StageForbiddenPath = "forbidden-path"
	StageScope         = "scope"
	StageTraceability  = "traceability"
	StageConfig        = "config"

	// StageProhibition prefixes the stage of every prohibition rule.
	StageProhibition = "prohibition"

	stageProhibitionPrefix = StageProhibition + ":"
)

// ProhibitionStage returns the stage name for the prohibition with key.
func ProhibitionStage(key string) string {
	return stageProhibitionPrefix + key
}

// IsProhibitionStage reports whether stage names a prohibition.
func IsProhibitionStage(stage string) bool {
	return strings.HasPrefix(stage, stageProhibitionPrefix)
}

// ProhibitionKey returns the rule key of a prohibition stage, or "" for
// any other stage.
func ProhibitionKey(stage string) string {
	if !IsProhibitionStage(stage) {
		return ""
	}
	return strings.TrimPrefix(stage, stageProhibitionPrefix)
}

// Verdict is the outcome of one evaluation.
type Verdict struct {
	// RunID identifies this evaluation in logs and reports.
	RunID string `json:"run_id"`

	// Phase is the evaluated phase.
	Phase string `json:"phase"`

	// Changed is the change list as supplied by the source.
	Changed []string `json:"changed"`

	// Steps lists the checks that passed, in order.
	Steps []Step `json:"steps"`

	// Violation is set when the run failed.
	Violation *Violation `json:"violation,omitempty"`

	// Duration is the wall time of the evaluation.
	Duration time.Duration `json:"duration_ns"`
}

// Passed reports whether no violation was found.
func (v *Verdict) Passed() bool {
	return v.Violation == nil
}

func (v *Verdict) pass(stage, message string) {
	v.Steps = append(v.Steps, Step{Stage: stage, Message: message})
}

// Step is a passed check.
type Step struct {
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

// PathHit is a changed file that matched a forbidden path pattern.
type PathHit struct {
	File    string `json:"file"`
	Pattern string `json:"pattern"`
}

// Violation describes the first failing stage.
type Violation struct {
	// Stage is one of the Stage constants or a ProhibitionStage name.
	Stage string `json:"stage"`

	// Message is the human-readable reason.
	Message string `json:"message"`

	// Hits is set for forbidden-path violations.
	Hits []PathHit `json:"hits,omitempty"`

	// Files lists offending files: illegal files for scope, files lacking
	// a header for traceability, the single offending file for prohibitions.
	Files []string `json:"files,omitempty"`

	// Patterns lists the matched text patterns for prohibitions.
	Patterns []string `json:"patterns,omitempty"`
}

// Error makes a Violation usable as an error value.
func (v *Violation) Error() string {
	return fmt.Sprintf("%s: %s", v.Stage, v.Message)
}

// Details renders the offending files and patterns, one entry per line.
func (v *Violation) Details() []string {
	switch {
	case len(v.Hits) > 0:
		lines := make([]string, 0, len(v.Hits))
		for _, h := range v.Hits {
			lines = append(lines, fmt.Sprintf("%s (match: %s)", h.File, h.Pattern))
		}
		return lines
	case len(v.Patterns) > 0:
		return []string{
			"file: " + strings.Join(v.Files, ", "),
			"patterns: " + strings.Join(v.Patterns, ", "),
		}
	default:
		return append([]string(nil), v.Files...)
	}
}
