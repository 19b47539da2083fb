package ruleset

import (
	"regexp"
	"slices"
	"sort"
)

// Defaults applied when the document leaves a field out.
const (
	// DefaultHeaderRegex is the traceability marker searched for when
	// header_regex is absent.
	DefaultHeaderRegex = "AUDIT"

	// DefaultMaxLinesToScan is the number of leading lines checked when
	// max_lines_to_scan is absent.
	DefaultMaxLinesToScan = 60

	// DefaultTraceabilityMessage is reported when traceability fails and the
	// document has no message of its own.
	DefaultTraceabilityMessage = "missing traceability header"

	defaultProhibitionMessage = "canonical violation: "
)

// Ruleset is the loaded policy document. It is never modified after Parse
// returns, so one value can be shared by any number of evaluations.
type Ruleset struct {
	source       string
	phases       map[string]PhaseRules
	prohibitions []Prohibition
	traceability Traceability
}

// PhaseRules are the path rules of one phase.
type PhaseRules struct {
	// Name is the phase key in the document.
	Name string

	// ForbiddenPaths fail the run when touched, whitelist or not.
	ForbiddenPaths []string

	// AllowedPaths is the complete whitelist for the phase.
	AllowedPaths []string
}

// Prohibition is a named set of text patterns that must not appear in a
// changed file. Patterns are plain substrings matched case-insensitively.
type Prohibition struct {
	Key      string
	Patterns []string
	Message  string
}

// Traceability describes the header marker required near the top of
// tracked source files.
type Traceability struct {
	Required       bool
	HeaderRegex    string
	MaxLinesToScan int
	Message        string

	header *regexp.Regexp
}

// Header returns the compiled, case-insensitive header expression. It is nil
// when traceability is not required and the expression was never compiled.
func (t Traceability) Header() *regexp.Regexp {
	return t.header
}

// Source returns the location the ruleset was loaded from.
func (r *Ruleset) Source() string {
	return r.source
}

// Phase returns the rules for the named phase.
func (r *Ruleset) Phase(name string) (PhaseRules, bool) {
	p, ok := r.phases[name]
	if !ok {
		return PhaseRules{}, false
	}
	return PhaseRules{
		Name:           p.Name,
		ForbiddenPaths: slices.Clone(p.ForbiddenPaths),
		AllowedPaths:   slices.Clone(p.AllowedPaths),
	}, true
}

// PhaseNames returns the defined phase names in sorted order.
func (r *Ruleset) PhaseNames() []string {
	names := make([]string, 0, len(r.phases))
	for name := range r.phases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Prohibitions returns the prohibition rules in document order.
func (r *Ruleset) Prohibitions() []Prohibition {
	out := make([]Prohibition, len(r.prohibitions))
	for i, p := range r.prohibitions {
		p.Patterns = slices.Clone(p.Patterns)
		out[i] = p
	}
	return out
}

// Traceability returns the traceability rule.
func (r *Ruleset) Traceability() Traceability {
	return r.traceability
}

// New assembles a Ruleset from already-decoded values, applying the same
// defaults and checks as Parse. Zero values count as absent: an empty
// prohibition message, header expression, or a zero line limit take the
// defaults. Prohibitions keep the order given.
func New(phases []PhaseRules, prohibitions []Prohibition, tr Traceability) (*Ruleset, error) {
	d := &decoder{source: "(inline)"}
	r := &Ruleset{source: d.source, phases: make(map[string]PhaseRules, len(phases))}

	for _, p := range phases {
		if _, dup := r.phases[p.Name]; dup {
			d.fail("phases."+p.Name, "phase defined more than once")
			continue
		}
		r.phases[p.Name] = PhaseRules{
			Name:           p.Name,
			ForbiddenPaths: slices.Clone(p.ForbiddenPaths),
			AllowedPaths:   slices.Clone(p.AllowedPaths),
		}
	}

	seen := make(map[string]bool, len(prohibitions))
	for _, p := range prohibitions {
		if seen[p.Key] {
			d.fail("canonical_prohibitions."+p.Key, "prohibition defined more than once")
			continue
		}
		seen[p.Key] = true
		if p.Message == "" {
			p.Message = defaultProhibitionMessage + p.Key
		}
		p.Patterns = slices.Clone(p.Patterns)
		r.prohibitions = append(r.prohibitions, p)
	}

	if tr.HeaderRegex == "" {
		tr.HeaderRegex = DefaultHeaderRegex
	}
	if tr.MaxLinesToScan == 0 {
		tr.MaxLinesToScan = DefaultMaxLinesToScan
	}
	if tr.Message == "" {
		tr.Message = DefaultTraceabilityMessage
	}
	r.traceability = d.finishTraceability(tr)

	if err := d.err(); err != nil {
		return nil, err
	}
	return r, nil
}
