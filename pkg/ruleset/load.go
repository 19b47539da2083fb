package ruleset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the conventional ruleset location, relative to the
// repository root.
const DefaultPath = "canon/canon_rules.json"

// Top-level document keys.
const (
	keyPhases       = "phases"
	keyProhibitions = "canonical_prohibitions"
	keyTraceability = "traceability"

	keyForbiddenPaths = "forbidden_paths"
	keyAllowedPaths   = "allowed_paths"
)

// Options control how strictly a document is checked.
type Options struct {
	// Strict rejects phases that omit forbidden_paths or allowed_paths,
	// prohibitions without patterns or message, and an invalid traceability
	// section even when traceability is not required.
	Strict bool
}

type phaseDoc struct {
	ForbiddenPaths []string `yaml:"forbidden_paths"`
	AllowedPaths   []string `yaml:"allowed_paths"`
}

type prohibitionDoc struct {
	ForbiddenPatterns []string `yaml:"forbidden_patterns"`
	Message           string   `yaml:"message"`
}

type traceabilityDoc struct {
	Required       bool    `yaml:"required"`
	HeaderRegex    *string `yaml:"header_regex"`
	MaxLinesToScan *int    `yaml:"max_lines_to_scan"`
	Message        string  `yaml:"message"`
}

// Load reads and parses the ruleset at path. Every failure is a
// *ConfigError.
func Load(path string, opts Options) (*Ruleset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, newConfigError(path, "ruleset file not found", err)
		}
		return nil, newConfigError(path, "failed to read ruleset", err)
	}
	return Parse(data, path, opts)
}

// Parse decodes a ruleset document. source names the document in error
// messages and Ruleset.Source; a ".json" extension selects the JSON decoder
// and ".yaml" or ".yml" the YAML one.
func Parse(data []byte, source string, opts Options) (*Ruleset, error) {
	root, err := decodeDocument(data, source)
	if err != nil {
		return nil, newConfigError(source, "failed to parse ruleset", err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, newConfigError(source, "ruleset document is empty", nil)
	}
	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, newConfigError(source, "ruleset document must be a mapping", nil)
	}

	phases := lookup(doc, keyPhases)
	if phases == nil || isNull(phases) {
		return nil, newConfigError(source, fmt.Sprintf("missing top-level %q", keyPhases), nil)
	}

	d := &decoder{source: source, strict: opts.Strict}
	r := &Ruleset{source: source}
	r.phases = d.decodePhases(phases)
	r.prohibitions = d.decodeProhibitions(lookup(doc, keyProhibitions))
	r.traceability = d.decodeTraceability(lookup(doc, keyTraceability))

	if err := d.err(); err != nil {
		return nil, err
	}
	return r, nil
}

// decoder accumulates field errors so a single load reports every problem.
type decoder struct {
	source string
	strict bool
	errs   []FieldError
}

func (d *decoder) fail(field, message string) {
	d.errs = append(d.errs, FieldError{Field: field, Message: message})
}

func (d *decoder) err() error {
	if len(d.errs) == 0 {
		return nil
	}
	return newConfigError(d.source, "invalid ruleset", ValidationError{Errors: d.errs})
}

func (d *decoder) decodePhases(n *yaml.Node) map[string]PhaseRules {
	out := make(map[string]PhaseRules)
	if n.Kind != yaml.MappingNode {
		d.fail(keyPhases, "must be a mapping of phase name to rules")
		return out
	}

	forEachPair(n, func(name string, value *yaml.Node) {
		field := keyPhases + "." + name
		if _, dup := out[name]; dup {
			d.fail(field, "phase defined more than once")
			return
		}

		var pd phaseDoc
		if !isNull(value) {
			if err := value.Decode(&pd); err != nil {
				d.fail(field, decodeMessage(err))
				return
			}
		}
		if d.strict {
			for _, key := range []string{keyForbiddenPaths, keyAllowedPaths} {
				if lookup(value, key) == nil {
					d.fail(field+"."+key, "is required in strict mode")
				}
			}
		}

		out[name] = PhaseRules{
			Name:           name,
			ForbiddenPaths: pd.ForbiddenPaths,
			AllowedPaths:   pd.AllowedPaths,
		}
	})
	return out
}

func (d *decoder) decodeProhibitions(n *yaml.Node) []Prohibition {
	if n == nil || isNull(n) {
		return nil
	}
	if n.Kind != yaml.MappingNode {
		d.fail(keyProhibitions, "must be a mapping of key to prohibition")
		return nil
	}

	var out []Prohibition
	seen := make(map[string]bool)
	forEachPair(n, func(key string, value *yaml.Node) {
		field := keyProhibitions + "." + key
		if seen[key] {
			d.fail(field, "prohibition defined more than once")
			return
		}
		seen[key] = true

		var pd prohibitionDoc
		if !isNull(value) {
			if err := value.Decode(&pd); err != nil {
				d.fail(field, decodeMessage(err))
				return
			}
		}
		if d.strict {
			if len(pd.ForbiddenPatterns) == 0 {
				d.fail(field+".forbidden_patterns", "must list at least one pattern in strict mode")
			}
			if pd.Message == "" {
				d.fail(field+".message", "is required in strict mode")
			}
		}

		msg := pd.Message
		if msg == "" {
			msg = defaultProhibitionMessage + key
		}
		out = append(out, Prohibition{Key: key, Patterns: pd.ForbiddenPatterns, Message: msg})
	})
	return out
}

func (d *decoder) decodeTraceability(n *yaml.Node) Traceability {
	tr := Traceability{
		HeaderRegex:    DefaultHeaderRegex,
		MaxLinesToScan: DefaultMaxLinesToScan,
		Message:        DefaultTraceabilityMessage,
	}
	if n == nil || isNull(n) {
		return tr
	}

	var td traceabilityDoc
	if err := n.Decode(&td); err != nil {
		d.fail(keyTraceability, decodeMessage(err))
		return tr
	}

	tr.Required = td.Required
	if td.HeaderRegex != nil {
		tr.HeaderRegex = *td.HeaderRegex
	}
	if td.MaxLinesToScan != nil {
		tr.MaxLinesToScan = *td.MaxLinesToScan
	}
	if td.Message != "" {
		tr.Message = td.Message
	}
	return d.finishTraceability(tr)
}

// finishTraceability compiles the header expression. Problems only count
// when the rule is enforced or the decoder is strict.
func (d *decoder) finishTraceability(tr Traceability) Traceability {
	enforce := tr.Required || d.strict

	if tr.MaxLinesToScan <= 0 && enforce {
		d.fail(keyTraceability+".max_lines_to_scan", fmt.Sprintf("must be positive, got %d", tr.MaxLinesToScan))
	}

	re, err := regexp.Compile("(?i)" + tr.HeaderRegex)
	if err != nil {
		if enforce {
			d.fail(keyTraceability+".header_regex", err.Error())
		}
		return tr
	}
	tr.header = re
	return tr
}

// lookup returns the value node for key in mapping n, or nil.
func lookup(n *yaml.Node, key string) *yaml.Node {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}

// forEachPair walks a mapping node in document order.
func forEachPair(n *yaml.Node, fn func(key string, value *yaml.Node)) {
	for i := 0; i+1 < len(n.Content); i += 2 {
		fn(n.Content[i].Value, n.Content[i+1])
	}
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null"
}

func decodeMessage(err error) string {
	var te *yaml.TypeError
	if errors.As(err, &te) {
		return strings.Join(te.Errors, "; ")
	}
	return err.Error()
}
