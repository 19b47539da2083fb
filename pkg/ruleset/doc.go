// Package ruleset loads and validates the canon ruleset document.
//
// The ruleset is read once per invocation and is immutable afterwards. It
// carries three sections:
//
//	phases:                  phase name -> forbidden_paths / allowed_paths
//	canonical_prohibitions:  key -> forbidden_patterns / message
//	traceability:            required / header_regex / max_lines_to_scan / message
//
// JSON documents are read with encoding/json and YAML documents with
// gopkg.in/yaml.v3; both become the same node tree, so the conventional JSON
// file and an equivalent YAML file load identically. Prohibitions keep the
// order in which they are written in the document; evaluation depends on it.
//
// # Loading
//
//	rules, err := ruleset.Load("canon/canon_rules.json", ruleset.Options{})
//	if err != nil {
//		var cfgErr *ruleset.ConfigError
//		if errors.As(err, &cfgErr) {
//			// missing, unreadable or malformed ruleset
//		}
//	}
//
// # Strict mode
//
// By default a phase that omits forbidden_paths or allowed_paths gets an empty
// list. Options.Strict turns such omissions, empty prohibitions and an
// unusable traceability section into a ConfigError listing every problem.
package ruleset
