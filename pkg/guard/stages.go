package guard

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/go-git/go-billy/v5/util"

	"viholabs/canonguard/pkg/pathmatch"
	"viholabs/canonguard/pkg/ruleset"
)

// TrackedExtensions are the UI-layer source extensions that must carry a
// traceability header. Comparison is case-insensitive.
var TrackedExtensions = []string{".ts", ".tsx", ".js", ".jsx"}

func checkForbidden(rules ruleset.PhaseRules, changed []string) *Violation {
	var hits []PathHit
	for _, f := range changed {
		for _, p := range pathmatch.Hits(f, rules.ForbiddenPaths) {
			hits = append(hits, PathHit{File: f, Pattern: p})
		}
	}
	if len(hits) == 0 {
		return nil
	}
	return &Violation{
		Stage:   StageForbiddenPath,
		Message: "forbidden paths touched for this phase",
		Hits:    hits,
	}
}

func checkScope(rules ruleset.PhaseRules, changed []string) *Violation {
	var illegal []string
	for _, f := range changed {
		if _, ok := pathmatch.ClassifyAllowed(f, rules.AllowedPaths); !ok {
			illegal = append(illegal, f)
		}
	}
	if len(illegal) == 0 {
		return nil
	}
	return &Violation{
		Stage:   StageScope,
		Message: "changes outside the allowed scope (whitelist)",
		Files:   illegal,
	}
}

// checkProhibition scans every readable changed file and stops at the
// first one containing any of the rule's patterns.
func (e *Engine) checkProhibition(s scanner, changed []string) *Violation {
	for _, f := range changed {
		content, ok := e.readAll(f)
		if !ok {
			continue
		}

		var matched []string
		for i, re := range s.patterns {
			if re.Match(content) {
				matched = append(matched, s.rule.Patterns[i])
			}
		}
		if len(matched) > 0 {
			return &Violation{
				Stage:    ProhibitionStage(s.rule.Key),
				Message:  s.rule.Message,
				Files:    []string{f},
				Patterns: matched,
			}
		}
	}
	return nil
}

func (e *Engine) checkTraceability(tr ruleset.Traceability, changed []string) *Violation {
	header := tr.Header()

	var missing []string
	for _, f := range changed {
		if !Tracked(f) {
			continue
		}
		head, ok := e.readHead(f, tr.MaxLinesToScan)
		if !ok {
			continue
		}
		if !header.MatchString(head) {
			missing = append(missing, f)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &Violation{
		Stage:   StageTraceability,
		Message: tr.Message,
		Files:   missing,
	}
}

// Tracked reports whether name has one of the TrackedExtensions. A dotfile
// such as ".ts" has no extension.
func Tracked(name string) bool {
	base := path.Base(name)
	ext := path.Ext(base)
	if ext == "" || ext == base {
		return false
	}
	ext = strings.ToLower(ext)
	for _, t := range TrackedExtensions {
		if ext == t {
			return true
		}
	}
	return false
}

// readAll returns the content of name with invalid UTF-8 bytes dropped.
func (e *Engine) readAll(name string) ([]byte, bool) {
	content, err := util.ReadFile(e.fsys, name)
	if err != nil {
		e.logger.Debug("skipping unreadable file", "file", name, "error", err)
		return nil, false
	}
	return bytes.ToValidUTF8(content, nil), true
}

// readHead returns at most maxLines leading lines joined by "\n", with
// invalid UTF-8 bytes dropped.
func (e *Engine) readHead(name string, maxLines int) (string, bool) {
	f, err := e.fsys.Open(name)
	if err != nil {
		e.logger.Debug("skipping unreadable file", "file", name, "error", err)
		return "", false
	}
	defer f.Close()

	r := bufio.NewReader(f)
	var lines []string
	for len(lines) < maxLines {
		line, err := r.ReadString('\n')
		if line != "" {
			line = strings.TrimSuffix(line, "\n")
			lines = append(lines, strings.TrimSuffix(line, "\r"))
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			e.logger.Debug("skipping unreadable file", "file", name, "error", err)
			return "", false
		}
	}
	return strings.ToValidUTF8(strings.Join(lines, "\n"), ""), true
}
