package changes

import (
	"context"
	"strings"
)

// Source supplies the ordered list of changed paths for one run.
type Source interface {
	ChangedFiles(ctx context.Context) ([]string, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) ([]string, error)

// ChangedFiles calls f.
func (f SourceFunc) ChangedFiles(ctx context.Context) ([]string, error) {
	return f(ctx)
}

// StaticSource is a fixed list of paths.
type StaticSource []string

// ChangedFiles returns the list with blank entries dropped.
func (s StaticSource) ChangedFiles(ctx context.Context) ([]string, error) {
	return Compact(s), nil
}

// ParseList splits newline-separated output into paths, discarding blank
// lines. Entries are otherwise kept verbatim.
func ParseList(text string) []string {
	return Compact(strings.Split(text, "\n"))
}

// Compact drops entries that are empty or whitespace only, and strips a
// trailing carriage return left by CRLF output.
func Compact(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		p = strings.TrimSuffix(p, "\r")
		if strings.TrimSpace(p) == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
