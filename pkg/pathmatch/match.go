package pathmatch

import "strings"

// Separator terminates a directory-scope pattern.
const Separator = "/"

// IsDir reports whether pattern denotes a directory scope.
func IsDir(pattern string) bool {
	return strings.HasSuffix(pattern, Separator)
}

// under reports whether path is the prefix itself or starts with it.
func under(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix)
}

// Match reports whether path matches pattern using strict semantics.
// File patterns never match nested paths.
func Match(path, pattern string) bool {
	if IsDir(pattern) {
		return under(path, pattern)
	}
	return path == pattern
}

// MatchAllowed reports whether path matches a whitelist pattern. A file
// pattern is additionally treated as a directory scope, so "a/b" covers
// "a/b/c" but still not "a/bc".
func MatchAllowed(path, pattern string) bool {
	if IsDir(pattern) {
		return under(path, pattern)
	}
	return path == pattern || strings.HasPrefix(path, pattern+Separator)
}

// ClassifyAllowed returns the first whitelist pattern that matches path.
func ClassifyAllowed(path string, patterns []string) (string, bool) {
	for _, p := range patterns {
		if MatchAllowed(path, p) {
			return p, true
		}
	}
	return "", false
}

// Hits returns every pattern that strictly matches path, in pattern order.
func Hits(path string, patterns []string) []string {
	var hits []string
	for _, p := range patterns {
		if Match(path, p) {
			hits = append(hits, p)
		}
	}
	return hits
}
