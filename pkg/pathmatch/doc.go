// Package pathmatch classifies repository-relative paths against the path
// patterns used by phase rules.
//
// A pattern that ends in "/" is a directory scope and matches the directory
// itself and every path below it. Any other pattern is an exact file path.
// Matching is byte-for-byte: there is no globbing, no case folding and no
// cleaning of "." or ".." segments.
//
// Two flavours exist. Match is the strict form used for forbidden paths.
// MatchAllowed is the whitelist form, where a file entry also covers
// everything nested under a directory of the same name:
//
//	pathmatch.Match("a/b.ts/x", "a/b.ts")        // false
//	pathmatch.MatchAllowed("a/b.ts/x", "a/b.ts") // true
package pathmatch
