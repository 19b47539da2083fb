// Package guard evaluates the canon ruleset for one phase against the
// current set of changed files and produces a single Verdict.
//
// # Pipeline
//
// Evaluation runs these stages in order and stops at the first violation:
//
//  1. forbidden-path: a changed file touches a forbidden path pattern
//  2. scope: a changed file is outside every allowed path pattern
//  3. prohibition:<key>: a changed file contains a forbidden text pattern
//  4. traceability: a tracked source file lacks the header marker
//
// An empty change list passes immediately. An unknown phase is a
// *ruleset.ConfigError, returned before the change source is queried.
//
// # Usage
//
//	engine := guard.New(rules, changes.NewGitSource(opts), fsys,
//		guard.WithLogger(logger),
//	)
//	verdict, err := engine.Evaluate(ctx, "UI_SHELL_ONLY")
//	if err != nil {
//		// configuration error
//	}
//	if !verdict.Passed() {
//		fmt.Println(verdict.Violation.Stage, verdict.Violation.Message)
//	}
//
// File contents are read through a go-billy filesystem rooted at the
// repository. Files that cannot be read, typically because they were
// deleted, are skipped by the content stages.
package guard
