// canonguard is a policy gate that blocks source changes which break the
// canon of the current development phase.
//
// It reads the changed files from git, checks them against a phase-scoped
// ruleset and stops at the first violation:
//   - forbidden paths for the phase
//   - the phase scope whitelist
//   - canonical content prohibitions
//   - the traceability header on script sources
//
// Usage:
//
//	# Check the default phase against unstaged changes
//	canonguard
//
//	# Check a specific phase
//	canonguard check API_ROUTES
//
//	# Pre-commit hook: check what is about to be committed
//	canonguard check UI_SHELL_ONLY --mode staged
//
//	# CI: check a branch against its merge base
//	canonguard check UI_SHELL_ONLY --from origin/main --format json
//
// The process exits 0 when the gate passes, 2 when it fails or the
// ruleset cannot be used, and 1 on usage errors.
package main

func main() {
	Execute()
}
