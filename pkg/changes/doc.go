// Package changes supplies the list of files the gate has to police.
//
// A Source returns repository-relative, slash-separated paths. GitSource
// reads them from the repository with go-git, without shelling out:
//
//	src := changes.NewGitSource(changes.GitOptions{Root: ".", Mode: changes.ModeWorktree})
//	files, err := src.ChangedFiles(ctx)
//
// The modes mirror the usual git queries:
//   - ModeWorktree: index vs working tree, like `git diff --name-only`
//   - ModeStaged:   HEAD vs index, like `git diff --cached --name-only`
//   - ModeAll:      either of the above
//
// Setting GitOptions.From switches to a revision range (From..To, To
// defaulting to HEAD), which is what a merge gate wants.
//
// StaticSource wraps an explicit list, and ParseList turns newline-separated
// command output into one.
//
// Watcher re-runs a callback whenever files under the repository change,
// debounced, for the interactive watch mode.
package changes
