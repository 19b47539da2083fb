package changes

import (
	"context"
	"fmt"
	"sort"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Mode selects which differences count as changed.
type Mode string

const (
	// ModeWorktree reports files whose working copy differs from the index.
	ModeWorktree Mode = "worktree"

	// ModeStaged reports files whose index entry differs from HEAD.
	ModeStaged Mode = "staged"

	// ModeAll reports files changed in either the index or the working tree.
	ModeAll Mode = "all"
)

// DefaultRangeEnd is used as GitOptions.To when only From is set.
const DefaultRangeEnd = "HEAD"

// ParseMode validates a mode name. An empty name selects ModeWorktree.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "":
		return ModeWorktree, nil
	case ModeWorktree, ModeStaged, ModeAll:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown change mode %q (want worktree, staged or all)", s)
	}
}

// GitOptions configure a GitSource.
type GitOptions struct {
	// Root is a path inside the repository. Parent directories are searched
	// for the .git directory.
	Root string

	// Mode applies when From is empty.
	Mode Mode

	// From and To select a revision range instead of local changes.
	From string
	To   string
}

// GitSource reads changed files from a git repository.
type GitSource struct {
	opts GitOptions
}

// NewGitSource creates a source for the repository containing opts.Root.
// The repository is opened on every query, so a missing repository shows up
// as a ChangedFiles error rather than here.
func NewGitSource(opts GitOptions) *GitSource {
	if opts.Root == "" {
		opts.Root = "."
	}
	if opts.Mode == "" {
		opts.Mode = ModeWorktree
	}
	if opts.From != "" && opts.To == "" {
		opts.To = DefaultRangeEnd
	}
	return &GitSource{opts: opts}
}

// Options returns the effective options.
func (g *GitSource) Options() GitOptions {
	return g.opts
}

func (g *GitSource) open() (*gogit.Repository, error) {
	repo, err := gogit.PlainOpenWithOptions(g.opts.Root, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository at %q: %w", g.opts.Root, err)
	}
	return repo, nil
}

// Filesystem returns the working tree filesystem, so changed paths resolve
// against the repository root. When the repository cannot be opened it
// falls back to the plain directory at Root.
func (g *GitSource) Filesystem() billy.Filesystem {
	repo, err := g.open()
	if err != nil {
		return osfs.New(g.opts.Root)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return osfs.New(g.opts.Root)
	}
	return wt.Filesystem
}

// ChangedFiles returns the sorted list of changed paths.
func (g *GitSource) ChangedFiles(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	repo, err := g.open()
	if err != nil {
		return nil, err
	}

	if g.opts.From != "" {
		return diffRange(ctx, repo, g.opts.From, g.opts.To)
	}
	return statusFiles(repo, g.opts.Mode)
}

func statusFiles(repo *gogit.Repository, mode Mode) ([]string, error) {
	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}

	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}

	var files []string
	for path, st := range status {
		worktree := changed(st.Worktree)
		staged := changed(st.Staging)

		var include bool
		switch mode {
		case ModeStaged:
			include = staged
		case ModeAll:
			include = staged || worktree
		default:
			include = worktree
		}
		if include {
			files = append(files, path)
		}
	}

	sort.Strings(files)
	return files, nil
}

// changed reports whether a status code is a tracked modification.
// Untracked files are not part of a diff.
func changed(code gogit.StatusCode) bool {
	return code != gogit.Unmodified && code != gogit.Untracked
}

func diffRange(ctx context.Context, repo *gogit.Repository, from, to string) ([]string, error) {
	fromTree, err := resolveTree(repo, from)
	if err != nil {
		return nil, err
	}
	toTree, err := resolveTree(repo, to)
	if err != nil {
		return nil, err
	}

	diff, err := fromTree.DiffContext(ctx, toTree)
	if err != nil {
		return nil, fmt.Errorf("failed to diff trees: %w", err)
	}

	seen := make(map[string]bool, len(diff))
	var files []string
	for _, change := range diff {
		name := change.To.Name
		if name == "" {
			// deleted
			name = change.From.Name
		}
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		files = append(files, name)
	}

	sort.Strings(files)
	return files, nil
}

func resolveTree(repo *gogit.Repository, rev string) (*object.Tree, error) {
	hash, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve revision %q: %w", rev, err)
	}

	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("failed to get commit %s: %w", hash, err)
	}

	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to get tree for %s: %w", hash, err)
	}
	return tree, nil
}
