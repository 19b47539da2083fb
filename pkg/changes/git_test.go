package changes

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/util"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var signature = &object.Signature{Name: "Test User", Email: "test@example.com", When: time.Now()}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	full := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

// createTestRepo initialises a repository with two committed files.
func createTestRepo(t *testing.T) (string, *gogit.Repository) {
	t.Helper()
	dir := t.TempDir()

	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	writeFile(t, dir, "src/ui/button.tsx", "export const Button = 1\n")
	writeFile(t, dir, "canon/core.json", "{}\n")

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("src/ui/button.tsx")
	require.NoError(t, err)
	_, err = wt.Add("canon/core.json")
	require.NoError(t, err)
	_, err = wt.Commit("initial commit", &gogit.CommitOptions{Author: signature})
	require.NoError(t, err)

	return dir, repo
}

func TestGitSource_Modes(t *testing.T) {
	dir, repo := createTestRepo(t)

	// unstaged modification
	writeFile(t, dir, "src/ui/button.tsx", "export const Button = 2 // changed\n")
	// staged modification
	writeFile(t, dir, "canon/core.json", `{"changed": true}`+"\n")
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("canon/core.json")
	require.NoError(t, err)
	// untracked
	writeFile(t, dir, "notes.txt", "scratch\n")

	tests := []struct {
		mode Mode
		want []string
	}{
		{mode: ModeWorktree, want: []string{"src/ui/button.tsx"}},
		{mode: ModeStaged, want: []string{"canon/core.json"}},
		{mode: ModeAll, want: []string{"canon/core.json", "src/ui/button.tsx"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			src := NewGitSource(GitOptions{Root: dir, Mode: tt.mode})
			files, err := src.ChangedFiles(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, files)
		})
	}
}

func TestGitSource_CleanRepository(t *testing.T) {
	dir, _ := createTestRepo(t)

	files, err := NewGitSource(GitOptions{Root: dir}).ChangedFiles(context.Background())
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestGitSource_DetectsRepositoryFromSubdirectory(t *testing.T) {
	dir, _ := createTestRepo(t)
	writeFile(t, dir, "src/ui/button.tsx", "export const Button = 'subdir'\n")

	src := NewGitSource(GitOptions{Root: filepath.Join(dir, "src", "ui")})
	files, err := src.ChangedFiles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"src/ui/button.tsx"}, files)

	content, err := util.ReadFile(src.Filesystem(), "src/ui/button.tsx")
	require.NoError(t, err)
	assert.Contains(t, string(content), "subdir")
}

func TestGitSource_RevisionRange(t *testing.T) {
	dir, repo := createTestRepo(t)
	head, err := repo.Head()
	require.NoError(t, err)
	base := head.Hash().String()

	writeFile(t, dir, "src/ui/card.tsx", "export const Card = 1\n")

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("src/ui/card.tsx")
	require.NoError(t, err)
	_, err = wt.Remove("canon/core.json")
	require.NoError(t, err)
	_, err = wt.Commit("second commit", &gogit.CommitOptions{Author: signature})
	require.NoError(t, err)

	src := NewGitSource(GitOptions{Root: dir, From: base})
	assert.Equal(t, DefaultRangeEnd, src.Options().To)

	files, err := src.ChangedFiles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"canon/core.json", "src/ui/card.tsx"}, files)
}

func TestGitSource_Errors(t *testing.T) {
	_, err := NewGitSource(GitOptions{Root: t.TempDir()}).ChangedFiles(context.Background())
	assert.Error(t, err, "a directory outside any repository must fail")

	dir, _ := createTestRepo(t)
	_, err = NewGitSource(GitOptions{Root: dir, From: "no-such-rev"}).ChangedFiles(context.Background())
	assert.ErrorContains(t, err, "no-such-rev")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewGitSource(GitOptions{Root: dir}).ChangedFiles(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGitSource_FilesystemFallsBackOutsideRepository(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "hello")

	content, err := util.ReadFile(NewGitSource(GitOptions{Root: dir}).Filesystem(), "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))
}
