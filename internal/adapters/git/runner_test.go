package git_test

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/assemble/internal/adapters/git"
	"go.trai.ch/assemble/internal/core/domain"
	"go.trai.ch/assemble/internal/core/ports"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not found in PATH")
	}
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")
}

// gitCmd runs git with a fixed identity for fixture setup.
func gitCmd(t *testing.T, dir string, args ...string) string {
	t.Helper()
	full := append([]string{
		"-c", "user.name=assemble",
		"-c", "user.email=assemble@example.com",
		"-c", "commit.gpgsign=false",
		"-c", "init.defaultBranch=main",
	}, args...)
	cmd := exec.Command("git", full...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
	return strings.TrimSpace(string(out))
}

// newOrigin creates a repository with one commit and returns its path.
func newOrigin(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "origin")
	require.NoError(t, os.MkdirAll(dir, 0o750))
	gitCmd(t, dir, "init")
	commitFile(t, dir, "README", "hello\n")
	return dir
}

func commitFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	gitCmd(t, dir, "add", name)
	gitCmd(t, dir, "commit", "-m", "update "+name)
	return gitCmd(t, dir, "rev-parse", "HEAD")
}

func TestRunner_CloneAndRevParse(t *testing.T) {
	requireGit(t)
	origin := newOrigin(t)
	want := gitCmd(t, origin, "rev-parse", "HEAD")

	dest := filepath.Join(t.TempDir(), "clone")
	r := git.NewRunner()
	require.NoError(t, r.Clone(context.Background(), origin, dest, ports.CloneOptions{}))

	head, err := r.RevParseHead(context.Background(), dest)
	require.NoError(t, err)
	assert.Equal(t, want, strings.TrimSpace(head))
}

func TestRunner_ShallowClone(t *testing.T) {
	requireGit(t)
	origin := newOrigin(t)
	commitFile(t, origin, "second", "2\n")

	dest := filepath.Join(t.TempDir(), "clone")
	r := git.NewRunner()
	require.NoError(t, r.Clone(context.Background(), "file://"+origin, dest, ports.CloneOptions{Depth: 1}))

	count := gitCmd(t, dest, "rev-list", "--count", "HEAD")
	assert.Equal(t, "1", count)
}

func TestRunner_CloneFailureCarriesExitCode(t *testing.T) {
	requireGit(t)
	dest := filepath.Join(t.TempDir(), "clone")

	err := git.NewRunner().Clone(context.Background(), filepath.Join(t.TempDir(), "missing"), dest, ports.CloneOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "git command failed")

	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.NotZero(t, exitErr.ExitCode())
}

func TestRunner_CleanResetPull(t *testing.T) {
	requireGit(t)
	origin := newOrigin(t)
	dest := filepath.Join(t.TempDir(), "clone")
	r := git.NewRunner()
	ctx := context.Background()
	require.NoError(t, r.Clone(ctx, origin, dest, ports.CloneOptions{}))

	// Local modifications and untracked files are discarded.
	require.NoError(t, os.WriteFile(filepath.Join(dest, "README"), []byte("dirty\n"), 0o600))
	require.NoError(t, os.MkdirAll(filepath.Join(dest, "scratch"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dest, "scratch", "tmp"), []byte("x"), 0o600))

	require.NoError(t, r.Clean(ctx, dest))
	require.NoError(t, r.ResetHard(ctx, dest))

	content, err := os.ReadFile(filepath.Join(dest, "README"))
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(content))
	_, err = os.Stat(filepath.Join(dest, "scratch"))
	assert.True(t, os.IsNotExist(err))

	want := commitFile(t, origin, "next", "n\n")
	require.NoError(t, r.Pull(ctx, dest))

	head, err := r.RevParseHead(ctx, dest)
	require.NoError(t, err)
	assert.Equal(t, want, strings.TrimSpace(head))
}

func TestRunner_WithOutput(t *testing.T) {
	requireGit(t)
	var buf bytes.Buffer
	r := git.NewRunner().WithOutput(&buf)

	origin := newOrigin(t)
	_, err := r.RevParseHead(context.Background(), origin)
	require.NoError(t, err)
	assert.Len(t, strings.TrimSpace(buf.String()), 40)
}

func TestRunner_RejectsSubcommands(t *testing.T) {
	r := git.NewRunner()

	_, err := r.Run(context.Background(), "", "push", "origin")
	require.ErrorIs(t, err, domain.ErrGitCommand)

	_, err = r.Run(context.Background(), "")
	require.ErrorIs(t, err, domain.ErrGitCommand)
}

func TestRunner_Version(t *testing.T) {
	requireGit(t)
	v, err := git.NewRunner().Version(context.Background())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(v, "git version"))
}
