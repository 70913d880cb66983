// Package git runs the git command line tool for project synchronization.
package git

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"go.trai.ch/assemble/internal/core/domain"
	"go.trai.ch/assemble/internal/core/ports"
	"go.trai.ch/zerr"
)

// stderrTail is the number of trailing stderr bytes attached to a failure.
const stderrTail = 2048

var allowedSubcommands = map[string]struct{}{
	"clean":     {},
	"clone":     {},
	"pull":      {},
	"reset":     {},
	"rev-parse": {},
	"version":   {},
}

// Result holds the captured output of one git invocation.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner implements ports.Git by running the git binary.
type Runner struct {
	binary string
	out    io.Writer
}

// NewRunner creates a Runner that resolves git from PATH.
func NewRunner() *Runner {
	return &Runner{binary: "git"}
}

// WithOutput returns a copy of the runner that also copies stdout and stderr to w.
func (r *Runner) WithOutput(w io.Writer) ports.Git {
	c := *r
	c.out = w
	return &c
}

// Clone runs git clone. Options precede the URL so branch and depth are never
// mistaken for positional arguments.
func (r *Runner) Clone(ctx context.Context, url, dest string, opts ports.CloneOptions) error {
	args := []string{"clone"}
	if opts.Branch != "" {
		args = append(args, "-b", opts.Branch)
	}
	if opts.Depth > 0 {
		args = append(args, "--depth", strconv.Itoa(opts.Depth))
	}
	args = append(args, "--", url, dest)
	_, err := r.run(ctx, "", args...)
	return err
}

// Clean removes untracked files and directories.
func (r *Runner) Clean(ctx context.Context, dir string) error {
	_, err := r.run(ctx, dir, "clean", "-df")
	return err
}

// ResetHard discards index and working tree changes.
func (r *Runner) ResetHard(ctx context.Context, dir string) error {
	_, err := r.run(ctx, dir, "reset", "--hard", "HEAD")
	return err
}

// Pull fetches and merges the upstream branch.
func (r *Runner) Pull(ctx context.Context, dir string) error {
	_, err := r.run(ctx, dir, "pull")
	return err
}

// RevParseHead returns the raw stdout of git rev-parse HEAD.
func (r *Runner) RevParseHead(ctx context.Context, dir string) (string, error) {
	res, err := r.run(ctx, dir, "rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	return res.Stdout, nil
}

// Version returns the output of git version.
func (r *Runner) Version(ctx context.Context) (string, error) {
	res, err := r.run(ctx, "", "version")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(res.Stdout), nil
}

func (r *Runner) run(ctx context.Context, dir string, args ...string) (Result, error) {
	if len(args) == 0 {
		return Result{ExitCode: -1}, zerr.Wrap(domain.ErrGitCommand, "git subcommand is required")
	}
	if _, ok := allowedSubcommands[args[0]]; !ok {
		return Result{ExitCode: -1}, zerr.With(zerr.Wrap(domain.ErrGitCommand, "git subcommand is not allowed"), "subcommand", args[0])
	}

	cmd := exec.CommandContext(ctx, r.binary, args...) //nolint:gosec // subcommand is allow-listed
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if r.out != nil {
		cmd.Stdout = io.MultiWriter(&stdout, r.out)
		cmd.Stderr = io.MultiWriter(&stderr, r.out)
	}

	err := cmd.Run()
	res := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode(err),
	}
	if err != nil {
		wrapped := zerr.With(zerr.Wrap(err, "git command failed"), "args", strings.Join(args, " "))
		wrapped = zerr.With(wrapped, "exit_code", res.ExitCode)
		if dir != "" {
			wrapped = zerr.With(wrapped, "dir", dir)
		}
		if tail := tailOf(res.Stderr); tail != "" {
			wrapped = zerr.With(wrapped, "stderr", tail)
		}
		return res, wrapped
	}
	return res, nil
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return -1
	}
	return exitErr.ExitCode()
}

func tailOf(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > stderrTail {
		s = s[len(s)-stderrTail:]
	}
	return s
}
