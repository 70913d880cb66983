// Package syncer brings a single project's working tree up to date.
package syncer

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/assemble/internal/core/domain"
	"go.trai.ch/assemble/internal/core/ports"
	"go.trai.ch/zerr"
)

// Config holds construction-time settings of a Syncer.
type Config struct {
	// Root is the workspace root project paths are relative to.
	Root string
	// Verbose streams git output to the logger at debug level.
	Verbose bool
}

// Syncer implements ports.Synchronizer.
//
// A project whose destination does not exist is cloned. An existing
// destination has untracked files and local changes discarded before it is
// pulled, so an interrupted earlier run never leaks into the next one.
type Syncer struct {
	git       ports.Git
	telemetry ports.Telemetry
	logger    ports.Logger
	cfg       Config
}

// New creates a new Syncer.
func New(git ports.Git, telemetry ports.Telemetry, logger ports.Logger, cfg Config) *Syncer {
	return &Syncer{
		git:       git,
		telemetry: telemetry,
		logger:    logger,
		cfg:       cfg,
	}
}

// Sync clones or updates p and reads the commit at HEAD.
func (s *Syncer) Sync(ctx context.Context, p domain.Project) domain.SyncOutcome {
	ctx, vertex := s.telemetry.Record(ctx, p.Path)

	git := s.git
	var lw *lineWriter
	if s.cfg.Verbose {
		lw = newLineWriter(s.logger, p.Path)
		git = git.WithOutput(io.MultiWriter(vertex.Stdout(), lw))
	}

	outcome := s.sync(ctx, git, p)

	if lw != nil {
		lw.Flush()
	}
	if outcome.OK() {
		vertex.Log(domain.LogLevelInfo, "synced "+outcome.Commit)
		s.logger.Debug("project synced", "project", p.Name, "path", p.Path, "commit", outcome.Commit)
	}
	vertex.Complete(outcome.Err())
	return outcome
}

func (s *Syncer) sync(ctx context.Context, git ports.Git, p domain.Project) domain.SyncOutcome {
	dest := filepath.Join(s.cfg.Root, filepath.FromSlash(p.Path))

	_, err := os.Lstat(dest)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		s.logger.Debug("cloning project", "project", p.Name, "url", p.FetchURL, "path", p.Path)
		opts := ports.CloneOptions{Branch: p.Branch, Depth: p.Depth}
		if err := git.Clone(ctx, p.FetchURL, dest, opts); err != nil {
			return domain.Failed(p, domain.FailureClone, err)
		}

	case err != nil:
		return domain.Failed(p, domain.FailureClone, zerr.With(zerr.Wrap(err, "failed to inspect project path"), "path", dest))

	default:
		s.logger.Debug("updating project", "project", p.Name, "path", p.Path)
		if err := git.Clean(ctx, dest); err != nil {
			return domain.Failed(p, domain.FailureReset, err)
		}
		if err := git.ResetHard(ctx, dest); err != nil {
			return domain.Failed(p, domain.FailureReset, err)
		}
		if err := git.Pull(ctx, dest); err != nil {
			return domain.Failed(p, domain.FailurePull, err)
		}
	}

	out, err := git.RevParseHead(ctx, dest)
	if err != nil {
		return domain.Failed(p, domain.FailureCommitRead, err)
	}
	commit := strings.TrimSpace(out)
	if commit == "" {
		return domain.Failed(p, domain.FailureCommitRead, zerr.New("HEAD is empty"))
	}
	if !domain.IsCommitHash(commit) {
		return domain.Failed(p, domain.FailureCommitRead, zerr.With(zerr.New("HEAD is not a commit hash"), "head", commit))
	}
	return domain.Succeeded(p.Path, commit)
}
