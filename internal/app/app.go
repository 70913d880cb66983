// Package app implements the application layer for assemble.
package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"

	"go.trai.ch/assemble/internal/core/domain"
	"go.trai.ch/assemble/internal/core/ports"
	"go.trai.ch/assemble/internal/engine/scheduler"
	"go.trai.ch/assemble/internal/engine/syncer"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// logConfigurer is implemented by loggers whose format and level can change at runtime.
type logConfigurer interface {
	Configure(format domain.LogFormat, verbose bool)
}

// App represents the main application logic.
type App struct {
	settings  ports.SettingsLoader
	parser    ports.ManifestParser
	git       ports.Git
	ledger    ports.LedgerStore
	heads     ports.HeadReader
	telemetry ports.Telemetry
	logger    ports.Logger
}

// New creates a new App instance.
func New(
	settings ports.SettingsLoader,
	parser ports.ManifestParser,
	git ports.Git,
	ledger ports.LedgerStore,
	heads ports.HeadReader,
	telemetry ports.Telemetry,
	log ports.Logger,
) *App {
	return &App{
		settings:  settings,
		parser:    parser,
		git:       git,
		ledger:    ledger,
		heads:     heads,
		telemetry: telemetry,
		logger:    log,
	}
}

// LoadSettings reads the workspace settings in root.
func (a *App) LoadSettings(root string) (domain.Settings, error) {
	s, err := a.settings.Load(root)
	if err != nil {
		return domain.Settings{}, zerr.Wrap(err, "failed to load settings")
	}
	return s, nil
}

// ConfigureLogging applies the log format and verbosity of s to the logger.
func (a *App) ConfigureLogging(s domain.Settings) {
	if c, ok := a.logger.(logConfigurer); ok {
		c.Configure(s.LogFormat, s.Verbose)
	}
}

// Sync parses the manifest, synchronizes every project and, only when all
// projects succeeded, replaces the commit ledger.
func (a *App) Sync(ctx context.Context, s domain.Settings) (*domain.Ledger, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	if s.Verbose {
		if v, err := a.git.Version(ctx); err == nil {
			a.logger.Debug("using git", "version", v)
		}
	}

	// 1. Load the manifest
	projects, err := a.parser.Parse(s.ManifestPath(), ports.ParseOptions{Root: s.Root, Depth: s.Depth})
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load manifest")
	}

	workers := s.Jobs
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	a.logger.Info("synchronizing projects", "projects", len(projects), "workers", workers)

	// 2. Synchronize
	sync := syncer.New(a.git, a.telemetry, a.logger, syncer.Config{Root: s.Root, Verbose: s.Verbose})
	sched := scheduler.NewScheduler(sync)
	outcomes, err := sched.Run(ctx, projects, scheduler.Options{
		Workers:         workers,
		CancelOnFailure: s.CancelOnFailure,
	})
	if err != nil {
		a.logger.Error(describeFailure(err))
		a.logger.Warn("commit ledger left unchanged", "ledger", s.LedgerPath())
		return nil, errors.Join(domain.ErrSyncFailed, err)
	}

	// 3. Persist
	l := domain.LedgerFromOutcomes(outcomes)
	if err := a.ledger.Write(s.LedgerPath(), l); err != nil {
		return nil, err
	}
	a.logger.Info("commit ledger written", "ledger", s.LedgerPath(), "projects", l.Len())

	return l, nil
}

// describeFailure restates a project failure as a zerr chain the logger can
// render as a cause list.
func describeFailure(err error) error {
	var f *domain.SyncFailure
	if !errors.As(err, &f) || f.Err == nil {
		return err
	}
	msg := fmt.Sprintf("project %s failed with %s", f.Project, f.Kind)
	return zerr.With(zerr.Wrap(f.Err, msg), "path", f.Path)
}

// Status compares every ledger entry with the commit its working tree is at.
func (a *App) Status(ctx context.Context, s domain.Settings) ([]domain.ProjectStatus, error) {
	l, err := a.ledger.Read(s.LedgerPath())
	if err != nil {
		return nil, err
	}

	entries := l.Entries()
	statuses := make([]domain.ProjectStatus, len(entries))

	g, ctx := errgroup.WithContext(ctx)
	limit := s.Jobs
	if limit <= 0 {
		limit = runtime.NumCPU()
	}
	g.SetLimit(limit)

	for i, e := range entries {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			statuses[i] = a.projectStatus(s.Root, e)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, zerr.Wrap(err, "status interrupted")
	}
	return statuses, nil
}

func (a *App) projectStatus(root string, e domain.LedgerEntry) domain.ProjectStatus {
	st := domain.ProjectStatus{Path: e.Path, Recorded: e.Commit}

	head, err := a.heads.Head(filepath.Join(root, filepath.FromSlash(e.Path)))
	if err != nil {
		a.logger.Debug("cannot read HEAD", "path", e.Path, "error", err.Error())
		st.State = domain.WorkTreeMissing
		return st
	}

	st.Current = head
	if head == e.Commit {
		st.State = domain.WorkTreeInSync
	} else {
		st.State = domain.WorkTreeDrifted
	}
	return st
}
