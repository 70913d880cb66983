// Package scheduler runs project synchronization across a bounded pool of workers.
package scheduler

import (
	"context"
	"runtime"
	"sync"

	"go.trai.ch/assemble/internal/core/domain"
	"go.trai.ch/assemble/internal/core/ports"
	"go.trai.ch/zerr"
)

// Options controls a single Run.
type Options struct {
	// Workers is the number of projects synchronized concurrently.
	// Zero or less means one worker per logical CPU.
	Workers int
	// CancelOnFailure cancels the context of in-flight projects once a project fails.
	// Without it they run to completion and their results are discarded.
	CancelOnFailure bool
}

// Scheduler dispatches projects to a Synchronizer.
type Scheduler struct {
	sync ports.Synchronizer

	mu     sync.RWMutex
	status map[string]domain.SyncStatus
}

// NewScheduler creates a new Scheduler.
func NewScheduler(sync ports.Synchronizer) *Scheduler {
	return &Scheduler{
		sync:   sync,
		status: make(map[string]domain.SyncStatus),
	}
}

// Run synchronizes projects and returns their outcomes in input order.
//
// The first failed project stops dispatch: projects not yet started are
// skipped, projects already running are awaited, and the failure is returned
// instead of any outcomes. Cancelling ctx behaves the same way and returns the
// context error. Working trees already modified are left as they are.
func (s *Scheduler) Run(ctx context.Context, projects []domain.Project, opts Options) ([]domain.SyncOutcome, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	s.initStatuses(projects)
	state := s.newRunState(ctx, projects, workers, opts.CancelOnFailure)
	defer state.cancel()

	for !state.isDone() {
		state.schedule()
		if state.isDone() {
			break
		}

		// Once stopped only results are awaited; a closed Done channel would spin.
		done := ctx.Done()
		if state.stopped() {
			done = nil
		}

		select {
		case res := <-state.resultsCh:
			state.handleResult(res)
		case <-done:
			state.interrupt(ctx.Err())
		}
	}

	s.skipUnfinished()

	if state.failure != nil {
		return nil, state.failure
	}
	if state.err != nil {
		return nil, zerr.Wrap(state.err, "sync interrupted")
	}
	return state.outcomes, nil
}

func (s *Scheduler) initStatuses(projects []domain.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status = make(map[string]domain.SyncStatus, len(projects))
	for _, p := range projects {
		s.status[p.Path] = domain.SyncStatusPending
	}
}

func (s *Scheduler) updateStatus(path string, status domain.SyncStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status[path] = status
}

// skipUnfinished marks every project that never reached a terminal state as skipped.
func (s *Scheduler) skipUnfinished() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for path, status := range s.status {
		if !status.IsTerminal() {
			s.status[path] = domain.SyncStatusSkipped
		}
	}
}

type result struct {
	index   int
	outcome domain.SyncOutcome
}

type runState struct {
	s               *Scheduler
	projects        []domain.Project
	outcomes        []domain.SyncOutcome
	resultsCh       chan result
	workerCtx       context.Context
	cancel          context.CancelFunc
	cancelOnFailure bool
	workers         int
	next            int
	active          int
	failure         *domain.SyncFailure
	err             error
}

func (s *Scheduler) newRunState(ctx context.Context, projects []domain.Project, workers int, cancelOnFailure bool) *runState {
	workerCtx, cancel := context.WithCancel(ctx)
	return &runState{
		s:               s,
		projects:        projects,
		outcomes:        make([]domain.SyncOutcome, len(projects)),
		resultsCh:       make(chan result, workers),
		workerCtx:       workerCtx,
		cancel:          cancel,
		cancelOnFailure: cancelOnFailure,
		workers:         workers,
	}
}

func (state *runState) stopped() bool {
	return state.failure != nil || state.err != nil
}

func (state *runState) isDone() bool {
	if state.stopped() {
		return state.active == 0
	}
	return state.active == 0 && state.next == len(state.projects)
}

func (state *runState) schedule() {
	for state.next < len(state.projects) && state.active < state.workers &&
		!state.stopped() && state.workerCtx.Err() == nil {
		i := state.next
		p := state.projects[i]
		state.next++
		state.active++
		state.s.updateStatus(p.Path, domain.SyncStatusRunning)

		go func() {
			state.resultsCh <- result{index: i, outcome: state.s.sync.Sync(state.workerCtx, p)}
		}()
	}
}

func (state *runState) handleResult(res result) {
	state.active--
	path := state.projects[res.index].Path

	if !res.outcome.OK() {
		state.s.updateStatus(path, domain.SyncStatusFailed)
		if !state.stopped() {
			state.failure = res.outcome.Failure
			if state.cancelOnFailure {
				state.cancel()
			}
		}
		return
	}

	state.s.updateStatus(path, domain.SyncStatusCompleted)
	state.outcomes[res.index] = res.outcome
}

func (state *runState) interrupt(err error) {
	if state.stopped() {
		return
	}
	state.err = err
	state.cancel()
}
