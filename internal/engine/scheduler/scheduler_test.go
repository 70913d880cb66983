package scheduler_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/assemble/internal/core/domain"
	"go.trai.ch/assemble/internal/core/ports/mocks"
	"go.trai.ch/assemble/internal/engine/scheduler"
	"go.uber.org/mock/gomock"
)

func projects(n int) []domain.Project {
	out := make([]domain.Project, n)
	for i := range out {
		out[i] = domain.Project{
			Name: fmt.Sprintf("org/p%d", i),
			Path: fmt.Sprintf("p%d", i),
		}
	}
	return out
}

func commitFor(p domain.Project) string {
	return fmt.Sprintf("%040x", len(p.Path)*1000+int(p.Path[len(p.Path)-1]))
}

type runResult struct {
	outcomes []domain.SyncOutcome
	err      error
}

func TestScheduler_Run_PreservesInputOrder(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockSync := mocks.NewMockSynchronizer(ctrl)
		s := scheduler.NewScheduler(mockSync)

		// Later projects finish first.
		delays := map[string]time.Duration{"p0": 3 * time.Second, "p1": 2 * time.Second, "p2": time.Second}
		mockSync.EXPECT().Sync(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p domain.Project) domain.SyncOutcome {
				time.Sleep(delays[p.Path])
				return domain.Succeeded(p.Path, commitFor(p))
			},
		).Times(3)

		ps := projects(3)
		outcomes, err := s.Run(t.Context(), ps, scheduler.Options{Workers: 3})
		require.NoError(t, err)
		require.Len(t, outcomes, 3)
		for i, p := range ps {
			assert.Equal(t, p.Path, outcomes[i].Path)
			assert.Equal(t, commitFor(p), outcomes[i].Commit)
		}

		for _, st := range s.GetStatusMap() {
			assert.Equal(t, domain.SyncStatusCompleted, st)
		}
	})
}

func TestScheduler_Run_BoundsConcurrency(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockSync := mocks.NewMockSynchronizer(ctrl)
		s := scheduler.NewScheduler(mockSync)

		var active, peak atomic.Int32
		mockSync.EXPECT().Sync(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p domain.Project) domain.SyncOutcome {
				n := active.Add(1)
				for {
					old := peak.Load()
					if n <= old || peak.CompareAndSwap(old, n) {
						break
					}
				}
				time.Sleep(time.Second)
				active.Add(-1)
				return domain.Succeeded(p.Path, commitFor(p))
			},
		).Times(7)

		outcomes, err := s.Run(t.Context(), projects(7), scheduler.Options{Workers: 2})
		require.NoError(t, err)
		assert.Len(t, outcomes, 7)
		assert.Equal(t, int32(2), peak.Load())
	})
}

func TestScheduler_Run_FailFast(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockSync := mocks.NewMockSynchronizer(ctrl)
		s := scheduler.NewScheduler(mockSync)

		release := make(chan struct{})
		mockSync.EXPECT().Sync(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p domain.Project) domain.SyncOutcome {
				switch p.Path {
				case "p0":
					return domain.Failed(p, domain.FailurePull, errors.New("exit status 1"))
				case "p1":
					<-release
					return domain.Succeeded(p.Path, commitFor(p))
				default:
					t.Errorf("project %s must not be dispatched after a failure", p.Path)
					return domain.Succeeded(p.Path, commitFor(p))
				}
			},
		).Times(2)

		done := make(chan runResult)
		go func() {
			outcomes, err := s.Run(context.Background(), projects(4), scheduler.Options{Workers: 2})
			done <- runResult{outcomes, err}
		}()

		synctest.Wait()
		status := s.GetStatusMap()
		assert.Equal(t, domain.SyncStatusFailed, status["p0"])
		assert.Equal(t, domain.SyncStatusRunning, status["p1"])
		assert.Equal(t, domain.SyncStatusPending, status["p2"])

		// The in-flight project is awaited before Run returns.
		close(release)
		res := <-done

		require.Error(t, res.err)
		assert.Nil(t, res.outcomes)
		assert.ErrorIs(t, res.err, domain.ErrPull)

		var failure *domain.SyncFailure
		require.ErrorAs(t, res.err, &failure)
		assert.Equal(t, "org/p0", failure.Project)
		assert.Equal(t, domain.FailurePull, failure.Kind)

		status = s.GetStatusMap()
		assert.Equal(t, domain.SyncStatusCompleted, status["p1"])
		assert.Equal(t, domain.SyncStatusSkipped, status["p2"])
		assert.Equal(t, domain.SyncStatusSkipped, status["p3"])
		for path, st := range status {
			assert.True(t, st.IsTerminal(), "%s left in %s", path, st)
		}
	})
}

func TestScheduler_Run_FailFastAnyPosition(t *testing.T) {
	for _, n := range []int{1, 2, 5, 16} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			synctest.Test(t, func(t *testing.T) {
				ctrl := gomock.NewController(t)
				mockSync := mocks.NewMockSynchronizer(ctrl)
				s := scheduler.NewScheduler(mockSync)

				failing := fmt.Sprintf("p%d", n-1)
				mockSync.EXPECT().Sync(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, p domain.Project) domain.SyncOutcome {
						time.Sleep(time.Second)
						if p.Path == failing {
							return domain.Failed(p, domain.FailureClone, errors.New("exit status 128"))
						}
						return domain.Succeeded(p.Path, commitFor(p))
					},
				).AnyTimes()

				outcomes, err := s.Run(t.Context(), projects(n), scheduler.Options{Workers: 4})
				require.ErrorIs(t, err, domain.ErrClone)
				assert.Nil(t, outcomes)
			})
		})
	}
}

func TestScheduler_Run_CancelOnFailure(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockSync := mocks.NewMockSynchronizer(ctrl)
		s := scheduler.NewScheduler(mockSync)

		mockSync.EXPECT().Sync(gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, p domain.Project) domain.SyncOutcome {
				if p.Path == "p0" {
					time.Sleep(time.Second)
					return domain.Failed(p, domain.FailureReset, errors.New("exit status 1"))
				}
				<-ctx.Done()
				return domain.Failed(p, domain.FailureClone, ctx.Err())
			},
		).Times(2)

		outcomes, err := s.Run(t.Context(), projects(3), scheduler.Options{Workers: 2, CancelOnFailure: true})
		require.ErrorIs(t, err, domain.ErrReset)
		assert.NotErrorIs(t, err, context.Canceled, "the first failure is reported")
		assert.Nil(t, outcomes)

		status := s.GetStatusMap()
		assert.Equal(t, domain.SyncStatusFailed, status["p1"])
		assert.Equal(t, domain.SyncStatusSkipped, status["p2"])
	})
}

func TestScheduler_Run_ContextCancelled(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockSync := mocks.NewMockSynchronizer(ctrl)
		s := scheduler.NewScheduler(mockSync)

		mockSync.EXPECT().Sync(gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, p domain.Project) domain.SyncOutcome {
				<-ctx.Done()
				return domain.Failed(p, domain.FailureClone, ctx.Err())
			},
		).Times(1)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan runResult)
		go func() {
			outcomes, err := s.Run(ctx, projects(3), scheduler.Options{Workers: 1})
			done <- runResult{outcomes, err}
		}()

		synctest.Wait()
		cancel()
		res := <-done

		require.ErrorIs(t, res.err, context.Canceled)
		assert.Nil(t, res.outcomes)

		status := s.GetStatusMap()
		assert.Equal(t, domain.SyncStatusFailed, status["p0"])
		assert.Equal(t, domain.SyncStatusSkipped, status["p1"])
		assert.Equal(t, domain.SyncStatusSkipped, status["p2"])
	})
}

func TestScheduler_Run_AlreadyCancelled(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockSync := mocks.NewMockSynchronizer(ctrl)
	s := scheduler.NewScheduler(mockSync)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Run(ctx, projects(2), scheduler.Options{Workers: 1})
	require.ErrorIs(t, err, context.Canceled)
}

func TestScheduler_Run_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := scheduler.NewScheduler(mocks.NewMockSynchronizer(ctrl))

	outcomes, err := s.Run(context.Background(), nil, scheduler.Options{})
	require.NoError(t, err)
	assert.Empty(t, outcomes)
}

func TestScheduler_Run_DefaultWorkers(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockSync := mocks.NewMockSynchronizer(ctrl)
		s := scheduler.NewScheduler(mockSync)

		mockSync.EXPECT().Sync(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p domain.Project) domain.SyncOutcome {
				return domain.Succeeded(p.Path, commitFor(p))
			},
		).Times(10)

		outcomes, err := s.Run(t.Context(), projects(10), scheduler.Options{Workers: 0})
		require.NoError(t, err)
		assert.Len(t, outcomes, 10)
	})
}
