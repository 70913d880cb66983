package ports

import (
	"context"

	"go.trai.ch/assemble/internal/core/domain"
)

// Synchronizer brings a single project's working tree up to date.
//
//go:generate go run go.uber.org/mock/mockgen -source=synchronizer.go -destination=mocks/mock_synchronizer.go -package=mocks
type Synchronizer interface {
	// Sync clones or updates p and reports the commit at HEAD.
	// Failures are reported in the outcome rather than as an error.
	Sync(ctx context.Context, p domain.Project) domain.SyncOutcome
}
