package git

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/assemble/internal/core/ports"
)

// NodeID is the unique identifier for the git runner Graft node.
const NodeID graft.ID = "adapter.git"

func init() {
	graft.Register(graft.Node[ports.Git]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Git, error) {
			return NewRunner(), nil
		},
	})
}
