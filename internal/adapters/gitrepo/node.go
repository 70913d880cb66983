package gitrepo

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/assemble/internal/core/ports"
)

// NodeID is the unique identifier for the HEAD reader Graft node.
const NodeID graft.ID = "adapter.head_reader"

func init() {
	graft.Register(graft.Node[ports.HeadReader]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.HeadReader, error) {
			return NewHeadReader(), nil
		},
	})
}
