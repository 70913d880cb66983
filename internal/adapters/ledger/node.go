package ledger

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/assemble/internal/core/ports"
)

// NodeID is the unique identifier for the ledger store Graft node.
const NodeID graft.ID = "adapter.ledger_store"

func init() {
	graft.Register(graft.Node[ports.LedgerStore]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.LedgerStore, error) {
			return NewStore(), nil
		},
	})
}
