package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/assemble/internal/adapters/config"             //nolint:depguard // Wired in app layer
	"go.trai.ch/assemble/internal/adapters/git"                //nolint:depguard // Wired in app layer
	"go.trai.ch/assemble/internal/adapters/gitrepo"            //nolint:depguard // Wired in app layer
	"go.trai.ch/assemble/internal/adapters/ledger"             //nolint:depguard // Wired in app layer
	"go.trai.ch/assemble/internal/adapters/logger"             //nolint:depguard // Wired in app layer
	"go.trai.ch/assemble/internal/adapters/manifest"           //nolint:depguard // Wired in app layer
	"go.trai.ch/assemble/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/assemble/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			manifest.NodeID,
			git.NodeID,
			ledger.NodeID,
			gitrepo.NodeID,
			progrock.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			progrock.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	settings, err := graft.Dep[ports.SettingsLoader](ctx)
	if err != nil {
		return nil, err
	}

	parser, err := graft.Dep[ports.ManifestParser](ctx)
	if err != nil {
		return nil, err
	}

	gitRunner, err := graft.Dep[ports.Git](ctx)
	if err != nil {
		return nil, err
	}

	store, err := graft.Dep[ports.LedgerStore](ctx)
	if err != nil {
		return nil, err
	}

	heads, err := graft.Dep[ports.HeadReader](ctx)
	if err != nil {
		return nil, err
	}

	telemetry, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(settings, parser, gitRunner, store, heads, telemetry, log), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	a, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	telemetry, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}

	return NewComponents(a, log, telemetry), nil
}
