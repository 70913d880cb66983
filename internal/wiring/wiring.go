// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/assemble/internal/adapters/config"
	_ "go.trai.ch/assemble/internal/adapters/git"
	_ "go.trai.ch/assemble/internal/adapters/gitrepo"
	_ "go.trai.ch/assemble/internal/adapters/ledger"
	_ "go.trai.ch/assemble/internal/adapters/logger"
	_ "go.trai.ch/assemble/internal/adapters/manifest"
	_ "go.trai.ch/assemble/internal/adapters/telemetry/progrock"
	// Register app nodes.
	_ "go.trai.ch/assemble/internal/app"
)
