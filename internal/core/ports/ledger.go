package ports

import "go.trai.ch/assemble/internal/core/domain"

// LedgerStore persists the commit ledger.
//
//go:generate go run go.uber.org/mock/mockgen -source=ledger.go -destination=mocks/mock_ledger.go -package=mocks
type LedgerStore interface {
	// Write replaces the ledger at path with l.
	Write(path string, l *domain.Ledger) error

	// Read loads the ledger at path. A missing file yields an empty ledger.
	Read(path string) (*domain.Ledger, error)
}
