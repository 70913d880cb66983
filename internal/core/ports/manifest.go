package ports

import "go.trai.ch/assemble/internal/core/domain"

// ParseOptions controls how manifest entries are resolved into projects.
type ParseOptions struct {
	// Root is the workspace root project paths are resolved against.
	Root string
	// Depth is copied into every project. Zero means full history.
	Depth int
}

// ManifestParser reads a manifest into resolved projects.
//
//go:generate go run go.uber.org/mock/mockgen -source=manifest.go -destination=mocks/mock_manifest.go -package=mocks
type ManifestParser interface {
	// Parse reads the manifest at path and returns its projects in document order.
	Parse(path string, opts ParseOptions) ([]domain.Project, error)
}
