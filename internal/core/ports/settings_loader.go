package ports

import "go.trai.ch/assemble/internal/core/domain"

// SettingsLoader defines the interface for loading workspace settings.
//
//go:generate go run go.uber.org/mock/mockgen -source=settings_loader.go -destination=mocks/mock_settings_loader.go -package=mocks
type SettingsLoader interface {
	// Load reads the settings file in root, falling back to defaults when it is absent.
	Load(root string) (domain.Settings, error)
}
