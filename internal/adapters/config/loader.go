// Package config provides the workspace settings loader for assemble.
package config

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/assemble/internal/core/domain"
	"go.trai.ch/assemble/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// FileSettingsLoader implements ports.SettingsLoader using a YAML file.
type FileSettingsLoader struct {
	Filename string
	logger   ports.Logger
}

// NewLoader creates a loader reading domain.SettingsFileName.
func NewLoader(logger ports.Logger) *FileSettingsLoader {
	return &FileSettingsLoader{
		Filename: domain.SettingsFileName,
		logger:   logger,
	}
}

// Load reads the settings file in root. A missing file yields the defaults.
func (l *FileSettingsLoader) Load(root string) (domain.Settings, error) {
	path := filepath.Join(root, l.Filename)
	s, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		l.logger.Debug("no settings file, using defaults", "file", path)
		s = domain.DefaultSettings()
		err = nil
	}
	if err != nil {
		return domain.Settings{}, err
	}
	s.Root = root
	return s, nil
}

// Load reads a settings file from the given path on top of the defaults.
func Load(path string) (domain.Settings, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.Settings{}, err
		}
		return domain.Settings{}, zerr.With(zerr.Wrap(errors.Join(domain.ErrSettingsRead, err), "failed to read settings file"), "path", path)
	}

	s := domain.DefaultSettings()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return domain.Settings{}, zerr.With(zerr.Wrap(errors.Join(domain.ErrSettingsParse, err), "failed to parse settings file"), "path", path)
	}

	if s.Manifest == "" {
		s.Manifest = domain.DefaultManifestFile
	}
	if s.Ledger == "" {
		s.Ledger = domain.DefaultLedgerPath()
	}
	if s.LogFormat == "" {
		s.LogFormat = domain.LogFormatAuto
	}

	if err := s.Validate(); err != nil {
		return domain.Settings{}, zerr.With(err, "path", path)
	}
	return s, nil
}
