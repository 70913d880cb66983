package domain

import (
	"path/filepath"

	"go.trai.ch/zerr"
)

const (
	// SettingsFileName is the optional per-workspace settings file.
	SettingsFileName = "assemble.yaml"
	// DefaultManifestFile is the manifest read when none is configured.
	DefaultManifestFile = "manifest.xml"
	// StateDirName is the workspace directory holding assemble's own state.
	StateDirName = ".assemble"
	// LedgerFileName is the ledger file inside StateDirName.
	LedgerFileName = "commits.ini"
)

// LogFormat selects the log handler.
type LogFormat string

const (
	// LogFormatAuto picks text on a terminal and JSON otherwise.
	LogFormatAuto LogFormat = "auto"
	// LogFormatText forces human-readable output.
	LogFormatText LogFormat = "text"
	// LogFormatJSON forces JSON lines.
	LogFormatJSON LogFormat = "json"
)

// DefaultLedgerPath returns the ledger location relative to the workspace root.
func DefaultLedgerPath() string {
	return filepath.Join(StateDirName, LedgerFileName)
}

// Settings is the resolved configuration of a sync run.
type Settings struct {
	// Root is the workspace root; project paths are relative to it.
	Root string `yaml:"-"`
	// Manifest is the manifest path, relative to Root unless absolute.
	Manifest string `yaml:"manifest"`
	// Jobs is the worker count. Zero means one worker per logical CPU.
	Jobs int `yaml:"jobs"`
	// Depth limits clone history. Zero means full history.
	Depth int `yaml:"depth"`
	// Ledger is the ledger path, relative to Root unless absolute.
	Ledger string `yaml:"ledger"`
	// Verbose streams git output and enables debug logging.
	Verbose bool `yaml:"verbose"`
	// CancelOnFailure cancels in-flight projects once one project fails.
	CancelOnFailure bool `yaml:"cancelOnFailure"`
	// LogFormat selects the log handler.
	LogFormat LogFormat `yaml:"logFormat"`
}

// DefaultSettings returns the settings used when no file or flag overrides them.
func DefaultSettings() Settings {
	return Settings{
		Root:      ".",
		Manifest:  DefaultManifestFile,
		Ledger:    DefaultLedgerPath(),
		LogFormat: LogFormatAuto,
	}
}

// Validate checks value ranges.
func (s Settings) Validate() error {
	if s.Jobs < 0 {
		return zerr.With(zerr.Wrap(ErrInvalidSettings, "jobs must not be negative"), "jobs", s.Jobs)
	}
	if s.Depth < 0 {
		return zerr.With(zerr.Wrap(ErrInvalidSettings, "depth must not be negative"), "depth", s.Depth)
	}
	switch s.LogFormat {
	case LogFormatAuto, LogFormatText, LogFormatJSON:
	default:
		return zerr.With(zerr.Wrap(ErrInvalidSettings, "unknown log format"), "log_format", string(s.LogFormat))
	}
	return nil
}

// ManifestPath returns the manifest location resolved against Root.
func (s Settings) ManifestPath() string {
	return s.resolve(s.Manifest)
}

// LedgerPath returns the ledger location resolved against Root.
func (s Settings) LedgerPath() string {
	return s.resolve(s.Ledger)
}

func (s Settings) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(s.Root, p)
}
