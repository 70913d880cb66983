package domain

import "go.trai.ch/zerr"

var (
	// ErrManifestMalformed is returned when the manifest is not well-formed XML or
	// an element is missing a required attribute.
	ErrManifestMalformed = zerr.New("manifest is malformed")

	// ErrUnknownRemote is returned when a project references a remote that has not been declared.
	ErrUnknownRemote = zerr.New("unknown remote")

	// ErrInvalidFetchTemplate is returned when a remote fetch template does not contain exactly one placeholder.
	ErrInvalidFetchTemplate = zerr.New("fetch template must contain exactly one placeholder")

	// ErrInvalidProjectPath is returned when a project path is absolute or escapes the workspace root.
	ErrInvalidProjectPath = zerr.New("project path must be relative to the workspace root")

	// ErrDuplicateProjectPath is returned when two projects in a manifest share a destination path.
	ErrDuplicateProjectPath = zerr.New("duplicate project path")

	// ErrClone is the failure kind for a clone that exited non-zero.
	ErrClone = zerr.New("clone failed")

	// ErrReset is the failure kind for a clean or hard reset that exited non-zero.
	ErrReset = zerr.New("reset failed")

	// ErrPull is the failure kind for a pull that exited non-zero.
	ErrPull = zerr.New("pull failed")

	// ErrCommitRead is the failure kind for a HEAD read that produced no commit.
	ErrCommitRead = zerr.New("commit read failed")

	// ErrSyncFailed is returned when at least one project failed to synchronize.
	ErrSyncFailed = zerr.New("sync failed")

	// ErrLedgerWrite is returned when the commit ledger cannot be written.
	ErrLedgerWrite = zerr.New("failed to write commit ledger")

	// ErrLedgerRead is returned when the commit ledger cannot be read.
	ErrLedgerRead = zerr.New("failed to read commit ledger")

	// ErrSettingsRead is returned when the settings file exists but cannot be read.
	ErrSettingsRead = zerr.New("failed to read settings file")

	// ErrSettingsParse is returned when the settings file cannot be parsed.
	ErrSettingsParse = zerr.New("failed to parse settings file")

	// ErrInvalidSettings is returned when a settings value is out of range.
	ErrInvalidSettings = zerr.New("invalid settings")

	// ErrGitCommand is returned when a git subcommand is rejected before it is run.
	ErrGitCommand = zerr.New("invalid git command")
)
