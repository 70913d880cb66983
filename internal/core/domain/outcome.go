package domain

import (
	"fmt"

	"go.trai.ch/zerr"
)

// FailureKind classifies why a single project failed to synchronize.
type FailureKind string

const (
	// FailureClone means the clone of a missing project exited non-zero.
	FailureClone FailureKind = "CloneError"
	// FailureReset means discarding local changes of an existing project exited non-zero.
	FailureReset FailureKind = "ResetError"
	// FailurePull means fetching and merging the remote default branch exited non-zero.
	FailurePull FailureKind = "PullError"
	// FailureCommitRead means no commit could be read at HEAD after clone or update.
	FailureCommitRead FailureKind = "CommitReadError"
)

// Sentinel returns the error value errors.Is matches for the kind.
func (k FailureKind) Sentinel() error {
	switch k {
	case FailureClone:
		return ErrClone
	case FailureReset:
		return ErrReset
	case FailurePull:
		return ErrPull
	case FailureCommitRead:
		return ErrCommitRead
	default:
		return zerr.New(string(k))
	}
}

// SyncFailure is the failure half of a SyncOutcome.
type SyncFailure struct {
	Project string
	Path    string
	Kind    FailureKind
	Err     error
}

// Error implements error.
func (f *SyncFailure) Error() string {
	msg := fmt.Sprintf("project %q (%s): %s", f.Project, f.Path, f.Kind)
	if f.Err != nil {
		msg += ": " + f.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (f *SyncFailure) Unwrap() []error {
	if f.Err == nil {
		return []error{f.Kind.Sentinel()}
	}
	return []error{f.Kind.Sentinel(), f.Err}
}

// SyncOutcome is the result of synchronizing one project: either a commit for
// the project's path, or a failure.
type SyncOutcome struct {
	Path    string
	Commit  string
	Failure *SyncFailure
}

// Succeeded returns a successful outcome.
func Succeeded(path, commit string) SyncOutcome {
	return SyncOutcome{Path: path, Commit: commit}
}

// Failed returns a failed outcome for p.
func Failed(p Project, kind FailureKind, err error) SyncOutcome {
	return SyncOutcome{
		Path: p.Path,
		Failure: &SyncFailure{
			Project: p.Name,
			Path:    p.Path,
			Kind:    kind,
			Err:     err,
		},
	}
}

// OK reports whether the outcome is a success.
func (o SyncOutcome) OK() bool {
	return o.Failure == nil
}

// Err returns the failure as an error, or nil for a success.
func (o SyncOutcome) Err() error {
	if o.Failure == nil {
		return nil
	}
	return o.Failure
}
