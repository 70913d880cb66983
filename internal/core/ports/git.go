// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"
)

// CloneOptions narrows what a clone fetches.
type CloneOptions struct {
	// Branch checks out the named branch instead of the remote default.
	Branch string
	// Depth creates a shallow clone truncated to this many commits. Zero means full history.
	Depth int
}

// Git runs the git operations a project synchronization needs.
//
// Every method blocks until the git process exits. A non-zero exit is returned
// as an error carrying the exit code.
//
//go:generate go run go.uber.org/mock/mockgen -source=git.go -destination=mocks/mock_git.go -package=mocks
type Git interface {
	// Clone clones url into dest. dest must not exist.
	Clone(ctx context.Context, url, dest string, opts CloneOptions) error

	// Clean removes untracked files and directories from the working tree at dir.
	Clean(ctx context.Context, dir string) error

	// ResetHard resets the index and working tree at dir to HEAD.
	ResetHard(ctx context.Context, dir string) error

	// Pull fetches and merges the upstream of the current branch at dir.
	Pull(ctx context.Context, dir string) error

	// RevParseHead returns the raw output of reading HEAD at dir.
	RevParseHead(ctx context.Context, dir string) (string, error)

	// Version returns the version string reported by git.
	Version(ctx context.Context) (string, error)

	// WithOutput returns a Git that also copies process output to w.
	WithOutput(w io.Writer) Git
}
