// Package gitrepo reads repository state in-process with go-git.
package gitrepo

import (
	"errors"

	"github.com/go-git/go-git/v5"
	"go.trai.ch/zerr"
)

// ErrNotRepository is returned when dir does not hold a git repository.
var ErrNotRepository = zerr.New("not a git repository")

// HeadReader implements ports.HeadReader.
type HeadReader struct{}

// NewHeadReader creates a new HeadReader.
func NewHeadReader() *HeadReader {
	return &HeadReader{}
}

// Head returns the hash HEAD resolves to in the repository at dir.
func (r *HeadReader) Head(dir string) (string, error) {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return "", zerr.With(zerr.Wrap(ErrNotRepository, "failed to open repository"), "dir", dir)
		}
		return "", zerr.With(zerr.Wrap(err, "failed to open repository"), "dir", dir)
	}

	ref, err := repo.Head()
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to resolve HEAD"), "dir", dir)
	}
	return ref.Hash().String(), nil
}
