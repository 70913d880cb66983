// Package ledger persists the commit ledger as an INI file.
package ledger

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/assemble/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/ini.v1"
)

// Store implements ports.LedgerStore. Each write replaces the whole file.
type Store struct{}

// NewStore creates a new ledger store.
func NewStore() *Store {
	return &Store{}
}

// Write encodes l as a single [commits] section and atomically replaces the file at path.
// Entries that would not read back unchanged are rejected before the file is touched.
func (s *Store) Write(path string, l *domain.Ledger) error {
	path = filepath.Clean(path)

	data, err := encode(l)
	if err != nil {
		return writeErr(err, "failed to encode commit ledger", path)
	}
	if err := verify(l, data); err != nil {
		return writeErr(err, "commit ledger does not round-trip", path)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return writeErr(err, "failed to create directory for commit ledger", path)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return writeErr(err, "failed to create temporary ledger file", path)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return writeErr(err, "failed to write commit ledger", path)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return writeErr(err, "failed to flush commit ledger", path)
	}
	if err := tmp.Close(); err != nil {
		return writeErr(err, "failed to close temporary ledger file", path)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil { //nolint:gosec // the ledger is not secret
		return writeErr(err, "failed to set ledger permissions", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return writeErr(err, "failed to replace commit ledger", path)
	}
	committed = true
	return nil
}

// Read loads the ledger at path. A missing file or section yields an empty ledger.
func (s *Store) Read(path string) (*domain.Ledger, error) {
	path = filepath.Clean(path)

	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.NewLedger(), nil
		}
		return nil, readErr(err, "failed to read commit ledger", path)
	}

	l, err := decode(data)
	if err != nil {
		return nil, readErr(err, "failed to parse commit ledger", path)
	}
	return l, nil
}

func encode(l *domain.Ledger) ([]byte, error) {
	f := ini.Empty()
	sec, err := f.NewSection(domain.LedgerSection)
	if err != nil {
		return nil, err
	}
	for _, e := range l.Entries() {
		if _, err := sec.NewKey(e.Path, e.Commit); err != nil {
			return nil, zerr.With(zerr.Wrap(err, "invalid ledger entry"), "project_path", e.Path)
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decode(data []byte) (*domain.Ledger, error) {
	f, err := ini.Load(data)
	if err != nil {
		return nil, err
	}

	l := domain.NewLedger()
	if !f.HasSection(domain.LedgerSection) {
		return l, nil
	}
	sec, err := f.GetSection(domain.LedgerSection)
	if err != nil {
		return nil, err
	}
	for _, key := range sec.Keys() {
		l.Set(key.Name(), key.Value())
	}
	return l, nil
}

// verify decodes data and checks that it holds exactly the entries of l.
func verify(l *domain.Ledger, data []byte) error {
	got, err := decode(data)
	if err != nil {
		return err
	}
	for _, e := range l.Entries() {
		if commit, ok := got.Commit(e.Path); !ok || commit != e.Commit {
			return zerr.With(zerr.New("entry is lost when read back"), "project_path", e.Path)
		}
	}
	if got.Len() != l.Len() {
		return zerr.With(zerr.New("unexpected entries when read back"), "entries", got.Len())
	}
	return nil
}

func writeErr(err error, msg, path string) error {
	return zerr.With(zerr.Wrap(errors.Join(domain.ErrLedgerWrite, err), msg), "path", path)
}

func readErr(err error, msg, path string) error {
	return zerr.With(zerr.Wrap(errors.Join(domain.ErrLedgerRead, err), msg), "path", path)
}
