// Package manifest reads XML workspace manifests into resolved projects.
package manifest

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"go.trai.ch/assemble/internal/core/domain"
	"go.trai.ch/assemble/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	elementRemote  = "remote"
	elementDefault = "default"
	elementProject = "project"
)

// Parser implements ports.ManifestParser.
type Parser struct{}

// NewParser creates a new manifest parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse reads the manifest at path, creates the parent directory of every
// project path under opts.Root and returns the projects in document order.
func (p *Parser) Parse(path string, opts ports.ParseOptions) ([]domain.Project, error) {
	f, err := os.Open(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to open manifest"), "path", path)
	}
	defer func() { _ = f.Close() }()

	projects, err := Decode(f, opts.Depth)
	if err != nil {
		return nil, zerr.With(err, "manifest", path)
	}

	for _, proj := range projects {
		parent := filepath.Dir(filepath.Join(opts.Root, proj.Path))
		if err := os.MkdirAll(parent, 0o750); err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to create project parent directory"), "path", parent)
		}
	}
	return projects, nil
}

// Decode walks the manifest document once, top to bottom. Remote and default
// declarations only affect projects that follow them.
func Decode(r io.Reader, depth int) ([]domain.Project, error) {
	dec := xml.NewDecoder(r)
	d := &decoder{
		table: domain.NewRemoteTable(),
		paths: make(map[string]string),
		depth: depth,
	}
	level := 0
	sawRoot := false

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		line, _ := dec.InputPos()
		if err != nil {
			return nil, malformed(err, "manifest is not well-formed XML", line)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if level == 0 && sawRoot {
				return nil, malformed(zerr.New("more than one root element"), "manifest is not well-formed XML", line)
			}
			sawRoot = true
			level++
			if err := d.element(t, line); err != nil {
				return nil, err
			}
		case xml.EndElement:
			level--
		case xml.CharData:
			if level == 0 && len(bytes.TrimSpace(t)) > 0 {
				return nil, malformed(zerr.New("text outside the root element"), "manifest is not well-formed XML", line)
			}
		}
	}

	if !sawRoot {
		return nil, malformed(zerr.New("document has no root element"), "manifest is not well-formed XML", 0)
	}
	return d.projects, nil
}

type decoder struct {
	table    *domain.RemoteTable
	paths    map[string]string
	projects []domain.Project
	depth    int
}

func (d *decoder) element(start xml.StartElement, line int) error {
	switch start.Name.Local {
	case elementRemote:
		remote, err := domain.NewRemote(attr(start, "name"), attr(start, "fetch"))
		if err != nil {
			return malformed(err, "invalid remote element", line)
		}
		d.table.Declare(remote)

	case elementDefault:
		d.table.SetDefault(attr(start, "remote"))

	case elementProject:
		proj, err := d.project(start, line)
		if err != nil {
			return err
		}
		if other, dup := d.paths[proj.Path]; dup {
			err := zerr.With(zerr.Wrap(domain.ErrDuplicateProjectPath, "path is already used"), "path", proj.Path)
			err = zerr.With(err, "first_project", other)
			return malformed(zerr.With(err, "project", proj.Name), "invalid project element", line)
		}
		d.paths[proj.Path] = proj.Name
		d.projects = append(d.projects, proj)
	}
	return nil
}

func (d *decoder) project(start xml.StartElement, line int) (domain.Project, error) {
	name := attr(start, "name")
	path := attr(start, "path")
	if name == "" {
		return domain.Project{}, malformed(zerr.New("project without name"), "invalid project element", line)
	}
	if path == "" {
		return domain.Project{}, malformed(zerr.With(zerr.New("project without path"), "project", name), "invalid project element", line)
	}

	cleaned, err := cleanPath(path)
	if err != nil {
		return domain.Project{}, malformed(zerr.With(err, "project", name), "invalid project element", line)
	}

	// An undeclared remote is its own failure kind, not a malformed document.
	url, err := d.table.Resolve(attr(start, "remote"), name)
	if err != nil {
		return domain.Project{}, atLine(zerr.Wrap(err, "invalid project element"), line)
	}

	return domain.Project{
		Name:     name,
		FetchURL: url,
		Depth:    d.depth,
		Path:     cleaned,
	}, nil
}

// cleanPath rejects absolute paths, paths that leave the workspace root and
// paths the commit ledger cannot store as a key.
func cleanPath(path string) (string, error) {
	if filepath.IsAbs(path) || strings.HasPrefix(path, "/") {
		return "", zerr.With(zerr.Wrap(domain.ErrInvalidProjectPath, "path is absolute"), "path", path)
	}
	cleaned := filepath.Clean(filepath.FromSlash(path))
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", zerr.With(zerr.Wrap(domain.ErrInvalidProjectPath, "path escapes the workspace root"), "path", path)
	}
	if strings.ContainsAny(cleaned[:1], "#;[") || strings.ContainsFunc(cleaned, unicode.IsControl) {
		return "", zerr.With(zerr.Wrap(domain.ErrInvalidProjectPath, "path cannot be recorded in the commit ledger"), "path", path)
	}
	return filepath.ToSlash(cleaned), nil
}

func attr(start xml.StartElement, name string) string {
	for _, a := range start.Attr {
		if a.Name.Local == name {
			return strings.TrimSpace(a.Value)
		}
	}
	return ""
}

func malformed(err error, msg string, line int) error {
	if !errors.Is(err, domain.ErrManifestMalformed) {
		err = fmt.Errorf("%w: %w", domain.ErrManifestMalformed, err)
	}
	return atLine(zerr.Wrap(err, msg), line)
}

func atLine(err error, line int) error {
	if line > 0 {
		return zerr.With(err, "line", line)
	}
	return err
}
