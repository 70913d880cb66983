// Package report renders ledgers and status reports for the terminal or for
// machine consumption.
package report

import (
	"encoding/json"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"go.trai.ch/assemble/internal/core/domain"
	"go.trai.ch/assemble/internal/ui/style"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Format selects how a report is rendered.
type Format string

const (
	// FormatTable renders an aligned, borderless table.
	FormatTable Format = "table"
	// FormatYAML renders a YAML sequence.
	FormatYAML Format = "yaml"
	// FormatJSON renders an indented JSON array.
	FormatJSON Format = "json"
)

// ErrUnknownFormat is returned for a format other than table, yaml or json.
var ErrUnknownFormat = zerr.New("unknown output format")

const shortCommit = 12

// ParseFormat validates s as a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatTable, FormatYAML, FormatJSON:
		return f, nil
	default:
		return "", zerr.With(zerr.Wrap(ErrUnknownFormat, "cannot render report"), "format", s)
	}
}

// Status writes statuses to w in format f.
func Status(w io.Writer, f Format, statuses []domain.ProjectStatus) error {
	switch f {
	case FormatYAML:
		return encodeYAML(w, statuses)
	case FormatJSON:
		return encodeJSON(w, statuses)
	case FormatTable:
	default:
		return zerr.With(zerr.Wrap(ErrUnknownFormat, "cannot render report"), "format", string(f))
	}

	t := newTable(w, "Path", "State", "Recorded", "Current")
	for _, s := range statuses {
		t.AppendRow(table.Row{
			s.Path,
			style.State(s.State),
			style.Muted.Render(short(s.Recorded)),
			style.Muted.Render(short(s.Current)),
		})
	}
	t.Render()
	return nil
}

// Ledger writes the entries of l to w in format f.
func Ledger(w io.Writer, f Format, l *domain.Ledger) error {
	entries := l.Entries()
	switch f {
	case FormatYAML:
		return encodeYAML(w, entries)
	case FormatJSON:
		return encodeJSON(w, entries)
	case FormatTable:
	default:
		return zerr.With(zerr.Wrap(ErrUnknownFormat, "cannot render report"), "format", string(f))
	}

	t := newTable(w, "Path", "Commit")
	for _, e := range entries {
		t.AppendRow(table.Row{e.Path, style.Muted.Render(e.Commit)})
	}
	t.Render()
	return nil
}

func newTable(w io.Writer, headers ...string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)

	row := make(table.Row, len(headers))
	for i, h := range headers {
		row[i] = style.Header.Render(h)
	}
	t.AppendHeader(row)

	st := table.StyleLight
	st.Options.DrawBorder = false
	st.Format.Header = text.FormatDefault
	t.SetStyle(st)
	return t
}

func short(commit string) string {
	if len(commit) > shortCommit {
		return commit[:shortCommit]
	}
	return commit
}

func encodeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return zerr.Wrap(err, "failed to encode yaml")
	}
	if err := enc.Close(); err != nil {
		return zerr.Wrap(err, "failed to encode yaml")
	}
	return nil
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return zerr.Wrap(err, "failed to encode json")
	}
	return nil
}
