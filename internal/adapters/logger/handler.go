package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/assemble/internal/ui/output"
	"go.trai.ch/assemble/internal/ui/style"
)

// ScopeKey is the attribute that names the project a record belongs to. The
// pretty handler prints it as a column in front of the message.
const ScopeKey = "path"

type levelMark struct {
	icon  string
	color lipgloss.Color
}

func markFor(l slog.Level) levelMark {
	switch {
	case l >= slog.LevelError:
		return levelMark{icon: style.Cross, color: style.Red}
	case l >= slog.LevelWarn:
		return levelMark{icon: style.Warning, color: style.Yellow}
	case l < slog.LevelInfo:
		return levelMark{icon: style.Dot, color: style.Slate}
	default:
		return levelMark{color: style.Iris}
	}
}

// PrettyHandler is a slog.Handler for terminals. Records carrying ScopeKey are
// prefixed with that project path so interleaved git output stays readable.
type PrettyHandler struct {
	out    *termenv.Output
	level  slog.Leveler
	attrs  []slog.Attr
	prefix string
}

// NewPrettyHandler creates a new PrettyHandler writing to w.
// A Leveler passed in opts is consulted on every record, so a *slog.LevelVar
// can change the level after construction.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if w == nil {
		w = os.Stderr
	}

	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}

	return &PrettyHandler{
		out:   output.New(w),
		level: level,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats and outputs the log record.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	attrs := append([]slog.Attr(nil), h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		attrs = appendQualified(attrs, h.prefix, a)
		return true
	})

	var scope string
	var b strings.Builder
	mark := markFor(r.Level)
	if mark.icon != "" {
		b.WriteString(mark.icon + " ")
	}
	b.WriteString(r.Message)
	for _, a := range attrs {
		if a.Key == ScopeKey && scope == "" {
			scope = a.Value.String()
			continue
		}
		b.WriteString(" " + a.Key + "=" + quote(a.Value.String()))
	}

	line := h.out.String(b.String()).Foreground(termenv.RGBColor(string(mark.color))).String()
	if scope != "" {
		line = h.out.String(scope+" │").Foreground(termenv.RGBColor(string(style.Slate))).String() + " " + line
	}
	_, err := h.out.WriteString(line + "\n")
	return err
}

// WithAttrs returns a new Handler with the given attributes appended.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append([]slog.Attr(nil), h.attrs...)
	for _, a := range attrs {
		next.attrs = appendQualified(next.attrs, h.prefix, a)
	}
	return &next
}

// WithGroup returns a new Handler that qualifies later attribute keys with name.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = h.prefix + name + "."
	return &next
}

// appendQualified flattens a, including nested groups, into dst with keys
// prefixed by their group path.
func appendQualified(dst []slog.Attr, prefix string, a slog.Attr) []slog.Attr {
	a.Value = a.Value.Resolve()
	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			dst = appendQualified(dst, prefix, ga)
		}
		return dst
	}
	if a.Key == "" {
		return dst
	}
	a.Key = prefix + a.Key
	return append(dst, a)
}

func quote(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return strconv.Quote(s)
	}
	return s
}
