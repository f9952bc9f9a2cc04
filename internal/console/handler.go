// Package console provides a slog handler that writes "[LEVEL] message" lines
// for operators watching a run.
package console

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// LevelTrace is the most verbose level; the generator reports its progress here.
const LevelTrace = slog.Level(-8)

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// ParseLevel maps a configured level name to a slog level.
// Unknown names fall back to trace.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return LevelTrace
	}
}

// Label returns the upper-case tag printed for a level.
func Label(l slog.Level) string {
	switch {
	case l < slog.LevelDebug:
		return "TRACE"
	case l < slog.LevelInfo:
		return "DEBUG"
	case l < slog.LevelWarn:
		return "INFO"
	case l < slog.LevelError:
		return "WARN"
	default:
		return "ERROR"
	}
}

// Options configures a Handler.
type Options struct {
	Level slog.Leveler
	Color string
}

// Handler is a slog.Handler producing "[LEVEL] message key=value" lines.
type Handler struct {
	w      io.Writer
	mu     *sync.Mutex
	level  slog.Leveler
	colors map[string]*color.Color
	attrs  []slog.Attr
	group  string
}

var _ slog.Handler = (*Handler)(nil)

// NewHandler creates a Handler writing to w.
func NewHandler(w io.Writer, opts *Options) *Handler {
	h := &Handler{w: w, mu: &sync.Mutex{}, level: LevelTrace}
	mode := ColorAuto
	if opts != nil {
		if opts.Level != nil {
			h.level = opts.Level
		}
		if opts.Color != "" {
			mode = opts.Color
		}
	}
	if useColor(w, mode) {
		h.colors = map[string]*color.Color{
			"TRACE": color.New(color.FgHiBlack),
			"DEBUG": color.New(color.FgCyan),
			"INFO":  color.New(color.FgBlue),
			"WARN":  color.New(color.FgYellow),
			"ERROR": color.New(color.FgRed, color.Bold),
		}
		if mode == ColorAlways {
			for _, c := range h.colors {
				c.EnableColor()
			}
		}
	}
	return h
}

// New returns a *slog.Logger backed by a Handler.
func New(w io.Writer, opts *Options) *slog.Logger {
	return slog.New(NewHandler(w, opts))
}

// useColor enables color for terminals only, unless forced.
func useColor(w io.Writer, mode string) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if w != os.Stdout && w != os.Stderr {
		return false
	}
	// color.NoColor is false only for a TTY without NO_COLOR set.
	return !color.NoColor
}

// Enabled reports whether records at l are written.
func (h *Handler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level.Level()
}

// Handle formats and writes one record.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder

	label := Label(r.Level)
	tag := "[" + label + "]"
	if c, ok := h.colors[label]; ok {
		tag = c.Sprint(tag)
	}
	b.WriteString(tag)
	b.WriteByte(' ')
	b.WriteString(r.Message)

	for _, a := range h.attrs {
		writeAttr(&b, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&b, h.group, a)
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func writeAttr(b *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	key := a.Key
	if prefix != "" {
		key = prefix + "." + key
	}
	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			writeAttr(b, key, ga)
		}
		return
	}
	val := a.Value.String()
	if strings.ContainsAny(val, " \t\"=") {
		val = fmt.Sprintf("%q", val)
	}
	b.WriteByte(' ')
	b.WriteString(key)
	b.WriteByte('=')
	b.WriteString(val)
}

// WithAttrs returns a handler that always appends attrs.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := *h
	nh.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	nh.attrs = append(nh.attrs, h.attrs...)
	for _, a := range attrs {
		if h.group != "" {
			a.Key = h.group + "." + a.Key
		}
		nh.attrs = append(nh.attrs, a)
	}
	return &nh
}

// WithGroup returns a handler that prefixes subsequent attribute keys.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	nh := *h
	if h.group != "" {
		name = h.group + "." + name
	}
	nh.group = name
	return &nh
}

// Trace logs msg at LevelTrace.
func Trace(logger *slog.Logger, msg string, args ...any) {
	logger.Log(context.Background(), LevelTrace, msg, args...)
}
