package logging

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/sethvargo/go-githubactions"
)

// ActionHandler is a slog.Handler that writes records as GitHub Actions
// workflow commands. "file" and "line" attributes become annotation fields
// so warnings and errors are attached to the source line.
type ActionHandler struct {
	action *githubactions.Action
	level  slog.Leveler
	attrs  []slog.Attr
	prefix string
}

// NewActionHandler creates a handler writing through action
func NewActionHandler(action *githubactions.Action, level slog.Leveler) *ActionHandler {
	return &ActionHandler{action: action, level: level}
}

// NewActionLogger is a shortcut for slog.New(NewActionHandler(...))
func NewActionLogger(action *githubactions.Action, level slog.Level) *slog.Logger {
	return slog.New(NewActionHandler(action, level))
}

func (h *ActionHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *ActionHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make(map[string]string)

	var b strings.Builder
	b.WriteString(r.Message)

	write := func(a slog.Attr) {
		a.Value = a.Value.Resolve()
		if a.Equal(slog.Attr{}) {
			return
		}

		switch a.Key {
		case "file":
			fields["file"] = a.Value.String()
		case "line":
			fields["line"] = a.Value.String()
		}

		b.WriteByte(' ')
		b.WriteString(a.Key)
		b.WriteByte('=')
		b.WriteString(formatValue(a.Value))
	}

	for _, a := range h.attrs {
		write(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		write(h.qualify(a))
		return true
	})

	action := h.action
	if len(fields) > 0 && r.Level >= slog.LevelWarn {
		action = action.WithFieldsMap(fields)
	}

	msg := b.String()
	switch {
	case r.Level >= slog.LevelError:
		action.Errorf("%s", msg)
	case r.Level >= slog.LevelWarn:
		action.Warningf("%s", msg)
	case r.Level >= slog.LevelInfo:
		action.Infof("%s", msg)
	default:
		action.Debugf("%s", msg)
	}

	return nil
}

func (h *ActionHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append([]slog.Attr(nil), h.attrs...)
	for _, a := range attrs {
		clone.attrs = append(clone.attrs, h.qualify(a))
	}
	return &clone
}

func (h *ActionHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}

func (h *ActionHandler) qualify(a slog.Attr) slog.Attr {
	if h.prefix == "" {
		return a
	}
	a.Key = h.prefix + a.Key
	return a
}

func formatValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		s := v.String()
		if s == "" || strings.ContainsAny(s, " \t\"=") {
			return strconv.Quote(s)
		}
		return s
	case slog.KindGroup:
		parts := make([]string, 0, len(v.Group()))
		for _, a := range v.Group() {
			parts = append(parts, a.Key+"="+formatValue(a.Value.Resolve()))
		}
		return "{" + strings.Join(parts, " ") + "}"
	default:
		return fmt.Sprint(v.Any())
	}
}
