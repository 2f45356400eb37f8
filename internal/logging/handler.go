package logging

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/valyala/bytebufferpool"
)

// TimestampLayout is the timestamp format of file sink lines.
const TimestampLayout = "2006-01-02 15:04:05,000"

// separator joins the fields of a rendered line.
const separator = " - "

// lineFormat selects the template a sink renders records with.
type lineFormat int

const (
	// fileFormat renders "<timestamp> - <name> - <LEVEL> - <message>".
	fileFormat lineFormat = iota
	// consoleFormat renders "<name> - <LEVEL> - <message>".
	consoleFormat
)

// textHandler is a slog.Handler writing one line per record to a single sink.
type textHandler struct {
	out    io.Writer
	mu     *sync.Mutex // optional, shared by handlers writing to the same stream
	name   string
	level  slog.Level
	format lineFormat
	style  func(levelName string) string // optional level decoration

	attrs  string // preformatted " key=value" pairs from WithAttrs
	groups string // dotted prefix from WithGroup
}

func newTextHandler(out io.Writer, name string, level slog.Level, format lineFormat) *textHandler {
	return &textHandler{
		out:    out,
		name:   name,
		level:  level,
		format: format,
	}
}

func (h *textHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *textHandler) Handle(_ context.Context, r slog.Record) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if h.format == fileFormat {
		t := r.Time
		if t.IsZero() {
			t = time.Now()
		}
		_, _ = buf.WriteString(t.Format(TimestampLayout))
		_, _ = buf.WriteString(separator)
	}

	levelName := LevelName(r.Level)
	if h.style != nil {
		levelName = h.style(levelName)
	}

	_, _ = buf.WriteString(h.name)
	_, _ = buf.WriteString(separator)
	_, _ = buf.WriteString(levelName)
	_, _ = buf.WriteString(separator)
	_, _ = buf.WriteString(r.Message)
	_, _ = buf.WriteString(h.attrs)

	r.Attrs(func(a slog.Attr) bool {
		appendAttr(buf, h.groups, a)
		return true
	})
	_ = buf.WriteByte('\n')

	if h.mu != nil {
		h.mu.Lock()
		defer h.mu.Unlock()
	}
	_, err := h.out.Write(buf.B)
	return err
}

func (h *textHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	for _, a := range attrs {
		appendAttr(buf, h.groups, a)
	}

	clone := *h
	clone.attrs = h.attrs + buf.String()
	return &clone
}

func (h *textHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	clone := *h
	clone.groups = h.groups + name + "."
	return &clone
}

// appendAttr renders a as " key=value", flattening groups into dotted keys.
func appendAttr(buf *bytebufferpool.ByteBuffer, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		groupPrefix := prefix
		if a.Key != "" {
			groupPrefix += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			appendAttr(buf, groupPrefix, ga)
		}
		return
	}

	_ = buf.WriteByte(' ')
	_, _ = buf.WriteString(prefix)
	_, _ = buf.WriteString(a.Key)
	_ = buf.WriteByte('=')

	var value string
	if a.Value.Kind() == slog.KindTime {
		value = a.Value.Time().Format(time.RFC3339)
	} else {
		value = a.Value.String()
	}
	if value == "" || strings.ContainsAny(value, " =\"\n") {
		value = strconv.Quote(value)
	}
	_, _ = buf.WriteString(value)
}

// fanoutHandler dispatches every record to all of its handlers.
type fanoutHandler []slog.Handler

func (f fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanoutHandler, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanoutHandler) WithGroup(name string) slog.Handler {
	out := make(fanoutHandler, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}

// swapHandler routes records to the sinks currently attached to a Logger.
// Handlers derived with WithAttrs/WithGroup keep following later
// reconfigurations of the same Logger.
type swapHandler struct {
	logger *Logger
	derive func(slog.Handler) slog.Handler
}

func (s *swapHandler) resolve(state *sinkSet) slog.Handler {
	if s.derive != nil {
		return s.derive(state.handler)
	}
	return state.handler
}

func (s *swapHandler) Enabled(_ context.Context, level slog.Level) bool {
	state := s.logger.state.Load()
	return state != nil && level >= state.level
}

// Handle writes r through the current sink set. A set retired by a later
// Setup is not used; its file stays open until every Handle using it is done.
func (s *swapHandler) Handle(ctx context.Context, r slog.Record) error {
	for {
		state := s.logger.state.Load()
		if state == nil {
			return nil
		}

		state.mu.RLock()
		if state.retired {
			state.mu.RUnlock()
			continue // swapped after Load
		}
		err := s.resolve(state).Handle(ctx, r)
		state.mu.RUnlock()
		return err
	}
}

func (s *swapHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return s
	}
	return s.chain(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (s *swapHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return s
	}
	return s.chain(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (s *swapHandler) chain(next func(slog.Handler) slog.Handler) *swapHandler {
	prev := s.derive
	return &swapHandler{
		logger: s.logger,
		derive: func(h slog.Handler) slog.Handler {
			if prev != nil {
				h = prev(h)
			}
			return next(h)
		},
	}
}
